package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hubastard/grove-rhi/engine/core"
	gldriver "github.com/hubastard/grove-rhi/engine/gfx/gl"
	glesdriver "github.com/hubastard/grove-rhi/engine/gfx/gles"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi/backend"
	"github.com/hubastard/grove-rhi/engine/platform"
	"github.com/hubastard/grove-rhi/engine/profiler"
	"github.com/hubastard/grove-rhi/engine/text"
)

type App struct {
	lastFrame  time.Time
	tick       int
	font       *text.Font
	scene      *LayerScene
	debugLayer *LayerDebug
	shaderDir  string
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 16)

	var err error
	a.font, err = text.Default(e.Renderer, 16)
	if err != nil {
		slog.Error("font", "error", err)
		e.RequestClose()
		return
	}

	a.scene = &LayerScene{shaderDir: a.shaderDir}
	e.Layers.Push(a.scene)

	a.debugLayer = &LayerDebug{font: a.font, visible: true}
	e.Layers.Push(a.debugLayer)
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.tick++

	now := time.Now()
	if a.debugLayer != nil && !a.lastFrame.IsZero() {
		a.debugLayer.frameDuration = float32(now.Sub(a.lastFrame).Seconds() * 1000.0)
		a.debugLayer.tick = a.tick
	}
	a.lastFrame = now
}

func (a *App) OnRender(e *core.Engine, alpha float64) {}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down {
		switch k.Key {
		case core.KeyEscape:
			e.RequestClose()
		case core.KeyF11:
			e.Renderer.SetFullscreen(!e.Renderer.Windows().IsFullscreen(e.Screen.Context().WindowID), true)
		}
	}
}

func (a *App) OnShutdown(e *core.Engine) { a.font.Close() }

func main() {
	configPath := flag.String("config", "config.toml", "path of the TOML config")
	shaderDir := flag.String("shaders", "shaders", "directory of the hot-reloaded demo shaders")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	rhi.SetLogger(logger)
	if err != nil {
		slog.Info("config file not found, using defaults", "path", *configPath)
	}

	newPlatform := func(core.Config) (core.Platform, error) {
		return platform.NewGLFW(nil)
	}
	drivers := backend.Drivers{Desktop: gldriver.New, ES: glesdriver.New}

	if err := core.Run(&App{shaderDir: *shaderDir}, cfg, newPlatform, drivers); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}
