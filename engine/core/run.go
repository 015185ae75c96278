package core

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi/backend"
	"github.com/hubastard/grove-rhi/engine/profiler"
)

// Run opens the platform, picks the first renderer in the configured order
// that works and executes the main loop.
func Run(app App, cfg Config, newPlatform func(Config) (Platform, error), drivers backend.Drivers) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()

	plat, err := newPlatform(cfg)
	if err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	defer plat.Terminate()

	opts, err := cfg.RegistryOptions()
	if err != nil {
		return err
	}
	reg := rhi.NewRegistry(opts...)
	defer reg.Shutdown()
	if _, err := backend.RegisterBuiltins(reg, drivers, plat, cfg.RendererOptions()...); err != nil {
		return fmt.Errorf("register renderers: %w", err)
	}

	screen, err := reg.Open(cfg.Window.Width, cfg.Window.Height, cfg.InitFlags())
	if err != nil {
		return fmt.Errorf("open renderer: %w", err)
	}
	plat.SetTitle(cfg.Window.Title)
	r := screen.Renderer()
	r.SetCoordinateMode(cfg.Renderer.CoordinateMode)
	if cfg.Window.Fullscreen {
		r.SetFullscreen(true, true)
	}
	slog.Info("renderer ready", "renderer", r.ID().String(), "features", fmt.Sprintf("%#x", uint32(r.EnabledFeatures())))

	eng := &Engine{
		Config:   cfg,
		Window:   plat,
		Registry: reg,
		Renderer: r,
		Screen:   screen,
		Input:    NewInput(),
		start:    time.Now(),
	}
	plat.SetEventCallback(func(ev Event) { eng.handleEvent(app, ev) })

	app.OnStart(eng)
	eng.loop(app)
	app.OnShutdown(eng)

	eng.Layers.ForEach(func(l Layer) { l.OnDetach(eng) })
	drainErrors(reg)
	slog.Info("engine exit", "uptime", eng.Uptime().Round(time.Millisecond))
	return nil
}

func (e *Engine) handleEvent(app App, ev Event) {
	e.Input.Handle(ev)
	switch v := ev.(type) {
	case EventResize:
		if v.W >= 1 && v.H >= 1 {
			e.Renderer.SetWindowResolution(v.W, v.H)
		}
	case EventCloseRequested:
		e.quit = true
	}
	if e.Layers.Dispatch(e, ev) {
		return
	}
	app.OnEvent(e, ev)
}

func (e *Engine) loop(app App) {
	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = e.Config.ClearColor()
		maxStep = 10 // prevent spiral of death
	)

	for !e.quit && !e.Window.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		e.Window.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			app.OnUpdate(e, dt)
			e.Layers.ForEach(func(l Layer) { l.OnUpdate(e, dt) })
			accum -= tick
			steps++
		}
		alpha := float64(accum) / float64(tick)

		endFrame := profiler.Start("core.Frame")
		e.Renderer.ClearRGBA(e.Screen, clear)
		app.OnRender(e, alpha)
		e.Layers.ForEach(func(l Layer) { l.OnRender(e, alpha) })
		e.Renderer.Flip(e.Screen)
		endFrame()

		drainErrors(e.Registry)
	}
}

// drainErrors logs and clears the renderer error queue.
func drainErrors(reg *rhi.Registry) {
	for {
		err, ok := reg.PopError()
		if !ok {
			return
		}
		slog.Warn("renderer error", "error", err)
	}
}
