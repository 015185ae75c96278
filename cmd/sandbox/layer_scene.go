package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chewxy/math32"

	"github.com/hubastard/grove-rhi/engine/assets"
	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/core"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
	"github.com/hubastard/grove-rhi/engine/profiler"
	"github.com/hubastard/grove-rhi/engine/scene"
)

const (
	checkerSize   = 64
	offscreenSize = 256
)

// LayerScene draws a world under a movable camera: a sprite field, the
// shape family and an offscreen target composited back as an image.
type LayerScene struct {
	ctrl      *scene.CameraController
	checker   *rhi.Image
	offscreen *rhi.Image
	offTarget *rhi.Target
	shaderDir string
	tint      *tintShader
	t         float32
}

func checkerSurface() *rhi.Surface {
	s := rhi.NewSurface(checkerSize, checkerSize, rhi.FormatRGBA)
	for y := range checkerSize {
		for x := range checkerSize {
			c := colors.White
			if (x/8+y/8)%2 == 1 {
				c = colors.RGBA(90, 140, 220, 255)
			}
			copy(s.Pixels[y*s.Pitch+x*4:], []byte{c.R, c.G, c.B, c.A})
		}
	}
	return s
}

func (l *LayerScene) OnAttach(e *core.Engine) {
	r := e.Renderer
	l.ctrl = scene.NewCameraController()

	var err error
	if l.checker, err = r.CreateImageFromSurface(checkerSurface(), nil); err != nil {
		slog.Error("checker image", "error", err)
		return
	}
	r.SetImageFilter(l.checker, rhi.FilterNearest)

	if l.tint, err = newTintShader(r, l.shaderDir); err != nil {
		slog.Info("tint shader unavailable, using default programs", "error", err)
	}

	if !r.IsFeatureEnabled(rhi.FeatureRenderTargets) {
		slog.Info("render targets unavailable, skipping offscreen demo")
		return
	}
	if l.offscreen, err = r.CreateImage(offscreenSize, offscreenSize, rhi.FormatRGBA); err != nil {
		slog.Error("offscreen image", "error", err)
		return
	}
	if l.offTarget, err = r.LoadTarget(l.offscreen); err != nil {
		slog.Error("offscreen target", "error", err)
	}
}

func (l *LayerScene) OnDetach(e *core.Engine) {
	r := e.Renderer
	if l.tint != nil {
		l.tint.free(r)
	}
	if l.offTarget != nil {
		r.FreeTarget(l.offTarget)
	}
	if l.offscreen != nil {
		r.FreeImage(l.offscreen)
	}
	if l.checker != nil {
		r.FreeImage(l.checker)
	}
}

func (l *LayerScene) OnUpdate(e *core.Engine, dt float64) {
	l.ctrl.Update(e.Input, float32(dt))
	l.t += float32(dt)
	if l.tint != nil {
		l.tint.reload(e.Renderer)
	}
}

func (l *LayerScene) renderOffscreen(r *rhi.Renderer) {
	t := l.offTarget
	r.ClearRGBA(t, colors.RGBA(30, 30, 50, 255))
	c := float32(offscreenSize) / 2
	for i := range 6 {
		a := l.t + float32(i)*math32.Pi/3
		s, co := math32.Sincos(a)
		r.CircleFilled(t, c+co*80, c+s*80, 18, colors.RGBA(255, uint8(40*i), 80, 255))
	}
	r.ArcFilled(t, c, c, 50, 0, math32.Mod(l.t*90, 360), colors.Yellow)
	r.Rectangle(t, 4, 4, offscreenSize-4, offscreenSize-4, colors.White)
}

func (l *LayerScene) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("LayerScene.OnRender")()
	if l.checker == nil {
		return
	}
	r, screen := e.Renderer, e.Screen
	if l.offTarget != nil {
		l.renderOffscreen(r)
	}

	prev := r.SetCamera(screen, &l.ctrl.Camera)
	defer r.SetCamera(screen, &prev)

	tinted := l.tint != nil && l.tint.begin(r, l.t) == nil
	for i := range 10 {
		for j := range 6 {
			x := float32(120 + i*110)
			y := float32(120 + j*100)
			deg := l.t*45 + float32(i*j)*10
			scale := 0.75 + 0.25*math32.Sin(l.t+float32(i+j))
			r.BlitTransform(l.checker, nil, screen, x, y, deg, scale, scale)
		}
	}
	if tinted {
		if err := l.tint.end(r); err != nil {
			slog.Warn("tint shader", "error", err)
		}
	}

	r.SetLineThickness(3)
	r.Line(screen, 40, 40, 1240, 40, colors.Red)
	r.Circle(screen, 640, 360, 300, colors.Green)
	r.EllipseFilled(screen, 640, 360, 60, 30, l.t*30, colors.RGBA(255, 160, 0, 160))
	r.TriFilled(screen, 60, 680, 160, 680, 110, 600, colors.Blue)
	r.Polyline(screen, []float32{1000, 600, 1080, 680, 1160, 600, 1240, 680}, colors.White, false)
	r.SetLineThickness(1)

	if l.offTarget != nil {
		dest := rhi.MakeRect(1280-offscreenSize-20, 720-offscreenSize-20, offscreenSize, offscreenSize)
		r.BlitRect(l.offscreen, nil, screen, &dest)
	}
}

func (l *LayerScene) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return false
	}
	switch k.Key {
	case core.KeySpace:
		path := fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))
		if err := assets.SaveTarget(e.Renderer, e.Screen, path); err != nil {
			slog.Warn("screenshot", "error", err)
		} else {
			slog.Info("screenshot saved", "path", path)
		}
		return true
	case core.KeyF12:
		path, err := profiler.OpenProfilerGraph()
		if err != nil {
			slog.Warn("profiler dump", "error", err)
		} else if path != "" {
			slog.Info("speedscope dump", "path", path)
		}
		return true
	}
	return false
}
