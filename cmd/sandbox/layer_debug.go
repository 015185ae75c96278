package main

import (
	"fmt"
	"log/slog"

	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/core"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
	"github.com/hubastard/grove-rhi/engine/profiler"
	"github.com/hubastard/grove-rhi/engine/text"
	"github.com/hubastard/grove-rhi/engine/ui"
)

// LayerDebug draws frame, renderer and runtime counters in the top-left
// corner. F1 toggles it.
type LayerDebug struct {
	font          *text.Font
	visible       bool
	frameDuration float32
	tick          int
	panel         *ui.UIView
}

func heading(s string) *ui.UILabel { return ui.Label(s).Padding4(0, 8, 0, 0).Color(colors.Yellow) }

func (l *LayerDebug) OnAttach(e *core.Engine) {}
func (l *LayerDebug) OnDetach(e *core.Engine) {}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {
	if !l.visible || l.tick%15 != 0 {
		return
	}
	r := e.Renderer
	st := r.Stats()
	rt := profiler.Runtime()
	lo, hi := r.ShaderVersions()
	fps := float32(0)
	if l.frameDuration > 0 {
		fps = 1000 / l.frameDuration
	}
	l.panel = ui.View(
		ui.View(
			heading("Frame"),
			ui.Label(fmt.Sprintf("  %d: %2.3f ms (%.2f FPS)", l.tick, l.frameDuration, fps)),
			heading("Renderer"),
			ui.Label(fmt.Sprintf("  %s, GLSL %d..%d", r.ID(), lo, hi)),
			ui.Label(fmt.Sprintf("  Features: %#x", uint32(r.EnabledFeatures()))),
			ui.Label(fmt.Sprintf("  Draw calls: %d  Flushes: %d", st.DrawCalls, st.Flushes)),
			ui.Label(fmt.Sprintf("  Sprites: %d  Vertices: %d  Indices: %d", st.Sprites, st.Vertices, st.Indices)),
			heading("Memory"),
			ui.Label(fmt.Sprintf("  Heap: %.3f MB  Allocs: %d  GC: %d", float32(rt.HeapAlloc)/(1<<20), rt.Mallocs, rt.NumGC)),
			ui.Label(fmt.Sprintf("  Goroutines: %d  CPUs: %d", rt.Goroutines, rt.CPUs)),
		).
			FlowDirection(ui.LayoutVertical).
			Gap(2).
			Padding(12).
			BgColor(colors.Black.WithAlpha(160)),
	).Padding(16)
}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("LayerDebug.OnRender")()
	if !l.visible || l.panel == nil {
		return
	}
	w, h := e.FramebufferSize()
	err := l.panel.Render(&ui.Context{
		Renderer: e.Renderer,
		Target:   e.Screen,
		Viewport: rhi.MakeRect(0, 0, float32(w), float32(h)),
		Font:     l.font,
	})
	if err != nil {
		slog.Warn("debug overlay", "error", err)
		l.visible = false
	}
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyF1 {
		l.visible = !l.visible
		return true
	}
	return false
}
