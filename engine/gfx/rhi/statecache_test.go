package rhi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepeatedStateChangesAreFree(t *testing.T) {
	tests := []struct {
		name   string
		change func(r *Renderer, t *Target)
	}{
		{"blending", func(r *Renderer, _ *Target) { r.changeBlending(true) }},
		{"depth test", func(r *Renderer, _ *Target) { r.changeDepthTest(true) }},
		{"depth write", func(r *Renderer, _ *Target) { r.changeDepthWrite(false) }},
		{"depth function", func(r *Renderer, _ *Target) { r.changeDepthFunction(CompareGreater) }},
		{"texturing", func(r *Renderer, _ *Target) { r.changeTexturing(false) }},
		{"shape", func(r *Renderer, _ *Target) { r.changeShape(Lines) }},
		{"program", func(r *Renderer, _ *Target) {
			_, untextured := r.ctx().DefaultPrograms()
			r.changeProgram(untextured)
		}},
		{"viewport", func(r *Renderer, t *Target) {
			t.Viewport = Rect{10, 10, 100, 100}
			r.changeViewport(t)
		}},
		{"framebuffer", func(r *Renderer, t *Target) { r.SetActiveTarget(t) }},
		{"blend mode", func(r *Renderer, _ *Target) {
			mode, _ := BlendModeFromPreset(BlendAdd)
			r.changeBlendMode(mode)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := openTestRenderer(t)
			tt.change(rig.r, rig.screen)
			rig.drv.reset()

			tt.change(rig.r, rig.screen)
			assert.Zero(t, rig.drv.total(), "second change issued %v", rig.drv.calls)
		})
	}
}

func TestViewportFlipsToBottomLeftOrigin(t *testing.T) {
	rig := openTestRenderer(t)
	rig.r.SetViewport(rig.screen, Rect{10, 20, 200, 100})
	rig.r.changeViewport(rig.screen)
	assert.Equal(t, Rect{10, 20, 200, 100}, rig.r.cdata().lastViewport)
	assert.Equal(t, [4]int32{10, 480, 200, 100}, rig.drv.viewport)

	rig.r.SetCoordinateMode(true)
	rig.r.forceChangeViewport(rig.screen, rig.screen.Viewport)
	assert.Equal(t, [4]int32{10, 20, 200, 100}, rig.drv.viewport)
}

func TestLegacyTexturingToggle(t *testing.T) {
	rig := openTestRenderer(t)
	rig.drv.reset()
	rig.r.changeTexturing(false)
	assert.Zero(t, rig.drv.count("Disable"))

	rig.backend.legacy = true
	rig.r.changeTexturing(true)
	assert.Equal(t, 1, rig.drv.count("Enable"))
}

func TestBlendModeWithoutSeparateFactorsReportsError(t *testing.T) {
	rig := openTestRenderer(t)
	rig.r.enabledFeatures &^= FeatureBlendFuncSeparate
	mode := BlendMode{
		SourceColor: FuncSrcAlpha, DestColor: FuncOneMinusSrcAlpha,
		SourceAlpha: FuncOne, DestAlpha: FuncZero,
		ColorEquation: EqAdd, AlphaEquation: EqAdd,
	}
	rig.r.changeBlendMode(mode)

	e, ok := rig.reg.PopError()
	assert.True(t, ok)
	assert.ErrorIs(t, e, ErrBackend)
	assert.Zero(t, rig.drv.count("BlendFuncSeparate"))
}
