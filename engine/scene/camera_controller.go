// Package scene holds gameplay-side helpers that sit on top of the renderer.
package scene

import (
	"github.com/chewxy/math32"

	"github.com/hubastard/grove-rhi/engine/core"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// CameraController moves an rhi.Camera from keyboard and wheel input:
// WASD pans, Q/E rotates and the wheel zooms about the view center.
type CameraController struct {
	MoveSpeed  float32 // pixels per second at zoom 1
	RotSpeed   float32 // degrees per second
	ZoomFactor float32 // zoom multiplier per wheel notch
	MinZoom    float32
	MaxZoom    float32
	Camera     rhi.Camera
}

func NewCameraController() *CameraController {
	return &CameraController{
		MoveSpeed:  400,
		RotSpeed:   90,
		ZoomFactor: 1.1,
		MinZoom:    0.05,
		MaxZoom:    20,
		Camera:     rhi.DefaultCamera(),
	}
}

// Update advances the camera by dt seconds of input.
func (cc *CameraController) Update(in *core.Input, dt float32) {
	step := cc.MoveSpeed * dt / cc.Camera.ZoomX
	if in.IsKeyDown(core.KeyW) {
		cc.Camera.Y -= step
	}
	if in.IsKeyDown(core.KeyS) {
		cc.Camera.Y += step
	}
	if in.IsKeyDown(core.KeyA) {
		cc.Camera.X -= step
	}
	if in.IsKeyDown(core.KeyD) {
		cc.Camera.X += step
	}
	if in.IsKeyDown(core.KeyQ) {
		cc.Camera.Angle -= cc.RotSpeed * dt
	}
	if in.IsKeyDown(core.KeyE) {
		cc.Camera.Angle += cc.RotSpeed * dt
	}
	cc.Camera.Angle = math32.Mod(cc.Camera.Angle, 360)

	if notches := float32(in.TakeScroll()); notches != 0 {
		z := cc.Camera.ZoomX * math32.Pow(cc.ZoomFactor, notches)
		z = min(max(z, cc.MinZoom), cc.MaxZoom)
		cc.Camera.ZoomX, cc.Camera.ZoomY = z, z
	}
}

// Reset returns to the default view.
func (cc *CameraController) Reset() { cc.Camera = rhi.DefaultCamera() }

// Apply installs the camera on t.
func (cc *CameraController) Apply(r *rhi.Renderer, t *rhi.Target) {
	r.SetCamera(t, &cc.Camera)
}
