package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubastard/grove-rhi/engine/core"
)

func TestCameraControllerPans(t *testing.T) {
	cc := NewCameraController()
	in := core.NewInput()
	in.Handle(core.EventKey{Key: core.KeyD, Down: true})
	in.Handle(core.EventKey{Key: core.KeyW, Down: true})

	cc.Update(in, 0.5)
	assert.Equal(t, float32(200), cc.Camera.X)
	assert.Equal(t, float32(-200), cc.Camera.Y)

	cc.Camera.ZoomX = 2
	cc.Update(in, 0.5)
	assert.Equal(t, float32(300), cc.Camera.X)
}

func TestCameraControllerRotatesAndWraps(t *testing.T) {
	cc := NewCameraController()
	in := core.NewInput()
	in.Handle(core.EventKey{Key: core.KeyE, Down: true})

	cc.Update(in, 1)
	assert.Equal(t, float32(90), cc.Camera.Angle)
	for range 4 {
		cc.Update(in, 1)
	}
	assert.Equal(t, float32(90), cc.Camera.Angle)
}

func TestCameraControllerZoomIsClamped(t *testing.T) {
	cc := NewCameraController()
	in := core.NewInput()

	in.Handle(core.EventScroll{Yoff: 1})
	cc.Update(in, 0)
	assert.InDelta(t, 1.1, cc.Camera.ZoomX, 1e-5)
	assert.Equal(t, cc.Camera.ZoomX, cc.Camera.ZoomY)

	in.Handle(core.EventScroll{Yoff: 100})
	cc.Update(in, 0)
	assert.Equal(t, cc.MaxZoom, cc.Camera.ZoomX)

	in.Handle(core.EventScroll{Yoff: -1000})
	cc.Update(in, 0)
	assert.Equal(t, cc.MinZoom, cc.Camera.ZoomX)

	cc.Reset()
	assert.Equal(t, float32(1), cc.Camera.ZoomX)
}
