package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLayer struct {
	name    string
	handles bool
	seen    *[]string
}

func (l *recordingLayer) OnAttach(*Engine)          {}
func (l *recordingLayer) OnDetach(*Engine)          {}
func (l *recordingLayer) OnUpdate(*Engine, float64) {}
func (l *recordingLayer) OnRender(*Engine, float64) {}
func (l *recordingLayer) OnEvent(_ *Engine, _ Event) bool {
	*l.seen = append(*l.seen, l.name)
	return l.handles
}

func TestDispatchStopsAtHandler(t *testing.T) {
	var seen []string
	var ls LayerStack
	ls.Push(&recordingLayer{name: "bottom", seen: &seen})
	ls.Push(&recordingLayer{name: "middle", handles: true, seen: &seen})
	ls.Push(&recordingLayer{name: "top", seen: &seen})

	assert.True(t, ls.Dispatch(nil, EventResize{W: 1, H: 1}))
	assert.Equal(t, []string{"top", "middle"}, seen)

	l, ok := ls.Pop()
	assert.True(t, ok)
	assert.Equal(t, "top", l.(*recordingLayer).name)
	assert.Equal(t, 2, ls.Len())
}

func TestInputTracksState(t *testing.T) {
	in := NewInput()
	in.Handle(EventKey{Key: KeyW, Down: true})
	in.Handle(EventMouseMove{X: 3, Y: 4})
	in.Handle(EventMouseButton{Button: 1, Down: true})
	in.Handle(EventScroll{Yoff: 1})
	in.Handle(EventScroll{Yoff: 0.5})

	assert.True(t, in.IsKeyDown(KeyW))
	assert.True(t, in.IsButtonDown(1))
	x, y := in.Mouse()
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
	assert.Equal(t, 1.5, in.TakeScroll())
	assert.Zero(t, in.TakeScroll())

	in.Handle(EventKey{Key: KeyW, Down: false})
	assert.False(t, in.IsKeyDown(KeyW))
}
