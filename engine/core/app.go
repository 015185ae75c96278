package core

import (
	"time"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Config   Config
	Window   Window
	Registry *rhi.Registry
	Renderer *rhi.Renderer
	Screen   *rhi.Target
	Input    *Input
	Layers   LayerStack

	start time.Time
	quit  bool
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// RequestClose ends the loop after the current frame.
func (e *Engine) RequestClose() { e.quit = true }

// FramebufferSize is the size of the screen target in virtual pixels.
func (e *Engine) FramebufferSize() (int, int) {
	if e.Screen == nil {
		return 0, 0
	}
	return e.Screen.W, e.Screen.H
}

// Window abstraction.
type Window interface {
	PollEvents()
	ShouldClose() bool
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Platform is a window system that also hands windows and contexts to the
// renderers.
type Platform interface {
	rhi.WindowProvider
	Window
	Terminate()
}

// Event model (can expand over time).
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button int
	Down   bool
	Mods   Mod
}

func (EventMouseButton) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF11
	KeyF12
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)
