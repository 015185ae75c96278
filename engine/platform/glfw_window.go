package platform

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hubastard/grove-rhi/engine/core"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

type windowState struct {
	w *glfw.Window
	// Windowed placement, restored when leaving fullscreen.
	x, y, width, height int
}

// GLFW owns the native windows and their GL contexts. It is the window
// provider of every renderer and the core.Window of the first window.
type GLFW struct {
	windows map[rhi.WindowID]*windowState
	next    rhi.WindowID
	primary rhi.WindowID
	onEv    func(core.Event)
}

var (
	_ rhi.WindowProvider = (*GLFW)(nil)
	_ core.Platform      = (*GLFW)(nil)
)

// NewGLFW initialises GLFW. Must be called on the main thread before any GL
// calls.
func NewGLFW(onEvent func(core.Event)) (*GLFW, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	return &GLFW{windows: map[rhi.WindowID]*windowState{}, onEv: onEvent}, nil
}

func (g *GLFW) Terminate() {
	for id := range g.windows {
		g.DestroyWindow(id)
	}
	glfw.Terminate()
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func applyHints(h rhi.ContextHints) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, h.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, h.Minor)
	switch h.Profile {
	case rhi.ProfileCore:
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	case rhi.ProfileCompatibility:
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	case rhi.ProfileES:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	}
	// Mac requires the forward-compatible flag for core contexts.
	glfw.WindowHint(glfw.OpenGLForwardCompatible, boolHint(h.ForwardCompat))
	glfw.WindowHint(glfw.DoubleBuffer, boolHint(h.DoubleBuffer))
	glfw.WindowHint(glfw.DepthBits, h.DepthBits)
	glfw.WindowHint(glfw.Resizable, boolHint(h.Resizable))
	glfw.WindowHint(glfw.Visible, boolHint(h.InitiallyShown))
	glfw.WindowHint(glfw.Samples, 0)
}

func (g *GLFW) CreateWindow(w, h int, hints rhi.ContextHints) (rhi.WindowID, error) {
	applyHints(hints)
	win, err := glfw.CreateWindow(w, h, hints.Title, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("create window %dx%d (GL %d.%d): %w", w, h, hints.Major, hints.Minor, err)
	}
	g.next++
	id := g.next
	g.windows[id] = &windowState{w: win}
	if g.primary == 0 {
		g.primary = id
	}
	g.installCallbacks(win)
	slog.Debug("platform: window created", "id", id, "w", w, "h", h)
	return id, nil
}

func (g *GLFW) DestroyWindow(id rhi.WindowID) {
	s, ok := g.windows[id]
	if !ok {
		return
	}
	s.w.Destroy()
	delete(g.windows, id)
	if g.primary == id {
		g.primary = 0
	}
}

func (g *GLFW) window(id rhi.WindowID) *glfw.Window {
	if s, ok := g.windows[id]; ok {
		return s.w
	}
	return nil
}

// CreateContext makes the context GLFW created with the window current. A
// GLFW context lives and dies with its window, so the handle is the window.
func (g *GLFW) CreateContext(id rhi.WindowID, _ rhi.ContextHints) (rhi.ContextHandle, error) {
	w := g.window(id)
	if w == nil {
		return 0, fmt.Errorf("create context: unknown window %d", id)
	}
	w.MakeContextCurrent()
	return rhi.ContextHandle(id), nil
}

func (g *GLFW) DeleteContext(rhi.ContextHandle) {}

func (g *GLFW) MakeCurrent(id rhi.WindowID, _ rhi.ContextHandle) error {
	w := g.window(id)
	if w == nil {
		return fmt.Errorf("make current: unknown window %d", id)
	}
	w.MakeContextCurrent()
	return nil
}

func (g *GLFW) SetSwapInterval(interval int) { glfw.SwapInterval(interval) }

func (g *GLFW) SwapBuffers(id rhi.WindowID) {
	if w := g.window(id); w != nil {
		w.SwapBuffers()
	}
}

func (g *GLFW) WindowSize(id rhi.WindowID) (int, int) {
	if w := g.window(id); w != nil {
		return w.GetSize()
	}
	return 0, 0
}

func (g *GLFW) DrawableSize(id rhi.WindowID) (int, int) {
	if w := g.window(id); w != nil {
		return w.GetFramebufferSize()
	}
	return 0, 0
}

func (g *GLFW) SetWindowSize(id rhi.WindowID, w, h int) bool {
	win := g.window(id)
	if win == nil || w <= 0 || h <= 0 {
		return false
	}
	win.SetSize(w, h)
	return true
}

func (g *GLFW) SetFullscreen(id rhi.WindowID, enable, useDesktopResolution bool) bool {
	s, ok := g.windows[id]
	if !ok {
		return false
	}
	if enable == (s.w.GetMonitor() != nil) {
		return enable
	}
	if !enable {
		s.w.SetMonitor(nil, s.x, s.y, s.width, s.height, glfw.DontCare)
		return false
	}
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return false
	}
	s.x, s.y = s.w.GetPos()
	s.width, s.height = s.w.GetSize()
	w, h := s.width, s.height
	mode := monitor.GetVideoMode()
	if useDesktopResolution {
		w, h = mode.Width, mode.Height
	}
	s.w.SetMonitor(monitor, 0, 0, w, h, mode.RefreshRate)
	return true
}

func (g *GLFW) IsFullscreen(id rhi.WindowID) bool {
	w := g.window(id)
	return w != nil && w.GetMonitor() != nil
}

func (g *GLFW) installCallbacks(win *glfw.Window) {
	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { g.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		g.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		g.emit(core.EventMouseMove{X: x, Y: y})
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		g.emit(core.EventMouseButton{Button: int(b), Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		g.emit(core.EventKey{Key: k, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		g.emit(core.EventScroll{Xoff: xoff, Yoff: yoff})
	})
}

func (g *GLFW) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// core.Window impl, backed by the first window.
func (g *GLFW) PollEvents() { glfw.PollEvents() }
func (g *GLFW) ShouldClose() bool {
	w := g.window(g.primary)
	return w == nil || w.ShouldClose()
}
func (g *GLFW) SetTitle(t string) {
	if w := g.window(g.primary); w != nil {
		w.SetTitle(t)
	}
}
func (g *GLFW) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

var keys = map[glfw.Key]core.Key{
	glfw.KeyEscape: core.KeyEscape,
	glfw.KeySpace:  core.KeySpace,
	glfw.KeyW:      core.KeyW,
	glfw.KeyA:      core.KeyA,
	glfw.KeyS:      core.KeyS,
	glfw.KeyD:      core.KeyD,
	glfw.KeyQ:      core.KeyQ,
	glfw.KeyE:      core.KeyE,
	glfw.KeyUp:     core.KeyUp,
	glfw.KeyDown:   core.KeyDown,
	glfw.KeyLeft:   core.KeyLeft,
	glfw.KeyRight:  core.KeyRight,
	glfw.KeyF1:     core.KeyF1,
	glfw.KeyF11:    core.KeyF11,
	glfw.KeyF12:    core.KeyF12,
}

func translateKey(k glfw.Key) core.Key {
	if ck, ok := keys[k]; ok {
		return ck
	}
	return core.KeyUnknown
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
