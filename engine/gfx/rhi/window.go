package rhi

// WindowID identifies a native window owned by a WindowProvider.
type WindowID uint32

// ContextHandle identifies a GPU context owned by a WindowProvider.
type ContextHandle uint64

// Profile selects the requested GL profile.
type Profile int

const (
	ProfileAny Profile = iota
	ProfileCore
	ProfileCompatibility
	ProfileES
)

// ContextHints describe the context a renderer wants before window creation.
type ContextHints struct {
	Major, Minor   int
	Profile        Profile
	ForwardCompat  bool
	DoubleBuffer   bool
	DepthBits      int
	Title          string
	Resizable      bool
	InitiallyShown bool
}

// WindowProvider is the platform collaborator: it owns windows and contexts.
type WindowProvider interface {
	CreateWindow(w, h int, hints ContextHints) (WindowID, error)
	DestroyWindow(id WindowID)
	// CreateContext binds a GPU context to the window and makes it current.
	CreateContext(id WindowID, hints ContextHints) (ContextHandle, error)
	DeleteContext(ctx ContextHandle)
	MakeCurrent(id WindowID, ctx ContextHandle) error
	SetSwapInterval(interval int)
	SwapBuffers(id WindowID)
	WindowSize(id WindowID) (w, h int)
	DrawableSize(id WindowID) (w, h int)
	SetWindowSize(id WindowID, w, h int) bool
	SetFullscreen(id WindowID, enable, useDesktopResolution bool) bool
	IsFullscreen(id WindowID) bool
}
