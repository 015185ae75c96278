package rhi

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru"
)

const locationCacheSize = 256

// Renderer is one live instance of a renderer family. All of its methods must
// be called from the thread that owns the window contexts.
type Renderer struct {
	id          RendererID
	requestedID RendererID
	backend     RendererBackend
	drv         Driver
	windows     WindowProvider
	registry    *Registry

	current *Target

	initFlags        InitFlags
	requiredFeatures Feature
	enabledFeatures  Feature

	coordinateMode   bool
	defaultAnchorX   float32
	defaultAnchorY   float32
	minShaderVersion int
	maxShaderVersion int
	spriteCapacity   int

	stats         Statistics
	locations     *lru.Cache
	shaderMessage string
	zeroBuffer    []byte
}

// RendererOption tunes a Renderer at construction.
type RendererOption func(*Renderer)

// WithSpriteCapacity sets how many quads a fresh context batches before
// flushing.
func WithSpriteCapacity(n int) RendererOption {
	return func(r *Renderer) {
		if n > 0 {
			r.spriteCapacity = n
		}
	}
}

// NewRenderer binds a backend, a driver and a window provider into a renderer
// for id. It does not touch the GPU until Init.
func NewRenderer(id RendererID, backend RendererBackend, drv Driver, windows WindowProvider, opts ...RendererOption) *Renderer {
	minV, maxV := backend.ShaderVersions()
	r := &Renderer{
		id:               id,
		requestedID:      id,
		backend:          backend,
		drv:              drv,
		windows:          windows,
		defaultAnchorX:   0.5,
		defaultAnchorY:   0.5,
		minShaderVersion: minV,
		maxShaderVersion: maxV,
		spriteCapacity:   DefaultSpriteCapacity,
	}
	// lru.New only fails for a non-positive size.
	r.locations, _ = lru.New(locationCacheSize)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) ID() RendererID          { return r.id }
func (r *Renderer) RequestedID() RendererID { return r.requestedID }
func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

// Driver exposes the GL entry points for callers that mix in their own calls.
// Call ResetRendererState afterwards.
func (r *Renderer) Driver() Driver { return r.drv }

func (r *Renderer) Windows() WindowProvider { return r.windows }

// ContextTarget is the window target whose context is current.
func (r *Renderer) ContextTarget() *Target { return r.current }

func (r *Renderer) EnabledFeatures() Feature { return r.enabledFeatures }

// IsFeatureEnabled reports whether every bit of f is available.
func (r *Renderer) IsFeatureEnabled(f Feature) bool { return r.enabledFeatures&f == f }

func (r *Renderer) RequiredFeatures() Feature     { return r.requiredFeatures }
func (r *Renderer) SetRequiredFeatures(f Feature) { r.requiredFeatures = f }

func (r *Renderer) ShaderLanguage() ShaderLanguage { return r.backend.ShaderLanguage() }

// ShaderVersions is the GLSL range the current context accepts.
func (r *Renderer) ShaderVersions() (min, max int) { return r.minShaderVersion, r.maxShaderVersion }

// CoordinateMode reports whether y grows upwards.
func (r *Renderer) CoordinateMode() bool { return r.coordinateMode }

// SetCoordinateMode selects y-down (false, the default) or y-up (true)
// coordinates for new projections and blits.
func (r *Renderer) SetCoordinateMode(yUp bool) { r.coordinateMode = yUp }

// SetDefaultAnchor sets the anchor given to images created afterwards.
func (r *Renderer) SetDefaultAnchor(x, y float32) {
	r.defaultAnchorX, r.defaultAnchorY = x, y
}

func (r *Renderer) DefaultAnchor() (x, y float32) { return r.defaultAnchorX, r.defaultAnchorY }

// Stats returns the counters gathered since the last Flip.
func (r *Renderer) Stats() Statistics { return r.stats }

// fail records an error in the owning registry, or only logs it when the
// renderer was built standalone.
func (r *Renderer) fail(function string, kind ErrorKind, format string, args ...any) *Error {
	if r.registry != nil {
		return r.registry.PushError(function, kind, format, args...)
	}
	return newError(function, kind, format, args...)
}

// setAsCurrent makes the renderer's context target current again.
func (r *Renderer) setAsCurrent() {
	if r.current == nil || r.current.context == nil {
		return
	}
	r.MakeCurrent(r.current, r.current.context.WindowID)
}

// Init opens a window (or adopts the registry's init window) and builds the
// context target for it.
func (r *Renderer) Init(w, h int, flags InitFlags) (*Target, error) {
	const fn = "Init"
	req := r.requestedID
	if req.Major < 1 {
		req.Major, req.Minor = 1, 1
	}
	r.requestedID = req
	r.initFlags = flags
	if r.registry != nil && r.requiredFeatures == 0 {
		r.requiredFeatures = r.registry.requiredFeatures
	}

	hints := r.contextHints(req, flags)

	var window WindowID
	if r.current != nil && r.current.context != nil {
		window = r.current.context.WindowID
	} else if r.registry != nil {
		window = r.registry.initWindow
	}
	if window == 0 {
		var err error
		window, err = r.windows.CreateWindow(w, h, hints)
		if err != nil || window == 0 {
			return nil, r.fail(fn, ErrorBackend, "Window creation failed.")
		}
		if r.registry != nil {
			r.registry.SetInitWindow(window)
		}
	}

	t, err := r.CreateTargetFromWindow(window, r.current)
	if err != nil {
		return nil, err
	}

	if flags&InitDisableAutoVirtualResolution == 0 && w != 0 && h != 0 && (w != t.W || h != t.H) {
		r.SetVirtualResolution(t, w, h)
	}

	vendor := r.drv.GetString(GLVendor)
	Logger().Info("rhi: context ready",
		slog.String("renderer", r.id.String()),
		slog.String("vendor", vendor),
		slog.String("gl_renderer", r.drv.GetString(GLRendererString)),
		slog.Int("glsl_max", r.maxShaderVersion))
	return t, nil
}

func (r *Renderer) contextHints(req RendererID, flags InitFlags) ContextHints {
	hints := r.backend.ContextHints()
	hints.Major, hints.Minor = req.Major, req.Minor
	hints.DoubleBuffer = flags&InitDisableDoubleBuffer == 0
	hints.DepthBits = 16
	if hints.Profile == ProfileCore || (hints.Profile == ProfileAny && req.Major == 3 && req.Minor >= 2) {
		if flags&InitRequestCompatibilityProfile != 0 {
			hints.Profile = ProfileCompatibility
			hints.ForwardCompat = false
		} else if req.Major > 3 || (req.Major == 3 && req.Minor >= 2) {
			hints.Profile = ProfileCore
			// Core contexts reject the older dialects.
			r.minShaderVersion = glslVersionCore
			if r.minShaderVersion > r.maxShaderVersion {
				r.maxShaderVersion = glslVersionCore
			}
		}
	}
	return hints
}

// Quit frees the context target and forgets it.
func (r *Renderer) Quit() {
	if r.current != nil {
		r.FreeTarget(r.current)
	}
	r.current = nil
	r.locations.Purge()
}
