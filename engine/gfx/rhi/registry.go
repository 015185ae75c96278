// Package rhi is a render hardware interface over the OpenGL and OpenGL ES
// families. A Registry picks the first backend that opens; the Renderer it
// returns batches blits and shapes, caches GPU state and owns the targets and
// images created through it. GL calls go through the Driver interface, so the
// package itself needs no cgo.
package rhi

import (
	"fmt"
	"log/slog"
)

const (
	MaxRegisteredRenderers = 10
	MaxActiveRenderers     = 20
	RendererOrderMax       = 10
)

// RendererID names a renderer family and the API version it targets.
// Lookups compare Renderer only.
type RendererID struct {
	Name     string
	Renderer RendererEnum
	Major    int
	Minor    int
}

func MakeRendererID(name string, renderer RendererEnum, major, minor int) RendererID {
	return RendererID{Name: name, Renderer: renderer, Major: major, Minor: minor}
}

func (id RendererID) String() string {
	return fmt.Sprintf("%s (%d.%d)", id.Name, id.Major, id.Minor)
}

var builtinIDs = map[RendererEnum]RendererID{
	RendererOpenGL1Base: {"OpenGL 1 BASE", RendererOpenGL1Base, 1, 1},
	RendererOpenGL1:     {"OpenGL 1", RendererOpenGL1, 1, 1},
	RendererOpenGL2:     {"OpenGL 2", RendererOpenGL2, 2, 0},
	RendererOpenGL3:     {"OpenGL 3", RendererOpenGL3, 3, 0},
	RendererOpenGL4:     {"OpenGL 4", RendererOpenGL4, 4, 0},
	RendererGLES1:       {"OpenGLES 1", RendererGLES1, 1, 1},
	RendererGLES2:       {"OpenGLES 2", RendererGLES2, 2, 0},
	RendererGLES3:       {"OpenGLES 3", RendererGLES3, 3, 0},
}

// BuiltinRendererID returns the canonical ID of a built-in family.
func BuiltinRendererID(e RendererEnum) (RendererID, bool) {
	id, ok := builtinIDs[e]
	return id, ok
}

// DefaultOrder is the initialization order used by Open.
func DefaultOrder() []RendererID {
	order := []RendererEnum{
		RendererGLES3, RendererGLES2, RendererGLES1,
		RendererOpenGL4, RendererOpenGL3, RendererOpenGL2, RendererOpenGL1,
	}
	ids := make([]RendererID, len(order))
	for i, e := range order {
		ids[i] = builtinIDs[e]
	}
	return ids
}

type (
	CreateFunc func(id RendererID) (*Renderer, error)
	FreeFunc   func(r *Renderer)
)

// Registration binds a renderer family to its factory.
type Registration struct {
	ID     RendererID
	Create CreateFunc
	Free   FreeFunc
}

type windowMapping struct {
	windowID WindowID
	target   *Target
}

// Registry owns the registered renderer families, the live renderer
// instances, the window to target mappings and the error queue.
type Registry struct {
	registered []Registration
	active     [MaxActiveRenderers]*Renderer
	current    *Renderer

	order            []RendererID
	nextEnum         RendererEnum
	requiredFeatures Feature
	preInitFlags     InitFlags
	initWindow       WindowID

	mappings []windowMapping
	errors   *ErrorQueue
}

// Option configures a Registry.
type Option func(*Registry)

// WithErrorQueueMax sets the capacity of the error queue.
func WithErrorQueueMax(n int) Option {
	return func(r *Registry) { r.errors.SetMax(n) }
}

// WithOrder replaces the default initialization order.
func WithOrder(ids ...RendererID) Option {
	return func(r *Registry) { r.SetOrder(ids) }
}

// WithRequiredFeatures sets the features every opened renderer must provide.
func WithRequiredFeatures(f Feature) Option {
	return func(r *Registry) { r.requiredFeatures = f }
}

// WithPreInitFlags sets the flags merged into every Open call.
func WithPreInitFlags(f InitFlags) Option {
	return func(r *Registry) { r.preInitFlags = f }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{errors: NewErrorQueue(defaultErrorQueueMax)}
	r.Init()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init resets the tables and restores the default order. Options applied by
// NewRegistry are kept except the order.
func (r *Registry) Init() {
	r.registered = make([]Registration, 0, MaxRegisteredRenderers)
	r.active = [MaxActiveRenderers]*Renderer{}
	r.current = nil
	r.order = DefaultOrder()
	r.nextEnum = RendererCustom0
	r.initWindow = 0
	r.mappings = r.mappings[:0]
}

// Shutdown quits every active renderer and clears the registrations.
func (r *Registry) Shutdown() {
	r.Quit()
	r.registered = r.registered[:0]
	Logger().Info("rhi: registry shut down")
}

// RegisterRenderer adds a renderer family. Bad input is reported and leaves
// the table unchanged.
func (r *Registry) RegisterRenderer(id RendererID, create CreateFunc, free FreeFunc) error {
	const fn = "RegisterRenderer"
	if len(r.registered) >= MaxRegisteredRenderers {
		return r.PushError(fn, ErrorUser, "Max renderer registration count (%d) exceeded", MaxRegisteredRenderers)
	}
	if id.Renderer == RendererUnknown {
		return r.PushError(fn, ErrorUser, "Invalid renderer ID")
	}
	if create == nil {
		return r.PushError(fn, ErrorUser, "NULL renderer create callback")
	}
	if free == nil {
		return r.PushError(fn, ErrorUser, "NULL renderer free callback")
	}
	r.registered = append(r.registered, Registration{ID: id, Create: create, Free: free})
	Logger().Debug("rhi: renderer registered", slog.String("name", id.Name), slog.Int("major", id.Major), slog.Int("minor", id.Minor))
	return nil
}

// RendererID returns the registered ID of a family, or the zero ID.
func (r *Registry) RendererID(e RendererEnum) RendererID {
	for _, reg := range r.registered {
		if reg.ID.Renderer == e {
			return reg.ID
		}
	}
	return RendererID{}
}

func (r *Registry) registration(e RendererEnum) (Registration, bool) {
	for _, reg := range r.registered {
		if reg.ID.Renderer == e {
			return reg, true
		}
	}
	return Registration{}, false
}

func (r *Registry) NumRegisteredRenderers() int { return len(r.registered) }

func (r *Registry) RegisteredRenderers() []RendererID {
	ids := make([]RendererID, len(r.registered))
	for i, reg := range r.registered {
		ids[i] = reg.ID
	}
	return ids
}

func (r *Registry) NumActiveRenderers() int {
	n := 0
	for _, a := range r.active {
		if a != nil {
			n++
		}
	}
	return n
}

func (r *Registry) ActiveRenderers() []RendererID {
	var ids []RendererID
	for _, a := range r.active {
		if a != nil {
			ids = append(ids, a.ID())
		}
	}
	return ids
}

// ReserveNextRendererEnum hands out a fresh family for custom renderers.
func (r *Registry) ReserveNextRendererEnum() RendererEnum {
	e := r.nextEnum
	r.nextEnum++
	return e
}

func (r *Registry) Order() []RendererID {
	return append([]RendererID(nil), r.order...)
}

// SetOrder replaces the initialization order. Nil restores the default.
func (r *Registry) SetOrder(ids []RendererID) {
	if ids == nil {
		r.order = DefaultOrder()
		return
	}
	if len(ids) == 0 {
		return
	}
	if len(ids) > RendererOrderMax {
		r.PushError("SetOrder", ErrorUser, "Given order_size (%d) is greater than RENDERER_ORDER_MAX (%d)", len(ids), RendererOrderMax)
		ids = ids[:RendererOrderMax]
	}
	r.order = append([]RendererID(nil), ids...)
}

// CreateRenderer builds a renderer for the registered family of id and places
// it in a free active slot.
func (r *Registry) CreateRenderer(id RendererID) (*Renderer, error) {
	const fn = "CreateRenderer"
	reg, ok := r.registration(id.Renderer)
	if !ok {
		return nil, r.PushError(fn, ErrorData, "Renderer was not found in the renderer registry.")
	}
	slot := -1
	for i, a := range r.active {
		if a == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, r.PushError(fn, ErrorBackend, "Too many active renderers")
	}
	rr, err := reg.Create(id)
	if err != nil || rr == nil {
		return nil, r.PushError(fn, ErrorBackend, "Failed to create new renderer.")
	}
	rr.id.Name = reg.ID.Name
	rr.registry = r
	r.active[slot] = rr
	return rr, nil
}

// GetRenderer returns the active renderer of the family of id, or nil.
func (r *Registry) GetRenderer(id RendererID) *Renderer {
	for _, a := range r.active {
		if a != nil && a.id.Renderer == id.Renderer {
			return a
		}
	}
	return nil
}

// FreeRenderer runs the registered free callback and releases the slot.
func (r *Registry) FreeRenderer(rr *Renderer) {
	if rr == nil {
		return
	}
	for i, a := range r.active {
		if a == rr {
			r.freeSlot(i)
			return
		}
	}
}

func (r *Registry) freeSlot(i int) {
	rr := r.active[i]
	if r.current == rr {
		r.current = nil
	}
	if reg, ok := r.registration(rr.id.Renderer); ok {
		reg.Free(rr)
	}
	r.active[i] = nil
}

func (r *Registry) CurrentRenderer() *Renderer { return r.current }

// SetCurrentRenderer switches to the active renderer of the family of id and
// makes its context current.
func (r *Registry) SetCurrentRenderer(id RendererID) {
	r.current = r.GetRenderer(id)
	if r.current != nil {
		r.current.setAsCurrent()
	}
}

func (r *Registry) RequiredFeatures() Feature       { return r.requiredFeatures }
func (r *Registry) SetRequiredFeatures(f Feature)   { r.requiredFeatures = f }
func (r *Registry) PreInitFlags() InitFlags         { return r.preInitFlags }
func (r *Registry) SetPreInitFlags(f InitFlags)     { r.preInitFlags = f }
func (r *Registry) InitWindow() WindowID            { return r.initWindow }
func (r *Registry) SetInitWindow(windowID WindowID) { r.initWindow = windowID }

// Open initializes the first renderer of the order that succeeds and returns
// its window target.
func (r *Registry) Open(w, h int, flags InitFlags) (*Target, error) {
	for _, id := range r.order {
		if t, err := r.OpenRendererByID(id, w, h, flags); err == nil {
			return t, nil
		}
	}
	return nil, r.PushError("Open", ErrorBackend, "No renderer out of %d was able to initialize properly", len(r.order))
}

// OpenRenderer opens the registered renderer of a family.
func (r *Registry) OpenRenderer(e RendererEnum, w, h int, flags InitFlags) (*Target, error) {
	id := r.RendererID(e)
	if id.Renderer == RendererUnknown {
		return nil, r.PushError("OpenRenderer", ErrorData, "Renderer %s is not registered", e)
	}
	return r.OpenRendererByID(id, w, h, flags)
}

// OpenRendererByID creates the renderer, makes it current and initializes
// it. On failure the renderer is closed again.
func (r *Registry) OpenRendererByID(id RendererID, w, h int, flags InitFlags) (*Target, error) {
	rr, err := r.CreateRenderer(id)
	if err != nil {
		return nil, err
	}
	r.SetCurrentRenderer(rr.ID())

	t, err := rr.Init(w, h, flags|r.preInitFlags)
	if err != nil {
		r.PushError("OpenRendererByID", ErrorBackend, "Renderer %s failed to initialize properly", rr.id.Name)
		r.removeMappingsFor(rr)
		r.closeCurrent()
		return nil, err
	}
	r.initWindow = 0
	Logger().Info("rhi: renderer opened", slog.String("renderer", rr.id.String()), slog.Int("w", w), slog.Int("h", h))
	return t, nil
}

func (r *Registry) closeCurrent() {
	if r.current == nil {
		return
	}
	cur := r.current
	cur.Quit()
	r.FreeRenderer(cur)
}

// Quit frees the current renderer's context target and every active renderer.
func (r *Registry) Quit() {
	if n := r.errors.Len(); n > 0 {
		Logger().Warn("rhi: uncleared errors at quit", slog.Int("count", n))
		for _, e := range r.errors.Drain() {
			Logger().Warn("rhi: uncleared error", slog.String("error", e.Error()))
		}
	}
	r.closeCurrent()
	for i, a := range r.active {
		if a != nil {
			a.Quit()
			r.freeSlot(i)
		}
	}
	r.initWindow = 0
	r.mappings = r.mappings[:0]
}

// AddWindowMapping binds the window of a window target to it.
func (r *Registry) AddWindowMapping(t *Target) error {
	if t == nil || t.context == nil {
		return nil
	}
	id := t.context.WindowID
	if id == 0 {
		return nil
	}
	for _, m := range r.mappings {
		if m.windowID == id {
			if m.target != t {
				return r.PushError("AddWindowMapping", ErrorData, "WindowID %d already has a mapping.", id)
			}
			return nil
		}
	}
	r.mappings = append(r.mappings, windowMapping{windowID: id, target: t})
	return nil
}

// RemoveWindowMapping unbinds a window and clears the window ID of its target.
func (r *Registry) RemoveWindowMapping(id WindowID) {
	if id == 0 {
		return
	}
	for i, m := range r.mappings {
		if m.windowID == id {
			if m.target.context != nil {
				m.target.context.WindowID = 0
			}
			r.mappings = append(r.mappings[:i], r.mappings[i+1:]...)
			return
		}
	}
}

// RemoveWindowMappingByTarget unbinds whichever window maps to t.
func (r *Registry) RemoveWindowMappingByTarget(t *Target) {
	if t == nil || t.context == nil {
		return
	}
	id := t.context.WindowID
	if id == 0 {
		return
	}
	// Aliases share the context but never own the mapping.
	for i, m := range r.mappings {
		if m.target == t {
			t.context.WindowID = 0
			r.mappings = append(r.mappings[:i], r.mappings[i+1:]...)
			return
		}
	}
}

func (r *Registry) removeMappingsFor(rr *Renderer) {
	kept := r.mappings[:0]
	for _, m := range r.mappings {
		if m.target.renderer != rr {
			kept = append(kept, m)
		}
	}
	r.mappings = kept
}

// WindowTarget returns the target mapped to a window, or nil.
func (r *Registry) WindowTarget(id WindowID) *Target {
	if id == 0 {
		return nil
	}
	for _, m := range r.mappings {
		if m.windowID == id {
			return m.target
		}
	}
	return nil
}

// PushError logs an error and queues it for PopError.
func (r *Registry) PushError(function string, kind ErrorKind, format string, args ...any) *Error {
	e := newError(function, kind, format, args...)
	if !r.errors.Push(e) {
		Logger().Warn("rhi: error queue full, dropping error", slog.String("error", e.Error()))
	}
	return e
}

// PopError removes the oldest queued error.
func (r *Registry) PopError() (*Error, bool) { return r.errors.Pop() }

// SetErrorQueueMax resizes the queue and clears it.
func (r *Registry) SetErrorQueueMax(n int) { r.errors.SetMax(n) }

func (r *Registry) NumErrors() int { return r.errors.Len() }

func newError(function string, kind ErrorKind, format string, args ...any) *Error {
	e := &Error{Function: function, Kind: kind}
	if format != "" {
		e.Details = fmt.Sprintf(format, args...)
	}
	Logger().Error("rhi: "+function, slog.String("kind", kind.String()), slog.String("details", e.Details))
	return e
}
