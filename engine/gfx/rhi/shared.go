package rhi

// SharedHandle owns a backend object shared by a resource and its aliases.
// The count is not atomic: every owner lives on the rendering thread.
type SharedHandle[T any] struct {
	value    T
	refs     int
	released bool
	release  func(*T)
}

// NewSharedHandle returns a handle with one reference.
func NewSharedHandle[T any](value T, release func(*T)) *SharedHandle[T] {
	return &SharedHandle[T]{value: value, refs: 1, release: release}
}

func (h *SharedHandle[T]) Get() *T  { return &h.value }
func (h *SharedHandle[T]) Refs() int { return h.refs }

// Retain adds a reference and returns h.
func (h *SharedHandle[T]) Retain() *SharedHandle[T] {
	h.refs++
	return h
}

// Release drops a reference. The release callback runs once, when the last
// reference goes; Release then reports true. Releasing a dead handle is a no-op.
func (h *SharedHandle[T]) Release() bool {
	if h.released {
		return false
	}
	h.refs--
	if h.refs > 0 {
		return false
	}
	h.refs = 0
	h.released = true
	if h.release != nil {
		h.release(&h.value)
	}
	return true
}
