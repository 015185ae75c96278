package matrix

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnderflow is returned by Pop when only the base matrix is left.
var ErrUnderflow = errors.New("matrix: pop on a stack of size 1")

// Stack holds column-major 4x4 matrices. The last slot in use is the active matrix.
// A stack always holds at least one matrix.
type Stack struct {
	storage []mgl32.Mat4
	size    int
}

// New returns a stack holding a single identity matrix.
func New() *Stack {
	return &Stack{storage: []mgl32.Mat4{mgl32.Ident4()}, size: 1}
}

func (s *Stack) Size() int        { return s.size }
func (s *Stack) StorageSize() int { return len(s.storage) }

// Top returns a copy of the active matrix.
func (s *Stack) Top() mgl32.Mat4 { return s.storage[s.size-1] }

// Push duplicates the active matrix onto a new slot.
func (s *Stack) Push() {
	if s.size == len(s.storage) {
		grown := make([]mgl32.Mat4, len(s.storage)*2+4)
		copy(grown, s.storage[:s.size])
		s.storage = grown
	}
	s.storage[s.size] = s.storage[s.size-1]
	s.size++
}

// Pop discards the active matrix. The base matrix can never be popped.
func (s *Stack) Pop() error {
	if s.size <= 1 {
		return ErrUnderflow
	}
	s.size--
	return nil
}

// Clear drops every pushed matrix and resets the base to identity.
func (s *Stack) Clear() {
	s.size = 1
	s.storage[0] = mgl32.Ident4()
}

func (s *Stack) Load(m mgl32.Mat4) { s.storage[s.size-1] = m }
func (s *Stack) LoadIdentity()     { s.storage[s.size-1] = mgl32.Ident4() }

// Multiply right-multiplies the active matrix: top = top * m.
func (s *Stack) Multiply(m mgl32.Mat4) {
	s.storage[s.size-1] = s.storage[s.size-1].Mul4(m)
}

func (s *Stack) Translate(x, y, z float32) { s.Multiply(mgl32.Translate3D(x, y, z)) }
func (s *Stack) Scale(x, y, z float32)     { s.Multiply(mgl32.Scale3D(x, y, z)) }

// Rotate rotates by degrees around the axis (x, y, z).
func (s *Stack) Rotate(degrees, x, y, z float32) { s.Multiply(Rotation(degrees, x, y, z)) }

func (s *Stack) Ortho(left, right, bottom, top, near, far float32) {
	s.Multiply(mgl32.Ortho(left, right, bottom, top, near, far))
}

func (s *Stack) Frustum(left, right, bottom, top, near, far float32) {
	s.Multiply(mgl32.Frustum(left, right, bottom, top, near, far))
}

// Perspective multiplies by a perspective projection; fovy is in degrees.
func (s *Stack) Perspective(fovy, aspect, near, far float32) {
	s.Multiply(mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far))
}

func (s *Stack) LookAt(eye, target, up mgl32.Vec3) {
	s.Multiply(mgl32.LookAtV(eye, target, up))
}

// Clone returns a deep copy with the same size and storage size.
func (s *Stack) Clone() *Stack {
	c := &Stack{storage: make([]mgl32.Mat4, len(s.storage)), size: s.size}
	copy(c.storage, s.storage)
	return c
}

// Rotation builds a rotation matrix of degrees around the axis (x, y, z).
// A zero axis yields the identity.
func Rotation(degrees, x, y, z float32) mgl32.Mat4 {
	axis := mgl32.Vec3{x, y, z}
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis.Normalize())
}
