package rhi

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove-rhi/engine/gfx/matrix"
)

// matrixTarget is the target the matrix calls act on: the bound target of
// the current context, or the context target itself.
func (r *Renderer) matrixTarget() *Target {
	ctx := r.ctx()
	if ctx == nil {
		return nil
	}
	if ctx.activeTarget != nil {
		return ctx.activeTarget
	}
	return r.current
}

// currentStack flushes geometry batched under the old matrices and returns
// the selected stack of the matrix target.
func (r *Renderer) currentStack() *matrix.Stack {
	t := r.matrixTarget()
	if t == nil {
		return nil
	}
	r.FlushBlitBuffer()
	return t.Stack(t.matrixMode)
}

// SetMatrixMode selects which stack of t the matrix calls change.
func (r *Renderer) SetMatrixMode(t *Target, mode MatrixMode) {
	if t == nil {
		return
	}
	r.FlushBlitBuffer()
	t.matrixMode = mode
}

func (r *Renderer) PushMatrix() {
	if s := r.currentStack(); s != nil {
		s.Push()
	}
}

// PopMatrix discards the top of the current stack. The base matrix cannot be
// popped.
func (r *Renderer) PopMatrix() error {
	s := r.currentStack()
	if s == nil {
		return r.fail("PopMatrix", ErrorUser, "NULL context")
	}
	if err := s.Pop(); err != nil {
		return r.fail("PopMatrix", ErrorUser, "Matrix stack is empty.")
	}
	return nil
}

func (r *Renderer) LoadIdentity() {
	if s := r.currentStack(); s != nil {
		s.LoadIdentity()
	}
}

func (r *Renderer) LoadMatrix(m mgl32.Mat4) {
	if s := r.currentStack(); s != nil {
		s.Load(m)
	}
}

// MultMatrix right-multiplies the top of the current stack by m.
func (r *Renderer) MultMatrix(m mgl32.Mat4) {
	if s := r.currentStack(); s != nil {
		s.Multiply(m)
	}
}

func (r *Renderer) Translate(x, y, z float32) {
	if s := r.currentStack(); s != nil {
		s.Translate(x, y, z)
	}
}

func (r *Renderer) Scale(x, y, z float32) {
	if s := r.currentStack(); s != nil {
		s.Scale(x, y, z)
	}
}

// Rotate turns by degrees about the axis (x, y, z).
func (r *Renderer) Rotate(degrees, x, y, z float32) {
	if s := r.currentStack(); s != nil {
		s.Rotate(degrees, x, y, z)
	}
}

func (r *Renderer) Ortho(left, right, bottom, top, near, far float32) {
	if s := r.currentStack(); s != nil {
		s.Ortho(left, right, bottom, top, near, far)
	}
}

func (r *Renderer) Frustum(left, right, bottom, top, near, far float32) {
	if s := r.currentStack(); s != nil {
		s.Frustum(left, right, bottom, top, near, far)
	}
}

func (r *Renderer) Perspective(fovy, aspect, near, far float32) {
	if s := r.currentStack(); s != nil {
		s.Perspective(fovy, aspect, near, far)
	}
}

func (r *Renderer) LookAt(eye, target, up mgl32.Vec3) {
	if s := r.currentStack(); s != nil {
		s.LookAt(eye, target, up)
	}
}

// CurrentMatrix is the top of the current stack, or identity without a
// context.
func (r *Renderer) CurrentMatrix() mgl32.Mat4 {
	t := r.matrixTarget()
	if t == nil {
		return mgl32.Ident4()
	}
	return t.Stack(t.matrixMode).Top()
}
