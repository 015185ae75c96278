package matrix

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStackHoldsIdentity(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, 1, s.StorageSize())
	assert.Equal(t, mgl32.Ident4(), s.Top())
}

func TestPushPopRestoresTopBitwise(t *testing.T) {
	s := New()
	s.Translate(3.25, -7.5, 1)
	s.Rotate(33, 0, 0, 1)
	before := s.Top()

	s.Push()
	s.Scale(2, 2, 1)
	s.Rotate(-12.5, 0, 0, 1)
	require.NoError(t, s.Pop())

	assert.Equal(t, before, s.Top())
}

func TestPopAtBaseReportsUnderflow(t *testing.T) {
	s := New()
	err := s.Pop()
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, 1, s.Size())
}

func TestPushGrowthPolicy(t *testing.T) {
	s := New()
	s.Push() // 1 -> 1*2+4
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, 6, s.StorageSize())

	for s.Size() < 6 {
		s.Push()
	}
	assert.Equal(t, 6, s.StorageSize())
	s.Push() // 6 -> 16
	assert.Equal(t, 16, s.StorageSize())
	assert.Equal(t, 7, s.Size())
}

func TestPushCopiesTop(t *testing.T) {
	s := New()
	s.Translate(1, 2, 3)
	s.Push()
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), s.Top())
}

func TestMultiplyIsRightMultiplication(t *testing.T) {
	s := New()
	a := mgl32.Translate3D(10, 0, 0)
	b := mgl32.Scale3D(2, 2, 1)
	s.Load(a)
	s.Multiply(b)
	assert.Equal(t, a.Mul4(b), s.Top())

	// translate then scale: the scale applies first to a point
	p := s.Top().Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	assert.InDelta(t, 12, p.X(), 1e-6)
	assert.InDelta(t, 2, p.Y(), 1e-6)
}

func TestOrthoMapsCorners(t *testing.T) {
	s := New()
	s.Ortho(0, 800, 600, 0, -1, 1)
	p := s.Top().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -1, p.X(), 1e-6)
	assert.InDelta(t, 1, p.Y(), 1e-6)
	p = s.Top().Mul4x1(mgl32.Vec4{800, 600, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-6)
	assert.InDelta(t, -1, p.Y(), 1e-6)
}

func TestRotationZeroAxisIsIdentity(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), Rotation(45, 0, 0, 0))
}

func TestRotateQuarterTurn(t *testing.T) {
	s := New()
	s.Rotate(90, 0, 0, 5)
	p := s.Top().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-6)
	assert.InDelta(t, 1, p.Y(), 1e-6)
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.Push()
	s.Translate(5, 5, 0)
	c := s.Clone()
	assert.Equal(t, s.Size(), c.Size())
	assert.Equal(t, s.StorageSize(), c.StorageSize())

	c.LoadIdentity()
	assert.Equal(t, mgl32.Translate3D(5, 5, 0), s.Top())
	require.NoError(t, c.Pop())
	assert.Equal(t, 2, s.Size())
}

func TestClearResetsToBase(t *testing.T) {
	s := New()
	s.Push()
	s.Push()
	s.Scale(3, 3, 3)
	s.Clear()
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, mgl32.Ident4(), s.Top())
}
