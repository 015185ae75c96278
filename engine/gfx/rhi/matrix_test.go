package rhi

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopRestoresModelMatrix(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r

	r.Translate(10, 20, 0)
	before := r.CurrentMatrix()

	r.PushMatrix()
	r.Rotate(45, 0, 0, 1)
	r.Scale(2, 2, 1)
	assert.NotEqual(t, before, r.CurrentMatrix())
	require.NoError(t, r.PopMatrix())

	assert.Equal(t, before, r.CurrentMatrix())
	assert.Equal(t, mgl32.Translate3D(10, 20, 0), rig.screen.Stack(Model).Top())
}

func TestPopMatrixUnderflowIsUserError(t *testing.T) {
	rig := openTestRenderer(t)

	err := rig.r.PopMatrix()
	assert.ErrorIs(t, err, ErrUser)
	assert.Equal(t, 1, rig.screen.Stack(Model).Size())

	e, ok := rig.reg.PopError()
	require.True(t, ok)
	assert.Equal(t, "PopMatrix", e.Function)
}

func TestMatrixModeSelectsStack(t *testing.T) {
	rig := openTestRenderer(t)
	r, screen := rig.r, rig.screen

	r.SetMatrixMode(screen, View)
	r.LoadMatrix(mgl32.Scale3D(3, 3, 1))
	assert.Equal(t, mgl32.Scale3D(3, 3, 1), screen.Stack(View).Top())
	assert.Equal(t, mgl32.Ident4(), screen.Stack(Model).Top())

	r.LoadIdentity()
	assert.Equal(t, mgl32.Ident4(), screen.Stack(View).Top())
	assert.Equal(t, View, screen.MatrixMode())
}

func TestMatrixCallsFlushPendingGeometry(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	require.NoError(t, r.RectangleFilled(rig.screen, 0, 0, 4, 4, rig.screen.Color))
	require.NotZero(t, r.cdata().numVertices)

	r.Translate(1, 0, 0)
	assert.Zero(t, r.cdata().numVertices)
	assert.Equal(t, 1, r.Stats().Flushes)
}

func TestModelViewProjectionWithoutCamera(t *testing.T) {
	rig := openTestRenderer(t)
	r, screen := rig.r, rig.screen
	r.EnableCamera(screen, false)
	r.Translate(5, 0, 0)

	want := screen.Stack(Projection).Top().Mul4(mgl32.Translate3D(5, 0, 0))
	assert.Equal(t, want, r.ModelViewProjection(screen))
}
