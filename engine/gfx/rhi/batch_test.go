package rhi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImage(t *testing.T, r *Renderer, w, h int) *Image {
	t.Helper()
	img, err := r.CreateImage(w, h, FormatRGBA)
	require.NoError(t, err)
	return img
}

func TestBlitsFlushAtCapacity(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	img := newTestImage(t, r, 16, 16)

	for i := 0; i < DefaultSpriteCapacity+1; i++ {
		require.NoError(t, r.Blit(img, nil, rig.screen, float32(i%800), 100))
	}
	assert.Equal(t, 1, r.Stats().Flushes)
	assert.Equal(t, verticesPerSprite, r.cdata().numVertices)

	r.FlushBlitBuffer()
	stats := r.Stats()
	assert.Equal(t, 2, stats.Flushes)
	assert.Equal(t, DefaultSpriteCapacity+1, stats.Sprites)
	assert.Equal(t, 2, stats.DrawCalls)
	assert.Equal(t, (DefaultSpriteCapacity+1)*verticesPerSprite, stats.Vertices)
	assert.Equal(t, (DefaultSpriteCapacity+1)*indicesPerSprite, stats.Indices)
	assert.Zero(t, stats.StateFlushes)
}

func TestSpriteCapacityOption(t *testing.T) {
	rig := openTestRenderer(t, WithSpriteCapacity(2))
	r := rig.r
	img := newTestImage(t, r, 8, 8)

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Blit(img, nil, rig.screen, 10, 10))
	}
	assert.Equal(t, 2, r.Stats().Flushes)
	assert.Equal(t, 8, r.cdata().maxVertices)
}

func TestBlitQuadGeometry(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	img := newTestImage(t, r, 16, 8)
	img.SnapMode = SnapNone

	require.NoError(t, r.Blit(img, nil, rig.screen, 100, 50))

	cdata := r.cdata()
	require.Equal(t, 4, cdata.numVertices)
	require.Equal(t, 6, cdata.numIndices)
	corner := func(i int) (x, y, s, tc float32) {
		v := cdata.blitBuffer[i*floatsPerVertex:]
		return v[0], v[1], v[2], v[3]
	}
	x, y, s, tc := corner(0)
	assert.Equal(t, []float32{92, 46, 0, 0}, []float32{x, y, s, tc})
	x, y, s, tc = corner(2)
	assert.Equal(t, []float32{108, 54, 1, 1}, []float32{x, y, s, tc})
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, cdata.indexBuffer[:6])
}

func TestBlitRejectsBadArguments(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	img := newTestImage(t, r, 4, 4)

	assert.ErrorIs(t, r.Blit(nil, nil, rig.screen, 0, 0), ErrNullArg)
	assert.ErrorIs(t, r.Blit(img, nil, nil, 0, 0), ErrNullArg)

	other := NewRenderer(rig.backend.id, rig.backend, rig.drv, rig.windows)
	foreign := &Image{renderer: other}
	assert.ErrorIs(t, r.Blit(foreign, nil, rig.screen, 0, 0), ErrUser)
	assert.Zero(t, r.cdata().numVertices)
}

func TestBlitRectXFlipMirrorsCorners(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	img := newTestImage(t, r, 16, 16)
	img.SnapMode = SnapNone

	dest := Rect{0, 0, 32, 32}
	require.NoError(t, r.BlitRectX(img, nil, rig.screen, &dest, 0, 8, 8, FlipHorizontal))

	v := r.cdata().blitBuffer
	// The left edge of the texture lands on the right edge of dest.
	assert.Equal(t, []float32{32, 0, 0, 0}, v[0:4])
	assert.Equal(t, []float32{0, 0, 1, 0}, v[floatsPerVertex:floatsPerVertex+4])
	assert.Equal(t, []float32{0, 32, 1, 1}, v[2*floatsPerVertex:2*floatsPerVertex+4])
}

func TestStateChangeFlushesPendingBlits(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	img := newTestImage(t, r, 16, 16)

	require.NoError(t, r.Blit(img, nil, rig.screen, 10, 10))
	require.Equal(t, 4, r.cdata().numVertices)

	r.changeDepthTest(true)
	assert.Zero(t, r.cdata().numVertices)
	assert.Equal(t, 1, r.Stats().StateFlushes)
	assert.Equal(t, 1, r.Stats().Flushes)
	assert.Zero(t, r.cdata().dirty)
}

func TestFlushWithoutGeometryIssuesNoDraws(t *testing.T) {
	rig := openTestRenderer(t)
	rig.drv.reset()

	rig.r.FlushBlitBuffer()
	assert.Zero(t, rig.drv.total())
	assert.Zero(t, rig.r.Stats().Flushes)
}

func TestChunkSizeFollowsShortestAttributeSource(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r

	assert.Equal(t, 400, r.chunkSize(400))

	attr := Float32Attribute(5, 1, false, make([]float32, 10))
	require.NoError(t, r.SetAttributeSource(10, attr))
	assert.Equal(t, 8, r.chunkSize(400))
	assert.Equal(t, 3, r.chunkSize(3))
}

func TestGrowBlitBuffer(t *testing.T) {
	rig := openTestRenderer(t, WithSpriteCapacity(2))
	r := rig.r
	cdata := r.cdata()
	require.Equal(t, 8, cdata.maxVertices)
	cdata.blitBuffer[0], cdata.blitBuffer[7*floatsPerVertex] = 42, 7
	cdata.numVertices = 8

	steps := []struct {
		name string
		n    int
		ok   bool
		max  int
	}{
		{"fits", 8, true, 8},
		{"doubles", 9, true, 16},
		{"doubles repeatedly", 40, true, 64},
		{"never shrinks", 10, true, 64},
		{"clamps to the limit", 50000, true, BlitBufferAbsoluteMaxVertices},
		{"limit reached", BlitBufferAbsoluteMaxVertices + 1, false, BlitBufferAbsoluteMaxVertices},
		{"fits at the limit", BlitBufferAbsoluteMaxVertices, true, BlitBufferAbsoluteMaxVertices},
	}
	for _, s := range steps {
		assert.Equal(t, s.ok, r.growBlitBuffer(s.n), s.name)
		assert.Equal(t, s.max, cdata.maxVertices, s.name)
		assert.Len(t, cdata.blitBuffer, s.max*floatsPerVertex, s.name)
	}
	assert.Equal(t, float32(42), cdata.blitBuffer[0])
	assert.Equal(t, float32(7), cdata.blitBuffer[7*floatsPerVertex])
	cdata.numVertices = 0
}

func TestGrowBlitBufferPastLimitFromSmall(t *testing.T) {
	rig := openTestRenderer(t, WithSpriteCapacity(2))
	cdata := rig.r.cdata()
	assert.False(t, rig.r.growBlitBuffer(BlitBufferAbsoluteMaxVertices+1))
	assert.Equal(t, BlitBufferAbsoluteMaxVertices, cdata.maxVertices)
}

func TestGrowIndexBuffer(t *testing.T) {
	rig := openTestRenderer(t, WithSpriteCapacity(2))
	r := rig.r
	cdata := r.cdata()
	require.Equal(t, 12, cdata.maxIndices)
	cdata.indexBuffer[11] = 9
	cdata.numIndices = 12

	rig.drv.reset()
	assert.True(t, r.growIndexBuffer(12))
	assert.Zero(t, rig.drv.count("BufferAlloc"))

	assert.True(t, r.growIndexBuffer(13))
	assert.Equal(t, 24, cdata.maxIndices)
	assert.Equal(t, 1, rig.drv.count("BufferAlloc"))
	assert.Equal(t, uint16(9), cdata.indexBuffer[11])

	assert.True(t, r.growIndexBuffer(5))
	assert.Equal(t, 24, cdata.maxIndices)

	// At the limit nothing is allocated.
	cdata.maxIndices = IndexBufferAbsoluteMaxVertices
	assert.False(t, r.growIndexBuffer(IndexBufferAbsoluteMaxVertices+1))
	assert.Equal(t, IndexBufferAbsoluteMaxVertices, cdata.maxIndices)
	cdata.maxIndices = len(cdata.indexBuffer)
	cdata.numIndices = 0
}
