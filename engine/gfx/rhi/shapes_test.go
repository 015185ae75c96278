package rhi

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove-rhi/engine/colors"
)

func TestCircleSegments(t *testing.T) {
	_, n := circleSegments(0)
	assert.Equal(t, minCircleSegments, n)
	_, n = circleSegments(-5)
	assert.Equal(t, minCircleSegments, n)

	_, small := circleSegments(10)
	_, large := circleSegments(1000)
	assert.Greater(t, large, small)
}

func TestShapeVertexAndIndexCounts(t *testing.T) {
	_, outline := circleSegments(10.5)
	_, filled := circleSegments(10)
	square := []float32{0, 0, 10, 0, 10, 10, 0, 10}
	pentagon := []float32{0, 0, 10, 0, 12, 8, 5, 12, -2, 8}

	tests := []struct {
		name              string
		draw              func(r *Renderer, t *Target) error
		vertices, indices int
	}{
		{"pixel", func(r *Renderer, t *Target) error { return r.Pixel(t, 1, 1, colors.Red) }, 1, 1},
		{"line", func(r *Renderer, t *Target) error { return r.Line(t, 0, 0, 10, 10, colors.Red) }, 4, 6},
		{"tri", func(r *Renderer, t *Target) error { return r.Tri(t, 0, 0, 10, 0, 5, 5, colors.Red) }, 3, 6},
		{"tri filled", func(r *Renderer, t *Target) error { return r.TriFilled(t, 0, 0, 10, 0, 5, 5, colors.Red) }, 3, 3},
		{"rectangle", func(r *Renderer, t *Target) error { return r.Rectangle(t, 0, 0, 10, 10, colors.Red) }, 12, 24},
		{"rectangle filled", func(r *Renderer, t *Target) error { return r.RectangleFilled(t, 0, 0, 10, 10, colors.Red) }, 4, 6},
		{"circle", func(r *Renderer, t *Target) error { return r.Circle(t, 50, 50, 10, colors.Red) }, 2 * outline, 6 * outline},
		{"circle filled", func(r *Renderer, t *Target) error { return r.CircleFilled(t, 50, 50, 10, colors.Red) }, filled + 1, 3 * filled},
		{"full arc", func(r *Renderer, t *Target) error { return r.Arc(t, 50, 50, 10, 0, 360, colors.Red) }, 2 * outline, 6 * outline},
		{"polygon", func(r *Renderer, t *Target) error { return r.Polygon(t, square, colors.Red) }, 4, 8},
		{"polygon filled", func(r *Renderer, t *Target) error { return r.PolygonFilled(t, pentagon, colors.Red) }, 5, 9},
		{"closed polyline", func(r *Renderer, t *Target) error { return r.Polyline(t, square, colors.Red, true) }, 16, 18},
		{"open polyline", func(r *Renderer, t *Target) error { return r.Polyline(t, square, colors.Red, false) }, 12, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := openTestRenderer(t)
			require.NoError(t, tt.draw(rig.r, rig.screen))
			cdata := rig.r.cdata()
			assert.Equal(t, tt.vertices, cdata.numVertices)
			assert.Equal(t, tt.indices, cdata.numIndices)
			for _, idx := range cdata.indexBuffer[:cdata.numIndices] {
				assert.Less(t, int(idx), cdata.numVertices)
			}
		})
	}
}

func TestArcWritesOnlyReservedSpace(t *testing.T) {
	rig := openTestRenderer(t)
	require.NoError(t, rig.r.Arc(rig.screen, 50, 50, 20, 10, 100, colors.Green))
	cdata := rig.r.cdata()
	n := (cdata.numVertices - 2) / 2
	assert.Equal(t, 2*n+2, cdata.numVertices)
	assert.Equal(t, 6*n, cdata.numIndices)
}

func TestEmptyShapesDrawNothing(t *testing.T) {
	rig := openTestRenderer(t)
	r, screen := rig.r, rig.screen
	require.NoError(t, r.Arc(screen, 0, 0, 10, 45, 45, colors.Red))
	require.NoError(t, r.Polygon(screen, []float32{0, 0, 1, 1}, colors.Red))
	require.NoError(t, r.Polyline(screen, []float32{0, 0}, colors.Red, false))
	assert.Zero(t, r.cdata().numVertices)
}

func TestShapesSwitchPrimitiveFlushes(t *testing.T) {
	rig := openTestRenderer(t)
	r, screen := rig.r, rig.screen
	require.NoError(t, r.RectangleFilled(screen, 0, 0, 4, 4, colors.Red))
	require.NoError(t, r.Tri(screen, 0, 0, 4, 0, 2, 2, colors.Red))

	assert.Equal(t, 1, r.Stats().Flushes)
	assert.Equal(t, 1, r.Stats().StateFlushes)
	assert.Equal(t, 3, r.cdata().numVertices)
	assert.Equal(t, Lines, r.cdata().lastShape)
}

func TestShapeColorModulatedByTarget(t *testing.T) {
	rig := openTestRenderer(t)
	r, screen := rig.r, rig.screen
	r.SetTargetColor(screen, colors.Color{R: 255, G: 0, B: 0, A: 128})
	require.NoError(t, r.Pixel(screen, 0, 0, colors.White))

	v := r.cdata().blitBuffer
	assert.Equal(t, float32(1), v[colorOffset])
	assert.Equal(t, float32(0), v[colorOffset+1])
	assert.InDelta(t, 128.0/255, v[colorOffset+3], 1e-6)
}

func TestShapeOnNilTarget(t *testing.T) {
	rig := openTestRenderer(t)
	assert.ErrorIs(t, rig.r.Circle(nil, 0, 0, 1, colors.Red), ErrNullArg)
}

func TestLineThicknessWidensLine(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	assert.Equal(t, float32(1), r.SetLineThickness(4))
	assert.Equal(t, float32(4), r.LineThickness())

	require.NoError(t, r.Line(rig.screen, 0, 10, 100, 10, colors.Red))
	v := r.cdata().blitBuffer
	assert.InDelta(t, 8, v[1], 1e-5)
	assert.InDelta(t, 12, v[floatsPerVertex+1], 1e-5)
}

func TestCircleSegmentsStayInsideBlitBuffer(t *testing.T) {
	dt, n := circleSegments(1e9)
	assert.Equal(t, maxCircleSegments, n)
	assert.InDelta(t, 2*math32.Pi/float32(n), dt, 1e-6)
	assert.LessOrEqual(t, 2*n+2, BlitBufferAbsoluteMaxVertices)

	_, n = arcSegments(1e9, 90)
	assert.Equal(t, maxCircleSegments, n)
}

func TestHugeShapesDrawWithoutOverflow(t *testing.T) {
	tests := []struct {
		name string
		draw func(r *Renderer, t *Target) error
	}{
		{"circle filled", func(r *Renderer, t *Target) error { return r.CircleFilled(t, 400, 300, 1e9, colors.White) }},
		{"circle", func(r *Renderer, t *Target) error { return r.Circle(t, 400, 300, 1e9, colors.White) }},
		{"ellipse filled", func(r *Renderer, t *Target) error { return r.EllipseFilled(t, 400, 300, 1e9, 10, 0, colors.White) }},
		{"arc", func(r *Renderer, t *Target) error { return r.Arc(t, 400, 300, 1e9, 10, 200, colors.White) }},
		{"arc filled", func(r *Renderer, t *Target) error { return r.ArcFilled(t, 400, 300, 1e9, 10, 200, colors.White) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := openTestRenderer(t)
			require.NoError(t, rig.r.RectangleFilled(rig.screen, 0, 0, 10, 10, colors.Red))
			require.NoError(t, tt.draw(rig.r, rig.screen))
			cdata := rig.r.cdata()
			assert.LessOrEqual(t, cdata.numVertices, cdata.maxVertices)
			assert.LessOrEqual(t, cdata.numIndices, cdata.maxIndices)
			for _, idx := range cdata.indexBuffer[:cdata.numIndices] {
				assert.Less(t, int(idx), cdata.numVertices)
			}
		})
	}
}

func TestOversizeShapeIsDataError(t *testing.T) {
	rig := openTestRenderer(t)
	points := make([]float32, 2*70000)
	for i := range 70000 {
		points[2*i] = float32(i % 800)
		points[2*i+1] = float32(i % 600)
	}
	err := rig.r.PolygonFilled(rig.screen, points, colors.White)
	assert.ErrorIs(t, err, ErrData)
	assert.Zero(t, rig.r.cdata().numVertices)

	assert.ErrorIs(t, rig.r.Polygon(rig.screen, points, colors.White), ErrData)
	assert.ErrorIs(t, rig.r.Polyline(rig.screen, points, colors.White, true), ErrData)
}
