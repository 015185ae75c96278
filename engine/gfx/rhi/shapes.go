package rhi

import (
	"github.com/chewxy/math32"

	"github.com/hubastard/grove-rhi/engine/colors"
)

// circleSegmentFactor sets the arc length between circle vertices: segments
// of about 1.25*sqrt(r) pixels look round at every radius.
const circleSegmentFactor = 0.625

const minCircleSegments = 16

// maxCircleSegments keeps the largest ring, 2n+2 vertices, inside the blit
// buffer.
const maxCircleSegments = BlitBufferAbsoluteMaxVertices/2 - 1

// circleSegments returns the angle step and segment count for a full circle.
func circleSegments(radius float32) (dt float32, n int) {
	if radius > 0 {
		dt = circleSegmentFactor / math32.Sqrt(radius)
		n = int(min(2*math32.Pi/dt, maxCircleSegments)) + 1
	}
	switch {
	case n < minCircleSegments:
		n = minCircleSegments
		dt = 2 * math32.Pi / float32(n-1)
	case n > maxCircleSegments:
		n = maxCircleSegments
		dt = 2 * math32.Pi / float32(n)
	}
	return dt, n
}

// arcSegments returns the angle step and segment count for span degrees of
// a circle.
func arcSegments(radius, span float32) (dt float32, n int) {
	dt = span / 360 * (circleSegmentFactor / math32.Sqrt(radius))
	n = int(min(span*degToRad/dt, maxCircleSegments))
	if n == maxCircleSegments {
		dt = span * degToRad / float32(n)
	}
	return dt, n
}

// shapeWriter appends untextured vertices and indices to the batch. Index
// offsets are relative to the first vertex of the shape.
type shapeWriter struct {
	cdata *contextData
	start int
	c     [4]float32
}

// beginShape prepares t for untextured geometry of the given primitive and
// reserves room for it.
func (r *Renderer) beginShape(fn string, t *Target, shape Primitive, vertices, indices int, c colors.Color) (shapeWriter, error) {
	if t == nil {
		return shapeWriter{}, r.fail(fn, ErrorNullArgument, "target")
	}
	if t.renderer != r {
		return shapeWriter{}, r.fail(fn, ErrorUser, "Mismatched renderer")
	}
	r.makeContextCurrent(t)
	if r.current == nil {
		return shapeWriter{}, r.fail(fn, ErrorUser, "NULL context")
	}
	if !r.SetActiveTarget(t) {
		return shapeWriter{}, r.fail(fn, ErrorBackend, "Failed to bind framebuffer.")
	}
	r.prepareToRenderToTarget(t)
	r.prepareToRenderShapes(shape)
	if !r.reserve(vertices, indices) {
		return shapeWriter{}, r.fail(fn, ErrorData, "Shape needs %d vertices and %d indices, more than the blit buffer holds.", vertices, indices)
	}

	w := shapeWriter{cdata: r.cdata(), start: r.cdata().numVertices}
	if t.UseColor {
		w.c[0], w.c[1], w.c[2], w.c[3] = t.Color.Modulate(c)
	} else {
		w.c[0], w.c[1], w.c[2], w.c[3] = c.Floats()
	}
	return w, nil
}

// vertex appends a vertex and an index pointing at it.
func (w *shapeWriter) vertex(x, y float32) {
	cd := w.cdata
	v := cd.blitBuffer[cd.numVertices*floatsPerVertex:]
	v[vertexOffset] = x
	v[vertexOffset+1] = y
	copy(v[colorOffset:colorOffset+4], w.c[:])
	cd.indexBuffer[cd.numIndices] = uint16(cd.numVertices)
	cd.numIndices++
	cd.numVertices++
}

// index repeats vertex start+offset.
func (w *shapeWriter) index(offset int) {
	cd := w.cdata
	cd.indexBuffer[cd.numIndices] = uint16(w.start + offset)
	cd.numIndices++
}

// relative repeats a vertex counted back from the end of the batch.
func (w *shapeWriter) relative(offset int) {
	cd := w.cdata
	cd.indexBuffer[cd.numIndices] = uint16(cd.numVertices + offset)
	cd.numIndices++
}

// A ring is drawn as a strip of inner/outer vertex pairs joined by two
// triangles per step.

func (w *shapeWriter) beginRing(x1, y1, x2, y2 float32) {
	w.vertex(x1, y1)
	w.vertex(x2, y2)
}

func (w *shapeWriter) ring(x1, y1, x2, y2 float32) {
	w.vertex(x1, y1)
	w.relative(-2)
	w.vertex(x2, y2)
	w.relative(-2)
	w.relative(-2)
	w.relative(-1)
}

// closeRing joins the last pair back to the first.
func (w *shapeWriter) closeRing() {
	w.index(0)
	w.relative(-1)
	w.index(1)
	w.index(0)
}

func (w *shapeWriter) endRing(x1, y1, x2, y2 float32) {
	w.vertex(x1, y1)
	w.relative(-2)
	w.vertex(x2, y2)
	w.relative(-2)
}

func (r *Renderer) lineThickness() float32 {
	if ctx := r.ctx(); ctx != nil {
		return ctx.lineThickness
	}
	return 1
}

// Pixel draws a single point.
func (r *Renderer) Pixel(t *Target, x, y float32, c colors.Color) error {
	w, err := r.beginShape("Pixel", t, Points, 1, 1, c)
	if err != nil {
		return err
	}
	w.vertex(x, y)
	return nil
}

// Line draws a segment as a quad of the current line thickness.
func (r *Renderer) Line(t *Target, x1, y1, x2, y2 float32, c colors.Color) error {
	half := r.lineThickness() / 2
	sin, cos := math32.Sincos(math32.Atan2(y2-y1, x2-x1))
	tc, ts := half*cos, half*sin

	w, err := r.beginShape("Line", t, Triangles, 4, 6, c)
	if err != nil {
		return err
	}
	w.vertex(x1+ts, y1-tc)
	w.vertex(x1-ts, y1+tc)
	w.vertex(x2+ts, y2-tc)
	w.index(1)
	w.index(2)
	w.vertex(x2-ts, y2+tc)
	return nil
}

// normalizeArc orders the angles and shifts them into one turn. It reports
// false for an empty arc.
func normalizeArc(start, end float32) (float32, float32, bool) {
	if start > end {
		start, end = end, start
	}
	if start == end {
		return start, end, false
	}
	for start < 0 && end < 0 {
		start += 360
		end += 360
	}
	for start > 360 && end > 360 {
		start -= 360
		end -= 360
	}
	return start, end, true
}

// Arc outlines the part of a circle between two angles in degrees.
func (r *Renderer) Arc(t *Target, x, y, radius, startAngle, endAngle float32, c colors.Color) error {
	half := r.lineThickness() / 2
	inner := max(radius-half, 0)
	outer := radius + half

	startAngle, endAngle, ok := normalizeArc(startAngle, endAngle)
	if !ok {
		return nil
	}
	if endAngle-startAngle >= 360 {
		return r.Circle(t, x, y, radius, c)
	}

	dt, n := arcSegments(outer, endAngle-startAngle)
	if n == 0 {
		return nil
	}

	w, err := r.beginShape("Arc", t, Triangles, 2*n+2, 6*n, c)
	if err != nil {
		return err
	}
	s, co := math32.Sincos(dt)
	dy, dx := math32.Sincos(startAngle * degToRad)
	w.beginRing(x+inner*dx, y+inner*dy, x+outer*dx, y+outer*dy)
	for i := 1; i < n; i++ {
		dx, dy = co*dx-s*dy, s*dx+co*dy
		w.ring(x+inner*dx, y+inner*dy, x+outer*dx, y+outer*dy)
	}
	dy, dx = math32.Sincos(endAngle * degToRad)
	w.endRing(x+inner*dx, y+inner*dy, x+outer*dx, y+outer*dy)
	return nil
}

// ArcFilled fills the pie slice between two angles in degrees.
func (r *Renderer) ArcFilled(t *Target, x, y, radius, startAngle, endAngle float32, c colors.Color) error {
	startAngle, endAngle, ok := normalizeArc(startAngle, endAngle)
	if !ok {
		return nil
	}
	if endAngle-startAngle >= 360 {
		return r.CircleFilled(t, x, y, radius, c)
	}

	dt, n := arcSegments(radius, endAngle-startAngle)
	if n == 0 {
		return nil
	}

	w, err := r.beginShape("ArcFilled", t, Triangles, n+3, 3*n+3, c)
	if err != nil {
		return err
	}
	s, co := math32.Sincos(dt)
	dy, dx := math32.Sincos(startAngle * degToRad)

	w.vertex(x, y)
	w.vertex(x+radius*dx, y+radius*dy)
	dx, dy = co*dx-s*dy, s*dx+co*dy
	w.vertex(x+radius*dx, y+radius*dy)

	i := 2
	for ; i < n+1; i++ {
		dx, dy = co*dx-s*dy, s*dx+co*dy
		w.index(0)
		w.index(i)
		w.vertex(x+radius*dx, y+radius*dy)
	}

	dy, dx = math32.Sincos(endAngle * degToRad)
	w.index(0)
	w.index(i)
	w.vertex(x+radius*dx, y+radius*dy)
	return nil
}

// Circle outlines a circle with the current line thickness.
func (r *Renderer) Circle(t *Target, x, y, radius float32, c colors.Color) error {
	half := r.lineThickness() / 2
	inner := max(radius-half, 0)
	outer := radius + half
	dt, n := circleSegments(outer)

	w, err := r.beginShape("Circle", t, Triangles, 2*n, 6*n, c)
	if err != nil {
		return err
	}
	s, co := math32.Sincos(dt)
	dx, dy := float32(1), float32(0)
	w.beginRing(x+inner, y, x+outer, y)
	for i := 1; i < n; i++ {
		dx, dy = co*dx-s*dy, s*dx+co*dy
		w.ring(x+inner*dx, y+inner*dy, x+outer*dx, y+outer*dy)
	}
	w.closeRing()
	return nil
}

// CircleFilled fills a circle with a triangle fan around its center.
func (r *Renderer) CircleFilled(t *Target, x, y, radius float32, c colors.Color) error {
	dt, n := circleSegments(radius)

	w, err := r.beginShape("CircleFilled", t, Triangles, n+1, 3*n, c)
	if err != nil {
		return err
	}
	s, co := math32.Sincos(dt)
	dx, dy := float32(1), float32(0)

	w.vertex(x, y)
	w.vertex(x+radius, y)
	dx, dy = co*dx-s*dy, s*dx+co*dy
	w.vertex(x+radius*dx, y+radius*dy)

	i := 2
	for ; i < n; i++ {
		dx, dy = co*dx-s*dy, s*dx+co*dy
		w.index(0)
		w.index(i)
		w.vertex(x+radius*dx, y+radius*dy)
	}
	w.index(0)
	w.index(i)
	w.index(1)
	return nil
}

// Ellipse outlines an ellipse with radii rx, ry rotated by degrees.
func (r *Renderer) Ellipse(t *Target, x, y, rx, ry, degrees float32, c colors.Color) error {
	half := r.lineThickness() / 2
	rotY, rotX := math32.Sincos(degrees * degToRad)
	innerX, outerX := max(rx-half, 0), rx+half
	innerY, outerY := max(ry-half, 0), ry+half
	dt, n := circleSegments(max(outerX, outerY))

	w, err := r.beginShape("Ellipse", t, Triangles, 2*n, 6*n, c)
	if err != nil {
		return err
	}
	point := func(radX, radY, dx, dy float32) (float32, float32) {
		return x + rotX*radX*dx - rotY*radY*dy, y + rotY*radX*dx + rotX*radY*dy
	}
	s, co := math32.Sincos(dt)
	dx, dy := float32(1), float32(0)

	ix, iy := point(innerX, innerY, dx, dy)
	ox, oy := point(outerX, outerY, dx, dy)
	w.beginRing(ix, iy, ox, oy)
	for i := 1; i < n; i++ {
		dx, dy = co*dx-s*dy, s*dx+co*dy
		ix, iy = point(innerX, innerY, dx, dy)
		ox, oy = point(outerX, outerY, dx, dy)
		w.ring(ix, iy, ox, oy)
	}
	w.closeRing()
	return nil
}

// EllipseFilled fills an ellipse with radii rx, ry rotated by degrees.
func (r *Renderer) EllipseFilled(t *Target, x, y, rx, ry, degrees float32, c colors.Color) error {
	rotY, rotX := math32.Sincos(degrees * degToRad)
	dt, n := circleSegments(max(rx, ry))

	w, err := r.beginShape("EllipseFilled", t, Triangles, n+1, 3*n, c)
	if err != nil {
		return err
	}
	point := func(dx, dy float32) (float32, float32) {
		return x + rotX*rx*dx - rotY*ry*dy, y + rotY*rx*dx + rotX*ry*dy
	}
	s, co := math32.Sincos(dt)
	dx, dy := float32(1), float32(0)

	w.vertex(x, y)
	w.vertex(point(dx, dy))
	dx, dy = co*dx-s*dy, s*dx+co*dy
	w.vertex(point(dx, dy))

	i := 2
	for ; i < n; i++ {
		dx, dy = co*dx-s*dy, s*dx+co*dy
		w.index(0)
		w.index(i)
		w.vertex(point(dx, dy))
	}
	w.index(0)
	w.index(i)
	w.index(1)
	return nil
}

// Tri outlines a triangle with hairlines.
func (r *Renderer) Tri(t *Target, x1, y1, x2, y2, x3, y3 float32, c colors.Color) error {
	w, err := r.beginShape("Tri", t, Lines, 3, 6, c)
	if err != nil {
		return err
	}
	w.vertex(x1, y1)
	w.vertex(x2, y2)
	w.index(1)
	w.vertex(x3, y3)
	w.index(2)
	w.index(0)
	return nil
}

func (r *Renderer) TriFilled(t *Target, x1, y1, x2, y2, x3, y3 float32, c colors.Color) error {
	w, err := r.beginShape("TriFilled", t, Triangles, 3, 3, c)
	if err != nil {
		return err
	}
	w.vertex(x1, y1)
	w.vertex(x2, y2)
	w.vertex(x3, y3)
	return nil
}

// Rectangle outlines the rectangle spanned by two corners. The border is
// centered on the edges and never overlaps itself on small rectangles.
func (r *Renderer) Rectangle(t *Target, x1, y1, x2, y2 float32, c colors.Color) error {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	outer := r.lineThickness() / 2
	innerX, innerY := outer, outer

	w, err := r.beginShape("Rectangle", t, Triangles, 12, 24, c)
	if err != nil {
		return err
	}
	if x1+innerX > x2-innerX {
		innerX = (x2 - x1) / 2
	}
	if y1+innerY > y2-innerY {
		innerY = (y2 - y1) / 2
	}

	w.vertex(x1-outer, y1-outer)  // 0
	w.vertex(x1-outer, y1+innerY) // 1
	w.vertex(x2+outer, y1-outer)  // 2
	w.index(2)
	w.index(1)
	w.vertex(x2+outer, y1+innerY) // 3

	w.index(3)
	w.vertex(x2-innerX, y1+innerY) // 4
	w.vertex(x2-innerX, y2-innerY) // 5
	w.index(3)
	w.index(5)
	w.vertex(x2+outer, y2-innerY) // 6

	w.index(6)
	w.vertex(x1-outer, y2-innerY) // 7
	w.vertex(x2+outer, y2+outer)  // 8
	w.index(7)
	w.vertex(x1-outer, y2+outer) // 9
	w.index(8)

	w.index(7)
	w.vertex(x1+innerX, y2-innerY) // 10
	w.index(1)
	w.index(1)
	w.index(10)
	w.vertex(x1+innerX, y1+innerY) // 11
	return nil
}

func (r *Renderer) RectangleFilled(t *Target, x1, y1, x2, y2 float32, c colors.Color) error {
	w, err := r.beginShape("RectangleFilled", t, Triangles, 4, 6, c)
	if err != nil {
		return err
	}
	w.vertex(x1, y1)
	w.vertex(x1, y2)
	w.vertex(x2, y1)
	w.index(1)
	w.index(2)
	w.vertex(x2, y2)
	return nil
}

// Polygon outlines the closed polygon with hairlines. vertices holds x, y
// pairs.
func (r *Renderer) Polygon(t *Target, vertices []float32, c colors.Color) error {
	n := len(vertices) / 2
	if n < 3 {
		return nil
	}
	w, err := r.beginShape("Polygon", t, Lines, n, 2*n, c)
	if err != nil {
		return err
	}
	w.vertex(vertices[0], vertices[1])
	for i := 1; i < n; i++ {
		w.vertex(vertices[2*i], vertices[2*i+1])
		w.index(i)
	}
	w.index(0)
	return nil
}

// Polyline draws thick segments through the x, y pairs in vertices, joining
// the last point to the first when closed.
func (r *Renderer) Polyline(t *Target, vertices []float32, c colors.Color, closed bool) error {
	n := len(vertices) / 2
	if n < 2 {
		return nil
	}
	half := r.lineThickness() / 2
	numV, numI, segments := 4*n, 4*n+2, n
	if !closed {
		numV -= 4
		numI = numV
		segments--
	}

	w, err := r.beginShape("Polyline", t, TriangleStrip, numV, numI, c)
	if err != nil {
		return err
	}
	for i := 0; i < segments; i++ {
		j := (i + 1) % n
		x1, y1 := vertices[2*i], vertices[2*i+1]
		x2, y2 := vertices[2*j], vertices[2*j+1]
		sin, cos := math32.Sincos(math32.Atan2(y2-y1, x2-x1))
		tc, ts := half*cos, half*sin
		w.vertex(x1+ts, y1-tc)
		w.vertex(x1-ts, y1+tc)
		w.vertex(x2+ts, y2-tc)
		w.vertex(x2-ts, y2+tc)
	}
	if closed {
		w.index(0)
		w.index(1)
	}
	return nil
}

// PolygonFilled fills a convex polygon with a triangle fan from its first
// vertex.
func (r *Renderer) PolygonFilled(t *Target, vertices []float32, c colors.Color) error {
	n := len(vertices) / 2
	if n < 3 {
		return nil
	}
	w, err := r.beginShape("PolygonFilled", t, Triangles, n, 3*(n-2), c)
	if err != nil {
		return err
	}
	w.vertex(vertices[0], vertices[1])
	w.vertex(vertices[2], vertices[3])
	w.vertex(vertices[4], vertices[5])
	for i := 3; i < n; i++ {
		w.index(0)
		w.index(i - 1)
		w.vertex(vertices[2*i], vertices[2*i+1])
	}
	return nil
}
