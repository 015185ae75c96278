package rhi

import (
	"github.com/chewxy/math32"

	"github.com/hubastard/grove-rhi/engine/profiler"
)

const degToRad = math32.Pi / 180

// prepareBlit validates a blit and brings the context into the state its
// quad is recorded under.
func (r *Renderer) prepareBlit(fn string, img *Image, t *Target) error {
	if img == nil {
		return r.fail(fn, ErrorNullArgument, "image")
	}
	if t == nil {
		return r.fail(fn, ErrorNullArgument, "target")
	}
	if img.renderer != r || t.renderer != r {
		return r.fail(fn, ErrorUser, "Mismatched renderer")
	}
	r.makeContextCurrent(t)
	if r.current == nil {
		return r.fail(fn, ErrorUser, "NULL context")
	}

	r.prepareToRenderToTarget(t)
	r.prepareToRenderImage(t, img)
	r.bindTexture(img)
	if !r.SetActiveTarget(t) {
		return r.fail(fn, ErrorBackend, "Failed to bind framebuffer.")
	}
	return nil
}

// texCoords maps src (or the whole image) into normalized texture space.
func (img *Image) texCoords(src *Rect) (x1, y1, x2, y2, w, h float32) {
	texW, texH := float32(img.TextureW), float32(img.TextureH)
	if src == nil {
		x2 = float32(img.W) / texW
		y2 = float32(img.H) / texH
		w, h = float32(img.W), float32(img.H)
	} else {
		x1 = src.X / texW
		y1 = src.Y / texH
		x2 = (src.X + src.W) / texW
		y2 = (src.Y + src.H) / texH
		w, h = src.W, src.H
	}
	if img.UsingVirtualResolution {
		sx := float32(img.BaseW) / float32(img.W)
		sy := float32(img.BaseH) / float32(img.H)
		x1 *= sx
		y1 *= sy
		x2 *= sx
		y2 *= sy
	}
	return x1, y1, x2, y2, w, h
}

func (img *Image) snapsPosition() bool {
	return img.SnapMode == SnapPosition || img.SnapMode == SnapPositionAndDimensions
}

func (img *Image) snapsDimensions() bool {
	return img.SnapMode == SnapDimensions || img.SnapMode == SnapPositionAndDimensions
}

// halfFraction is the fractional part of v/2, added to corners so odd sized
// quads land on pixel centers.
func halfFraction(v float32) float32 {
	return v/2 - math32.Floor(v/2)
}

func blitColor(t *Target, img *Image) [4]float32 {
	var c [4]float32
	if t.UseColor {
		c[0], c[1], c[2], c[3] = t.Color.Modulate(img.Color)
	} else {
		c[0], c[1], c[2], c[3] = img.Color.Floats()
	}
	return c
}

// appendQuad records one sprite. Corners go clockwise from the top left and
// tex holds (s, t) for each of them.
func (r *Renderer) appendQuad(pos, tex [4][2]float32, c [4]float32) {
	cdata := r.cdata()
	if cdata.numVertices+verticesPerSprite > cdata.maxVertices ||
		cdata.numIndices+indicesPerSprite > cdata.maxIndices {
		r.FlushBlitBuffer()
	}

	base := cdata.numVertices
	for i := 0; i < verticesPerSprite; i++ {
		v := cdata.blitBuffer[(base+i)*floatsPerVertex:]
		v[vertexOffset] = pos[i][0]
		v[vertexOffset+1] = pos[i][1]
		v[texCoordOffset] = tex[i][0]
		v[texCoordOffset+1] = tex[i][1]
		v[colorOffset] = c[0]
		v[colorOffset+1] = c[1]
		v[colorOffset+2] = c[2]
		v[colorOffset+3] = c[3]
	}
	idx := cdata.indexBuffer[cdata.numIndices:]
	b := uint16(base)
	idx[0], idx[1], idx[2] = b, b+1, b+2
	idx[3], idx[4], idx[5] = b, b+2, b+3

	cdata.numVertices += verticesPerSprite
	cdata.numIndices += indicesPerSprite
	r.stats.Sprites++
}

// Blit draws src of img (the whole image when nil) onto t with the image
// anchor at (x, y).
func (r *Renderer) Blit(img *Image, src *Rect, t *Target, x, y float32) error {
	if err := r.prepareBlit("Blit", img, t); err != nil {
		return err
	}
	if img.snapsPosition() {
		x, y = math32.Floor(x), math32.Floor(y)
	}
	x1, y1, x2, y2, w, h := img.texCoords(src)

	dx1 := x - w*img.AnchorX
	dy1 := y - h*img.AnchorY
	dx2 := x + w*(1-img.AnchorX)
	dy2 := y + h*(1-img.AnchorY)
	if img.snapsDimensions() {
		fx, fy := halfFraction(w), halfFraction(h)
		dx1 += fx
		dx2 += fx
		dy1 += fy
		dy2 += fy
	}
	if r.coordinateMode {
		dy1, dy2 = dy2, dy1
	}

	r.appendQuad(
		[4][2]float32{{dx1, dy1}, {dx2, dy1}, {dx2, dy2}, {dx1, dy2}},
		[4][2]float32{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}},
		blitColor(t, img),
	)
	return nil
}

// anchorPivot is the pivot that keeps the anchor of img fixed.
func (img *Image) anchorPivot(src *Rect) (float32, float32) {
	w, h := float32(img.W), float32(img.H)
	if src != nil {
		w, h = src.W, src.H
	}
	return w * img.AnchorX, h * img.AnchorY
}

// BlitRotate draws img rotated by degrees about its anchor.
func (r *Renderer) BlitRotate(img *Image, src *Rect, t *Target, x, y, degrees float32) error {
	if img == nil {
		return r.fail("BlitRotate", ErrorNullArgument, "image")
	}
	px, py := img.anchorPivot(src)
	return r.BlitTransformX(img, src, t, x, y, px, py, degrees, 1, 1)
}

// BlitScale draws img scaled about its anchor.
func (r *Renderer) BlitScale(img *Image, src *Rect, t *Target, x, y, scaleX, scaleY float32) error {
	if img == nil {
		return r.fail("BlitScale", ErrorNullArgument, "image")
	}
	px, py := img.anchorPivot(src)
	return r.BlitTransformX(img, src, t, x, y, px, py, 0, scaleX, scaleY)
}

// BlitTransform draws img rotated and scaled about its anchor.
func (r *Renderer) BlitTransform(img *Image, src *Rect, t *Target, x, y, degrees, scaleX, scaleY float32) error {
	if img == nil {
		return r.fail("BlitTransform", ErrorNullArgument, "image")
	}
	px, py := img.anchorPivot(src)
	return r.BlitTransformX(img, src, t, x, y, px, py, degrees, scaleX, scaleY)
}

// BlitTransformX scales then rotates img about (pivotX, pivotY), given in
// image pixels, and places the pivot at (x, y).
func (r *Renderer) BlitTransformX(img *Image, src *Rect, t *Target, x, y, pivotX, pivotY, degrees, scaleX, scaleY float32) error {
	if err := r.prepareBlit("BlitTransformX", img, t); err != nil {
		return err
	}
	if img.snapsPosition() {
		x, y = math32.Floor(x), math32.Floor(y)
	}
	x1, y1, x2, y2, w, h := img.texCoords(src)

	dx1, dy1 := -pivotX, -pivotY
	dx2, dy2 := w-pivotX, h-pivotY
	if img.snapsDimensions() {
		fx, fy := halfFraction(w), halfFraction(h)
		dx1 += fx
		dx2 += fx
		dy1 += fy
		dy2 += fy
	}
	if r.coordinateMode {
		dy1, dy2 = dy2, dy1
	}

	if scaleX != 1 || scaleY != 1 {
		dx1 *= scaleX
		dx2 *= scaleX
		dy1 *= scaleY
		dy2 *= scaleY
	}

	// Top left, top right, bottom right, bottom left.
	corners := [4][2]float32{{dx1, dy1}, {dx2, dy1}, {dx2, dy2}, {dx1, dy2}}
	if degrees != 0 {
		sin, cos := math32.Sincos(degrees * degToRad)
		for i, c := range corners {
			corners[i] = [2]float32{c[0]*cos - c[1]*sin, c[0]*sin + c[1]*cos}
		}
	}
	for i := range corners {
		corners[i][0] += x
		corners[i][1] += y
	}

	r.appendQuad(
		corners,
		[4][2]float32{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}},
		blitColor(t, img),
	)
	return nil
}

// BlitRect stretches src of img over dest, or over the whole target when
// dest is nil.
func (r *Renderer) BlitRect(img *Image, src *Rect, t *Target, dest *Rect) error {
	if img == nil {
		return r.fail("BlitRect", ErrorNullArgument, "image")
	}
	w, h := float32(img.W), float32(img.H)
	if src != nil {
		w, h = src.W, src.H
	}
	return r.BlitRectX(img, src, t, dest, 0, w/2, h/2, FlipNone)
}

// BlitRectX stretches src of img over dest, rotating about the pivot and
// mirroring as flip asks.
func (r *Renderer) BlitRectX(img *Image, src *Rect, t *Target, dest *Rect, degrees, pivotX, pivotY float32, flip FlipMode) error {
	const fn = "BlitRectX"
	if img == nil {
		return r.fail(fn, ErrorNullArgument, "image")
	}
	if t == nil {
		return r.fail(fn, ErrorNullArgument, "target")
	}
	w, h := float32(img.W), float32(img.H)
	if src != nil {
		w, h = src.W, src.H
	}
	d := fullRect(t.W, t.H)
	if dest != nil {
		d = *dest
	}

	scaleX, scaleY := d.W/w, d.H/h
	if flip&FlipHorizontal != 0 {
		scaleX = -scaleX
		d.X += d.W
		pivotX = w - pivotX
	}
	if flip&FlipVertical != 0 {
		scaleY = -scaleY
		d.Y += d.H
		pivotY = h - pivotY
	}
	return r.BlitTransformX(img, src, t, d.X+pivotX*scaleX, d.Y+pivotY*scaleY, pivotX, pivotY, degrees, scaleX, scaleY)
}

// growBlitBuffer makes room for n vertices. Capacity never shrinks and stops
// at BlitBufferAbsoluteMaxVertices; it reports false when n does not fit.
func (r *Renderer) growBlitBuffer(n int) bool {
	cdata := r.cdata()
	if n <= cdata.maxVertices {
		return true
	}
	if cdata.maxVertices >= BlitBufferAbsoluteMaxVertices {
		return false
	}
	newMax := cdata.maxVertices * 2
	for newMax <= n {
		newMax *= 2
	}
	if newMax > BlitBufferAbsoluteMaxVertices {
		newMax = BlitBufferAbsoluteMaxVertices
	}
	Logger().Debug("growing blit buffer", "from", cdata.maxVertices, "to", newMax)

	buf := make([]float32, newMax*floatsPerVertex)
	copy(buf, cdata.blitBuffer[:cdata.numVertices*floatsPerVertex])
	cdata.blitBuffer = buf
	cdata.maxVertices = newMax

	r.drv.BindVertexArray(cdata.vao)
	for _, vbo := range cdata.vbo {
		r.drv.BindBuffer(GLArrayBuffer, vbo)
		r.drv.BufferAlloc(GLArrayBuffer, blitVertexStride*newMax, GLStreamDraw)
	}
	return n <= newMax
}

// growIndexBuffer makes room for n indices, like growBlitBuffer.
func (r *Renderer) growIndexBuffer(n int) bool {
	cdata := r.cdata()
	if n <= cdata.maxIndices {
		return true
	}
	if cdata.maxIndices >= IndexBufferAbsoluteMaxVertices {
		return false
	}
	newMax := cdata.maxIndices * 2
	for newMax <= n {
		newMax *= 2
	}
	if newMax > IndexBufferAbsoluteMaxVertices {
		newMax = IndexBufferAbsoluteMaxVertices
	}
	Logger().Debug("growing index buffer", "from", cdata.maxIndices, "to", newMax)

	buf := make([]uint16, newMax)
	copy(buf, cdata.indexBuffer[:cdata.numIndices])
	cdata.indexBuffer = buf
	cdata.maxIndices = newMax

	r.drv.BindBuffer(GLElementArrayBuffer, cdata.ibo)
	r.drv.BufferAlloc(GLElementArrayBuffer, 2*newMax, GLDynamicDraw)
	return n <= newMax
}

// reserve makes room for a shape, flushing what is pending when the buffers
// cannot grow far enough. It reports false for a shape that does not fit even
// an empty buffer.
func (r *Renderer) reserve(vertices, indices int) bool {
	if vertices > BlitBufferAbsoluteMaxVertices || indices > IndexBufferAbsoluteMaxVertices {
		return false
	}
	cdata := r.cdata()
	if r.growBlitBuffer(cdata.numVertices+vertices) && r.growIndexBuffer(cdata.numIndices+indices) {
		return true
	}
	r.FlushBlitBuffer()
	return r.growBlitBuffer(vertices) && r.growIndexBuffer(indices)
}

func (r *Renderer) uploadMVP() {
	block := r.ctx().currentBlock
	if block.MVPLoc < 0 {
		return
	}
	mvp := r.ModelViewProjection(r.ctx().activeTarget)
	r.drv.UniformMatrixfv(block.MVPLoc, 4, 4, false, mvp[:])
}

// bindNextVBO alternates between the two blit VBOs so a buffer the GPU still
// reads is not overwritten.
func (r *Renderer) bindNextVBO() {
	cdata := r.cdata()
	if cdata.vboFlop {
		r.drv.BindBuffer(GLArrayBuffer, cdata.vbo[1])
	} else {
		r.drv.BindBuffer(GLArrayBuffer, cdata.vbo[0])
	}
	cdata.vboFlop = !cdata.vboFlop
}

func (r *Renderer) enableBlitAttributes(block ShaderBlock, textured bool) {
	if block.PositionLoc >= 0 {
		loc := uint32(block.PositionLoc)
		r.drv.EnableVertexAttribArray(loc)
		r.drv.VertexAttribPointer(loc, 2, GLFloat, false, blitVertexStride, vertexOffset*4)
	}
	if textured && block.TexCoordLoc >= 0 {
		loc := uint32(block.TexCoordLoc)
		r.drv.EnableVertexAttribArray(loc)
		r.drv.VertexAttribPointer(loc, 2, GLFloat, false, blitVertexStride, texCoordOffset*4)
	}
	if block.ColorLoc >= 0 {
		loc := uint32(block.ColorLoc)
		r.drv.EnableVertexAttribArray(loc)
		r.drv.VertexAttribPointer(loc, 4, GLFloat, false, blitVertexStride, colorOffset*4)
	}
}

func (r *Renderer) disableBlitAttributes(block ShaderBlock, textured bool) {
	if block.PositionLoc >= 0 {
		r.drv.DisableVertexAttribArray(uint32(block.PositionLoc))
	}
	if textured && block.TexCoordLoc >= 0 {
		r.drv.DisableVertexAttribArray(uint32(block.TexCoordLoc))
	}
	if block.ColorLoc >= 0 {
		r.drv.DisableVertexAttribArray(uint32(block.ColorLoc))
	}
}

// chunkSize is how many of the pending vertices the next textured draw may
// take: no more than the shortest custom attribute source has left, in
// whole quads.
func (r *Renderer) chunkSize(pending int) int {
	cdata := r.cdata()
	n := pending
	for i := range cdata.attributes {
		a := &cdata.attributes[i]
		if a.active() && a.numValues > 0 && a.numValues < n {
			n = a.numValues
		}
	}
	n -= n % verticesPerSprite
	if n == 0 {
		n = min(pending, verticesPerSprite)
	}
	return n
}

// drawBlitChunk draws the n vertices starting at vertex start. Their indices
// are rebased so the chunk reads from the start of the uploaded buffer.
func (r *Renderer) drawBlitChunk(start, n int) {
	cdata := r.cdata()
	block := r.ctx().currentBlock

	first := start * indicesPerSprite / verticesPerSprite
	count := (n*indicesPerSprite + verticesPerSprite - 1) / verticesPerSprite
	if first+count > cdata.numIndices {
		count = cdata.numIndices - first
	}
	indices := cdata.indexBuffer[first : first+count]
	if start > 0 {
		base := uint16(start)
		for i := range indices {
			indices[i] -= base
		}
	}

	r.drv.BindVertexArray(cdata.vao)
	r.uploadMVP()
	r.bindNextVBO()
	r.drv.BindBuffer(GLElementArrayBuffer, cdata.ibo)
	r.drv.BufferFloat32(GLArrayBuffer, cdata.blitBuffer[start*floatsPerVertex:(start+n)*floatsPerVertex], GLStreamDraw)
	r.drv.BufferUint16(GLElementArrayBuffer, indices, GLDynamicDraw)

	r.enableBlitAttributes(block, true)
	r.uploadAttributeData(n)
	r.drv.DrawElements(Enum(cdata.lastShape), int32(count), GLUnsignedShort, 0)
	r.disableBlitAttributes(block, true)
	r.disableAttributeData()
	r.drv.BindVertexArray(0)

	r.stats.DrawCalls++
	r.stats.Vertices += n
	r.stats.Indices += count
}

// drawUntextured draws all pending shape geometry in one call.
func (r *Renderer) drawUntextured() {
	cdata := r.cdata()
	block := r.ctx().currentBlock

	r.drv.BindVertexArray(cdata.vao)
	r.uploadMVP()
	r.bindNextVBO()
	r.drv.BindBuffer(GLElementArrayBuffer, cdata.ibo)
	r.drv.BufferFloat32(GLArrayBuffer, cdata.blitBuffer[:cdata.numVertices*floatsPerVertex], GLStreamDraw)
	r.drv.BufferUint16(GLElementArrayBuffer, cdata.indexBuffer[:cdata.numIndices], GLDynamicDraw)

	r.enableBlitAttributes(block, false)
	r.uploadAttributeData(cdata.numVertices)
	r.drv.DrawElements(Enum(cdata.lastShape), int32(cdata.numIndices), GLUnsignedShort, 0)
	r.disableBlitAttributes(block, false)
	r.disableAttributeData()
	r.drv.BindVertexArray(0)

	r.stats.DrawCalls++
	r.stats.Vertices += cdata.numVertices
	r.stats.Indices += cdata.numIndices
}

// FlushBlitBuffer draws everything batched on the current context into its
// active target and empties the batch.
func (r *Renderer) FlushBlitBuffer() {
	cdata := r.cdata()
	if cdata == nil || cdata.flushing {
		return
	}
	ctx := r.ctx()
	if cdata.numVertices > 0 && ctx.activeTarget != nil {
		defer profiler.Start("rhi.FlushBlitBuffer")()
		cdata.flushing = true
		defer func() { cdata.flushing = false }()

		dest := ctx.activeTarget
		r.changeViewport(dest)
		r.changeCamera(dest)
		r.applyTexturing()
		r.setClipRect(dest)
		r.refreshAttributeData()
		r.stats.Flushes++

		if cdata.lastUseTexturing {
			for start := 0; start < cdata.numVertices; {
				n := r.chunkSize(cdata.numVertices - start)
				r.drawBlitChunk(start, n)
				start += n
			}
		} else {
			r.drawUntextured()
		}

		cdata.numVertices = 0
		cdata.numIndices = 0
		r.unsetClipRect(dest)
	}
	// State changed inside the flush is already in effect.
	cdata.dirty = 0
}
