package rhi

import (
	"encoding/binary"
	"math"
)

// vertexLayout is the interleaved layout PrimitiveBatchV reads.
type vertexLayout struct {
	posSize, texSize, colorSize int
	byteColors                  bool
	stride                      int
	texOffset, colorOffset      int
}

func (f BatchFlags) layout() vertexLayout {
	var l vertexLayout
	floats := 0
	switch {
	case f&BatchXYZ != 0:
		l.posSize = 3
	case f&BatchXY != 0:
		l.posSize = 2
	}
	floats += l.posSize
	l.texOffset = floats
	l.colorOffset = floats
	if f&BatchST != 0 {
		l.texSize = 2
		floats += 2
		l.colorOffset = floats
	}
	if f&(BatchRGB|BatchRGBA|BatchRGB8|BatchRGBA8) != 0 {
		l.colorSize = 3
		if f&(BatchRGBA|BatchRGBA8) != 0 {
			l.colorSize = 4
		}
		l.byteColors = f&(BatchRGB8|BatchRGBA8) != 0
		if !l.byteColors {
			floats += l.colorSize
		}
	}
	l.stride = floats * 4
	l.texOffset *= 4
	l.colorOffset *= 4
	if l.byteColors {
		l.stride += l.colorSize
	}
	return l
}

// PrimitiveBatchV draws caller supplied interleaved vertex data in one call,
// flushing whatever was batched before. values is laid out as flags says;
// nil indices draw the vertices in order.
func (r *Renderer) PrimitiveBatchV(img *Image, t *Target, primitive Primitive, numVertices int, values []byte, numIndices int, indices []uint16, flags BatchFlags) error {
	const fn = "PrimitiveBatchV"
	if numVertices == 0 {
		return nil
	}
	if t == nil {
		return r.fail(fn, ErrorNullArgument, "target")
	}
	if (img != nil && img.renderer != r) || t.renderer != r {
		return r.fail(fn, ErrorUser, "Mismatched renderer")
	}

	r.makeContextCurrent(t)
	if r.current == nil {
		return r.fail(fn, ErrorUser, "NULL context")
	}
	textured := img != nil
	if textured {
		r.bindTexture(img)
	}
	if !r.SetActiveTarget(t) {
		return r.fail(fn, ErrorBackend, "Failed to bind framebuffer.")
	}

	r.prepareToRenderToTarget(t)
	if textured {
		r.prepareToRenderImage(t, img)
	} else {
		r.prepareToRenderShapes(primitive)
	}
	r.changeViewport(t)
	r.changeCamera(t)
	if textured {
		r.changeTexturing(true)
	}
	r.FlushBlitBuffer()
	r.setClipRect(t)

	cdata := r.cdata()
	if !r.growBlitBuffer(cdata.numVertices + numVertices) {
		numVertices = cdata.maxVertices - cdata.numVertices
	}
	if !r.growIndexBuffer(cdata.numIndices + numIndices) {
		numIndices = cdata.maxIndices - cdata.numIndices
	}
	r.refreshAttributeData()

	if indices == nil {
		numIndices = numVertices
	} else if numIndices > len(indices) {
		numIndices = len(indices)
	}

	l := flags.layout()
	block := r.ctx().currentBlock
	usePos := l.posSize > 0 && block.PositionLoc >= 0
	useTex := l.texSize > 0 && block.TexCoordLoc >= 0
	useColor := l.colorSize > 0 && block.ColorLoc >= 0

	r.drv.BindVertexArray(cdata.vao)
	r.uploadMVP()

	if values != nil {
		if n := l.stride * numVertices; n < len(values) {
			values = values[:n]
		}
		r.bindNextVBO()
		r.drv.BindBuffer(GLElementArrayBuffer, cdata.ibo)
		r.drv.BufferBytes(GLArrayBuffer, values, GLStreamDraw)
		if indices != nil {
			r.drv.BufferUint16(GLElementArrayBuffer, indices[:numIndices], GLDynamicDraw)
		}

		if usePos {
			loc := uint32(block.PositionLoc)
			r.drv.EnableVertexAttribArray(loc)
			r.drv.VertexAttribPointer(loc, int32(l.posSize), GLFloat, false, int32(l.stride), 0)
		}
		if useTex {
			loc := uint32(block.TexCoordLoc)
			r.drv.EnableVertexAttribArray(loc)
			r.drv.VertexAttribPointer(loc, int32(l.texSize), GLFloat, false, int32(l.stride), l.texOffset)
		}
		if useColor {
			loc := uint32(block.ColorLoc)
			r.drv.EnableVertexAttribArray(loc)
			if l.byteColors {
				r.drv.VertexAttribPointer(loc, int32(l.colorSize), GLUnsignedByte, true, int32(l.stride), l.colorOffset)
			} else {
				r.drv.VertexAttribPointer(loc, int32(l.colorSize), GLFloat, false, int32(l.stride), l.colorOffset)
			}
		} else if block.ColorLoc >= 0 {
			cr, cg, cb, ca := completeModColor(t, img).Floats()
			r.drv.VertexAttrib4f(uint32(block.ColorLoc), cr, cg, cb, ca)
		}
	}

	r.uploadAttributeData(numIndices)
	if indices == nil {
		r.drv.DrawArrays(Enum(primitive), 0, int32(numIndices))
	} else {
		r.drv.DrawElements(Enum(primitive), int32(numIndices), GLUnsignedShort, 0)
	}

	if usePos {
		r.drv.DisableVertexAttribArray(uint32(block.PositionLoc))
	}
	if useTex {
		r.drv.DisableVertexAttribArray(uint32(block.TexCoordLoc))
	}
	if useColor {
		r.drv.DisableVertexAttribArray(uint32(block.ColorLoc))
	}
	r.disableAttributeData()
	r.drv.BindVertexArray(0)

	r.stats.DrawCalls++
	r.stats.Vertices += numVertices
	if indices != nil {
		r.stats.Indices += numIndices
	}

	cdata.numVertices = 0
	cdata.numIndices = 0
	r.unsetClipRect(t)
	return nil
}

// PrimitiveBatch is PrimitiveBatchV for all-float layouts.
func (r *Renderer) PrimitiveBatch(img *Image, t *Target, primitive Primitive, numVertices int, values []float32, numIndices int, indices []uint16, flags BatchFlags) error {
	if flags&(BatchRGB8|BatchRGBA8) != 0 {
		return r.fail("PrimitiveBatch", ErrorUser, "Byte colors need PrimitiveBatchV")
	}
	var raw []byte
	if values != nil {
		raw = make([]byte, 4*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
		}
	}
	return r.PrimitiveBatchV(img, t, primitive, numVertices, raw, numIndices, indices, flags)
}

// TriangleBatch draws an indexed or plain triangle list.
func (r *Renderer) TriangleBatch(img *Image, t *Target, numVertices int, values []float32, numIndices int, indices []uint16, flags BatchFlags) error {
	return r.PrimitiveBatch(img, t, Triangles, numVertices, values, numIndices, indices, flags)
}

// SetAttributeSource feeds numValues values of a custom vertex attribute to
// the following draws. Per-sprite values are repeated for the four corners
// of each quad. A nil Values slice stops the source.
func (r *Renderer) SetAttributeSource(numValues int, source Attribute) error {
	const fn = "SetAttributeSource"
	if !r.IsFeatureEnabled(FeatureBasicShaders) {
		return r.fail(fn, ErrorUnsupportedFunction, "Shaders are not supported by this renderer")
	}
	if source.Location < 0 || source.Location >= maxAttributeSources {
		return r.fail(fn, ErrorUser, "Attribute location %d out of range", source.Location)
	}
	if err := r.noContext(fn); err != nil {
		return err
	}
	r.FlushBlitBuffer()

	a := &r.cdata().attributes[source.Location]
	f := source.Format
	if f.PerSprite {
		a.offset = 0
		a.stride = f.NumElems * typeSize(f.Type)
		a.numValues = verticesPerSprite * numValues
		a.storage = make([]byte, a.numValues*a.stride)
	} else {
		a.storage = source.Values
		a.numValues = numValues
		a.stride = f.StrideBytes
		a.offset = f.OffsetBytes
	}
	a.enabled = false
	a.attribute = source
	a.next = 0
	return nil
}

// refreshAttributeData expands per-sprite sources into their vertex storage.
func (r *Renderer) refreshAttributeData() {
	cdata := r.cdata()
	for i := range cdata.attributes {
		a := &cdata.attributes[i]
		if !a.active() || !a.attribute.Format.PerSprite || a.numValues <= 0 {
			continue
		}
		f := a.attribute.Format
		size := a.stride
		sprites := a.numValues / verticesPerSprite
		for s := 0; s < sprites; s++ {
			from := f.OffsetBytes + s*f.StrideBytes
			if from+size > len(a.attribute.Values) {
				break
			}
			v := a.attribute.Values[from : from+size]
			for k := 0; k < verticesPerSprite; k++ {
				copy(a.storage[(s*verticesPerSprite+k)*size:], v)
			}
		}
	}
}

// uploadAttributeData binds up to n pending values of every active source.
func (r *Renderer) uploadAttributeData(n int) {
	cdata := r.cdata()
	for i := range cdata.attributes {
		a := &cdata.attributes[i]
		if !a.active() || a.numValues <= 0 {
			continue
		}
		used := min(a.numValues, n)
		size := a.stride * used
		start := min(a.next, len(a.storage))
		end := min(a.next+size, len(a.storage))

		loc := uint32(a.attribute.Location)
		f := a.attribute.Format
		r.drv.BindBuffer(GLArrayBuffer, cdata.attributeVBO[i])
		r.drv.BufferBytes(GLArrayBuffer, a.storage[start:end], GLStreamDraw)
		r.drv.EnableVertexAttribArray(loc)
		r.drv.VertexAttribPointer(loc, int32(f.NumElems), f.Type, f.Normalize, int32(a.stride), a.offset)
		a.enabled = true

		a.numValues -= used
		if a.numValues <= 0 {
			a.next = 0
		} else {
			a.next += size
		}
	}
}

func (r *Renderer) disableAttributeData() {
	cdata := r.cdata()
	for i := range cdata.attributes {
		a := &cdata.attributes[i]
		if a.enabled {
			r.drv.DisableVertexAttribArray(uint32(a.attribute.Location))
			a.enabled = false
		}
	}
}
