package rhi

import (
	"github.com/hubastard/grove-rhi/engine/colors"
)

func (r *Renderer) readTargetPixels(t *Target, format Enum, pixels []byte) bool {
	if t == nil {
		return false
	}
	r.flushIfCurrentTarget(t)
	if !r.SetActiveTarget(t) {
		return false
	}
	r.drv.PixelStorei(GLPackAlignment, 1)
	r.drv.ReadPixels(0, 0, int32(t.BaseW), int32(t.BaseH), format, GLUnsignedByte, pixels)
	r.drv.PixelStorei(GLPackAlignment, 4)
	return true
}

// readImagePixels downloads the texture of img. Bindings without texture
// reads fall back to the image's framebuffer.
func (r *Renderer) readImagePixels(img *Image, format Enum, pixels []byte) bool {
	r.drv.BindTexture(GLTexture2D, img.data.Get().handle)
	r.drv.PixelStorei(GLPackAlignment, 1)
	ok := r.drv.GetTexImage(GLTexture2D, 0, format, GLUnsignedByte, pixels)
	r.drv.PixelStorei(GLPackAlignment, 4)
	if last := r.cdata().lastImage; last != nil {
		r.drv.BindTexture(GLTexture2D, last.data.Get().handle)
	}
	if ok {
		return true
	}
	t, err := r.GetTarget(img)
	if err != nil {
		return false
	}
	return r.readTargetPixels(t, format, pixels)
}

// rawTargetData reads t top row first.
func (r *Renderer) rawTargetData(t *Target) ([]byte, int, error) {
	bpp := 4
	if t.image != nil {
		bpp = t.image.BytesPerPixel
	}
	pitch := t.BaseW * bpp
	data := make([]byte, pitch*t.BaseH)
	if !r.readTargetPixels(t, t.data.Get().format, data) {
		return nil, 0, r.fail("CopySurfaceFromTarget", ErrorBackend, "Could not retrieve target data.")
	}
	// GL rows start at the bottom.
	row := make([]byte, pitch)
	for y := 0; y < t.BaseH/2; y++ {
		top := data[y*pitch : (y+1)*pitch]
		bottom := data[(t.BaseH-y-1)*pitch : (t.BaseH-y)*pitch]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return data, bpp, nil
}

func (r *Renderer) rawImageData(img *Image) ([]byte, error) {
	if err := r.noContext("CopySurfaceFromImage"); err != nil {
		return nil, err
	}
	if img.target != nil && r.isCurrentTarget(img.target) {
		r.FlushBlitBuffer()
	}
	data := make([]byte, img.TextureW*img.TextureH*img.BytesPerPixel)
	if !r.readImagePixels(img, img.data.Get().format, data) {
		return nil, r.fail("CopySurfaceFromImage", ErrorBackend, "Could not retrieve image data.")
	}
	return data, nil
}

// CopySurfaceFromTarget reads the whole framebuffer of t into a surface,
// top row first.
func (r *Renderer) CopySurfaceFromTarget(t *Target) (*Surface, error) {
	const fn = "CopySurfaceFromTarget"
	if t == nil {
		return nil, r.fail(fn, ErrorNullArgument, "target")
	}
	if t.BaseW < 1 || t.BaseH < 1 {
		return nil, r.fail(fn, ErrorData, "Invalid target dimensions (%dx%d)", t.BaseW, t.BaseH)
	}
	if err := r.noContext(fn); err != nil {
		return nil, err
	}
	format, ok := formatFromGL(t.data.Get().format)
	if !ok {
		return nil, r.fail(fn, ErrorData, "Unsupported target format (0x%x)", t.data.Get().format)
	}
	data, bpp, err := r.rawTargetData(t)
	if err != nil {
		return nil, err
	}
	return &Surface{W: t.BaseW, H: t.BaseH, Format: format, Pitch: t.BaseW * bpp, Pixels: data}, nil
}

// CopySurfaceFromImage downloads the texture of img. Virtual images are read
// at their texture size.
func (r *Renderer) CopySurfaceFromImage(img *Image) (*Surface, error) {
	const fn = "CopySurfaceFromImage"
	if img == nil {
		return nil, r.fail(fn, ErrorNullArgument, "image")
	}
	if img.W < 1 || img.H < 1 {
		return nil, r.fail(fn, ErrorData, "Invalid image dimensions (%dx%d)", img.BaseW, img.BaseH)
	}
	w, h := img.W, img.H
	if img.UsingVirtualResolution {
		w, h = img.TextureW, img.TextureH
	}
	data, err := r.rawImageData(img)
	if err != nil {
		return nil, err
	}
	s := NewSurface(w, h, img.Format)
	srcPitch := img.TextureW * img.BytesPerPixel
	for y := 0; y < h; y++ {
		copy(s.Pixels[y*s.Pitch:(y+1)*s.Pitch], data[y*srcPitch:])
	}
	return s, nil
}

// GetPixel reads one pixel of t. Out of range coordinates yield transparent
// black.
func (r *Renderer) GetPixel(t *Target, x, y int) colors.Color {
	if t == nil || t.renderer != r {
		return colors.Color{}
	}
	if x < 0 || y < 0 || x >= t.W || y >= t.H {
		return colors.Color{}
	}
	if r.noContext("GetPixel") != nil {
		return colors.Color{}
	}
	r.flushIfCurrentTarget(t)
	if !r.SetActiveTarget(t) {
		return colors.Color{}
	}
	gl := t.data.Get().format
	format, ok := formatFromGL(gl)
	if !ok {
		return colors.Color{}
	}
	// Window framebuffers are stored bottom row first.
	if t.context != nil && !r.coordinateMode {
		y = t.BaseH - 1 - y
	}
	var px [4]byte
	r.drv.ReadPixels(int32(x), int32(y), 1, 1, gl, GLUnsignedByte, px[:])
	cr, cg, cb, ca := swizzle(format, px[:])
	return colors.RGBA(cr, cg, cb, ca)
}
