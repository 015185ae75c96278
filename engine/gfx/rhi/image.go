package rhi

import (
	"github.com/hubastard/grove-rhi/engine/colors"
)

type imageData struct {
	handle     uint32
	ownsHandle bool
	format     Enum
}

// Image is a GPU texture with the settings used when it is blitted.
// W and H are logical (possibly virtual) sizes, BaseW and BaseH the real
// pixel size and TextureW/TextureH the allocated texture size after
// power-of-two rounding.
type Image struct {
	renderer      *Renderer
	contextTarget *Target
	target        *Target
	data          *SharedHandle[imageData]

	W, H                   int
	BaseW, BaseH           int
	TextureW, TextureH     int
	UsingVirtualResolution bool

	Format        Format
	NumLayers     int
	BytesPerPixel int
	HasMipmaps    bool

	AnchorX, AnchorY float32
	Color            colors.Color
	UseBlending      bool
	BlendMode        BlendMode
	FilterMode       Filter
	SnapMode         Snap
	WrapModeX        Wrap
	WrapModeY        Wrap

	refs    int
	isAlias bool
}

func (img *Image) Renderer() *Renderer { return img.renderer }
func (img *Image) IsAlias() bool       { return img.isAlias }
func (img *Image) Refs() int           { return img.refs }

// Target is the render target of the image, or nil before GetTarget.
func (img *Image) Target() *Target { return img.target }

// glFormat maps an image format to its GL upload format, layer count and
// bytes per pixel.
func glFormat(f Format) (gl Enum, layers, bpp int, ok bool) {
	switch f {
	case FormatLuminance:
		return GLLuminance, 1, 1, true
	case FormatLuminanceAlpha:
		return GLLuminanceAlpha, 1, 2, true
	case FormatRGB:
		return GLRGB, 1, 3, true
	case FormatRGBA:
		return GLRGBA, 1, 4, true
	case FormatBGR:
		return GLBGR, 1, 3, true
	case FormatBGRA:
		return GLBGRA, 1, 4, true
	case FormatABGR:
		return GLABGR, 1, 4, true
	case FormatAlpha:
		return GLAlpha, 1, 1, true
	case FormatRG:
		return GLRG, 1, 2, true
	case FormatYCbCr420P, FormatYCbCr422:
		return GLLuminance, 3, 1, true
	}
	return 0, 0, 0, false
}

func formatFromGL(gl Enum) (Format, bool) {
	switch gl {
	case GLLuminance:
		return FormatLuminance, true
	case GLLuminanceAlpha:
		return FormatLuminanceAlpha, true
	case GLRGB:
		return FormatRGB, true
	case GLRGBA:
		return FormatRGBA, true
	case GLBGR:
		return FormatBGR, true
	case GLBGRA:
		return FormatBGRA, true
	case GLABGR:
		return FormatABGR, true
	case GLAlpha:
		return FormatAlpha, true
	case GLRG:
		return FormatRG, true
	}
	return 0, false
}

func isPowerOfTwo(x int) bool { return x != 0 && x&(x-1) == 0 }

func nearestPowerOfTwo(n int) int {
	x := 1
	for x < n {
		x <<= 1
	}
	return x
}

// textureSize rounds w and h up to powers of two when the context needs it.
func (r *Renderer) textureSize(w, h int) (int, int) {
	if r.IsFeatureEnabled(FeatureNonPowerOfTwo) {
		return w, h
	}
	if !isPowerOfTwo(w) {
		w = nearestPowerOfTwo(w)
	}
	if !isPowerOfTwo(h) {
		h = nearestPowerOfTwo(h)
	}
	return w, h
}

// unpackAlignment is the largest of 8, 4, 2, 1 dividing pitch.
func unpackAlignment(pitch int) int32 {
	a := 8
	for pitch%a != 0 {
		a >>= 1
	}
	return int32(a)
}

func (r *Renderer) noContext(fn string) error {
	if r.current == nil || r.current.context == nil {
		return r.fail(fn, ErrorBackend, "NULL context.")
	}
	return nil
}

func (r *Renderer) createUninitializedTexture() uint32 {
	handle := r.drv.CreateTexture()
	if handle == 0 {
		return 0
	}
	r.flushAndBindTexture(handle)
	r.drv.TexParameteri(GLTexture2D, GLTextureMinFilter, int32(GLLinear))
	r.drv.TexParameteri(GLTexture2D, GLTextureMagFilter, int32(GLLinear))
	r.drv.TexParameteri(GLTexture2D, GLTextureWrapS, int32(GLClampToEdge))
	r.drv.TexParameteri(GLTexture2D, GLTextureWrapT, int32(GLClampToEdge))
	return handle
}

func (r *Renderer) newImageData(d imageData) *SharedHandle[imageData] {
	owner := r.current
	return NewSharedHandle(d, func(d *imageData) { r.releaseImageData(owner, d) })
}

// releaseImageData deletes the texture in the context it was created in.
// Textures of a renderer that is no longer current are left to their context.
func (r *Renderer) releaseImageData(owner *Target, d *imageData) {
	if !d.ownsHandle || d.handle == 0 {
		return
	}
	if r.registry != nil && r.registry.CurrentRenderer() != r {
		return
	}
	if owner != nil && owner.context != nil {
		r.MakeCurrent(owner, owner.context.WindowID)
	}
	r.drv.DeleteTexture(d.handle)
	d.handle = 0
}

func (r *Renderer) newImage(w, h int, format Format, layers, bpp int) *Image {
	mode, _ := BlendModeFromPreset(BlendNormal)
	return &Image{
		renderer:      r,
		contextTarget: r.current,
		refs:          1,
		Format:        format,
		NumLayers:     layers,
		BytesPerPixel: bpp,
		AnchorX:       r.defaultAnchorX,
		AnchorY:       r.defaultAnchorY,
		Color:         colors.White,
		UseBlending:   true,
		BlendMode:     mode,
		FilterMode:    FilterLinear,
		SnapMode:      SnapPositionAndDimensions,
		WrapModeX:     WrapNone,
		WrapModeY:     WrapNone,
		W:             w,
		H:             h,
		BaseW:         w,
		BaseH:         h,
		TextureW:      w,
		TextureH:      h,
	}
}

func (r *Renderer) createUninitializedImage(w, h int, format Format) (*Image, error) {
	const fn = "CreateUninitializedImage"
	gl, layers, bpp, ok := glFormat(format)
	if !ok {
		return nil, r.fail(fn, ErrorData, "Unsupported image format (0x%x)", int(format))
	}
	handle := r.createUninitializedTexture()
	if handle == 0 {
		return nil, r.fail(fn, ErrorBackend, "Failed to generate a texture handle.")
	}
	img := r.newImage(w, h, format, layers, bpp)
	img.data = r.newImageData(imageData{handle: handle, ownsHandle: true, format: gl})
	return img, nil
}

// uploadNewTexture allocates the bound texture with the given pixels.
func (r *Renderer) uploadNewTexture(pixels []byte, w, h int, format Enum, alignment int32, rowLength int) {
	r.drv.PixelStorei(GLUnpackAlignment, alignment)
	r.drv.PixelStorei(GLUnpackRowLength, int32(rowLength))
	r.drv.TexImage2D(GLTexture2D, 0, int32(format), int32(w), int32(h), format, GLUnsignedByte, pixels)
	r.drv.PixelStorei(GLUnpackRowLength, 0)
	r.drv.PixelStorei(GLUnpackAlignment, 4)
}

// uploadTexture writes rect of the bound texture. Rows whose length differs
// from the rect width go through a fallback when the init flags ask for one.
func (r *Renderer) uploadTexture(pixels []byte, rect Rect, format Enum, alignment int32, rowLength, pitch, bpp int) {
	x, y, w, h := int32(rect.X), int32(rect.Y), int32(rect.W), int32(rect.H)
	if w <= 0 || h <= 0 {
		return
	}
	switch {
	case rowLength != int(w) && r.initFlags&InitUseCopyTextureUploadFallback != 0:
		rowBytes := int(w) * bpp
		if rem := rowBytes % int(alignment); rem > 0 {
			rowBytes += int(alignment) - rem
		}
		packed := make([]byte, rowBytes*int(h))
		for i := 0; i < int(h); i++ {
			copy(packed[i*rowBytes:(i+1)*rowBytes], pixels[i*pitch:])
		}
		r.drv.PixelStorei(GLUnpackAlignment, alignment)
		r.drv.TexSubImage2D(GLTexture2D, 0, x, y, w, h, format, GLUnsignedByte, packed)
		r.drv.PixelStorei(GLUnpackAlignment, 4)
	case rowLength != int(w) && r.initFlags&InitUseRowByRowTextureUploadFallback != 0:
		r.drv.PixelStorei(GLUnpackAlignment, alignment)
		for i := int32(0); i < h; i++ {
			r.drv.TexSubImage2D(GLTexture2D, 0, x, y+i, w, 1, format, GLUnsignedByte, pixels[int(i)*pitch:])
		}
		r.drv.PixelStorei(GLUnpackAlignment, 4)
	default:
		r.drv.PixelStorei(GLUnpackAlignment, alignment)
		r.drv.PixelStorei(GLUnpackRowLength, int32(rowLength))
		r.drv.TexSubImage2D(GLTexture2D, 0, x, y, w, h, format, GLUnsignedByte, pixels)
		r.drv.PixelStorei(GLUnpackRowLength, 0)
		r.drv.PixelStorei(GLUnpackAlignment, 4)
	}
}

// CreateImage allocates a zero-filled texture of w x h pixels.
func (r *Renderer) CreateImage(w, h int, format Format) (*Image, error) {
	const fn = "CreateImage"
	if err := r.noContext(fn); err != nil {
		return nil, err
	}
	if format < 1 {
		return nil, r.fail(fn, ErrorData, "Unsupported image format (0x%x)", int(format))
	}
	img, err := r.createUninitializedImage(w, h, format)
	if err != nil {
		return nil, r.fail(fn, ErrorBackend, "Could not create image as requested.")
	}

	r.changeTexturing(true)
	r.bindTexture(img)

	tw, th := r.textureSize(img.W, img.H)
	size := tw * th * img.BytesPerPixel
	if len(r.zeroBuffer) < size {
		r.zeroBuffer = make([]byte, size)
	}
	r.uploadNewTexture(r.zeroBuffer[:size], tw, th, img.data.Get().format, 1, tw)
	img.TextureW, img.TextureH = tw, th
	return img, nil
}

// CreateImageUsingTexture wraps an existing texture. With takeOwnership the
// texture is deleted with the image.
func (r *Renderer) CreateImageUsingTexture(handle uint32, takeOwnership bool) (*Image, error) {
	const fn = "CreateImageUsingTexture"
	if err := r.noContext(fn); err != nil {
		return nil, err
	}
	r.flushAndBindTexture(handle)

	gl := Enum(r.drv.GetTexLevelParameteri(GLTexture2D, 0, GLTextureInternalFormat))
	format, ok := formatFromGL(gl)
	if !ok {
		return nil, r.fail(fn, ErrorData, "Unsupported GL image format (0x%x)", gl)
	}
	_, layers, bpp, _ := glFormat(format)
	w := int(r.drv.GetTexLevelParameteri(GLTexture2D, 0, GLTextureWidth))
	h := int(r.drv.GetTexLevelParameteri(GLTexture2D, 0, GLTextureHeight))

	filter := FilterLinear
	switch minFilter := Enum(r.drv.GetTexParameteri(GLTexture2D, GLTextureMinFilter)); minFilter {
	case GLNearest:
		filter = FilterNearest
	case GLLinear, GLLinearMipmapNearest:
		filter = FilterLinear
	case GLLinearMipmapLinear:
		filter = FilterLinearMipmap
	default:
		r.fail(fn, ErrorUser, "Unsupported value for GL_TEXTURE_MIN_FILTER (0x%x)", minFilter)
	}

	wrapX := r.wrapFromGL(fn, "GL_TEXTURE_WRAP_S", Enum(r.drv.GetTexParameteri(GLTexture2D, GLTextureWrapS)))
	wrapY := r.wrapFromGL(fn, "GL_TEXTURE_WRAP_T", Enum(r.drv.GetTexParameteri(GLTexture2D, GLTextureWrapT)))

	img := r.newImage(w, h, format, layers, bpp)
	img.FilterMode = filter
	img.WrapModeX, img.WrapModeY = wrapX, wrapY
	img.data = r.newImageData(imageData{handle: handle, ownsHandle: takeOwnership, format: gl})
	return img, nil
}

func (r *Renderer) wrapFromGL(fn, name string, v Enum) Wrap {
	switch v {
	case GLClampToEdge:
		return WrapNone
	case GLRepeat:
		return WrapRepeat
	case GLMirroredRepeat:
		return WrapMirrored
	}
	r.fail(fn, ErrorUser, "Unsupported value for %s (0x%x)", name, v)
	return WrapNone
}

// CreateImageFromSurface uploads a surface (or the part inside rect) into a
// new image.
func (r *Renderer) CreateImageFromSurface(s *Surface, rect *Rect) (*Image, error) {
	const fn = "CreateImageFromSurface"
	if s == nil {
		return nil, r.fail(fn, ErrorNullArgument, "surface")
	}
	if s.W == 0 || s.H == 0 {
		return nil, r.fail(fn, ErrorData, "Surface has a zero dimension.")
	}
	w, h := s.W, s.H
	if rect != nil {
		w, h = int(rect.W), int(rect.H)
	}
	format := FormatRGBA
	switch s.Format {
	case FormatRGB, FormatBGR, FormatLuminance:
		format = FormatRGB
	}
	img, err := r.CreateImage(w, h, format)
	if err != nil {
		return nil, err
	}
	r.UpdateImage(img, nil, s, rect)
	return img, nil
}

// CreateAliasImage returns a second handle sharing the texture of img. The
// alias starts without a target; GetTarget gives it its own.
func (r *Renderer) CreateAliasImage(img *Image) *Image {
	if img == nil {
		return nil
	}
	alias := *img
	img.data.Retain()
	alias.refs = 1
	alias.isAlias = true
	alias.target = nil
	return &alias
}

// copyImagePixels duplicates the texture of img. Color formats are copied by
// rendering into the new image, the others by a download and upload.
func (r *Renderer) copyImagePixels(img *Image) (*Image, error) {
	const fn = "CopyImage"
	switch img.Format {
	case FormatRGB, FormatRGBA, FormatBGR, FormatBGRA, FormatABGR:
		result, err := r.CreateImage(img.TextureW, img.TextureH, img.Format)
		if err != nil {
			return nil, r.fail(fn, ErrorBackend, "Failed to create new image.")
		}
		t, err := r.GetTarget(result)
		if err != nil {
			r.FreeImage(result)
			return nil, r.fail(fn, ErrorBackend, "Failed to load target.")
		}

		color, blending, filter := img.Color, img.UseBlending, img.FilterMode
		virtual := img.UsingVirtualResolution
		vw, vh := img.W, img.H
		r.UnsetColor(img)
		r.SetBlending(img, false)
		r.SetImageFilter(img, FilterNearest)
		if virtual {
			r.UnsetImageVirtualResolution(img)
		}

		r.Blit(img, nil, t, float32(img.W/2), float32(img.H/2))

		r.SetColor(img, color)
		r.SetBlending(img, blending)
		r.SetImageFilter(img, filter)
		if virtual {
			r.SetImageVirtualResolution(img, vw, vh)
		}
		return result, nil

	case FormatLuminance, FormatLuminanceAlpha, FormatAlpha, FormatRG:
		pixels, err := r.rawImageData(img)
		if err != nil {
			return nil, r.fail(fn, ErrorBackend, "Failed to get raw texture data.")
		}
		result, err := r.createUninitializedImage(img.TextureW, img.TextureH, img.Format)
		if err != nil {
			return nil, r.fail(fn, ErrorBackend, "Failed to create new image.")
		}
		r.changeTexturing(true)
		r.bindTexture(result)
		w, h := r.textureSize(result.W, result.H)
		r.uploadNewTexture(pixels, w, h, result.data.Get().format, 1, w)
		result.TextureW, result.TextureH = w, h
		return result, nil
	}
	return nil, r.fail(fn, ErrorBackend, "Could not copy the given image format.")
}

// CopyImage duplicates img with its pixels and settings.
func (r *Renderer) CopyImage(img *Image) (*Image, error) {
	if img == nil {
		return nil, r.fail("CopyImage", ErrorNullArgument, "image")
	}
	result, err := r.copyImagePixels(img)
	if err != nil {
		return nil, err
	}
	r.SetColor(result, img.Color)
	r.SetBlending(result, img.UseBlending)
	result.BlendMode = img.BlendMode
	r.SetImageFilter(result, img.FilterMode)
	r.SetSnapMode(result, img.SnapMode)
	r.SetWrapMode(result, img.WrapModeX, img.WrapModeY)
	if img.HasMipmaps {
		r.GenerateMipmaps(result)
	}
	if img.UsingVirtualResolution {
		r.SetImageVirtualResolution(result, img.W, img.H)
	}
	return result, nil
}

// CopyImageFromTarget snapshots the pixels of t into a new image.
func (r *Renderer) CopyImageFromTarget(t *Target) (*Image, error) {
	const fn = "CopyImageFromTarget"
	if t == nil {
		return nil, r.fail(fn, ErrorNullArgument, "target")
	}
	if t.image != nil {
		return r.copyImagePixels(t.image)
	}
	s, err := r.CopySurfaceFromTarget(t)
	if err != nil {
		return nil, err
	}
	return r.CreateImageFromSurface(s, nil)
}

// clipRect intersects rect with a w x h area the way updates expect: a
// negative origin shrinks the rect and the size is clamped at zero.
func clipRect(rect Rect, w, h int) Rect {
	if rect.X < 0 {
		rect.W += rect.X
		rect.X = 0
	}
	if rect.Y < 0 {
		rect.H += rect.Y
		rect.Y = 0
	}
	if rect.X+rect.W > float32(w) {
		rect.W = float32(w) - rect.X
	}
	if rect.Y+rect.H > float32(h) {
		rect.H = float32(h) - rect.Y
	}
	if rect.W < 0 {
		rect.W = 0
	}
	if rect.H < 0 {
		rect.H = 0
	}
	return rect
}

func (r *Renderer) prepareImageUpload(img *Image) {
	r.changeTexturing(true)
	if img.target != nil && r.isCurrentTarget(img.target) {
		r.FlushBlitBuffer()
	}
	r.bindTexture(img)
}

// UpdateImage copies surfaceRect of s into imageRect of img. Nil rects mean
// the whole image or surface; the smaller of the two sizes is used.
func (r *Renderer) UpdateImage(img *Image, imageRect *Rect, s *Surface, surfaceRect *Rect) {
	const fn = "UpdateImage"
	if img == nil || s == nil {
		return
	}
	if err := r.noContext(fn); err != nil {
		return
	}
	src := s.convert(img.Format)

	dst := Rect{0, 0, float32(img.BaseW), float32(img.BaseH)}
	if imageRect != nil {
		dst = clipRect(*imageRect, img.BaseW, img.BaseH)
	}
	from := Rect{0, 0, float32(src.W), float32(src.H)}
	if surfaceRect != nil {
		from = clipRect(*surfaceRect, src.W, src.H)
	}

	r.prepareImageUpload(img)
	if from.W < dst.W {
		dst.W = from.W
	}
	if from.H < dst.H {
		dst.H = from.H
	}
	bpp := src.Format.BytesPerPixel()
	start := src.Pitch*int(from.Y) + bpp*int(from.X)
	r.uploadTexture(src.Pixels[start:], dst, img.data.Get().format, unpackAlignment(src.Pitch), src.Pitch/bpp, src.Pitch, bpp)
}

// UpdateImageBytes uploads raw rows already in the image format.
func (r *Renderer) UpdateImageBytes(img *Image, imageRect *Rect, bytes []byte, bytesPerRow int) {
	const fn = "UpdateImageBytes"
	if img == nil || bytes == nil {
		return
	}
	if err := r.noContext(fn); err != nil {
		return
	}
	dst := Rect{0, 0, float32(img.BaseW), float32(img.BaseH)}
	if imageRect != nil {
		dst = clipRect(*imageRect, img.BaseW, img.BaseH)
	}
	r.prepareImageUpload(img)
	r.uploadTexture(bytes, dst, img.data.Get().format, unpackAlignment(bytesPerRow), bytesPerRow/img.BytesPerPixel, bytesPerRow, img.BytesPerPixel)
}

// ReplaceImage swaps the texture of img for a new one holding surfaceRect of
// s. An attached target gets a new framebuffer.
func (r *Renderer) ReplaceImage(img *Image, s *Surface, surfaceRect *Rect) error {
	const fn = "ReplaceImage"
	if img == nil {
		return r.fail(fn, ErrorNullArgument, "image")
	}
	if s == nil {
		return r.fail(fn, ErrorNullArgument, "surface")
	}
	if err := r.noContext(fn); err != nil {
		return err
	}
	data := img.data.Get()
	src := s.convert(img.Format)

	renderTargets := r.IsFeatureEnabled(FeatureRenderTargets)
	if renderTargets && img.target != nil {
		tdata := img.target.data.Get()
		r.flushAndClearIfCurrentFramebuffer(img.target)
		if tdata.handle != 0 {
			r.drv.DeleteFramebuffer(tdata.handle)
		}
		tdata.handle = 0
	}

	r.flushAndClearIfCurrentTexture(img)
	if data.ownsHandle {
		r.drv.DeleteTexture(data.handle)
	}
	data.handle = 0

	from := Rect{0, 0, float32(src.W), float32(src.H)}
	if surfaceRect != nil {
		from = *surfaceRect
	}
	if from.X < 0 {
		from.W += from.X
		from.X = 0
	}
	if from.Y < 0 {
		from.H += from.Y
		from.Y = 0
	}
	if from.X >= float32(src.W) {
		from.X = float32(src.W - 1)
	}
	if from.Y >= float32(src.H) {
		from.Y = float32(src.H - 1)
	}
	if from.X+from.W > float32(src.W) {
		from.W = float32(src.W) - from.X
	}
	if from.Y+from.H > float32(src.H) {
		from.H = float32(src.H) - from.Y
	}
	if from.W <= 0 || from.H <= 0 {
		return r.fail(fn, ErrorData, "Clipped source rect has zero size.")
	}

	data.handle = r.createUninitializedTexture()
	data.ownsHandle = true
	if data.handle == 0 {
		return r.fail(fn, ErrorBackend, "Failed to create a new texture handle.")
	}

	w, h := int(from.W), int(from.H)
	if !img.UsingVirtualResolution {
		img.W, img.H = w, h
	}
	img.BaseW, img.BaseH = w, h
	w, h = r.textureSize(w, h)
	img.TextureW, img.TextureH = w, h
	img.HasMipmaps = false

	bpp := src.Format.BytesPerPixel()
	start := src.Pitch*int(from.Y) + bpp*int(from.X)
	r.uploadNewTexture(src.Pixels[start:], w, h, data.format, unpackAlignment(src.Pitch), src.Pitch/bpp)

	if renderTargets && img.target != nil {
		t := img.target
		tdata := t.data.Get()
		tdata.handle = r.drv.CreateFramebuffer()
		if tdata.handle == 0 {
			return r.fail(fn, ErrorBackend, "Failed to create new framebuffer target.")
		}
		r.flushAndBindFramebuffer(tdata.handle)
		r.drv.FramebufferTexture2D(GLFramebuffer, GLColorAttachment0, GLTexture2D, data.handle, 0)
		if r.drv.CheckFramebufferStatus(GLFramebuffer) != GLFramebufferComplete {
			return r.fail(fn, ErrorBackend, "Failed to recreate framebuffer target.")
		}
		if !t.UsingVirtualResolution {
			t.W, t.H = img.BaseW, img.BaseH
		}
		t.BaseW, t.BaseH = img.TextureW, img.TextureH
		t.Viewport = fullRect(t.W, t.H)
	}
	return nil
}

// GetTarget returns the render target of img, creating its framebuffer on
// first use. The target is owned by the image unless LoadTarget was used.
func (r *Renderer) GetTarget(img *Image) (*Target, error) {
	const fn = "GetTarget"
	if img == nil {
		return nil, r.fail(fn, ErrorNullArgument, "image")
	}
	if img.target != nil {
		return img.target, nil
	}
	if !r.IsFeatureEnabled(FeatureRenderTargets) {
		return nil, r.fail(fn, ErrorUnsupportedFunction, "Renderer %s does not support render targets.", r.id.Name)
	}

	handle := r.drv.CreateFramebuffer()
	r.flushAndBindFramebuffer(handle)
	r.drv.FramebufferTexture2D(GLFramebuffer, GLColorAttachment0, GLTexture2D, img.data.Get().handle, 0)
	if status := r.drv.CheckFramebufferStatus(GLFramebuffer); status != GLFramebufferComplete {
		r.drv.DeleteFramebuffer(handle)
		return nil, r.fail(fn, ErrorData, "Framebuffer incomplete with status: 0x%x. Format 0x%x for framebuffers might not be supported on this hardware.", status, img.data.Get().format)
	}

	t := &Target{
		renderer:               r,
		contextTarget:          r.current,
		image:                  img,
		data:                   NewSharedHandle(targetData{handle: handle, format: img.data.Get().format}, r.releaseTargetData),
		W:                      img.W,
		H:                      img.H,
		BaseW:                  img.TextureW,
		BaseH:                  img.TextureH,
		UsingVirtualResolution: img.UsingVirtualResolution,
		Camera:                 DefaultCamera(),
		UseCamera:              true,
		UseDepthWrite:          true,
		DepthFunction:          CompareLess,
		Color:                  colors.White,
	}
	t.Viewport = fullRect(t.W, t.H)
	t.ClipRect = fullRect(t.W, t.H)
	t.initMatrices()
	r.ResetProjection(t)

	img.target = t
	return t, nil
}

// LoadTarget is GetTarget plus a reference the caller releases with
// FreeTarget.
func (r *Renderer) LoadTarget(img *Image) (*Target, error) {
	t, err := r.GetTarget(img)
	if err != nil {
		return nil, err
	}
	t.refs++
	return t, nil
}

// FreeImage releases one reference to img. The texture goes with the last
// alias; an attached target is freed along with the image.
func (r *Renderer) FreeImage(img *Image) {
	if img == nil {
		return
	}
	if img.refs > 1 {
		img.refs--
		return
	}
	if img.target != nil {
		t := img.target
		img.target = nil
		t.refs++
		r.FreeTarget(t)
	}
	r.flushAndClearIfCurrentTexture(img)
	img.data.Release()
	img.refs = 0
}

// TextureHandle exposes the GL texture name of img.
func (r *Renderer) TextureHandle(img *Image) uint32 {
	if img == nil {
		return 0
	}
	return img.data.Get().handle
}

// GenerateMipmaps builds the mip chain and moves a plain linear filter to its
// mipmapped form.
func (r *Renderer) GenerateMipmaps(img *Image) {
	if img == nil || r.noContext("GenerateMipmaps") != nil {
		return
	}
	if img.target != nil && r.isCurrentTarget(img.target) {
		r.FlushBlitBuffer()
	}
	r.bindTexture(img)
	r.drv.GenerateMipmap(GLTexture2D)
	img.HasMipmaps = true
	if Enum(r.drv.GetTexParameteri(GLTexture2D, GLTextureMinFilter)) == GLLinear {
		r.drv.TexParameteri(GLTexture2D, GLTextureMinFilter, int32(GLLinearMipmapNearest))
	}
}

func (r *Renderer) SetImageFilter(img *Image, filter Filter) {
	const fn = "SetImageFilter"
	if img == nil {
		r.fail(fn, ErrorNullArgument, "image")
		return
	}
	if img.renderer != r {
		r.fail(fn, ErrorUser, "Mismatched renderer")
		return
	}
	var minFilter, magFilter Enum
	switch filter {
	case FilterNearest:
		minFilter, magFilter = GLNearest, GLNearest
	case FilterLinear:
		minFilter, magFilter = GLLinear, GLLinear
		if img.HasMipmaps {
			minFilter = GLLinearMipmapNearest
		}
	case FilterLinearMipmap:
		minFilter, magFilter = GLLinear, GLLinear
		if img.HasMipmaps {
			minFilter = GLLinearMipmapLinear
		}
	default:
		r.fail(fn, ErrorUser, "Unsupported value for filter (0x%x)", int(filter))
		return
	}
	if r.noContext(fn) != nil {
		return
	}
	r.flushIfCurrentTexture(img)
	r.bindTexture(img)
	img.FilterMode = filter
	r.drv.TexParameteri(GLTexture2D, GLTextureMinFilter, int32(minFilter))
	r.drv.TexParameteri(GLTexture2D, GLTextureMagFilter, int32(magFilter))
}

func (r *Renderer) glWrap(fn, axis string, w Wrap) (Enum, bool) {
	switch w {
	case WrapNone:
		return GLClampToEdge, true
	case WrapRepeat:
		return GLRepeat, true
	case WrapMirrored:
		if r.IsFeatureEnabled(FeatureWrapRepeatMirrored) {
			return GLMirroredRepeat, true
		}
		r.fail(fn, ErrorBackend, "This renderer does not support WrapMirrored.")
		return 0, false
	}
	r.fail(fn, ErrorUser, "Unsupported value for %s (0x%x)", axis, int(w))
	return 0, false
}

func (r *Renderer) SetWrapMode(img *Image, wrapX, wrapY Wrap) {
	const fn = "SetWrapMode"
	if img == nil {
		r.fail(fn, ErrorNullArgument, "image")
		return
	}
	if img.renderer != r {
		r.fail(fn, ErrorUser, "Mismatched renderer")
		return
	}
	glX, ok := r.glWrap(fn, "wrap_mode_x", wrapX)
	if !ok {
		return
	}
	glY, ok := r.glWrap(fn, "wrap_mode_y", wrapY)
	if !ok {
		return
	}
	if r.noContext(fn) != nil {
		return
	}
	r.flushIfCurrentTexture(img)
	r.bindTexture(img)
	img.WrapModeX, img.WrapModeY = wrapX, wrapY
	r.drv.TexParameteri(GLTexture2D, GLTextureWrapS, int32(glX))
	r.drv.TexParameteri(GLTexture2D, GLTextureWrapT, int32(glY))
}

// SetImageVirtualResolution makes img blit as w x h regardless of its
// pixel size.
func (r *Renderer) SetImageVirtualResolution(img *Image, w, h int) {
	if img == nil || w == 0 || h == 0 {
		return
	}
	r.FlushBlitBuffer()
	img.W, img.H = w, h
	img.UsingVirtualResolution = true
}

func (r *Renderer) UnsetImageVirtualResolution(img *Image) {
	if img == nil {
		return
	}
	r.FlushBlitBuffer()
	img.W, img.H = img.BaseW, img.BaseH
	img.UsingVirtualResolution = false
}

// The setters below only touch the image. Color is baked into vertices when
// blitting and the blend state is compared when the next blit is prepared.

func (r *Renderer) SetColor(img *Image, c colors.Color) {
	if img != nil {
		img.Color = c
	}
}

// UnsetColor restores the white modulation color.
func (r *Renderer) UnsetColor(img *Image) { r.SetColor(img, colors.White) }

func (r *Renderer) SetBlending(img *Image, enable bool) {
	if img != nil {
		img.UseBlending = enable
	}
}

// SetBlendMode installs a preset blend mode on img.
func (r *Renderer) SetBlendMode(img *Image, preset BlendPreset) {
	if img == nil {
		return
	}
	mode, ok := BlendModeFromPreset(preset)
	if !ok {
		r.fail("SetBlendMode", ErrorUser, "Blend preset not supported: %d", preset)
	}
	img.BlendMode = mode
}

func (r *Renderer) SetBlendFunction(img *Image, srcColor, dstColor, srcAlpha, dstAlpha BlendFunc) {
	if img == nil {
		return
	}
	m := &img.BlendMode
	m.SourceColor, m.DestColor, m.SourceAlpha, m.DestAlpha = srcColor, dstColor, srcAlpha, dstAlpha
}

func (r *Renderer) SetBlendEquation(img *Image, colorEq, alphaEq BlendEq) {
	if img == nil {
		return
	}
	img.BlendMode.ColorEquation, img.BlendMode.AlphaEquation = colorEq, alphaEq
}

// SetAnchor sets the normalized point of img placed at the blit position.
func (r *Renderer) SetAnchor(img *Image, x, y float32) {
	if img != nil {
		img.AnchorX, img.AnchorY = x, y
	}
}

func (r *Renderer) SetSnapMode(img *Image, mode Snap) {
	if img != nil {
		img.SnapMode = mode
	}
}
