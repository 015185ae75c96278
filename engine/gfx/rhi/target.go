package rhi

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/gfx/matrix"
)

type targetData struct {
	handle uint32
	format Enum
}

// Target is a render destination: a window (with a Context) or an image
// (through its framebuffer object). Exported fields may be read freely;
// write them through the Renderer setters so pending geometry is flushed.
type Target struct {
	renderer      *Renderer
	contextTarget *Target
	context       *Context
	image         *Image
	data          *SharedHandle[targetData]

	W, H                   int
	BaseW, BaseH           int
	UsingVirtualResolution bool

	Viewport  Rect
	Camera    Camera
	UseCamera bool

	UseDepthTest  bool
	UseDepthWrite bool
	DepthFunction Comparison

	ClipRect    Rect
	UseClipRect bool

	Color    colors.Color
	UseColor bool

	matrixMode MatrixMode
	projection *matrix.Stack
	view       *matrix.Stack
	model      *matrix.Stack

	refs    int
	isAlias bool
}

func (t *Target) Renderer() *Renderer { return t.renderer }

// Context is nil for image targets.
func (t *Target) Context() *Context { return t.context }

// Image is nil for window targets.
func (t *Target) Image() *Image { return t.image }

func (t *Target) IsAlias() bool { return t.isAlias }
func (t *Target) Refs() int     { return t.refs }

// Handle is the framebuffer object name.
func (t *Target) Handle() uint32 { return t.data.Get().handle }

func (t *Target) MatrixMode() MatrixMode { return t.matrixMode }

// Stack returns the matrix stack selected by mode.
func (t *Target) Stack(mode MatrixMode) *matrix.Stack {
	switch mode {
	case Projection:
		return t.projection
	case View:
		return t.view
	}
	return t.model
}

func (t *Target) initMatrices() {
	t.matrixMode = Model
	t.projection = matrix.New()
	t.view = matrix.New()
	t.model = matrix.New()
}

func fullRect(w, h int) Rect { return Rect{0, 0, float32(w), float32(h)} }

// CreateTargetFromWindow builds the context target of a window. With an
// existing target its context is moved to the (possibly different) window
// instead.
func (r *Renderer) CreateTargetFromWindow(windowID WindowID, existing *Target) (*Target, error) {
	const fn = "CreateTargetFromWindow"
	required := r.requiredFeatures | r.backend.RequiredFeatures()
	if r.registry != nil {
		required |= r.registry.requiredFeatures
	}

	t := existing
	created := t == nil
	if created {
		maxVerts := r.spriteCapacity * verticesPerSprite
		if maxVerts > BlitBufferAbsoluteMaxVertices {
			maxVerts = BlitBufferAbsoluteMaxVertices
		}
		t = &Target{
			refs: 1,
			data: NewSharedHandle(targetData{}, r.releaseTargetData),
			context: &Context{
				refs: 1,
				data: newContextData(maxVerts, r.spriteCapacity*indicesPerSprite),
			},
		}
	} else if r.registry != nil {
		r.registry.RemoveWindowMapping(t.context.WindowID)
	}
	ctx := t.context
	cdata := ctx.data

	if windowID == 0 {
		return nil, r.fail(fn, ErrorBackend, "Failed to acquire the window from the given ID.")
	}
	ctx.WindowID = windowID

	if created || ctx.handle == 0 {
		handle, err := r.windows.CreateContext(windowID, r.contextHints(r.requestedID, r.initFlags))
		if err != nil {
			return nil, r.fail(fn, ErrorBackend, "Failed to create GL context: %v", err)
		}
		ctx.handle = handle
		if r.registry != nil {
			r.registry.AddWindowMapping(t)
		}
	}

	ctx.DrawableW, ctx.DrawableH = r.windows.DrawableSize(windowID)
	r.updateStoredDimensions(t)

	*t.data.Get() = targetData{format: GLRGBA}
	t.renderer = r
	t.contextTarget = t
	t.W, t.H = ctx.DrawableW, ctx.DrawableH
	t.BaseW, t.BaseH = ctx.DrawableW, ctx.DrawableH
	t.UseClipRect = false
	t.ClipRect = fullRect(t.W, t.H)
	t.UseColor = false
	t.Viewport = fullRect(ctx.DrawableW, ctx.DrawableH)
	t.initMatrices()
	t.Camera = DefaultCamera()
	t.UseCamera = true
	t.UseDepthTest = false
	t.UseDepthWrite = true
	t.DepthFunction = CompareLess

	ctx.lineThickness = 1
	ctx.useTexturing = true
	ctx.shapesUseBlending = true
	ctx.shapesBlendMode, _ = BlendModeFromPreset(BlendNormal)

	cdata.lastUseTexturing = true
	cdata.lastShape = Triangles
	cdata.lastUseBlending = false
	cdata.lastBlendMode, _ = BlendModeFromPreset(BlendNormal)
	cdata.lastViewport = t.Viewport
	cdata.lastCamera = t.Camera
	cdata.lastCameraInverted = false
	cdata.lastDepthTest = false
	cdata.lastDepthWrite = true
	cdata.lastDepthFunction = CompareLess

	if err := r.drv.Init(); err != nil {
		ctx.failed = true
		return nil, r.fail(fn, ErrorBackend, "Failed to initialize extensions for renderer %s: %v", r.id.Name, err)
	}

	r.MakeCurrent(t, ctx.WindowID)

	t.data.Get().handle = uint32(r.drv.GetInteger(GLFramebufferBinding))

	info, err := r.driverInfo()
	if err != nil {
		r.fail(fn, ErrorBackend, "Failed to get backend API versions.")
	}
	r.id.Major, r.id.Minor = info.Major, info.Minor
	if info.GLSL > 0 {
		r.maxShaderVersion = info.GLSL
	}
	if r.id.Major < r.requestedID.Major {
		ctx.failed = true
		return nil, r.fail(fn, ErrorBackend, "Renderer major version (%d) is incompatible with the available OpenGL runtime library version (%d).", r.requestedID.Major, r.id.Major)
	}

	r.enabledFeatures = r.backend.ProbeFeatures(info)
	if !r.IsFeatureEnabled(required) {
		ctx.failed = true
		return nil, r.fail(fn, ErrorBackend, "Renderer does not support required features.")
	}

	switch {
	case r.initFlags&InitEnableVSync != 0:
		r.windows.SetSwapInterval(1)
	case r.initFlags&InitDisableVSync != 0:
		r.windows.SetSwapInterval(0)
	default:
		r.windows.SetSwapInterval(-1)
	}

	r.toggleTexture2D(true)
	r.drv.BlendFunc(Enum(FuncSrcAlpha), Enum(FuncOneMinusSrcAlpha))
	r.drv.Disable(GLBlend)
	r.drv.ClearColor(0, 0, 0, 0)
	r.drv.Viewport(0, 0, int32(t.Viewport.W), int32(t.Viewport.H))
	r.drv.Clear(GLColorBufferBit | GLDepthBufferBit)

	r.applyTargetCamera(t)
	r.ResetProjection(t)
	r.SetLineThickness(1)

	cdata.vao = r.drv.CreateVertexArray()
	r.drv.BindVertexArray(cdata.vao)

	ctx.defaultTexturedProgram = 0
	ctx.defaultUntexturedProgram = 0
	ctx.currentProgram = 0
	if err := r.loadDefaultShaders(ctx); err != nil {
		ctx.failed = true
		return nil, err
	}

	cdata.vbo[0] = r.drv.CreateBuffer()
	cdata.vbo[1] = r.drv.CreateBuffer()
	for _, vbo := range cdata.vbo {
		r.drv.BindBuffer(GLArrayBuffer, vbo)
		r.drv.BufferAlloc(GLArrayBuffer, blitVertexStride*cdata.maxVertices, GLStreamDraw)
	}
	cdata.vboFlop = false
	cdata.ibo = r.drv.CreateBuffer()
	r.drv.BindBuffer(GLElementArrayBuffer, cdata.ibo)
	r.drv.BufferAlloc(GLElementArrayBuffer, 2*cdata.maxIndices, GLDynamicDraw)
	for i := range cdata.attributeVBO {
		cdata.attributeVBO[i] = r.drv.CreateBuffer()
	}
	cdata.attributes = [maxAttributeSources]attributeSource{}

	Logger().Debug("rhi: window target created",
		slog.Int("window", int(windowID)),
		slog.Int("w", t.W), slog.Int("h", t.H),
		slog.Int("max_vertices", cdata.maxVertices))
	return t, nil
}

func (r *Renderer) releaseTargetData(d *targetData) {
	if r.IsFeatureEnabled(FeatureRenderTargets) && d.handle != 0 {
		r.drv.DeleteFramebuffer(d.handle)
	}
}

// updateStoredDimensions refreshes the window size and remembers it for
// leaving fullscreen.
func (r *Renderer) updateStoredDimensions(t *Target) {
	if t.context == nil {
		return
	}
	ctx := t.context
	ctx.WindowW, ctx.WindowH = r.windows.WindowSize(ctx.WindowID)
	if !r.windows.IsFullscreen(ctx.WindowID) {
		ctx.StoredWindowW, ctx.StoredWindowH = ctx.WindowW, ctx.WindowH
	}
}

// CreateAliasTarget returns a second handle to t with its own matrix stacks
// and settings, sharing the framebuffer and context.
func (r *Renderer) CreateAliasTarget(t *Target) *Target {
	if t == nil {
		return nil
	}
	alias := *t
	alias.projection = t.projection.Clone()
	alias.view = t.view.Clone()
	alias.model = t.model.Clone()
	if t.image != nil {
		t.image.refs++
	}
	if t.context != nil {
		t.context.refs++
	}
	t.data.Retain()
	alias.refs = 1
	alias.isAlias = true
	return &alias
}

// MakeCurrent makes the context of a window target current for windowID,
// moving the target to that window when it differs.
func (r *Renderer) MakeCurrent(t *Target, windowID WindowID) {
	if t == nil || t.context == nil || t.image != nil || t.context.handle == 0 {
		return
	}
	ctx := t.context
	r.current = t
	if err := r.windows.MakeCurrent(windowID, ctx.handle); err != nil {
		r.fail("MakeCurrent", ErrorBackend, "%v", err)
	}

	if ctx.WindowID == windowID {
		return
	}
	r.FlushBlitBuffer()
	if r.registry != nil {
		r.registry.RemoveWindowMapping(windowID)
	}
	ctx.WindowID = windowID
	if r.registry != nil {
		r.registry.AddWindowMapping(t)
	}
	ctx.WindowW, ctx.WindowH = r.windows.WindowSize(windowID)
	ctx.DrawableW, ctx.DrawableH = r.windows.DrawableSize(windowID)
	t.BaseW, t.BaseH = ctx.DrawableW, ctx.DrawableH
	r.applyTargetCamera(ctx.activeTarget)
}

// ResetRendererState reapplies every cached GL state. Call it after issuing
// GL commands outside the renderer.
func (r *Renderer) ResetRendererState() {
	t := r.current
	if t == nil {
		return
	}
	ctx := t.context
	cdata := ctx.data

	if r.IsFeatureEnabled(FeatureBasicShaders) || ctx.currentProgram != 0 {
		r.drv.UseProgram(ctx.currentProgram)
	}
	if err := r.windows.MakeCurrent(ctx.WindowID, ctx.handle); err != nil {
		r.fail("ResetRendererState", ErrorBackend, "%v", err)
	}
	r.toggleTexture2D(cdata.lastUseTexturing)
	if cdata.lastUseBlending {
		r.drv.Enable(GLBlend)
	} else {
		r.drv.Disable(GLBlend)
	}
	r.forceChangeBlendMode(cdata.lastBlendMode)
	if cdata.lastDepthTest {
		r.drv.Enable(GLDepthTest)
	} else {
		r.drv.Disable(GLDepthTest)
	}
	r.drv.DepthMask(cdata.lastDepthWrite)
	r.forceChangeViewport(t, t.Viewport)
	if cdata.lastImage != nil {
		r.drv.BindTexture(GLTexture2D, cdata.lastImage.data.Get().handle)
	}
	if ctx.activeTarget != nil {
		r.bindFramebufferHandle(ctx.activeTarget.data.Get().handle)
	} else {
		r.bindFramebufferHandle(t.data.Get().handle)
	}
}

// AddDepthBuffer attaches a 16-bit depth renderbuffer to t and turns depth
// testing on.
func (r *Renderer) AddDepthBuffer(t *Target) error {
	const fn = "AddDepthBuffer"
	if r.current == nil {
		return r.fail(fn, ErrorBackend, "NULL context.")
	}
	if t == nil {
		return r.fail(fn, ErrorNullArgument, "target")
	}
	r.flushIfCurrentTarget(t)
	if !r.SetActiveTarget(t) {
		return r.fail(fn, ErrorBackend, "Failed to bind target framebuffer.")
	}

	rb := r.drv.CreateRenderbuffer()
	r.drv.BindRenderbuffer(GLRenderbuffer, rb)
	r.drv.RenderbufferStorage(GLRenderbuffer, GLDepthComponent16, int32(t.BaseW), int32(t.BaseH))
	r.drv.FramebufferRenderbuffer(GLFramebuffer, GLDepthAttachment, GLRenderbuffer, rb)
	if status := r.drv.CheckFramebufferStatus(GLFramebuffer); status != GLFramebufferComplete {
		return r.fail(fn, ErrorBackend, "Failed to attach depth buffer to target.")
	}

	r.cdata().lastDepthWrite = t.UseDepthWrite
	r.drv.DepthMask(t.UseDepthWrite)
	r.SetDepthTest(t, true)
	return nil
}

// SetWindowResolution resizes the current window and drops any virtual
// resolution.
func (r *Renderer) SetWindowResolution(w, h int) bool {
	t := r.current
	if t == nil || w == 0 || h == 0 {
		return false
	}
	ctx := t.context
	isCurrent := r.flushIfCurrentTarget(t)

	ctx.WindowW, ctx.WindowH = r.windows.WindowSize(ctx.WindowID)
	ctx.DrawableW, ctx.DrawableH = r.windows.DrawableSize(ctx.WindowID)
	if ctx.WindowW != w || ctx.WindowH != h {
		r.windows.SetWindowSize(ctx.WindowID, w, h)
		ctx.WindowW, ctx.WindowH = r.windows.WindowSize(ctx.WindowID)
		ctx.DrawableW, ctx.DrawableH = r.windows.DrawableSize(ctx.WindowID)
	}
	r.updateStoredDimensions(t)

	t.BaseW, t.BaseH = ctx.DrawableW, ctx.DrawableH
	t.W, t.H = t.BaseW, t.BaseH
	t.UsingVirtualResolution = false

	t.Viewport = fullRect(t.W, t.H)
	r.changeViewport(t)
	r.UnsetClip(t)
	if isCurrent {
		r.applyTargetCamera(t)
	}
	r.ResetProjection(t)
	return true
}

// SetVirtualResolution makes t behave as w x h regardless of its real size.
func (r *Renderer) SetVirtualResolution(t *Target, w, h int) {
	if t == nil || w == 0 || h == 0 {
		return
	}
	isCurrent := r.flushIfCurrentTarget(t)
	t.W, t.H = w, h
	t.UsingVirtualResolution = true
	if isCurrent {
		r.applyTargetCamera(t)
	}
	r.ResetProjection(t)
}

func (r *Renderer) UnsetVirtualResolution(t *Target) {
	if t == nil {
		return
	}
	isCurrent := r.flushIfCurrentTarget(t)
	t.W, t.H = t.BaseW, t.BaseH
	t.UsingVirtualResolution = false
	if isCurrent {
		r.applyTargetCamera(t)
	}
	r.ResetProjection(t)
}

// SetFullscreen toggles fullscreen on the current window and reports the
// resulting state. The windowed size is restored when leaving fullscreen.
func (r *Renderer) SetFullscreen(enable, useDesktopResolution bool) bool {
	t := r.current
	if t == nil {
		return false
	}
	ctx := t.context
	was := r.windows.IsFullscreen(ctx.WindowID)
	is := was
	if r.windows.SetFullscreen(ctx.WindowID, enable, useDesktopResolution) {
		is = r.windows.IsFullscreen(ctx.WindowID)
		if !was && is {
			ctx.StoredWindowW, ctx.StoredWindowH = ctx.WindowW, ctx.WindowH
		}
		if was && !is && ctx.StoredWindowW != 0 && ctx.StoredWindowH != 0 {
			r.windows.SetWindowSize(ctx.WindowID, ctx.StoredWindowW, ctx.StoredWindowH)
		}
	}

	if is != was {
		ctx.WindowW, ctx.WindowH = r.windows.WindowSize(ctx.WindowID)
		ctx.DrawableW, ctx.DrawableH = r.windows.DrawableSize(ctx.WindowID)
		if !t.UsingVirtualResolution {
			t.W, t.H = ctx.DrawableW, ctx.DrawableH
		}
		t.Viewport = fullRect(ctx.DrawableW, ctx.DrawableH)
		r.changeViewport(t)
		r.UnsetClip(t)
		if r.isCurrentTarget(t) {
			r.applyTargetCamera(t)
		}
	}
	t.BaseW, t.BaseH = ctx.DrawableW, ctx.DrawableH
	return is
}

// SetCamera installs cam on t (nil selects the default camera) and returns
// the previous one.
func (r *Renderer) SetCamera(t *Target, cam *Camera) Camera {
	if t == nil {
		r.fail("SetCamera", ErrorNullArgument, "target")
		return DefaultCamera()
	}
	next := DefaultCamera()
	if cam != nil {
		next = *cam
	}
	old := t.Camera
	if !next.Equal(old) {
		r.flushIfCurrentTarget(t)
		t.Camera = next
	}
	return old
}

// EnableCamera selects between the camera and the view stack for t.
func (r *Renderer) EnableCamera(t *Target, use bool) {
	if t == nil || t.UseCamera == use {
		return
	}
	r.flushIfCurrentTarget(t)
	t.UseCamera = use
}

func (r *Renderer) SetViewport(t *Target, vp Rect) {
	if t == nil || t.Viewport == vp {
		return
	}
	r.flushIfCurrentTarget(t)
	t.Viewport = vp
}

// UnsetViewport restores the full-target viewport.
func (r *Renderer) UnsetViewport(t *Target) {
	if t == nil {
		return
	}
	r.SetViewport(t, fullRect(t.W, t.H))
}

// SetClip enables clipping to the given rectangle and returns the previous
// clip rectangle.
func (r *Renderer) SetClip(t *Target, x, y, w, h int) Rect {
	if t == nil || r.current == nil {
		return Rect{}
	}
	r.flushIfCurrentTarget(t)
	old := t.ClipRect
	t.UseClipRect = true
	t.ClipRect = Rect{float32(x), float32(y), float32(w), float32(h)}
	return old
}

func (r *Renderer) SetClipRect(t *Target, rect Rect) Rect {
	return r.SetClip(t, int(rect.X), int(rect.Y), int(rect.W), int(rect.H))
}

// UnsetClip disables clipping. The rectangle is kept.
func (r *Renderer) UnsetClip(t *Target) {
	if t == nil || r.current == nil {
		return
	}
	r.flushIfCurrentTarget(t)
	t.UseClipRect = false
}

// SetTargetColor modulates everything drawn to t by c.
func (r *Renderer) SetTargetColor(t *Target, c colors.Color) {
	if t == nil {
		return
	}
	t.UseColor = true
	t.Color = c
}

func (r *Renderer) UnsetTargetColor(t *Target) {
	if t == nil {
		return
	}
	t.UseColor = false
	t.Color = colors.White
}

func (r *Renderer) SetDepthTest(t *Target, enable bool) {
	if t != nil {
		t.UseDepthTest = enable
	}
}

func (r *Renderer) SetDepthWrite(t *Target, enable bool) {
	if t != nil {
		t.UseDepthWrite = enable
	}
}

func (r *Renderer) SetDepthFunction(t *Target, fn Comparison) {
	if t != nil {
		t.DepthFunction = fn
	}
}

// SetShapeBlending toggles blending for shapes drawn in the current context.
func (r *Renderer) SetShapeBlending(enable bool) {
	if ctx := r.ctx(); ctx != nil {
		ctx.shapesUseBlending = enable
	}
}

func (r *Renderer) SetShapeBlendMode(preset BlendPreset) {
	ctx := r.ctx()
	if ctx == nil {
		return
	}
	mode, ok := BlendModeFromPreset(preset)
	if !ok {
		r.fail("SetShapeBlendMode", ErrorUser, "Blend preset not supported: %d", preset)
	}
	ctx.shapesBlendMode = mode
}

func (r *Renderer) SetShapeBlendFunction(srcColor, dstColor, srcAlpha, dstAlpha BlendFunc) {
	if ctx := r.ctx(); ctx != nil {
		m := &ctx.shapesBlendMode
		m.SourceColor, m.DestColor, m.SourceAlpha, m.DestAlpha = srcColor, dstColor, srcAlpha, dstAlpha
	}
}

func (r *Renderer) SetShapeBlendEquation(colorEq, alphaEq BlendEq) {
	if ctx := r.ctx(); ctx != nil {
		ctx.shapesBlendMode.ColorEquation, ctx.shapesBlendMode.AlphaEquation = colorEq, alphaEq
	}
}

// SetLineThickness sets the width of outlined shapes and returns the old one.
func (r *Renderer) SetLineThickness(thickness float32) float32 {
	ctx := r.ctx()
	if ctx == nil {
		return 1
	}
	old := ctx.lineThickness
	if old != thickness {
		r.FlushBlitBuffer()
		r.drv.LineWidth(thickness)
	}
	ctx.lineThickness = thickness
	return old
}

func (r *Renderer) LineThickness() float32 {
	if ctx := r.ctx(); ctx != nil {
		return ctx.lineThickness
	}
	return 1
}

// ClearRGBA fills t (inside its clip rectangle) with the given color and
// clears the depth buffer.
func (r *Renderer) ClearRGBA(t *Target, c colors.Color) {
	if t == nil {
		return
	}
	r.makeContextCurrent(t)
	if r.current == nil {
		return
	}
	r.flushIfCurrentTarget(t)
	if !r.SetActiveTarget(t) {
		r.fail("ClearRGBA", ErrorBackend, "Failed to bind framebuffer.")
		return
	}
	r.setClipRect(t)
	rf, gf, bf, af := c.Floats()
	r.drv.ClearColor(rf, gf, bf, af)
	r.drv.Clear(GLColorBufferBit | GLDepthBufferBit)
	r.unsetClipRect(t)
}

// Clear fills t with transparent black.
func (r *Renderer) Clear(t *Target) { r.ClearRGBA(t, colors.Color{}) }

// Flip submits pending geometry and presents a window target. Image targets
// are only flushed.
func (r *Renderer) Flip(t *Target) {
	r.FlushBlitBuffer()
	if t != nil && t.context != nil {
		r.makeContextCurrent(t)
		r.windows.SwapBuffers(t.context.WindowID)
	}
	r.stats = Statistics{}
}

// FreeTarget releases one reference to t. The framebuffer goes with the last
// alias and the context with the last window alias.
func (r *Renderer) FreeTarget(t *Target) {
	if t == nil {
		return
	}
	if t.refs > 1 {
		t.refs--
		return
	}

	if t == r.current {
		r.FlushBlitBuffer()
	} else if t.contextTarget != nil && t.contextTarget.context != nil {
		r.MakeCurrent(t.contextTarget, t.contextTarget.context.WindowID)
	}

	t.data.Release()

	if t.context != nil {
		if r.registry != nil {
			r.registry.RemoveWindowMappingByTarget(t)
		}
		r.freeContext(t.context)
	}

	if t == r.current {
		r.current = nil
	}
	if r.current != nil {
		ctx := r.current.context
		if t.image != nil && ctx.data.lastImage == t.image {
			ctx.data.lastImage = nil
		}
		if ctx.activeTarget == t {
			ctx.activeTarget = nil
		}
		if ctx.data.lastTarget == t {
			ctx.data.lastTarget = nil
		}
	}
	if t.image != nil {
		if t.image.target == t {
			t.image.target = nil
		}
		if t.isAlias && t.image.refs > 1 {
			t.image.refs--
		}
	}
	t.projection.Clear()
	t.view.Clear()
	t.model.Clear()
	t.refs = 0
}

func (r *Renderer) freeContext(ctx *Context) {
	if ctx == nil {
		return
	}
	if ctx.refs > 1 {
		ctx.refs--
		return
	}
	cdata := ctx.data
	if !ctx.failed {
		r.drv.DeleteBuffer(cdata.vbo[0])
		r.drv.DeleteBuffer(cdata.vbo[1])
		r.drv.DeleteBuffer(cdata.ibo)
		for _, b := range cdata.attributeVBO {
			r.drv.DeleteBuffer(b)
		}
		r.drv.DeleteVertexArray(cdata.vao)
	}
	if ctx.handle != 0 {
		r.windows.DeleteContext(ctx.handle)
		ctx.handle = 0
	}
	ctx.refs = 0
	cdata.blitBuffer = nil
	cdata.indexBuffer = nil
}

// ResetProjection loads the default orthographic projection for t.
func (r *Renderer) ResetProjection(t *Target) {
	if t == nil {
		return
	}
	invert := t.image != nil
	p := t.projection
	p.LoadIdentity()
	near, far := t.Camera.ZNear, t.Camera.ZFar
	if !invert != r.coordinateMode {
		p.Ortho(0, float32(t.W), float32(t.H), 0, near, far)
	} else {
		p.Ortho(0, float32(t.W), 0, float32(t.H), near, far)
	}
}

// ModelViewProjection is projection * view * camera * model for t. The
// camera term is left out while the camera is disabled.
func (r *Renderer) ModelViewProjection(t *Target) mgl32.Mat4 {
	view := t.view.Top()
	if t.UseCamera {
		view = view.Mul4(t.Camera.Matrix(float32(t.W), float32(t.H)))
	}
	return t.projection.Top().Mul4(view).Mul4(t.model.Top())
}
