package rhi

import (
	"github.com/hubastard/grove-rhi/engine/colors"
)

// Every change* helper follows the same shape: compare with the cache and
// return when equal, otherwise invalidate the matching bit (which drains any
// geometry batched under the old state), issue the driver call and update
// the cache.

func (r *Renderer) cdata() *contextData {
	if r.current == nil || r.current.context == nil {
		return nil
	}
	return r.current.context.data
}

func (r *Renderer) ctx() *Context {
	if r.current == nil {
		return nil
	}
	return r.current.context
}

// invalidate marks cached state as about to change and passes the gate.
func (r *Renderer) invalidate(bits dirtyBits) {
	cdata := r.cdata()
	if cdata == nil {
		return
	}
	cdata.dirty |= bits
	r.ensureFlushedIfDirty()
}

// ensureFlushedIfDirty is the single point where a state change drains the
// batch recorded under the previous state. It does nothing while a flush is
// already running.
func (r *Renderer) ensureFlushedIfDirty() {
	cdata := r.cdata()
	if cdata == nil || cdata.flushing || cdata.dirty == 0 {
		return
	}
	if cdata.numVertices > 0 {
		r.stats.StateFlushes++
		r.FlushBlitBuffer()
	}
	cdata.dirty = 0
}

// makeContextCurrent switches to the context of a window target.
func (r *Renderer) makeContextCurrent(t *Target) {
	if t == nil || t.context == nil || r.current == t {
		return
	}
	r.FlushBlitBuffer()
	if err := r.windows.MakeCurrent(t.context.WindowID, t.context.handle); err != nil {
		r.fail("MakeCurrent", ErrorBackend, "%v", err)
	}
	r.current = t
}

// SetActiveTarget binds the framebuffer of t, switching contexts first when t
// is a window target of another context. It reports false when nothing can be
// bound.
func (r *Renderer) SetActiveTarget(t *Target) bool {
	r.makeContextCurrent(t)
	if t == nil || r.current == nil {
		return false
	}
	ctx := r.current.context
	if r.IsFeatureEnabled(FeatureRenderTargets) {
		if t != ctx.activeTarget {
			r.invalidate(dirtyFramebuffer)
			r.drv.BindFramebuffer(GLFramebuffer, t.data.Get().handle)
			ctx.activeTarget = t
			ctx.data.lastTarget = t
		}
	} else {
		// Only the default framebuffer exists.
		ctx.activeTarget = t
		ctx.data.lastTarget = t
	}
	return true
}

func (r *Renderer) bindFramebufferHandle(handle uint32) {
	if r.IsFeatureEnabled(FeatureRenderTargets) {
		r.drv.BindFramebuffer(GLFramebuffer, handle)
	}
}

// flushAndBindFramebuffer binds a raw framebuffer and forgets which target is
// active.
func (r *Renderer) flushAndBindFramebuffer(handle uint32) {
	r.FlushBlitBuffer()
	r.bindFramebufferHandle(handle)
	if ctx := r.ctx(); ctx != nil {
		ctx.activeTarget = nil
	}
}

func (r *Renderer) bindTexture(img *Image) {
	cdata := r.cdata()
	if img == cdata.lastImage {
		return
	}
	r.invalidate(dirtyTexture)
	r.drv.BindTexture(GLTexture2D, img.data.Get().handle)
	cdata.lastImage = img
}

// flushAndBindTexture binds a raw texture and forgets which image is bound.
func (r *Renderer) flushAndBindTexture(handle uint32) {
	r.FlushBlitBuffer()
	r.drv.BindTexture(GLTexture2D, handle)
	if cdata := r.cdata(); cdata != nil {
		cdata.lastImage = nil
	}
}

func (r *Renderer) flushIfCurrentTexture(img *Image) {
	if cdata := r.cdata(); cdata != nil && img == cdata.lastImage {
		r.FlushBlitBuffer()
	}
}

func (r *Renderer) flushAndClearIfCurrentTexture(img *Image) {
	if cdata := r.cdata(); cdata != nil && img == cdata.lastImage {
		r.FlushBlitBuffer()
		cdata.lastImage = nil
	}
}

// isCurrentTarget reports whether pending geometry may belong to t.
func (r *Renderer) isCurrentTarget(t *Target) bool {
	ctx := r.ctx()
	if ctx == nil {
		return false
	}
	return t == ctx.activeTarget || ctx.activeTarget == nil
}

func (r *Renderer) flushIfCurrentTarget(t *Target) bool {
	if r.isCurrentTarget(t) {
		r.FlushBlitBuffer()
		return true
	}
	return false
}

func (r *Renderer) flushAndClearIfCurrentFramebuffer(t *Target) {
	if r.isCurrentTarget(t) {
		r.FlushBlitBuffer()
		r.ctx().activeTarget = nil
	}
}

func (r *Renderer) setClipRect(t *Target) {
	if !t.UseClipRect {
		return
	}
	r.drv.Enable(GLScissorTest)
	clip := t.ClipRect
	if t.context != nil {
		ct := r.current
		y := clip.Y
		if !r.coordinateMode {
			y = float32(ct.H) - (clip.Y + clip.H)
		}
		xf := float32(ct.context.DrawableW) / float32(ct.W)
		yf := float32(ct.context.DrawableH) / float32(ct.H)
		r.drv.Scissor(int32(clip.X*xf), int32(y*yf), int32(clip.W*xf), int32(clip.H*yf))
		return
	}
	r.drv.Scissor(int32(clip.X), int32(clip.Y), int32(clip.W), int32(clip.H))
}

func (r *Renderer) unsetClipRect(t *Target) {
	if t.UseClipRect {
		r.drv.Disable(GLScissorTest)
	}
}

func (r *Renderer) changeDepthTest(enable bool) {
	cdata := r.cdata()
	if cdata.lastDepthTest == enable {
		return
	}
	r.invalidate(dirtyDepthTest)
	if enable {
		r.drv.Enable(GLDepthTest)
	} else {
		r.drv.Disable(GLDepthTest)
	}
	cdata.lastDepthTest = enable
}

func (r *Renderer) changeDepthWrite(enable bool) {
	cdata := r.cdata()
	if cdata.lastDepthWrite == enable {
		return
	}
	r.invalidate(dirtyDepthWrite)
	r.drv.DepthMask(enable)
	cdata.lastDepthWrite = enable
}

func (r *Renderer) changeDepthFunction(fn Comparison) {
	cdata := r.cdata()
	if cdata.lastDepthFunction == fn {
		return
	}
	r.invalidate(dirtyDepthFunction)
	r.drv.DepthFunc(Enum(fn))
	cdata.lastDepthFunction = fn
}

func (r *Renderer) prepareToRenderToTarget(t *Target) {
	r.changeCamera(t)
	r.changeDepthTest(t.UseDepthTest)
	r.changeDepthWrite(t.UseDepthWrite)
	r.changeDepthFunction(t.DepthFunction)
}

func (r *Renderer) changeBlending(enable bool) {
	cdata := r.cdata()
	if cdata.lastUseBlending == enable {
		return
	}
	r.invalidate(dirtyBlending)
	if enable {
		r.drv.Enable(GLBlend)
	} else {
		r.drv.Disable(GLBlend)
	}
	cdata.lastUseBlending = enable
}

// forceChangeBlendMode applies mode unconditionally. Separate factors or
// equations degrade to an error when the feature is missing.
func (r *Renderer) forceChangeBlendMode(mode BlendMode) {
	const fn = "forceChangeBlendMode"
	cdata := r.cdata()
	r.invalidate(dirtyBlendMode)
	cdata.lastBlendMode = mode

	switch {
	case mode.SourceColor == mode.SourceAlpha && mode.DestColor == mode.DestAlpha:
		r.drv.BlendFunc(Enum(mode.SourceColor), Enum(mode.DestColor))
	case r.IsFeatureEnabled(FeatureBlendFuncSeparate):
		r.drv.BlendFuncSeparate(Enum(mode.SourceColor), Enum(mode.DestColor), Enum(mode.SourceAlpha), Enum(mode.DestAlpha))
	default:
		r.fail(fn, ErrorBackend, "Could not set blend function because FeatureBlendFuncSeparate is not supported.")
	}

	if !r.IsFeatureEnabled(FeatureBlendEquations) {
		r.fail(fn, ErrorBackend, "Could not set blend equation because FeatureBlendEquations is not supported.")
		return
	}
	switch {
	case mode.ColorEquation == mode.AlphaEquation:
		r.drv.BlendEquation(Enum(mode.ColorEquation))
	case r.IsFeatureEnabled(FeatureBlendEquationsSeparate):
		r.drv.BlendEquationSeparate(Enum(mode.ColorEquation), Enum(mode.AlphaEquation))
	default:
		r.fail(fn, ErrorBackend, "Could not set blend equation because FeatureBlendEquationsSeparate is not supported.")
	}
}

func (r *Renderer) changeBlendMode(mode BlendMode) {
	if r.cdata().lastBlendMode == mode {
		return
	}
	r.forceChangeBlendMode(mode)
}

// applyTexturing brings the GL texture enable in line with the context.
func (r *Renderer) applyTexturing() {
	ctx := r.ctx()
	if ctx.useTexturing == ctx.data.lastUseTexturing {
		return
	}
	ctx.data.lastUseTexturing = ctx.useTexturing
	r.toggleTexture2D(ctx.useTexturing)
}

func (r *Renderer) changeTexturing(enable bool) {
	cdata := r.cdata()
	if enable == cdata.lastUseTexturing {
		return
	}
	r.invalidate(dirtyTexturing)
	cdata.lastUseTexturing = enable
	r.toggleTexture2D(enable)
}

func (r *Renderer) toggleTexture2D(enable bool) {
	if !r.backend.LegacyTextureEnable() {
		return
	}
	if enable {
		r.drv.Enable(GLTexture2D)
	} else {
		r.drv.Disable(GLTexture2D)
	}
}

func (r *Renderer) enableTexturing() {
	if ctx := r.ctx(); !ctx.useTexturing {
		r.invalidate(dirtyTexturing)
		ctx.useTexturing = true
	}
}

func (r *Renderer) disableTexturing() {
	if ctx := r.ctx(); ctx.useTexturing {
		r.invalidate(dirtyTexturing)
		ctx.useTexturing = false
	}
}

func (r *Renderer) changeShape(shape Primitive) {
	cdata := r.cdata()
	if cdata.lastShape == shape {
		return
	}
	r.invalidate(dirtyShape)
	cdata.lastShape = shape
}

// completeModColor is the color a blit is modulated by: the target color
// times the image color when the target color is on.
func completeModColor(t *Target, img *Image) colors.Color {
	if t.UseColor {
		if img != nil {
			return t.Color.Mix(img.Color)
		}
		return t.Color
	}
	if img != nil {
		return img.Color
	}
	return colors.White
}

func (r *Renderer) prepareToRenderImage(t *Target, img *Image) {
	ctx := r.ctx()
	r.enableTexturing()
	r.changeShape(Triangles)
	r.changeBlending(img.UseBlending)
	r.changeBlendMode(img.BlendMode)

	// Leave the untextured program if it is active.
	if ctx.currentProgram == ctx.defaultUntexturedProgram && ctx.defaultTexturedProgram != 0 {
		r.activateProgram(ctx.defaultTexturedProgram, nil)
	}
}

func (r *Renderer) prepareToRenderShapes(shape Primitive) {
	ctx := r.ctx()
	r.disableTexturing()
	r.changeShape(shape)
	r.changeBlending(ctx.shapesUseBlending)
	r.changeBlendMode(ctx.shapesBlendMode)

	if ctx.currentProgram == ctx.defaultTexturedProgram && ctx.defaultUntexturedProgram != 0 {
		r.activateProgram(ctx.defaultUntexturedProgram, nil)
	}
}

// forceChangeViewport flips the viewport into GL's bottom-left origin unless
// y grows upwards already.
func (r *Renderer) forceChangeViewport(t *Target, vp Rect) {
	cdata := r.cdata()
	cdata.lastViewport = vp

	y := vp.Y
	if !r.coordinateMode {
		switch {
		case t.image != nil:
			y = float32(t.image.TextureH) - vp.H - vp.Y
		case t.context != nil:
			y = float32(t.context.DrawableH) - vp.H - vp.Y
		}
	}
	r.drv.Viewport(int32(vp.X), int32(y), int32(vp.W), int32(vp.H))
}

func (r *Renderer) changeViewport(t *Target) {
	if r.cdata().lastViewport == t.Viewport {
		return
	}
	r.invalidate(dirtyViewport)
	r.forceChangeViewport(t, t.Viewport)
}

// applyTargetCamera records the camera of t as the one in effect.
func (r *Renderer) applyTargetCamera(t *Target) {
	cdata := r.cdata()
	if cdata == nil || t == nil {
		return
	}
	cdata.lastCamera = t.Camera
	cdata.lastCameraInverted = t.image != nil
}

func (r *Renderer) changeCamera(t *Target) {
	cdata := r.cdata()
	if cdata.lastCamera.Equal(t.Camera) && cdata.lastCameraInverted == (t.image != nil) {
		return
	}
	r.invalidate(dirtyCamera)
	r.applyTargetCamera(t)
}

// properProgram maps 0 to the default textured program. It returns 0 when no
// programs are loaded.
func (r *Renderer) properProgram(p uint32) uint32 {
	ctx := r.ctx()
	if ctx.defaultTexturedProgram == 0 {
		return 0
	}
	if p == 0 {
		return ctx.defaultTexturedProgram
	}
	return p
}

func (r *Renderer) changeProgram(p uint32) {
	ctx := r.ctx()
	if ctx.currentProgram == p {
		return
	}
	r.invalidate(dirtyProgram)
	r.drv.UseProgram(p)
	ctx.currentProgram = p
}
