package rhi

// Names the built-in programs use. Custom programs that keep them can be
// drawn with a nil block.
const (
	PositionAttribute = "aPos"
	TexCoordAttribute = "aTexCoord"
	ColorAttribute    = "aColor"
	MVPUniform        = "uMVP"
)

type locationKey struct {
	program uint32
	name    string
	uniform bool
}

// shadersAvailable gates the public shader API.
func (r *Renderer) shadersAvailable(fn string) error {
	if !r.backend.UserShaders() || !r.IsFeatureEnabled(FeatureBasicShaders) {
		return r.fail(fn, ErrorUnsupportedFunction, "Shaders are not supported by renderer %s", r.id.Name)
	}
	return nil
}

func shaderEnum(kind ShaderKind) (Enum, bool) {
	switch kind {
	case VertexShader:
		return GLVertexShader, true
	case FragmentShader:
		return GLFragmentShader, true
	case GeometryShader:
		return GLGeometryShader, true
	}
	return 0, false
}

// compileShader builds a shader object without checking whether user shaders
// are exposed. The built-in programs go through it on every backend.
func (r *Renderer) compileShader(kind ShaderKind, source string) (uint32, error) {
	const fn = "CompileShader"
	typ, ok := shaderEnum(kind)
	if !ok {
		return 0, r.fail(fn, ErrorUser, "Unknown shader kind %d", kind)
	}
	if kind == GeometryShader && !r.IsFeatureEnabled(FeatureGeometryShader) {
		r.shaderMessage = "Failed to create geometry shader object."
		return 0, r.fail(fn, ErrorBackend, "Hardware does not support geometry shaders.")
	}
	shader := r.drv.CreateShader(typ)
	if shader == 0 {
		r.shaderMessage = "Failed to create new shader object."
		return 0, r.fail(fn, ErrorBackend, "Failed to create new shader object")
	}
	r.drv.ShaderSource(shader, source)
	r.drv.CompileShader(shader)
	if r.drv.GetShaderi(shader, GLCompileStatus) == 0 {
		r.shaderMessage = r.drv.GetShaderInfoLog(shader)
		r.drv.DeleteShader(shader)
		return 0, r.fail(fn, ErrorData, "Failed to compile shader source: %s", r.shaderMessage)
	}
	return shader, nil
}

func (r *Renderer) linkProgram(program uint32) error {
	r.drv.BindAttribLocation(program, 0, PositionAttribute)
	r.drv.LinkProgram(program)
	if r.drv.GetProgrami(program, GLLinkStatus) == 0 {
		r.shaderMessage = r.drv.GetProgramInfoLog(program)
		r.drv.DeleteProgram(program)
		return r.fail("LinkShaderProgram", ErrorBackend, "Failed to link shader program: %s", r.shaderMessage)
	}
	r.locations.Purge()
	return nil
}

func (r *Renderer) buildProgram(src ShaderSource) (program uint32, shaders [2]uint32, err error) {
	if shaders[0], err = r.compileShader(VertexShader, src.Vertex); err != nil {
		return 0, shaders, err
	}
	if shaders[1], err = r.compileShader(FragmentShader, src.Fragment); err != nil {
		r.drv.DeleteShader(shaders[0])
		return 0, shaders, err
	}
	program = r.drv.CreateProgram()
	r.drv.AttachShader(program, shaders[0])
	r.drv.AttachShader(program, shaders[1])
	if err = r.linkProgram(program); err != nil {
		r.drv.DeleteShader(shaders[0])
		r.drv.DeleteShader(shaders[1])
		return 0, shaders, err
	}
	return program, shaders, nil
}

func (r *Renderer) defaultBlock(program uint32) ShaderBlock {
	return ShaderBlock{
		PositionLoc: r.attributeLocation(program, PositionAttribute),
		TexCoordLoc: r.attributeLocation(program, TexCoordAttribute),
		ColorLoc:    r.attributeLocation(program, ColorAttribute),
		MVPLoc:      r.uniformLocation(program, MVPUniform),
	}
}

// loadDefaultShaders builds the textured and untextured programs of ctx and
// activates the textured one.
func (r *Renderer) loadDefaultShaders(ctx *Context) error {
	const fn = "CreateTargetFromWindow"
	textured, untextured := r.backend.DefaultShaders(r.maxShaderVersion)

	p, shaders, err := r.buildProgram(textured)
	if err != nil {
		return r.fail(fn, ErrorBackend, "Failed to load default textured shader program: %v", err)
	}
	ctx.defaultTexturedProgram = p
	ctx.defaultTexturedShaders = shaders
	ctx.defaultTexturedBlock = r.defaultBlock(p)

	p, shaders, err = r.buildProgram(untextured)
	if err != nil {
		return r.fail(fn, ErrorBackend, "Failed to load default untextured shader program: %v", err)
	}
	ctx.defaultUntexturedProgram = p
	ctx.defaultUntexturedShaders = shaders
	ctx.defaultUntexturedBlock = r.defaultBlock(p)

	r.activateProgram(ctx.defaultTexturedProgram, nil)
	Logger().Debug("default shaders loaded", "renderer", r.id.Name, "glsl", r.maxShaderVersion)
	return nil
}

// activateProgram makes p current. 0 selects a default program and keeps
// whichever default is active.
func (r *Renderer) activateProgram(p uint32, block *ShaderBlock) {
	ctx := r.ctx()
	if p == 0 {
		if ctx.currentProgram != 0 && r.IsDefaultShaderProgram(ctx.currentProgram) {
			return
		}
		p = ctx.defaultUntexturedProgram
	}
	r.FlushBlitBuffer()
	r.changeProgram(p)

	switch {
	case block != nil:
		ctx.currentBlock = *block
	case p == ctx.defaultTexturedProgram:
		ctx.currentBlock = ctx.defaultTexturedBlock
	case p == ctx.defaultUntexturedProgram:
		ctx.currentBlock = ctx.defaultUntexturedBlock
	default:
		ctx.currentBlock = emptyShaderBlock()
	}
}

// CompileShader compiles one stage. The driver log of a failure is kept in
// ShaderMessage.
func (r *Renderer) CompileShader(kind ShaderKind, source string) (uint32, error) {
	if err := r.shadersAvailable("CompileShader"); err != nil {
		return 0, err
	}
	if source == "" {
		return 0, r.fail("CompileShader", ErrorData, "Empty shader source")
	}
	return r.compileShader(kind, source)
}

func (r *Renderer) CreateShaderProgram() (uint32, error) {
	if err := r.shadersAvailable("CreateShaderProgram"); err != nil {
		return 0, err
	}
	return r.drv.CreateProgram(), nil
}

// LinkShaderProgram links program with the position attribute bound to
// location 0. A program that fails to link is deleted.
func (r *Renderer) LinkShaderProgram(program uint32) error {
	if err := r.shadersAvailable("LinkShaderProgram"); err != nil {
		return err
	}
	return r.linkProgram(program)
}

// LinkShaders creates a program from already compiled shaders.
func (r *Renderer) LinkShaders(shaders ...uint32) (uint32, error) {
	p, err := r.CreateShaderProgram()
	if err != nil {
		return 0, err
	}
	for _, s := range shaders {
		r.drv.AttachShader(p, s)
	}
	if err := r.linkProgram(p); err != nil {
		return 0, err
	}
	return p, nil
}

func (r *Renderer) FreeShader(shader uint32) {
	if r.shadersAvailable("FreeShader") == nil {
		r.drv.DeleteShader(shader)
	}
}

func (r *Renderer) FreeShaderProgram(program uint32) {
	if r.shadersAvailable("FreeShaderProgram") == nil {
		r.drv.DeleteProgram(program)
		r.locations.Purge()
	}
}

func (r *Renderer) AttachShader(program, shader uint32) {
	if r.shadersAvailable("AttachShader") == nil {
		r.drv.AttachShader(program, shader)
	}
}

func (r *Renderer) DetachShader(program, shader uint32) {
	if r.shadersAvailable("DetachShader") == nil {
		r.drv.DetachShader(program, shader)
	}
}

// IsDefaultShaderProgram reports whether p is one of the built-in programs of
// the current context.
func (r *Renderer) IsDefaultShaderProgram(p uint32) bool {
	ctx := r.ctx()
	if ctx == nil {
		return false
	}
	return p == ctx.defaultTexturedProgram || p == ctx.defaultUntexturedProgram
}

// ActivateShaderProgram draws the following geometry with program p, feeding
// it through block. A nil block uses the built-in block for the default
// programs and disables vertex feeding for others. p == 0 returns to the
// defaults.
func (r *Renderer) ActivateShaderProgram(p uint32, block *ShaderBlock) error {
	const fn = "ActivateShaderProgram"
	if err := r.shadersAvailable(fn); err != nil {
		return err
	}
	if err := r.noContext(fn); err != nil {
		return err
	}
	r.activateProgram(p, block)
	return nil
}

func (r *Renderer) DeactivateShaderProgram() error {
	return r.ActivateShaderProgram(0, nil)
}

// ShaderMessage is the driver log of the last failed compile or link.
func (r *Renderer) ShaderMessage() string { return r.shaderMessage }

func (r *Renderer) cachedLocation(key locationKey, lookup func() int32) int32 {
	if v, ok := r.locations.Get(key); ok {
		return v.(int32)
	}
	loc := lookup()
	r.locations.Add(key, loc)
	return loc
}

func (r *Renderer) attributeLocation(program uint32, name string) int32 {
	return r.cachedLocation(locationKey{program, name, false}, func() int32 {
		return r.drv.GetAttribLocation(program, name)
	})
}

func (r *Renderer) uniformLocation(program uint32, name string) int32 {
	return r.cachedLocation(locationKey{program, name, true}, func() int32 {
		return r.drv.GetUniformLocation(program, name)
	})
}

// AttributeLocation looks up name in program, 0 meaning the default textured
// program. It returns -1 when there is no such attribute.
func (r *Renderer) AttributeLocation(program uint32, name string) int32 {
	if r.shadersAvailable("AttributeLocation") != nil || r.ctx() == nil {
		return -1
	}
	program = r.properProgram(program)
	if program == 0 {
		return -1
	}
	return r.attributeLocation(program, name)
}

func (r *Renderer) UniformLocation(program uint32, name string) int32 {
	if r.shadersAvailable("UniformLocation") != nil || r.ctx() == nil {
		return -1
	}
	program = r.properProgram(program)
	if program == 0 {
		return -1
	}
	return r.uniformLocation(program, name)
}

// LoadShaderBlock resolves the locations the batcher needs. Empty names are
// left at -1.
func (r *Renderer) LoadShaderBlock(program uint32, position, texCoord, color, mvp string) ShaderBlock {
	b := emptyShaderBlock()
	if r.shadersAvailable("LoadShaderBlock") != nil || r.ctx() == nil {
		return b
	}
	program = r.properProgram(program)
	if program == 0 {
		return b
	}
	if position != "" {
		b.PositionLoc = r.attributeLocation(program, position)
	}
	if texCoord != "" {
		b.TexCoordLoc = r.attributeLocation(program, texCoord)
	}
	if color != "" {
		b.ColorLoc = r.attributeLocation(program, color)
	}
	if mvp != "" {
		b.MVPLoc = r.uniformLocation(program, mvp)
	}
	return b
}

// SetShaderBlock replaces the block of the active program.
func (r *Renderer) SetShaderBlock(block ShaderBlock) {
	if ctx := r.ctx(); ctx != nil {
		r.FlushBlitBuffer()
		ctx.currentBlock = block
	}
}

func (r *Renderer) CurrentShaderBlock() ShaderBlock {
	if ctx := r.ctx(); ctx != nil {
		return ctx.currentBlock
	}
	return emptyShaderBlock()
}

// uniformTarget flushes and reports whether uniforms can be set now.
func (r *Renderer) uniformTarget(fn string) bool {
	if r.shadersAvailable(fn) != nil || r.ctx() == nil {
		return false
	}
	r.FlushBlitBuffer()
	return r.ctx().currentProgram != 0
}

// SetShaderImage binds img to texture unit and points the sampler at
// location to it. A nil image unbinds the unit.
func (r *Renderer) SetShaderImage(img *Image, location int32, unit int) {
	if !r.uniformTarget("SetShaderImage") || unit < 0 {
		return
	}
	var tex uint32
	if img != nil {
		tex = img.data.Get().handle
	}
	r.drv.Uniformiv(location, 1, []int32{int32(unit)})
	r.drv.ActiveTexture(GLTexture0 + Enum(unit))
	r.drv.BindTexture(GLTexture2D, tex)
	if unit != 0 {
		r.drv.ActiveTexture(GLTexture0)
	}
}

func (r *Renderer) SetUniformi(location int32, v int32) {
	if r.uniformTarget("SetUniformi") {
		r.drv.Uniformiv(location, 1, []int32{v})
	}
}

func (r *Renderer) SetUniformui(location int32, v uint32) {
	if r.uniformTarget("SetUniformui") {
		r.drv.Uniformuiv(location, 1, []uint32{v})
	}
}

func (r *Renderer) SetUniformf(location int32, v float32) {
	if r.uniformTarget("SetUniformf") {
		r.drv.Uniformfv(location, 1, []float32{v})
	}
}

func validComponents(n int) bool { return n >= 1 && n <= 4 }

// SetUniformiv uploads values as vectors of elems components.
func (r *Renderer) SetUniformiv(location int32, elems int, values []int32) {
	if validComponents(elems) && r.uniformTarget("SetUniformiv") {
		r.drv.Uniformiv(location, elems, values)
	}
}

func (r *Renderer) SetUniformuiv(location int32, elems int, values []uint32) {
	if validComponents(elems) && r.uniformTarget("SetUniformuiv") {
		r.drv.Uniformuiv(location, elems, values)
	}
}

func (r *Renderer) SetUniformfv(location int32, elems int, values []float32) {
	if validComponents(elems) && r.uniformTarget("SetUniformfv") {
		r.drv.Uniformfv(location, elems, values)
	}
}

// SetUniformMatrixfv uploads column major matrices of rows x cols.
func (r *Renderer) SetUniformMatrixfv(location int32, rows, cols int, transpose bool, values []float32) error {
	const fn = "SetUniformMatrixfv"
	if !r.uniformTarget(fn) {
		return nil
	}
	if rows < 2 || rows > 4 || cols < 2 || cols > 4 {
		return r.fail(fn, ErrorData, "Given invalid dimensions (%dx%d)", rows, cols)
	}
	r.drv.UniformMatrixfv(location, cols, rows, transpose, values)
	return nil
}

// Generic attribute values apply while no array feeds the location. Missing
// components default to (0, 0, 0, 1).

func (r *Renderer) SetAttributef(location int32, v float32) {
	r.SetAttributefv(location, []float32{v})
}

func (r *Renderer) SetAttributei(location int32, v int32) {
	r.SetAttributeiv(location, []int32{v})
}

func (r *Renderer) SetAttributeui(location int32, v uint32) {
	r.SetAttributeuiv(location, []uint32{v})
}

func (r *Renderer) SetAttributefv(location int32, values []float32) {
	if location < 0 || !validComponents(len(values)) || !r.uniformTarget("SetAttributefv") {
		return
	}
	v := [4]float32{0, 0, 0, 1}
	copy(v[:], values)
	r.drv.VertexAttrib4f(uint32(location), v[0], v[1], v[2], v[3])
}

func (r *Renderer) SetAttributeiv(location int32, values []int32) {
	if location < 0 || !validComponents(len(values)) || !r.uniformTarget("SetAttributeiv") {
		return
	}
	v := [4]int32{0, 0, 0, 1}
	copy(v[:], values)
	r.drv.VertexAttribI4i(uint32(location), v[0], v[1], v[2], v[3])
}

func (r *Renderer) SetAttributeuiv(location int32, values []uint32) {
	if location < 0 || !validComponents(len(values)) || !r.uniformTarget("SetAttributeuiv") {
		return
	}
	v := [4]uint32{0, 0, 0, 1}
	copy(v[:], values)
	r.drv.VertexAttribI4ui(uint32(location), v[0], v[1], v[2], v[3])
}
