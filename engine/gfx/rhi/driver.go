package rhi

// Enum is a GL enumerant. Values match the Khronos headers so drivers pass them
// through unchanged.
type Enum = uint32

const (
	GLTexture2D           Enum = 0x0DE1
	GLTexture0            Enum = 0x84C0
	GLBlend               Enum = 0x0BE2
	GLDepthTest           Enum = 0x0B71
	GLScissorTest         Enum = 0x0C11
	GLColorBufferBit      Enum = 0x4000
	GLDepthBufferBit      Enum = 0x0100
	GLFramebuffer         Enum = 0x8D40
	GLRenderbuffer        Enum = 0x8D41
	GLColorAttachment0    Enum = 0x8CE0
	GLDepthAttachment     Enum = 0x8D00
	GLFramebufferComplete Enum = 0x8CD5
	GLDepthComponent16    Enum = 0x81A5
	GLArrayBuffer         Enum = 0x8892
	GLElementArrayBuffer  Enum = 0x8893
	GLStreamDraw          Enum = 0x88E0
	GLStaticDraw          Enum = 0x88E4
	GLDynamicDraw         Enum = 0x88E8
	GLFloat               Enum = 0x1406
	GLUnsignedByte        Enum = 0x1401
	GLUnsignedShort       Enum = 0x1403
	GLInt                 Enum = 0x1404
	GLUnsignedInt         Enum = 0x1405

	GLTextureMinFilter        Enum = 0x2801
	GLTextureMagFilter        Enum = 0x2800
	GLTextureWrapS            Enum = 0x2802
	GLTextureWrapT            Enum = 0x2803
	GLNearest                 Enum = 0x2600
	GLLinear                  Enum = 0x2601
	GLLinearMipmapNearest     Enum = 0x2701
	GLLinearMipmapLinear      Enum = 0x2703
	GLClampToEdge             Enum = 0x812F
	GLRepeat                  Enum = 0x2901
	GLMirroredRepeat          Enum = 0x8370
	GLTextureWidth            Enum = 0x1000
	GLTextureHeight           Enum = 0x1001
	GLTextureInternalFormat   Enum = 0x1003
	GLUnpackAlignment         Enum = 0x0CF5
	GLPackAlignment           Enum = 0x0D05
	GLUnpackRowLength         Enum = 0x0CF2
	GLRGB                     Enum = 0x1907
	GLRGBA                    Enum = 0x1908
	GLAlpha                   Enum = 0x1906
	GLLuminance               Enum = 0x1909
	GLLuminanceAlpha          Enum = 0x190A
	GLRG                      Enum = 0x8227
	GLBGR                     Enum = 0x80E0
	GLBGRA                    Enum = 0x80E1
	GLABGR                    Enum = 0x8000
	GLVersion                 Enum = 0x1F02
	GLVendor                  Enum = 0x1F00
	GLRendererString          Enum = 0x1F01
	GLShadingLanguageVersion  Enum = 0x8B8C
	GLVertexShader            Enum = 0x8B31
	GLFragmentShader          Enum = 0x8B30
	GLGeometryShader          Enum = 0x8DD9
	GLCompileStatus           Enum = 0x8B81
	GLLinkStatus              Enum = 0x8B82
	GLMaxTextureSize          Enum = 0x0D33
	GLFramebufferBinding      Enum = 0x8CA6
	GLNoError                 Enum = 0
)

// Driver is the GL entry point surface the common renderer logic drives.
// Implementations wrap a concrete binding; tests use a recording fake.
// All methods run on the thread owning the current context.
type Driver interface {
	// Init loads entry points for the context that was just made current.
	Init() error

	GetString(name Enum) string
	GetInteger(pname Enum) int32
	Extensions() []string
	GetError() Enum

	Enable(cap Enum)
	Disable(cap Enum)
	BlendFunc(src, dst Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	BlendEquation(mode Enum)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	DepthFunc(fn Enum)
	DepthMask(flag bool)
	Viewport(x, y, w, h int32)
	Scissor(x, y, w, h int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	LineWidth(w float32)

	CreateTexture() uint32
	DeleteTexture(tex uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, tex uint32)
	TexParameteri(target, pname Enum, param int32)
	GetTexParameteri(target, pname Enum) int32
	GetTexLevelParameteri(target Enum, level int32, pname Enum) int32
	PixelStorei(pname Enum, param int32)
	TexImage2D(target Enum, level, internalFormat, w, h int32, format, typ Enum, pixels []byte)
	TexSubImage2D(target Enum, level, x, y, w, h int32, format, typ Enum, pixels []byte)
	// GetTexImage reports false when the binding cannot read textures back.
	GetTexImage(target Enum, level int32, format, typ Enum, pixels []byte) bool
	GenerateMipmap(target Enum)
	ReadPixels(x, y, w, h int32, format, typ Enum, pixels []byte)

	CreateFramebuffer() uint32
	DeleteFramebuffer(fb uint32)
	BindFramebuffer(target Enum, fb uint32)
	FramebufferTexture2D(target, attachment, texTarget Enum, tex uint32, level int32)
	CheckFramebufferStatus(target Enum) Enum
	CreateRenderbuffer() uint32
	DeleteRenderbuffer(rb uint32)
	BindRenderbuffer(target Enum, rb uint32)
	RenderbufferStorage(target, internalFormat Enum, w, h int32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb uint32)

	CreateBuffer() uint32
	DeleteBuffer(buf uint32)
	BindBuffer(target Enum, buf uint32)
	// BufferAlloc sizes the bound buffer to size bytes without uploading.
	BufferAlloc(target Enum, size int, usage Enum)
	BufferFloat32(target Enum, data []float32, usage Enum)
	BufferUint16(target Enum, data []uint16, usage Enum)
	BufferBytes(target Enum, data []byte, usage Enum)
	CreateVertexArray() uint32
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)
	EnableVertexAttribArray(loc uint32)
	DisableVertexAttribArray(loc uint32)
	VertexAttribPointer(loc uint32, size int32, typ Enum, normalized bool, stride int32, offset int)
	VertexAttrib4f(loc uint32, x, y, z, w float32)
	VertexAttribI4i(loc uint32, x, y, z, w int32)
	VertexAttribI4ui(loc uint32, x, y, z, w uint32)
	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, typ Enum, offset int)

	CreateShader(typ Enum) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	GetShaderi(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32
	BindAttribLocation(program, index uint32, name string)
	Uniformiv(loc int32, components int, v []int32)
	Uniformuiv(loc int32, components int, v []uint32)
	Uniformfv(loc int32, components int, v []float32)
	UniformMatrixfv(loc int32, cols, rows int, transpose bool, v []float32)
}
