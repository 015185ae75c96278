package rhi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDriver counts every call by name and hands out increasing handles.
type fakeDriver struct {
	calls map[string]int
	next  uint32

	version string
	glsl    string

	compileStatus int32
	linkStatus    int32
	fbStatus      Enum
	uniforms      map[string]int32

	lastDrawCount int32
	scissor       bool
	scissorDraws  []bool
	viewport      [4]int32
	attrib        [4]float32
	uniformCalls  []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		calls:         map[string]int{},
		version:       "3.3.0 Fake",
		glsl:          "3.30 Fake",
		compileStatus: 1,
		linkStatus:    1,
		fbStatus:      GLFramebufferComplete,
		uniforms:      map[string]int32{MVPUniform: 0},
	}
}

func (d *fakeDriver) record(name string) { d.calls[name]++ }

func (d *fakeDriver) handle(name string) uint32 {
	d.record(name)
	d.next++
	return d.next
}

func (d *fakeDriver) count(name string) int { return d.calls[name] }

func (d *fakeDriver) total() int {
	n := 0
	for _, c := range d.calls {
		n += c
	}
	return n
}

func (d *fakeDriver) reset() {
	d.calls = map[string]int{}
	d.uniformCalls = nil
	d.scissorDraws = nil
}

func (d *fakeDriver) Init() error { d.record("Init"); return nil }

func (d *fakeDriver) GetString(name Enum) string {
	d.record("GetString")
	switch name {
	case GLVersion:
		return d.version
	case GLShadingLanguageVersion:
		return d.glsl
	case GLVendor:
		return "Fake Vendor"
	case GLRendererString:
		return "Fake Renderer"
	}
	return ""
}

func (d *fakeDriver) GetInteger(Enum) int32 { d.record("GetInteger"); return 0 }
func (d *fakeDriver) Extensions() []string { return []string{"GL_ARB_texture_non_power_of_two"} }
func (d *fakeDriver) GetError() Enum { return 0 }

func (d *fakeDriver) Enable(c Enum) {
	d.record("Enable")
	if c == GLScissorTest {
		d.scissor = true
	}
}

func (d *fakeDriver) Disable(c Enum) {
	d.record("Disable")
	if c == GLScissorTest {
		d.scissor = false
	}
}

func (d *fakeDriver) BlendFunc(_, _ Enum) { d.record("BlendFunc") }
func (d *fakeDriver) BlendFuncSeparate(_, _, _, _ Enum) { d.record("BlendFuncSeparate") }
func (d *fakeDriver) BlendEquation(Enum) { d.record("BlendEquation") }
func (d *fakeDriver) BlendEquationSeparate(_, _ Enum) { d.record("BlendEquationSeparate") }
func (d *fakeDriver) DepthFunc(Enum) { d.record("DepthFunc") }
func (d *fakeDriver) DepthMask(bool) { d.record("DepthMask") }
func (d *fakeDriver) Scissor(_, _, _, _ int32) { d.record("Scissor") }
func (d *fakeDriver) ClearColor(_, _, _, _ float32) { d.record("ClearColor") }
func (d *fakeDriver) Clear(Enum) { d.record("Clear") }
func (d *fakeDriver) LineWidth(float32) { d.record("LineWidth") }
func (d *fakeDriver) CreateTexture() uint32 { return d.handle("CreateTexture") }
func (d *fakeDriver) DeleteTexture(uint32) { d.record("DeleteTexture") }
func (d *fakeDriver) ActiveTexture(Enum) { d.record("ActiveTexture") }
func (d *fakeDriver) BindTexture(Enum, uint32) { d.record("BindTexture") }
func (d *fakeDriver) TexParameteri(_, _ Enum, _ int32) { d.record("TexParameteri") }
func (d *fakeDriver) GetTexParameteri(_, _ Enum) int32 { return 0 }
func (d *fakeDriver) PixelStorei(Enum, int32) { d.record("PixelStorei") }
func (d *fakeDriver) GenerateMipmap(Enum) { d.record("GenerateMipmap") }
func (d *fakeDriver) CreateFramebuffer() uint32 { return d.handle("CreateFramebuffer") }
func (d *fakeDriver) DeleteFramebuffer(uint32) { d.record("DeleteFramebuffer") }
func (d *fakeDriver) BindFramebuffer(Enum, uint32) { d.record("BindFramebuffer") }
func (d *fakeDriver) CheckFramebufferStatus(Enum) Enum { return d.fbStatus }
func (d *fakeDriver) CreateRenderbuffer() uint32 { return d.handle("CreateRenderbuffer") }
func (d *fakeDriver) DeleteRenderbuffer(uint32) { d.record("DeleteRenderbuffer") }
func (d *fakeDriver) BindRenderbuffer(Enum, uint32) { d.record("BindRenderbuffer") }
func (d *fakeDriver) RenderbufferStorage(_, _ Enum, _, _ int32) { d.record("RenderbufferStorage") }
func (d *fakeDriver) CreateBuffer() uint32 { return d.handle("CreateBuffer") }
func (d *fakeDriver) DeleteBuffer(uint32) { d.record("DeleteBuffer") }
func (d *fakeDriver) BindBuffer(Enum, uint32) { d.record("BindBuffer") }
func (d *fakeDriver) BufferAlloc(Enum, int, Enum) { d.record("BufferAlloc") }
func (d *fakeDriver) BufferFloat32(Enum, []float32, Enum) { d.record("BufferFloat32") }
func (d *fakeDriver) BufferUint16(Enum, []uint16, Enum) { d.record("BufferUint16") }
func (d *fakeDriver) BufferBytes(Enum, []byte, Enum) { d.record("BufferBytes") }
func (d *fakeDriver) CreateVertexArray() uint32 { return d.handle("CreateVertexArray") }
func (d *fakeDriver) DeleteVertexArray(uint32) { d.record("DeleteVertexArray") }
func (d *fakeDriver) BindVertexArray(uint32) { d.record("BindVertexArray") }
func (d *fakeDriver) EnableVertexAttribArray(uint32) { d.record("EnableVertexAttribArray") }
func (d *fakeDriver) DisableVertexAttribArray(uint32) { d.record("DisableVertexAttribArray") }
func (d *fakeDriver) VertexAttrib4f(_ uint32, x, y, z, w float32) {
	d.record("VertexAttrib4f")
	d.attrib = [4]float32{x, y, z, w}
}
func (d *fakeDriver) VertexAttribI4i(uint32, int32, int32, int32, int32) {
	d.record("VertexAttribI4i")
}
func (d *fakeDriver) VertexAttribI4ui(uint32, uint32, uint32, uint32, uint32) {
	d.record("VertexAttribI4ui")
}
func (d *fakeDriver) CreateShader(Enum) uint32 { return d.handle("CreateShader") }
func (d *fakeDriver) ShaderSource(uint32, string) { d.record("ShaderSource") }
func (d *fakeDriver) CompileShader(uint32) { d.record("CompileShader") }
func (d *fakeDriver) GetShaderi(uint32, Enum) int32 { return d.compileStatus }
func (d *fakeDriver) GetShaderInfoLog(uint32) string { return "0:1: syntax error" }
func (d *fakeDriver) DeleteShader(uint32) { d.record("DeleteShader") }
func (d *fakeDriver) CreateProgram() uint32 { return d.handle("CreateProgram") }
func (d *fakeDriver) AttachShader(_, _ uint32) { d.record("AttachShader") }
func (d *fakeDriver) DetachShader(_, _ uint32) { d.record("DetachShader") }
func (d *fakeDriver) LinkProgram(uint32) { d.record("LinkProgram") }
func (d *fakeDriver) GetProgrami(uint32, Enum) int32 { return d.linkStatus }
func (d *fakeDriver) GetProgramInfoLog(uint32) string { return "link failed" }
func (d *fakeDriver) DeleteProgram(uint32) { d.record("DeleteProgram") }
func (d *fakeDriver) UseProgram(uint32) { d.record("UseProgram") }
func (d *fakeDriver) BindAttribLocation(uint32, uint32, string) { d.record("BindAttribLocation") }

func (d *fakeDriver) GetTexLevelParameteri(Enum, int32, Enum) int32 { return 0 }

func (d *fakeDriver) TexImage2D(Enum, int32, int32, int32, int32, Enum, Enum, []byte) {
	d.record("TexImage2D")
}

func (d *fakeDriver) TexSubImage2D(Enum, int32, int32, int32, int32, int32, Enum, Enum, []byte) {
	d.record("TexSubImage2D")
}

func (d *fakeDriver) GetTexImage(_ Enum, _ int32, _, _ Enum, pixels []byte) bool {
	d.record("GetTexImage")
	for i := range pixels {
		pixels[i] = 0xff
	}
	return true
}

func (d *fakeDriver) ReadPixels(_, _, _, _ int32, _, _ Enum, pixels []byte) {
	d.record("ReadPixels")
	for i := range pixels {
		pixels[i] = byte(i)
	}
}

func (d *fakeDriver) FramebufferTexture2D(_, _, _ Enum, _ uint32, _ int32) {
	d.record("FramebufferTexture2D")
}

func (d *fakeDriver) FramebufferRenderbuffer(_, _, _ Enum, _ uint32) {
	d.record("FramebufferRenderbuffer")
}

func (d *fakeDriver) VertexAttribPointer(uint32, int32, Enum, bool, int32, int) {
	d.record("VertexAttribPointer")
}

func (d *fakeDriver) Viewport(x, y, w, h int32) {
	d.record("Viewport")
	d.viewport = [4]int32{x, y, w, h}
}

func (d *fakeDriver) DrawArrays(_ Enum, _, count int32) {
	d.record("DrawArrays")
	d.lastDrawCount = count
	d.scissorDraws = append(d.scissorDraws, d.scissor)
}

func (d *fakeDriver) DrawElements(_ Enum, count int32, _ Enum, _ int) {
	d.record("DrawElements")
	d.lastDrawCount = count
	d.scissorDraws = append(d.scissorDraws, d.scissor)
}

func (d *fakeDriver) GetUniformLocation(_ uint32, name string) int32 {
	d.record("GetUniformLocation")
	if loc, ok := d.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDriver) GetAttribLocation(_ uint32, name string) int32 {
	d.record("GetAttribLocation")
	switch name {
	case PositionAttribute:
		return 0
	case TexCoordAttribute:
		return 1
	case ColorAttribute:
		return 2
	}
	return -1
}

func (d *fakeDriver) Uniformiv(int32, int, []int32) {
	d.record("Uniformiv")
	d.uniformCalls = append(d.uniformCalls, "iv")
}

func (d *fakeDriver) Uniformuiv(int32, int, []uint32) {
	d.record("Uniformuiv")
	d.uniformCalls = append(d.uniformCalls, "uiv")
}

func (d *fakeDriver) Uniformfv(int32, int, []float32) {
	d.record("Uniformfv")
	d.uniformCalls = append(d.uniformCalls, "fv")
}

func (d *fakeDriver) UniformMatrixfv(int32, int, int, bool, []float32) {
	d.record("UniformMatrixfv")
}

// fakeWindows hands out windows of a fixed size.
type fakeWindows struct {
	w, h       int
	next       uint32
	hints      []ContextHints
	current    WindowID
	swaps      int
	interval   int
	fullscreen bool
	deleted    int
}

func newFakeWindows(w, h int) *fakeWindows { return &fakeWindows{w: w, h: h} }

func (f *fakeWindows) CreateWindow(_, _ int, hints ContextHints) (WindowID, error) {
	f.next++
	f.hints = append(f.hints, hints)
	return WindowID(f.next), nil
}

func (f *fakeWindows) DestroyWindow(WindowID) {}

func (f *fakeWindows) CreateContext(id WindowID, _ ContextHints) (ContextHandle, error) {
	f.current = id
	return ContextHandle(100 + id), nil
}

func (f *fakeWindows) DeleteContext(ContextHandle) { f.deleted++ }

func (f *fakeWindows) MakeCurrent(id WindowID, _ ContextHandle) error {
	f.current = id
	return nil
}

func (f *fakeWindows) SetSwapInterval(interval int) { f.interval = interval }
func (f *fakeWindows) SwapBuffers(WindowID) { f.swaps++ }
func (f *fakeWindows) WindowSize(WindowID) (int, int) { return f.w, f.h }
func (f *fakeWindows) DrawableSize(WindowID) (int, int) { return f.w, f.h }
func (f *fakeWindows) IsFullscreen(WindowID) bool { return f.fullscreen }

func (f *fakeWindows) SetWindowSize(_ WindowID, w, h int) bool {
	f.w, f.h = w, h
	return true
}

func (f *fakeWindows) SetFullscreen(_ WindowID, enable, _ bool) bool {
	f.fullscreen = enable
	return true
}

// testBackend reports every feature unless told otherwise.
type testBackend struct {
	id       RendererID
	features Feature
	legacy   bool
	shaders  bool
}

func newTestBackend() *testBackend {
	id, _ := BuiltinRendererID(RendererOpenGL3)
	return &testBackend{
		id:       id,
		features: FeatureAllBaseline | FeatureAllBlendPresets | FeatureBlendEquationsSeparate | FeatureAllGLFormats | FeatureAllShaders | FeatureNonPowerOfTwo | FeatureWrapRepeatMirrored,
		shaders:  true,
	}
}

func (b *testBackend) ID() RendererID { return b.id }
func (b *testBackend) ContextHints() ContextHints { return ContextHints{Title: "test"} }
func (b *testBackend) ShaderLanguage() ShaderLanguage { return LanguageGLSL }
func (b *testBackend) ShaderVersions() (int, int) { return 110, 330 }
func (b *testBackend) RequiredFeatures() Feature { return 0 }
func (b *testBackend) ProbeFeatures(DriverInfo) Feature {
	return b.features
}
func (b *testBackend) UserShaders() bool { return b.shaders }
func (b *testBackend) LegacyTextureEnable() bool { return b.legacy }

func (b *testBackend) DefaultShaders(int) (ShaderSource, ShaderSource) {
	return ShaderSource{Vertex: "textured vs", Fragment: "textured fs"},
		ShaderSource{Vertex: "untextured vs", Fragment: "untextured fs"}
}

type testRig struct {
	reg     *Registry
	r       *Renderer
	screen  *Target
	drv     *fakeDriver
	windows *fakeWindows
	backend *testBackend
}

// openTestRenderer registers the test backend and opens an 800x600 window
// target through the registry.
func openTestRenderer(t *testing.T, opts ...RendererOption) *testRig {
	t.Helper()
	rig := &testRig{
		reg:     NewRegistry(),
		drv:     newFakeDriver(),
		windows: newFakeWindows(800, 600),
		backend: newTestBackend(),
	}
	create := func(id RendererID) (*Renderer, error) {
		return NewRenderer(id, rig.backend, rig.drv, rig.windows, opts...), nil
	}
	require.NoError(t, rig.reg.RegisterRenderer(rig.backend.id, create, func(*Renderer) {}))

	screen, err := rig.reg.OpenRendererByID(rig.backend.id, 800, 600, 0)
	require.NoError(t, err)
	rig.screen = screen
	rig.r = rig.reg.CurrentRenderer()
	require.NotNil(t, rig.r)
	t.Cleanup(rig.reg.Shutdown)
	return rig
}
