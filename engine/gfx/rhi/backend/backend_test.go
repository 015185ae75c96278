package backend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

func TestBuiltinIDs(t *testing.T) {
	want := []rhi.RendererID{
		{Name: "OpenGL 1 BASE", Renderer: rhi.RendererOpenGL1Base, Major: 1, Minor: 1},
		{Name: "OpenGL 1", Renderer: rhi.RendererOpenGL1, Major: 1, Minor: 1},
		{Name: "OpenGL 2", Renderer: rhi.RendererOpenGL2, Major: 2, Minor: 0},
		{Name: "OpenGL 3", Renderer: rhi.RendererOpenGL3, Major: 3, Minor: 0},
		{Name: "OpenGL 4", Renderer: rhi.RendererOpenGL4, Major: 4, Minor: 0},
		{Name: "OpenGLES 1", Renderer: rhi.RendererGLES1, Major: 1, Minor: 1},
		{Name: "OpenGLES 2", Renderer: rhi.RendererGLES2, Major: 2, Minor: 0},
		{Name: "OpenGLES 3", Renderer: rhi.RendererGLES3, Major: 3, Minor: 0},
	}
	var got []rhi.RendererID
	for _, b := range Builtins() {
		got = append(got, b.ID())
	}
	assert.Equal(t, want, got)
}

func TestContextHints(t *testing.T) {
	assert.Equal(t, rhi.ProfileCore, OpenGL4().ContextHints().Profile)
	assert.True(t, OpenGL4().ContextHints().ForwardCompat)
	assert.Equal(t, rhi.ProfileAny, OpenGL3().ContextHints().Profile)
	for _, b := range []*GL{GLES1(), GLES2(), GLES3()} {
		assert.Equal(t, rhi.ProfileES, b.ContextHints().Profile, b.ID().Name)
		assert.True(t, b.ES())
	}
}

func TestShaderExposure(t *testing.T) {
	assert.False(t, OpenGL1Base().UserShaders())
	assert.False(t, OpenGL1().UserShaders())
	assert.False(t, GLES1().UserShaders())
	assert.True(t, OpenGL2().UserShaders())
	assert.True(t, GLES2().UserShaders())

	assert.True(t, OpenGL2().LegacyTextureEnable())
	assert.False(t, OpenGL3().LegacyTextureEnable())
	assert.False(t, GLES3().LegacyTextureEnable())
}

func info(major, minor int, exts ...string) rhi.DriverInfo {
	i := rhi.DriverInfo{Major: major, Minor: minor, Extensions: map[string]bool{}}
	for _, e := range exts {
		i.Extensions[e] = true
	}
	return i
}

func TestProbeDesktop(t *testing.T) {
	gl3 := OpenGL3().ProbeFeatures(info(3, 3))
	assert.Equal(t, gl3&(rhi.FeatureAllBaseline|rhi.FeatureAllShaders), rhi.FeatureAllBaseline|rhi.FeatureAllShaders)
	assert.NotZero(t, gl3&rhi.FeatureNonPowerOfTwo)
	assert.Zero(t, gl3&rhi.FeatureGLABGR)

	gl30 := OpenGL3().ProbeFeatures(info(3, 0))
	assert.Zero(t, gl30&rhi.FeatureGeometryShader)

	gl1 := OpenGL1().ProbeFeatures(info(1, 1))
	assert.Zero(t, gl1&rhi.FeatureRenderTargets)
	assert.Zero(t, gl1&rhi.FeatureBasicShaders)

	gl1 = OpenGL1().ProbeFeatures(info(1, 1, "GL_EXT_framebuffer_object", "GL_ARB_vertex_shader", "GL_ARB_fragment_shader"))
	assert.NotZero(t, gl1&rhi.FeatureRenderTargets)
	assert.Zero(t, gl1&rhi.FeatureCoreFramebufferObjects)
	assert.Equal(t, rhi.FeatureBasicShaders, gl1&rhi.FeatureBasicShaders)
}

func TestProbeGL1BaseOnlyTexturing(t *testing.T) {
	f := OpenGL1Base().ProbeFeatures(info(4, 6, "GL_EXT_framebuffer_object"))
	assert.Equal(t, rhi.FeatureNonPowerOfTwo, f)
}

func TestProbeES(t *testing.T) {
	es2 := GLES2().ProbeFeatures(info(2, 0))
	assert.Equal(t, rhi.FeatureBasicShaders, es2&rhi.FeatureBasicShaders)
	assert.NotZero(t, es2&rhi.FeatureRenderTargets)
	assert.Zero(t, es2&rhi.FeatureNonPowerOfTwo)
	assert.Zero(t, es2&rhi.FeatureGLBGRA)

	es2 = GLES2().ProbeFeatures(info(2, 0, "GL_OES_texture_npot", "GL_EXT_texture_format_BGRA8888"))
	assert.NotZero(t, es2&rhi.FeatureNonPowerOfTwo)
	assert.NotZero(t, es2&rhi.FeatureGLBGRA)

	es1 := GLES1().ProbeFeatures(info(1, 1))
	assert.Zero(t, es1&(rhi.FeatureRenderTargets|rhi.FeatureBasicShaders))

	es32 := GLES3().ProbeFeatures(info(3, 2))
	assert.NotZero(t, es32&rhi.FeatureGeometryShader)
}

func TestDefaultShaderDialects(t *testing.T) {
	tests := []struct {
		name       string
		b          *GL
		glsl       int
		header     string
		attribute  string
		texFunc    string
		fragOutput string
	}{
		{"gl2", OpenGL2(), 120, "#version 120", "attribute vec3 aPos;", "texture2D(", "gl_FragColor"},
		{"gl2 clamps", OpenGL2(), 460, "#version 120", "attribute vec3 aPos;", "texture2D(", "gl_FragColor"},
		{"gl3 130", OpenGL3(), 130, "#version 130", "in vec3 aPos;", "texture(", "out vec4 fragColor;"},
		{"gl3 core 150", OpenGL3(), 150, "#version 150", "in vec3 aPos;", "texture(", "out vec4 fragColor;"},
		{"gl3", OpenGL3(), 460, "#version 330 core", "in vec3 aPos;", "texture(", "out vec4 fragColor;"},
		{"gl4", OpenGL4(), 460, "#version 330 core", "in vec3 aPos;", "texture(", "out vec4 fragColor;"},
		{"es2", GLES2(), 300, "#version 100\nprecision mediump float;", "attribute vec3 aPos;", "texture2D(", "gl_FragColor"},
		{"es3", GLES3(), 300, "#version 300 es\nprecision mediump float;", "in vec3 aPos;", "texture(", "out vec4 fragColor;"},
		{"es3 newest", GLES3(), 320, "#version 320 es", "in vec3 aPos;", "texture(", "out vec4 fragColor;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			textured, untextured := tt.b.DefaultShaders(tt.glsl)
			assert.True(t, strings.HasPrefix(textured.Vertex, tt.header), textured.Vertex)
			assert.True(t, strings.HasPrefix(untextured.Fragment, tt.header), untextured.Fragment)
			assert.Contains(t, textured.Vertex, tt.attribute)
			assert.Contains(t, textured.Vertex, rhi.TexCoordAttribute)
			assert.NotContains(t, untextured.Vertex, rhi.TexCoordAttribute)
			assert.Contains(t, textured.Fragment, tt.texFunc)
			assert.NotContains(t, untextured.Fragment, "sampler2D")
			assert.Contains(t, untextured.Fragment, tt.fragOutput)
			assert.Contains(t, untextured.Vertex, "uniform mat4 "+rhi.MVPUniform+";")
		})
	}
}

func TestPrelude(t *testing.T) {
	vs := OpenGL3().Prelude(rhi.VertexShader, 330)
	assert.Equal(t, "#version 330 core\n#define ATTRIBUTE in\n#define VARYING out\n#define TEXTURE2D texture\n", vs)

	fs := OpenGL2().Prelude(rhi.FragmentShader, 120)
	assert.Equal(t, "#version 120\n#define VARYING varying\n#define FRAG_COLOR gl_FragColor\n#define TEXTURE2D texture2D\n", fs)

	fs = GLES3().Prelude(rhi.FragmentShader, 300)
	assert.True(t, strings.HasPrefix(fs, "#version 300 es\nprecision mediump float;\n"))
	assert.Contains(t, fs, "out vec4 fragColor;\n#define FRAG_COLOR fragColor\n")
}

func TestRegisterBuiltins(t *testing.T) {
	reg := rhi.NewRegistry()
	drivers := Drivers{Desktop: func() rhi.Driver { return nil }}
	n, err := RegisterBuiltins(reg, drivers, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, reg.NumRegisteredRenderers())
	assert.Equal(t, rhi.RendererID{}, reg.RendererID(rhi.RendererGLES2))

	id := reg.RendererID(rhi.RendererOpenGL4)
	r, err := reg.CreateRenderer(id)
	require.NoError(t, err)
	b, ok := r.Backend().(*GL)
	require.True(t, ok)
	assert.Equal(t, rhi.RendererOpenGL4, b.ID().Renderer)

	reg.FreeRenderer(r)
	assert.Zero(t, reg.NumActiveRenderers())
}

func TestRegisterBuiltinsTwiceReportsErrors(t *testing.T) {
	reg := rhi.NewRegistry()
	drivers := Drivers{
		Desktop: func() rhi.Driver { return nil },
		ES:      func() rhi.Driver { return nil },
	}
	n, err := RegisterBuiltins(reg, drivers, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	_, err = RegisterBuiltins(reg, drivers, nil)
	assert.ErrorIs(t, err, rhi.ErrUser)
	assert.Equal(t, rhi.MaxRegisteredRenderers, reg.NumRegisteredRenderers())
}

func TestRegisterWithoutDriver(t *testing.T) {
	assert.ErrorIs(t, Register(rhi.NewRegistry(), GLES2(), nil, nil), errNoDriver)
}
