// Package backend holds the built-in renderer families. Each one only
// describes its API version: context hints, shader dialect and feature
// probing. Everything else is shared by rhi.Renderer.
package backend

import (
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// GL is a built-in OpenGL or OpenGL ES renderer family.
type GL struct {
	id            rhi.RendererID
	hints         rhi.ContextHints
	language      rhi.ShaderLanguage
	minGLSL       int
	maxGLSL       int
	required      rhi.Feature
	userShaders   bool
	legacyTexture bool
	probe         func(info rhi.DriverInfo) rhi.Feature
}

var _ rhi.RendererBackend = (*GL)(nil)

func builtin(e rhi.RendererEnum) rhi.RendererID {
	id, _ := rhi.BuiltinRendererID(e)
	return id
}

var defaultHints = rhi.ContextHints{
	Title:          "grove-rhi",
	Resizable:      true,
	InitiallyShown: true,
}

func desktopHints(profile rhi.Profile, forwardCompat bool) rhi.ContextHints {
	h := defaultHints
	h.Profile = profile
	h.ForwardCompat = forwardCompat
	return h
}

func esHints() rhi.ContextHints {
	h := defaultHints
	h.Profile = rhi.ProfileES
	return h
}

// OpenGL1Base is fixed function OpenGL 1.1 without any extension probing.
func OpenGL1Base() *GL {
	return &GL{
		id:            builtin(rhi.RendererOpenGL1Base),
		hints:         desktopHints(rhi.ProfileAny, false),
		language:      rhi.LanguageGLSL,
		minGLSL:       110,
		maxGLSL:       110,
		legacyTexture: true,
		probe:         probeGL1Base,
	}
}

// OpenGL1 is OpenGL 1.1 with the framebuffer and blending extensions.
func OpenGL1() *GL {
	return &GL{
		id:            builtin(rhi.RendererOpenGL1),
		hints:         desktopHints(rhi.ProfileAny, false),
		language:      rhi.LanguageGLSL,
		minGLSL:       110,
		maxGLSL:       120,
		legacyTexture: true,
		probe:         probeDesktop,
	}
}

func OpenGL2() *GL {
	return &GL{
		id:            builtin(rhi.RendererOpenGL2),
		hints:         desktopHints(rhi.ProfileAny, false),
		language:      rhi.LanguageGLSL,
		minGLSL:       110,
		maxGLSL:       120,
		required:      rhi.FeatureBasicShaders,
		userShaders:   true,
		legacyTexture: true,
		probe:         probeDesktop,
	}
}

// OpenGL3 asks for a 3.0 context. Drivers handing out 3.2 or newer get a
// core profile.
func OpenGL3() *GL {
	return &GL{
		id:          builtin(rhi.RendererOpenGL3),
		hints:       desktopHints(rhi.ProfileAny, false),
		language:    rhi.LanguageGLSL,
		minGLSL:     130,
		maxGLSL:     330,
		required:    rhi.FeatureBasicShaders | rhi.FeatureRenderTargets,
		userShaders: true,
		probe:       probeDesktop,
	}
}

func OpenGL4() *GL {
	return &GL{
		id:          builtin(rhi.RendererOpenGL4),
		hints:       desktopHints(rhi.ProfileCore, true),
		language:    rhi.LanguageGLSL,
		minGLSL:     400,
		maxGLSL:     460,
		required:    rhi.FeatureBasicShaders | rhi.FeatureRenderTargets,
		userShaders: true,
		probe:       probeDesktop,
	}
}

// GLES1 has no programmable pipeline of its own; the built-in programs are
// compiled as GLSL ES 1.00.
func GLES1() *GL {
	return &GL{
		id:            builtin(rhi.RendererGLES1),
		hints:         esHints(),
		language:      rhi.LanguageGLSLES,
		minGLSL:       100,
		maxGLSL:       100,
		legacyTexture: true,
		probe:         probeES,
	}
}

func GLES2() *GL {
	return &GL{
		id:          builtin(rhi.RendererGLES2),
		hints:       esHints(),
		language:    rhi.LanguageGLSLES,
		minGLSL:     100,
		maxGLSL:     100,
		required:    rhi.FeatureBasicShaders,
		userShaders: true,
		probe:       probeES,
	}
}

func GLES3() *GL {
	return &GL{
		id:          builtin(rhi.RendererGLES3),
		hints:       esHints(),
		language:    rhi.LanguageGLSLES,
		minGLSL:     100,
		maxGLSL:     320,
		required:    rhi.FeatureBasicShaders | rhi.FeatureRenderTargets,
		userShaders: true,
		probe:       probeES,
	}
}

// Builtins returns every built-in family, desktop first.
func Builtins() []*GL {
	return []*GL{
		OpenGL1Base(), OpenGL1(), OpenGL2(), OpenGL3(), OpenGL4(),
		GLES1(), GLES2(), GLES3(),
	}
}

func (b *GL) ID() rhi.RendererID                 { return b.id }
func (b *GL) ContextHints() rhi.ContextHints     { return b.hints }
func (b *GL) ShaderLanguage() rhi.ShaderLanguage { return b.language }
func (b *GL) ShaderVersions() (min, max int)     { return b.minGLSL, b.maxGLSL }
func (b *GL) RequiredFeatures() rhi.Feature      { return b.required }
func (b *GL) UserShaders() bool                  { return b.userShaders }
func (b *GL) LegacyTextureEnable() bool          { return b.legacyTexture }

// ES reports whether the family runs on OpenGL ES.
func (b *GL) ES() bool { return b.language == rhi.LanguageGLSLES }

func (b *GL) ProbeFeatures(info rhi.DriverInfo) rhi.Feature { return b.probe(info) }

// DefaultShaders picks the newest dialect both the backend and the driver
// understand.
func (b *GL) DefaultShaders(glsl int) (textured, untextured rhi.ShaderSource) {
	d := b.dialect(glsl)
	return d.textured(), d.untextured()
}

// Prelude is the version line plus macros that let one shader body compile
// under every dialect of the backend: ATTRIBUTE and VARYING for the storage
// qualifiers, FRAG_COLOR for the fragment output and TEXTURE2D for sampling.
func (b *GL) Prelude(kind rhi.ShaderKind, glsl int) string {
	return b.dialect(glsl).prelude(kind)
}

func (b *GL) dialect(glsl int) dialect {
	return pickDialect(b.ES(), min(max(glsl, b.minGLSL), b.maxGLSL))
}
