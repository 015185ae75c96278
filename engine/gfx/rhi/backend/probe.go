package backend

import (
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

func atLeast(info rhi.DriverInfo, major, minor int) bool {
	return info.Major > major || (info.Major == major && info.Minor >= minor)
}

func anyExtension(info rhi.DriverInfo, names ...string) bool {
	for _, n := range names {
		if info.Extensions[n] {
			return true
		}
	}
	return false
}

// feature returns f when core says it is part of the version or one of the
// extensions is advertised.
func feature(f rhi.Feature, core bool, info rhi.DriverInfo, exts ...string) rhi.Feature {
	if core || anyExtension(info, exts...) {
		return f
	}
	return 0
}

// probeGL1Base trusts nothing beyond plain 1.1 texturing.
func probeGL1Base(info rhi.DriverInfo) rhi.Feature {
	return feature(rhi.FeatureNonPowerOfTwo, atLeast(info, 2, 0), info, "GL_ARB_texture_non_power_of_two")
}

func probeDesktop(info rhi.DriverInfo) rhi.Feature {
	var f rhi.Feature
	f |= feature(rhi.FeatureNonPowerOfTwo, atLeast(info, 2, 0), info, "GL_ARB_texture_non_power_of_two")
	f |= feature(rhi.FeatureRenderTargets, atLeast(info, 3, 0), info,
		"GL_ARB_framebuffer_object", "GL_EXT_framebuffer_object")
	f |= feature(rhi.FeatureCoreFramebufferObjects, atLeast(info, 3, 0), info, "GL_ARB_framebuffer_object")
	f |= feature(rhi.FeatureBlendEquations, atLeast(info, 1, 4), info, "GL_EXT_blend_minmax", "GL_ARB_imaging")
	f |= feature(rhi.FeatureBlendFuncSeparate, atLeast(info, 1, 4), info, "GL_EXT_blend_func_separate")
	f |= feature(rhi.FeatureBlendEquationsSeparate, atLeast(info, 2, 0), info, "GL_EXT_blend_equation_separate")
	f |= feature(rhi.FeatureWrapRepeatMirrored, atLeast(info, 1, 4), info, "GL_ARB_texture_mirrored_repeat")
	f |= feature(rhi.FeatureGLBGR|rhi.FeatureGLBGRA, atLeast(info, 1, 2), info, "GL_EXT_bgra")
	f |= feature(rhi.FeatureGLABGR, false, info, "GL_EXT_abgr")
	f |= feature(rhi.FeatureBasicShaders, atLeast(info, 2, 0), info)
	if f&rhi.FeatureVertexShader == 0 && anyExtension(info, "GL_ARB_vertex_shader") && anyExtension(info, "GL_ARB_fragment_shader") {
		f |= rhi.FeatureBasicShaders
	}
	f |= feature(rhi.FeatureGeometryShader, atLeast(info, 3, 2), info, "GL_ARB_geometry_shader4")
	return f
}

func probeES(info rhi.DriverInfo) rhi.Feature {
	var f rhi.Feature
	es2 := atLeast(info, 2, 0)
	f |= feature(rhi.FeatureNonPowerOfTwo, atLeast(info, 3, 0), info,
		"GL_OES_texture_npot", "GL_ARB_texture_non_power_of_two")
	f |= feature(rhi.FeatureRenderTargets|rhi.FeatureCoreFramebufferObjects, es2, info, "GL_OES_framebuffer_object")
	f |= feature(rhi.FeatureBlendEquations, es2, info, "GL_OES_blend_subtract")
	f |= feature(rhi.FeatureBlendFuncSeparate, es2, info, "GL_OES_blend_func_separate")
	f |= feature(rhi.FeatureBlendEquationsSeparate, es2, info, "GL_OES_blend_equation_separate")
	f |= feature(rhi.FeatureWrapRepeatMirrored, es2, info, "GL_OES_texture_mirrored_repeat")
	f |= feature(rhi.FeatureGLBGRA, false, info, "GL_EXT_texture_format_BGRA8888", "GL_APPLE_texture_format_BGRA8888")
	f |= feature(rhi.FeatureBasicShaders, es2, info)
	f |= feature(rhi.FeatureGeometryShader, atLeast(info, 3, 2), info, "GL_EXT_geometry_shader", "GL_OES_geometry_shader")
	return f
}
