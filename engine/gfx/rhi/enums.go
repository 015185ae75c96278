package rhi

// RendererEnum identifies a renderer family.
type RendererEnum uint32

const (
	RendererUnknown RendererEnum = iota
	RendererOpenGL1Base
	RendererOpenGL1
	RendererOpenGL2
	RendererOpenGL3
	RendererOpenGL4
	RendererGLES1
	RendererGLES2
	RendererGLES3

	// RendererCustom0 is the first family handed out by ReserveNextRendererEnum.
	RendererCustom0 RendererEnum = 1000
)

func (e RendererEnum) String() string {
	switch e {
	case RendererUnknown:
		return "unknown"
	case RendererOpenGL1Base:
		return "OpenGL 1 BASE"
	case RendererOpenGL1:
		return "OpenGL 1"
	case RendererOpenGL2:
		return "OpenGL 2"
	case RendererOpenGL3:
		return "OpenGL 3"
	case RendererOpenGL4:
		return "OpenGL 4"
	case RendererGLES1:
		return "OpenGLES 1"
	case RendererGLES2:
		return "OpenGLES 2"
	case RendererGLES3:
		return "OpenGLES 3"
	}
	return "custom"
}

// Feature is a capability bit probed at context creation.
type Feature uint32

const (
	FeatureNonPowerOfTwo          Feature = 0x1
	FeatureRenderTargets          Feature = 0x2
	FeatureBlendEquations         Feature = 0x4
	FeatureBlendFuncSeparate      Feature = 0x8
	FeatureBlendEquationsSeparate Feature = 0x10
	FeatureGLBGR                  Feature = 0x20
	FeatureGLBGRA                 Feature = 0x40
	FeatureGLABGR                 Feature = 0x80
	FeatureVertexShader           Feature = 0x100
	FeatureFragmentShader         Feature = 0x200
	FeatureGeometryShader         Feature = 0x400
	FeatureWrapRepeatMirrored     Feature = 0x800
	FeatureCoreFramebufferObjects Feature = 0x1000
)

const (
	FeaturePixelShader     = FeatureFragmentShader
	FeatureAllBaseline     = FeatureRenderTargets | FeatureBlendEquations | FeatureBlendFuncSeparate
	FeatureAllBlendPresets = FeatureBlendEquations | FeatureBlendFuncSeparate
	FeatureAllGLFormats    = FeatureGLBGR | FeatureGLBGRA | FeatureGLABGR
	FeatureBasicShaders    = FeatureFragmentShader | FeatureVertexShader
	FeatureAllShaders      = FeatureFragmentShader | FeatureVertexShader | FeatureGeometryShader
)

var featureNames = map[string]Feature{
	"non_power_of_two":         FeatureNonPowerOfTwo,
	"render_targets":           FeatureRenderTargets,
	"blend_equations":          FeatureBlendEquations,
	"blend_func_separate":      FeatureBlendFuncSeparate,
	"blend_equations_separate": FeatureBlendEquationsSeparate,
	"gl_bgr":                   FeatureGLBGR,
	"gl_bgra":                  FeatureGLBGRA,
	"gl_abgr":                  FeatureGLABGR,
	"vertex_shader":            FeatureVertexShader,
	"fragment_shader":          FeatureFragmentShader,
	"geometry_shader":          FeatureGeometryShader,
	"wrap_repeat_mirrored":     FeatureWrapRepeatMirrored,
	"core_framebuffer_objects": FeatureCoreFramebufferObjects,
	"basic_shaders":            FeatureBasicShaders,
}

// ParseFeature maps a config name such as "render_targets" to its bit.
func ParseFeature(name string) (Feature, bool) {
	f, ok := featureNames[name]
	return f, ok
}

// InitFlags tune window creation in Init.
type InitFlags uint32

const (
	InitEnableVSync InitFlags = 1 << iota
	InitDisableVSync
	InitDisableDoubleBuffer
	InitDisableAutoVirtualResolution
	InitRequestCompatibilityProfile
	InitUseRowByRowTextureUploadFallback
	InitUseCopyTextureUploadFallback

	InitDefault InitFlags = 0
)

// BatchFlags describe the vertex layout handed to PrimitiveBatchV.
type BatchFlags uint32

const (
	BatchXY BatchFlags = 1 << iota
	BatchXYZ
	BatchST
	BatchRGB
	BatchRGBA
	BatchRGB8
	BatchRGBA8

	BatchXYST       = BatchXY | BatchST
	BatchXYRGB      = BatchXY | BatchRGB
	BatchXYRGBA     = BatchXY | BatchRGBA
	BatchXYSTRGBA   = BatchXY | BatchST | BatchRGBA
	BatchXYZST      = BatchXYZ | BatchST
	BatchXYZRGBA    = BatchXYZ | BatchRGBA
	BatchXYZSTRGBA  = BatchXYZ | BatchST | BatchRGBA
	BatchXYRGBA8    = BatchXY | BatchRGBA8
	BatchXYSTRGBA8  = BatchXY | BatchST | BatchRGBA8
	BatchXYZSTRGBA8 = BatchXYZ | BatchST | BatchRGBA8
)

// Comparison values match the GL depth function enums.
type Comparison uint32

const (
	CompareNever    Comparison = 0x0200
	CompareLess     Comparison = 0x0201
	CompareEqual    Comparison = 0x0202
	CompareLEqual   Comparison = 0x0203
	CompareGreater  Comparison = 0x0204
	CompareNotEqual Comparison = 0x0205
	CompareGEqual   Comparison = 0x0206
	CompareAlways   Comparison = 0x0207
)

// BlendFunc values match the GL blend factor enums.
type BlendFunc uint32

const (
	FuncZero             BlendFunc = 0
	FuncOne              BlendFunc = 1
	FuncSrcColor         BlendFunc = 0x0300
	FuncDstColor         BlendFunc = 0x0306
	FuncOneMinusSrc      BlendFunc = 0x0301
	FuncOneMinusDst      BlendFunc = 0x0307
	FuncSrcAlpha         BlendFunc = 0x0302
	FuncDstAlpha         BlendFunc = 0x0304
	FuncOneMinusSrcAlpha BlendFunc = 0x0303
	FuncOneMinusDstAlpha BlendFunc = 0x0305
)

// BlendEq values match the GL blend equation enums.
type BlendEq uint32

const (
	EqAdd             BlendEq = 0x8006
	EqSubtract        BlendEq = 0x800A
	EqReverseSubtract BlendEq = 0x800B
)

// BlendPreset names a canned BlendMode.
type BlendPreset int

const (
	BlendNormal BlendPreset = iota
	BlendPremultipliedAlpha
	BlendMultiply
	BlendAdd
	BlendSubtract
	BlendModAlpha
	BlendSetAlpha
	BlendSet
	BlendNormalKeepAlpha
	BlendNormalAddAlpha
	BlendNormalFactorAlpha
)

// BlendMode is the full separate blend state.
type BlendMode struct {
	SourceColor, DestColor BlendFunc
	SourceAlpha, DestAlpha BlendFunc
	ColorEquation          BlendEq
	AlphaEquation          BlendEq
}

// BlendModeFromPreset expands a preset. Unknown presets yield the normal mode
// and false.
func BlendModeFromPreset(p BlendPreset) (BlendMode, bool) {
	switch p {
	case BlendNormal:
		return BlendMode{FuncSrcAlpha, FuncOneMinusSrcAlpha, FuncSrcAlpha, FuncOneMinusSrcAlpha, EqAdd, EqAdd}, true
	case BlendPremultipliedAlpha:
		return BlendMode{FuncOne, FuncOneMinusSrcAlpha, FuncOne, FuncOneMinusSrcAlpha, EqAdd, EqAdd}, true
	case BlendMultiply:
		return BlendMode{FuncDstColor, FuncZero, FuncSrcAlpha, FuncOneMinusSrcAlpha, EqAdd, EqAdd}, true
	case BlendAdd:
		return BlendMode{FuncSrcAlpha, FuncOne, FuncSrcAlpha, FuncOne, EqAdd, EqAdd}, true
	case BlendSubtract:
		return BlendMode{FuncOne, FuncOne, FuncOne, FuncOne, EqSubtract, EqSubtract}, true
	case BlendModAlpha:
		return BlendMode{FuncZero, FuncOne, FuncZero, FuncSrcAlpha, EqAdd, EqAdd}, true
	case BlendSetAlpha:
		return BlendMode{FuncZero, FuncOne, FuncOne, FuncZero, EqAdd, EqAdd}, true
	case BlendSet:
		return BlendMode{FuncOne, FuncZero, FuncOne, FuncZero, EqAdd, EqAdd}, true
	case BlendNormalKeepAlpha:
		return BlendMode{FuncSrcAlpha, FuncOneMinusSrcAlpha, FuncZero, FuncOne, EqAdd, EqAdd}, true
	case BlendNormalAddAlpha:
		return BlendMode{FuncSrcAlpha, FuncOneMinusSrcAlpha, FuncOne, FuncOne, EqAdd, EqAdd}, true
	case BlendNormalFactorAlpha:
		return BlendMode{FuncSrcAlpha, FuncOneMinusSrcAlpha, FuncOneMinusDstAlpha, FuncOne, EqAdd, EqAdd}, true
	}
	m, _ := BlendModeFromPreset(BlendNormal)
	return m, false
}

// Filter selects texture sampling.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmap
)

// Snap selects pixel snapping for blits.
type Snap int

const (
	SnapNone Snap = iota
	SnapPosition
	SnapDimensions
	SnapPositionAndDimensions
)

// Wrap selects texture addressing outside [0,1].
type Wrap int

const (
	WrapNone Wrap = iota
	WrapRepeat
	WrapMirrored
)

// Format is an image pixel layout.
type Format int

const (
	FormatLuminance Format = iota + 1
	FormatLuminanceAlpha
	FormatRGB
	FormatRGBA
	FormatAlpha
	FormatRG
	FormatYCbCr422
	FormatYCbCr420P
	FormatBGR
	FormatBGRA
	FormatABGR
)

// BytesPerPixel reports the storage size of one pixel of the first layer, or 0
// for an unknown format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatLuminance, FormatAlpha, FormatYCbCr422, FormatYCbCr420P:
		return 1
	case FormatLuminanceAlpha, FormatRG:
		return 2
	case FormatRGB, FormatBGR:
		return 3
	case FormatRGBA, FormatBGRA, FormatABGR:
		return 4
	}
	return 0
}

// Layers reports the number of texture planes.
func (f Format) Layers() int {
	if f == FormatYCbCr420P {
		return 3
	}
	return 1
}

// Primitive is the GL draw mode of a batch.
type Primitive uint32

const (
	Points        Primitive = 0x0000
	Lines         Primitive = 0x0001
	LineLoop      Primitive = 0x0002
	LineStrip     Primitive = 0x0003
	Triangles     Primitive = 0x0004
	TriangleStrip Primitive = 0x0005
	TriangleFan   Primitive = 0x0006
)

// MatrixMode selects which of a target's stacks the matrix calls affect.
type MatrixMode int

const (
	Model MatrixMode = iota
	View
	Projection
)

// ShaderKind selects the pipeline stage of a shader object.
type ShaderKind int

const (
	VertexShader ShaderKind = iota
	FragmentShader
	GeometryShader
)

// ShaderLanguage identifies the dialect a renderer compiles.
type ShaderLanguage int

const (
	LanguageNone ShaderLanguage = iota
	LanguageARBAssembly
	LanguageGLSL
	LanguageGLSLES
	LanguageHLSL
	LanguageCg
)

// FlipMode mirrors a BlitRectX quad about its destination rectangle.
type FlipMode int

const (
	FlipNone       FlipMode = 0
	FlipHorizontal FlipMode = 1 << 0
	FlipVertical   FlipMode = 1 << 1
)
