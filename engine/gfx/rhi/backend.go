package rhi

// DriverInfo is what a backend probes features from.
type DriverInfo struct {
	Version     string
	GLSLVersion string
	Major       int
	Minor       int
	GLSL        int
	ES          bool
	Extensions  map[string]bool
}

// ShaderSource is a vertex/fragment pair.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// RendererBackend carries what differs between graphics API versions. The
// drawing, resource and state logic is shared by every backend.
type RendererBackend interface {
	ID() RendererID
	ContextHints() ContextHints
	ShaderLanguage() ShaderLanguage
	// ShaderVersions reports the supported GLSL range, e.g. 110..330.
	ShaderVersions() (min, max int)
	// RequiredFeatures are features the backend cannot run without.
	RequiredFeatures() Feature
	ProbeFeatures(info DriverInfo) Feature
	// DefaultShaders returns the built-in programs for the probed GLSL version.
	DefaultShaders(glsl int) (textured, untextured ShaderSource)
	// UserShaders reports whether the shader API is exposed to callers.
	UserShaders() bool
	// LegacyTextureEnable reports whether GL_TEXTURE_2D is toggled with
	// Enable/Disable, which core profiles reject.
	LegacyTextureEnable() bool
}
