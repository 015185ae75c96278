package rhi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
		es, ok       bool
	}{
		{"3.3.0 NVIDIA 535.54", 3, 3, false, true},
		{"4.6 (Core Profile) Mesa 23.1", 4, 6, false, true},
		{"2.1", 2, 1, false, true},
		{"OpenGL ES 3.2 Mesa 22.0", 3, 2, true, true},
		{"OpenGL ES-CM 1.1", 1, 1, true, true},
		{"OpenGL ES GLSL ES 3.00", 3, 0, true, true},
		{"", 0, 0, false, false},
		{"garbage", 0, 0, false, false},
		{"4", 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, es, ok := parseVersion(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.es, es)
			if tt.ok {
				assert.Equal(t, tt.major, major)
				assert.Equal(t, tt.minor, minor)
			}
		})
	}
}

func TestParseGLSL(t *testing.T) {
	assert.Equal(t, 460, parseGLSL("4.60 NVIDIA"))
	assert.Equal(t, 330, parseGLSL("3.30"))
	assert.Equal(t, 120, parseGLSL("1.2"))
	assert.Equal(t, 300, parseGLSL("OpenGL ES GLSL ES 3.00"))
	assert.Equal(t, 100, parseGLSL("OpenGL ES GLSL ES 1.00"))
	assert.Zero(t, parseGLSL("none"))
}

func TestDriverInfoFallsBackToRequestedVersion(t *testing.T) {
	drv := newFakeDriver()
	drv.version = "unknown"
	r := NewRenderer(MakeRendererID("gl", RendererOpenGL2, 2, 1), newTestBackend(), drv, newFakeWindows(1, 1))

	info, err := r.driverInfo()
	require.ErrorIs(t, err, errNoVersion)
	assert.Equal(t, 2, info.Major)
	assert.Equal(t, 1, info.Minor)
	assert.True(t, info.Extensions["GL_ARB_texture_non_power_of_two"])
}

func TestParseFeature(t *testing.T) {
	f, ok := ParseFeature("render_targets")
	assert.True(t, ok)
	assert.Equal(t, FeatureRenderTargets, f)

	f, ok = ParseFeature("basic_shaders")
	assert.True(t, ok)
	assert.Equal(t, FeatureBasicShaders, f)

	_, ok = ParseFeature("teleportation")
	assert.False(t, ok)
}
