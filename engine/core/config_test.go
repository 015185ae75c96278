package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig(`
[window]
title = "demo"
width = 800
`)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Window.VSync)
	assert.Equal(t, rhi.DefaultSpriteCapacity, cfg.Renderer.SpriteCapacity)
	assert.Equal(t, colors.RGBA(20, 26, 31, 255), cfg.ClearColor())
}

func TestParseConfigRendererSection(t *testing.T) {
	cfg, err := ParseConfig(`
[renderer]
order = ["gl3", "OpenGL 2", "opengles 2"]
required_features = ["render_targets", "basic_shaders"]
coordinate_mode = true
sprite_capacity = 250
double_buffer = false
compatibility_profile = true

[log]
level = "debug"
`)
	require.NoError(t, err)

	order, err := cfg.RendererOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, rhi.RendererOpenGL3, order[0].Renderer)
	assert.Equal(t, rhi.RendererOpenGL2, order[1].Renderer)
	assert.Equal(t, rhi.RendererGLES2, order[2].Renderer)

	f, err := cfg.RequiredFeatures()
	require.NoError(t, err)
	assert.Equal(t, rhi.FeatureRenderTargets|rhi.FeatureBasicShaders, f)

	flags := cfg.InitFlags()
	assert.NotZero(t, flags&rhi.InitEnableVSync)
	assert.NotZero(t, flags&rhi.InitDisableDoubleBuffer)
	assert.NotZero(t, flags&rhi.InitRequestCompatibilityProfile)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Len(t, cfg.RendererOptions(), 1)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown key", "[window]\ntitel = \"x\"\n", ErrUnknownKey},
		{"unknown section", "[audio]\nvolume = 3\n", ErrUnknownKey},
		{"unknown renderer", "[renderer]\norder = [\"vulkan\"]\n", ErrUnknownRenderer},
		{"unknown feature", "[renderer]\nrequired_features = [\"raytracing\"]\n", ErrUnknownFeature},
		{"bad size", "[window]\nwidth = 0\n", ErrInvalidConfig},
		{"bad level", "[log]\nlevel = \"loud\"\n", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.doc)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseConfig("[window\n")
	assert.Error(t, err)
}

func TestRegistryOptionsApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Renderer.Order = []string{"gles2"}
	cfg.Renderer.RequiredFeatures = []string{"render_targets"}
	opts, err := cfg.RegistryOptions()
	require.NoError(t, err)

	reg := rhi.NewRegistry(opts...)
	gles2, _ := rhi.BuiltinRendererID(rhi.RendererGLES2)
	assert.Equal(t, []rhi.RendererID{gles2}, reg.Order())
	assert.Equal(t, rhi.FeatureRenderTargets, reg.RequiredFeatures())

	opts, err = DefaultConfig().RegistryOptions()
	require.NoError(t, err)
	assert.Equal(t, rhi.DefaultOrder(), rhi.NewRegistry(opts...).Order())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nvsync = false\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Window.VSync)
	assert.NotZero(t, cfg.InitFlags()&rhi.InitDisableVSync)

	cfg, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, DefaultConfig(), cfg)
}
