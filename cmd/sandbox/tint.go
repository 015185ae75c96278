package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/hubastard/grove-rhi/engine/assets"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi/backend"
)

// tintShader is a user program whose sources live on disk and are rebuilt
// whenever one of them changes.
type tintShader struct {
	src     assets.Shaders
	watch   *assets.Watcher
	program uint32
	block   rhi.ShaderBlock
	time    int32
}

var errNoUserShaders = errors.New("renderer has no user shader support")

func newTintShader(r *rhi.Renderer, dir string) (*tintShader, error) {
	if !r.IsFeatureEnabled(rhi.FeatureBasicShaders) {
		return nil, errNoUserShaders
	}
	if _, ok := r.Backend().(*backend.GL); !ok {
		return nil, errNoUserShaders
	}
	t := &tintShader{src: assets.Shaders{FS: os.DirFS(dir)}}
	if err := t.build(r); err != nil {
		return nil, err
	}
	w, err := assets.Watch(dir)
	if err != nil {
		slog.Warn("shader hot reload disabled", "dir", dir, "error", err)
	} else {
		t.watch = w
	}
	return t, nil
}

func (t *tintShader) compile(r *rhi.Renderer, kind rhi.ShaderKind, name string) (uint32, error) {
	body, err := t.src.Load(name)
	if err != nil {
		return 0, err
	}
	_, hi := r.ShaderVersions()
	src := r.Backend().(*backend.GL).Prelude(kind, hi) + body
	s, err := r.CompileShader(kind, src)
	if err != nil {
		return 0, fmt.Errorf("%s: %w\n%s", name, err, r.ShaderMessage())
	}
	return s, nil
}

func (t *tintShader) build(r *rhi.Renderer) error {
	vs, err := t.compile(r, rhi.VertexShader, "tint.vert")
	if err != nil {
		return err
	}
	defer r.FreeShader(vs)
	fs, err := t.compile(r, rhi.FragmentShader, "tint.frag")
	if err != nil {
		return err
	}
	defer r.FreeShader(fs)
	p, err := r.LinkShaders(vs, fs)
	if err != nil {
		return fmt.Errorf("link tint: %w\n%s", err, r.ShaderMessage())
	}
	if t.program != 0 {
		r.FreeShaderProgram(t.program)
	}
	t.program = p
	t.block = r.LoadShaderBlock(p, rhi.PositionAttribute, rhi.TexCoordAttribute, rhi.ColorAttribute, rhi.MVPUniform)
	t.time = r.UniformLocation(p, "uTime")
	return nil
}

// reload rebuilds the program when a watched source changed. A failed
// rebuild keeps the previous program.
func (t *tintShader) reload(r *rhi.Renderer) {
	if t.watch == nil {
		return
	}
	changed := t.watch.Changed()
	if !slices.ContainsFunc(changed, isShaderSource) {
		return
	}
	if err := t.build(r); err != nil {
		slog.Warn("shader reload", "error", err)
		return
	}
	slog.Info("shader reloaded", "files", changed)
}

func isShaderSource(name string) bool {
	return name == "tint.vert" || name == "tint.frag" || name == "common.glsl"
}

// begin activates the program; end must follow.
func (t *tintShader) begin(r *rhi.Renderer, seconds float32) error {
	if err := r.ActivateShaderProgram(t.program, &t.block); err != nil {
		return err
	}
	r.SetUniformf(t.time, seconds)
	return nil
}

func (t *tintShader) end(r *rhi.Renderer) error {
	return r.DeactivateShaderProgram()
}

func (t *tintShader) free(r *rhi.Renderer) {
	if t.watch != nil {
		_ = t.watch.Close()
	}
	if t.program != 0 {
		r.FreeShaderProgram(t.program)
	}
}
