package assets

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

func TestStripComments(t *testing.T) {
	src := "a // tail\nb /* one\ntwo */c\n/* open"
	assert.Equal(t, "a \nb \nc\n", StripComments(src))
}

func TestShadersExpandIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/main.frag": {Data: []byte("#version 330 core\n#include \"lib/light.glsl\"\nvoid main() {} // entry\n")},
		"shaders/lib/light.glsl": {Data: []byte("#include <util.glsl>\nfloat light();\n")},
		"shaders/lib/util.glsl":  {Data: []byte("/* helpers */float util();")},
	}
	src, err := Shaders{FS: fsys}.Load("shaders/main.frag")
	require.NoError(t, err)
	assert.Equal(t, "#version 330 core\nfloat util();\nfloat light();\nvoid main() {} \n", src)
}

func TestShadersErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"a.glsl":   {Data: []byte("#include \"b.glsl\"\n")},
		"b.glsl":   {Data: []byte("#include \"a.glsl\"\n")},
		"bad.glsl": {Data: []byte("#include b.glsl\n")},
		"gone.glsl": {Data: []byte("#include \"missing.glsl\"\n")},
	}
	s := Shaders{FS: fsys}

	_, err := s.Load("a.glsl")
	assert.ErrorIs(t, err, ErrIncludeCycle)
	_, err = s.Load("bad.glsl")
	assert.ErrorIs(t, err, ErrBadIncludeLine)
	_, err = s.Load("gone.glsl")
	assert.ErrorIs(t, err, rhi.ErrFileNotFound)
}

func TestShadersProgramInsertsCommon(t *testing.T) {
	fsys := fstest.MapFS{
		"v.glsl":      {Data: []byte("#version 120\nvoid main() {}\n")},
		"f.glsl":      {Data: []byte("#version 120\nvoid main() {}\n")},
		"common.glsl": {Data: []byte("uniform float uTime;")},
		"nover.glsl":  {Data: []byte("void main() {}\n")},
	}
	s := Shaders{FS: fsys}

	src, err := s.Program("v.glsl", "f.glsl", "common.glsl")
	require.NoError(t, err)
	want := "#version 120\nuniform float uTime;\nvoid main() {}\n"
	assert.Equal(t, rhi.ShaderSource{Vertex: want, Fragment: want}, src)

	_, err = s.Program("v.glsl", "nover.glsl", "common.glsl")
	assert.ErrorIs(t, err, ErrNoVersion)

	src, err = s.Program("v.glsl", "nover.glsl", "")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", src.Fragment)
}

func TestInsertAfterVersionUnterminated(t *testing.T) {
	_, err := InsertAfterVersion("#version 330", "x")
	assert.ErrorIs(t, err, ErrNoVersion)
}
