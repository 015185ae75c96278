package rhi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileShaderFailureKeepsLog(t *testing.T) {
	rig := openTestRenderer(t)
	rig.drv.compileStatus = 0
	rig.drv.reset()

	_, err := rig.r.CompileShader(VertexShader, "void main() {")
	assert.ErrorIs(t, err, ErrData)
	assert.Equal(t, "0:1: syntax error", rig.r.ShaderMessage())
	assert.Equal(t, 1, rig.drv.count("DeleteShader"))
}

func TestCompileShaderRejectsEmptySource(t *testing.T) {
	rig := openTestRenderer(t)
	rig.drv.reset()
	_, err := rig.r.CompileShader(FragmentShader, "")
	assert.ErrorIs(t, err, ErrData)
	assert.Zero(t, rig.drv.count("CreateShader"))
}

func TestLinkAndActivateProgram(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r

	vs, err := r.CompileShader(VertexShader, "void main() {}")
	require.NoError(t, err)
	fs, err := r.CompileShader(FragmentShader, "void main() {}")
	require.NoError(t, err)
	p, err := r.LinkShaders(vs, fs)
	require.NoError(t, err)
	assert.False(t, r.IsDefaultShaderProgram(p))

	rig.drv.reset()
	require.NoError(t, r.ActivateShaderProgram(p, nil))
	assert.Equal(t, 1, rig.drv.count("UseProgram"))
	assert.Equal(t, p, rig.screen.Context().CurrentProgram())
	// Custom programs have no known attributes without a block.
	assert.Equal(t, emptyShaderBlock(), r.CurrentShaderBlock())

	rig.drv.reset()
	require.NoError(t, r.ActivateShaderProgram(p, nil))
	assert.Zero(t, rig.drv.count("UseProgram"))

	require.NoError(t, r.DeactivateShaderProgram())
	_, untextured := rig.screen.Context().DefaultPrograms()
	assert.Equal(t, untextured, rig.screen.Context().CurrentProgram())
	assert.Equal(t, ShaderBlock{PositionLoc: 0, TexCoordLoc: 1, ColorLoc: 2, MVPLoc: 0}, r.CurrentShaderBlock())
}

func TestActivateWithBlock(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	p, err := r.CreateShaderProgram()
	require.NoError(t, err)
	require.NoError(t, r.LinkShaderProgram(p))

	block := r.LoadShaderBlock(p, PositionAttribute, "", ColorAttribute, MVPUniform)
	assert.Equal(t, ShaderBlock{PositionLoc: 0, TexCoordLoc: -1, ColorLoc: 2, MVPLoc: 0}, block)
	require.NoError(t, r.ActivateShaderProgram(p, &block))
	assert.Equal(t, block, r.CurrentShaderBlock())
}

func TestLinkFailureDeletesProgram(t *testing.T) {
	rig := openTestRenderer(t)
	rig.drv.linkStatus = 0
	rig.drv.reset()

	_, err := rig.r.LinkShaders()
	assert.ErrorIs(t, err, ErrBackend)
	assert.Equal(t, "link failed", rig.r.ShaderMessage())
	assert.Equal(t, 1, rig.drv.count("DeleteProgram"))
}

func TestLocationsAreCached(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	p, err := r.CreateShaderProgram()
	require.NoError(t, err)

	rig.drv.reset()
	assert.Equal(t, int32(1), r.AttributeLocation(p, TexCoordAttribute))
	assert.Equal(t, int32(1), r.AttributeLocation(p, TexCoordAttribute))
	assert.Equal(t, int32(-1), r.AttributeLocation(p, "aMissing"))
	assert.Equal(t, 2, rig.drv.count("GetAttribLocation"))

	assert.Equal(t, int32(0), r.UniformLocation(p, MVPUniform))
	assert.Equal(t, int32(0), r.UniformLocation(p, MVPUniform))
	assert.Equal(t, 1, rig.drv.count("GetUniformLocation"))

	// Program 0 stands for the default textured program.
	textured, _ := rig.screen.Context().DefaultPrograms()
	assert.Equal(t, r.AttributeLocation(textured, ColorAttribute), r.AttributeLocation(0, ColorAttribute))
}

func TestShaderAPIUnavailable(t *testing.T) {
	rig := openTestRenderer(t)
	rig.backend.shaders = false

	_, err := rig.r.CompileShader(VertexShader, "void main() {}")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = rig.r.CreateShaderProgram()
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, rig.r.ActivateShaderProgram(0, nil), ErrUnsupported)
	assert.Equal(t, int32(-1), rig.r.AttributeLocation(0, PositionAttribute))
	assert.Equal(t, emptyShaderBlock(), rig.r.LoadShaderBlock(0, PositionAttribute, "", "", ""))
}

func TestGeometryShaderNeedsFeature(t *testing.T) {
	rig := openTestRenderer(t)
	rig.r.enabledFeatures &^= FeatureGeometryShader
	_, err := rig.r.CompileShader(GeometryShader, "void main() {}")
	assert.ErrorIs(t, err, ErrBackend)
	assert.Equal(t, "Failed to create geometry shader object.", rig.r.ShaderMessage())
}

func TestSetUniformMatrixDimensions(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	rig.drv.reset()

	assert.ErrorIs(t, r.SetUniformMatrixfv(0, 5, 4, false, make([]float32, 20)), ErrData)
	assert.ErrorIs(t, r.SetUniformMatrixfv(0, 4, 1, false, make([]float32, 4)), ErrData)
	assert.Zero(t, rig.drv.count("UniformMatrixfv"))

	require.NoError(t, r.SetUniformMatrixfv(0, 3, 3, false, make([]float32, 9)))
	assert.Equal(t, 1, rig.drv.count("UniformMatrixfv"))
}

func TestUniformSetters(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r
	rig.drv.reset()

	r.SetUniformi(0, 1)
	r.SetUniformui(0, 1)
	r.SetUniformf(0, 1)
	r.SetUniformfv(0, 5, make([]float32, 5))
	r.SetUniformiv(0, 2, []int32{1, 2})
	assert.Equal(t, []string{"iv", "uiv", "fv", "iv"}, rig.drv.uniformCalls)
}

func TestSetAttributeDefaults(t *testing.T) {
	rig := openTestRenderer(t)
	r := rig.r

	r.SetAttributefv(3, []float32{0.5, 0.25})
	assert.Equal(t, [4]float32{0.5, 0.25, 0, 1}, rig.drv.attrib)

	r.SetAttributef(3, 2)
	assert.Equal(t, [4]float32{2, 0, 0, 1}, rig.drv.attrib)

	rig.drv.reset()
	r.SetAttributefv(-1, []float32{1})
	r.SetAttributefv(3, make([]float32, 5))
	assert.Zero(t, rig.drv.count("VertexAttrib4f"))
}

func TestShaderImageBindsUnit(t *testing.T) {
	rig := openTestRenderer(t)
	img := newTestImage(t, rig.r, 4, 4)
	rig.drv.reset()

	rig.r.SetShaderImage(img, 5, 2)
	assert.Equal(t, 1, rig.drv.count("Uniformiv"))
	assert.Equal(t, 2, rig.drv.count("ActiveTexture"))
	assert.Equal(t, 1, rig.drv.count("BindTexture"))
}
