package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloats(t *testing.T) {
	r, g, b, a := Color{255, 0, 51, 255}.Floats()
	assert.Equal(t, float32(1), r)
	assert.Equal(t, float32(0), g)
	assert.InDelta(t, 0.2, b, 1e-6)
	assert.Equal(t, float32(1), a)
}

func TestModulateWithWhiteKeepsColor(t *testing.T) {
	r, g, b, a := Red.Modulate(White)
	assert.Equal(t, float32(1), r)
	assert.Equal(t, float32(0), g)
	assert.Equal(t, float32(0), b)
	assert.Equal(t, float32(1), a)
}

func TestMix(t *testing.T) {
	assert.Equal(t, Black, White.Mix(Black))
	assert.Equal(t, Yellow, Yellow.Mix(White))
	assert.Equal(t, White, White.Mix(White))
}

func TestWithAlpha(t *testing.T) {
	c := Blue.WithAlpha(10)
	assert.Equal(t, uint8(10), c.A)
	assert.Equal(t, uint8(255), Blue.A)
}
