package text

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type placed struct {
	x, y float32
}

func handAtlas() *Atlas {
	return &Atlas{
		Ascent: 10, Descent: 2, LineGap: 1,
		Glyphs: map[rune]Glyph{
			'a': {Advance: 5, BearingX: 1, BearingY: 8, Src: image.Rect(0, 0, 4, 8)},
			' ': {Advance: 3},
		},
	}
}

func TestLayoutPlacesGlyphs(t *testing.T) {
	var got []placed
	handAtlas().Layout("a a\na", 0, 0, func(_ Glyph, x, y float32) {
		got = append(got, placed{x, y})
	})
	assert.Equal(t, []placed{{1, 2}, {9, 2}, {1, 15}}, got)
}

func TestLayoutUnknownRuneAdvancesBySpace(t *testing.T) {
	var got []placed
	handAtlas().Layout("a中a", 100, 50, func(_ Glyph, x, y float32) {
		got = append(got, placed{x, y})
	})
	assert.Equal(t, []placed{{101, 52}, {109, 52}}, got)
}

func TestMeasure(t *testing.T) {
	w, h := handAtlas().Measure("a a\na")
	assert.Equal(t, float32(13), w)
	assert.Equal(t, float32(25), h)

	w, h = handAtlas().Measure("")
	assert.Zero(t, w)
	assert.Equal(t, float32(12), h)
}

func goFace(t *testing.T, size float64) font.Face {
	t.Helper()
	ft, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	require.NoError(t, err)
	t.Cleanup(func() { _ = face.Close() })
	return face
}

func TestBuildAtlasRasterisesGlyphs(t *testing.T) {
	a, err := BuildAtlas(goFace(t, 16))
	require.NoError(t, err)

	assert.Positive(t, a.Ascent)
	assert.Positive(t, a.Descent)
	assert.GreaterOrEqual(t, a.LineHeight(), a.Ascent+a.Descent)

	space, ok := a.Glyphs[' ']
	require.True(t, ok)
	assert.True(t, space.Src.Empty())
	assert.Positive(t, space.Advance)

	g, ok := a.Glyphs['A']
	require.True(t, ok)
	require.False(t, g.Src.Empty())
	assert.True(t, g.Src.In(a.Sheet.Bounds()))

	var coverage int
	for y := g.Src.Min.Y; y < g.Src.Max.Y; y++ {
		for x := g.Src.Min.X; x < g.Src.Max.X; x++ {
			if a.Sheet.NRGBAAt(x, y).A > 0 {
				coverage++
			}
		}
	}
	assert.Positive(t, coverage)
}

func TestBuildAtlasGlyphsDoNotOverlap(t *testing.T) {
	a, err := BuildAtlas(goFace(t, 24))
	require.NoError(t, err)

	var rects []image.Rectangle
	for _, g := range a.Glyphs {
		if !g.Src.Empty() {
			rects = append(rects, g.Src)
		}
	}
	require.NotEmpty(t, rects)
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, rects[i].Overlaps(rects[j]), "%v overlaps %v", rects[i], rects[j])
		}
	}
}

func TestShelfPackGrows(t *testing.T) {
	boxes := []glyphBox{{r: 'a', w: 100, h: 100}, {r: 'b', w: 100, h: 100}}
	_, ok := shelfPack(boxes, 128)
	assert.False(t, ok)
	pos, ok := shelfPack(boxes, 256)
	require.True(t, ok)
	assert.Equal(t, image.Pt(2, 2), pos['a'])
	assert.Equal(t, image.Pt(104, 2), pos['b'])
}
