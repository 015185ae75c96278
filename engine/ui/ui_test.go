package ui

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubastard/grove-rhi/engine/text"
)

// Every glyph is 10 px wide; lines are 20 px tall.
func monoFont() *text.Font {
	glyphs := map[rune]text.Glyph{' ': {Advance: 10}}
	for r := 'a'; r <= 'z'; r++ {
		glyphs[r] = text.Glyph{Advance: 10, BearingY: 12, Src: image.Rect(0, 0, 8, 12)}
	}
	return &text.Font{Atlas: &text.Atlas{Ascent: 16, Descent: 4, Glyphs: glyphs}}
}

func TestLabelMeasures(t *testing.T) {
	ctx := &Context{Font: monoFont()}
	l := Label("abc").Padding(2)
	assert.Equal(t, [2]float32{34, 24}, l.Layout(ctx, Constraints{}))
}

func TestLabelWraps(t *testing.T) {
	ctx := &Context{Font: monoFont()}
	l := Label("aaa bbb cc").MaxWidth(75)
	size := l.Layout(ctx, Constraints{})
	assert.Equal(t, "aaa bbb\ncc", l.lines)
	assert.Equal(t, [2]float32{70, 40}, size)

	l = Label("aaa bbb cc").Wrap(true)
	l.Layout(ctx, Constraints{Max: [2]float32{35, 0}})
	assert.Equal(t, "aaa\nbbb\ncc", l.lines)
}

func TestLabelWithoutFont(t *testing.T) {
	l := Label("abc")
	assert.Equal(t, [2]float32{}, l.Layout(&Context{}, Constraints{}))
	assert.NoError(t, l.Draw(&Context{}, 0, 0))
}

func TestVerticalViewStacksChildren(t *testing.T) {
	ctx := &Context{Font: monoFont()}
	a, b := Label("ab"), Label("abcd")
	v := View(a, b).FlowDirection(LayoutVertical).Gap(5).Padding(10)

	assert.Equal(t, [2]float32{60, 65}, v.Layout(ctx, Constraints{}))
	x, y := a.Node().Pos()
	assert.Equal(t, [2]float32{10, 10}, [2]float32{x, y})
	x, y = b.Node().Pos()
	assert.Equal(t, [2]float32{10, 35}, [2]float32{x, y})
	assert.Same(t, v, a.Node().parent)
}

func TestViewAlignment(t *testing.T) {
	ctx := &Context{Font: monoFont()}
	a, b := Label("ab"), Label("abcd")
	v := View(a, b).FlowDirection(LayoutVertical).Gap(0).
		AlignCross(AlignCenter).AlignMain(AlignEnd).
		WidthFixed(100).HeightFixed(100)

	v.Layout(ctx, Constraints{})
	x, y := a.Node().Pos()
	assert.Equal(t, [2]float32{40, 60}, [2]float32{x, y})
	x, y = b.Node().Pos()
	assert.Equal(t, [2]float32{30, 80}, [2]float32{x, y})

	v.AlignCross(AlignStretch)
	v.Layout(ctx, Constraints{})
	w, _ := a.Node().Size()
	assert.Equal(t, float32(100), w)
}

func TestViewExpandSharesFreeSpace(t *testing.T) {
	ctx := &Context{Font: monoFont()}
	a, b := Label("ab"), Label("ab").WidthExpand()
	v := View(a, b).Gap(0).WidthFixed(200)

	v.Layout(ctx, Constraints{})
	w, _ := b.Node().Size()
	assert.Equal(t, float32(180), w)
	x, _ := b.Node().Pos()
	assert.Equal(t, float32(20), x)
}

func TestNestedViewPositionsAreRelative(t *testing.T) {
	ctx := &Context{Font: monoFont()}
	leaf := Label("a")
	inner := View(leaf).Padding(3)
	outer := View(Label("abc"), inner).Gap(0).Padding(5)

	outer.Layout(ctx, Constraints{})
	x, y := inner.Node().Pos()
	assert.Equal(t, [2]float32{35, 5}, [2]float32{x, y})
	x, y = leaf.Node().Pos()
	assert.Equal(t, [2]float32{3, 3}, [2]float32{x, y})
}
