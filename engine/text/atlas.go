package text

import (
	"errors"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	atlasPadding   = 2
	atlasMinSize   = 128
	atlasMaxSize   = 4096
	firstPrintable = rune(32)
	lastLatin1     = rune(255)
)

var ErrAtlasTooLarge = errors.New("text: glyphs do not fit a 4096x4096 atlas")

// Glyph locates one rune in the atlas. Offsets are in pixels relative to the
// pen position on the baseline, Y down.
type Glyph struct {
	Advance  float32
	BearingX float32
	BearingY float32 // baseline to glyph top
	Src      image.Rectangle
}

// Atlas is the CPU side of a font: glyph metrics and the rasterised sheet.
// The sheet is white with coverage in alpha.
type Atlas struct {
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Sheet                    *image.NRGBA

	kern func(a, b rune) float32
}

// LineHeight is the baseline to baseline distance.
func (a *Atlas) LineHeight() float32 { return a.Ascent + a.Descent + a.LineGap }

type glyphBox struct {
	r      rune
	w, h   int
	adv    float32
	bx, by float32
}

// BuildAtlas rasterises the printable Latin-1 runes of face.
func BuildAtlas(face font.Face) (*Atlas, error) {
	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(m.Descent.Round())
	lineGap := max(float32(m.Height.Round())-ascent-descent, 0)

	boxes := make([]glyphBox, 0, lastLatin1-firstPrintable+1)
	for r := firstPrintable; r <= lastLatin1; r++ {
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		boxes = append(boxes, glyphBox{
			r:   r,
			w:   (b.Max.X - b.Min.X).Ceil(),
			h:   (b.Max.Y - b.Min.Y).Ceil(),
			adv: float32(adv.Round()),
			bx:  float32(b.Min.X.Floor()),
			by:  float32(-b.Min.Y.Floor()),
		})
	}

	var (
		pos  map[rune]image.Point
		size = atlasMinSize
	)
	for ; size <= atlasMaxSize; size *= 2 {
		if p, ok := shelfPack(boxes, size); ok {
			pos = p
			break
		}
	}
	if pos == nil {
		return nil, ErrAtlasTooLarge
	}

	sheet := image.NewNRGBA(image.Rect(0, 0, size, size))
	d := &font.Drawer{Dst: sheet, Src: image.White, Face: face}
	glyphs := make(map[rune]Glyph, len(boxes))
	for _, g := range boxes {
		p := pos[g.r]
		src := image.Rect(p.X, p.Y, p.X+g.w, p.Y+g.h)
		glyphs[g.r] = Glyph{Advance: g.adv, BearingX: g.bx, BearingY: g.by, Src: src}
		if src.Empty() {
			continue
		}
		// The dot sits on the baseline, BearingY below the glyph top.
		d.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
		d.DrawString(string(g.r))
	}

	return &Atlas{
		Ascent:  ascent,
		Descent: descent,
		LineGap: lineGap,
		Glyphs:  glyphs,
		Sheet:   sheet,
		kern: func(a, b rune) float32 {
			return float32(face.Kern(a, b).Round())
		},
	}, nil
}

// shelfPack places boxes left to right in rows. Empty glyphs get no space.
func shelfPack(boxes []glyphBox, size int) (map[rune]image.Point, bool) {
	pos := make(map[rune]image.Point, len(boxes))
	x, y, rowH := atlasPadding, atlasPadding, 0
	for _, g := range boxes {
		if g.w == 0 || g.h == 0 {
			pos[g.r] = image.Point{}
			continue
		}
		if x+g.w+atlasPadding > size {
			x = atlasPadding
			y += rowH + atlasPadding
			rowH = 0
		}
		if x+g.w+atlasPadding > size || y+g.h+atlasPadding > size {
			return nil, false
		}
		pos[g.r] = image.Pt(x, y)
		x += g.w + atlasPadding
		rowH = max(rowH, g.h)
	}
	return pos, true
}
