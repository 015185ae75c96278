package ui

import (
	"strings"

	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/text"
)

// UILabel is a block of text, optionally word wrapped to the available width.
type UILabel struct {
	Common[*UILabel]
	text     string
	font     *text.Font
	wrap     bool
	maxWidth float32
	lines    string
}

func Label(s string) *UILabel {
	l := &UILabel{text: s}
	l.Common = newCommon(l)
	l.base.color = colors.White
	return l
}

func (l *UILabel) Font(f *text.Font) *UILabel { l.font = f; return l }
func (l *UILabel) Wrap(enabled bool) *UILabel { l.wrap = enabled; return l }

// MaxWidth caps the label width and turns wrapping on.
func (l *UILabel) MaxWidth(w float32) *UILabel {
	l.maxWidth = w
	l.wrap = w > 0
	return l
}

func (l *UILabel) fontFor(ctx *Context) *text.Font {
	if l.font != nil {
		return l.font
	}
	return ctx.Font
}

func (l *UILabel) Layout(ctx *Context, c Constraints) [2]float32 {
	b := &l.base
	f := l.fontFor(ctx)
	if f == nil {
		b.size = [2]float32{}
		return b.size
	}

	limit := float32(0)
	if c.Max[0] > 0 {
		limit = c.Max[0]
	}
	if l.maxWidth > 0 && (limit == 0 || l.maxWidth < limit) {
		limit = l.maxWidth
	}
	if limit > 0 {
		limit = max(0, limit-b.padAxis(0))
	}

	l.lines = l.text
	if l.wrap && limit > 0 {
		l.lines = wrapText(f.Atlas, l.text, limit)
	}
	var w, h float32
	if l.lines != "" {
		w, h = f.Measure(l.lines)
	}
	b.size[0] = b.resolve(0, w+b.padAxis(0), c)
	b.size[1] = b.resolve(1, h+b.padAxis(1), c)
	return b.size
}

func (l *UILabel) Draw(ctx *Context, originX, originY float32) error {
	f := l.fontFor(ctx)
	if l.lines == "" || f == nil || l.base.color.A == 0 {
		return nil
	}
	x := originX + l.base.pos[0] + l.base.padding[0]
	y := originY + l.base.pos[1] + l.base.padding[1]
	return f.Draw(ctx.Target, x, y, l.lines, l.base.color)
}

// wrapText breaks s at spaces so no line is wider than limit. Words wider
// than limit get a line of their own.
func wrapText(a *text.Atlas, s string, limit float32) string {
	space, _ := a.Measure(" ")
	var out []string
	for _, raw := range strings.Split(s, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		width, _ := a.Measure(line)
		for _, word := range words[1:] {
			ww, _ := a.Measure(word)
			if width+space+ww > limit {
				out = append(out, line)
				line, width = word, ww
				continue
			}
			line += " " + word
			width += space + ww
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
