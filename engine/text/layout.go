package text

// Layout walks s and reports every visible glyph with the top-left corner of
// its quad. (x, y) is the top-left of the first line. Runes without a glyph
// advance by the width of a space.
func (a *Atlas) Layout(s string, x, y float32, emit func(g Glyph, gx, gy float32)) {
	penX, baseY := x, y+a.Ascent
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += a.LineHeight()
			prev = -1
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			penX += a.Glyphs[' '].Advance
			prev = -1
			continue
		}
		if prev >= 0 && a.kern != nil {
			penX += a.kern(prev, r)
		}
		if !g.Src.Empty() && emit != nil {
			emit(g, penX+g.BearingX, baseY-g.BearingY)
		}
		penX += g.Advance
		prev = r
	}
}

// Measure returns the size of the box Layout fills for s.
func (a *Atlas) Measure(s string) (w, h float32) {
	var lineW float32
	lines := 1
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			w = max(w, lineW)
			lineW = 0
			lines++
			prev = -1
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			lineW += a.Glyphs[' '].Advance
			prev = -1
			continue
		}
		if prev >= 0 && a.kern != nil {
			lineW += a.kern(prev, r)
		}
		lineW += g.Advance
		prev = r
	}
	w = max(w, lineW)
	h = a.Ascent + a.Descent + float32(lines-1)*a.LineHeight()
	return w, h
}
