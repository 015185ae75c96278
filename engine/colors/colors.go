package colors

// Color is an 8-bit straight-alpha RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	White    = Color{255, 255, 255, 255}
	Red      = Color{255, 0, 0, 255}
	Green    = Color{0, 255, 0, 255}
	Blue     = Color{0, 0, 255, 255}
	Black    = Color{0, 0, 0, 255}
	Magenta  = Color{255, 0, 255, 255}
	Cyan     = Color{0, 255, 255, 255}
	Yellow   = Color{255, 255, 0, 255}
	Gray     = Color{128, 128, 128, 255}
	DarkGray = Color{20, 26, 31, 255}
)

func RGBA(r, g, b, a uint8) Color { return Color{r, g, b, a} }

func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Floats returns the components normalised to [0,1].
func (c Color) Floats() (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// Modulate multiplies two colors component-wise and returns the normalised result.
func (c Color) Modulate(o Color) (r, g, b, a float32) {
	return float32(c.R) / 255 * float32(o.R) / 255,
		float32(c.G) / 255 * float32(o.G) / 255,
		float32(c.B) / 255 * float32(o.B) / 255,
		float32(c.A) / 255 * float32(o.A) / 255
}

// Mix multiplies two colors component-wise, truncating back to 8 bits.
func (c Color) Mix(o Color) Color {
	r, g, b, a := c.Modulate(o)
	return Color{uint8(r * 255), uint8(g * 255), uint8(b * 255), uint8(a * 255)}
}
