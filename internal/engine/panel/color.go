package panel

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Theme colors of the detail surface.
var (
	ColorSheet    = Color{1, 1, 1, 1}
	ColorAccent   = RGB(0x00, 0xC8, 0x96)
	ColorTitle    = RGB(0x1A, 0x1A, 0x1A)
	ColorText     = RGB(0x33, 0x33, 0x33)
	ColorTextDim  = RGB(0x8A, 0x8A, 0x8A)
	ColorDivider  = RGB(0xEE, 0xEE, 0xEE)
	ColorPill     = Color{0.15, 0.15, 0.15, 0.85}
	ColorPillText = RGB(0xA0, 0xA0, 0xA0)
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}
