package model

// Color is a DeviceRGB colour with components in the range 0..1.
type Color struct {
	R, G, B float64
}

// Black is the initial fill and stroke colour of every page.
var Black = Color{}

// RGB returns a colour from red, green and blue components in 0..1.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Gray returns a neutral colour with all components set to v.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v}
}

// IsValid reports whether every component lies in 0..1. NaN is invalid.
func (c Color) IsValid() bool {
	return inUnitRange(c.R) && inUnitRange(c.G) && inUnitRange(c.B)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
