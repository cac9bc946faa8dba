package colors

type Color [4]float32

var (
	White     = Color{1, 1, 1, 1}
	Red       = Color{1, 0, 0, 1}
	Green     = Color{0, 1, 0, 1}
	Blue      = Color{0, 0, 1, 1}
	Black     = Color{0, 0, 0, 1}
	Yellow    = Color{1, 1, 0, 1}
	Gray      = Color{0.5, 0.5, 0.5, 1}
	DarkGray  = Color{0.08, 0.10, 0.12, 1}
	Leaf      = Color{0.30, 0.68, 0.31, 1}
	Soil      = Color{0.35, 0.25, 0.18, 1}
	Amber     = Color{0.95, 0.70, 0.16, 1}
	SkyNight  = Color{0.06, 0.08, 0.14, 1}
	AlertRed  = Color{0.85, 0.20, 0.18, 1}
	PanelBlue = Color{0.12, 0.16, 0.24, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Scale multiplies RGB by f, leaving alpha untouched.
func (c Color) Scale(f float32) Color {
	c[0] *= f
	c[1] *= f
	c[2] *= f
	return c
}
