package ui

// Rect is an axis-aligned rectangle in screen space, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

func NewRect(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Empty() bool     { return r.W <= 0 || r.H <= 0 }
func (r Rect) Area() float32   { return r.W * r.H }
func (r Rect) Right() float32  { return r.X + r.W }
func (r Rect) Bottom() float32 { return r.Y + r.H }

func (r Rect) Center() (float32, float32) {
	return r.X + r.W*0.5, r.Y + r.H*0.5
}

// Expand grows the rectangle by m on every side. Negative m shrinks it.
func (r Rect) Expand(m float32) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}
