// Package physics provides axis-aligned box collision and coordinate scaling.
package physics

// Rect is an axis-aligned box in pixels. X and Y are the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Centered returns a box of the given size centered on (cx, cy).
func Centered(cx, cy, width, height float64) Rect {
	return Rect{X: cx - width/2, Y: cy - height/2, Width: width, Height: height}
}

// Square returns a box with half-extent r centered on (cx, cy).
func Square(cx, cy, r float64) Rect {
	return Rect{X: cx - r, Y: cy - r, Width: 2 * r, Height: 2 * r}
}

// Intersects reports whether two boxes overlap. Boxes that only touch
// along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width &&
		r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height &&
		r.Y+r.Height > o.Y
}

// CenterX returns the horizontal center of the box.
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// Bottom returns the bottom edge of the box.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// ToPixels converts a normalized coordinate to pixels along an axis of
// the given size.
func ToPixels(normalized, size float64) float64 {
	return normalized * size
}

// ToNormalized converts a pixel coordinate to a fraction of size. A zero
// size maps everything to 0.
func ToNormalized(px, size float64) float64 {
	if size == 0 {
		return 0
	}
	return px / size
}

// Clamp limits v to [lo, hi]. If lo > hi the midpoint is returned.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
