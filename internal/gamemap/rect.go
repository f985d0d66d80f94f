package gamemap

// Rect is an axis-aligned rectangle used for rooms. X2/Y2 are one past the
// carved interior, matching the (x, y, width, height) constructor.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// NewRect builds a Rect from its top-left corner and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Center returns the center point of the rectangle, rounding halves up.
func (r Rect) Center() (int, int) {
	return roundHalf(r.X1 + r.X2), roundHalf(r.Y1 + r.Y2)
}

// Intersects reports whether r overlaps other (inclusive edges).
func (r Rect) Intersects(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 &&
		r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}

// roundHalf returns round(sum/2) with .5 rounded toward +inf.
func roundHalf(sum int) int {
	if sum >= 0 {
		return (sum + 1) / 2
	}
	return -((-sum) / 2)
}
