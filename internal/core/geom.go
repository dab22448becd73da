// Package core provides the terminal-independent building blocks shared by the
// game and the platform layer: a colored cell buffer and a little geometry.
// It has no dependency on Bubble Tea so rendering stays testable.
package core

// Rect is an axis-aligned rectangle in screen coordinates.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	w := Max(0, r.W-2*n)
	h := Max(0, r.H-2*n)
	return Rect{X: r.X + n, Y: r.Y + n, W: w, H: h}
}

// CenteredRect returns a w×h rectangle centered inside an outer area.
func CenteredRect(outerW, outerH, w, h int) Rect {
	return Rect{X: (outerW - w) / 2, Y: (outerH - h) / 2, W: w, H: h}
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
