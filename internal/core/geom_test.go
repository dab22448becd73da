package core

import "testing"

func TestBoardFrameGeometry(t *testing.T) {
	// A 10x6 board framed by a one-cell border, as the snake renderer lays it out.
	frame := NewRect(35, 2, 12, 8)
	if frame.Right() != 47 || frame.Bottom() != 10 {
		t.Errorf("frame edges = (%d, %d), want (47, 10)", frame.Right(), frame.Bottom())
	}

	inner := frame.Inset(1)
	if inner != (Rect{X: 36, Y: 3, W: 10, H: 6}) {
		t.Errorf("inner = %+v, want the 10x6 playfield", inner)
	}
	if collapsed := NewRect(0, 0, 1, 3).Inset(1); collapsed.W != 0 || collapsed.H != 1 {
		t.Errorf("thin inset = %+v", collapsed)
	}
}

func TestCenteredOverlay(t *testing.T) {
	tests := []struct {
		name         string
		outerW, outH int
		w, h         int
		x, y         int
	}{
		{"fits", 80, 24, 22, 5, 29, 9},
		{"odd slack rounds left", 81, 25, 22, 5, 29, 10},
		{"wider than screen", 10, 4, 20, 6, -5, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := CenteredRect(tc.outerW, tc.outH, tc.w, tc.h)
			if r.X != tc.x || r.Y != tc.y || r.W != tc.w || r.H != tc.h {
				t.Errorf("CenteredRect = %+v, want origin (%d, %d)", r, tc.x, tc.y)
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	if Min(3, -1) != -1 || Max(3, -1) != 3 {
		t.Error("Min/Max mismatch")
	}
}
