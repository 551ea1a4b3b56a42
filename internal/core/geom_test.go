package core

import (
	"math"
	"testing"
)

func TestRectFOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     RectF
		expected bool
	}{
		{
			name:     "overlapping boxes",
			a:        RectF{X: 0, Y: 0, W: 10, H: 10},
			b:        RectF{X: 5, Y: 5, W: 10, H: 10},
			expected: true,
		},
		{
			name:     "separate horizontally",
			a:        RectF{X: 0, Y: 0, W: 10, H: 10},
			b:        RectF{X: 15, Y: 0, W: 10, H: 10},
			expected: false,
		},
		{
			name:     "separate vertically",
			a:        RectF{X: 0, Y: 0, W: 10, H: 10},
			b:        RectF{X: 0, Y: 10.5, W: 10, H: 10},
			expected: false,
		},
		{
			name:     "shared vertical edge counts",
			a:        RectF{X: 0, Y: 0, W: 10, H: 10},
			b:        RectF{X: 10, Y: 0, W: 10, H: 10},
			expected: true,
		},
		{
			name:     "shared horizontal edge counts",
			a:        RectF{X: 0, Y: 0, W: 10, H: 10},
			b:        RectF{X: 0, Y: 10, W: 10, H: 10},
			expected: true,
		},
		{
			name:     "contained box",
			a:        RectF{X: 0, Y: 0, W: 20, H: 20},
			b:        RectF{X: 5, Y: 5, W: 5, H: 5},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.expected)
			}
			// Also test symmetry
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectFEdges(t *testing.T) {
	r := RectF{X: 5, Y: 10, W: 20, H: 80}

	if r.Right() != 25 {
		t.Errorf("Right() = %f, expected 25", r.Right())
	}
	if r.Bottom() != 90 {
		t.Errorf("Bottom() = %f, expected 90", r.Bottom())
	}
	if r.CenterY() != 50 {
		t.Errorf("CenterY() = %f, expected 50", r.CenterY())
	}
}

func TestVec2(t *testing.T) {
	v := V(3, 4)
	if v.Len() != 5 {
		t.Errorf("Len() = %f, expected 5", v.Len())
	}

	sum := v.Add(V(1, -1))
	if sum != V(4, 3) {
		t.Errorf("Add() = %+v, expected {4 3}", sum)
	}

	scaled := v.Scale(0.5)
	if math.Abs(scaled.X-1.5) > 1e-12 || math.Abs(scaled.Y-2) > 1e-12 {
		t.Errorf("Scale() = %+v, expected {1.5 2}", scaled)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestSideOpponent(t *testing.T) {
	if SideLeft.Opponent() != SideRight {
		t.Error("left opponent should be right")
	}
	if SideRight.Opponent() != SideLeft {
		t.Error("right opponent should be left")
	}
	if SideNone.Opponent() != SideNone {
		t.Error("none has no opponent")
	}
}

func TestControlInputAccessors(t *testing.T) {
	var in ControlInput
	in.Set(SideLeft, true, false)
	in.Set(SideRight, false, true)

	if !in.Up(SideLeft) || in.Down(SideLeft) {
		t.Errorf("left flags wrong: %+v", in)
	}
	if in.Up(SideRight) || !in.Down(SideRight) {
		t.Errorf("right flags wrong: %+v", in)
	}
	if !in.Any() {
		t.Error("Any() should be true with keys held")
	}

	merged := ControlInput{}.Merge(ControlInput{RightUp: true})
	if !merged.RightUp || merged.LeftUp {
		t.Errorf("Merge() = %+v", merged)
	}
	if (ControlInput{}).Any() {
		t.Error("zero input should hold no keys")
	}
}
