package engine

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-pong/internal/core"
)

func TestCheckPaddleCollision(t *testing.T) {
	paddle := Paddle{Position: core.V(20, 210), Width: 10, Height: 80}

	tests := []struct {
		name       string
		ball       core.Vec2
		hit        bool
		deflection float64
	}{
		{"center hit", core.V(35, 250), true, 0},
		{"top edge", core.V(35, 210), true, -MaxDeflection},
		{"bottom edge", core.V(35, 290), true, MaxDeflection},
		{"quarter below center", core.V(35, 270), true, 0.5 * MaxDeflection},
		{"corner overhang clamps", core.V(35, 296), true, MaxDeflection},
		{"touching right face", core.V(38, 250), true, 0},
		{"just past right face", core.V(38.5, 250), false, 0},
		{"above paddle", core.V(25, 201), false, 0},
		{"below paddle", core.V(25, 298.1), false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ball := Ball{Position: tc.ball, Radius: 8}
			hit, deflection := CheckPaddleCollision(ball, paddle)
			if hit != tc.hit {
				t.Fatalf("hit = %v, expected %v", hit, tc.hit)
			}
			if math.Abs(deflection-tc.deflection) > eps {
				t.Errorf("deflection = %v, expected %v", deflection, tc.deflection)
			}
		})
	}
}

func TestLimitSpeed(t *testing.T) {
	tests := []struct {
		name  string
		v     core.Vec2
		limit float64
		want  core.Vec2
	}{
		{"under limit unchanged", core.V(3, 4), 6, core.V(3, 4)},
		{"at limit unchanged", core.V(3, 4), 5, core.V(3, 4)},
		{"over limit scaled", core.V(6, 8), 5, core.V(3, 4)},
		{"zero vector", core.V(0, 0), 1, core.V(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := LimitSpeed(tc.v, tc.limit)
			if math.Abs(got.X-tc.want.X) > eps || math.Abs(got.Y-tc.want.Y) > eps {
				t.Errorf("LimitSpeed(%+v, %v) = %+v, expected %+v", tc.v, tc.limit, got, tc.want)
			}
		})
	}
}

func TestLimitSpeedKeepsDirection(t *testing.T) {
	v := core.V(-9, 12)
	got := LimitSpeed(v, 7.2)
	if math.Abs(got.Len()-7.2) > eps {
		t.Errorf("speed = %v, expected exactly 7.2", got.Len())
	}
	if math.Abs(got.X/got.Y-v.X/v.Y) > eps {
		t.Errorf("direction changed: %+v vs %+v", got, v)
	}
}

func TestTrailRing(t *testing.T) {
	var tr Trail
	base := time.Unix(0, 0)

	for i := range 11 {
		tr.Push(TrailPoint{Position: core.V(float64(i), 0), At: base.Add(time.Duration(i) * time.Millisecond)})
		if tr.Len() != min(i+1, TrailCapacity) {
			t.Fatalf("after %d pushes Len() = %d", i+1, tr.Len())
		}
	}

	points := tr.Points()
	if len(points) != TrailCapacity {
		t.Fatalf("Points() returned %d, expected %d", len(points), TrailCapacity)
	}
	// Newest first: 10, 9, ..., 3
	for i, p := range points {
		if want := float64(10 - i); p.Position.X != want {
			t.Errorf("points[%d].X = %v, expected %v", i, p.Position.X, want)
		}
	}

	if (tr.At(TrailCapacity) != TrailPoint{}) {
		t.Error("At() past the end should return the zero point")
	}

	copied := tr
	tr.Clear()
	if tr.Len() != 0 {
		t.Error("Clear() should empty the trail")
	}
	if copied.Len() != TrailCapacity {
		t.Error("copies must not share storage with the original")
	}
}
