package engine

import (
	"time"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// TrailCapacity is the number of past ball positions kept for drawing.
const TrailCapacity = 8

// TrailPoint is one remembered ball position.
type TrailPoint struct {
	Position core.Vec2
	At       time.Time
}

// Trail is a fixed-capacity ring of recent ball positions, most recent first.
// It is a value type: copying a Ball copies its trail.
// Only renderers read it.
type Trail struct {
	points [TrailCapacity]TrailPoint
	head   int // Index of the most recent point
	n      int
}

// Push records p as the most recent point, dropping the oldest when full.
func (t *Trail) Push(p TrailPoint) {
	t.head = (t.head + TrailCapacity - 1) % TrailCapacity
	t.points[t.head] = p
	t.n = min(t.n+1, TrailCapacity)
}

// Len returns the number of recorded points.
func (t Trail) Len() int {
	return t.n
}

// At returns the i-th most recent point. At(0) is the newest.
func (t Trail) At(i int) TrailPoint {
	if i < 0 || i >= t.n {
		return TrailPoint{}
	}
	return t.points[(t.head+i)%TrailCapacity]
}

// Points returns the recorded points, newest first.
func (t Trail) Points() []TrailPoint {
	out := make([]TrailPoint, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Clear forgets every point.
func (t *Trail) Clear() {
	*t = Trail{}
}
