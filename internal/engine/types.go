// Package engine implements the per-frame pong simulation: paddle and ball
// integration, wall and paddle collision, speed clamping, scoring and serve.
//
// Every operation takes values and returns new values. The caller owns the
// match state and decides what to write back.
package engine

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Paddle is a vertical bat. Position is its top-left corner.
type Paddle struct {
	Position core.Vec2
	Width    float64
	Height   float64
}

// Bounds returns the paddle rectangle.
func (p Paddle) Bounds() core.RectF {
	return core.RectF{X: p.Position.X, Y: p.Position.Y, W: p.Width, H: p.Height}
}

// CenterY returns the vertical center of the paddle.
func (p Paddle) CenterY() float64 {
	return p.Position.Y + p.Height/2
}

// Ball is the ball. Position is its center.
type Ball struct {
	Position core.Vec2
	Velocity core.Vec2
	Radius   float64
	Trail    Trail
}

// Bounds returns the ball's bounding square.
func (b Ball) Bounds() core.RectF {
	return core.RectF{
		X: b.Position.X - b.Radius,
		Y: b.Position.Y - b.Radius,
		W: 2 * b.Radius,
		H: 2 * b.Radius,
	}
}

// Speed returns the velocity magnitude.
func (b Ball) Speed() float64 {
	return math.Hypot(b.Velocity.X, b.Velocity.Y)
}
