package engine

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/core"
)

const (
	// MaxDeflection scales the normalized hit offset into a deflection.
	MaxDeflection = 0.75

	// SpeedCapFactor bounds ball speed after a paddle hit, relative to the
	// difficulty's base speed.
	SpeedCapFactor = 1.2
)

// CheckPaddleCollision tests the ball's bounding square against the paddle.
// On a hit it also returns the deflection: the ball's offset from the paddle
// center normalized to [-1, 1] and scaled by MaxDeflection. Negative means
// the ball struck the upper half.
func CheckPaddleCollision(ball Ball, paddle Paddle) (bool, float64) {
	if !ball.Bounds().Overlaps(paddle.Bounds()) {
		return false, 0
	}

	half := paddle.Height / 2
	if half <= 0 {
		return true, 0
	}
	// Corner hits reach past the paddle ends by up to one radius.
	normalized := core.ClampF((ball.Position.Y-paddle.CenterY())/half, -1, 1)
	return true, normalized * MaxDeflection
}

// LimitSpeed scales v down proportionally so its magnitude does not exceed limit.
// Vectors already within the limit are returned unchanged.
func LimitSpeed(v core.Vec2, limit float64) core.Vec2 {
	speed := math.Hypot(v.X, v.Y)
	if speed <= limit || speed == 0 {
		return v
	}
	return v.Scale(limit / speed)
}
