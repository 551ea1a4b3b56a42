package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// Random is the serve randomness source. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to timestamp trail points.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine advances the physical state of a match by one frame at a time.
// It holds only immutable configuration and the serve randomness.
type Engine struct {
	cfg config.PongConfig
	rnd Random
	now func() time.Time
}

// New creates an engine. A nil rnd seeds one from the current time.
func New(cfg config.PongConfig, rnd Random, opts ...Option) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // gameplay randomness
	}
	e := &Engine{
		cfg: cfg,
		rnd: rnd,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.PongConfig {
	return e.cfg
}

// NewPaddles returns both paddles at their wall offsets, vertically centered.
func (e *Engine) NewPaddles() (Paddle, Paddle) {
	p := e.cfg.Paddles
	y := (e.cfg.Field.Height - p.Height) / 2

	left := Paddle{
		Position: core.V(p.Offset, y),
		Width:    p.Width,
		Height:   p.Height,
	}
	right := Paddle{
		Position: core.V(e.cfg.Field.Width-p.Offset-p.Width, y),
		Width:    p.Width,
		Height:   p.Height,
	}
	return left, right
}

// UpdatePaddles moves each paddle by the held controls.
// Up is applied first and down second, each clamped on its own, so holding
// both cancels mid-field and down wins at the top wall.
func (e *Engine) UpdatePaddles(left, right Paddle, in core.ControlInput) (Paddle, Paddle) {
	return e.movePaddle(left, in.LeftUp, in.LeftDown),
		e.movePaddle(right, in.RightUp, in.RightDown)
}

func (e *Engine) movePaddle(p Paddle, up, down bool) Paddle {
	speed := e.cfg.Paddles.Speed
	maxY := e.cfg.Field.Height - p.Height

	if up && p.Position.Y > 0 {
		p.Position.Y = max(p.Position.Y-speed, 0)
	}
	// Sees the value written by the up branch.
	if down && p.Position.Y < maxY {
		p.Position.Y = min(p.Position.Y+speed, maxY)
	}
	p.Position.Y = core.ClampF(p.Position.Y, 0, max(maxY, 0))
	return p
}

// UpdateBall advances the ball one frame and reports which side scored, if any.
func (e *Engine) UpdateBall(ball Ball, left, right Paddle, d config.Difficulty) (Ball, core.Side) {
	prev := ball.Position
	ball.Position = ball.Position.Add(ball.Velocity)
	ball.Trail.Push(TrailPoint{Position: prev, At: e.now()})

	// Walls
	r := ball.Radius
	if ball.Position.Y <= r {
		ball.Position.Y = r
		ball.Velocity.Y = math.Abs(ball.Velocity.Y)
	} else if ball.Position.Y >= e.cfg.Field.Height-r {
		ball.Position.Y = e.cfg.Field.Height - r
		ball.Velocity.Y = -math.Abs(ball.Velocity.Y)
	}

	// Paddles. Only one can be hit per frame.
	limit := SpeedCapFactor * e.cfg.BallSpeed(d)
	if hit, deflection := CheckPaddleCollision(ball, left); hit {
		ball.Position.X = left.Position.X + left.Width + r
		ball.Velocity.X = math.Abs(ball.Velocity.X)
		ball.Velocity.Y = deflection * e.cfg.Ball.DeflectionSpeed
		ball.Velocity = LimitSpeed(ball.Velocity, limit)
	} else if hit, deflection := CheckPaddleCollision(ball, right); hit {
		ball.Position.X = right.Position.X - r
		ball.Velocity.X = -math.Abs(ball.Velocity.X)
		ball.Velocity.Y = deflection * e.cfg.Ball.DeflectionSpeed
		ball.Velocity = LimitSpeed(ball.Velocity, limit)
	}

	switch {
	case ball.Position.X <= 0:
		return ball, core.SideRight
	case ball.Position.X >= e.cfg.Field.Width:
		return ball, core.SideLeft
	default:
		return ball, core.SideNone
	}
}

// ResetBall serves a fresh ball from the field center with a random
// direction and a small random launch angle.
func (e *Engine) ResetBall(d config.Difficulty) Ball {
	speed := e.cfg.BallSpeed(d)

	direction := 1.0
	if e.rnd.Float64() <= 0.5 {
		direction = -1
	}
	angle := (e.rnd.Float64() - 0.5) * 2 * e.cfg.Ball.LaunchAngle

	return Ball{
		Position: core.V(e.cfg.Field.Width/2, e.cfg.Field.Height/2),
		Velocity: core.V(direction*speed, speed*math.Sin(angle)),
		Radius:   e.cfg.Ball.Radius,
	}
}

// CheckGameEnd reports whether either score reached winningScore.
// Left is checked first.
func CheckGameEnd(leftScore, rightScore, winningScore int) (bool, core.Side) {
	if leftScore >= winningScore {
		return true, core.SideLeft
	}
	if rightScore >= winningScore {
		return true, core.SideRight
	}
	return false, core.SideNone
}
