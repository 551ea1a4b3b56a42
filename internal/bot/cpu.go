// Package bot drives a paddle from the match state, standing in for a
// human player. It only produces control flags; the engine still moves
// the paddle.
package bot

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/match"
)

// skillStep is added to the CPU skill every ramp interval.
const skillStep = 0.02

// CPU tracks the ball with imperfect reactions.
type CPU struct {
	side   core.Side
	field  config.FieldConfig
	speed  float64
	skills config.CPUConfig
}

// NewCPU creates a CPU player for one side.
func NewCPU(side core.Side, cfg config.PongConfig) *CPU {
	return &CPU{
		side:   side,
		field:  cfg.Field,
		speed:  cfg.Paddles.Speed,
		skills: cfg.CPU,
	}
}

// Side returns the side this CPU controls.
func (c *CPU) Side() core.Side {
	return c.side
}

// Skill returns the reaction skill after the given number of match ticks.
// It starts at the minimum and climbs towards the maximum as the match goes on.
func (c *CPU) Skill(ticks int) float64 {
	skill := c.skills.MinSkill
	if c.skills.RampTicks > 0 {
		skill += skillStep * float64(ticks/c.skills.RampTicks)
	}
	return min(skill, c.skills.MaxSkill)
}

// Apply sets the CPU side's flags in `in` and returns the result.
// The other side's flags are left untouched.
func (c *CPU) Apply(s match.State, in core.ControlInput) core.ControlInput {
	up, down := c.Decide(s)
	in.Set(c.side, up, down)
	return in
}

// Decide chooses which key to hold for this tick.
func (c *CPU) Decide(s match.State) (up, down bool) {
	paddle := s.Left
	approaching := s.Ball.Velocity.X < 0
	if c.side == core.SideRight {
		paddle = s.Right
		approaching = s.Ball.Velocity.X > 0
	}

	// Only move if ball is coming towards the CPU
	if !approaching {
		return false, false
	}

	skill := c.Skill(s.Ticks)

	// Weaker players react later.
	distance := math.Abs(s.Ball.Position.X - paddle.Bounds().CenterX())
	if distance > c.field.Width*skill {
		return false, false
	}

	// Holding the key on only part of the ticks caps the effective paddle speed.
	if float64(s.Ticks%10) >= skill*10 {
		return false, false
	}

	// Strike off-center so returns come back angled.
	aim := paddle.Height / 4
	if s.Ball.Position.Y >= c.field.Height/2 {
		aim = -aim
	}

	// Dead zone keeps the paddle from jittering around the target.
	diff := s.Ball.Position.Y + aim - paddle.CenterY()
	tolerance := max(c.speed, paddle.Height/2*(1-skill))
	switch {
	case diff < -tolerance:
		return true, false
	case diff > tolerance:
		return false, true
	default:
		return false, false
	}
}
