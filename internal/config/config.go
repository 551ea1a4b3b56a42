// Package config provides YAML/TOML match configuration loading and
// difficulty presets for the pong engine.
package config

import (
	"errors"
	"fmt"
	"time"
)

// PongConfig contains every tunable the engine and match controller read.
// Values are treated as immutable once a match is created.
type PongConfig struct {
	Field      FieldConfig      `yaml:"field" toml:"field"`
	Paddles    PaddleConfig     `yaml:"paddles" toml:"paddles"`
	Ball       BallConfig       `yaml:"ball" toml:"ball"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
	Gameplay   GameplayConfig   `yaml:"gameplay" toml:"gameplay"`
	CPU        CPUConfig        `yaml:"cpu" toml:"cpu"`
}

// FieldConfig defines the play-field extent in field units.
type FieldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PaddleConfig defines paddle geometry and movement.
type PaddleConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	Offset float64 `yaml:"offset" toml:"offset"` // Distance from the side wall
	Speed  float64 `yaml:"speed" toml:"speed"`   // Units per tick
}

// BallConfig defines ball geometry and paddle deflection.
type BallConfig struct {
	Radius          float64 `yaml:"radius" toml:"radius"`
	DeflectionSpeed float64 `yaml:"deflection_speed" toml:"deflection_speed"` // Vertical speed at full deflection
	LaunchAngle     float64 `yaml:"launch_angle" toml:"launch_angle"`         // Max serve angle in radians
}

// DifficultyConfig maps each difficulty to a base ball speed.
type DifficultyConfig struct {
	Default Difficulty       `yaml:"default" toml:"default"`
	Speeds  DifficultySpeeds `yaml:"speeds" toml:"speeds"`
}

// DifficultySpeeds holds the base ball speed per difficulty.
type DifficultySpeeds struct {
	Easy   float64 `yaml:"easy" toml:"easy"`
	Medium float64 `yaml:"medium" toml:"medium"`
	Hard   float64 `yaml:"hard" toml:"hard"`
}

// GameplayConfig defines match rules and post-match behavior.
type GameplayConfig struct {
	WinScore         int      `yaml:"win_score" toml:"win_score"`
	EndDelayMS       int      `yaml:"end_delay_ms" toml:"end_delay_ms"`
	EndPhase         EndPhase `yaml:"end_phase" toml:"end_phase"`
	KeepNamesOnReset bool     `yaml:"keep_names_on_reset" toml:"keep_names_on_reset"`
	HistoryLimit     int      `yaml:"history_limit" toml:"history_limit"`
}

// CPUConfig tunes the computer-controlled paddle.
type CPUConfig struct {
	MinSkill  float64 `yaml:"min_skill" toml:"min_skill"`   // Starting reaction (0-1, 1 = perfect)
	MaxSkill  float64 `yaml:"max_skill" toml:"max_skill"`   // Reaction cap
	RampTicks int     `yaml:"ramp_ticks" toml:"ramp_ticks"` // Ticks between skill increases
}

// EndPhase names where a finished match lands after the end delay.
type EndPhase string

const (
	EndPhaseEnded EndPhase = "ended"
	EndPhaseMenu  EndPhase = "menu"
)

// EndDelay returns the pause between the winning point and the end phase.
func (g GameplayConfig) EndDelay() time.Duration {
	return time.Duration(g.EndDelayMS) * time.Millisecond
}

// BallSpeed returns the base ball speed for a difficulty.
// Unknown difficulties fall back to the medium speed.
func (c PongConfig) BallSpeed(d Difficulty) float64 {
	switch d {
	case DifficultyEasy:
		return c.Difficulty.Speeds.Easy
	case DifficultyHard:
		return c.Difficulty.Speeds.Hard
	default:
		return c.Difficulty.Speeds.Medium
	}
}

// Validate reports every invalid setting at once.
func (c PongConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("field.width", c.Field.Width)
	positive("field.height", c.Field.Height)
	positive("paddles.width", c.Paddles.Width)
	positive("paddles.height", c.Paddles.Height)
	positive("paddles.speed", c.Paddles.Speed)
	positive("ball.radius", c.Ball.Radius)
	positive("difficulty.speeds.easy", c.Difficulty.Speeds.Easy)
	positive("difficulty.speeds.medium", c.Difficulty.Speeds.Medium)
	positive("difficulty.speeds.hard", c.Difficulty.Speeds.Hard)

	if c.Paddles.Offset < 0 {
		errs = append(errs, fmt.Errorf("paddles.offset must not be negative, got %v", c.Paddles.Offset))
	}
	if c.Paddles.Height > c.Field.Height {
		errs = append(errs, fmt.Errorf("paddles.height %v exceeds field.height %v", c.Paddles.Height, c.Field.Height))
	}
	if 2*(c.Paddles.Offset+c.Paddles.Width) >= c.Field.Width {
		errs = append(errs, errors.New("paddles do not fit inside field.width"))
	}
	if c.Ball.DeflectionSpeed < 0 {
		errs = append(errs, fmt.Errorf("ball.deflection_speed must not be negative, got %v", c.Ball.DeflectionSpeed))
	}
	if c.Ball.LaunchAngle < 0 {
		errs = append(errs, fmt.Errorf("ball.launch_angle must not be negative, got %v", c.Ball.LaunchAngle))
	}
	if _, err := ParseDifficulty(string(c.Difficulty.Default)); err != nil {
		errs = append(errs, err)
	}
	if c.Gameplay.WinScore <= 0 {
		errs = append(errs, fmt.Errorf("gameplay.win_score must be positive, got %d", c.Gameplay.WinScore))
	}
	if c.Gameplay.EndDelayMS < 0 {
		errs = append(errs, fmt.Errorf("gameplay.end_delay_ms must not be negative, got %d", c.Gameplay.EndDelayMS))
	}
	switch c.Gameplay.EndPhase {
	case EndPhaseEnded, EndPhaseMenu:
	default:
		errs = append(errs, fmt.Errorf("gameplay.end_phase %q is not one of ended, menu", c.Gameplay.EndPhase))
	}
	if c.Gameplay.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("gameplay.history_limit must be positive, got %d", c.Gameplay.HistoryLimit))
	}
	if c.CPU.MinSkill < 0 || c.CPU.MaxSkill > 1 || c.CPU.MinSkill > c.CPU.MaxSkill {
		errs = append(errs, fmt.Errorf("cpu skill range [%v, %v] must lie within [0, 1]", c.CPU.MinSkill, c.CPU.MaxSkill))
	}

	return errors.Join(errs...)
}
