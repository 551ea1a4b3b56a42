package config

import (
	_ "embed"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

// DefaultPongConfig returns the built-in configuration.
// It must stay in sync with defaults/pong.yaml.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Field: FieldConfig{
			Width:  800,
			Height: 500,
		},
		Paddles: PaddleConfig{
			Width:  10,
			Height: 80,
			Offset: 20,
			Speed:  6,
		},
		Ball: BallConfig{
			Radius:          8,
			DeflectionSpeed: 8,
			LaunchAngle:     0.25,
		},
		Difficulty: DifficultyConfig{
			Default: DifficultyMedium,
			Speeds: DifficultySpeeds{
				Easy:   4,
				Medium: 6,
				Hard:   8,
			},
		},
		Gameplay: GameplayConfig{
			WinScore:         5,
			EndDelayMS:       500,
			EndPhase:         EndPhaseEnded,
			KeepNamesOnReset: false,
			HistoryLimit:     5,
		},
		CPU: CPUConfig{
			MinSkill:  0.6,
			MaxSkill:  0.85,
			RampTicks: 600, // 10 seconds at 60fps
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultPongYAML
}
