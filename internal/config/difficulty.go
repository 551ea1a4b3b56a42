package config

import (
	"fmt"
	"strings"
)

// Difficulty represents a named ball-speed preset.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the presets in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty converts user input into a Difficulty.
// Matching is case-insensitive; "normal" is accepted as medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "normal":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (valid: easy, medium, hard)", s)
	}
}

// Next returns the following preset, wrapping around.
func (d Difficulty) Next() Difficulty {
	list := Difficulties()
	for i, v := range list {
		if v == d {
			return list[(i+1)%len(list)]
		}
	}
	return DifficultyMedium
}

// Prev returns the preceding preset, wrapping around.
func (d Difficulty) Prev() Difficulty {
	list := Difficulties()
	for i, v := range list {
		if v == d {
			return list[(i+len(list)-1)%len(list)]
		}
	}
	return DifficultyMedium
}

// Title returns the display form of the preset.
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}
