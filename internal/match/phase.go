// Package match owns a single pong match: its phase machine, score, players
// and the controller that drives the engine once per tick.
package match

import (
	"errors"
	"fmt"
)

// Phase is the match's current high-level mode.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhasePaused
	PhaseResetting
	PhaseEnded
)

var (
	// ErrIllegalTransition is returned when a phase change is not allowed
	// from the current phase.
	ErrIllegalTransition = errors.New("match: illegal phase transition")

	// ErrMatchInProgress is returned for setup changes attempted during a live rally.
	ErrMatchInProgress = errors.New("match: match in progress")
)

// transitions lists the legal edges. Menu cannot go straight to Ended.
var transitions = map[Phase][]Phase{
	PhaseMenu:      {PhasePlaying, PhaseResetting},
	PhasePlaying:   {PhasePaused, PhaseResetting},
	PhasePaused:    {PhasePlaying, PhaseResetting, PhaseEnded, PhaseMenu},
	PhaseEnded:     {PhaseMenu, PhaseResetting},
	PhaseResetting: {PhaseMenu},
}

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseResetting:
		return "resetting"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

func transitionError(from, to Phase) error {
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
