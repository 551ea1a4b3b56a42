package match

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	legal := map[[2]Phase]bool{
		{PhaseMenu, PhasePlaying}:      true,
		{PhaseMenu, PhaseResetting}:    true,
		{PhasePlaying, PhasePaused}:    true,
		{PhasePlaying, PhaseResetting}: true,
		{PhasePaused, PhasePlaying}:    true,
		{PhasePaused, PhaseResetting}:  true,
		{PhasePaused, PhaseEnded}:      true,
		{PhasePaused, PhaseMenu}:       true,
		{PhaseEnded, PhaseMenu}:        true,
		{PhaseEnded, PhaseResetting}:   true,
		{PhaseResetting, PhaseMenu}:    true,
	}
	all := []Phase{PhaseMenu, PhasePlaying, PhasePaused, PhaseResetting, PhaseEnded}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]Phase{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%v, %v) = %v, expected %v", from, to, got, want)
			}
		}
	}

	if CanTransition(PhaseMenu, PhaseEnded) {
		t.Error("menu must never reach ended directly")
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseMenu:      "menu",
		PhasePlaying:   "playing",
		PhasePaused:    "paused",
		PhaseResetting: "resetting",
		PhaseEnded:     "ended",
		Phase(42):      "phase(42)",
	}
	for p, want := range tests {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, expected %q", int(p), p.String(), want)
		}
	}
}

func TestTransitionErrorWraps(t *testing.T) {
	err := transitionError(PhaseMenu, PhaseEnded)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("%v should wrap ErrIllegalTransition", err)
	}
	if err.Error() != "match: illegal phase transition: menu -> ended" {
		t.Errorf("message = %q", err.Error())
	}
}
