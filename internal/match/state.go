package match

import (
	"fmt"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/engine"
)

// Score is the points each side has won in the current match.
type Score struct {
	Left  int
	Right int
}

// String renders the score as "L-R".
func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Left, s.Right)
}

// Of returns the points for one side.
func (s Score) Of(side core.Side) int {
	switch side {
	case core.SideLeft:
		return s.Left
	case core.SideRight:
		return s.Right
	default:
		return 0
	}
}

// Players holds the validated player names.
type Players struct {
	Left  string
	Right string
}

// Name returns the name playing on a side.
func (p Players) Name(side core.Side) string {
	switch side {
	case core.SideLeft:
		return p.Left
	case core.SideRight:
		return p.Right
	default:
		return ""
	}
}

// State is a complete copy of the match. The controller is its only writer;
// readers get it through Controller.Snapshot.
type State struct {
	Phase      Phase
	Difficulty config.Difficulty
	Left       engine.Paddle
	Right      engine.Paddle
	Ball       engine.Ball
	Score      Score
	Players    Players
	Winner     core.Side
	Controls   core.ControlInput
	Generation uint64 // Bumped whenever a new match begins or the board is reset
	Ticks      int    // Simulation steps in the current match
}

// CanTogglePause reports whether pause/resume is currently allowed.
func (s State) CanTogglePause() bool {
	if s.Winner != core.SideNone {
		return false
	}
	return s.Phase == PhasePlaying || s.Phase == PhasePaused
}

// RallyLive reports whether a match is underway and not yet decided.
func (s State) RallyLive() bool {
	return s.Winner == core.SideNone && (s.Phase == PhasePlaying || s.Phase == PhasePaused)
}

// WinnerName returns the winning player's name, or "" while undecided.
func (s State) WinnerName() string {
	return s.Players.Name(s.Winner)
}
