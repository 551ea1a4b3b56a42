// Package tui provides the Bubble Tea front end for pong: the setup form,
// the court, the end screen and the leaderboard, plus the SSH server that
// serves the same model to remote players.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/match"
)

// TickMsg is sent to poll the frame clock.
type TickMsg time.Time

// endTimerMsg fires when a finished match's post-match delay runs out.
type endTimerMsg struct {
	generation uint64
}

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// endTimerCmd schedules the delayed post-match transition.
func endTimerCmd(t *match.EndTimer) tea.Cmd {
	gen := t.Generation
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return endTimerMsg{generation: gen}
	})
}
