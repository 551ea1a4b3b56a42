// Package multiplayer pairs SSH sessions into online pong matches.
// A Coordinator owns the lobbies and join codes; every match runs its own
// authoritative loop around a match.Controller and broadcasts the state to
// both sessions.
package multiplayer

import "github.com/vovakirdan/tui-pong/internal/core"

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies an online match.
type MatchID string

// Seat is one side of an online match.
type Seat struct {
	Side    core.Side
	Session SessionHandle
	Name    string
}

// seatIndex maps a side to its slot: the host plays left, the joiner right.
func seatIndex(side core.Side) int {
	if side == core.SideRight {
		return 1
	}
	return 0
}
