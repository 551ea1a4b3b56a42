package multiplayer

import (
	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/match"
)

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent to the host once its lobby is open.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby request fails or the lobby expires.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// MatchStartedEvent is sent to both players when the joiner arrives.
type MatchStartedEvent struct {
	MatchID MatchID
	Code    string
	Side    core.Side // The side this session controls
	Players match.Players
}

func (MatchStartedEvent) sessionEvent() {}

// SnapshotEvent carries the authoritative match state after a tick.
type SnapshotEvent struct {
	MatchID MatchID
	State   match.State
	Rematch Rematch
}

func (SnapshotEvent) sessionEvent() {}

// Rematch records which sides asked to play again after a finished match.
type Rematch struct {
	Left  bool
	Right bool
}

// Wants reports whether side asked for a rematch.
func (r Rematch) Wants(side core.Side) bool {
	switch side {
	case core.SideLeft:
		return r.Left
	case core.SideRight:
		return r.Right
	default:
		return false
	}
}

// MatchEndedEvent is sent when an online match is torn down.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  core.Side // SideNone if the match was abandoned before a winner
	Score   match.Score
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why an online match ended.
type MatchEndReason int

const (
	MatchEndReasonLeft       MatchEndReason = iota // A player left the match
	MatchEndReasonDisconnect                       // A player's session closed
	MatchEndReasonHostLeft                         // The host left before anyone joined
	MatchEndReasonShutdown                         // The server is stopping
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonLeft:
		return "Opponent left"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonShutdown:
		return "Server shutting down"
	default:
		return "Unknown"
	}
}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a lobby hosted by the session. An empty difficulty
// uses the configured default.
type CreateLobbyMsg struct {
	SessionID  SessionID
	Name       string
	Difficulty config.Difficulty
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg joins the lobby with the given code and starts the match.
type JoinLobbyMsg struct {
	SessionID SessionID
	Name      string
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a lobby before anyone joined.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// PressMsg is one paddle key press. The match maps the session to its side.
type PressMsg struct {
	MatchID   MatchID
	SessionID SessionID
	Up        bool
}

func (PressMsg) coordinatorMessage() {}

// PauseMsg toggles pause for both players.
type PauseMsg struct {
	MatchID   MatchID
	SessionID SessionID
}

func (PauseMsg) coordinatorMessage() {}

// RematchMsg asks for a rematch once the match has a winner. The match
// restarts when both sides have asked.
type RematchMsg struct {
	MatchID   MatchID
	SessionID SessionID
}

func (RematchMsg) coordinatorMessage() {}

// LeaveMatchMsg leaves an online match, ending it for both players.
type LeaveMatchMsg struct {
	MatchID   MatchID
	SessionID SessionID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session's connection closes.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
