package multiplayer

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/match"
)

const eventTimeout = 2 * time.Second

func newTestCoordinator(t *testing.T) (*Coordinator, *SessionRegistry) {
	t.Helper()
	reg := NewSessionRegistry()
	c := NewCoordinator(DefaultCoordinatorConfig(), reg)
	c.Start()
	t.Cleanup(c.Stop)
	return c, reg
}

func connect(reg *SessionRegistry, id SessionID) *ChannelSession {
	s := NewChannelSession(id, 256)
	reg.Register(s)
	return s
}

// waitFor returns the next event of type T, skipping others.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	return waitUntil(t, s, func(T) bool { return true })
}

// waitUntil returns the first event of type T that satisfies ok.
func waitUntil[T SessionEvent](t *testing.T, s *ChannelSession, ok func(T) bool) T {
	t.Helper()
	deadline := time.After(eventTimeout)
	for {
		select {
		case evt := <-s.Events():
			if v, hit := evt.(T); hit && ok(v) {
				return v
			}
		case <-deadline:
			var zero T
			t.Fatalf("%s: timed out waiting for %T", s.ID(), zero)
			return zero
		}
	}
}

func hostLobby(t *testing.T, c *Coordinator, host *ChannelSession, name string) string {
	t.Helper()
	c.Send(CreateLobbyMsg{SessionID: host.ID(), Name: name})
	return waitFor[LobbyCreatedEvent](t, host).Code
}

func startOnline(t *testing.T, c *Coordinator, reg *SessionRegistry) (host, guest *ChannelSession, id MatchID) {
	t.Helper()
	host, guest = connect(reg, "host"), connect(reg, "guest")
	code := hostLobby(t, c, host, "alice")
	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Name: "bob", Code: strings.ToLower(code)})

	hostStart := waitFor[MatchStartedEvent](t, host)
	guestStart := waitFor[MatchStartedEvent](t, guest)
	if hostStart.MatchID != guestStart.MatchID {
		t.Fatalf("match IDs differ: %s vs %s", hostStart.MatchID, guestStart.MatchID)
	}
	return host, guest, hostStart.MatchID
}

func TestCoordinatorHostAndJoin(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host, guest := connect(reg, "host"), connect(reg, "guest")

	code := hostLobby(t, c, host, "alice")
	if len(code) != CodeLength {
		t.Errorf("code %q has length %d", code, len(code))
	}
	if lobby, ok := c.Lobby(code); !ok || lobby.HostName != "alice" {
		t.Fatalf("Lobby(%q) = %+v, %v", code, lobby, ok)
	}

	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Name: " bob ", Code: code})
	hostStart := waitFor[MatchStartedEvent](t, host)
	guestStart := waitFor[MatchStartedEvent](t, guest)

	if hostStart.Side != core.SideLeft || guestStart.Side != core.SideRight {
		t.Errorf("sides = %v, %v", hostStart.Side, guestStart.Side)
	}
	want := match.Players{Left: "alice", Right: "bob"}
	if hostStart.Players != want || guestStart.Players != want {
		t.Errorf("players = %+v / %+v", hostStart.Players, guestStart.Players)
	}
	if c.LobbyCount() != 0 || c.MatchCount() != 1 {
		t.Errorf("lobbies=%d matches=%d", c.LobbyCount(), c.MatchCount())
	}
	if _, ok := c.Match(hostStart.MatchID); !ok {
		t.Error("running match not found")
	}
}

func TestCoordinatorJoinErrors(t *testing.T) {
	tests := []struct {
		name   string
		asHost bool
		joiner string
		code   func(code string) string
		want   string
	}{
		{"unknown code", false, "bob", func(string) string { return "ZZZZZZ" }, "Lobby not found"},
		{"same name", false, "alice", func(c string) string { return c }, match.MsgNamesMustDiffer},
		{"missing name", false, "  ", func(c string) string { return c }, match.MsgRightNameRequired},
		{"host joins own lobby", true, "alice", func(c string) string { return c }, "Already in a lobby or match"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, reg := newTestCoordinator(t)
			host, guest := connect(reg, "host"), connect(reg, "guest")
			code := hostLobby(t, c, host, "alice")

			joiner := guest
			if tc.asHost {
				joiner = host
			}
			c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Name: tc.joiner, Code: tc.code(code)})
			if evt := waitFor[LobbyErrorEvent](t, joiner); evt.Message != tc.want {
				t.Errorf("message = %q, expected %q", evt.Message, tc.want)
			}
			if c.LobbyCount() != 1 {
				t.Error("a failed join should leave the lobby open")
			}
		})
	}
}

func TestCoordinatorRetryAfterFailedJoin(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host, guest := connect(reg, "host"), connect(reg, "guest")
	code := hostLobby(t, c, host, "alice")

	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Name: "alice", Code: code})
	waitFor[LobbyErrorEvent](t, guest)

	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Name: "carol", Code: code})
	if evt := waitFor[MatchStartedEvent](t, guest); evt.Players.Right != "carol" {
		t.Errorf("players = %+v", evt.Players)
	}
}

func TestCoordinatorBadDifficulty(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := connect(reg, "host")

	c.Send(CreateLobbyMsg{SessionID: host.ID(), Name: "alice", Difficulty: config.Difficulty("insane")})
	waitFor[LobbyErrorEvent](t, host)
	if c.LobbyCount() != 0 {
		t.Error("lobby created with an unknown difficulty")
	}
}

func TestCoordinatorCancelLobby(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := connect(reg, "host")
	code := hostLobby(t, c, host, "alice")

	c.Send(CancelLobbyMsg{SessionID: host.ID(), Code: code})
	// Messages are handled in order, so a second lobby proves the cancel
	second := hostLobby(t, c, host, "alice")
	if second != code {
		if _, ok := c.Lobby(code); ok {
			t.Error("cancelled lobby still open")
		}
	}
	if c.LobbyCount() != 1 {
		t.Errorf("LobbyCount() = %d, expected 1", c.LobbyCount())
	}
}

func TestCoordinatorLobbyExpiry(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := connect(reg, "host")
	hostLobby(t, c, host, "alice")

	c.cleanupExpiredLobbies(time.Now().Add(time.Hour))
	if evt := waitFor[LobbyErrorEvent](t, host); evt.Message != "Lobby expired" {
		t.Errorf("message = %q", evt.Message)
	}
	if c.LobbyCount() != 0 {
		t.Error("expired lobby still open")
	}
}

func TestCoordinatorRelaysPresses(t *testing.T) {
	c, reg := newTestCoordinator(t)
	_, guest, id := startOnline(t, c, reg)

	start := waitFor[SnapshotEvent](t, guest).State.Right.Position.Y
	deadline := time.Now().Add(eventTimeout)
	moved := false
	for !moved && time.Now().Before(deadline) {
		c.Send(PressMsg{MatchID: id, SessionID: guest.ID(), Up: false})
		evt := waitFor[SnapshotEvent](t, guest)
		moved = evt.State.Right.Position.Y > start
	}
	if !moved {
		t.Fatal("right paddle never moved")
	}
}

func TestCoordinatorPauseIsShared(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host, guest, id := startOnline(t, c, reg)

	c.Send(PauseMsg{MatchID: id, SessionID: guest.ID()})
	paused := func(e SnapshotEvent) bool { return e.State.Phase == match.PhasePaused }
	waitUntil(t, host, paused)
	waitUntil(t, guest, paused)
}

func TestCoordinatorLeaveEndsMatch(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host, guest, id := startOnline(t, c, reg)

	c.Send(LeaveMatchMsg{MatchID: id, SessionID: host.ID()})
	evt := waitFor[MatchEndedEvent](t, guest)
	if evt.Reason != MatchEndReasonLeft || evt.MatchID != id {
		t.Errorf("ended = %+v", evt)
	}
	if c.MatchCount() != 0 {
		t.Errorf("MatchCount() = %d after leave", c.MatchCount())
	}

	// Both players are free to host again
	hostLobby(t, c, guest, "bob")
}

func TestCoordinatorDisconnectEndsMatch(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host, guest, _ := startOnline(t, c, reg)

	guest.Close()
	c.Send(SessionDisconnectedMsg{SessionID: guest.ID()})

	if evt := waitFor[MatchEndedEvent](t, host); evt.Reason != MatchEndReasonDisconnect {
		t.Errorf("reason = %v", evt.Reason)
	}
	hostLobby(t, c, host, "alice")
	if _, ok := reg.Get(guest.ID()); ok {
		t.Error("disconnected session still registered")
	}
}

func TestCoordinatorStopNotifiesPlayers(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host, guest, _ := startOnline(t, c, reg)

	c.Stop()
	for _, s := range []*ChannelSession{host, guest} {
		if evt := waitFor[MatchEndedEvent](t, s); evt.Reason != MatchEndReasonShutdown {
			t.Errorf("%s: reason = %v", s.ID(), evt.Reason)
		}
	}
}

func TestGenerateJoinCode(t *testing.T) {
	for range 50 {
		code := generateJoinCode()
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		for _, r := range code {
			if (r < 'A' || r > 'Z') && (r < '2' || r > '7') {
				t.Fatalf("code %q has unexpected character %q", code, r)
			}
		}
	}
}
