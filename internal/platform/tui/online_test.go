package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
)

type onlinePlayer struct {
	model   OnlineModel
	session *multiplayer.ChannelSession
}

func newOnlineLobby(t *testing.T) (*multiplayer.Coordinator, *onlinePlayer, *onlinePlayer) {
	t.Helper()
	reg := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), reg)
	coord.Start()
	t.Cleanup(coord.Stop)

	player := func(id, name string) *onlinePlayer {
		s := multiplayer.NewChannelSession(multiplayer.SessionID(id), 256)
		reg.Register(s)
		return &onlinePlayer{
			model:   NewOnlineModel(coord, s, name, config.DefaultPongConfig(), 80, 24),
			session: s,
		}
	}
	return coord, player("host", "alice"), player("guest", "bob")
}

func (p *onlinePlayer) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, _ := p.model.Update(msg)
	model, ok := next.(OnlineModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	p.model = model
}

// pumpUntil feeds session events to the model until cond holds.
func (p *onlinePlayer) pumpUntil(t *testing.T, cond func(OnlineModel) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond(p.model) {
		select {
		case evt := <-p.session.Events():
			p.send(t, evt)
		case <-deadline:
			t.Fatalf("%s: timed out in state %v (err %q)", p.session.ID(), p.model.State(), p.model.errMsg)
		}
	}
}

func inState(s OnlineState) func(OnlineModel) bool {
	return func(m OnlineModel) bool { return m.State() == s }
}

func joinWithCode(t *testing.T, p *onlinePlayer, code string) {
	t.Helper()
	p.send(t, runes("j"))
	if p.model.State() != OnlineStateEnterCode {
		t.Fatalf("state = %v, expected EnterCode", p.model.State())
	}
	for _, r := range code {
		p.send(t, runes(string(r)))
	}
	p.send(t, tea.KeyMsg{Type: tea.KeyEnter})
}

func startOnlineMatch(t *testing.T) (*onlinePlayer, *onlinePlayer) {
	t.Helper()
	_, host, guest := newOnlineLobby(t)

	host.send(t, runes("h"))
	host.pumpUntil(t, inState(OnlineStateHostWaiting))

	joinWithCode(t, guest, strings.ToLower(host.model.lobbyCode))
	if guest.model.State() != OnlineStateJoinWaiting {
		t.Fatalf("guest state = %v, expected JoinWaiting", guest.model.State())
	}
	guest.pumpUntil(t, inState(OnlineStateInMatch))
	host.pumpUntil(t, inState(OnlineStateInMatch))
	return host, guest
}

func TestOnlineHostAndJoin(t *testing.T) {
	host, guest := startOnlineMatch(t)

	if host.model.Side() != core.SideLeft || guest.model.Side() != core.SideRight {
		t.Errorf("sides = %v, %v", host.model.Side(), guest.model.Side())
	}
	if host.model.MatchID() == "" || host.model.MatchID() != guest.model.MatchID() {
		t.Errorf("match IDs = %q, %q", host.model.MatchID(), guest.model.MatchID())
	}

	synced := func(m OnlineModel) bool { return m.synced }
	host.pumpUntil(t, synced)
	view := host.model.View()
	for _, want := range []string{"alice", "bob", "You play left as alice"} {
		if !strings.Contains(view, want) {
			t.Errorf("court view missing %q", want)
		}
	}
}

func TestOnlinePressMovesOwnPaddle(t *testing.T) {
	_, guest := startOnlineMatch(t)
	guest.pumpUntil(t, func(m OnlineModel) bool { return m.synced })
	start := guest.model.snapshot.State

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		guest.send(t, tea.KeyMsg{Type: tea.KeyDown})
		ticks := guest.model.snapshot.State.Ticks
		guest.pumpUntil(t, func(m OnlineModel) bool { return m.snapshot.State.Ticks > ticks })
		if guest.model.snapshot.State.Right.Position.Y > start.Right.Position.Y {
			break
		}
	}

	s := guest.model.snapshot.State
	if s.Right.Position.Y <= start.Right.Position.Y {
		t.Fatal("right paddle did not move")
	}
	if s.Left.Position.Y != start.Left.Position.Y {
		t.Error("the guest moved the host's paddle")
	}
}

func TestOnlineJoinUnknownCode(t *testing.T) {
	_, _, guest := newOnlineLobby(t)

	joinWithCode(t, guest, "zzzzzz")
	guest.pumpUntil(t, inState(OnlineStateEnterCode))
	if guest.model.errMsg != "Lobby not found" {
		t.Errorf("errMsg = %q", guest.model.errMsg)
	}
	if !strings.Contains(guest.model.View(), "Lobby not found") {
		t.Error("join error not shown")
	}
}

func TestOnlineLeaveEndsMatchForOpponent(t *testing.T) {
	host, guest := startOnlineMatch(t)

	guest.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	if guest.model.State() != OnlineStateChooseMode || guest.model.errMsg != "You left the match" {
		t.Errorf("guest state = %v, err %q", guest.model.State(), guest.model.errMsg)
	}

	host.pumpUntil(t, inState(OnlineStateMatchOver))
	if !strings.Contains(host.model.View(), multiplayer.MatchEndReasonLeft.String()) {
		t.Errorf("match over view = %q", host.model.View())
	}

	host.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if host.model.State() != OnlineStateChooseMode {
		t.Errorf("state = %v after enter, expected ChooseMode", host.model.State())
	}
}

func TestOnlineCancelHosting(t *testing.T) {
	coord, host, _ := newOnlineLobby(t)

	host.send(t, runes("h"))
	host.pumpUntil(t, inState(OnlineStateHostWaiting))
	host.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	if host.model.State() != OnlineStateChooseMode {
		t.Fatalf("state = %v, expected ChooseMode", host.model.State())
	}

	// Hosting again only works once the cancel went through
	host.send(t, runes("h"))
	host.pumpUntil(t, inState(OnlineStateHostWaiting))
	if coord.LobbyCount() != 1 {
		t.Errorf("LobbyCount() = %d, expected 1", coord.LobbyCount())
	}

	host.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	host.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	if !host.model.BackToMenu() {
		t.Error("esc on the mode screen should go back")
	}
}

func TestOnlineDifficultyChoice(t *testing.T) {
	_, host, _ := newOnlineLobby(t)

	host.send(t, tea.KeyMsg{Type: tea.KeyRight})
	if host.model.difficulty != config.DifficultyHard {
		t.Errorf("difficulty = %v, expected hard", host.model.difficulty)
	}
	host.send(t, tea.KeyMsg{Type: tea.KeyLeft})
	host.send(t, tea.KeyMsg{Type: tea.KeyLeft})
	if host.model.difficulty != config.DifficultyEasy {
		t.Errorf("difficulty = %v, expected easy", host.model.difficulty)
	}
}

func TestSessionModelPicksMode(t *testing.T) {
	_, host, _ := newOnlineLobby(t)
	local, _ := newTestModel(t, Options{Embedded: true})
	m := NewSessionModel(local, host.model, 80)

	update := func(msg tea.Msg) {
		t.Helper()
		next, _ := m.Update(msg)
		model, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = model
	}

	if !strings.Contains(m.View(), "Local match") {
		t.Error("picker not shown")
	}

	update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeLocal {
		t.Fatalf("mode = %v, expected local", m.mode)
	}
	update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modePicker {
		t.Fatalf("esc on the setup form should return to the picker, mode = %v", m.mode)
	}

	update(tea.KeyMsg{Type: tea.KeyDown})
	update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeOnline || !strings.Contains(m.View(), "ONLINE PONG") {
		t.Fatalf("mode = %v, expected online", m.mode)
	}
	update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modePicker {
		t.Fatalf("mode = %v, expected picker", m.mode)
	}

	update(runes("q"))
	if !m.quitting {
		t.Error("q on the picker should quit")
	}
}
