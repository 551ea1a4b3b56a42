package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/match"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
)

// OnlineState is a step of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode  OnlineState = iota // Host or join
	OnlineStateHostWaiting                    // Lobby open, waiting for a joiner
	OnlineStateEnterCode                      // Typing a join code
	OnlineStateJoinWaiting                    // Join sent, waiting for the match
	OnlineStateInMatch                        // Playing
	OnlineStateMatchOver                      // The match was torn down
)

// OnlineKeyMap defines the key bindings of the online flow.
type OnlineKeyMap struct {
	Host    key.Binding
	Join    key.Binding
	Submit  key.Binding
	Up      key.Binding
	Down    key.Binding
	Pause   key.Binding
	Rematch key.Binding
	Harder  key.Binding
	Easier  key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// DefaultOnlineKeyMap returns the default online bindings. Both the w/s and
// arrow keys move the paddle the session controls.
func DefaultOnlineKeyMap() OnlineKeyMap {
	return OnlineKeyMap{
		Host: key.NewBinding(
			key.WithKeys("h", "1"),
			key.WithHelp("h", "host"),
		),
		Join: key.NewBinding(
			key.WithKeys("j", "2"),
			key.WithHelp("j", "join"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Up: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("w/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s/↓", "down"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Rematch: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rematch"),
		),
		Harder: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "harder"),
		),
		Easier: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "easier"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// OnlineModel plays pong against another SSH session through the coordinator.
type OnlineModel struct {
	coordinator *multiplayer.Coordinator
	session     *multiplayer.ChannelSession
	name        string
	difficulty  config.Difficulty
	cfg         config.PongConfig
	screen      *core.Screen
	width       int
	height      int
	keys        OnlineKeyMap
	help        help.Model
	codeInput   textinput.Model

	state     OnlineState
	lobbyCode string
	errMsg    string

	matchID  multiplayer.MatchID
	side     core.Side
	players  match.Players
	snapshot multiplayer.SnapshotEvent
	synced   bool
	ended    multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online flow for one session. name is the
// player name shown to the opponent.
func NewOnlineModel(
	coordinator *multiplayer.Coordinator,
	session *multiplayer.ChannelSession,
	name string,
	cfg config.PongConfig,
	width, height int,
) OnlineModel {
	in := textinput.New()
	in.Placeholder = "ABCDEF"
	in.CharLimit = multiplayer.CodeLength
	in.Width = multiplayer.CodeLength + 1
	in.Prompt = ""

	return OnlineModel{
		coordinator: coordinator,
		session:     session,
		name:        name,
		difficulty:  cfg.Difficulty.Default,
		cfg:         cfg,
		screen:      core.NewScreen(width, height),
		width:       width,
		height:      height,
		keys:        DefaultOnlineKeyMap(),
		help:        help.New(),
		codeInput:   in,
	}
}

// Init starts listening for coordinator events.
func (m OnlineModel) Init() tea.Cmd {
	return waitForEvent(m.session)
}

// waitForEvent returns a command that delivers the next session event.
func waitForEvent(s *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-s.Events():
			return evt
		case <-s.Done():
			return nil
		}
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case multiplayer.SessionEvent:
		m = m.handleEvent(msg)
		return m, waitForEvent(m.session)
	}

	if m.state == OnlineStateEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m OnlineModel) handleEvent(evt multiplayer.SessionEvent) OnlineModel {
	switch evt := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		if m.state == OnlineStateChooseMode {
			m.lobbyCode = evt.Code
			m.state = OnlineStateHostWaiting
		}

	case multiplayer.LobbyErrorEvent:
		m.errMsg = evt.Message
		switch m.state {
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
		case OnlineStateJoinWaiting:
			m.state = OnlineStateEnterCode
			m.codeInput.Focus()
		}

	case multiplayer.MatchStartedEvent:
		m.matchID = evt.MatchID
		m.lobbyCode = evt.Code
		m.side = evt.Side
		m.players = evt.Players
		m.synced = false
		m.errMsg = ""
		m.state = OnlineStateInMatch

	case multiplayer.SnapshotEvent:
		if m.state == OnlineStateInMatch && evt.MatchID == m.matchID {
			m.snapshot = evt
			m.synced = true
		}

	case multiplayer.MatchEndedEvent:
		switch {
		case m.state == OnlineStateInMatch && evt.MatchID == m.matchID:
			m.ended = evt
			m.state = OnlineStateMatchOver
		case m.state == OnlineStateHostWaiting && evt.Reason == multiplayer.MatchEndReasonShutdown:
			m.ended = evt
			m.state = OnlineStateMatchOver
		}
	}
	return m
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseKey(msg)
	case OnlineStateHostWaiting:
		if key.Matches(msg, m.keys.Back) {
			m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.session.ID(), Code: m.lobbyCode})
			m.state = OnlineStateChooseMode
		}
	case OnlineStateEnterCode:
		return m.handleCodeKey(msg)
	case OnlineStateInMatch:
		m.handleMatchKey(msg)
	case OnlineStateMatchOver:
		if key.Matches(msg, m.keys.Back, m.keys.Submit) {
			m.state = OnlineStateChooseMode
		}
	}
	return m, nil
}

func (m OnlineModel) handleChooseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Host):
		m.errMsg = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID:  m.session.ID(),
			Name:       m.name,
			Difficulty: m.difficulty,
		})
	case key.Matches(msg, m.keys.Join):
		m.errMsg = ""
		m.state = OnlineStateEnterCode
		m.codeInput.SetValue("")
		return m, m.codeInput.Focus()
	case key.Matches(msg, m.keys.Harder):
		m.difficulty = m.difficulty.Next()
	case key.Matches(msg, m.keys.Easier):
		m.difficulty = m.difficulty.Prev()
	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
	}
	return m, nil
}

func (m OnlineModel) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.codeInput.Blur()
		m.state = OnlineStateChooseMode
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		code := strings.ToUpper(strings.TrimSpace(m.codeInput.Value()))
		if code == "" {
			return m, nil
		}
		m.codeInput.Blur()
		m.errMsg = ""
		m.lobbyCode = code
		m.state = OnlineStateJoinWaiting
		m.coordinator.Send(multiplayer.JoinLobbyMsg{
			SessionID: m.session.ID(),
			Name:      m.name,
			Code:      code,
		})
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

func (m *OnlineModel) handleMatchKey(msg tea.KeyMsg) {
	id := m.session.ID()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.coordinator.Send(multiplayer.PressMsg{MatchID: m.matchID, SessionID: id, Up: true})
	case key.Matches(msg, m.keys.Down):
		m.coordinator.Send(multiplayer.PressMsg{MatchID: m.matchID, SessionID: id, Up: false})
	case key.Matches(msg, m.keys.Pause):
		m.coordinator.Send(multiplayer.PauseMsg{MatchID: m.matchID, SessionID: id})
	case key.Matches(msg, m.keys.Rematch):
		if m.snapshot.State.Winner != core.SideNone {
			m.coordinator.Send(multiplayer.RematchMsg{MatchID: m.matchID, SessionID: id})
		}
	case key.Matches(msg, m.keys.Back):
		m.coordinator.Send(multiplayer.LeaveMatchMsg{MatchID: m.matchID, SessionID: id})
		m.errMsg = "You left the match"
		m.state = OnlineStateChooseMode
	}
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateInMatch:
		if m.synced {
			return m.matchView()
		}
		return m.page("MATCH STARTING", m.sideText(), "Get ready!")
	case OnlineStateHostWaiting:
		return m.page("HOSTING",
			"Share this code with your opponent:",
			focusedStyle.Render(fmt.Sprintf("[ %s ]", m.lobbyCode)),
			fmt.Sprintf("%s · first to %d", m.difficulty.Title(), m.cfg.Gameplay.WinScore),
			"Waiting for a player to join...",
			helpStyle.Render("esc cancel"))
	case OnlineStateEnterCode:
		return m.page("JOIN MATCH",
			"Enter the join code:",
			m.codeInput.View(),
			m.errLine(),
			helpStyle.Render("enter connect  esc back"))
	case OnlineStateJoinWaiting:
		return m.page("CONNECTING", fmt.Sprintf("Joining %s...", m.lobbyCode))
	case OnlineStateMatchOver:
		return m.page("MATCH OVER", m.overLines()...)
	default:
		return m.page("ONLINE PONG",
			labelStyle.Render("Playing as "+m.name),
			"",
			"[h] Host a match",
			"[j] Join with a code",
			"",
			fmt.Sprintf("Difficulty  < %s >", m.difficulty.Title()),
			m.errLine(),
			helpStyle.Render(m.help.ShortHelpView([]key.Binding{
				m.keys.Host, m.keys.Join, m.keys.Easier, m.keys.Harder, m.keys.Back, m.keys.Quit,
			})))
	}
}

// page renders a centered title with lines under it.
func (m OnlineModel) page(title string, lines ...string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnlineModel) errLine() string {
	if m.errMsg == "" {
		return ""
	}
	return errorStyle.Render(m.errMsg)
}

func (m OnlineModel) sideText() string {
	return fmt.Sprintf("You play %s as %s", m.side, m.players.Name(m.side))
}

func (m OnlineModel) overLines() []string {
	lines := []string{m.ended.Reason.String()}
	if m.ended.Winner != core.SideNone {
		lines = append(lines, fmt.Sprintf("%s won %s", m.players.Name(m.ended.Winner), m.ended.Score))
	}
	return append(lines, "", helpStyle.Render("enter continue"))
}

func (m OnlineModel) matchView() string {
	drawMatch(m.screen, m.snapshot.State, m.cfg, m.hints())

	if y := m.screen.Height() - 1; y >= 1 {
		footer := fmt.Sprintf("%s  ·  code %s  ·  w/s or ↑/↓ move  space pause  esc leave", m.sideText(), m.lobbyCode)
		m.screen.DrawTextColored(1, y, footer, core.ColorDim)
	}
	return RenderScreen(m.screen)
}

// hints builds the overlay hints, including the rematch handshake.
func (m OnlineModel) hints() overlayHints {
	opponent := m.players.Name(m.side.Opponent())
	ended := "r rematch  esc leave"
	switch r := m.snapshot.Rematch; {
	case r.Wants(m.side):
		ended = fmt.Sprintf("waiting for %s...  esc leave", opponent)
	case r.Wants(m.side.Opponent()):
		ended = fmt.Sprintf("%s wants a rematch: r accept  esc leave", opponent)
	}
	return overlayHints{ended: ended, paused: "space to resume  esc to leave"}
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// Side returns the side this session controls in the current match.
func (m OnlineModel) Side() core.Side {
	return m.side
}

// MatchID returns the current match ID.
func (m OnlineModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// BackToMenu reports whether the player left the online flow.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the player quit.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}
