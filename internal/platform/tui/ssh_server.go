package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.pong/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate for every session.
	TickRate int

	// HoldWindow is how long a key press holds a paddle.
	HoldWindow time.Duration

	// LobbyTimeout is how long an online lobby waits for a joiner.
	LobbyTimeout time.Duration

	// Pong is the match configuration shared by all sessions.
	Pong config.PongConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		IdleTimeout:  30 * time.Minute,
		TickRate:     core.DefaultConfig().TickRate,
		HoldWindow:   core.DefaultHoldWindow,
		LobbyTimeout: multiplayer.DefaultCoordinatorConfig().LobbyTimeout,
		Pong:         config.DefaultPongConfig(),
	}
}

// SSHServer wraps a Wish SSH server. Each session can play a local match
// at its own keyboard or an online match against another session; all
// sessions share the match history.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer creates a new SSH server. store may be nil to run without
// history; the server does not close it.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "pong-ssh",
		})
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		logger:   logger,
		sessions: multiplayer.NewSessionRegistry(),
	}

	coordOpts := []multiplayer.CoordinatorOption{multiplayer.WithLogger(logger.With("component", "lobby"))}
	if store != nil {
		coordOpts = append(coordOpts, multiplayer.WithResultSaver(store))
	}
	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.TickRate
	coordCfg.HoldWindow = cfg.HoldWindow
	coordCfg.Pong = cfg.Pong
	if cfg.LobbyTimeout > 0 {
		coordCfg.LobbyTimeout = cfg.LobbyTimeout
	}
	srv.coordinator = multiplayer.NewCoordinator(coordCfg, srv.sessions, coordOpts...)

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".pong", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sess.User(), time.Now().UnixNano()))
	handle := multiplayer.NewChannelSession(id, multiplayer.DefaultEventBuffer)
	s.sessions.Register(handle)
	go func() {
		<-sess.Context().Done()
		handle.Close()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
	}()

	local := NewModel(Options{
		Config: s.config.Pong,
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.TickRate,
			Seed:     time.Now().UnixNano(),
		},
		Store:      s.store,
		Logger:     s.logger.With("user", sess.User()),
		LeftName:   sess.User(),
		HoldWindow: s.config.HoldWindow,
		Embedded:   true,
	})
	online := NewOnlineModel(s.coordinator, handle, sess.User(), s.config.Pong, pty.Window.Width, pty.Window.Height)

	return NewSessionModel(local, online, pty.Window.Width), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown ends the online matches and gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	s.coordinator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionMode is the screen a SessionModel shows.
type sessionMode int

const (
	modePicker sessionMode = iota
	modeLocal
	modeOnline
)

var sessionModes = []string{"Local match  (two players, one keyboard)", "Online match (play another SSH session)"}

// SessionModel lets an SSH user pick a local or an online match. Both
// sub-models live for the whole session so their tick and event loops keep
// running while the picker is shown.
type SessionModel struct {
	local    Model
	online   OnlineModel
	mode     sessionMode
	cursor   int
	width    int
	quitting bool
}

// NewSessionModel creates the picker around the two play modes.
func NewSessionModel(local Model, online OnlineModel, width int) SessionModel {
	return SessionModel{
		local:  local,
		online: online,
		width:  width,
	}
}

// Init starts both sub-models.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.local.Init(), m.online.Init())
}

// Update routes keys to the active screen and everything else to the
// sub-model that owns it.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		var localCmd, onlineCmd tea.Cmd
		m.local, localCmd = updateLocal(m.local, msg)
		m.online, onlineCmd = updateOnline(m.online, msg)
		return m, tea.Batch(localCmd, onlineCmd)

	case TickMsg, endTimerMsg:
		var cmd tea.Cmd
		m.local, cmd = updateLocal(m.local, msg)
		return m, cmd

	case multiplayer.SessionEvent:
		var cmd tea.Cmd
		m.online, cmd = updateOnline(m.online, msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.mode == modeOnline {
		m.online, cmd = updateOnline(m.online, msg)
	} else {
		m.local, cmd = updateLocal(m.local, msg)
	}
	return m, cmd
}

func (m SessionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeLocal:
		m.local, cmd = updateLocal(m.local, msg)
		if m.local.BackToMenu() {
			m.local.backToMenu = false
			m.mode = modePicker
		}
		return m, cmd
	case modeOnline:
		m.online, cmd = updateOnline(m.online, msg)
		if m.online.BackToMenu() {
			m.online.backToMenu = false
			m.mode = modePicker
		}
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k", "w":
		m.cursor = (m.cursor + len(sessionModes) - 1) % len(sessionModes)
	case "down", "j", "s", "tab":
		m.cursor = (m.cursor + 1) % len(sessionModes)
	case "enter", " ":
		if m.cursor == 0 {
			m.mode = modeLocal
		} else {
			m.mode = modeOnline
		}
	}
	return m, nil
}

func updateLocal(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	if local, ok := next.(Model); ok {
		m = local
	}
	return m, cmd
}

func updateOnline(m OnlineModel, msg tea.Msg) (OnlineModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	if online, ok := next.(OnlineModel); ok {
		m = online
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.mode {
	case modeLocal:
		return m.local.View()
	case modeOnline:
		return m.online.View()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  P O N G  "), m.width))
	b.WriteString("\n\n")
	for i, name := range sessionModes {
		line := labelStyle.Render("  " + name)
		if i == m.cursor {
			line = focusedStyle.Render("> " + name)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render("↑/↓ choose  enter select  q quit"), m.width))
	b.WriteString("\n")
	return b.String()
}
