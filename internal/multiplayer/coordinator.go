package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/engine"
	"github.com/vovakirdan/tui-pong/internal/match"
)

// CodeLength is the number of characters in a join code.
const CodeLength = 6

// Lobby is an open match waiting for its second player.
type Lobby struct {
	Code       string
	Host       SessionHandle
	HostName   string
	Difficulty config.Difficulty
	CreatedAt  time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long an unjoined lobby stays open
	CleanupPeriod time.Duration // How often expired lobbies are swept
	TickRate      int           // Simulation rate of every online match
	HoldWindow    time.Duration // How long a remote key press holds a paddle
	Pong          config.PongConfig
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		TickRate:      match.DefaultTickRate,
		HoldWindow:    core.DefaultHoldWindow,
		Pong:          config.DefaultPongConfig(),
	}
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithResultSaver records every finished online match.
func WithResultSaver(s match.ResultSaver) CoordinatorOption {
	return func(c *Coordinator) {
		c.saver = s
	}
}

// WithLogger sets the coordinator logger.
func WithLogger(l *log.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Coordinator pairs sessions through lobbies and owns the running matches.
// Requests arrive on a queue and are handled one at a time.
type Coordinator struct {
	config   CoordinatorConfig
	sessions *SessionRegistry
	saver    match.ResultSaver
	logger   *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	matches map[MatchID]*OnlineMatch

	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator. Call Start before sending messages.
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry, opts ...CoordinatorOption) *Coordinator {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	// Online matches stay on the end screen so both players can ask for a rematch.
	cfg.Pong.Gameplay.EndPhase = config.EndPhaseEnded

	c := &Coordinator{
		config:       cfg,
		sessions:     sessions,
		logger:       log.New(io.Discard),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins processing messages and sweeping expired lobbies.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop ends every running match and stops the coordinator.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()
		for id, m := range c.matches {
			m.Stop()
			evt := MatchEndedEvent{MatchID: id, Reason: MatchEndReasonShutdown}
			for _, seat := range m.seats {
				seat.Session.Send(evt)
			}
		}
		for _, lobby := range c.lobbies {
			lobby.Host.Send(MatchEndedEvent{Reason: MatchEndReasonShutdown})
		}
		clear(c.matches)
		clear(c.lobbies)
	})
}

// Send queues a message for the coordinator.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case PressMsg:
		if om, ok := c.matchFor(m.MatchID, m.SessionID); ok {
			om.Press(m.SessionID, m.Up)
		}
	case PauseMsg:
		if om, ok := c.matchFor(m.MatchID, m.SessionID); ok {
			om.TogglePause(m.SessionID)
		}
	case RematchMsg:
		if om, ok := c.matchFor(m.MatchID, m.SessionID); ok {
			om.RequestRematch(m.SessionID)
		}
	case LeaveMatchMsg:
		if om, ok := c.matchFor(m.MatchID, m.SessionID); ok {
			om.Leave(m.SessionID)
		}
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	difficulty := msg.Difficulty
	if difficulty == "" {
		difficulty = c.config.Pong.Difficulty.Default
	}
	if _, err := config.ParseDifficulty(string(difficulty)); err != nil {
		session.Send(LobbyErrorEvent{Message: err.Error()})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:       code,
		Host:       session,
		HostName:   strings.TrimSpace(msg.Name),
		Difficulty: difficulty,
		CreatedAt:  time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code

	c.logger.Info("lobby created", "code", code, "host", msg.Name, "difficulty", difficulty)
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if err := c.startMatch(lobby, session, msg.Name); err != nil {
		session.Send(LobbyErrorEvent{Message: joinErrorMessage(err)})
	}
}

// startMatch creates the controller for a lobby and its joiner and starts
// the match loop. Must be called with the lock held. On error the lobby
// stays open for another joiner.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle, joinerName string) error {
	eng := engine.New(c.config.Pong, nil)
	opts := []match.Option{match.WithLogger(c.logger.With("lobby", lobby.Code))}
	if c.saver != nil {
		opts = append(opts, match.WithResultSaver(c.saver))
	}
	ctrl := match.NewController(eng, opts...)
	if err := ctrl.SetDifficulty(lobby.Difficulty); err != nil {
		return err
	}
	if err := ctrl.Start(lobby.HostName, joinerName); err != nil {
		return err
	}

	players := ctrl.Snapshot().Players
	id := MatchID(uuid.NewString())
	om := NewOnlineMatch(id, lobby.Code, ctrl,
		Seat{Session: lobby.Host, Name: players.Left},
		Seat{Session: joiner, Name: players.Right},
		MatchConfig{
			TickRate:   c.config.TickRate,
			HoldWindow: c.config.HoldWindow,
			Logger:     c.logger,
		},
	)

	hostID, joinerID := lobby.Host.ID(), joiner.ID()
	c.matches[id] = om
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, hostID)
	c.sessionMatch[hostID] = id
	c.sessionMatch[joinerID] = id

	for _, seat := range om.seats {
		seat.Session.Send(MatchStartedEvent{
			MatchID: id,
			Code:    lobby.Code,
			Side:    seat.Side,
			Players: players,
		})
	}
	c.logger.Info("online match started", "match", id, "code", lobby.Code, "left", players.Left, "right", players.Right)

	go om.Run(func(res MatchResult) {
		c.handleMatchEnded(res)
	})
	return nil
}

// joinErrorMessage picks the message shown to the joiner.
func joinErrorMessage(err error) string {
	var nameErr *match.NameErrors
	if errors.As(err, &nameErr) {
		if nameErr.Right != "" {
			return nameErr.Right
		}
		return nameErr.Left
	}
	return fmt.Sprintf("Cannot start match: %v", err)
}

func (c *Coordinator) handleMatchEnded(res MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	om, exists := c.matches[res.MatchID]
	if !exists {
		return
	}
	delete(c.matches, res.MatchID)

	evt := MatchEndedEvent{
		MatchID: res.MatchID,
		Reason:  res.Reason,
		Winner:  res.Winner,
		Score:   res.Score,
	}
	for _, seat := range om.seats {
		delete(c.sessionMatch, seat.Session.ID())
		seat.Session.Send(evt)
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	delete(c.lobbies, code)
	delete(c.sessionLobby, msg.SessionID)
	c.logger.Debug("lobby cancelled", "code", code)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	if code, ok := c.sessionLobby[msg.SessionID]; ok {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}
	om, inMatch := c.matches[c.sessionMatch[msg.SessionID]]
	c.mu.Unlock()

	// The match loop takes the lock when it ends, so signal it unlocked.
	if inMatch {
		om.PlayerDisconnected(msg.SessionID)
	}
	c.sessions.Unregister(msg.SessionID)
}

// matchFor returns the match a session belongs to.
func (c *Coordinator) matchFor(id MatchID, session SessionID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sessionMatch[session] != id {
		return nil, false
	}
	om, ok := c.matches[id]
	return om, ok
}

// busy reports whether a session already hosts a lobby or plays a match.
// Must be called with the lock held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.cleanupExpiredLobbies(now)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	if c.config.LobbyTimeout <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
			c.logger.Debug("lobby expired", "code", code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates an uppercase join code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:CodeLength]
}

// Lobby returns an open lobby by code.
func (c *Coordinator) Lobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// Match returns a running match by ID.
func (c *Coordinator) Match(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
