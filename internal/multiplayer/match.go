package multiplayer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/match"
)

// MatchResult is what an online match reports when its loop exits.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  core.Side
	Score   match.Score
	Ticks   int
}

// MatchConfig tunes one online match loop.
type MatchConfig struct {
	TickRate   int           // Simulation steps per second
	HoldWindow time.Duration // How long a remote key press holds a paddle

	// Now is the clock for holds and the end delay; nil means time.Now.
	Now    func() time.Time
	Logger *log.Logger
}

type commandKind int

const (
	cmdPress commandKind = iota
	cmdPause
	cmdRematch
	cmdLeave
	cmdDisconnect
)

type command struct {
	kind    commandKind
	session SessionID
	up      bool
}

// OnlineMatch is an authoritative match between two sessions. Its loop is
// the only goroutine that touches the controller; sessions reach it through
// commands and receive snapshots.
type OnlineMatch struct {
	id       MatchID
	code     string
	ctrl     *match.Controller
	seats    [2]Seat
	hold     *core.HoldTracker
	tickRate int
	now      func() time.Time
	logger   *log.Logger

	rematch Rematch
	endGen  uint64
	endAt   time.Time // Zero unless a post-match delay is running

	cmds chan command
	done chan struct{}
	once sync.Once
}

// NewOnlineMatch wraps a started controller. left and right must be the
// seats for core.SideLeft and core.SideRight.
func NewOnlineMatch(id MatchID, code string, ctrl *match.Controller, left, right Seat, cfg MatchConfig) *OnlineMatch {
	if cfg.TickRate <= 0 {
		cfg.TickRate = match.DefaultTickRate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	left.Side, right.Side = core.SideLeft, core.SideRight

	return &OnlineMatch{
		id:       id,
		code:     code,
		ctrl:     ctrl,
		seats:    [2]Seat{left, right},
		hold:     core.NewHoldTracker(cfg.HoldWindow),
		tickRate: cfg.TickRate,
		now:      cfg.Now,
		logger:   cfg.Logger.With("match", id),
		cmds:     make(chan command, 64),
		done:     make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code the match was created from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Seat returns the seat playing side.
func (m *OnlineMatch) Seat(side core.Side) Seat {
	return m.seats[seatIndex(side)]
}

// SideOf returns the side a session controls, or SideNone.
func (m *OnlineMatch) SideOf(id SessionID) core.Side {
	for _, seat := range m.seats {
		if seat.Session.ID() == id {
			return seat.Side
		}
	}
	return core.SideNone
}

// Press queues a paddle key press from a session.
func (m *OnlineMatch) Press(id SessionID, up bool) {
	m.enqueue(command{kind: cmdPress, session: id, up: up})
}

// TogglePause queues a pause toggle from a session.
func (m *OnlineMatch) TogglePause(id SessionID) {
	m.enqueue(command{kind: cmdPause, session: id})
}

// RequestRematch queues a rematch request from a session.
func (m *OnlineMatch) RequestRematch(id SessionID) {
	m.enqueue(command{kind: cmdRematch, session: id})
}

// Leave ends the match because a player walked away.
func (m *OnlineMatch) Leave(id SessionID) {
	m.enqueue(command{kind: cmdLeave, session: id})
}

// PlayerDisconnected ends the match because a session closed.
func (m *OnlineMatch) PlayerDisconnected(id SessionID) {
	m.enqueue(command{kind: cmdDisconnect, session: id})
}

func (m *OnlineMatch) enqueue(c command) {
	select {
	case m.cmds <- c:
	case <-m.done:
	}
}

// Run drives the match until a player leaves or Stop is called.
// onComplete is called from the loop goroutine before Run returns, except
// after Stop.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.monitorSessions()
	m.broadcast()

	for {
		select {
		case <-ticker.C:
			m.step(m.now())

		case c := <-m.cmds:
			if reason, over := m.handle(c, m.now()); over {
				res := m.result(reason)
				m.logger.Info("online match over", "reason", reason, "score", res.Score, "ticks", res.Ticks)
				if onComplete != nil {
					onComplete(res)
				}
				return
			}

		case <-m.done:
			return
		}
	}
}

// Stop ends the loop without reporting a result. Safe to call more than once.
func (m *OnlineMatch) Stop() {
	m.once.Do(func() {
		close(m.done)
	})
}

// step advances the simulation one frame, fires a due end delay and
// broadcasts the new state.
func (m *OnlineMatch) step(now time.Time) {
	m.ctrl.SetControls(m.hold.Snapshot(now))
	if res := m.ctrl.Step(); res.Timer != nil {
		m.endGen = res.Timer.Generation
		m.endAt = now.Add(res.Timer.Delay)
		m.hold.Release()
	}

	if !m.endAt.IsZero() && !now.Before(m.endAt) {
		m.ctrl.CompleteEnd(m.endGen)
		m.endAt = time.Time{}
	}

	m.broadcast()
}

// handle applies one command. It reports whether the match is over.
func (m *OnlineMatch) handle(c command, now time.Time) (MatchEndReason, bool) {
	side := m.SideOf(c.session)
	if side == core.SideNone {
		return 0, false
	}

	switch c.kind {
	case cmdPress:
		if m.ctrl.Phase() == match.PhasePlaying {
			m.hold.Press(side, c.up, now)
		}

	case cmdPause:
		if !m.ctrl.Snapshot().CanTogglePause() {
			return 0, false
		}
		if err := m.ctrl.TogglePause(); err != nil {
			m.logger.Debug("pause rejected", "err", err)
			return 0, false
		}
		m.hold.Release()
		m.logger.Debug("pause toggled", "by", side, "phase", m.ctrl.Phase())
		m.broadcast()

	case cmdRematch:
		if m.ctrl.Snapshot().Winner == core.SideNone {
			return 0, false
		}
		if side == core.SideLeft {
			m.rematch.Left = true
		} else {
			m.rematch.Right = true
		}
		if m.rematch.Left && m.rematch.Right {
			m.restart()
		}
		m.broadcast()

	case cmdLeave:
		return MatchEndReasonLeft, true

	case cmdDisconnect:
		return MatchEndReasonDisconnect, true
	}
	return 0, false
}

func (m *OnlineMatch) restart() {
	m.rematch = Rematch{}
	m.endAt = time.Time{}
	m.hold.Release()
	if err := m.ctrl.Restart(); err != nil {
		m.logger.Error("rematch failed", "err", err)
		return
	}
	m.logger.Info("rematch started", "generation", m.ctrl.Snapshot().Generation)
}

func (m *OnlineMatch) broadcast() {
	evt := SnapshotEvent{
		MatchID: m.id,
		State:   m.ctrl.Snapshot(),
		Rematch: m.rematch,
	}
	for _, seat := range m.seats {
		seat.Session.Send(evt)
	}
}

func (m *OnlineMatch) result(reason MatchEndReason) MatchResult {
	s := m.ctrl.Snapshot()
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  s.Winner,
		Score:   s.Score,
		Ticks:   s.Ticks,
	}
}

func (m *OnlineMatch) monitorSessions() {
	left, right := m.seats[0].Session, m.seats[1].Session
	select {
	case <-left.Done():
		m.PlayerDisconnected(left.ID())
	case <-right.Done():
		m.PlayerDisconnected(right.ID())
	case <-m.done:
	}
}
