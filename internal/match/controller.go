package match

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/engine"
)

// StepResult reports what happened during one Step.
type StepResult struct {
	Scored core.Side // Side that won a point this tick, if any
	Ended  bool
	Winner core.Side
	Timer  *EndTimer // Set when the match just ended; the driver must schedule it
}

// EndTimer asks the frame driver to call CompleteEnd(Generation) after Delay.
type EndTimer struct {
	Generation uint64
	Delay      time.Duration
	Target     Phase
}

// Option configures a Controller.
type Option func(*Controller)

// WithResultSaver sets where finished matches are recorded.
func WithResultSaver(s ResultSaver) Option {
	return func(c *Controller) {
		c.saver = s
	}
}

// WithLogger sets the controller logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the clock used to date results.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller owns one match. It is the single writer of the match state and
// is not safe for concurrent use; drive it from one loop.
type Controller struct {
	cfg    config.PongConfig
	eng    *engine.Engine
	saver  ResultSaver
	logger *log.Logger
	now    func() time.Time

	state State
}

// NewController creates a controller in the Menu phase at the configured
// default difficulty.
func NewController(eng *engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		cfg:    eng.Config(),
		eng:    eng,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.state.Phase = PhaseMenu
	c.state.Difficulty = c.cfg.Difficulty.Default
	c.resetBoard()
	return c
}

// Config returns the match configuration.
func (c *Controller) Config() config.PongConfig {
	return c.cfg
}

// Snapshot returns a copy of the current state for readers.
func (c *Controller) Snapshot() State {
	return c.state
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.state.Phase
}

// Start validates the names and begins a fresh match.
// Invalid names leave the controller untouched and return a *NameErrors.
func (c *Controller) Start(left, right string) error {
	players, err := ValidateNames(left, right)
	if err != nil {
		return err
	}
	// Paused -> Playing is resume, not a new match.
	if c.state.Phase != PhaseMenu {
		return transitionError(c.state.Phase, PhasePlaying)
	}

	c.state.Generation++
	c.resetBoard()
	c.state.Players = players
	c.state.Phase = PhasePlaying

	c.logger.Info("match started",
		"left", players.Left,
		"right", players.Right,
		"difficulty", c.state.Difficulty,
		"generation", c.state.Generation)
	return nil
}

// SetControls replaces the held-key snapshot read by the next Step.
// Ignored unless the match is playing.
func (c *Controller) SetControls(in core.ControlInput) {
	if c.state.Phase != PhasePlaying {
		return
	}
	c.state.Controls = in
}

// Step advances the match by one frame. It does nothing unless playing.
func (c *Controller) Step() StepResult {
	if c.state.Phase != PhasePlaying {
		return StepResult{}
	}
	c.state.Ticks++

	left, right := c.eng.UpdatePaddles(c.state.Left, c.state.Right, c.state.Controls)
	ball, scored := c.eng.UpdateBall(c.state.Ball, left, right, c.state.Difficulty)
	c.state.Left, c.state.Right, c.state.Ball = left, right, ball

	if scored == core.SideNone {
		return StepResult{}
	}

	switch scored {
	case core.SideLeft:
		c.state.Score.Left++
	case core.SideRight:
		c.state.Score.Right++
	}
	c.state.Ball = c.eng.ResetBall(c.state.Difficulty)

	res := StepResult{Scored: scored}
	ended, winner := engine.CheckGameEnd(c.state.Score.Left, c.state.Score.Right, c.cfg.Gameplay.WinScore)
	if !ended {
		c.logger.Debug("point", "side", scored, "score", c.state.Score)
		return res
	}

	c.state.Winner = winner
	c.saveResult()

	c.state.Phase = PhasePaused
	c.state.Controls = core.ControlInput{}

	res.Ended = true
	res.Winner = winner
	res.Timer = &EndTimer{
		Generation: c.state.Generation,
		Delay:      c.cfg.Gameplay.EndDelay(),
		Target:     c.endTarget(),
	}

	c.logger.Info("match ended",
		"winner", c.state.WinnerName(),
		"score", c.state.Score,
		"ticks", c.state.Ticks)
	return res
}

// CompleteEnd performs the delayed post-match transition scheduled by Step.
// Timers from an earlier match, or for a match that was already reset,
// are rejected and return false.
func (c *Controller) CompleteEnd(generation uint64) bool {
	if generation != c.state.Generation {
		c.logger.Debug("stale end timer ignored", "timer", generation, "current", c.state.Generation)
		return false
	}
	if c.state.Phase != PhasePaused || c.state.Winner == core.SideNone {
		return false
	}

	target := c.endTarget()
	if !CanTransition(c.state.Phase, target) {
		return false
	}
	c.state.Phase = target
	return true
}

// Pause freezes a live rally and releases every held key.
func (c *Controller) Pause() error {
	if c.state.Phase != PhasePlaying || c.state.Winner != core.SideNone {
		return transitionError(c.state.Phase, PhasePaused)
	}
	c.state.Phase = PhasePaused
	c.state.Controls = core.ControlInput{}
	return nil
}

// Resume continues a paused rally.
func (c *Controller) Resume() error {
	if c.state.Phase != PhasePaused || c.state.Winner != core.SideNone {
		return transitionError(c.state.Phase, PhasePlaying)
	}
	c.state.Phase = PhasePlaying
	return nil
}

// TogglePause pauses a playing match or resumes a paused one.
func (c *Controller) TogglePause() error {
	if c.state.Phase == PhasePaused {
		return c.Resume()
	}
	return c.Pause()
}

// Reset abandons the current match and returns to the menu with a fresh
// board. Player names are cleared unless configured otherwise.
func (c *Controller) Reset() {
	c.state.Phase = PhaseResetting
	c.state.Generation++
	c.resetBoard()
	if !c.cfg.Gameplay.KeepNamesOnReset {
		c.state.Players = Players{}
	}
	c.state.Phase = PhaseMenu

	c.logger.Debug("match reset", "generation", c.state.Generation)
}

// Restart resets the board and immediately starts again with the same players.
func (c *Controller) Restart() error {
	players := c.state.Players
	c.Reset()
	return c.Start(players.Left, players.Right)
}

// NewMatch leaves a finished match for the menu, keeping the player names
// for the next setup.
func (c *Controller) NewMatch() error {
	finished := c.state.Phase == PhaseEnded ||
		(c.state.Phase == PhasePaused && c.state.Winner != core.SideNone)
	if !finished {
		return transitionError(c.state.Phase, PhaseMenu)
	}

	c.state.Generation++
	c.resetBoard()
	c.state.Phase = PhaseMenu
	return nil
}

// SetDifficulty changes the ball speed preset and re-serves the ball.
// It is rejected while a rally is live.
func (c *Controller) SetDifficulty(d config.Difficulty) error {
	if c.state.RallyLive() {
		return ErrMatchInProgress
	}
	if _, err := config.ParseDifficulty(string(d)); err != nil {
		return err
	}
	c.state.Difficulty = d
	c.state.Ball = c.eng.ResetBall(d)
	return nil
}

// resetBoard restores paddles, ball, score, controls and winner.
func (c *Controller) resetBoard() {
	c.state.Left, c.state.Right = c.eng.NewPaddles()
	c.state.Ball = c.eng.ResetBall(c.state.Difficulty)
	c.state.Score = Score{}
	c.state.Controls = core.ControlInput{}
	c.state.Winner = core.SideNone
	c.state.Ticks = 0
}

func (c *Controller) endTarget() Phase {
	if c.cfg.Gameplay.EndPhase == config.EndPhaseMenu {
		return PhaseMenu
	}
	return PhaseEnded
}

// saveResult hands the finished match to the saver. Failures are logged
// and never interrupt the match.
func (c *Controller) saveResult() {
	if c.saver == nil {
		return
	}
	r := Result{
		ID:         uuid.NewString(),
		LeftName:   c.state.Players.Left,
		RightName:  c.state.Players.Right,
		Difficulty: c.state.Difficulty,
		Score:      c.state.Score.String(),
		Winner:     c.state.Winner,
		PlayedAt:   c.now(),
	}
	if err := c.saver.SaveResult(r); err != nil {
		c.logger.Error("cannot save match result", "match", r.ID, "err", err)
	}
}
