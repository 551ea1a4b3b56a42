package tui

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pong/internal/bot"
	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/engine"
	"github.com/vovakirdan/tui-pong/internal/logging"
	"github.com/vovakirdan/tui-pong/internal/match"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// nameLimit caps the length of a player name in the setup form.
const nameLimit = 16

// view is the screen currently shown.
type view int

const (
	viewSetup view = iota
	viewCourt
	viewScores
)

// Setup form fields, in focus order.
const (
	focusLeft = iota
	focusRight
	focusDifficulty
	numFields
)

// Options configures a game Model.
type Options struct {
	Config     config.PongConfig
	Runtime    core.RuntimeConfig
	Store      *storage.Store // Optional; nil disables history
	Logger     *log.Logger
	CPU        []core.Side // Sides driven by the computer
	LeftName   string
	RightName  string
	Difficulty config.Difficulty // Empty keeps the configured default
	HoldWindow time.Duration
	Now        func() time.Time

	// Embedded models report esc on the setup form through BackToMenu
	// instead of quitting the program.
	Embedded bool
}

// Model is the Bubble Tea model for one pong session: the setup form,
// the court and end screen, and the leaderboard.
type Model struct {
	ctrl    *match.Controller
	cfg     config.PongConfig
	runtime core.RuntimeConfig
	screen  *core.Screen
	store   *storage.Store
	logger  *log.Logger
	clock   *match.FrameClock
	hold    *core.HoldTracker
	cpus    []*bot.CPU
	keys    KeyMap
	help    help.Model
	now     func() time.Time

	view        view
	inputs      [2]textinput.Model
	focus       int
	nameErrs    match.NameErrors
	status      string
	board       ScoreboardModel
	boardReturn view
	embedded    bool
	backToMenu  bool
	quitting    bool
}

// NewModel creates a session model showing the setup form.
func NewModel(opts Options) Model {
	rt := opts.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	if rt.TickRate <= 0 {
		rt.TickRate = match.DefaultTickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ctrlOpts := []match.Option{match.WithLogger(logger), match.WithClock(now)}
	if opts.Store != nil {
		ctrlOpts = append(ctrlOpts, match.WithResultSaver(opts.Store))
	}
	eng := engine.New(opts.Config, rand.New(rand.NewSource(rt.Seed)), engine.WithClock(now)) //nolint:gosec // gameplay randomness
	ctrl := match.NewController(eng, ctrlOpts...)
	if opts.Difficulty != "" {
		if err := ctrl.SetDifficulty(opts.Difficulty); err != nil {
			logger.Warn("ignoring difficulty", "difficulty", opts.Difficulty, "err", err)
		}
	}

	m := Model{
		ctrl:    ctrl,
		cfg:     opts.Config,
		runtime: rt,
		screen:  core.NewScreen(rt.ScreenW, rt.ScreenH),
		store:   opts.Store,
		logger:  logger,
		clock:   match.NewFrameClock(rt.TickRate),
		hold:    core.NewHoldTracker(opts.HoldWindow),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		now:     now,

		embedded: opts.Embedded,
	}
	for _, side := range opts.CPU {
		if side != core.SideNone && !m.isCPU(side) {
			m.cpus = append(m.cpus, bot.NewCPU(side, opts.Config))
		}
	}

	for i, placeholder := range []string{"Player 1", "Player 2"} {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = nameLimit
		in.Width = nameLimit + 1
		in.Prompt = ""
		m.inputs[i] = in
	}
	m.setNames(opts.LeftName, opts.RightName)
	m.focusField(focusLeft)
	return m
}

// Init starts the cursor blink and the frame loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(m.pollInterval()))
}

// BackToMenu reports whether an embedded model asked to leave the setup form.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Snapshot returns the current match state.
func (m Model) Snapshot() match.State {
	return m.ctrl.Snapshot()
}

// pollInterval is how often the frame clock is polled. Polling faster than
// the tick rate keeps frame pacing steady when tea.Tick fires late.
func (m Model) pollInterval() time.Duration {
	return m.clock.Interval() / 2
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.view {
		case viewCourt:
			return m.handleCourtKey(msg)
		case viewScores:
			return m.handleScoresMsg(msg)
		default:
			return m.handleSetupKey(msg)
		}

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case endTimerMsg:
		return m.handleEndTimer(msg)
	}

	if m.view == viewSetup && m.focus < focusDifficulty {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleSetupKey processes keyboard input on the setup form.
func (m Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.focusField((m.focus + 1) % numFields)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.focusField((m.focus + numFields - 1) % numFields)
		return m, nil

	case key.Matches(msg, m.keys.Start):
		return m.startMatch()

	case key.Matches(msg, m.keys.Scores):
		m.openScores(viewSetup)
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.focus == focusDifficulty {
		d := m.ctrl.Snapshot().Difficulty
		switch {
		case key.Matches(msg, m.keys.Harder):
			m.changeDifficulty(d.Next())
		case key.Matches(msg, m.keys.Easier):
			m.changeDifficulty(d.Prev())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// startMatch validates the form and moves to the court.
func (m Model) startMatch() (tea.Model, tea.Cmd) {
	err := m.ctrl.Start(m.inputs[focusLeft].Value(), m.inputs[focusRight].Value())

	var nameErrs *match.NameErrors
	switch {
	case errors.As(err, &nameErrs):
		m.nameErrs = *nameErrs
		if nameErrs.Left != "" {
			m.focusField(focusLeft)
		} else {
			m.focusField(focusRight)
		}
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}

	m.nameErrs = match.NameErrors{}
	m.status = ""
	m.view = viewCourt
	m.hold.Release()
	m.clock.Reset()
	return m, nil
}

// handleCourtKey processes keyboard input while the court is shown.
func (m Model) handleCourtKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.ctrl.Snapshot()
	now := m.now()
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.LeftUp):
		m.hold.Press(core.SideLeft, true, now)
	case key.Matches(msg, m.keys.LeftDown):
		m.hold.Press(core.SideLeft, false, now)
	case key.Matches(msg, m.keys.RightUp):
		m.hold.Press(core.SideRight, true, now)
	case key.Matches(msg, m.keys.RightDown):
		m.hold.Press(core.SideRight, false, now)

	case key.Matches(msg, m.keys.Pause):
		if !s.CanTogglePause() {
			return m, nil
		}
		if err := m.ctrl.TogglePause(); err != nil {
			m.logger.Debug("pause rejected", "err", err)
		}
		m.hold.Release()
		m.clock.Reset()

	case key.Matches(msg, m.keys.Restart):
		if err := m.ctrl.Restart(); err != nil {
			m.status = err.Error()
		}
		m.hold.Release()
		m.clock.Reset()

	case key.Matches(msg, m.keys.NewMatch):
		if s.Winner == core.SideNone {
			return m, nil
		}
		if err := m.ctrl.NewMatch(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.enterSetup()

	case key.Matches(msg, m.keys.Back):
		m.ctrl.Reset()
		m.enterSetup()

	case key.Matches(msg, m.keys.Scores):
		if s.Phase == match.PhasePlaying {
			_ = m.ctrl.Pause()
		}
		m.openScores(viewCourt)

	case key.Matches(msg, m.keys.Harder):
		m.changeDifficulty(s.Difficulty.Next())
	case key.Matches(msg, m.keys.Easier):
		m.changeDifficulty(s.Difficulty.Prev())
	}

	return m, nil
}

// handleScoresMsg forwards input to the leaderboard and returns from it on back.
func (m Model) handleScoresMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.board, cmd = m.board.update(msg)
	switch {
	case m.board.IsQuitting():
		m.quitting = true
	case m.board.IsGoingBack():
		m.view = m.boardReturn
	}
	return m, cmd
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.help.Width = msg.Width
	if m.view == viewScores {
		m.board, _ = m.board.update(msg)
	}
	return m, nil
}

// handleTick steps the match when the frame clock is due.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	next := tickCmd(m.pollInterval())
	if m.view != viewCourt || m.ctrl.Phase() != match.PhasePlaying {
		return m, next
	}
	if !m.clock.Due(now) {
		return m, next
	}

	in := m.hold.Snapshot(now)
	snapshot := m.ctrl.Snapshot()
	for _, cpu := range m.cpus {
		in = cpu.Apply(snapshot, in)
	}
	m.ctrl.SetControls(in)

	res := m.ctrl.Step()
	if res.Timer == nil {
		return m, next
	}
	m.hold.Release()
	return m, tea.Batch(next, endTimerCmd(res.Timer))
}

// handleEndTimer completes the post-match transition.
func (m Model) handleEndTimer(msg endTimerMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.CompleteEnd(msg.generation) {
		return m, nil
	}
	if m.ctrl.Phase() == match.PhaseMenu && m.view == viewCourt {
		m.enterSetup()
	}
	return m, nil
}

// changeDifficulty applies a new preset, reporting when a rally is live.
func (m *Model) changeDifficulty(d config.Difficulty) {
	err := m.ctrl.SetDifficulty(d)
	switch {
	case errors.Is(err, match.ErrMatchInProgress):
		m.status = "difficulty is locked during a match"
	case err != nil:
		m.status = err.Error()
	}
}

// enterSetup shows the setup form prefilled with the current players.
func (m *Model) enterSetup() {
	s := m.ctrl.Snapshot()
	m.view = viewSetup
	m.status = ""
	m.nameErrs = match.NameErrors{}
	m.hold.Release()
	m.clock.Reset()
	m.setNames(s.Players.Left, s.Players.Right)
	m.focusField(focusLeft)
}

// openScores shows the leaderboard, returning to from on back.
func (m *Model) openScores(from view) {
	m.board = NewScoreboardModel(m.store, m.runtime.ScreenW, m.runtime.ScreenH)
	m.board.embedded = true
	m.boardReturn = from
	m.view = viewScores
}

// setNames fills the name inputs. Empty CPU sides get a CPU name.
func (m *Model) setNames(left, right string) {
	for i, side := range []core.Side{core.SideLeft, core.SideRight} {
		name := left
		if side == core.SideRight {
			name = right
		}
		if name == "" && m.isCPU(side) {
			name = cpuName(side)
		}
		m.inputs[i].SetValue(name)
	}
}

func (m *Model) focusField(f int) {
	m.focus = f
	for i := range m.inputs {
		if i == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m Model) isCPU(side core.Side) bool {
	for _, c := range m.cpus {
		if c.Side() == side {
			return true
		}
	}
	return false
}

func cpuName(side core.Side) string {
	if side == core.SideLeft {
		return "CPU West"
	}
	return "CPU East"
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewScores:
		return m.board.View()
	case viewCourt:
		DrawMatch(m.screen, m.ctrl.Snapshot(), m.cfg)
		m.drawFooter()
		return RenderScreen(m.screen)
	default:
		return m.setupView()
	}
}

// drawFooter writes the status line or the key hints on the bottom row.
func (m Model) drawFooter() {
	y := m.screen.Height() - 1
	if y < 1 {
		return
	}
	if m.status != "" {
		m.screen.DrawTextColored(1, y, m.status, core.ColorRed)
		return
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	m.screen.DrawTextColored(1, y, strings.Join(hints, "  "), core.ColorDim)
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// setupView renders the name and difficulty form.
func (m Model) setupView() string {
	width := m.runtime.ScreenW
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  P O N G  "), width))
	b.WriteString("\n\n")

	labels := []string{"Player 1 (w/s)", "Player 2 (↑/↓)"}
	errs := []string{m.nameErrs.Left, m.nameErrs.Right}
	for i, in := range m.inputs {
		label := labelStyle.Render(fmt.Sprintf("%-16s", labels[i]))
		if m.focus == i {
			label = focusedStyle.Render(fmt.Sprintf("%-16s", labels[i]))
		}
		b.WriteString(centerText(label+"  "+in.View(), width))
		b.WriteString("\n")
		if errs[i] != "" {
			b.WriteString(centerText(errorStyle.Render(errs[i]), width))
		}
		b.WriteString("\n")
	}

	d := m.ctrl.Snapshot().Difficulty
	picker := fmt.Sprintf("< %s >", d.Title())
	label := labelStyle.Render(fmt.Sprintf("%-16s", "Difficulty"))
	if m.focus == focusDifficulty {
		label = focusedStyle.Render(fmt.Sprintf("%-16s", "Difficulty"))
		picker = focusedStyle.Render(picker)
	}
	b.WriteString(centerText(label+"  "+picker, width))
	b.WriteString("\n\n")

	b.WriteString(centerText(labelStyle.Render(fmt.Sprintf("First to %d points", m.cfg.Gameplay.WinScore)), width))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(centerText(errorStyle.Render(m.status), width))
	}
	b.WriteString("\n\n")

	b.WriteString(centerText(helpStyle.Render(m.help.ShortHelpView(m.keys.SetupHelp())), width))
	b.WriteString("\n")

	return b.String()
}

// Run starts the Bubble Tea program with a new session model.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
