package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/match"
)

// Court glyphs.
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
	TrailChar  = '·'
)

// Smallest screen the court is drawn on.
const (
	minScreenW = 40
	minScreenH = 12
)

// trailBright is how many of the newest trail points use the brighter color.
const trailBright = 3

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

// court maps field coordinates onto the screen rows between the header
// and the footer.
type court struct {
	x, y, w, h     int
	fieldW, fieldH float64
}

func newCourt(dst *core.Screen, field config.FieldConfig) court {
	return court{
		x:      0,
		y:      1,
		w:      dst.Width(),
		h:      dst.Height() - 2,
		fieldW: field.Width,
		fieldH: field.Height,
	}
}

func (c court) col(x float64) int {
	return core.Clamp(c.x+int(x*float64(c.w)/c.fieldW), c.x, c.x+c.w-1)
}

func (c court) row(y float64) int {
	return core.Clamp(c.y+int(y*float64(c.h)/c.fieldH), c.y, c.y+c.h-1)
}

// span turns a half-open cell range into an inclusive one of at least one cell.
func span(lo, hi int) (int, int) {
	return lo, max(lo, hi-1)
}

// DrawMatch renders a match snapshot into dst.
func DrawMatch(dst *core.Screen, s match.State, cfg config.PongConfig) {
	drawMatch(dst, s, cfg, localHints)
}

// overlayHints are the key hints under the end and pause banners.
type overlayHints struct {
	ended  string
	paused string
}

var localHints = overlayHints{
	ended:  "r rematch  enter new match  ctrl+l leaderboard",
	paused: "space to resume  esc to reset",
}

func drawMatch(dst *core.Screen, s match.State, cfg config.PongConfig, hints overlayHints) {
	dst.Clear()

	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2, "terminal too small", core.ColorRed)
		return
	}

	c := newCourt(dst, cfg.Field)

	// Net
	centerX := c.col(cfg.Field.Width / 2)
	for y := c.y; y < c.y+c.h; y += 2 {
		dst.SetColored(centerX, y, NetChar, core.ColorDim)
	}

	for _, b := range []core.RectF{s.Left.Bounds(), s.Right.Bounds()} {
		x0, x1 := span(c.col(b.X), c.col(b.Right()))
		y0, y1 := span(c.row(b.Y), c.row(b.Bottom()))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dst.SetColored(x, y, PaddleChar, core.ColorWhite)
			}
		}
	}

	// Oldest first so newer points win shared cells.
	for i := s.Ball.Trail.Len() - 1; i >= 0; i-- {
		pt := s.Ball.Trail.At(i)
		color := core.ColorDim
		if i < trailBright {
			color = core.ColorGray
		}
		dst.SetColored(c.col(pt.Position.X), c.row(pt.Position.Y), TrailChar, color)
	}
	dst.SetColored(c.col(s.Ball.Position.X), c.row(s.Ball.Position.Y), BallChar, core.ColorYellow)

	drawHeader(dst, s)

	switch {
	case s.Winner != core.SideNone:
		lines := []string{
			fmt.Sprintf("%s wins!", s.WinnerName()),
			fmt.Sprintf("%d - %d", s.Score.Left, s.Score.Right),
		}
		if s.Phase == match.PhaseEnded && hints.ended != "" {
			lines = append(lines, hints.ended)
		}
		drawCenteredMessage(dst, core.ColorGreen, lines...)
	case s.Phase == match.PhasePaused:
		drawCenteredMessage(dst, core.ColorAccent, "PAUSED", hints.paused)
	}
}

// drawHeader writes names and scores on the top row.
func drawHeader(dst *core.Screen, s match.State) {
	left := fmt.Sprintf(" %s  %d", s.Players.Left, s.Score.Left)
	right := fmt.Sprintf("%d  %s ", s.Score.Right, s.Players.Right)

	dst.DrawTextColored(0, 0, left, core.ColorWhite)
	dst.DrawTextColored(dst.Width()-len([]rune(right)), 0, right, core.ColorWhite)
	dst.DrawTextCentered(0, s.Difficulty.Title(), core.ColorGray)
}

// drawCenteredMessage draws a message box in the center of the screen.
// The first line is the title; the rest are separated from it by a blank row.
func drawCenteredMessage(dst *core.Screen, color core.Color, lines ...string) {
	if len(lines) == 0 {
		return
	}

	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	boxW := min(width+4, dst.Width())
	boxH := len(lines) + 3
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, color)

	center := func(y int, text string, c core.Color) {
		x := box.X + (box.W-len([]rune(text)))/2
		dst.DrawTextColored(x, y, text, c)
	}
	center(box.Y+1, lines[0], color)
	for i, l := range lines[1:] {
		center(box.Y+3+i, l, core.ColorWhite)
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
