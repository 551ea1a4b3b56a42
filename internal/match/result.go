package match

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// Result is the record of a finished match handed to the persistence layer.
type Result struct {
	ID         string // UUID
	LeftName   string
	RightName  string
	Difficulty config.Difficulty
	Score      string // "L-R"
	Winner     core.Side
	PlayedAt   time.Time
}

// ResultSaver persists finished matches.
type ResultSaver interface {
	SaveResult(r Result) error
}

// ParseScore parses an "L-R" score string.
func ParseScore(s string) (Score, error) {
	l, r, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Score{}, fmt.Errorf("match: malformed score %q", s)
	}
	left, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil || left < 0 {
		return Score{}, fmt.Errorf("match: malformed score %q", s)
	}
	right, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil || right < 0 {
		return Score{}, fmt.Errorf("match: malformed score %q", s)
	}
	return Score{Left: left, Right: right}, nil
}

// WinningSide returns the recorded winner, falling back to the score when
// the record predates the winner column. Ties and bad scores give SideNone.
func (r Result) WinningSide() core.Side {
	if r.Winner != core.SideNone {
		return r.Winner
	}
	score, err := ParseScore(r.Score)
	if err != nil {
		return core.SideNone
	}
	switch {
	case score.Left > score.Right:
		return core.SideLeft
	case score.Right > score.Left:
		return core.SideRight
	default:
		return core.SideNone
	}
}

// WinnerName returns the winning player's name.
func (r Result) WinnerName() string {
	return r.players().Name(r.WinningSide())
}

// LoserName returns the losing player's name.
func (r Result) LoserName() string {
	return r.players().Name(r.WinningSide().Opponent())
}

// Margin returns the winner's score followed by the loser's.
func (r Result) Margin() (int, int) {
	score, err := ParseScore(r.Score)
	if err != nil {
		return 0, 0
	}
	side := r.WinningSide()
	if side == core.SideNone {
		return score.Left, score.Right
	}
	return score.Of(side), score.Of(side.Opponent())
}

func (r Result) players() Players {
	return Players{Left: r.LeftName, Right: r.RightName}
}
