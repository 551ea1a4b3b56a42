package match

import (
	"testing"

	"github.com/vovakirdan/tui-pong/internal/core"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in      string
		want    Score
		wantErr bool
	}{
		{"5-3", Score{5, 3}, false},
		{" 0-5 ", Score{0, 5}, false},
		{"10 - 12", Score{10, 12}, false},
		{"5", Score{}, true},
		{"a-3", Score{}, true},
		{"5-", Score{}, true},
	}

	for _, tc := range tests {
		got, err := ParseScore(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseScore(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseScore(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}

func TestScoreStringRoundTrip(t *testing.T) {
	s := Score{Left: 3, Right: 5}
	if s.String() != "3-5" {
		t.Fatalf("String() = %q", s.String())
	}
	back, err := ParseScore(s.String())
	if err != nil || back != s {
		t.Errorf("ParseScore(String()) = %v, %v", back, err)
	}
}

func TestResultWinnerLoser(t *testing.T) {
	tests := []struct {
		name           string
		r              Result
		winner, loser  string
		wScore, lScore int
	}{
		{
			name:   "recorded winner",
			r:      Result{LeftName: "Alice", RightName: "Bob", Score: "2-5", Winner: core.SideRight},
			winner: "Bob", loser: "Alice", wScore: 5, lScore: 2,
		},
		{
			name:   "derived from score",
			r:      Result{LeftName: "Alice", RightName: "Bob", Score: "5-1"},
			winner: "Alice", loser: "Bob", wScore: 5, lScore: 1,
		},
		{
			name:   "tie has no winner",
			r:      Result{LeftName: "Alice", RightName: "Bob", Score: "2-2"},
			winner: "", loser: "", wScore: 2, lScore: 2,
		},
		{
			name:   "garbage score",
			r:      Result{LeftName: "Alice", RightName: "Bob", Score: "??"},
			winner: "", loser: "", wScore: 0, lScore: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.WinnerName(); got != tc.winner {
				t.Errorf("WinnerName() = %q, expected %q", got, tc.winner)
			}
			if got := tc.r.LoserName(); got != tc.loser {
				t.Errorf("LoserName() = %q, expected %q", got, tc.loser)
			}
			w, l := tc.r.Margin()
			if w != tc.wScore || l != tc.lScore {
				t.Errorf("Margin() = %d, %d, expected %d, %d", w, l, tc.wScore, tc.lScore)
			}
		})
	}
}
