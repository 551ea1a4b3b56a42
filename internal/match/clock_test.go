package match

import (
	"testing"
	"time"
)

func TestFrameClockArmsOnFirstCall(t *testing.T) {
	c := NewFrameClock(60)
	start := time.Unix(100, 0)

	if c.Due(start) {
		t.Error("first call must only arm the clock")
	}
	if c.Due(start.Add(10 * time.Millisecond)) {
		t.Error("fired before one interval elapsed")
	}
	if !c.Due(start.Add(17 * time.Millisecond)) {
		t.Error("did not fire after one interval")
	}
	if c.Due(start.Add(17 * time.Millisecond)) {
		t.Error("fired twice for the same instant")
	}
}

func TestFrameClockNoDoubleStep(t *testing.T) {
	tests := []struct {
		name string
		poll time.Duration
		min  int
		max  int
	}{
		{"fast display", 4 * time.Millisecond, 58, 60},
		{"matching display", time.Second / 60, 59, 60},
		{"tui poll", time.Second / 120, 59, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewFrameClock(60)
			now := time.Unix(0, 0)
			c.Due(now)

			steps := 0
			for range int(time.Second / tc.poll) {
				now = now.Add(tc.poll)
				if c.Due(now) {
					steps++
				}
			}
			if steps < tc.min || steps > tc.max {
				t.Errorf("%d steps in one second, expected %d-%d", steps, tc.min, tc.max)
			}
		})
	}
}

func TestFrameClockSlowDisplay(t *testing.T) {
	c := NewFrameClock(60)
	now := time.Unix(0, 0)
	c.Due(now)

	// A 50ms hitch still yields a single step.
	if !c.Due(now.Add(50 * time.Millisecond)) {
		t.Fatal("expected a step after a long frame")
	}
	if c.Due(now.Add(51 * time.Millisecond)) {
		t.Error("hitch must not be replayed as extra steps")
	}
}

func TestFrameClockDefaults(t *testing.T) {
	if got := NewFrameClock(0).Interval(); got != time.Second/60 {
		t.Errorf("Interval() = %v, expected 1/60s", got)
	}
	c := NewFrameClock(30)
	c.Due(time.Unix(0, 0))
	c.Reset()
	if c.Due(time.Unix(10, 0)) {
		t.Error("Reset() should disarm the clock")
	}
}
