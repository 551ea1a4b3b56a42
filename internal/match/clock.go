package match

import "time"

// DefaultTickRate is the target simulation rate.
const DefaultTickRate = 60

// FrameClock paces simulation steps by accumulated real time. The driver
// may poll it faster than the tick rate; Due fires at most once per call
// and carries the leftover time into the next frame.
type FrameClock struct {
	interval time.Duration
	last     time.Time
}

// NewFrameClock creates a clock for rate steps per second.
func NewFrameClock(rate int) *FrameClock {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &FrameClock{interval: time.Second / time.Duration(rate)}
}

// Interval returns the target frame duration.
func (f *FrameClock) Interval() time.Duration {
	return f.interval
}

// Due reports whether a step should run at now.
// The first call only arms the clock.
func (f *FrameClock) Due(now time.Time) bool {
	if f.last.IsZero() {
		f.last = now
		return false
	}

	delta := now.Sub(f.last)
	if delta < f.interval {
		return false
	}
	f.last = now.Add(-(delta % f.interval))
	return true
}

// Reset disarms the clock so time spent paused is not carried over.
func (f *FrameClock) Reset() {
	f.last = time.Time{}
}
