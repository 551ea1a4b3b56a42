package core

import "time"

// DefaultHoldWindow is how long a key press counts as held. Terminals send
// repeated presses while a key is down and nothing when it is released, so
// a press holds the paddle until the next repeat or until this expires.
const DefaultHoldWindow = 180 * time.Millisecond

// control indexes one of the four movement keys.
type control int

const (
	leftUp control = iota
	leftDown
	rightUp
	rightDown
	numControls
)

// HoldTracker turns key presses into held flags that expire after a window.
// Pressing one direction releases the opposite direction on the same side.
type HoldTracker struct {
	window time.Duration
	until  [numControls]time.Time
}

// NewHoldTracker creates a tracker. Non-positive windows use DefaultHoldWindow.
func NewHoldTracker(window time.Duration) *HoldTracker {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HoldTracker{window: window}
}

// Window returns the hold window.
func (h *HoldTracker) Window() time.Duration {
	return h.window
}

// Press records a press of the up or down key for a side at now.
func (h *HoldTracker) Press(side Side, up bool, now time.Time) {
	var held, opposite control
	switch {
	case side == SideLeft && up:
		held, opposite = leftUp, leftDown
	case side == SideLeft:
		held, opposite = leftDown, leftUp
	case side == SideRight && up:
		held, opposite = rightUp, rightDown
	case side == SideRight:
		held, opposite = rightDown, rightUp
	default:
		return
	}
	h.until[held] = now.Add(h.window)
	h.until[opposite] = time.Time{}
}

// Snapshot returns the keys still held at now.
func (h *HoldTracker) Snapshot(now time.Time) ControlInput {
	held := func(c control) bool {
		return now.Before(h.until[c])
	}
	return ControlInput{
		LeftUp:    held(leftUp),
		LeftDown:  held(leftDown),
		RightUp:   held(rightUp),
		RightDown: held(rightDown),
	}
}

// Release drops every held key.
func (h *HoldTracker) Release() {
	h.until = [numControls]time.Time{}
}
