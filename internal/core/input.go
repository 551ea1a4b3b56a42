package core

// Side identifies one half of the court.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// String returns a human-readable name for the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// ParseSide is the inverse of String. Unknown names map to SideNone.
func ParseSide(s string) Side {
	switch s {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	default:
		return SideNone
	}
}

// Opponent returns the other side. SideNone has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

// ControlInput is the set of movement keys currently held by both players.
// The input source updates it between ticks; the engine only reads it.
type ControlInput struct {
	LeftUp    bool
	LeftDown  bool
	RightUp   bool
	RightDown bool
}

// Up reports whether the up key is held for the given side.
func (c ControlInput) Up(s Side) bool {
	switch s {
	case SideLeft:
		return c.LeftUp
	case SideRight:
		return c.RightUp
	}
	return false
}

// Down reports whether the down key is held for the given side.
func (c ControlInput) Down(s Side) bool {
	switch s {
	case SideLeft:
		return c.LeftDown
	case SideRight:
		return c.RightDown
	}
	return false
}

// Set updates the flags for one side.
func (c *ControlInput) Set(s Side, up, down bool) {
	switch s {
	case SideLeft:
		c.LeftUp, c.LeftDown = up, down
	case SideRight:
		c.RightUp, c.RightDown = up, down
	}
}

// Merge returns the union of held keys from both inputs.
func (c ControlInput) Merge(o ControlInput) ControlInput {
	return ControlInput{
		LeftUp:    c.LeftUp || o.LeftUp,
		LeftDown:  c.LeftDown || o.LeftDown,
		RightUp:   c.RightUp || o.RightUp,
		RightDown: c.RightDown || o.RightDown,
	}
}

// Any reports whether any key is held.
func (c ControlInput) Any() bool {
	return c.LeftUp || c.LeftDown || c.RightUp || c.RightDown
}
