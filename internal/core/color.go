package core

// Color represents a foreground color for a screen cell.
// Mapped to ANSI 256-color codes by the terminal renderer.
type Color uint8

// Colors used by the court renderer.
const (
	ColorDefault Color = iota
	ColorWhite
	ColorGray
	ColorDim
	ColorAccent
	ColorYellow
	ColorRed
	ColorGreen
)
