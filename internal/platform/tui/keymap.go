package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the court and the setup form.
type KeyMap struct {
	LeftUp    key.Binding
	LeftDown  key.Binding
	RightUp   key.Binding
	RightDown key.Binding
	Pause     key.Binding
	Restart   key.Binding
	NewMatch  key.Binding
	Back      key.Binding
	Scores    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Harder    key.Binding
	Easier    key.Binding
	Start     key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the court help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.LeftUp, k.RightUp, k.Pause, k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.LeftUp, k.LeftDown, k.RightUp, k.RightDown},
		{k.Pause, k.Restart, k.NewMatch, k.Back},
		{k.Scores, k.Quit},
	}
}

// SetupHelp returns the bindings shown under the setup form.
func (k KeyMap) SetupHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Easier, k.Harder, k.Start, k.Scores, k.Quit}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LeftUp: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w/s", "left paddle"),
		),
		LeftDown: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "left down"),
		),
		RightUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "right paddle"),
		),
		RightDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "right down"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		NewMatch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new match"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "reset"),
		),
		Scores: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "leaderboard"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev field"),
		),
		Harder: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "harder"),
		),
		Easier: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "easier"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
