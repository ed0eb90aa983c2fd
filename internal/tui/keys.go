package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the explorer.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	PanNorth  key.Binding
	PanSouth  key.Binding
	PanWest   key.Binding
	PanEast   key.Binding
	Search    key.Binding
	Highlight key.Binding
	Tours     key.Binding
	NextStage key.Binding
	PrevStage key.Binding
	Pause     key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "focus"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		PanNorth: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "north"),
		),
		PanSouth: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "south"),
		),
		PanWest: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "west"),
		),
		PanEast: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "east"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Highlight: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "org"),
		),
		Tours: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tours"),
		),
		NextStage: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]/→", "next"),
		),
		PrevStage: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[/←", "prev"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SearchKeyMap returns keybindings active while the search box has focus.
// Printable keys go to the input, so only navigation stays enabled.
func SearchKeyMap() KeyMap {
	km := DefaultKeyMap()
	km.Up.SetKeys("up")
	km.Down.SetKeys("down")
	km.Quit.SetKeys("ctrl+c")
	for _, b := range []*key.Binding{
		&km.ZoomIn, &km.ZoomOut, &km.PanNorth, &km.PanSouth, &km.PanWest, &km.PanEast,
		&km.Search, &km.Highlight, &km.Tours, &km.NextStage, &km.PrevStage, &km.Pause,
	} {
		b.SetEnabled(false)
	}
	return km
}
