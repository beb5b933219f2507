// Package tui is the bubbletea Elm-architecture presentation layer: it
// owns the terminal program, translates keyboard/mouse events into
// viewmodel method calls, and renders (store snapshot, view model,
// terminal size) into a frame (spec §4.6 "Renderer", §4.7 "Event Loop").
//
// Grounded on the bubbletea Model/Update/View shape and the
// viewport/key/help component usage in
// other_examples/3792634c_zulandar-gastown__internal-tui-feed-model.go.go,
// generalized from that file's three-panel (tree/convoy/feed) layout to
// mqttui's tree/history/payload panes plus a graph and footer.
package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the canonical keybinding table from spec §4.5.
type KeyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Tab         key.Binding
	Search      key.Binding
	Delete      key.Binding
	Help        key.Binding
}

// DefaultKeyMap returns the bindings used by mqttui's interactive mode.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/^u", "half page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/^d", "half page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "last"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse / up level"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand / down level"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("Enter/Space", "toggle"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "collapse all"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "cycle focus"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "backspace"),
			key.WithHelp("Del", "clean retained / remove entry"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Search, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Left, k.Right, k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.Tab, k.Search, k.Delete, k.Help, k.Quit},
	}
}
