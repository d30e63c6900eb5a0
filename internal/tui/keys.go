package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Love   key.Binding
	OK     key.Binding
	Nope   key.Binding
	Prev   key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	End    key.Binding
	Ping   key.Binding
	Admin  key.Binding
	Export key.Binding
	Tab1   key.Binding
	Tab2   key.Binding
	Tab3   key.Binding
	Tab4   key.Binding
	Tab    key.Binding
	Help   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Love: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "love"),
	),
	OK: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "ok"),
	),
	Nope: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "nope"),
	),
	Prev: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("backspace", "previous"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	End: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "end session"),
	),
	Ping: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "test endpoint"),
	),
	Admin: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "admin"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "survey"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "surveys"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "usage"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.New, k.Edit, k.End, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Love, k.OK, k.Nope, k.Prev},
		{k.New, k.Edit, k.Delete, k.End},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Export, k.Ping},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}

// lockedKeyMap is the help shown to attendees while a session runs.
type lockedKeyMap struct{}

func (lockedKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Love, keys.OK, keys.Nope, keys.Prev, keys.Admin}
}

func (l lockedKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{l.ShortHelp()}
}
