package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the TUI key bindings.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Focus     key.Binding
	Pick      key.Binding
	Move      key.Binding
	DropOver  key.Binding
	New       key.Binding
	Add       key.Binding
	Insert    key.Binding
	Unsched   key.Binding
	Remove    key.Binding
	DelColumn key.Binding
	Reset     key.Binding
	NextFree  key.Binding
	Copy      key.Binding
	Undo      key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Pick, k.New, k.Insert, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Focus, k.NextFree},
		{k.Pick, k.Move, k.DropOver, k.Cancel},
		{k.New, k.Add, k.Insert, k.Unsched, k.Remove},
		{k.DelColumn, k.Reset, k.Copy, k.Undo, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
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
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev hour"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next hour"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "grid/pool"),
		),
		Pick: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "pick/drop"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move task"),
		),
		DropOver: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "drop without shifting"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task here"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add to pool"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert block"),
		),
		Unsched: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unschedule"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		DelColumn: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete hour"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset window"),
		),
		NextFree: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "next free slot"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy plan"),
		),
		Undo: key.NewBinding(
			key.WithKeys("z", "ctrl+z"),
			key.WithHelp("z", "undo"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
