package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding
	Mark   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Tabs
	NextTab key.Binding

	// Filters
	CycleType     key.Binding
	CyclePriority key.Binding
	ToggleExpired key.Binding

	// Pagination
	NextPage key.Binding
	PrevPage key.Binding

	// Item actions
	ToggleRead key.Binding
	Archive    key.Binding
	Delete     key.Binding

	// Inbox-wide actions
	MarkAllRead key.Binding
	Refresh     key.Binding

	// Views
	Preferences key.Binding
	Stats       key.Binding
	Help        key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select for bulk action"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		CycleType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle type filter"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority filter"),
		),
		ToggleExpired: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "toggle expired"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous page"),
		),
		ToggleRead: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "toggle read/unread"),
		),
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "mark all read"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Preferences: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "preferences"),
		),
		Stats: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stats"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the bindings shown in the mini help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.NextTab, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Mark, k.Back, k.Quit},
		{k.NextTab, k.CycleType, k.CyclePriority, k.ToggleExpired, k.NextPage, k.PrevPage},
		{k.ToggleRead, k.Archive, k.Delete, k.MarkAllRead, k.Refresh},
		{k.Preferences, k.Stats, k.Help},
	}
}
