package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Tab switching
	NextTab key.Binding
	PrevTab key.Binding

	// Manual refresh
	Refresh key.Binding

	// Notification actions
	ToggleRead  key.Binding
	MarkAllRead key.Binding
	Delete      key.Binding

	// Group actions
	NewGroup  key.Binding
	JoinGroup key.Binding

	// Wallet actions
	Fund key.Binding

	// Session
	Logout key.Binding
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
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		ToggleRead: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "toggle read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mark all read"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		NewGroup: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new group"),
		),
		JoinGroup: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "join by invite"),
		),
		Fund: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fund wallet"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
	}
}
