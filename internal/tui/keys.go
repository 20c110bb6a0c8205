package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Notifications
	Notify  key.Binding
	Info    key.Binding
	Success key.Binding
	Error   key.Binding
	Image   key.Binding
	Dismiss key.Binding

	// Widgets
	Dialog    key.Binding
	Countdown key.Binding
	Confirm   key.Binding
	Cancel    key.Binding

	// Board
	NextCard      key.Binding
	PrevCard      key.Binding
	Select        key.Binding
	ToggleTrigger key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextCard, k.Select, k.ToggleTrigger, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Notify, k.Info, k.Success, k.Error},
		{k.Image, k.Dismiss, k.Dialog, k.Countdown},
		{k.NextCard, k.PrevCard, k.Select, k.ToggleTrigger},
		{k.Help, k.Quit},
	}
}

// DialogHelp returns the bindings active while a dialog is open.
func (k KeyMap) DialogHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Notify: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notice"),
		),
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "info"),
		),
		Success: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "success"),
		),
		Error: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "error"),
		),
		Image: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "card image"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close image"),
		),
		Dialog: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "confirm dialog"),
		),
		Countdown: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "countdown"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		NextCard: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next card"),
		),
		PrevCard: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "prev card"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "click card"),
		),
		ToggleTrigger: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "focus/click"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
