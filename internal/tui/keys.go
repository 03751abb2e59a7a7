package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Dashboard key.Binding
	Clients   key.Binding
	Catalog   key.Binding
	Invoices  key.Binding
	Company   key.Binding

	// Actions
	Select  key.Binding
	New     key.Binding
	Delete  key.Binding
	Confirm key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Dashboard: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
	Clients:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clients")),
	Catalog:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "services")),
	Invoices:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoices")),
	Company:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "company")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
