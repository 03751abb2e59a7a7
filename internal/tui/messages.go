package tui

// SwitchScreenMsg asks the root model to show another screen
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg is sent to a screen each time it becomes active again
type RefreshDataMsg struct{}

// ErrorMsg surfaces an error in the root footer
type ErrorMsg struct {
	Err error
}

// OpenNewClientFormMsg tells the clients screen to open the new client form
type OpenNewClientFormMsg struct{}

// firstRunCheckMsg reports whether the database has any clients
type firstRunCheckMsg struct {
	hasClients bool
}

// savedMsg reports the outcome of a mutation started from a form or action key
type savedMsg struct {
	text string
	err  error
}
