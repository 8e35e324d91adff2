package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	CopyPath   key.Binding
	Refresh    key.Binding
	Back       key.Binding

	// Sections
	GoHome     key.Binding
	GoClients  key.Binding
	GoContacts key.Binding
	GoProjects key.Binding
	GoBriefs   key.Binding
	GoLogs     key.Binding
	GoTo       key.Binding

	// Lists and scrolling
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Open         key.Binding

	// Data source
	Process key.Binding
	Retry   key.Binding

	// Briefs
	Transition key.Binding

	// Logs
	ToggleFollow key.Binding
	CycleLevel   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy path"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reload view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Up one level"),
		),

		GoHome: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Home"),
		),
		GoClients: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clients"),
		),
		GoContacts: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Contacts"),
		),
		GoProjects: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Projects"),
		),
		GoBriefs: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Briefs"),
		),
		GoLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs"),
		),
		GoTo: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Go to path"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open"),
		),

		Process: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Process data source"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Retry processing"),
		),

		Transition: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "Move brief"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Cycle log level"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.GoHome, k.GoClients, k.GoContacts, k.GoProjects, k.GoBriefs, k.GoLogs, k.GoTo},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp, k.Open, k.Back},
		{k.Process, k.Retry, k.Transition},
		{k.ToggleFollow, k.CycleLevel},
		{k.CopyPath, k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
