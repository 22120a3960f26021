package keys

import "github.com/charmbracelet/bubbles/key"

// MonitorKeyMap defines the key bindings for the board monitor view.
type MonitorKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultMonitorKeyMap returns the standard monitor bindings.
func DefaultMonitorKeyMap() MonitorKeyMap {
	return MonitorKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the help entries shown in the status line.
func (k MonitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}
