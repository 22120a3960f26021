package styles

import (
	"github.com/allbin/pandad/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Board mode styles
	ModeAppStyle = lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true)

	ModeBootstubStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	ModeDFUStyle = lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0).
			Background(colors.Surface0).
			Padding(0, 1)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	// Help line style
	HelpStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0)
)

// ModeStyle returns the style for a board boot mode string.
func ModeStyle(mode string) lipgloss.Style {
	switch mode {
	case "app":
		return ModeAppStyle
	case "bootstub":
		return ModeBootstubStyle
	case "dfu":
		return ModeDFUStyle
	default:
		return lipgloss.NewStyle().Foreground(colors.Text)
	}
}
