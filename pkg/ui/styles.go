// Package ui holds the terminal styling and progress widgets shared by the
// dockershit commands.
package ui

import "github.com/charmbracelet/lipgloss"

// Common styles used across the application.
var (
	// Prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	// Text styles
	BoldStyle = lipgloss.NewStyle().Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// Layout styles
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// Status icons.
const (
	IconOK      = "✓"
	IconMissing = "✗"
	IconWarning = "!"
)
