// Package tui provides Bubble Tea components for spoor's read-only
// `inspect --tui` and `symbols --tui` commands.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")
	entryColor   = lipgloss.Color("#10B981")
	exitColor    = lipgloss.Color("#F59E0B")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(20)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)
)

// EventTypeStyle colors a rendered event type by its kind.
func EventTypeStyle(typeName string) lipgloss.Style {
	switch typeName {
	case "function_entry":
		return lipgloss.NewStyle().Foreground(entryColor)
	case "function_exit":
		return lipgloss.NewStyle().Foreground(exitColor)
	default:
		return ValueStyle
	}
}
