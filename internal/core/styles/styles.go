// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Title renders issue titles and section headers.
	Title = lipgloss.NewStyle().Bold(true)

	// Success renders completion notices.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// Warning renders attention-worthy notices.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// Muted renders secondary detail like step lists and hints.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Marker renders the current-issue indicator.
	Marker = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

// Checkbox renders a completion flag the way it appears in documents.
func Checkbox(done bool) string {
	if done {
		return Success.Render("[x]")
	}
	return "[ ]"
}
