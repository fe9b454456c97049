package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Named constants for every ANSI 256 color the CLI uses;
// never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: project names, option names, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for created files and added diff entries.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for overwritten files and modified diff entries.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for removed diff entries.
	ColorRed = lipgloss.Color("196")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Styles groups the styles shared by the tree and diff renderers.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// GetStyles returns the default style set.
func GetStyles() *Styles {
	return &Styles{
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(ColorDimGray),
		Success: lipgloss.NewStyle().Foreground(ColorGreen),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Error:   lipgloss.NewStyle().Foreground(ColorRed),
	}
}

// PlainStyles returns a style set that renders text unchanged. Used when
// output is not a terminal and in tests.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{Bold: plain, Muted: plain, Success: plain, Warning: plain, Error: plain}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
