// Package styles holds the lipgloss styles of the run browser.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.Color("#0F766E") // teal
	dim       = lipgloss.Color("#6B7280")
	alert     = lipgloss.Color("#DC2626")
	highlight = lipgloss.Color("#FDE68A")
)

// Tree glyphs
const (
	Expanded  = "▼ "
	Collapsed = "▶ "
	Leaf      = "  "
)

var (
	App = lipgloss.NewStyle().Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().Foreground(dim).Italic(true)

	// Dim covers record IDs, tree branches, help text and hints.
	Dim = lipgloss.NewStyle().Foreground(dim)

	Cluster = lipgloss.NewStyle().Bold(true)

	Selected = lipgloss.NewStyle().Reverse(true).Bold(true)

	// Label is used for section headings and the filter prompt.
	Label = lipgloss.NewStyle().Foreground(accent).Bold(true)

	HelpKey = lipgloss.NewStyle().Foreground(accent).Bold(true)

	Separator = lipgloss.NewStyle().Foreground(dim).SetString(" · ")

	Notice = lipgloss.NewStyle().Foreground(accent)

	Failure = lipgloss.NewStyle().Foreground(alert).Bold(true)

	// Match marks the filter hit inside a cluster name.
	Match = lipgloss.NewStyle().Background(highlight)
)
