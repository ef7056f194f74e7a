package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"studybuddy/internal/adapters/tui/styles"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.Dim.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as one dot-separated help line
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.Separator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.Failure.Render(message)
	}
	return styles.Notice.Render(message)
}

// HighlightMatch renders text with the first case-insensitive occurrence of
// query highlighted. base styles the rest of the text.
func HighlightMatch(text, query string, base func(...string) string) string {
	if query == "" {
		return base(text)
	}
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx < 0 {
		return base(text)
	}
	end := idx + len(query)
	return base(text[:idx]) + styles.Match.Render(text[idx:end]) + base(text[end:])
}
