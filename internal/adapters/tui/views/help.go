package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("StudyBuddy Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Label.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("h / ←", "Collapse cluster / go to cluster"))
	b.WriteString(helpLine("l / →", "Expand cluster"))
	b.WriteString(helpLine("Enter", "Toggle cluster / open record"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("Records"))
	b.WriteString("\n")
	b.WriteString(helpLine("o", "Open record on PubMed"))
	b.WriteString(helpLine("y", "Copy PubMed link (all links on a cluster)"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("Filter"))
	b.WriteString("\n")
	b.WriteString(helpLine("/", "Filter clusters by name"))
	b.WriteString(helpLine("Enter", "Keep filter and browse"))
	b.WriteString(helpLine("Esc", "Clear filter"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.Dim.Render("Clusters come from the latest clustering run. Run `studybuddy-cli cluster` to refresh."))
	b.WriteString("\n\n")

	b.WriteString(styles.Dim.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.Dim.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.Dim.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.Dim.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
