package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/adapters/tui/views"
	"studybuddy/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state   ViewState
	browser *views.BrowserModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a cluster browser over runID, or the latest run when runID
// is empty. Links are copied with the system clipboard.
func NewApp(runs ports.RunRepository, runID string, opener ports.LinkOpener) *App {
	return &App{
		state:   ViewBrowser,
		browser: views.NewBrowserModel(runs, runID, opener, clipboard.WriteAll),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil
	}

	// Keys go to the visible view, everything else to the browser
	var cmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); isKey && a.state == ViewHelp {
		_, cmd = a.help.Update(msg)
	} else {
		_, cmd = a.browser.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	if a.state == ViewHelp {
		return a.help.View()
	}
	return a.browser.View()
}
