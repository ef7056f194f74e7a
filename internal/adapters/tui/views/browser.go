package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/adapters/tui/styles"
	"studybuddy/internal/application/commands"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// chrome is the number of rows taken by everything but the tree
const chrome = 10

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Open   key.Binding
	Copy   key.Binding
	Filter key.Binding
	Clear  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle/open"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy link"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear filter"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel browses the clusters of one run and their records
type BrowserModel struct {
	runs   ports.RunRepository
	runID  string
	opener ports.LinkOpener
	clip   func(string) error

	run       *domain.Run
	root      *domain.TreeNode
	flatNodes []*domain.TreeNode
	cursor    int
	scroll    scroller
	expanded  map[string]bool // by subject ID, survives filtering

	filter    textinput.Model
	filtering bool

	width      int
	height     int
	message    string
	messageErr bool
}

// NewBrowserModel creates a browser over runID, or the latest run when runID
// is empty. clip writes text to the clipboard.
func NewBrowserModel(runs ports.RunRepository, runID string, opener ports.LinkOpener, clip func(string) error) *BrowserModel {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "cluster name"
	filter.PromptStyle = styles.Label

	return &BrowserModel{
		runs:     runs,
		runID:    runID,
		opener:   opener,
		clip:     clip,
		filter:   filter,
		expanded: make(map[string]bool),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadRun
}

func (m *BrowserModel) loadRun() tea.Msg {
	run, err := commands.NewShowRunCommand(m.runs, m.runID).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return runLoadedMsg{run}
}

type runLoadedMsg struct {
	run *domain.Run
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case runLoadedMsg:
		m.run = msg.run
		m.applyFilter()
		return m, nil

	case errMsg:
		m.message = msg.err.Error()
		m.messageErr = true
		return m, nil

	case successMsg:
		m.message = msg.message
		m.messageErr = false
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Clear):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return nil

	case key.Matches(msg, BrowserKeys.Enter):
		m.filtering = false
		m.filter.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return cmd
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.message = ""

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, BrowserKeys.Down):
		if m.cursor < len(m.flatNodes)-1 {
			m.cursor++
		}

	case key.Matches(msg, BrowserKeys.Left):
		node := m.selectedNode()
		if node == nil {
			return nil
		}
		if node.Kind == domain.NodeCluster && node.IsExpanded {
			node.Collapse()
			m.refreshFlatNodes()
		} else if node.Kind == domain.NodeRecord {
			m.selectNode(node.Parent)
		}

	case key.Matches(msg, BrowserKeys.Right):
		if node := m.selectedNode(); node != nil && node.Kind == domain.NodeCluster && !node.IsExpanded {
			node.Expand()
			m.refreshFlatNodes()
		}

	case key.Matches(msg, BrowserKeys.Enter):
		node := m.selectedNode()
		if node == nil {
			return nil
		}
		if node.Kind == domain.NodeRecord {
			return m.openLink(node)
		}
		node.Toggle()
		m.refreshFlatNodes()

	case key.Matches(msg, BrowserKeys.Open):
		if node := m.selectedNode(); node != nil && node.Kind == domain.NodeRecord {
			return m.openLink(node)
		}

	case key.Matches(msg, BrowserKeys.Copy):
		if node := m.selectedNode(); node != nil {
			return m.copyLinks(node)
		}

	case key.Matches(msg, BrowserKeys.Filter):
		m.filtering = true
		return m.filter.Focus()

	case key.Matches(msg, BrowserKeys.Clear):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg {
			return SwitchToHelpMsg{}
		}
	}

	return nil
}

func (m *BrowserModel) openLink(node *domain.TreeNode) tea.Cmd {
	if m.opener == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.opener.OpenURL(node.URL); err != nil {
			return errMsg{fmt.Errorf("failed to open %s: %w", node.URL, err)}
		}
		return successMsg{fmt.Sprintf("Opened %s", node.URL)}
	}
}

// copyLinks copies a record's link, or every record link of a cluster one per line
func (m *BrowserModel) copyLinks(node *domain.TreeNode) tea.Cmd {
	if m.clip == nil {
		return nil
	}

	var links []string
	switch node.Kind {
	case domain.NodeRecord:
		links = []string{node.URL}
	case domain.NodeCluster:
		for _, child := range node.Children {
			links = append(links, child.URL)
		}
	}
	if len(links) == 0 {
		return nil
	}

	return func() tea.Msg {
		if err := m.clip(strings.Join(links, "\n")); err != nil {
			return errMsg{fmt.Errorf("failed to copy to clipboard: %w", err)}
		}
		if len(links) == 1 {
			return successMsg{fmt.Sprintf("Copied %s", links[0])}
		}
		return successMsg{fmt.Sprintf("Copied %d links", len(links))}
	}
}

// applyFilter rebuilds the tree from the clusters matching the filter,
// keeping clusters that were expanded open.
func (m *BrowserModel) applyFilter() {
	if m.run == nil {
		return
	}

	if m.root != nil {
		for _, c := range m.root.Children {
			m.expanded[c.ID] = c.IsExpanded
		}
	}

	view := *m.run
	if query := strings.TrimSpace(m.filter.Value()); query != "" {
		view.Clusters = nil
		for _, match := range commands.RankClusters(m.run.Clusters, query) {
			view.Clusters = append(view.Clusters, match.Cluster)
		}
	}

	m.root = domain.BuildClusterTree(&view)
	for _, c := range m.root.Children {
		c.IsExpanded = m.expanded[c.ID]
	}
	m.refreshFlatNodes()
}

func (m *BrowserModel) selectedNode() *domain.TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

func (m *BrowserModel) selectNode(target *domain.TreeNode) {
	for i, n := range m.flatNodes {
		if n == target {
			m.cursor = i
			return
		}
	}
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("StudyBuddy"))
	b.WriteString("\n")

	switch {
	case m.run != nil:
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s · %d clusters · %d of %d records clustered",
			m.root.Name, len(m.run.Clusters), m.run.Stats.Clustered, m.run.Stats.Records)))
	case m.messageErr:
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.message, true))
		b.WriteString("\n\n")
		b.WriteString(RenderHelpLine(BrowserKeys.Quit))
		return styles.App.Render(b.String())
	default:
		return styles.App.Render(b.String() + "Loading...")
	}
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if len(m.flatNodes) == 0 {
		b.WriteString(styles.Dim.Render("No clusters match."))
		b.WriteString("\n")
	}

	start, end := m.scroll.window(m.cursor, len(m.flatNodes), m.height-chrome)
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(m.flatNodes[i], i == m.cursor))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.message, m.messageErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(BrowserKeys.Enter, BrowserKeys.Open, BrowserKeys.Copy, BrowserKeys.Filter, BrowserKeys.Help, BrowserKeys.Quit))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth()-1)

	var prefix, text string
	switch node.Kind {
	case domain.NodeCluster:
		prefix = styles.Collapsed
		if node.IsExpanded {
			prefix = styles.Expanded
		}
		if selected {
			text = styles.Selected.Render(node.Name)
		} else {
			text = HighlightMatch(node.Name, strings.TrimSpace(m.filter.Value()), styles.Cluster.Render)
		}
	default:
		prefix = styles.Leaf
		line := fmt.Sprintf("%s  %s", node.ID, node.Name)
		if selected {
			text = styles.Selected.Render(line)
		} else {
			text = styles.Dim.Render(node.ID) + "  " + node.Name
		}
	}

	return indent + styles.Dim.Render(prefix) + text
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.filter.Width = max(width-8, 10)
}

// Reload reloads the run from the cache
func (m *BrowserModel) Reload() tea.Cmd {
	m.run = nil
	m.root = nil
	m.flatNodes = nil
	m.cursor = 0
	return m.loadRun
}

// Messages for view switching
type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
