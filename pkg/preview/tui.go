package preview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/feed"
)

// ViewMode represents the current view mode
type ViewMode int

// View modes for the preview TUI
const (
	ListViewMode ViewMode = iota
	DetailViewMode
	XMLViewMode
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	yearStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model represents the Bubble Tea model for the preview TUI
type Model struct {
	entries       []content.Entry
	cursor        int
	viewMode      ViewMode
	siteName      string
	generator     *feed.Generator
	width         int
	height        int
	selectedIndex int // entry currently shown in detail or XML view
}

// NewModel creates a new preview model over entries in feed order.
func NewModel(entries []content.Entry, siteName string, gen *feed.Generator) Model {
	return Model{
		entries:       entries,
		viewMode:      ListViewMode,
		siteName:      siteName,
		generator:     gen,
		selectedIndex: -1,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ListViewMode:
			return m.updateListView(msg)
		case DetailViewMode, XMLViewMode:
			return m.updateDetailView(msg)
		}
	}

	return m, nil
}

func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case "enter":
		m.selectedIndex = m.cursor
		m.viewMode = DetailViewMode

	case "x":
		m.selectedIndex = m.cursor
		m.viewMode = XMLViewMode
	}

	return m, nil
}

func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewMode = ListViewMode

	case "x":
		if m.viewMode == DetailViewMode {
			m.viewMode = XMLViewMode
		} else {
			m.viewMode = DetailViewMode
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	switch m.viewMode {
	case ListViewMode:
		return m.renderListView()
	case DetailViewMode:
		return m.renderDetailView()
	case XMLViewMode:
		return m.renderXMLView()
	}
	return ""
}

// visibleRange keeps the cursor near the middle of the screen when the list does not fit.
func (m Model) visibleRange() (int, int) {
	start, end := 0, len(m.entries)
	if m.height <= 0 {
		return start, end
	}

	// Year headers take rows too, so leave room for a few.
	maxVisible := m.height - 10
	if maxVisible < 1 {
		maxVisible = 1
	}
	if maxVisible >= len(m.entries) {
		return start, end
	}

	start = max(m.cursor-maxVisible/2, 0)
	end = start + maxVisible
	if end > len(m.entries) {
		end = len(m.entries)
		start = max(end-maxVisible, 0)
	}
	return start, end
}

func (m Model) renderListView() string {
	var b strings.Builder

	header := fmt.Sprintf("Site Preview - %s (%d entries)", m.siteName, len(m.entries))
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start, end := m.visibleRange()
	year := ""
	for i := start; i < end; i++ {
		e := m.entries[i]
		if y := e.Year(); y != year {
			year = y
			b.WriteString("\n")
			b.WriteString(yearStyle.Render(year))
			b.WriteString("\n")
		}

		line := FormatCompactListItem(i, e)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("→ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ or j/k: navigate • enter: view details • x: XML view • q: quit"))

	return b.String()
}

func (m Model) selected() (content.Entry, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.entries) {
		return content.Entry{}, false
	}
	return m.entries[m.selectedIndex], true
}

func (m Model) renderDetailView() string {
	e, ok := m.selected()
	if !ok {
		return "No entry selected"
	}

	var b strings.Builder
	b.WriteString(FormatDetailedItem(e))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("esc: back to list • x: toggle XML view • q: quit"))

	return b.String()
}

func (m Model) renderXMLView() string {
	e, ok := m.selected()
	if !ok {
		return "No entry selected"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("RSS Item Preview"))
	b.WriteString("\n\n")
	b.WriteString(FormatXMLItem(e, m.generator))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("esc: back to list • x: toggle detail view • q: quit"))

	return b.String()
}

// Run starts the Bubble Tea program
func Run(entries []content.Entry, siteName string, gen *feed.Generator) error {
	if len(entries) == 0 {
		fmt.Println("No entries to preview")
		return nil
	}

	p := tea.NewProgram(NewModel(entries, siteName, gen), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
