package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/progress"
)

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusConfirm
)

// HistoryModel browses past sessions, newest first, with a detail pane
type HistoryModel struct {
	width  int
	height int

	all      []models.WorkoutSession // newest first
	visible  []models.WorkoutSession
	selected int // index in visible
	window   int

	focus       Focus
	searchQuery string

	currentPage     int
	sessionsPerPage int

	onDelete func(id string) error
	chosen   string // session picked for editing
	status   string
	err      error

	shimmer *Shimmer
}

// NewHistoryModel creates the browser. window is the number of sessions the
// volume chart covers; onDelete may be nil to disable deletion.
func NewHistoryModel(sessions []models.WorkoutSession, window int, onDelete func(id string) error) HistoryModel {
	sorted := progress.SortByDateDesc(sessions)
	return HistoryModel{
		all:             sorted,
		visible:         sorted,
		window:          window,
		onDelete:        onDelete,
		sessionsPerPage: 10,
		shimmer:         NewShimmer(DefaultShimmerConfig()),
	}
}

// Chosen returns the id of the session picked with enter or e, if any
func (m HistoryModel) Chosen() string { return m.chosen }

// Init initializes the model
func (m HistoryModel) Init() tea.Cmd {
	return m.shimmer.Tick()
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		if s, ok := m.current(); ok && m.focus == FocusTable {
			m.shimmer.Advance(len([]rune(s.TemplateName)))
		}
		return m, m.shimmer.Tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// header, pagination, help, borders and margins
		m.sessionsPerPage = m.height - 10
		if m.sessionsPerPage < 3 {
			m.sessionsPerPage = 3
		}
		m.currentPage = m.selected / m.sessionsPerPage
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case FocusSearch:
			return m.handleSearchKeys(msg)
		case FocusConfirm:
			return m.handleConfirmKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.searchQuery != "" {
				m.searchQuery = ""
				m.applyFilter()
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			return m.moveSelection(-1), nil

		case "down", "j":
			return m.moveSelection(1), nil

		case "left", "h":
			return m.changePage(-1), nil

		case "right", "l":
			return m.changePage(1), nil

		case "/":
			m.focus = FocusSearch
			m.shimmer.SetActive(false)
			return m, nil

		case "enter", "e":
			if s, ok := m.current(); ok {
				m.chosen = s.ID
				return m, tea.Quit
			}

		case "d":
			if _, ok := m.current(); ok && m.onDelete != nil {
				m.focus = FocusConfirm
			}
		}
	}
	return m, nil
}

func (m HistoryModel) handleSearchKeys(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searchQuery = ""
		m.applyFilter()
		m.focus = FocusTable
		m.shimmer.SetActive(true)
		return m, m.shimmer.Tick()
	case tea.KeyEnter:
		m.focus = FocusTable
		m.shimmer.SetActive(true)
		return m, m.shimmer.Tick()
	case tea.KeyBackspace:
		if r := []rune(m.searchQuery); len(r) > 0 {
			m.searchQuery = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.searchQuery += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m HistoryModel) handleConfirmKeys(msg tea.KeyMsg) (HistoryModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.focus = FocusTable
		s, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.onDelete(s.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Deleted session %s (%s)", s.DateISO, s.TemplateName)
		m.all = removeSession(m.all, s.ID)
		m.applyFilter()
	case "ctrl+c":
		return m, tea.Quit
	default:
		m.focus = FocusTable
	}
	return m, nil
}

func removeSession(sessions []models.WorkoutSession, id string) []models.WorkoutSession {
	out := make([]models.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// applyFilter keeps sessions whose template name or date contains the query
func (m *HistoryModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.searchQuery))
	if q == "" {
		m.visible = m.all
	} else {
		m.visible = nil
		for _, s := range m.all {
			if strings.Contains(strings.ToLower(s.TemplateName), q) || strings.Contains(s.DateISO, q) {
				m.visible = append(m.visible, s)
			}
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.currentPage = m.selected / m.sessionsPerPage
	m.shimmer.Reset()
}

func (m HistoryModel) current() (models.WorkoutSession, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return models.WorkoutSession{}, false
	}
	return m.visible[m.selected], true
}

func (m HistoryModel) moveSelection(delta int) HistoryModel {
	next := m.selected + delta
	if next < 0 || next >= len(m.visible) {
		return m
	}
	m.selected = next
	m.currentPage = m.selected / m.sessionsPerPage
	m.shimmer.Reset()
	return m
}

func (m HistoryModel) changePage(delta int) HistoryModel {
	pages := m.pageCount()
	page := m.currentPage + delta
	if page < 0 || page >= pages {
		return m
	}
	m.currentPage = page
	m.selected = page * m.sessionsPerPage
	m.shimmer.Reset()
	return m
}

func (m HistoryModel) pageCount() int {
	if len(m.visible) == 0 {
		return 1
	}
	return (len(m.visible) + m.sessionsPerPage - 1) / m.sessionsPerPage
}

// View renders the TUI
func (m HistoryModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSessionTable(leftWidth),
		" ",
		m.renderSessionDetails(rightWidth),
	)

	var bottom string
	switch m.focus {
	case FocusSearch:
		bottom = m.renderSearchBar()
	case FocusConfirm:
		bottom = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).
			Render("Delete this session? This cannot be undone. (y/N)")
	default:
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

func (m HistoryModel) renderSessionTable(width int) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorSecondaryText))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	draftStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))

	nameWidth := width - 34
	if nameWidth < 10 {
		nameWidth = 10
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-10s  %-*s  %9s  %s", "DATE", nameWidth, "TEMPLATE", "VOLUME", "EX")))
	b.WriteString("\n")

	if len(m.visible) == 0 {
		msg := "No sessions yet. Use 'liftlog session log' to track one."
		if m.searchQuery != "" {
			msg = fmt.Sprintf("No sessions match %q.", m.searchQuery)
		}
		b.WriteString(mutedStyle.Render(msg))
	}

	start := m.currentPage * m.sessionsPerPage
	end := min(start+m.sessionsPerPage, len(m.visible))
	for i := start; i < end; i++ {
		s := m.visible[i]
		name := truncate(s.TemplateName, nameWidth)
		marker := "  "
		if i == m.selected {
			marker = "▶ "
		}
		pad := strings.Repeat(" ", max(0, nameWidth-lipgloss.Width(name)))
		if i == m.selected {
			name = m.shimmer.Render(name)
		} else {
			name = rowStyle.Render(name)
		}
		line := fmt.Sprintf("%s%-10s  %s%s  %9s  %2d",
			marker, s.DateISO, name, pad,
			parser.FormatNumber(roundVolume(progress.SessionVolume(s))), len(s.Entries))
		if s.IsDraft {
			line += draftStyle.Render(" draft")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d/%d · %d sessions", m.currentPage+1, m.pageCount(), len(m.visible))))

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Render(b.String())
}

func (m HistoryModel) renderSessionDetails(width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	chartStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain))

	box := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1)

	s, ok := m.current()
	if !ok {
		return box.Render(mutedStyle.Render("Nothing selected"))
	}

	summary := progress.SessionSummary(s)
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", s.TemplateName, s.DateISO)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s kg·reps · %d exercises",
		parser.FormatNumber(roundVolume(summary.TotalVolume)), len(s.Entries))))
	b.WriteString("\n\n")

	for _, e := range s.Entries {
		b.WriteString(labelStyle.Render(e.ExerciseName))
		b.WriteString("\n")
		for i, set := range e.Sets {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  Set %d  %s kg × %s",
				i+1, parser.FormatOptional(set.WeightKg, "—"), parser.FormatOptional(set.Reps, "—"))))
			b.WriteString("\n")
		}
	}

	if s.Comment != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("“" + s.Comment + "”"))
		b.WriteString("\n")
	}

	report := progress.TemplateProgress(m.all, s.TemplateID, "", m.window)
	if len(report.WorkoutVolume) > 1 {
		b.WriteString("\n")
		b.WriteString(chartStyle.Render(ChartCard(fmt.Sprintf("Volume (last %d)", len(report.WorkoutVolume)), "", report.WorkoutVolume)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ " + m.err.Error()))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✓ " + m.status))
	}

	return box.Render(b.String())
}

func (m HistoryModel) renderSearchBar() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return style.Render("/ " + m.searchQuery + "█")
}

func (m HistoryModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	help := "↑/↓ navigate • ←/→ page • / search • enter/e edit"
	if m.onDelete != nil {
		help += " • d delete"
	}
	return helpStyle.Render(help + " • q quit")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func roundVolume(v float64) float64 {
	return math.Floor(v + 0.5)
}
