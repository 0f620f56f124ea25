package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/liftlog/internal/draft"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/progress"
)

// SaveFunc persists the draft. finish is false for ctrl+s (keep as draft).
type SaveFunc func(d draft.Draft, finish bool) error

// LogResult is how the logging form was closed
type LogResult int

const (
	ResultNone LogResult = iota
	ResultCancelled
	ResultSavedDraft
	ResultFinished
)

type cellRef struct {
	entry int
	set   int
	field draft.Field
}

// LogModel is the form used to log or edit a session: one reps and one
// weight input per set, followed by a comment field
type LogModel struct {
	draft    draft.Draft
	cells    []cellRef
	inputs   []textinput.Model // cells first, comment last
	initial  []string
	focus    int
	editMode bool
	save     SaveFunc

	width  int
	height int

	result LogResult
	err    error

	showSaveModal   bool
	saveModalChoice bool // true for Yes

	shimmer *Shimmer
}

// NewLogModel builds the form for d. save is called on ctrl+s and on finish.
func NewLogModel(d draft.Draft, editMode bool, save SaveFunc) LogModel {
	m := LogModel{
		draft:    d,
		editMode: editMode,
		save:     save,
		shimmer:  NewShimmer(DefaultShimmerConfig()),
	}
	for ei, e := range d.Entries {
		for si := range e.Sets {
			m.cells = append(m.cells,
				cellRef{entry: ei, set: si, field: draft.FieldReps},
				cellRef{entry: ei, set: si, field: draft.FieldWeight})
		}
	}

	m.inputs = make([]textinput.Model, len(m.cells)+1)
	for i := range m.inputs {
		in := textinput.New()
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
		in.Prompt = ""

		if i < len(m.cells) {
			c := m.cells[i]
			in.Width = 6
			in.CharLimit = 8
			in.Placeholder = "kg"
			if c.field == draft.FieldReps {
				in.Placeholder = "reps"
			}
			in.SetValue(d.Get(c.entry, c.set, c.field))
		} else {
			in.Width = 50
			in.CharLimit = 500
			in.Placeholder = "How did it go? (optional)"
			in.SetValue(d.Comment)
		}
		m.inputs[i] = in
		m.initial = append(m.initial, in.Value())
	}
	m.inputs[0].Focus()
	return m
}

// Draft returns the draft with everything typed so far
func (m LogModel) Draft() draft.Draft { return m.draft }

// Result reports how the form was closed
func (m LogModel) Result() LogResult { return m.result }

// Err is the last save error shown in the form
func (m LogModel) Err() error { return m.err }

// Init initializes the model
func (m LogModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.shimmer.Tick())
}

// Update handles messages
func (m LogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.shimmer.Advance(len([]rune(m.focusLabel())))
		return m, m.shimmer.Tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.showSaveModal {
			return m.handleModalKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			m.result = ResultCancelled
			return m, tea.Quit

		case "esc":
			if !m.hasChanges() {
				m.result = ResultCancelled
				return m, tea.Quit
			}
			m.showSaveModal = true
			m.saveModalChoice = true
			return m, nil

		case "ctrl+s":
			return m.submit(false)

		case "ctrl+f":
			return m.submit(true)

		case "enter":
			if m.focus == len(m.inputs)-1 {
				return m.submit(true)
			}
			return m.moveFocus(1)

		case "tab":
			return m.moveFocus(1)

		case "shift+tab":
			return m.moveFocus(-1)

		case "down":
			return m.moveFocus(2)

		case "up":
			return m.moveFocus(-2)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncField()
	return m, cmd
}

func (m LogModel) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right":
		m.saveModalChoice = !m.saveModalChoice
	case "y", "Y":
		m.showSaveModal = false
		return m.submit(false)
	case "n", "N":
		m.showSaveModal = false
		m.result = ResultCancelled
		return m, tea.Quit
	case "enter":
		m.showSaveModal = false
		if m.saveModalChoice {
			return m.submit(false)
		}
		m.result = ResultCancelled
		return m, tea.Quit
	case "esc":
		m.showSaveModal = false
	case "ctrl+c":
		m.result = ResultCancelled
		return m, tea.Quit
	}
	return m, nil
}

// moveFocus shifts focus by delta, stopping at the first and last field
func (m LogModel) moveFocus(delta int) (LogModel, tea.Cmd) {
	next := m.focus + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.inputs)-1 {
		next = len(m.inputs) - 1
	}
	if next == m.focus {
		return m, nil
	}
	prevLabel := m.focusLabel()
	m.inputs[m.focus].Blur()
	m.focus = next
	if m.focusLabel() != prevLabel {
		m.shimmer.Reset()
	}
	return m, m.inputs[m.focus].Focus()
}

func (m *LogModel) syncField() {
	value := m.inputs[m.focus].Value()
	if m.focus == len(m.cells) {
		m.draft.Comment = value
		return
	}
	c := m.cells[m.focus]
	m.draft.Set(c.entry, c.set, c.field, value)
}

func (m LogModel) submit(finish bool) (LogModel, tea.Cmd) {
	if m.save != nil {
		if err := m.save(m.draft, finish); err != nil {
			m.err = err
			return m, nil
		}
	}
	m.err = nil
	m.result = ResultSavedDraft
	if finish {
		m.result = ResultFinished
	}
	return m, tea.Quit
}

func (m LogModel) hasChanges() bool {
	for i, in := range m.inputs {
		if in.Value() != m.initial[i] {
			return true
		}
	}
	return false
}

// focusLabel is the heading of the block holding the focused field
func (m LogModel) focusLabel() string {
	if m.focus >= len(m.cells) {
		return "Comment"
	}
	return m.draft.Entries[m.cells[m.focus].entry].ExerciseName
}

// View renders the TUI
func (m LogModel) View() string {
	if m.result != ResultNone {
		return ""
	}

	if m.width < 90 {
		return m.renderSmallLayout()
	}

	rightWidth := 40
	leftWidth := m.width - rightWidth - 4

	leftStyle := lipgloss.NewStyle().
		Width(leftWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1)
	rightStyle := lipgloss.NewStyle().
		Width(rightWidth).
		Padding(1)

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(m.renderForm(m.height-4)),
		" ",
		rightStyle.Render(m.renderPreview()),
	)
	mainView = lipgloss.JoinVertical(lipgloss.Left, mainView, m.renderHelpBar())

	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return mainView
}

func (m LogModel) renderSmallLayout() string {
	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderForm(m.height-3), m.renderHelpBar())
}

// renderForm lays out the grid and keeps the focused row visible within maxLines
func (m LogModel) renderForm(maxLines int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))

	title := fmt.Sprintf("🏋 Log %s · %s", m.draft.TemplateName, m.draft.DateISO)
	if m.editMode {
		title = fmt.Sprintf("✎ Edit %s · %s", m.draft.TemplateName, m.draft.DateISO)
	}

	lines := []string{titleStyle.Render(title), ""}
	focusLine := 0

	cell := 0
	for ei, e := range m.draft.Entries {
		label := labelStyle.Render(e.ExerciseName)
		if m.focus < len(m.cells) && m.cells[m.focus].entry == ei {
			label = m.shimmer.Render(e.ExerciseName)
		}
		if e.TargetReps != "" {
			label += mutedStyle.Render("  target " + e.TargetReps)
		}
		lines = append(lines, label)

		for si := range e.Sets {
			if m.focus == cell || m.focus == cell+1 {
				focusLine = len(lines)
			}
			row := fmt.Sprintf("  Set %-2d %s reps × %s kg",
				si+1, m.inputs[cell].View(), m.inputs[cell+1].View())
			lines = append(lines, row)
			cell += 2
		}
		lines = append(lines, "")
	}

	commentLabel := labelStyle.Render("Comment")
	if m.focus == len(m.cells) {
		commentLabel = m.shimmer.Render("Comment")
		focusLine = len(lines) + 1
	}
	lines = append(lines, commentLabel, m.inputs[len(m.cells)].View())

	if len(m.draft.Entries) == 0 {
		lines = append(lines, "", mutedStyle.Render("This template has no exercises left."))
	}
	if m.err != nil {
		lines = append(lines, "", errStyle.Render("✗ "+m.err.Error()))
	}

	return strings.Join(clipLines(lines, focusLine, maxLines), "\n")
}

// clipLines returns at most max lines around focus, keeping the title
func clipLines(lines []string, focus, max int) []string {
	if max <= 0 || len(lines) <= max {
		return lines
	}
	start := focus - max/2
	if start < 0 {
		start = 0
	}
	if start+max > len(lines) {
		start = len(lines) - max
	}
	return lines[start : start+max]
}

// renderPreview shows live totals for what has been typed so far
func (m LogModel) renderPreview() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))

	summary := progress.SessionSummary(m.draft.ToSession())

	var b strings.Builder
	b.WriteString(titleStyle.Render("Volume"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(parser.FormatNumber(summary.TotalVolume)))
	b.WriteString(mutedStyle.Render(" kg·reps"))
	b.WriteString("\n\n")

	for _, e := range summary.PerExercise {
		top := "—"
		if e.TopSet.WeightKg != nil {
			top = fmt.Sprintf("%s kg × %s", parser.FormatKg(e.TopSet.WeightKg), parser.FormatOptional(e.TopSet.Reps, "—"))
		}
		b.WriteString(valueStyle.Render(e.ExerciseName))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s kg·reps · top %s", parser.FormatNumber(e.Volume), top)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m LogModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	return helpStyle.Render("tab/↓ next • shift+tab/↑ prev • ctrl+s save draft • ctrl+f or enter on comment: finish • esc quit")
}

// renderSaveModal asks whether unsaved input should be kept as a draft
func (m LogModel) renderSaveModal() string {
	var content strings.Builder
	content.WriteString("Keep this session as a draft?\n\n")

	yesStyle := lipgloss.NewStyle().Padding(0, 2)
	noStyle := lipgloss.NewStyle().Padding(0, 2)
	if m.saveModalChoice {
		yesStyle = yesStyle.
			Background(lipgloss.Color(ColorAccentBright)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
	} else {
		noStyle = noStyle.
			Background(lipgloss.Color(ColorError)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
	}

	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, yesStyle.Render("Yes"), "   ", noStyle.Render("No")))
	content.WriteString("\n\n← → or Y/N to choose, Enter to confirm\nEsc to keep editing")

	modal := lipgloss.NewStyle().
		Width(50).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center).
		Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
