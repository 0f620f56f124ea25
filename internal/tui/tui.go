package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/liftlog/internal/draft"
	"github.com/balkashynov/liftlog/internal/models"
)

// RunLogSession opens the logging form for d and reports how it was closed.
// Saving happens inside the form through save, so a failed save keeps the
// user's input on screen.
func RunLogSession(d draft.Draft, editMode bool, save SaveFunc) (LogResult, error) {
	p := tea.NewProgram(NewLogModel(d, editMode, save), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return ResultNone, fmt.Errorf("session form: %w", err)
	}

	m, ok := finalModel.(LogModel)
	if !ok {
		return ResultNone, nil
	}
	return m.Result(), nil
}

// RunHistory opens the session browser. It returns the id of the session
// picked for editing, or "" when the user just quit.
func RunHistory(sessions []models.WorkoutSession, window int, onDelete func(id string) error) (string, error) {
	p := tea.NewProgram(NewHistoryModel(sessions, window, onDelete), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("history browser: %w", err)
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return "", nil
	}
	return m.Chosen(), nil
}
