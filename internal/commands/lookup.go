package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/models"
)

// shortID is how ids are shown in listings; any unique prefix is accepted back
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findExercise resolves an exercise by id, unique id prefix or name
func findExercise(doc models.Document, ref string) (models.Exercise, error) {
	ref = strings.TrimSpace(ref)
	var byName, byPrefix []models.Exercise
	for _, e := range doc.Exercises {
		if e.ID == ref {
			return e, nil
		}
		if strings.EqualFold(e.Name, ref) {
			byName = append(byName, e)
		}
		if strings.HasPrefix(e.ID, ref) {
			byPrefix = append(byPrefix, e)
		}
	}
	switch {
	case len(byName) == 1:
		return byName[0], nil
	case len(byName) > 1:
		return models.Exercise{}, fmt.Errorf("%d exercises are named %q, use the id instead", len(byName), ref)
	case len(byPrefix) == 1 && ref != "":
		return byPrefix[0], nil
	}
	return models.Exercise{}, fmt.Errorf("exercise %q not found", ref)
}

// findTemplate resolves a template by id, unique id prefix or name
func findTemplate(doc models.Document, ref string) (models.WorkoutTemplate, error) {
	ref = strings.TrimSpace(ref)
	var byName, byPrefix []models.WorkoutTemplate
	for _, t := range doc.Templates {
		if t.ID == ref {
			return t.Clone(), nil
		}
		if strings.EqualFold(t.Name, ref) {
			byName = append(byName, t)
		}
		if strings.HasPrefix(t.ID, ref) {
			byPrefix = append(byPrefix, t)
		}
	}
	switch {
	case len(byName) == 1:
		return byName[0].Clone(), nil
	case len(byName) > 1:
		return models.WorkoutTemplate{}, fmt.Errorf("%d templates are named %q, use the id instead", len(byName), ref)
	case len(byPrefix) == 1 && ref != "":
		return byPrefix[0].Clone(), nil
	}
	return models.WorkoutTemplate{}, fmt.Errorf("template %q not found", ref)
}

// findSession resolves a session by id or unique id prefix
func findSession(doc models.Document, ref string) (models.WorkoutSession, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.WorkoutSession{}, fmt.Errorf("session id is required")
	}
	var matches []models.WorkoutSession
	for _, s := range doc.Sessions {
		if s.ID == ref {
			return s.Clone(), nil
		}
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0].Clone(), nil
	case 0:
		return models.WorkoutSession{}, fmt.Errorf("session %q not found", ref)
	default:
		return models.WorkoutSession{}, fmt.Errorf("session id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// confirm asks a yes/no question on the command's streams. Anything but y/yes is no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
