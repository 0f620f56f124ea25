// Package draft holds sessions while they are being typed in. Values are kept
// as the raw text the user entered and only parsed when the draft is saved.
package draft

import (
	"strings"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/progress"
)

// Planned sets per template row are kept within this range
const (
	MinSetsPlanned = 1
	MaxSetsPlanned = 20
)

// Field selects the reps or weight column of a set
type Field int

const (
	FieldReps Field = iota
	FieldWeight
)

// SetText is a set as typed
type SetText struct {
	Reps     string
	WeightKg string
}

// Entry is one exercise of the draft
type Entry struct {
	ExerciseID   string
	ExerciseName string
	TargetReps   string
	Sets         []SetText
}

// Draft is an unsaved or re-opened session
type Draft struct {
	ID           string
	DateISO      string
	TemplateID   string
	TemplateName string
	Comment      string
	Entries      []Entry
}

// FromTemplate starts a draft for template on dateISO. Rows whose exercise no
// longer exists are skipped. Each row gets its planned number of blank sets,
// then values from the last session of the same template are copied in.
func FromTemplate(tpl models.WorkoutTemplate, exercises map[string]models.Exercise, sessions []models.WorkoutSession, id, dateISO string) Draft {
	d := Draft{
		ID:           id,
		DateISO:      dateISO,
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		Entries:      make([]Entry, 0, len(tpl.ExerciseRows)),
	}

	for _, row := range tpl.ExerciseRows {
		ex, ok := exercises[row.ExerciseID]
		if !ok {
			continue
		}
		sets := make([]SetText, parser.ClampInt(float64(row.SetsPlanned), MinSetsPlanned, MaxSetsPlanned))
		d.Entries = append(d.Entries, Entry{
			ExerciseID:   row.ExerciseID,
			ExerciseName: ex.Name,
			TargetReps:   row.TargetReps,
			Sets:         sets,
		})
	}

	if last, ok := progress.LastSessionForTemplate(sessions, tpl.ID); ok {
		d.Prefill(last)
	}
	return d
}

// Prefill copies reps and weight from prior into the draft, matching entries by
// exercise and sets by position. Only min(len(draft sets), len(prior sets))
// sets are touched; extra planned sets stay blank.
func (d *Draft) Prefill(prior models.WorkoutSession) {
	for i := range d.Entries {
		prev, ok := prior.Entry(d.Entries[i].ExerciseID)
		if !ok {
			continue
		}
		sets := d.Entries[i].Sets
		for j := 0; j < len(sets) && j < len(prev.Sets); j++ {
			sets[j] = textOf(prev.Sets[j])
		}
	}
}

// FromSession opens a stored session for editing
func FromSession(s models.WorkoutSession) Draft {
	d := Draft{
		ID:           s.ID,
		DateISO:      s.DateISO,
		TemplateID:   s.TemplateID,
		TemplateName: s.TemplateName,
		Comment:      s.Comment,
		Entries:      make([]Entry, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		sets := make([]SetText, len(e.Sets))
		for i, set := range e.Sets {
			sets[i] = textOf(set)
		}
		d.Entries = append(d.Entries, Entry{
			ExerciseID:   e.ExerciseID,
			ExerciseName: e.ExerciseName,
			TargetReps:   e.TargetReps,
			Sets:         sets,
		})
	}
	return d
}

// Set stores raw text into one cell. Out-of-range positions are ignored.
func (d *Draft) Set(entry, set int, field Field, value string) {
	if entry < 0 || entry >= len(d.Entries) {
		return
	}
	sets := d.Entries[entry].Sets
	if set < 0 || set >= len(sets) {
		return
	}
	switch field {
	case FieldReps:
		sets[set].Reps = value
	case FieldWeight:
		sets[set].WeightKg = value
	}
}

// Get reads the raw text of one cell
func (d Draft) Get(entry, set int, field Field) string {
	if entry < 0 || entry >= len(d.Entries) || set < 0 || set >= len(d.Entries[entry].Sets) {
		return ""
	}
	s := d.Entries[entry].Sets[set]
	if field == FieldReps {
		return s.Reps
	}
	return s.WeightKg
}

// Cells returns the number of editable cells (two per set)
func (d Draft) Cells() int {
	n := 0
	for _, e := range d.Entries {
		n += 2 * len(e.Sets)
	}
	return n
}

// ToSession parses the draft. Text that is not a number becomes nil.
// Timestamps are left to the store.
func (d Draft) ToSession() models.WorkoutSession {
	s := models.WorkoutSession{
		ID:           d.ID,
		DateISO:      d.DateISO,
		TemplateID:   d.TemplateID,
		TemplateName: d.TemplateName,
		Comment:      strings.TrimSpace(d.Comment),
		Entries:      make([]models.SessionExerciseEntry, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		sets := make([]models.SetEntry, len(e.Sets))
		for i, set := range e.Sets {
			sets[i] = models.SetEntry{
				Reps:     parser.ParseNumberOrNull(set.Reps),
				WeightKg: parser.ParseNumberOrNull(set.WeightKg),
			}
		}
		s.Entries = append(s.Entries, models.SessionExerciseEntry{
			ExerciseID:   e.ExerciseID,
			ExerciseName: e.ExerciseName,
			TargetReps:   e.TargetReps,
			Sets:         sets,
		})
	}
	return s
}

// NormalizeRows prepares template rows for the store: setsPlanned is clamped
// to 1-20, target reps are trimmed and rows without an id get one.
func NormalizeRows(rows []models.TemplateExerciseRow, newID func() string) []models.TemplateExerciseRow {
	out := make([]models.TemplateExerciseRow, len(rows))
	for i, r := range rows {
		r.SetsPlanned = parser.ClampInt(float64(r.SetsPlanned), MinSetsPlanned, MaxSetsPlanned)
		r.TargetReps = strings.TrimSpace(r.TargetReps)
		if r.ID == "" {
			r.ID = newID()
		}
		out[i] = r
	}
	return out
}

func textOf(set models.SetEntry) SetText {
	t := SetText{WeightKg: parser.FormatKg(set.WeightKg)}
	if set.Reps != nil {
		t.Reps = parser.FormatNumber(*set.Reps)
	}
	return t
}

// EntryIndex finds the entry for an exercise by id or by case-insensitive name.
// It returns -1 when the draft has no such exercise.
func (d Draft) EntryIndex(ref string) int {
	ref = strings.TrimSpace(ref)
	for i, e := range d.Entries {
		if e.ExerciseID == ref {
			return i
		}
	}
	for i, e := range d.Entries {
		if strings.EqualFold(e.ExerciseName, ref) {
			return i
		}
	}
	return -1
}

// ReplaceSets overwrites every set of one entry, e.g. with sets given on the
// command line. The number of sets follows sets, not the template plan.
func (d *Draft) ReplaceSets(entry int, sets []models.SetEntry) {
	if entry < 0 || entry >= len(d.Entries) {
		return
	}
	texts := make([]SetText, len(sets))
	for i, s := range sets {
		texts[i] = textOf(s)
	}
	d.Entries[entry].Sets = texts
}
