package storage

import (
	"time"

	"github.com/balkashynov/liftlog/internal/models"
)

type seedRow struct {
	exercise string
	sets     int
	reps     string
}

var starterTemplateName = "Day1_Push"

var starterRows = []seedRow{
	{"Barbell bench press", 4, "6-8"},
	{"Dumbbell overhead press", 3, "6-8"},
	{"Incline dumbbell press", 3, "8-10"},
	{"Weighted dips", 3, "8-10"},
	{"Lateral raises", 3, "12-15"},
}

// EnsureSeed fills a first-run document with a few exercises and one template.
// Documents that already hold exercises or templates are returned unchanged.
func EnsureSeed(doc models.Document, now time.Time, newID func() string) models.Document {
	if !doc.IsEmpty() {
		return doc
	}

	ts := models.Timestamp(now)
	exercises := make([]models.Exercise, 0, len(starterRows))
	rows := make([]models.TemplateExerciseRow, 0, len(starterRows))
	for _, r := range starterRows {
		ex := models.Exercise{ID: newID(), Name: r.exercise, CreatedAt: ts, UpdatedAt: ts}
		exercises = append(exercises, ex)
		rows = append(rows, models.TemplateExerciseRow{
			ID:          newID(),
			ExerciseID:  ex.ID,
			SetsPlanned: r.sets,
			TargetReps:  r.reps,
		})
	}

	doc.Exercises = exercises
	doc.Templates = []models.WorkoutTemplate{{
		ID:           newID(),
		Name:         starterTemplateName,
		ExerciseRows: rows,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}}
	if doc.Sessions == nil {
		doc.Sessions = []models.WorkoutSession{}
	}
	return doc
}
