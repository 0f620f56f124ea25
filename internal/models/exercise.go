package models

// Exercise is an entry in the exercise library
type Exercise struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TemplateExerciseRow is one planned exercise inside a template.
// Rows are owned by their template and have no life outside it.
type TemplateExerciseRow struct {
	ID          string `json:"id"`
	ExerciseID  string `json:"exerciseId"`
	SetsPlanned int    `json:"setsPlanned"`
	TargetReps  string `json:"targetReps"` // e.g. "6-8" or "15"
}

// WorkoutTemplate is a reusable, ordered list of exercises used to start sessions
type WorkoutTemplate struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	ExerciseRows []TemplateExerciseRow `json:"exerciseRows"`
	CreatedAt    string                `json:"createdAt"`
	UpdatedAt    string                `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with t
func (t WorkoutTemplate) Clone() WorkoutTemplate {
	if t.ExerciseRows != nil {
		t.ExerciseRows = append([]TemplateExerciseRow{}, t.ExerciseRows...)
	}
	return t
}
