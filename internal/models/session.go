package models

// SetEntry is a single performed set. Either field may be nil while the user
// has not filled it in yet.
type SetEntry struct {
	Reps     *float64 `json:"reps"`
	WeightKg *float64 `json:"weightKg"`
}

// NewSet builds a fully filled set
func NewSet(reps, weightKg float64) SetEntry {
	return SetEntry{Reps: &reps, WeightKg: &weightKg}
}

// Clone returns a copy that does not share number pointers with s
func (s SetEntry) Clone() SetEntry {
	var out SetEntry
	if s.Reps != nil {
		r := *s.Reps
		out.Reps = &r
	}
	if s.WeightKg != nil {
		w := *s.WeightKg
		out.WeightKg = &w
	}
	return out
}

// SessionExerciseEntry holds the sets performed for one exercise in a session.
// ExerciseName is a snapshot taken when the session was recorded.
type SessionExerciseEntry struct {
	ExerciseID   string     `json:"exerciseId"`
	ExerciseName string     `json:"exerciseName"`
	TargetReps   string     `json:"targetReps,omitempty"`
	Sets         []SetEntry `json:"sets"`
}

// WorkoutSession is a dated record of performed sets against a template
type WorkoutSession struct {
	ID           string                 `json:"id"`
	DateISO      string                 `json:"dateISO"` // YYYY-MM-DD
	TemplateID   string                 `json:"templateId"`
	TemplateName string                 `json:"templateName"` // snapshot
	Entries      []SessionExerciseEntry `json:"entries"`
	Comment      string                 `json:"comment,omitempty"`
	IsDraft      bool                   `json:"isDraft,omitempty"`
	CreatedAt    string                 `json:"createdAt"`
	UpdatedAt    string                 `json:"updatedAt"`
}

// Clone returns a deep copy of the session
func (s WorkoutSession) Clone() WorkoutSession {
	if s.Entries == nil {
		return s
	}
	entries := make([]SessionExerciseEntry, len(s.Entries))
	for i, e := range s.Entries {
		if e.Sets != nil {
			sets := make([]SetEntry, len(e.Sets))
			for j, set := range e.Sets {
				sets[j] = set.Clone()
			}
			e.Sets = sets
		}
		entries[i] = e
	}
	s.Entries = entries
	return s
}

// Entry returns the entry for exerciseID, if the session has one
func (s WorkoutSession) Entry(exerciseID string) (SessionExerciseEntry, bool) {
	for _, e := range s.Entries {
		if e.ExerciseID == exerciseID {
			return e, true
		}
	}
	return SessionExerciseEntry{}, false
}

// LastTouched returns updatedAt, falling back to createdAt
func (s WorkoutSession) LastTouched() string {
	if s.UpdatedAt != "" {
		return s.UpdatedAt
	}
	return s.CreatedAt
}
