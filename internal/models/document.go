package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentVersion is the only document version this build understands
const DocumentVersion = 1

// TimestampLayout keeps timestamps fixed-width so string order is time order
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the layout of WorkoutSession.DateISO
const DateLayout = "2006-01-02"

// Document is the single persisted structure holding all user data
type Document struct {
	Version   int               `json:"version"`
	Exercises []Exercise        `json:"exercises"`
	Templates []WorkoutTemplate `json:"templates"`
	Sessions  []WorkoutSession  `json:"sessions"`
}

// EmptyDocument returns a valid document with no data
func EmptyDocument() Document {
	return Document{
		Version:   DocumentVersion,
		Exercises: []Exercise{},
		Templates: []WorkoutTemplate{},
		Sessions:  []WorkoutSession{},
	}
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	out := Document{Version: d.Version}
	if d.Exercises != nil {
		out.Exercises = append([]Exercise{}, d.Exercises...)
	}
	if d.Templates != nil {
		out.Templates = make([]WorkoutTemplate, len(d.Templates))
		for i, t := range d.Templates {
			out.Templates[i] = t.Clone()
		}
	}
	if d.Sessions != nil {
		out.Sessions = make([]WorkoutSession, len(d.Sessions))
		for i, s := range d.Sessions {
			out.Sessions[i] = s.Clone()
		}
	}
	return out
}

// IsEmpty reports whether the library holds neither exercises nor templates
func (d Document) IsEmpty() bool {
	return len(d.Exercises) == 0 && len(d.Templates) == 0
}

// ExerciseByID looks up an exercise
func (d Document) ExerciseByID(id string) (Exercise, bool) {
	for _, e := range d.Exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}

// TemplateByID looks up a template
func (d Document) TemplateByID(id string) (WorkoutTemplate, bool) {
	for _, t := range d.Templates {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return WorkoutTemplate{}, false
}

// SessionByID looks up a session
func (d Document) SessionByID(id string) (WorkoutSession, bool) {
	for _, s := range d.Sessions {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return WorkoutSession{}, false
}

// ExercisesByID indexes the exercise library
func (d Document) ExercisesByID() map[string]Exercise {
	m := make(map[string]Exercise, len(d.Exercises))
	for _, e := range d.Exercises {
		m[e.ID] = e
	}
	return m
}

// Timestamp formats t the way every createdAt/updatedAt field is stored
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// DateISO formats the local calendar date of t
func DateISO(t time.Time) string {
	return t.Format(DateLayout)
}

// NewID returns a fresh random identifier
func NewID() string {
	return uuid.NewString()
}
