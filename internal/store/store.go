// Package store owns the in-memory liftlog document and every mutation on it.
//
// A Store is an explicit handle: callers receive it from Open or New and all
// changes go through its methods. Each mutation is applied to a copy of the
// current document, persisted, and only then made current, so a failed save
// leaves the in-memory state untouched.
package store

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/storage"
)

// ErrSessionExists is returned by AddSession for an id already in use
var ErrSessionExists = errors.New("session already exists")

// Persister writes whole documents
type Persister interface {
	Save(doc models.Document) error
	Reset() error
}

// Store holds the current document
type Store struct {
	mu      sync.Mutex
	doc     models.Document
	persist Persister
	now     func() time.Time
	newID   func() string
	log     logrus.FieldLogger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the random id source
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for mutation traces
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// New wraps an already loaded document
func New(doc models.Document, persist Persister, opts ...Option) *Store {
	s := &Store{
		doc:     doc.Clone(),
		persist: persist,
		now:     time.Now,
		newID:   models.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// Open loads the document through adapter. With seed set, a first-run
// document gets the starter exercises and template, which are saved right away.
func Open(adapter *storage.Adapter, seed bool, opts ...Option) (*Store, error) {
	s := New(adapter.Load(), adapter, opts...)
	if !seed || !s.doc.IsEmpty() {
		return s, nil
	}

	seeded := storage.EnsureSeed(s.doc, s.now(), s.newID)
	if err := s.commit(seeded); err != nil {
		return nil, fmt.Errorf("seed document: %w", err)
	}
	s.log.Info("store: seeded starter exercises and template")
	return s, nil
}

// Snapshot returns a deep copy of the current document
func (s *Store) Snapshot() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// ExerciseByID looks up an exercise in the current document
func (s *Store) ExerciseByID(id string) (models.Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.ExerciseByID(id)
}

// TemplateByID looks up a template in the current document
func (s *Store) TemplateByID(id string) (models.WorkoutTemplate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.TemplateByID(id)
}

// SessionByID looks up a session in the current document
func (s *Store) SessionByID(id string) (models.WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.SessionByID(id)
}

// ExerciseInput holds the editable fields of an exercise
type ExerciseInput struct {
	ID    string // empty creates a new exercise
	Name  string
	Notes string
}

// UpsertExercise updates the exercise with in.ID or creates a new one.
// The name is trimmed; validating it is left to the caller.
func (s *Store) UpsertExercise(in ExerciseInput) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.timestamp()
	next := s.doc.Clone()
	name := strings.TrimSpace(in.Name)

	for i, e := range next.Exercises {
		if in.ID == "" || e.ID != in.ID {
			continue
		}
		e.Name = name
		e.Notes = in.Notes
		e.UpdatedAt = ts
		next.Exercises[i] = e
		if err := s.commit(next); err != nil {
			return models.Exercise{}, err
		}
		s.log.WithField("exercise", e.ID).Debug("store: exercise updated")
		return e, nil
	}

	e := models.Exercise{
		ID:        s.newID(),
		Name:      name,
		Notes:     in.Notes,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	next.Exercises = append([]models.Exercise{e}, next.Exercises...)
	if err := s.commit(next); err != nil {
		return models.Exercise{}, err
	}
	s.log.WithField("exercise", e.ID).Debug("store: exercise created")
	return e, nil
}

// DeleteExercise removes an exercise from the library and strips it from every
// template, bumping updatedAt on all templates. Sessions keep their entries and
// name snapshots.
func (s *Store) DeleteExercise(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.timestamp()
	next := s.doc.Clone()

	exercises := next.Exercises[:0]
	for _, e := range next.Exercises {
		if e.ID != id {
			exercises = append(exercises, e)
		}
	}
	next.Exercises = exercises

	for i, t := range next.Templates {
		rows := t.ExerciseRows[:0]
		for _, r := range t.ExerciseRows {
			if r.ExerciseID != id {
				rows = append(rows, r)
			}
		}
		t.ExerciseRows = rows
		t.UpdatedAt = ts
		next.Templates[i] = t
	}

	if err := s.commit(next); err != nil {
		return err
	}
	s.log.WithField("exercise", id).Debug("store: exercise deleted")
	return nil
}

// TemplateInput holds a template as edited by the user
type TemplateInput struct {
	ID           string // empty creates a new template
	Name         string
	ExerciseRows []models.TemplateExerciseRow
	CreatedAt    string // used on create; now when empty
}

// UpsertTemplate creates or replaces the template with in.ID. Rows are stored
// as given: setsPlanned must already be within 1-20 (see draft.NormalizeRows).
func (s *Store) UpsertTemplate(in TemplateInput) (models.WorkoutTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.timestamp()
	next := s.doc.Clone()
	rows := make([]models.TemplateExerciseRow, len(in.ExerciseRows))
	copy(rows, in.ExerciseRows)

	for i, t := range next.Templates {
		if in.ID == "" || t.ID != in.ID {
			continue
		}
		t.Name = in.Name
		t.ExerciseRows = rows
		if in.CreatedAt != "" {
			t.CreatedAt = in.CreatedAt
		}
		t.UpdatedAt = ts
		next.Templates[i] = t
		if err := s.commit(next); err != nil {
			return models.WorkoutTemplate{}, err
		}
		s.log.WithField("template", t.ID).Debug("store: template replaced")
		return t.Clone(), nil
	}

	t := models.WorkoutTemplate{
		ID:           in.ID,
		Name:         in.Name,
		ExerciseRows: rows,
		CreatedAt:    in.CreatedAt,
		UpdatedAt:    ts,
	}
	if t.ID == "" {
		t.ID = s.newID()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = ts
	}
	next.Templates = append([]models.WorkoutTemplate{t}, next.Templates...)
	if err := s.commit(next); err != nil {
		return models.WorkoutTemplate{}, err
	}
	s.log.WithField("template", t.ID).Debug("store: template created")
	return t.Clone(), nil
}

// DeleteTemplate removes a template together with every session recorded from it
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()

	templates := next.Templates[:0]
	for _, t := range next.Templates {
		if t.ID != id {
			templates = append(templates, t)
		}
	}
	next.Templates = templates

	sessions := next.Sessions[:0]
	for _, ss := range next.Sessions {
		if ss.TemplateID != id {
			sessions = append(sessions, ss)
		}
	}
	removed := len(next.Sessions) - len(sessions)
	next.Sessions = sessions

	if err := s.commit(next); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"template": id, "sessions": removed}).Debug("store: template deleted")
	return nil
}

// AddSession records a new session in front of the existing ones. A fresh id
// is assigned when session.ID is empty; timestamps are always set to now.
func (s *Store) AddSession(session models.WorkoutSession) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.timestamp()
	session = session.Clone()
	if session.ID == "" {
		session.ID = s.newID()
	}
	if _, exists := s.doc.SessionByID(session.ID); exists {
		return models.WorkoutSession{}, fmt.Errorf("%w: %s", ErrSessionExists, session.ID)
	}
	session.CreatedAt = ts
	session.UpdatedAt = ts

	next := s.doc.Clone()
	next.Sessions = append([]models.WorkoutSession{session}, next.Sessions...)
	if err := s.commit(next); err != nil {
		return models.WorkoutSession{}, err
	}
	s.log.WithFields(logrus.Fields{"session": session.ID, "date": session.DateISO}).Debug("store: session added")
	return session.Clone(), nil
}

// UpdateSession applies mutate to the session with id and bumps updatedAt.
// found is false, and nothing is saved, when no such session exists.
// The mutator cannot change the session id.
func (s *Store) UpdateSession(id string, mutate func(*models.WorkoutSession)) (updated models.WorkoutSession, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ss := range s.doc.Sessions {
		if ss.ID != id {
			continue
		}
		next := s.doc.Clone()
		session := next.Sessions[i]
		mutate(&session)
		session.ID = id
		session.UpdatedAt = s.timestamp()
		next.Sessions[i] = session
		if err := s.commit(next); err != nil {
			return models.WorkoutSession{}, true, err
		}
		s.log.WithField("session", id).Debug("store: session updated")
		return session.Clone(), true, nil
	}
	return models.WorkoutSession{}, false, nil
}

// DeleteSession removes a session for good
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	sessions := next.Sessions[:0]
	for _, ss := range next.Sessions {
		if ss.ID != id {
			sessions = append(sessions, ss)
		}
	}
	next.Sessions = sessions

	if err := s.commit(next); err != nil {
		return err
	}
	s.log.WithField("session", id).Debug("store: session deleted")
	return nil
}

// ReplaceDocument swaps in doc wholesale. The caller is responsible for having
// validated it (see transfer.ParseImport).
func (s *Store) ReplaceDocument(doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(doc.Clone()); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"exercises": len(doc.Exercises),
		"templates": len(doc.Templates),
		"sessions":  len(doc.Sessions),
	}).Info("store: document replaced")
	return nil
}

// Reset wipes the stored document. With seed set the store starts over from
// the starter data, otherwise from an empty document.
func (s *Store) Reset(seed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist.Reset(); err != nil {
		return err
	}
	s.doc = models.EmptyDocument()
	if !seed {
		return nil
	}
	return s.commit(storage.EnsureSeed(models.EmptyDocument(), s.now(), s.newID))
}

// commit persists next and makes it current. Callers hold s.mu.
func (s *Store) commit(next models.Document) error {
	if err := s.persist.Save(next); err != nil {
		s.log.WithError(err).Error("store: save failed, change discarded")
		return err
	}
	s.doc = next
	return nil
}

func (s *Store) timestamp() string {
	return models.Timestamp(s.now())
}
