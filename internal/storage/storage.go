// Package storage persists the liftlog document to a single key-value slot.
//
// Loading never fails: a missing, undecodable or foreign-version blob yields an
// empty document.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/balkashynov/liftlog/internal/models"
)

// Slot is a named blob on the local device
type Slot interface {
	Read() ([]byte, bool, error)
	Write(value []byte) error
	Remove() error
}

// Adapter loads and saves whole documents through a Slot
type Adapter struct {
	slot Slot
	log  logrus.FieldLogger
}

// NewAdapter creates an adapter. A nil logger discards log output.
func NewAdapter(slot Slot, log logrus.FieldLogger) *Adapter {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Adapter{slot: slot, log: log}
}

// Load returns the stored document, or an empty one when nothing usable is stored
func (a *Adapter) Load() models.Document {
	raw, ok, err := a.slot.Read()
	if err != nil {
		a.log.WithError(err).Warn("storage: read failed, starting with an empty document")
		return models.EmptyDocument()
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return models.EmptyDocument()
	}

	doc, err := Decode(raw)
	if err != nil {
		a.log.WithError(err).Warn("storage: stored document ignored")
		return models.EmptyDocument()
	}

	before := len(doc.Sessions)
	doc.Sessions = DedupeSessions(doc.Sessions)
	if dropped := before - len(doc.Sessions); dropped > 0 {
		a.log.WithField("dropped", dropped).Info("storage: removed duplicate sessions")
	}
	return doc
}

// Save serializes doc and overwrites the stored blob
func (a *Adapter) Save(doc models.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := a.slot.Write(raw); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	a.log.WithField("bytes", len(raw)).Debug("storage: document saved")
	return nil
}

// Reset removes the stored blob
func (a *Adapter) Reset() error {
	if err := a.slot.Remove(); err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}
	return nil
}

// ErrUnsupportedVersion is returned by Decode for documents other than version 1
var ErrUnsupportedVersion = errors.New("unsupported document version")

// Decode strictly decodes a stored blob into a typed document.
// Missing top-level sequences decode as empty.
func Decode(raw []byte) (models.Document, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return models.Document{}, fmt.Errorf("decode document: %w", err)
	}
	if head.Version == nil || *head.Version != models.DocumentVersion {
		return models.Document{}, ErrUnsupportedVersion
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Document{}, fmt.Errorf("decode document: %w", err)
	}
	if doc.Exercises == nil {
		doc.Exercises = []models.Exercise{}
	}
	if doc.Templates == nil {
		doc.Templates = []models.WorkoutTemplate{}
	}
	if doc.Sessions == nil {
		doc.Sessions = []models.WorkoutSession{}
	}
	return doc, nil
}

// DedupeSessions keeps one session per id: the one touched last.
// Ties go to the later occurrence. The first-seen order of ids is kept.
func DedupeSessions(sessions []models.WorkoutSession) []models.WorkoutSession {
	index := make(map[string]int, len(sessions))
	out := make([]models.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		i, seen := index[s.ID]
		if !seen {
			index[s.ID] = len(out)
			out = append(out, s)
			continue
		}
		if s.LastTouched() >= out[i].LastTouched() {
			out[i] = s
		}
	}
	return out
}
