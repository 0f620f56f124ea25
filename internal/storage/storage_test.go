package storage_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/storage"
)

type memSlot struct {
	value   []byte
	stored  bool
	readErr error
}

func (m *memSlot) Read() ([]byte, bool, error) {
	if m.readErr != nil {
		return nil, false, m.readErr
	}
	return m.value, m.stored, nil
}

func (m *memSlot) Write(value []byte) error {
	m.value = append([]byte(nil), value...)
	m.stored = true
	return nil
}

func (m *memSlot) Remove() error {
	m.value = nil
	m.stored = false
	return nil
}

func float(v float64) *float64 { return &v }

func sampleDocument() models.Document {
	return models.Document{
		Version: 1,
		Exercises: []models.Exercise{
			{ID: "ex-1", Name: "Bench", Notes: "pause reps", CreatedAt: "2024-01-01T10:00:00.000Z", UpdatedAt: "2024-01-02T10:00:00.000Z"},
			{ID: "ex-2", Name: "Dips", CreatedAt: "2024-01-01T10:00:00.000Z", UpdatedAt: "2024-01-01T10:00:00.000Z"},
		},
		Templates: []models.WorkoutTemplate{
			{
				ID:   "tpl-1",
				Name: "Day1_Push",
				ExerciseRows: []models.TemplateExerciseRow{
					{ID: "row-1", ExerciseID: "ex-1", SetsPlanned: 4, TargetReps: "6-8"},
					{ID: "row-2", ExerciseID: "ex-2", SetsPlanned: 3, TargetReps: "8-10"},
				},
				CreatedAt: "2024-01-01T10:00:00.000Z",
				UpdatedAt: "2024-01-01T10:00:00.000Z",
			},
		},
		Sessions: []models.WorkoutSession{
			{
				ID:           "s-1",
				DateISO:      "2024-01-03",
				TemplateID:   "tpl-1",
				TemplateName: "Day1_Push",
				Entries: []models.SessionExerciseEntry{
					{
						ExerciseID:   "ex-1",
						ExerciseName: "Bench",
						TargetReps:   "6-8",
						Sets: []models.SetEntry{
							models.NewSet(8, 80),
							{Reps: float(6), WeightKg: nil},
							{Reps: nil, WeightKg: nil},
						},
					},
				},
				Comment:   "felt strong",
				CreatedAt: "2024-01-03T18:00:00.000Z",
				UpdatedAt: "2024-01-03T18:30:00.000Z",
			},
		},
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	adapter := storage.NewAdapter(&memSlot{}, nil)
	doc := sampleDocument()

	require.NoError(t, adapter.Save(doc))
	assert.Equal(t, doc, adapter.Load())
}

func TestAdapter_Load_FallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name string
		slot *memSlot
	}{
		{name: "nothing stored", slot: &memSlot{}},
		{name: "blank blob", slot: &memSlot{value: []byte("   "), stored: true}},
		{name: "not json", slot: &memSlot{value: []byte("{oops"), stored: true}},
		{name: "version 2", slot: &memSlot{value: []byte(`{"version":2,"exercises":[],"templates":[],"sessions":[]}`), stored: true}},
		{name: "no version", slot: &memSlot{value: []byte(`{"exercises":[]}`), stored: true}},
		{name: "wrong shape", slot: &memSlot{value: []byte(`{"version":1,"exercises":{"a":1}}`), stored: true}},
		{name: "read error", slot: &memSlot{readErr: errors.New("disk gone")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := storage.NewAdapter(tt.slot, nil).Load()
			assert.Equal(t, models.EmptyDocument(), doc)
		})
	}
}

func TestAdapter_Load_MissingSequencesAreEmpty(t *testing.T) {
	slot := &memSlot{value: []byte(`{"version":1,"exercises":[{"id":"a","name":"Row","createdAt":"x","updatedAt":"x"}]}`), stored: true}

	doc := storage.NewAdapter(slot, nil).Load()
	require.Len(t, doc.Exercises, 1)
	assert.NotNil(t, doc.Templates)
	assert.NotNil(t, doc.Sessions)
	assert.Empty(t, doc.Sessions)
}

func TestAdapter_Load_DeduplicatesSessions(t *testing.T) {
	raw := `{"version":1,"exercises":[],"templates":[],"sessions":[
		{"id":"a","dateISO":"2024-01-01","templateId":"t","templateName":"T","entries":[],"createdAt":"2024-01-01T10:00:00.000Z","updatedAt":"2024-01-01T12:00:00.000Z","comment":"newer"},
		{"id":"b","dateISO":"2024-01-02","templateId":"t","templateName":"T","entries":[],"createdAt":"2024-01-02T10:00:00.000Z","updatedAt":"2024-01-02T10:00:00.000Z"},
		{"id":"a","dateISO":"2024-01-01","templateId":"t","templateName":"T","entries":[],"createdAt":"2024-01-01T10:00:00.000Z","updatedAt":"2024-01-01T11:00:00.000Z","comment":"older"}
	]}`
	slot := &memSlot{value: []byte(raw), stored: true}

	doc := storage.NewAdapter(slot, nil).Load()
	require.Len(t, doc.Sessions, 2)
	assert.Equal(t, "a", doc.Sessions[0].ID)
	assert.Equal(t, "newer", doc.Sessions[0].Comment)
	assert.Equal(t, "b", doc.Sessions[1].ID)
}

func TestDedupeSessions(t *testing.T) {
	t.Run("falls back to createdAt", func(t *testing.T) {
		sessions := []models.WorkoutSession{
			{ID: "a", CreatedAt: "2024-01-05T00:00:00.000Z", Comment: "first"},
			{ID: "a", CreatedAt: "2024-01-01T00:00:00.000Z", UpdatedAt: "2024-01-03T00:00:00.000Z", Comment: "second"},
		}
		out := storage.DedupeSessions(sessions)
		require.Len(t, out, 1)
		assert.Equal(t, "first", out[0].Comment)
	})

	t.Run("equal timestamps keep the later occurrence", func(t *testing.T) {
		sessions := []models.WorkoutSession{
			{ID: "a", UpdatedAt: "2024-01-01T00:00:00.000Z", Comment: "first"},
			{ID: "a", UpdatedAt: "2024-01-01T00:00:00.000Z", Comment: "second"},
		}
		out := storage.DedupeSessions(sessions)
		require.Len(t, out, 1)
		assert.Equal(t, "second", out[0].Comment)
	})

	t.Run("unique ids untouched", func(t *testing.T) {
		sessions := []models.WorkoutSession{{ID: "a"}, {ID: "b"}, {ID: "c"}}
		assert.Equal(t, sessions, storage.DedupeSessions(sessions))
	})
}

func TestAdapter_Reset(t *testing.T) {
	slot := &memSlot{}
	adapter := storage.NewAdapter(slot, nil)
	require.NoError(t, adapter.Save(sampleDocument()))

	require.NoError(t, adapter.Reset())
	assert.False(t, slot.stored)
	assert.Equal(t, models.EmptyDocument(), adapter.Load())
}

func TestEnsureSeed(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}

	doc := storage.EnsureSeed(models.EmptyDocument(), now, newID)

	require.Len(t, doc.Exercises, 5)
	require.Len(t, doc.Templates, 1)
	assert.Equal(t, "Barbell bench press", doc.Exercises[0].Name)
	assert.Equal(t, "2024-03-01T09:30:00.000Z", doc.Exercises[0].CreatedAt)

	tpl := doc.Templates[0]
	assert.Equal(t, "Day1_Push", tpl.Name)
	require.Len(t, tpl.ExerciseRows, 5)
	assert.Equal(t, 4, tpl.ExerciseRows[0].SetsPlanned)
	assert.Equal(t, "12-15", tpl.ExerciseRows[4].TargetReps)
	for i, row := range tpl.ExerciseRows {
		assert.Equal(t, doc.Exercises[i].ID, row.ExerciseID)
	}
	assert.NotNil(t, doc.Sessions)
}

func TestEnsureSeed_KeepsExistingData(t *testing.T) {
	doc := models.EmptyDocument()
	doc.Templates = []models.WorkoutTemplate{{ID: "t", Name: "Mine"}}

	seeded := storage.EnsureSeed(doc, time.Now(), models.NewID)
	assert.Equal(t, doc, seeded)
}
