package store_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/draft"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/storage"
	"github.com/balkashynov/liftlog/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per open pool
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type recordingPersister struct {
	saves   []models.Document
	resets  int
	saveErr error
}

func (p *recordingPersister) Save(doc models.Document) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves = append(p.saves, doc.Clone())
	return nil
}

func (p *recordingPersister) Reset() error {
	p.resets++
	return nil
}

func (p *recordingPersister) last() models.Document {
	return p.saves[len(p.saves)-1]
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T, doc models.Document) (*store.Store, *recordingPersister, *fakeClock) {
	t.Helper()
	p := &recordingPersister{}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	n := 0
	s := store.New(doc, p,
		store.WithClock(clock.now),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return s, p, clock
}

func TestStore_UpsertExercise(t *testing.T) {
	s, p, _ := newTestStore(t, models.EmptyDocument())
	name := gofakeit.Noun()

	created, err := s.UpsertExercise(store.ExerciseInput{Name: "  " + name + "  ", Notes: "slow eccentric"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, name, created.Name)
	assert.Equal(t, "2024-01-01T12:00:01.000Z", created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	require.Len(t, p.saves, 1)

	second, err := s.UpsertExercise(store.ExerciseInput{Name: "Dips"})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, created.ID}, exerciseIDs(s.Snapshot()), "new exercises go first")

	updated, err := s.UpsertExercise(store.ExerciseInput{ID: created.ID, Name: "Paused bench "})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Paused bench", updated.Name)
	assert.Empty(t, updated.Notes)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, created.UpdatedAt)
	assert.Len(t, s.Snapshot().Exercises, 2)

	// an unknown id creates a fresh exercise instead
	fresh, err := s.UpsertExercise(store.ExerciseInput{ID: "missing", Name: "Row"})
	require.NoError(t, err)
	assert.NotEqual(t, "missing", fresh.ID)
	assert.Len(t, p.last().Exercises, 3)
}

func TestStore_DeleteExercise(t *testing.T) {
	doc := models.EmptyDocument()
	doc.Exercises = []models.Exercise{{ID: "x", Name: "Bench"}, {ID: "y", Name: "Dips"}}
	doc.Templates = []models.WorkoutTemplate{
		{ID: "push", UpdatedAt: "old", ExerciseRows: []models.TemplateExerciseRow{
			{ID: "r1", ExerciseID: "x"}, {ID: "r2", ExerciseID: "y"},
		}},
		{ID: "legs", UpdatedAt: "old", ExerciseRows: []models.TemplateExerciseRow{
			{ID: "r3", ExerciseID: "y"},
		}},
	}
	doc.Sessions = []models.WorkoutSession{{
		ID: "s1", TemplateID: "push",
		Entries: []models.SessionExerciseEntry{{ExerciseID: "x", ExerciseName: "Bench", Sets: []models.SetEntry{models.NewSet(5, 100)}}},
	}}
	s, p, _ := newTestStore(t, doc)

	require.NoError(t, s.DeleteExercise("x"))

	after := s.Snapshot()
	assert.Equal(t, []string{"y"}, exerciseIDs(after))
	require.Len(t, after.Templates[0].ExerciseRows, 1)
	assert.Equal(t, "r2", after.Templates[0].ExerciseRows[0].ID)
	assert.NotEqual(t, "old", after.Templates[0].UpdatedAt)
	assert.NotEqual(t, "old", after.Templates[1].UpdatedAt, "every template is touched")
	assert.Equal(t, after.Templates[0].UpdatedAt, after.Templates[1].UpdatedAt)
	assert.Equal(t, doc.Sessions, after.Sessions, "sessions keep their snapshots")
	assert.Equal(t, after, p.last())

	_, ok := s.ExerciseByID("x")
	assert.False(t, ok)
}

func TestStore_UpsertTemplate(t *testing.T) {
	s, _, _ := newTestStore(t, models.EmptyDocument())

	rows := draft.NormalizeRows([]models.TemplateExerciseRow{
		{ExerciseID: "x", SetsPlanned: 0, TargetReps: "5"},
		{ExerciseID: "y", SetsPlanned: 25, TargetReps: "12"},
	}, func() string { return "row" })

	created, err := s.UpsertTemplate(store.TemplateInput{Name: "Push", ExerciseRows: rows})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, 1, created.ExerciseRows[0].SetsPlanned)
	assert.Equal(t, 20, created.ExerciseRows[1].SetsPlanned)

	replaced, err := s.UpsertTemplate(store.TemplateInput{ID: created.ID, Name: "Push A", ExerciseRows: rows[:1]})
	require.NoError(t, err)
	assert.Equal(t, "Push A", replaced.Name)
	assert.Len(t, replaced.ExerciseRows, 1)
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)
	assert.Greater(t, replaced.UpdatedAt, created.UpdatedAt)

	withID, err := s.UpsertTemplate(store.TemplateInput{ID: "imported", Name: "Legs", CreatedAt: "2020-01-01T00:00:00.000Z"})
	require.NoError(t, err)
	assert.Equal(t, "imported", withID.ID)
	assert.Equal(t, "2020-01-01T00:00:00.000Z", withID.CreatedAt)

	snap := s.Snapshot()
	require.Len(t, snap.Templates, 2)
	assert.Equal(t, "imported", snap.Templates[0].ID)
	tpl, ok := s.TemplateByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Push A", tpl.Name)
}

func TestStore_DeleteTemplate_Cascades(t *testing.T) {
	doc := models.EmptyDocument()
	doc.Templates = []models.WorkoutTemplate{{ID: "push"}, {ID: "pull"}}
	doc.Sessions = []models.WorkoutSession{
		{ID: "s1", TemplateID: "push"},
		{ID: "s2", TemplateID: "pull"},
		{ID: "s3", TemplateID: "push"},
	}
	s, p, _ := newTestStore(t, doc)

	require.NoError(t, s.DeleteTemplate("push"))

	after := p.last()
	require.Len(t, after.Templates, 1)
	assert.Equal(t, "pull", after.Templates[0].ID)
	require.Len(t, after.Sessions, 1)
	assert.Equal(t, "s2", after.Sessions[0].ID)
}

func TestStore_AddSession(t *testing.T) {
	s, p, _ := newTestStore(t, models.EmptyDocument())

	first, err := s.AddSession(models.WorkoutSession{DateISO: "2024-01-01", TemplateID: "t", CreatedAt: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "2024-01-01T12:00:01.000Z", first.CreatedAt)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := s.AddSession(models.WorkoutSession{ID: "mine", DateISO: "2024-01-01", TemplateID: "t"})
	require.NoError(t, err)
	assert.Equal(t, "mine", second.ID)

	snap := s.Snapshot()
	require.Len(t, snap.Sessions, 2)
	assert.Equal(t, "mine", snap.Sessions[0].ID, "new sessions are prepended")

	_, err = s.AddSession(models.WorkoutSession{ID: "mine"})
	assert.ErrorIs(t, err, store.ErrSessionExists)
	assert.Len(t, p.saves, 2)
}

func TestStore_UpdateSession(t *testing.T) {
	doc := models.EmptyDocument()
	doc.Sessions = []models.WorkoutSession{{ID: "s1", DateISO: "2024-01-01", CreatedAt: "c", UpdatedAt: "c"}}
	s, p, _ := newTestStore(t, doc)

	updated, found, err := s.UpdateSession("s1", func(ss *models.WorkoutSession) {
		ss.ID = "hijack"
		ss.DateISO = "2024-01-02"
		ss.Comment = "moved"
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "s1", updated.ID)
	assert.Equal(t, "2024-01-02", updated.DateISO)
	assert.Equal(t, "c", updated.CreatedAt)
	assert.Equal(t, "2024-01-01T12:00:01.000Z", updated.UpdatedAt)

	got, ok := s.SessionByID("s1")
	require.True(t, ok)
	assert.Equal(t, "moved", got.Comment)

	_, found, err = s.UpdateSession("nope", func(*models.WorkoutSession) {
		t.Fatal("mutator must not run for unknown ids")
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, p.saves, 1)
}

func TestStore_DeleteSession(t *testing.T) {
	doc := models.EmptyDocument()
	doc.Sessions = []models.WorkoutSession{{ID: "s1"}, {ID: "s2"}}
	s, _, _ := newTestStore(t, doc)

	require.NoError(t, s.DeleteSession("s1"))
	assert.Equal(t, "s2", s.Snapshot().Sessions[0].ID)
	assert.Len(t, s.Snapshot().Sessions, 1)
}

func TestStore_ReplaceDocument(t *testing.T) {
	s, p, _ := newTestStore(t, models.EmptyDocument())
	next := models.EmptyDocument()
	next.Exercises = []models.Exercise{{ID: "imported"}}

	require.NoError(t, s.ReplaceDocument(next))
	assert.Equal(t, next, s.Snapshot())
	assert.Equal(t, next, p.last())

	next.Exercises[0].Name = "changed after the call"
	assert.Empty(t, s.Snapshot().Exercises[0].Name)
}

func TestStore_SaveFailureKeepsState(t *testing.T) {
	s, p, _ := newTestStore(t, models.EmptyDocument())
	p.saveErr = errors.New("disk full")

	_, err := s.UpsertExercise(store.ExerciseInput{Name: "Bench"})
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, s.Snapshot().Exercises)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	doc := models.EmptyDocument()
	doc.Sessions = []models.WorkoutSession{{ID: "s1", Entries: []models.SessionExerciseEntry{{Sets: []models.SetEntry{models.NewSet(5, 100)}}}}}
	s, _, _ := newTestStore(t, doc)

	snap := s.Snapshot()
	*snap.Sessions[0].Entries[0].Sets[0].Reps = 1

	assert.Equal(t, 5.0, *s.Snapshot().Sessions[0].Entries[0].Sets[0].Reps)
}

func TestStore_Reset(t *testing.T) {
	doc := models.EmptyDocument()
	doc.Exercises = []models.Exercise{{ID: "x"}}
	s, p, _ := newTestStore(t, doc)

	require.NoError(t, s.Reset(false))
	assert.Equal(t, 1, p.resets)
	assert.Equal(t, models.EmptyDocument(), s.Snapshot())

	require.NoError(t, s.Reset(true))
	assert.Len(t, s.Snapshot().Exercises, 5)
	assert.Len(t, p.last().Templates, 1)
}

func TestOpen_WithSqliteSlot(t *testing.T) {
	gdb, err := db.Open(filepath.Join(t.TempDir(), "liftlog.db"))
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close(gdb)) }()

	adapter := storage.NewAdapter(db.NewSlot(gdb, "liftlog-test"), nil)

	s, err := store.Open(adapter, true)
	require.NoError(t, err)
	seeded := s.Snapshot()
	require.Len(t, seeded.Templates, 1)

	tpl := seeded.Templates[0]
	d := draft.FromTemplate(tpl, seeded.ExercisesByID(), seeded.Sessions, "", "2024-01-01")
	d.Set(0, 0, draft.FieldReps, "5")
	d.Set(0, 0, draft.FieldWeight, "100")
	added, err := s.AddSession(d.ToSession())
	require.NoError(t, err)

	// reopening neither reseeds nor loses data
	reopened, err := store.Open(adapter, true)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), reopened.Snapshot())

	next := draft.FromTemplate(tpl, seeded.ExercisesByID(), reopened.Snapshot().Sessions, "", "2024-01-03")
	assert.Equal(t, "5", next.Entries[0].Sets[0].Reps)
	assert.Equal(t, "100", next.Entries[0].Sets[0].WeightKg)
	assert.Equal(t, "", next.Entries[0].Sets[1].Reps)

	got, ok := reopened.SessionByID(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Day1_Push", got.TemplateName)
}

func TestOpen_WithoutSeed(t *testing.T) {
	gdb, err := db.Open(filepath.Join(t.TempDir(), "liftlog.db"))
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close(gdb)) }()

	s, err := store.Open(storage.NewAdapter(db.NewSlot(gdb, "k"), nil), false)
	require.NoError(t, err)
	assert.Equal(t, models.EmptyDocument(), s.Snapshot())
}

func exerciseIDs(doc models.Document) []string {
	ids := make([]string, 0, len(doc.Exercises))
	for _, e := range doc.Exercises {
		ids = append(ids, e.ID)
	}
	return ids
}
