package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/progress"
)

func f(v float64) *float64 { return &v }

func session(id, date, templateID string, entries ...models.SessionExerciseEntry) models.WorkoutSession {
	return models.WorkoutSession{
		ID:           id,
		DateISO:      date,
		TemplateID:   templateID,
		TemplateName: "T-" + templateID,
		Entries:      entries,
	}
}

func entry(exerciseID string, sets ...models.SetEntry) models.SessionExerciseEntry {
	return models.SessionExerciseEntry{ExerciseID: exerciseID, ExerciseName: "name-" + exerciseID, Sets: sets}
}

func TestSetVolume(t *testing.T) {
	assert.Equal(t, 0.0, progress.SetVolume(models.SetEntry{}))
	assert.Equal(t, 0.0, progress.SetVolume(models.SetEntry{Reps: f(10)}))
	assert.Equal(t, 0.0, progress.SetVolume(models.SetEntry{WeightKg: f(50)}))
	assert.Equal(t, 500.0, progress.SetVolume(models.NewSet(10, 50)))
	assert.Equal(t, 487.5, progress.SetVolume(models.NewSet(5, 97.5)))
}

func TestSessionVolume(t *testing.T) {
	s := session("s1", "2024-01-01", "t", entry("bench", models.NewSet(10, 50), models.NewSet(8, 60)))
	assert.Equal(t, 980.0, progress.SessionVolume(s))

	s.Entries = append(s.Entries, entry("dips", models.NewSet(10, 20), models.SetEntry{Reps: f(8)}))
	assert.Equal(t, 1180.0, progress.SessionVolume(s))

	assert.Equal(t, 0.0, progress.SessionVolume(models.WorkoutSession{}))
}

func TestTopSet(t *testing.T) {
	_, ok := progress.TopSet(nil)
	assert.False(t, ok)

	sets := []models.SetEntry{
		models.NewSet(8, 80),
		models.NewSet(5, 100),
		models.NewSet(3, 100),
		{Reps: f(12), WeightKg: nil},
	}
	i, ok := progress.TopSet(sets)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = progress.TopSet([]models.SetEntry{{}, {}})
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestExerciseTimeline(t *testing.T) {
	sessions := []models.WorkoutSession{
		session("s3", "2024-01-05", "t", entry("bench", models.NewSet(5, 100), models.NewSet(5, 105))),
		session("s2", "2024-01-03", "t", entry("dips", models.NewSet(10, 10))),
		session("s1", "2024-01-01", "t", entry("bench", models.NewSet(8, 80))),
	}

	points := progress.ExerciseTimeline(sessions, "bench")
	require.Len(t, points, 2)

	assert.Equal(t, "2024-01-05", points[0].DateISO)
	assert.Equal(t, 105.0, points[0].TopWeightKg())
	assert.Equal(t, 5.0, points[0].TopReps())
	assert.Equal(t, 1025.0, points[0].ExerciseVolume)

	assert.Equal(t, "2024-01-01", points[1].DateISO)
	assert.Equal(t, 640.0, points[1].ExerciseVolume)

	assert.Empty(t, progress.ExerciseTimeline(sessions, "squat"))
}

func TestExerciseTimeline_BodyweightHasNoTopSet(t *testing.T) {
	sessions := []models.WorkoutSession{
		session("s1", "2024-01-01", "t", entry("pullup",
			models.SetEntry{Reps: f(12)},
			models.SetEntry{Reps: f(10), WeightKg: f(0)},
		)),
	}

	points := progress.ExerciseTimeline(sessions, "pullup")
	require.Len(t, points, 1)
	assert.Equal(t, 0.0, points[0].TopWeightKg())
	assert.Equal(t, 0.0, points[0].TopReps())
	assert.Equal(t, 0.0, points[0].ExerciseVolume)
	assert.Len(t, points[0].Sets, 2)

	i, ok := progress.TopSet(sessions[0].Entries[0].Sets)
	require.True(t, ok)
	assert.Equal(t, 0, i, "TopSet itself still picks the first set on ties")
}

func TestLastSessionForTemplate(t *testing.T) {
	sessions := []models.WorkoutSession{
		session("a", "2024-01-02", "push"),
		session("b", "2024-01-09", "pull"),
		session("c", "2024-01-05", "push"),
		session("d", "2024-01-05", "push"),
	}

	last, ok := progress.LastSessionForTemplate(sessions, "push")
	require.True(t, ok)
	assert.Equal(t, "c", last.ID)

	_, ok = progress.LastSessionForTemplate(sessions, "legs")
	assert.False(t, ok)
}

func TestSortAndRecent(t *testing.T) {
	sessions := []models.WorkoutSession{
		session("a", "2024-01-02", "t"),
		session("b", "2024-01-09", "t"),
		session("c", "2024-01-05", "t"),
		session("d", "2024-01-05", "t"),
	}

	sorted := progress.SortByDateDesc(sessions)
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(sorted))
	assert.Equal(t, "a", sessions[0].ID, "input must not be reordered")

	assert.Equal(t, []string{"c", "b"}, ids(progress.RecentAscending(sorted, 2)))
	assert.Equal(t, []string{"a", "d", "c", "b"}, ids(progress.RecentAscending(sorted, 10)))
	assert.Empty(t, progress.RecentAscending(sorted, 0))
}

func TestGroupByTemplate(t *testing.T) {
	groups := progress.GroupByTemplate([]models.WorkoutSession{
		session("a", "2024-01-02", "push"),
		session("b", "2024-01-09", "pull"),
		session("c", "2024-01-05", "push"),
	})
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"c", "a"}, ids(groups["push"]))
	assert.Equal(t, []string{"b"}, ids(groups["pull"]))
}

func TestSessionSummary(t *testing.T) {
	s := session("s1", "2024-01-01", "t",
		entry("dips", models.NewSet(10, 10)),
		entry("bench", models.NewSet(5, 100), models.NewSet(5, 110)),
	)

	sum := progress.SessionSummary(s)
	assert.Equal(t, 1150.0, sum.TotalVolume)
	require.Len(t, sum.PerExercise, 2)
	assert.Equal(t, "bench", sum.PerExercise[0].ExerciseID)
	assert.Equal(t, 110.0, *sum.PerExercise[0].TopSet.WeightKg)
	assert.Equal(t, 2, sum.PerExercise[0].SetCount)
	assert.Equal(t, "dips", sum.PerExercise[1].ExerciseID)
}

func TestTemplateProgress(t *testing.T) {
	var sessions []models.WorkoutSession
	for i, date := range []string{"2024-01-01", "2024-01-03", "2024-01-05"} {
		weight := 100 + float64(i)*5
		sessions = append(sessions, session(date, date, "push", entry("bench", models.NewSet(5, weight))))
	}
	sessions = append(sessions,
		session("other", "2024-01-07", "pull", entry("row", models.NewSet(5, 80))),
		session("nobench", "2024-01-06", "push", entry("dips", models.NewSet(10, 10))),
	)

	report := progress.TemplateProgress(sessions, "push", "bench", 3)
	assert.Equal(t, 4, report.SessionCount)
	assert.Equal(t, "2024-01-06", report.LastSessionDate)
	assert.Equal(t, []string{"2024-01-03", "2024-01-05", "nobench"}, ids(report.Recent))

	require.Len(t, report.WorkoutVolume, 3)
	assert.Equal(t, "01-03", report.WorkoutVolume[0].Label)
	assert.Equal(t, 525.0, *report.WorkoutVolume[0].Y)
	assert.Equal(t, 100.0, *report.WorkoutVolume[2].Y)

	require.Len(t, report.ExerciseTopKg, 2)
	assert.Equal(t, 105.0, *report.ExerciseTopKg[0].Y)
	assert.Equal(t, 110.0, *report.ExerciseTopKg[1].Y)
	assert.Equal(t, 550.0, *report.ExerciseVolume[1].Y)
}

func TestTemplateProgress_NoSessions(t *testing.T) {
	report := progress.TemplateProgress(nil, "push", "", 0)
	assert.Equal(t, 0, report.SessionCount)
	assert.Empty(t, report.LastSessionDate)
	assert.Empty(t, report.WorkoutVolume)
	assert.Nil(t, report.Exercise)
}

func ids(sessions []models.WorkoutSession) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}
