package progress

import (
	"math"
	"sort"

	"github.com/balkashynov/liftlog/internal/models"
)

// ExerciseSummary is one exercise's share of a session
type ExerciseSummary struct {
	ExerciseID   string
	ExerciseName string
	Volume       float64
	TopSet       models.SetEntry
	SetCount     int
}

// Summary describes a whole session at a glance
type Summary struct {
	SessionID    string
	DateISO      string
	TemplateName string
	TotalVolume  float64
	PerExercise  []ExerciseSummary // highest volume first
}

// SessionSummary totals a session and ranks its exercises by volume
func SessionSummary(session models.WorkoutSession) Summary {
	sum := Summary{
		SessionID:    session.ID,
		DateISO:      session.DateISO,
		TemplateName: session.TemplateName,
		PerExercise:  make([]ExerciseSummary, 0, len(session.Entries)),
	}
	for _, e := range session.Entries {
		es := ExerciseSummary{
			ExerciseID:   e.ExerciseID,
			ExerciseName: e.ExerciseName,
			Volume:       EntryVolume(e),
			SetCount:     len(e.Sets),
		}
		if i, ok := TopSet(e.Sets); ok {
			es.TopSet = e.Sets[i]
		}
		sum.TotalVolume += es.Volume
		sum.PerExercise = append(sum.PerExercise, es)
	}
	sort.SliceStable(sum.PerExercise, func(i, j int) bool {
		return sum.PerExercise[i].Volume > sum.PerExercise[j].Volume
	})
	return sum
}

// Point is one x/y sample for a chart. Y is nil for a gap.
type Point struct {
	Label string // MM-DD
	Y     *float64
}

// TemplateReport bundles what the progress view shows for one template
type TemplateReport struct {
	TemplateID      string
	SessionCount    int
	LastSessionDate string // empty when the template has no sessions
	Recent          []models.WorkoutSession
	WorkoutVolume   []Point
	ExerciseID      string
	Exercise        []TimelinePoint
	ExerciseTopKg   []Point
	ExerciseVolume  []Point
}

// TemplateProgress builds the report for templateID over the most recent
// window sessions. exerciseID may be empty to skip the exercise charts.
func TemplateProgress(sessions []models.WorkoutSession, templateID, exerciseID string, window int) TemplateReport {
	if window <= 0 {
		window = DefaultRecentSessions
	}

	var forTemplate []models.WorkoutSession
	for _, s := range sessions {
		if s.TemplateID == templateID {
			forTemplate = append(forTemplate, s)
		}
	}
	sorted := SortByDateDesc(forTemplate)
	recent := RecentAscending(sorted, window)

	report := TemplateReport{
		TemplateID:    templateID,
		SessionCount:  len(sorted),
		Recent:        recent,
		WorkoutVolume: make([]Point, 0, len(recent)),
		ExerciseID:    exerciseID,
	}
	if len(sorted) > 0 {
		report.LastSessionDate = sorted[0].DateISO
	}
	for _, s := range recent {
		v := roundKg(SessionVolume(s))
		report.WorkoutVolume = append(report.WorkoutVolume, Point{Label: shortLabel(s.DateISO), Y: &v})
	}

	if exerciseID == "" {
		return report
	}
	report.Exercise = ExerciseTimeline(recent, exerciseID)
	for _, p := range report.Exercise {
		report.ExerciseTopKg = append(report.ExerciseTopKg, Point{Label: shortLabel(p.DateISO), Y: nonZero(p.TopWeightKg())})
		report.ExerciseVolume = append(report.ExerciseVolume, Point{Label: shortLabel(p.DateISO), Y: nonZero(roundKg(p.ExerciseVolume))})
	}
	return report
}

// shortLabel drops the year: 2024-01-31 -> 01-31
func shortLabel(dateISO string) string {
	if len(dateISO) >= 10 {
		return dateISO[5:10]
	}
	return dateISO
}

func roundKg(v float64) float64 {
	return math.Floor(v + 0.5)
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
