// Package progress derives volume, top sets and timelines from sessions.
// Nothing here mutates its input or touches storage.
package progress

import (
	"sort"

	"github.com/balkashynov/liftlog/internal/models"
)

// DefaultRecentSessions is how many sessions feed the progress charts
const DefaultRecentSessions = 10

// SetVolume is reps × weight, with a missing value counting as zero
func SetVolume(set models.SetEntry) float64 {
	return value(set.Reps) * value(set.WeightKg)
}

// EntryVolume sums the volume of every set of one exercise entry
func EntryVolume(entry models.SessionExerciseEntry) float64 {
	total := 0.0
	for _, set := range entry.Sets {
		total += SetVolume(set)
	}
	return total
}

// SessionVolume sums the volume of every set in every entry
func SessionVolume(session models.WorkoutSession) float64 {
	total := 0.0
	for _, e := range session.Entries {
		total += EntryVolume(e)
	}
	return total
}

// TopSet returns the index of the heaviest set, first one on ties.
// Sets without a weight count as 0 kg. ok is false for an empty list.
func TopSet(sets []models.SetEntry) (index int, ok bool) {
	if len(sets) == 0 {
		return 0, false
	}
	best := 0
	for i := 1; i < len(sets); i++ {
		if value(sets[i].WeightKg) > value(sets[best].WeightKg) {
			best = i
		}
	}
	return best, true
}

// TimelinePoint is one session's result for a single exercise
type TimelinePoint struct {
	SessionID      string
	DateISO        string
	TopSet         models.SetEntry
	ExerciseVolume float64
	Sets           []models.SetEntry
}

// TopWeightKg is the top set's weight, 0 when unknown
func (p TimelinePoint) TopWeightKg() float64 {
	return value(p.TopSet.WeightKg)
}

// TopReps is the top set's reps, 0 when unknown
func (p TimelinePoint) TopReps() float64 {
	return value(p.TopSet.Reps)
}

// ExerciseTimeline returns one point per session that has an entry for
// exerciseID, in the order the sessions were given. Sessions without the
// exercise are skipped rather than zero-filled. When no set carries a weight
// the point has no top set, so TopWeightKg and TopReps are both 0.
func ExerciseTimeline(sessions []models.WorkoutSession, exerciseID string) []TimelinePoint {
	points := []TimelinePoint{}
	for _, s := range sessions {
		entry, ok := s.Entry(exerciseID)
		if !ok {
			continue
		}
		p := TimelinePoint{
			SessionID:      s.ID,
			DateISO:        s.DateISO,
			ExerciseVolume: EntryVolume(entry),
			Sets:           entry.Sets,
		}
		if i, ok := TopSet(entry.Sets); ok && value(entry.Sets[i].WeightKg) > 0 {
			p.TopSet = entry.Sets[i]
		}
		points = append(points, p)
	}
	return points
}

// LastSessionForTemplate returns the session for templateID with the latest
// date. Among sessions on the same date the first one given wins.
func LastSessionForTemplate(sessions []models.WorkoutSession, templateID string) (models.WorkoutSession, bool) {
	var (
		last  models.WorkoutSession
		found bool
	)
	for _, s := range sessions {
		if s.TemplateID != templateID {
			continue
		}
		if !found || s.DateISO > last.DateISO {
			last = s
			found = true
		}
	}
	return last, found
}

// SortByDateDesc returns a copy of sessions, most recent date first.
// Sessions on the same date keep their relative order.
func SortByDateDesc(sessions []models.WorkoutSession) []models.WorkoutSession {
	out := make([]models.WorkoutSession, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateISO > out[j].DateISO
	})
	return out
}

// GroupByTemplate buckets sessions by template id, each bucket sorted date desc
func GroupByTemplate(sessions []models.WorkoutSession) map[string][]models.WorkoutSession {
	groups := make(map[string][]models.WorkoutSession)
	for _, s := range sessions {
		groups[s.TemplateID] = append(groups[s.TemplateID], s)
	}
	for id, group := range groups {
		groups[id] = SortByDateDesc(group)
	}
	return groups
}

// RecentAscending takes the first n of a date-descending list and reverses
// them, so charts read oldest to newest from left to right.
func RecentAscending(sortedDesc []models.WorkoutSession, n int) []models.WorkoutSession {
	if n > len(sortedDesc) {
		n = len(sortedDesc)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.WorkoutSession, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = sortedDesc[i]
	}
	return out
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
