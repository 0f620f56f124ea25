package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/balkashynov/liftlog/internal/models"
)

// setTokenRegex matches REPSxWEIGHT with an optional *COUNT repeat, e.g.
// "5x100", "8x97,5", "x60", "10x", "5x100*3"
var setTokenRegex = regexp.MustCompile(`^([^x*]*)x([^x*]*)(?:\*(\d+))?$`)

// ParseSets parses compact set notation separated by whitespace or ';'.
// Either side of the x may be left empty, which records a nil value.
func ParseSets(input string) ([]models.SetEntry, error) {
	fields := strings.FieldsFunc(strings.ToLower(input), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ';'
	})

	sets := []models.SetEntry{}
	var errs []string
	for _, field := range fields {
		matches := setTokenRegex.FindStringSubmatch(field)
		if matches == nil {
			errs = append(errs, fmt.Sprintf("invalid set %q (want REPSxKG)", field))
			continue
		}
		set := models.SetEntry{
			Reps:     ParseNumberOrNull(matches[1]),
			WeightKg: ParseNumberOrNull(matches[2]),
		}
		repeat := 1
		if matches[3] != "" {
			repeat, _ = strconv.Atoi(matches[3])
			if repeat < 1 || repeat > 20 {
				errs = append(errs, fmt.Sprintf("invalid repeat in %q (1-20)", field))
				continue
			}
		}
		for i := 0; i < repeat; i++ {
			sets = append(sets, set.Clone())
		}
	}

	if len(errs) > 0 {
		return nil, errors.New(strings.Join(errs, ", "))
	}
	return sets, nil
}

// ExerciseSets is the result of parsing "Exercise=5x100 5x100"
type ExerciseSets struct {
	Exercise string
	Sets     []models.SetEntry
}

// ParseExerciseSets splits "NAME=SETS" and parses the set list
func ParseExerciseSets(input string) (ExerciseSets, error) {
	name, sets, ok := strings.Cut(input, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return ExerciseSets{}, fmt.Errorf("invalid set list %q (want EXERCISE=5x100 5x100)", input)
	}
	parsed, err := ParseSets(sets)
	if err != nil {
		return ExerciseSets{}, fmt.Errorf("%s: %w", name, err)
	}
	return ExerciseSets{Exercise: name, Sets: parsed}, nil
}

// RowSpec is a template row as typed on the command line
type RowSpec struct {
	Exercise    string
	SetsPlanned int
	TargetReps  string
}

// ParseRowSpec parses "EXERCISE[:SETS[:REPS]]". Sets default to 3 and are
// clamped to 1-20; target reps default to "8-10".
func ParseRowSpec(input string) (RowSpec, error) {
	parts := strings.Split(input, ":")
	spec := RowSpec{
		Exercise:    strings.TrimSpace(parts[0]),
		SetsPlanned: 3,
		TargetReps:  "8-10",
	}
	if spec.Exercise == "" {
		return RowSpec{}, fmt.Errorf("invalid row %q: exercise is required", input)
	}
	if len(parts) > 3 {
		return RowSpec{}, fmt.Errorf("invalid row %q (want EXERCISE:SETS:REPS)", input)
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		n := ParseNumberOrNull(parts[1])
		if n == nil {
			return RowSpec{}, fmt.Errorf("invalid sets in row %q", input)
		}
		spec.SetsPlanned = ClampInt(*n, 1, 20)
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		spec.TargetReps = strings.TrimSpace(parts[2])
	}
	return spec, nil
}
