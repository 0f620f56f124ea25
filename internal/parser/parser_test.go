package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/liftlog/internal/models"
)

func TestParseNumberOrNull(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{in: "", want: nil},
		{in: "   ", want: nil},
		{in: "abc", want: nil},
		{in: "12kg", want: nil},
		{in: "Inf", want: nil},
		{in: "NaN", want: nil},
		{in: "5", want: ptr(5)},
		{in: " 97.5 ", want: ptr(97.5)},
		{in: "97,5", want: ptr(97.5)},
		{in: "-2.5", want: ptr(-2.5)},
		{in: "0", want: ptr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumberOrNull(tt.in))
		})
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 1, ClampInt(0, 1, 20))
	assert.Equal(t, 20, ClampInt(25, 1, 20))
	assert.Equal(t, 3, ClampInt(2.5, 1, 20))
	assert.Equal(t, 2, ClampInt(2.49, 1, 20))
	assert.Equal(t, 1, ClampInt(-7, 1, 20))
	assert.Equal(t, 7, ClampInt(7, 1, 20))
	assert.Equal(t, -2, ClampInt(-2.5, -5, 5), "halves go up, not away from zero")
	assert.Equal(t, -3, ClampInt(-2.51, -5, 5))
}

func TestFormatKg(t *testing.T) {
	assert.Equal(t, "", FormatKg(nil))
	assert.Equal(t, "100", FormatKg(ptr(100)))
	assert.Equal(t, "97.5", FormatKg(ptr(97.5)))
	assert.Equal(t, "97.25", FormatKg(ptr(97.25)))
	assert.Equal(t, "97", FormatKg(ptr(97.001)))
	assert.Equal(t, "1.13", FormatKg(ptr(1.125001)))
}

func TestFormatOptional(t *testing.T) {
	assert.Equal(t, "—", FormatOptional(nil, "—"))
	assert.Equal(t, "12.5", FormatOptional(ptr(12.5), "—"))
}

func TestParseSessionDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "2024-03-10"},
		{in: "Today", want: "2024-03-10"},
		{in: "yesterday", want: "2024-03-09"},
		{in: "2024-01-31", want: "2024-01-31"},
		{in: "31/01/2024", want: "2024-01-31"},
		{in: "3 days ago", want: "2024-03-07"},
		{in: "2w", want: "2024-02-25"},
		{in: "1 day ago", want: "2024-03-09"},
		{in: "2024-02-30", wantErr: true},
		{in: "31/02/2024", wantErr: true},
		{in: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSessionDate(tt.in, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDateISO(t *testing.T) {
	assert.True(t, IsDateISO("2024-02-29"))
	assert.False(t, IsDateISO("2023-02-29"))
	assert.False(t, IsDateISO("2024-2-9"))
	assert.False(t, IsDateISO(""))
}

func TestParseSets(t *testing.T) {
	sets, err := ParseSets("5x100 8x97,5; x60 10x 5x80*2")
	require.NoError(t, err)

	want := []models.SetEntry{
		models.NewSet(5, 100),
		models.NewSet(8, 97.5),
		{Reps: nil, WeightKg: ptr(60)},
		{Reps: ptr(10), WeightKg: nil},
		models.NewSet(5, 80),
		models.NewSet(5, 80),
	}
	assert.Equal(t, want, sets)

	// repeated sets must not share pointers
	*sets[4].Reps = 6
	assert.Equal(t, 5.0, *sets[5].Reps)
}

func TestParseSets_Errors(t *testing.T) {
	_, err := ParseSets("5x100 bench 5x100*50")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid set "bench"`)
	assert.Contains(t, err.Error(), `invalid repeat in "5x100*50"`)
}

func TestParseSets_Empty(t *testing.T) {
	sets, err := ParseSets("   ")
	require.NoError(t, err)
	assert.Empty(t, sets)
}

func TestParseExerciseSets(t *testing.T) {
	got, err := ParseExerciseSets("Barbell bench press = 5x100 5x100")
	require.NoError(t, err)
	assert.Equal(t, "Barbell bench press", got.Exercise)
	assert.Len(t, got.Sets, 2)

	_, err = ParseExerciseSets("5x100")
	assert.Error(t, err)

	_, err = ParseExerciseSets("Bench=5y100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bench:")
}

func TestParseRowSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    RowSpec
		wantErr bool
	}{
		{in: "Bench", want: RowSpec{Exercise: "Bench", SetsPlanned: 3, TargetReps: "8-10"}},
		{in: "Bench:4:6-8", want: RowSpec{Exercise: "Bench", SetsPlanned: 4, TargetReps: "6-8"}},
		{in: "Bench:0", want: RowSpec{Exercise: "Bench", SetsPlanned: 1, TargetReps: "8-10"}},
		{in: "Bench:25:5", want: RowSpec{Exercise: "Bench", SetsPlanned: 20, TargetReps: "5"}},
		{in: "Bench::12", want: RowSpec{Exercise: "Bench", SetsPlanned: 3, TargetReps: "12"}},
		{in: ":3:5", wantErr: true},
		{in: "Bench:x", wantErr: true},
		{in: "Bench:3:5:9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRowSpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func ptr(v float64) *float64 { return &v }
