package commands

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/progress"
	"github.com/balkashynov/liftlog/internal/tui"
)

func newProgressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress [template]",
		Short: "Show volume and top-set trends for a template",
		Long: `Show how a template is going: session count, latest and average volume,
and sparklines for workout volume and for one exercise's top weight and
volume over the most recent sessions.

The exercise defaults to the first one of the template.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			doc := a.store.Snapshot()
			tpl, err := pickTemplate(doc, args)
			if err != nil {
				return err
			}

			window := a.cfg.Progress.RecentSessions
			if cmd.Flags().Changed("sessions") {
				window, _ = cmd.Flags().GetInt("sessions")
				if window < 1 {
					return fmt.Errorf("--sessions must be at least 1")
				}
			}

			exercise, err := pickProgressExercise(cmd, doc, tpl)
			if err != nil {
				return err
			}

			report := progress.TemplateProgress(doc.Sessions, tpl.ID, exercise.ID, window)
			printProgress(cmd.OutOrStdout(), tpl, exercise, report)
			return nil
		}),
	}
	cmd.Flags().StringP("exercise", "e", "", "Exercise to chart (default the template's first)")
	cmd.Flags().IntP("sessions", "n", 0, "How many recent sessions to chart (default from config)")
	cmd.AddCommand(newProgressWeekCommand())
	return cmd
}

func pickProgressExercise(cmd *cobra.Command, doc models.Document, tpl models.WorkoutTemplate) (models.Exercise, error) {
	if ref, _ := cmd.Flags().GetString("exercise"); ref != "" {
		return findExercise(doc, ref)
	}
	exercises := doc.ExercisesByID()
	for _, r := range tpl.ExerciseRows {
		if e, ok := exercises[r.ExerciseID]; ok {
			return e, nil
		}
	}
	return models.Exercise{}, nil
}

func printProgress(out io.Writer, tpl models.WorkoutTemplate, exercise models.Exercise, report progress.TemplateReport) {
	fmt.Fprintf(out, "%s\n\n", tpl.Name)
	if report.SessionCount == 0 {
		fmt.Fprintf(out, "No sessions yet. Log one with 'liftlog session log %s'.\n", tpl.Name)
		return
	}

	latest := report.Recent[len(report.Recent)-1]
	total := 0.0
	for _, s := range report.Recent {
		total += progress.SessionVolume(s)
	}
	avg := total / float64(len(report.Recent))

	fmt.Fprintf(out, "Sessions:        %d\n", report.SessionCount)
	fmt.Fprintf(out, "Last session:    %s\n", report.LastSessionDate)
	fmt.Fprintf(out, "Latest volume:   %s kg·reps\n", parser.FormatNumber(math.Round(progress.SessionVolume(latest))))
	fmt.Fprintf(out, "Average (last %d): %s kg·reps\n\n", len(report.Recent), parser.FormatNumber(math.Round(avg)))

	fmt.Fprintln(out, tui.ChartCard("Workout volume", " kg·reps", report.WorkoutVolume))
	if exercise.ID == "" {
		return
	}
	if len(report.Exercise) == 0 {
		fmt.Fprintf(out, "\n%s was not logged in these sessions.\n", exercise.Name)
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.ChartCard(exercise.Name+" top set", " kg", report.ExerciseTopKg))
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.ChartCard(exercise.Name+" volume", " kg·reps", report.ExerciseVolume))
}

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func newProgressWeekCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show volume per template and day for one calendar week",
		Long: `Show a weekly grid of training volume, one row per template and one
column per weekday. Drafts are left out.

Example output:
  Template                Mon    Tue    Wed    Thu    Fri    Sat    Sun    Total
  Day1_Push              5430      -      -   5210      -      -      -    10640
  Day2_Pull                 -   4800      -      -      -      -      -     4800
  Total                  5430   4800      0   5210      0      0      0    15440`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			offset, _ := cmd.Flags().GetInt("offset")
			if offset < 0 {
				return fmt.Errorf("--offset counts weeks back and cannot be negative")
			}
			weekStart := getWeekStart(now()).AddDate(0, 0, -7*offset)
			grid := buildWeekGrid(a.store.Snapshot().Sessions, weekStart)
			displayWeekGrid(cmd.OutOrStdout(), grid, weekStart)
			return nil
		}),
	}
	cmd.Flags().Int("offset", 0, "Weeks back from the current week")
	return cmd
}

// getWeekStart returns the Monday of t's calendar week at midnight
func getWeekStart(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7
	start := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}

type weekRow struct {
	name   string
	volume [7]float64
}

// buildWeekGrid sums finished session volume per template and weekday.
// Rows follow the order templates first appear in sessions, newest first.
func buildWeekGrid(sessions []models.WorkoutSession, weekStart time.Time) []weekRow {
	first := models.DateISO(weekStart)
	last := models.DateISO(weekStart.AddDate(0, 0, 6))

	var rows []weekRow
	index := make(map[string]int)
	for _, s := range progress.SortByDateDesc(sessions) {
		if s.IsDraft || s.DateISO < first || s.DateISO > last {
			continue
		}
		day, err := time.Parse("2006-01-02", s.DateISO)
		if err != nil {
			continue
		}
		i, ok := index[s.TemplateID]
		if !ok {
			i = len(rows)
			index[s.TemplateID] = i
			rows = append(rows, weekRow{name: s.TemplateName})
		}
		rows[i].volume[(int(day.Weekday())+6)%7] += progress.SessionVolume(s)
	}
	return rows
}

func displayWeekGrid(out io.Writer, rows []weekRow, weekStart time.Time) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	if len(rows) == 0 {
		fmt.Fprintf(out, "No sessions logged in the week of %s to %s.\n",
			weekStart.Format("Jan 2"), weekEnd.Format("Jan 2, 2006"))
		return
	}

	nameWidth := 20
	for _, r := range rows {
		if n := len([]rune(r.name)); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 32 {
		nameWidth = 32
	}
	const cell = 6

	separator := strings.Repeat("-", nameWidth) + strings.Repeat("  "+strings.Repeat("-", cell), 8)

	fmt.Fprintf(out, "%-*s", nameWidth, "Template")
	for _, d := range weekdayNames {
		fmt.Fprintf(out, "  %*s", cell, d)
	}
	fmt.Fprintf(out, "  %*s\n", cell, "Total")
	fmt.Fprintln(out, separator)

	var dayTotals [7]float64
	grand := 0.0
	for _, r := range rows {
		fmt.Fprintf(out, "%-*s", nameWidth, truncate(r.name, nameWidth))
		rowTotal := 0.0
		for d, v := range r.volume {
			if v > 0 {
				fmt.Fprintf(out, "  %*.0f", cell, math.Round(v))
			} else {
				fmt.Fprintf(out, "  %*s", cell, "-")
			}
			dayTotals[d] += v
			rowTotal += v
		}
		fmt.Fprintf(out, "  %*.0f\n", cell, math.Round(rowTotal))
		grand += rowTotal
	}

	fmt.Fprintln(out, separator)
	fmt.Fprintf(out, "%-*s", nameWidth, "Total")
	for _, v := range dayTotals {
		fmt.Fprintf(out, "  %*.0f", cell, math.Round(v))
	}
	fmt.Fprintf(out, "  %*.0f\n", cell, math.Round(grand))

	fmt.Fprintf(out, "\nWeek of %s to %s\n", weekStart.Format("Jan 2"), weekEnd.Format("Jan 2, 2006"))
}
