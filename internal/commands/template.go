package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/draft"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/store"
)

func newTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tpl"},
		Short:   "Manage workout templates",
	}
	cmd.AddCommand(newTemplateAddCommand())
	cmd.AddCommand(newTemplateEditCommand())
	cmd.AddCommand(newTemplateRmCommand())
	cmd.AddCommand(newTemplateLsCommand())
	cmd.AddCommand(newTemplateShowCommand())
	return cmd
}

const rowHelp = `Rows are given as exercise:sets:reps, e.g. "Bench Press:4:6-8".
Sets default to 3 and are kept between 1 and 20; reps default to 8-10.
The exercise may be a name or an id.`

// buildRows turns row specs into template rows, creating unknown exercises
// when create is set
func buildRows(a *app, specs []string, create bool) ([]models.TemplateExerciseRow, error) {
	rows := make([]models.TemplateExerciseRow, 0, len(specs))
	for _, raw := range specs {
		spec, err := parser.ParseRowSpec(raw)
		if err != nil {
			return nil, err
		}

		e, err := findExercise(a.store.Snapshot(), spec.Exercise)
		if err != nil {
			if !create {
				return nil, fmt.Errorf("%w (use --create to add it)", err)
			}
			if e, err = a.store.UpsertExercise(store.ExerciseInput{Name: spec.Exercise}); err != nil {
				return nil, fmt.Errorf("create exercise %q: %w", spec.Exercise, err)
			}
		}
		rows = append(rows, models.TemplateExerciseRow{
			ExerciseID:  e.ID,
			SetsPlanned: spec.SetsPlanned,
			TargetReps:  spec.TargetReps,
		})
	}
	return draft.NormalizeRows(rows, models.NewID), nil
}

func newTemplateAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a template",
		Long: `Create a workout template.

` + rowHelp + `

Usage:
  liftlog template add Day2_Pull --row "Pull Up:4:6-8" --row "Barbell Row:3:8-10" --create`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("template name is required")
			}
			specs, _ := cmd.Flags().GetStringArray("row")
			create, _ := cmd.Flags().GetBool("create")

			rows, err := buildRows(a, specs, create)
			if err != nil {
				return err
			}
			t, err := a.store.UpsertTemplate(store.TemplateInput{Name: name, ExerciseRows: rows})
			if err != nil {
				return fmt.Errorf("add template: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created template %s: %s (%d exercises)\n", shortID(t.ID), t.Name, len(t.ExerciseRows))
			return nil
		}),
	}
	cmd.Flags().StringArrayP("row", "r", nil, "Exercise row as exercise:sets:reps (repeatable)")
	cmd.Flags().Bool("create", false, "Create exercises that do not exist yet")
	return cmd
}

func newTemplateEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id-or-name>",
		Short: "Rename a template or change its rows",
		Long: `Edit a template. --row replaces all rows, --add-row appends to them and
--remove-row drops the row at a 1-based position.

` + rowHelp,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			t, err := findTemplate(a.store.Snapshot(), args[0])
			if err != nil {
				return err
			}
			create, _ := cmd.Flags().GetBool("create")

			in := store.TemplateInput{ID: t.ID, Name: t.Name, ExerciseRows: t.ExerciseRows}
			if cmd.Flags().Changed("name") {
				in.Name, _ = cmd.Flags().GetString("name")
				in.Name = strings.TrimSpace(in.Name)
				if in.Name == "" {
					return fmt.Errorf("template name cannot be empty")
				}
			}
			if cmd.Flags().Changed("row") {
				specs, _ := cmd.Flags().GetStringArray("row")
				if in.ExerciseRows, err = buildRows(a, specs, create); err != nil {
					return err
				}
			}
			if positions, _ := cmd.Flags().GetIntSlice("remove-row"); len(positions) > 0 {
				if in.ExerciseRows, err = removeRows(in.ExerciseRows, positions); err != nil {
					return err
				}
			}
			if specs, _ := cmd.Flags().GetStringArray("add-row"); len(specs) > 0 {
				added, err := buildRows(a, specs, create)
				if err != nil {
					return err
				}
				in.ExerciseRows = append(in.ExerciseRows, added...)
			}

			updated, err := a.store.UpsertTemplate(in)
			if err != nil {
				return fmt.Errorf("edit template: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated template %s: %s (%d exercises)\n", shortID(updated.ID), updated.Name, len(updated.ExerciseRows))
			return nil
		}),
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().StringArrayP("row", "r", nil, "Replace all rows (repeatable)")
	cmd.Flags().StringArray("add-row", nil, "Append a row (repeatable)")
	cmd.Flags().IntSlice("remove-row", nil, "Remove rows by 1-based position")
	cmd.Flags().Bool("create", false, "Create exercises that do not exist yet")
	return cmd
}

func removeRows(rows []models.TemplateExerciseRow, positions []int) ([]models.TemplateExerciseRow, error) {
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(rows) {
			return nil, fmt.Errorf("row %d does not exist (template has %d rows)", p, len(rows))
		}
		drop[p-1] = true
	}
	out := make([]models.TemplateExerciseRow, 0, len(rows))
	for i, r := range rows {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTemplateRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id-or-name>",
		Short: "Delete a template and every session logged from it",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			doc := a.store.Snapshot()
			t, err := findTemplate(doc, args[0])
			if err != nil {
				return err
			}

			sessions := 0
			for _, s := range doc.Sessions {
				if s.TemplateID == t.ID {
					sessions++
				}
			}
			yes, _ := cmd.Flags().GetBool("yes")
			question := fmt.Sprintf("Delete template %q and its %d sessions? This cannot be undone.", t.Name, sessions)
			if !yes && !confirm(cmd, question) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := a.store.DeleteTemplate(t.ID); err != nil {
				return fmt.Errorf("delete template: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s and %d sessions\n", t.Name, sessions)
			return nil
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newTemplateLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List templates",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			out := cmd.OutOrStdout()
			doc := a.store.Snapshot()
			if len(doc.Templates) == 0 {
				fmt.Fprintln(out, "No templates yet. Use 'liftlog template add <name> --row ...' to create one.")
				return nil
			}

			counts := make(map[string]int)
			for _, s := range doc.Sessions {
				counts[s.TemplateID]++
			}

			fmt.Fprintf(out, "%-8s  %-30s  %9s  %8s\n", "ID", "NAME", "EXERCISES", "SESSIONS")
			fmt.Fprintln(out, strings.Repeat("-", 62))
			for _, t := range doc.Templates {
				fmt.Fprintf(out, "%-8s  %-30s  %9d  %8d\n", shortID(t.ID), truncate(t.Name, 30), len(t.ExerciseRows), counts[t.ID])
			}
			return nil
		}),
	}
}

func newTemplateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Show the exercises of a template",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			out := cmd.OutOrStdout()
			doc := a.store.Snapshot()
			t, err := findTemplate(doc, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s (%s)\n\n", t.Name, shortID(t.ID))
			if len(t.ExerciseRows) == 0 {
				fmt.Fprintln(out, "No exercises. Add some with 'liftlog template edit --add-row'.")
				return nil
			}
			exercises := doc.ExercisesByID()
			fmt.Fprintf(out, "%-3s  %-30s  %4s  %s\n", "#", "EXERCISE", "SETS", "REPS")
			for i, r := range t.ExerciseRows {
				name := "(deleted exercise)"
				if e, ok := exercises[r.ExerciseID]; ok {
					name = e.Name
				}
				fmt.Fprintf(out, "%-3d  %-30s  %4d  %s\n", i+1, truncate(name, 30), r.SetsPlanned, r.TargetReps)
			}
			return nil
		}),
	}
}
