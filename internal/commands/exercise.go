package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/store"
)

func newExerciseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exercise",
		Aliases: []string{"ex"},
		Short:   "Manage the exercise library",
	}
	cmd.AddCommand(newExerciseAddCommand())
	cmd.AddCommand(newExerciseEditCommand())
	cmd.AddCommand(newExerciseRmCommand())
	cmd.AddCommand(newExerciseLsCommand())
	return cmd
}

func newExerciseAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an exercise",
		Long: `Add an exercise to the library.

Usage:
  liftlog exercise add "Romanian Deadlift" --notes "hinge, soft knees"`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("exercise name is required")
			}
			notes, _ := cmd.Flags().GetString("notes")

			e, err := a.store.UpsertExercise(store.ExerciseInput{Name: name, Notes: notes})
			if err != nil {
				return fmt.Errorf("add exercise: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added exercise %s: %s\n", shortID(e.ID), e.Name)
			return nil
		}),
	}
	cmd.Flags().StringP("notes", "n", "", "Notes shown with the exercise")
	return cmd
}

func newExerciseEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id-or-name>",
		Short: "Rename an exercise or change its notes",
		Long: `Edit an exercise. Past sessions keep the name they were logged with.

Usage:
  liftlog exercise edit Bench --name "Barbell Bench Press"`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			e, err := findExercise(a.store.Snapshot(), args[0])
			if err != nil {
				return err
			}

			in := store.ExerciseInput{ID: e.ID, Name: e.Name, Notes: e.Notes}
			if cmd.Flags().Changed("name") {
				in.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("notes") {
				in.Notes, _ = cmd.Flags().GetString("notes")
			}
			if strings.TrimSpace(in.Name) == "" {
				return fmt.Errorf("exercise name cannot be empty")
			}

			updated, err := a.store.UpsertExercise(in)
			if err != nil {
				return fmt.Errorf("edit exercise: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated exercise %s: %s\n", shortID(updated.ID), updated.Name)
			return nil
		}),
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().StringP("notes", "n", "", "New notes")
	return cmd
}

func newExerciseRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id-or-name>",
		Short: "Delete an exercise and remove it from every template",
		Long: `Delete an exercise. Templates lose their rows for it; sessions that
already recorded it are kept unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			doc := a.store.Snapshot()
			e, err := findExercise(doc, args[0])
			if err != nil {
				return err
			}

			uses := 0
			for _, t := range doc.Templates {
				for _, r := range t.ExerciseRows {
					if r.ExerciseID == e.ID {
						uses++
					}
				}
			}
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, fmt.Sprintf("Delete %q (used in %d template rows)?", e.Name, uses)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := a.store.DeleteExercise(e.ID); err != nil {
				return fmt.Errorf("delete exercise: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted exercise %s\n", e.Name)
			return nil
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newExerciseLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List exercises",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			out := cmd.OutOrStdout()
			doc := a.store.Snapshot()
			if len(doc.Exercises) == 0 {
				fmt.Fprintln(out, "No exercises yet. Use 'liftlog exercise add <name>' to create one.")
				return nil
			}

			fmt.Fprintf(out, "%-8s  %-30s  %s\n", "ID", "NAME", "NOTES")
			fmt.Fprintln(out, strings.Repeat("-", 70))
			for _, e := range doc.Exercises {
				fmt.Fprintf(out, "%-8s  %-30s  %s\n", shortID(e.ID), truncate(e.Name, 30), truncate(e.Notes, 28))
			}
			return nil
		}),
	}
}
