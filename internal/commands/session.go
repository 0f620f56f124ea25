package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/draft"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/progress"
	"github.com/balkashynov/liftlog/internal/tui"
)

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Log and review workout sessions",
	}
	cmd.AddCommand(newSessionLogCommand())
	cmd.AddCommand(newSessionLsCommand())
	cmd.AddCommand(newSessionShowCommand())
	cmd.AddCommand(newSessionRmCommand())
	cmd.AddCommand(newSessionEditCommand())
	cmd.AddCommand(newSessionFinishCommand())
	return cmd
}

const setHelp = `Sets are given per exercise as "Exercise=REPSxKG ...", e.g.
  --set "Bench Press=5x100 5x100 4x100"   three sets
  --set "Bench Press=5x100*3"             the same set three times
  --set "Lateral Raise=15x 12x8"          a blank weight is stored as empty`

func newSessionLogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log [template]",
		Short: "Log a session from a template",
		Long: `Log a workout session. The form starts with the planned sets of the
template, filled in with what you did last time on the same template.

In the form: tab/↓ moves on, ctrl+s saves a draft, ctrl+f (or enter on the
comment) finishes the session.

With --no-ui the session is stored straight away. Exercises without --set
keep the values from last time.

` + setHelp + `

Dates accept YYYY-MM-DD, dd/mm/yyyy, today, yesterday and "3 days ago".`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			doc := a.store.Snapshot()
			tpl, err := pickTemplate(doc, args)
			if err != nil {
				return err
			}

			dateFlag, _ := cmd.Flags().GetString("date")
			dateISO, err := parser.ParseSessionDate(dateFlag, now())
			if err != nil {
				return err
			}

			d := draft.FromTemplate(tpl, doc.ExercisesByID(), doc.Sessions, models.NewID(), dateISO)
			d.Comment, _ = cmd.Flags().GetString("comment")
			if err := applySetFlags(cmd, &d); err != nil {
				return err
			}

			if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
				asDraft, _ := cmd.Flags().GetBool("draft")
				s := d.ToSession()
				s.IsDraft = asDraft
				saved, err := a.store.AddSession(s)
				if err != nil {
					return fmt.Errorf("log session: %w", err)
				}
				printLogged(cmd.OutOrStdout(), saved)
				return nil
			}

			return runForm(cmd, a, d, false)
		}),
	}
	cmd.Flags().String("date", "", "Session date (default today)")
	cmd.Flags().StringArray("set", nil, "Sets for one exercise, Exercise=REPSxKG ... (repeatable)")
	cmd.Flags().StringP("comment", "c", "", "Session comment")
	cmd.Flags().Bool("draft", false, "Store as an unfinished draft (with --no-ui)")
	cmd.Flags().Bool("no-ui", false, "Skip the interactive form")
	return cmd
}

// pickTemplate uses the named template, or the only one when none is named
func pickTemplate(doc models.Document, args []string) (models.WorkoutTemplate, error) {
	if len(args) == 1 {
		return findTemplate(doc, args[0])
	}
	switch len(doc.Templates) {
	case 0:
		return models.WorkoutTemplate{}, fmt.Errorf("no templates yet, create one with 'liftlog template add'")
	case 1:
		return doc.Templates[0].Clone(), nil
	}
	names := make([]string, len(doc.Templates))
	for i, t := range doc.Templates {
		names[i] = t.Name
	}
	return models.WorkoutTemplate{}, fmt.Errorf("pick a template: %s", strings.Join(names, ", "))
}

func applySetFlags(cmd *cobra.Command, d *draft.Draft) error {
	specs, _ := cmd.Flags().GetStringArray("set")
	for _, raw := range specs {
		es, err := parser.ParseExerciseSets(raw)
		if err != nil {
			return err
		}
		i := d.EntryIndex(es.Exercise)
		if i < 0 {
			return fmt.Errorf("exercise %q is not part of %s", es.Exercise, d.TemplateName)
		}
		d.ReplaceSets(i, es.Sets)
	}
	return nil
}

// runForm opens the logging form. New sessions are added on the first save;
// later saves, and every save while editing, update the stored session.
func runForm(cmd *cobra.Command, a *app, d draft.Draft, editing bool) error {
	stored := editing
	save := func(d draft.Draft, finish bool) error {
		s := d.ToSession()
		if !stored {
			s.IsDraft = !finish
			if _, err := a.store.AddSession(s); err != nil {
				return err
			}
			stored = true
			return nil
		}

		_, found, err := a.store.UpdateSession(s.ID, func(cur *models.WorkoutSession) {
			cur.DateISO = s.DateISO
			cur.TemplateID = s.TemplateID
			cur.TemplateName = s.TemplateName
			cur.Entries = s.Entries
			cur.Comment = s.Comment
			switch {
			case finish:
				cur.IsDraft = false
			case !editing:
				cur.IsDraft = true
			}
		})
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("session %s no longer exists", shortID(s.ID))
		}
		return nil
	}

	result, err := runLogSession(d, editing, save)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch result {
	case tui.ResultFinished, tui.ResultSavedDraft:
		if s, ok := a.store.SessionByID(d.ID); ok {
			printLogged(out, s)
		}
	case tui.ResultCancelled:
		if editing {
			fmt.Fprintln(out, "❌ Edit cancelled, session unchanged.")
		} else {
			fmt.Fprintln(out, "❌ Session discarded.")
		}
	}
	return nil
}

func printLogged(out io.Writer, s models.WorkoutSession) {
	if s.IsDraft {
		fmt.Fprintf(out, "💾 Saved draft %s: %s on %s\n", shortID(s.ID), s.TemplateName, s.DateISO)
		fmt.Fprintf(out, "   Finish it with 'liftlog session finish %s'\n", shortID(s.ID))
		return
	}
	fmt.Fprintf(out, "✅ Logged %s on %s: %s kg·reps (session %s)\n",
		s.TemplateName, s.DateISO, parser.FormatNumber(progress.SessionVolume(s)), shortID(s.ID))
}

func newSessionLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "history"},
		Short:   "Browse past sessions",
		Long: `Browse past sessions, newest first, in an interactive view with a detail
pane. Press enter to edit the selected session, d to delete it, / to search.

Use --no-ui for a plain table or --json for machine-readable output.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			doc := a.store.Snapshot()
			sessions, err := filterSessions(cmd, doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sessions)
			}

			if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
				printSessionTable(out, sessions)
				return nil
			}

			chosen, err := runHistory(sessions, a.cfg.Progress.RecentSessions, a.store.DeleteSession)
			if err != nil || chosen == "" {
				return err
			}
			s, ok := a.store.SessionByID(chosen)
			if !ok {
				return fmt.Errorf("session %s no longer exists", shortID(chosen))
			}
			return runForm(cmd, a, draft.FromSession(s), true)
		}),
	}
	cmd.Flags().StringP("template", "t", "", "Only sessions of this template")
	cmd.Flags().StringP("search", "q", "", "Only sessions whose template, date or comment contains this text")
	cmd.Flags().Bool("drafts", false, "Only unfinished drafts")
	cmd.Flags().Bool("json", false, "JSON output")
	cmd.Flags().Bool("no-ui", false, "Plain table output")
	return cmd
}

// filterSessions applies the ls filters and returns sessions newest first
func filterSessions(cmd *cobra.Command, doc models.Document) ([]models.WorkoutSession, error) {
	templateRef, _ := cmd.Flags().GetString("template")
	query, _ := cmd.Flags().GetString("search")
	draftsOnly, _ := cmd.Flags().GetBool("drafts")

	templateID := ""
	if templateRef != "" {
		t, err := findTemplate(doc, templateRef)
		if err != nil {
			return nil, err
		}
		templateID = t.ID
	}
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.WorkoutSession, 0, len(doc.Sessions))
	for _, s := range progress.SortByDateDesc(doc.Sessions) {
		if templateID != "" && s.TemplateID != templateID {
			continue
		}
		if draftsOnly && !s.IsDraft {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.TemplateName), query) &&
			!strings.Contains(s.DateISO, query) &&
			!strings.Contains(strings.ToLower(s.Comment), query) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func printSessionTable(out io.Writer, sessions []models.WorkoutSession) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found. Use 'liftlog session log' to track one.")
		return
	}
	fmt.Fprintf(out, "%-8s  %-10s  %-24s  %10s  %3s  %s\n", "ID", "DATE", "TEMPLATE", "VOLUME", "EX", "STATUS")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, s := range sessions {
		status := "done"
		if s.IsDraft {
			status = "draft"
		}
		fmt.Fprintf(out, "%-8s  %-10s  %-24s  %10s  %3d  %s\n",
			shortID(s.ID), s.DateISO, truncate(s.TemplateName, 24),
			parser.FormatNumber(progress.SessionVolume(s)), len(s.Entries), status)
	}
}

func newSessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the sets of one session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := findSession(a.store.Snapshot(), args[0])
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), s)
			return nil
		}),
	}
}

func printSession(out io.Writer, s models.WorkoutSession) {
	summary := progress.SessionSummary(s)
	status := ""
	if s.IsDraft {
		status = " [draft]"
	}
	fmt.Fprintf(out, "%s · %s%s (%s)\n", s.TemplateName, s.DateISO, status, shortID(s.ID))
	fmt.Fprintf(out, "Total volume: %s kg·reps\n", parser.FormatNumber(summary.TotalVolume))
	for _, e := range s.Entries {
		fmt.Fprintf(out, "\n%s", e.ExerciseName)
		if e.TargetReps != "" {
			fmt.Fprintf(out, " (target %s)", e.TargetReps)
		}
		fmt.Fprintf(out, "  %s kg·reps\n", parser.FormatNumber(progress.EntryVolume(e)))
		for i, set := range e.Sets {
			fmt.Fprintf(out, "  Set %d  %s kg × %s\n", i+1, parser.FormatOptional(set.WeightKg, "—"), parser.FormatOptional(set.Reps, "—"))
		}
	}
	if s.Comment != "" {
		fmt.Fprintf(out, "\nComment: %s\n", s.Comment)
	}
}

func newSessionRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := findSession(a.store.Snapshot(), args[0])
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")
			question := fmt.Sprintf("Delete the %s session of %s? This cannot be undone.", s.TemplateName, s.DateISO)
			if !yes && !confirm(cmd, question) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := a.store.DeleteSession(s.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s (%s, %s)\n", shortID(s.ID), s.TemplateName, s.DateISO)
			return nil
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newSessionEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a logged session",
		Long: `Edit a logged session in the same form used for logging.

With --no-ui, --set replaces the sets of the named exercises and --comment
and --date replace those fields.

` + setHelp,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := findSession(a.store.Snapshot(), args[0])
			if err != nil {
				return err
			}
			d := draft.FromSession(s)

			if noUI, _ := cmd.Flags().GetBool("no-ui"); !noUI {
				return runForm(cmd, a, d, true)
			}

			if cmd.Flags().Changed("date") {
				dateFlag, _ := cmd.Flags().GetString("date")
				if d.DateISO, err = parser.ParseSessionDate(dateFlag, now()); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("comment") {
				d.Comment, _ = cmd.Flags().GetString("comment")
			}
			if err := applySetFlags(cmd, &d); err != nil {
				return err
			}

			edited := d.ToSession()
			updated, found, err := a.store.UpdateSession(s.ID, func(cur *models.WorkoutSession) {
				cur.DateISO = edited.DateISO
				cur.Entries = edited.Entries
				cur.Comment = edited.Comment
			})
			if err != nil {
				return fmt.Errorf("edit session: %w", err)
			}
			if !found {
				return fmt.Errorf("session %s no longer exists", shortID(s.ID))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated session %s\n", shortID(updated.ID))
			printSession(cmd.OutOrStdout(), updated)
			return nil
		}),
	}
	cmd.Flags().String("date", "", "New session date")
	cmd.Flags().StringArray("set", nil, "Replace the sets of one exercise (repeatable)")
	cmd.Flags().StringP("comment", "c", "", "New comment")
	cmd.Flags().Bool("no-ui", false, "Edit from the command line")
	return cmd
}

func newSessionFinishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <id>",
		Short: "Mark a draft session as finished",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := findSession(a.store.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if !s.IsDraft {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s is already finished\n", shortID(s.ID))
				return nil
			}

			updated, _, err := a.store.UpdateSession(s.ID, func(cur *models.WorkoutSession) {
				cur.IsDraft = false
			})
			if err != nil {
				return fmt.Errorf("finish session: %w", err)
			}
			printLogged(cmd.OutOrStdout(), updated)
			return nil
		}),
	}
}
