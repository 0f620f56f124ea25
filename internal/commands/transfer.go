package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/progress"
	"github.com/balkashynov/liftlog/internal/transfer"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your data as JSON or CSV",
	}
	cmd.AddCommand(newExportJSONCommand())
	cmd.AddCommand(newExportCSVCommand())
	return cmd
}

func newExportJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export everything as a JSON backup",
		Long: `Export exercises, templates and sessions as one JSON document that
'liftlog import' can read back. Written to workouts-YYYY-MM-DD.json in the
current directory unless -o is given; -o - writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			data, err := transfer.ExportJSON(a.store.Snapshot())
			if err != nil {
				return fmt.Errorf("export json: %w", err)
			}
			return writeExport(cmd, data, transfer.BackupFileName(now()))
		}),
	}
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout")
	return cmd
}

func newExportCSVCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export every logged set as CSV",
		Long: `Export one CSV row per logged set, newest session first:
date,template,exercise,setIndex,reps,weightKg,volume

Written to workout-sessions-YYYY-MM-DD.csv in the current directory unless
-o is given; -o - writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sessions := progress.SortByDateDesc(a.store.Snapshot().Sessions)
			return writeExport(cmd, transfer.ExportCSV(sessions), transfer.CSVFileName(now()))
		}),
	}
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout")
	return cmd
}

func writeExport(cmd *cobra.Command, data []byte, defaultName string) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if path == "" {
		path = defaultName
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a JSON backup",
		Long: `Replace every exercise, template and session with the contents of a JSON
backup made by 'liftlog export json'. The current data is written to the
backup directory first. Duplicate sessions in the file are merged.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			doc, err := transfer.ParseImport(data)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s contains %d exercises, %d templates and %d sessions.\n",
				args[0], len(doc.Exercises), len(doc.Templates), len(doc.Sessions))
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, "Replace all current data?") {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			backup, err := transfer.WriteBackup(a.cfg.Data.BackupDir, a.store.Snapshot(), now())
			if err != nil {
				return fmt.Errorf("backup before import: %w", err)
			}
			a.log.WithField("path", backup).Info("import: previous data backed up")

			if err := a.store.ReplaceDocument(doc); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(out, "Imported %s (previous data saved to %s)\n", args[0], backup)
			return nil
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and start over",
		Long: `Delete every exercise, template and session. With seeding enabled in the
config (the default) the starter exercises and templates are restored.
A JSON backup is written to the backup directory first.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			out := cmd.OutOrStdout()
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, "Delete ALL workout data?") {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			backup, err := transfer.WriteBackup(a.cfg.Data.BackupDir, a.store.Snapshot(), now())
			if err != nil {
				return fmt.Errorf("backup before reset: %w", err)
			}
			if err := a.store.Reset(a.cfg.Data.Seed); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Fprintf(out, "All data deleted (backup saved to %s)\n", backup)
			return nil
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}
