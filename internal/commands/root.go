package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/balkashynov/liftlog/internal/config"
	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/logging"
	"github.com/balkashynov/liftlog/internal/storage"
	"github.com/balkashynov/liftlog/internal/store"
	"github.com/balkashynov/liftlog/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Seams for tests: the TUIs need a terminal and the clock moves.
var (
	runLogSession = tui.RunLogSession
	runHistory    = tui.RunHistory
	now           = time.Now
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the liftlog command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "liftlog",
		Short: "A terminal workout log",
		Long: `liftlog records strength training sessions from reusable templates.
Log sets from the terminal, browse your history and watch volume and top
weights progress. Everything is stored locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.liftlog/config.yaml)")

	rootCmd.AddCommand(newExerciseCommand())
	rootCmd.AddCommand(newTemplateCommand())
	rootCmd.AddCommand(newSessionCommand())
	rootCmd.AddCommand(newProgressCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newResetCommand())
	rootCmd.AddCommand(newVersionCommand())
	rootCmd.SetHelpCommand(newHelpCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// app is everything a command needs once config, logging and storage are up
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	db        *gorm.DB
	store     *store.Store
	logCloser io.Closer
}

func openApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log, logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName: cfg.Log.File,
		LogLevel:    cfg.Log.Level,
		Stderr:      cmd.ErrOrStderr(),
	})

	gdb, err := db.Open(cfg.Data.DBPath)
	if err != nil {
		return nil, multierr.Append(err, logCloser.Close())
	}

	adapter := storage.NewAdapter(db.NewSlot(gdb, cfg.Data.StorageKey), log)
	st, err := store.Open(adapter, cfg.Data.Seed, store.WithLogger(log), store.WithClock(now))
	if err != nil {
		return nil, multierr.Combine(err, db.Close(gdb), logCloser.Close())
	}

	log.WithFields(logrus.Fields{"db": cfg.Data.DBPath, "key": cfg.Data.StorageKey}).Debug("liftlog: store opened")
	return &app{cfg: cfg, log: log, db: gdb, store: st, logCloser: logCloser}, nil
}

// Close releases the database and flushes the log file
func (a *app) Close() error {
	return multierr.Combine(db.Close(a.db), a.logCloser.Close())
}

// withApp wraps a command function so it runs against an open store
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, a.Close())
		}()
		return fn(cmd, args, a)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "liftlog %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
