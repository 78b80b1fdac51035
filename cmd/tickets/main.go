package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baiirun/tickets/internal/config"
	"github.com/baiirun/tickets/internal/db"
	"github.com/baiirun/tickets/internal/logging"
	"github.com/baiirun/tickets/internal/model"
	"github.com/baiirun/tickets/internal/tracker"
)

// app holds what every subcommand needs once the root command has run.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *db.DB
	tracker *tracker.Tracker

	// flags
	dbPath   string
	logLevel string
	pageSize int
	json     bool
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tickets",
		Short:         "Track support tickets from the terminal",
		Long:          `A CLI for keeping a local list of support tickets: add, edit, search, filter, page through and remove them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default $TICKETS_DB or ~/.tickets/tickets.db)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $TICKETS_LOG_LEVEL or warn)")
	rootCmd.PersistentFlags().IntVar(&a.pageSize, "page-size", 0, "tickets per page (default $TICKETS_PAGE_SIZE or 6)")
	rootCmd.PersistentFlags().BoolVar(&a.json, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newUpdateCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newClearCmd(a))
	rootCmd.AddCommand(newCategoriesCmd(a))
	rootCmd.AddCommand(newTUICmd(a))

	return rootCmd, a
}

// run executes the command tree and releases what open acquired. Cobra skips
// post-run hooks when a command fails, so closing happens here instead.
func run(cmd *cobra.Command, a *app) error {
	err := cmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// open loads configuration, applies flag overrides and connects the tracker.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logger.Level = a.logLevel
	}
	if cmd.Flags().Changed("page-size") {
		if a.pageSize < 1 {
			return fmt.Errorf("invalid page size: %d", a.pageSize)
		}
		cfg.PageSize = a.pageSize
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	a.log = logger

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := database.Init(); err != nil {
		_ = database.Close()
		return err
	}
	a.db = database
	a.tracker = tracker.New(database, logger)

	logger.Debug("database opened", zap.String("path", cfg.DBPath))
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// userMessage points not-found errors at the list command; everything else
// uses the core's wording.
func userMessage(err error) string {
	if errors.Is(err, model.ErrTicketNotFound) {
		return "Ticket not found (use 'tickets list' to see available tickets)."
	}
	return model.UserMessage(err)
}

func main() {
	if err := run(newRootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}
