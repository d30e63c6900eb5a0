package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/foodsurvey/internal/config"
	"github.com/sadopc/foodsurvey/internal/logging"
	"github.com/sadopc/foodsurvey/internal/remotelog"
	"github.com/sadopc/foodsurvey/internal/store"
)

var (
	configPath string
	dbPath     string
	endpoint   string
	verbose    bool

	version = "dev"
)

// Resolved by PersistentPreRunE for every command.
var (
	cfg    *config.Config
	logger *zap.Logger
	st     *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "foodsurvey",
	Short: "Game day food survey kiosk",
	Long: `A terminal kiosk for rating game day food.

An operator builds surveys from the default food catalog plus custom foods,
starts a session and hands the terminal to attendees. Each completed
response is posted to the configured spreadsheet endpoint.

Quick Start:
  foodsurvey                      # start the kiosk
  foodsurvey configs list         # list saved surveys
  foodsurvey ping                 # check the endpoint`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { teardown() },
	RunE:              runKiosk,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		teardown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/foodsurvey/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "remote spreadsheet endpoint (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// setup loads configuration, then applies flags, then opens the log and
// the store.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DatabasePath = dbPath
	}
	if endpoint != "" {
		c.Endpoint = endpoint
	}
	if verbose {
		c.Debug = true
	}
	if c.DatabasePath == "" {
		if c.DatabasePath, err = store.DefaultDBPath(); err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
	}

	log, err := logging.New(logging.Options{File: c.LogFile, Debug: c.Debug})
	if err != nil {
		return err
	}

	s, err := store.New(c.DatabasePath, store.WithLogger(log.Named("store")))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	cfg, logger, st = c, log, s
	logger.Debug("started", zap.String("command", cmd.Name()), zap.String("db", c.DatabasePath))
	return nil
}

func teardown() {
	if st != nil {
		st.Close()
		st = nil
	}
	if logger != nil {
		logger.Sync()
	}
}

func newRemote() *remotelog.Client {
	return remotelog.New(cfg.Remote(), remotelog.WithLogger(logger.Named("remote")))
}
