package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/seedkeeper/internal/core/config"
	"github.com/solatis/seedkeeper/internal/core/db"
	"github.com/solatis/seedkeeper/internal/logging"
)

// Version is the release reported by serve.
const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string

	cfg *config.Config
)

// logger is replaced in PersistentPreRunE once the config is loaded.
var logger = zap.NewNop()

// rootBindings maps config keys to persistent flags.
var rootBindings = config.FlagBindings{
	"database.url": "db-url",
	"log.level":    "log-level",
	"log.format":   "log-format",
}

var rootCmd = &cobra.Command{
	Use:   "seedkeeper",
	Short: "SeedKeeper chest rule engine",
	Long: `SeedKeeper builds, validates and serves chest rules for seed search:
floor/item conditions combined into AND/OR groups and sent in a compact
positional encoding.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindings := config.FlagBindings{}
		for k, v := range rootBindings {
			bindings[k] = v
		}
		for k, v := range commandBindings[cmd.Name()] {
			bindings[k] = v
		}

		var err error
		cfg, err = config.LoadConfig(configFile, cmd.Flags(), bindings)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// commandBindings holds per-command flag bindings, keyed by command name.
var commandBindings = map[string]config.FlagBindings{}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase opens the configured database. With requireCurrent, pending
// migrations are an error.
func openDatabase(requireCurrent bool) (*sqlx.DB, *db.Queries, error) {
	database, err := db.Open(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if requireCurrent {
		if err := db.RequireCurrent(database); err != nil {
			database.Close()
			return nil, nil, err
		}
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return database, queries, nil
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
