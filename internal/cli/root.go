// Package cli defines the cobra command tree for fieldlog.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/evcraddock/fieldlog/internal/config"
	"github.com/evcraddock/fieldlog/internal/logging"
)

var (
	flagFormat      string
	flagDB          string
	flagDatabaseURL string
	flagVerbose     bool

	// cfg is resolved once per invocation before any command runs.
	cfg config.Config
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fl",
		Short: "Track field-service visits",
		Long: "Record technician visits to clients, follow up pending items and tasks, " +
			"and report coverage for any date range.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.fieldlog/fieldlog.db)")
	root.PersistentFlags().StringVar(&flagDatabaseURL, "database-url", "", "PostgreSQL connection URL (overrides --db)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(
		newTechnicianCmd(),
		newClientCmd(),
		newVisitCmd(),
		newPendingCmd(),
		newTaskCmd(),
		newOutstandingCmd(),
		newReportCmd(),
		newSettingCmd(),
		newSMTPCmd(),
		newAccessCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// setup resolves configuration and logging for every command.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		loaded.DBPath = flagDB
	}
	if flagDatabaseURL != "" {
		loaded.DatabaseURL = flagDatabaseURL
	}
	cfg = loaded

	logging.Setup(cfg.DevMode)
	if !cfg.DevMode && !flagVerbose && cmd.Name() != "serve" {
		log.Logger = log.Logger.Level(zerolog.WarnLevel)
	}
	return nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
