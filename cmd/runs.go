package cmd

import (
	"fmt"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/internal/iocache"
	"github.com/huangsam/logscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackendConfig reads and validates the run history backend settings.
func runsBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	backend, err := contract.ParseBackend(viper.GetString("runs-backend"))
	if err != nil {
		return "", "", fmt.Errorf("runs: %w", err)
	}
	connStr := viper.GetString("runs-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run history operations.
func runsSetup() error {
	backend, connStr, err := runsBackendConfig()
	if err != nil {
		return err
	}

	// No forecast caching for runs commands
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup does NOT initialize stores or create tables, so migrations
// can run on a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runsBackendConfig()
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	return nil
}

// runsCmd focused on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage scoring run history and exports",
	Long: `Manage the history of scoring runs.

When a runs backend is set, every score invocation stores:
- Run metadata (start and end time, duration, configuration)
- Every score row it produced, with NaN scores stored as NULL

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  logscore runs status --runs-backend sqlite
  logscore runs export --runs-backend sqlite --output-file history`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all scoring run history",
	Long: `Delete all stored runs and their score rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  logscore runs export --runs-backend sqlite --output-file backup
  logscore runs clear --runs-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.RunsDBConnect
		if dbFilePath == "" {
			dbFilePath = contract.GetRunsDBFilePath()
		}
		iocache.CloseStores()
		if err := iocache.ClearRuns(cfg.RunsBackend, dbFilePath, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection state, run count, latest and oldest run, total scores and table sizes.

Examples:
  logscore runs status --runs-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.RunStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs and score rows to Parquet.

Writes <output-file>.runs.parquet and <output-file>.scores.parquet.

Requires: --output-file parameter

Examples:
  logscore runs export --runs-backend sqlite --output-file history
  duckdb -c "SELECT model, avg(score) FROM read_parquet('history.scores.parquet') GROUP BY model"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  logscore runs migrate --runs-backend sqlite

  # Migrate to specific version
  logscore runs migrate --runs-backend sqlite --target-version 2

  # Roll back everything
  logscore runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
