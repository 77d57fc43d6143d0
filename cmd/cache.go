package cmd

import (
	"fmt"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/internal/iocache"
	"github.com/huangsam/logscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseBackend(viper.GetString("cache-backend"))
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No run tracking for cache commands
	if err := iocache.InitStores(backend, connStr, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by scoring commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the forecast parse cache (improves performance)",
	Long: `Manage the cache of parsed forecast files.

Parsing a forecast CSV is the expensive part of scoring. With a cache backend
set, each parsed file is stored under its path, size and modification time so
unchanged submissions are not parsed again on the next run.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  logscore cache status --cache-backend sqlite

  # Clear cache after changing the forecast format
  logscore cache clear --cache-backend sqlite`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached forecast data",
	Long: `Delete all cached forecasts from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  logscore cache clear --cache-backend sqlite

  # Clear MySQL cache (set connection string via env variable)
  LOGSCORE_CACHE_BACKEND=mysql LOGSCORE_CACHE_DB_CONNECT="..." logscore cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.CacheDBConnect
		if dbFilePath == "" {
			dbFilePath = contract.GetCacheDBFilePath()
		}
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, dbFilePath, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, connection state, entry count, timestamps and size of the forecast cache.

Examples:
  logscore cache status --cache-backend sqlite`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.CacheStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
