package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
)

// forecastCacheTable is the name of the table for forecast caching.
const forecastCacheTable = "logscore_forecast_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the forecast cache and the run store.
// A none or empty backend leaves the matching store disabled.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var forecastStore contract.CacheStore
		if enabled(cacheBackend) {
			forecastStore, err = NewCacheStore(forecastCacheTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize forecast caching: %w", err)
				return
			}
		}

		var runStore contract.RunStore
		if enabled(runsBackend) {
			runStore, err = NewRunStore(runsBackend, runsConnStr)
			if err != nil {
				if forecastStore != nil {
					_ = forecastStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize run store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.forecast = forecastStore
		Manager.runs = runStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.forecast != nil {
			_ = Manager.forecast.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

func enabled(backend schema.DatabaseBackend) bool {
	return backend != "" && backend != schema.NoneBackend
}

// ClearCache clears the forecast cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, forecastCacheTable)
}

// ClearRuns clears the run history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the run tables.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	// Scores first so a foreign key to runs never blocks the drop
	return clearBackend(backend, dbFilePath, connStr, scoresTable, runsTable, migrationsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driver, _ := driverName(backend)
		for _, table := range tables {
			if err := clearSQLTable(driver, connStr, quoteTableName(table, backend)); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend, "":
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
