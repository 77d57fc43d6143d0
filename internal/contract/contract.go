// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/logscore/schema"
)

// StoreManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetForecastCache() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking scoring runs and their score rows.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (string, error)

	// EndRun updates the run with completion data
	EndRun(runID string, endTime time.Time, totalScores, totalFailures int) error

	// RecordScores stores the score rows produced by a run
	RecordScores(runID string, records []schema.ScoreRecord) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every stored run ordered by start time
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllScores returns every stored score row
	GetAllScores() ([]schema.ScoreRowRecord, error)

	// Close closes the underlying connection
	Close() error
}
