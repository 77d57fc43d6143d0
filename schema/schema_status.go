package schema

import "time"

// CacheStatus represents the status of the forecast cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RunStatus represents the status of the run history store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalScores   int              `json:"total_scores"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the logscore_runs table.
type RunRecord struct {
	RunID         string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalScores   int32
	TotalFailures int32
	ConfigParams  *string
}

// ScoreRowRecord represents a row from the logscore_scores table.
// Score is nil when the stored score was degenerate.
type ScoreRowRecord struct {
	RunID     string
	Model     string
	Year      int32
	Epiweek   int32
	Season    string
	ModelWeek string
	Location  string
	Target    string
	Score     *float64
}
