package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
)

// Table names for run history.
const (
	runsTable   = "logscore_runs"
	scoresTable = "logscore_scores"
)

// scoreColumns lists the logscore_scores columns in insert order.
var scoreColumns = []string{"run_id", "model", "year", "epiweek", "season", "model_week", "location", "target", "score"}

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetRunsDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run history tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{scoresTable, getCreateScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for logscore_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_scores INT NOT NULL DEFAULT 0,
				total_failures INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_scores INT NOT NULL DEFAULT 0,
				total_failures INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_scores INTEGER NOT NULL DEFAULT 0,
				total_failures INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateScoresQuery returns the CREATE TABLE query for logscore_scores.
// A NULL score is a degenerate (zero probability) score.
func getCreateScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(scoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				model VARCHAR(255) NOT NULL,
				year INT NOT NULL,
				epiweek INT NOT NULL,
				season VARCHAR(16) NOT NULL,
				model_week VARCHAR(16) NOT NULL,
				location VARCHAR(64) NOT NULL,
				target VARCHAR(64) NOT NULL,
				score DOUBLE,
				PRIMARY KEY (run_id, model, year, epiweek, location, target)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				model TEXT NOT NULL,
				year INT NOT NULL,
				epiweek INT NOT NULL,
				season TEXT NOT NULL,
				model_week TEXT NOT NULL,
				location TEXT NOT NULL,
				target TEXT NOT NULL,
				score DOUBLE PRECISION,
				PRIMARY KEY (run_id, model, year, epiweek, location, target)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				model TEXT NOT NULL,
				year INTEGER NOT NULL,
				epiweek INTEGER NOT NULL,
				season TEXT NOT NULL,
				model_week TEXT NOT NULL,
				location TEXT NOT NULL,
				target TEXT NOT NULL,
				score REAL,
				PRIMARY KEY (run_id, model, year, epiweek, location, target)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its UUID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (string, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	p := placeholders(rs.backend, 3)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, start_time, config_params) VALUES (%s)`,
		quoteTableName(runsTable, rs.backend), strings.Join(p, ", "))
	if _, err := rs.db.Exec(query, runID, formatTime(startTime, rs.backend), string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID string, endTime time.Time, totalScores, totalFailures int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(rs.backend, 1)[0])
	row := rs.db.QueryRow(query, runID)

	var startTime time.Time
	switch rs.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
		}
		var err error
		if startTime, err = parseTime(startTimeStr); err != nil {
			return err
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	p := placeholders(rs.backend, 5)
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_scores = %s, total_failures = %s WHERE run_id = %s`,
		quotedTableName, p[0], p[1], p[2], p[3], p[4])
	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalScores, totalFailures, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordScores stores the score rows of a run in one transaction.
func (rs *RunStoreImpl) RecordScores(runID string, records []schema.ScoreRecord) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil || len(records) == 0 {
		return nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(scoresTable, rs.backend),
		strings.Join(scoreColumns, ", "),
		strings.Join(placeholders(rs.backend, len(scoreColumns)), ", "))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Model, r.Year, r.Epiweek, r.Season, r.ModelWeek, r.Location, r.Target, nullableScore(r)); err != nil {
			return fmt.Errorf("failed to insert score for %s %d-%d %s, %s: %w", r.Model, r.Year, r.Epiweek, r.Location, r.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scores: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", quotedRuns)
		lastID, lastTime, err := rs.scanIDAndTime(rs.db.QueryRow(lastRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = lastID
		status.LastRunTime = lastTime

		oldestRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time ASC LIMIT 1", quotedRuns)
		if _, status.OldestRunTime, err = rs.scanIDAndTime(rs.db.QueryRow(oldestRunQuery)); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		scoresQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_scores), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(scoresQuery).Scan(&status.TotalScores); err != nil {
			return status, fmt.Errorf("failed to get total scores: %w", err)
		}
	}

	for _, table := range []string{runsTable, scoresTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// scanIDAndTime reads a (run_id, start_time) row.
func (rs *RunStoreImpl) scanIDAndTime(row *sql.Row) (string, time.Time, error) {
	var id string
	if rs.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&id, &t)
		return id, t, err
	}
	var s string
	if err := row.Scan(&id, &s); err != nil {
		return "", time.Time{}, err
	}
	t, err := parseTime(s)
	return id, t, err
}

// GetAllRuns retrieves all runs ordered by start time.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_scores, total_failures, config_params FROM %s ORDER BY start_time, run_id",
		quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalScores, &record.TotalFailures, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, err
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, err
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalScores, &record.TotalFailures, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllScores retrieves all stored score rows.
func (rs *RunStoreImpl) GetAllScores() ([]schema.ScoreRowRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY run_id, model, year, epiweek, location, target",
		strings.Join(scoreColumns, ", "), quoteTableName(scoresTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScoreRowRecord
	for rows.Next() {
		var record schema.ScoreRowRecord
		var score sql.NullFloat64
		if err := rows.Scan(&record.RunID, &record.Model, &record.Year, &record.Epiweek, &record.Season,
			&record.ModelWeek, &record.Location, &record.Target, &score); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if score.Valid {
			v := score.Float64
			record.Score = &v
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return results, nil
}
