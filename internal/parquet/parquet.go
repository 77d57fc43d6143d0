// Package parquet provides data structures and functions for exporting logscore
// run history and score tables to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/logscore/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single scoring run with metadata.
// This struct maps to the logscore_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalScores is the number of score rows produced
	TotalScores int32 `parquet:"total_scores,snappy"`

	// TotalFailures is the number of per-item failures recorded
	TotalFailures int32 `parquet:"total_failures,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Score represents one row of a scores table.
// This struct maps to the logscore_scores database table.
type Score struct {
	// RunID references the parent run, empty for a direct export
	RunID string `parquet:"run_id,snappy"`

	Model     string `parquet:"model,snappy"`
	Year      int32  `parquet:"year,snappy"`
	Epiweek   int32  `parquet:"epiweek,snappy"`
	Season    string `parquet:"season,snappy"`
	ModelWeek string `parquet:"model_week,snappy"`
	Location  string `parquet:"location,snappy"`
	Target    string `parquet:"target,snappy"`

	// Score is the log score, null when it was not a finite number
	Score *float64 `parquet:"score,optional,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error {
		return writeRows(w, data)
	})
}

// WriteScoresParquet writes a slice of Score structs to a Parquet file.
func WriteScoresParquet(data []Score, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error {
		return writeRows(w, data)
	})
}

// WriteScores writes Score structs to any writer.
func WriteScores(w io.Writer, data []Score) error {
	return writeRows(w, data)
}

// ReadScoresParquet reads a Parquet file written by WriteScoresParquet.
func ReadScoresParquet(path string) ([]Score, error) {
	rows, err := parquet.ReadFile[Score](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// ReadRunsParquet reads a Parquet file written by WriteRunsParquet.
func ReadRunsParquet(path string) ([]Run, error) {
	rows, err := parquet.ReadFile[Run](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// writeFile creates outputPath and hands it to write.
func writeFile(outputPath string, write func(io.Writer) error) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeRows writes rows with a schema inferred from the struct tags.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalScores:   record.TotalScores,
			TotalFailures: record.TotalFailures,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertScoreRowRecords converts schema.ScoreRowRecord to Score for Parquet export.
func ConvertScoreRowRecords(records []schema.ScoreRowRecord) []Score {
	result := make([]Score, len(records))
	for i, record := range records {
		result[i] = Score{
			RunID:     record.RunID,
			Model:     record.Model,
			Year:      record.Year,
			Epiweek:   record.Epiweek,
			Season:    record.Season,
			ModelWeek: record.ModelWeek,
			Location:  record.Location,
			Target:    record.Target,
			Score:     record.Score,
		}
	}
	return result
}

// ConvertScoreRecords converts in-memory score records to Score rows.
// Degenerate scores become nulls.
func ConvertScoreRecords(records []schema.ScoreRecord, runID string) []Score {
	result := make([]Score, len(records))
	for i, record := range records {
		var score *float64
		if !record.Degenerate() {
			v := record.Score
			score = &v
		}
		result[i] = Score{
			RunID:     runID,
			Model:     record.Model,
			Year:      int32(record.Year),
			Epiweek:   int32(record.Epiweek),
			Season:    record.Season,
			ModelWeek: record.ModelWeek,
			Location:  record.Location,
			Target:    record.Target,
			Score:     score,
		}
	}
	return result
}
