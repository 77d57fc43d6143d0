package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/logscore/internal/parquet"
)

// Parquet file suffixes appended to the export prefix.
const (
	runsExportSuffix   = ".runs.parquet"
	scoresExportSuffix = ".scores.parquet"
)

// ExecuteRunsExport writes the stored run history to two Parquet files named
// after outputFile.
func ExecuteRunsExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run tracking is disabled; set --runs-backend to export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total score records: %d\n", status.TableSizes[scoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve scores: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetScores := parquet.ConvertScoreRowRecords(scores)

	runsFile := outputFile + runsExportSuffix
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	scoresFile := outputFile + scoresExportSuffix
	if err := parquet.WriteScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	fmt.Printf("Exported %d score records to: %s\n", len(parquetScores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
