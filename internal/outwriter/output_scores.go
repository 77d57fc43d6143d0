package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/internal/parquet"
	"github.com/huangsam/logscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteScoreResults writes the scores table to cfg.ScoresFile, dispatching
// on the output format. CSV is the default.
func WriteScoreResults(records []schema.ScoreRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.OutputOrDefault(schema.CSVOut) {
	case schema.JSONOut:
		if err := writeWithFile(cfg.ScoresFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.ScoresFile, func(w io.Writer) error {
			return parquet.WriteScores(w, parquet.ConvertScoreRecords(records, ""))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.TextOut:
		return writeWithFile(cfg.ScoresFile, func(w io.Writer) error {
			return writeScoresTable(w, records, cfg, duration)
		}, "Wrote table")
	default:
		if err := writeWithFile(cfg.ScoresFile, func(w io.Writer) error {
			return writeScoresCSV(w, records)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	}
	return nil
}

// writeScoresCSV writes the scores table with its fixed header.
func writeScoresCSV(w io.Writer, records []schema.ScoreRecord) error {
	return writeCSVWithHeader(w, schema.ScoresHeader, func(csvWriter *csv.Writer) error {
		for _, r := range records {
			if err := csvWriter.Write(scoreRow(r)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// scoreRow returns the table cells of a record in header order.
func scoreRow(r schema.ScoreRecord) []string {
	return []string{
		r.Model,
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Epiweek),
		r.Season,
		r.ModelWeek,
		r.Location,
		r.Target,
		schema.FormatScore(r.Score),
	}
}

// writeScoresTable generates and writes the human-readable table.
func writeScoresTable(w io.Writer, records []schema.ScoreRecord, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header(schema.ScoresHeader)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// Year, weeks, location, target and score take roughly this much
	modelWidth := getMaxModelWidth(cfg, 85)

	fmtFloat, _ := createFormatters(cfg.Precision)
	data := make([][]string, 0, len(records))
	degenerate := 0
	for _, r := range records {
		row := scoreRow(r)
		row[0] = contract.TruncateText(r.Model, modelWidth)
		if r.Degenerate() {
			degenerate++
		} else {
			row[7] = fmtFloat(r.Score)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d scores (%d %s)\n", len(records), degenerate, schema.NaNSentinel); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scoring completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
