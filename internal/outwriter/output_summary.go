package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// summaryHeader is the CSV header for a leaderboard.
var summaryHeader = []string{"rank", "model", "scores", "degenerate", "mean_score", "std_dev", "geo_mean_prob", "label"}

// WriteSummaryResults outputs the leaderboard, dispatching based on the output format configured.
// The table is the default.
func WriteSummaryResults(ranked []schema.RankedSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	if cfg.ResultLimit > 0 && len(ranked) > cfg.ResultLimit {
		ranked = ranked[:cfg.ResultLimit]
	}

	switch cfg.OutputOrDefault(schema.TextOut) {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.ToLeaderboard(ranked))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, ranked, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, ranked, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	default:
		return fmt.Errorf("output format %s is not supported for summaries", cfg.Output)
	}
	return nil
}

// writeSummaryCSV writes the leaderboard in CSV format.
func writeSummaryCSV(w io.Writer, ranked []schema.RankedSummary, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, summaryHeader, func(csvWriter *csv.Writer) error {
		for _, r := range ranked {
			row := []string{
				strconv.Itoa(r.Rank),
				r.Model,
				fmt.Sprintf(intFmt, r.Scores),
				fmt.Sprintf(intFmt, r.Degenerate),
				fmtFloat(r.MeanScore),
				fmtFloat(r.StdDev),
				fmtFloat(r.GeoMeanProb),
				string(r.Label),
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeSummaryTable generates and writes the human-readable leaderboard.
func writeSummaryTable(w io.Writer, ranked []schema.RankedSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Model", "Scores", "NaN", "Mean", "StdDev", "GeoMean", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	modelWidth := getMaxModelWidth(cfg, 60)
	var data [][]string
	total := 0
	for _, r := range ranked {
		label := string(r.Label)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.GeoMeanProb)
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncateText(r.Model, modelWidth),
			fmt.Sprintf(intFmt, r.Scores),
			fmt.Sprintf(intFmt, r.Degenerate),
			fmtFloat(r.MeanScore),
			fmtFloat(r.StdDev),
			fmtFloat(r.GeoMeanProb),
			label,
		})
		total += r.Scores
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d models (total scores: %d)\n", len(ranked), total); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Summary completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
