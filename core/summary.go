package core

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/huangsam/logscore/schema"
	"gonum.org/v1/gonum/stat"
)

// Scores table columns by position.
const (
	scoreModelCol = iota
	scoreYearCol
	scoreEpiweekCol
	scoreSeasonCol
	scoreModelWeekCol
	scoreLocationCol
	scoreTargetCol
	scoreValueCol
)

// ReadScores loads a scores table written by the score command.
func ReadScores(path string) ([]schema.ScoreRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scores file: %w", err)
	}
	defer func() { _ = file.Close() }()

	records, err := ParseScores(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores file %s: %w", path, err)
	}
	return records, nil
}

// ParseScores reads score records from delimited text with a header row.
// The NaN sentinel reads back as NaN.
func ParseScores(r io.Reader) ([]schema.ScoreRecord, error) {
	rows, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	records := make([]schema.ScoreRecord, 0, len(rows))
	for i, rec := range rows {
		if len(rec) < len(schema.ScoresHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(schema.ScoresHeader), len(rec))
		}
		year, err := parseInteger(rec[scoreYearCol], "year")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		epiweek, err := parseInteger(rec[scoreEpiweekCol], "epiweek")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, schema.ScoreRecord{
			Model:     field(rec, scoreModelCol),
			Year:      year,
			Epiweek:   epiweek,
			Season:    field(rec, scoreSeasonCol),
			ModelWeek: field(rec, scoreModelWeekCol),
			Location:  field(rec, scoreLocationCol),
			Target:    field(rec, scoreTargetCol),
			Score:     ParseScore(field(rec, scoreValueCol)),
		})
	}
	return records, nil
}

// SummarizeScores aggregates score records per model. Degenerate scores are
// counted but left out of the mean, which is over finite scores only.
// Summaries are ordered by mean score, best first, then by model name.
func SummarizeScores(records []schema.ScoreRecord) []schema.ModelSummary {
	finite := make(map[string][]float64)
	degenerate := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, ok := finite[r.Model]; !ok {
			if _, ok := degenerate[r.Model]; !ok {
				order = append(order, r.Model)
			}
		}
		if r.Degenerate() {
			degenerate[r.Model]++
			continue
		}
		finite[r.Model] = append(finite[r.Model], r.Score)
	}

	summaries := make([]schema.ModelSummary, 0, len(order))
	for _, model := range order {
		scores := finite[model]
		summary := schema.ModelSummary{
			Model:       model,
			Scores:      len(scores) + degenerate[model],
			Degenerate:  degenerate[model],
			MeanScore:   math.NaN(),
			StdDev:      math.NaN(),
			GeoMeanProb: math.NaN(),
		}
		if len(scores) > 0 {
			summary.MeanScore, summary.StdDev = stat.MeanStdDev(scores, nil)
			if len(scores) == 1 {
				summary.StdDev = 0
			}
			summary.GeoMeanProb = math.Exp(summary.MeanScore)
		}
		summaries = append(summaries, summary)
	}

	slices.SortStableFunc(summaries, func(a, b schema.ModelSummary) int {
		an, bn := math.IsNaN(a.MeanScore), math.IsNaN(b.MeanScore)
		switch {
		case an && !bn:
			return 1
		case !an && bn:
			return -1
		case !an && !bn && a.MeanScore != b.MeanScore:
			return cmp.Compare(b.MeanScore, a.MeanScore)
		}
		return cmp.Compare(a.Model, b.Model)
	})
	return summaries
}

// FilterScores returns the records that match a model and, when set, a
// location and target.
func FilterScores(records []schema.ScoreRecord, model, location, target string) []schema.ScoreRecord {
	var out []schema.ScoreRecord
	for _, r := range records {
		if model != "" && r.Model != model {
			continue
		}
		if location != "" && r.Location != location {
			continue
		}
		if target != "" && r.Target != target {
			continue
		}
		out = append(out, r)
	}
	return out
}
