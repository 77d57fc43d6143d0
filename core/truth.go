package core

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/logscore/schema"
)

// Truth file columns by position.
const (
	truthYearCol = iota
	truthEpiweekCol
	truthSeasonCol
	truthModelWeekCol
	truthRegionCol
	truthTargetCol
	truthBinStartCol
	truthBinEndCol
	truthUnitCol
	truthTypeCol
	truthValueCol
)

// truthMinColumns is the number of columns the scorer reads from each truth row.
const truthMinColumns = truthBinStartCol + 1

// TruthTable is the ground truth keyed by (year, epiweek, region, target).
type TruthTable struct {
	rows  map[schema.TruthKey][]schema.TruthRow
	pairs map[[2]int][]schema.ForecastKey // (year, epiweek) -> pairs in canonical order
}

// LoadTruth reads the ground-truth CSV at path. Any failure is fatal to a run.
func LoadTruth(path string) (*TruthTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open truth file: %w", err)
	}
	defer func() { _ = file.Close() }()

	table, err := ParseTruth(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load truth file %s: %w", path, err)
	}
	return table, nil
}

// ParseTruth builds a TruthTable from delimited text.
func ParseTruth(r io.Reader) (*TruthTable, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	table := &TruthTable{
		rows:  make(map[schema.TruthKey][]schema.TruthRow),
		pairs: make(map[[2]int][]schema.ForecastKey),
	}
	for i, rec := range records {
		row, err := parseTruthRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err) // +1 for header, +1 for 1-based
		}
		key := schema.TruthKey{Year: row.Year, Epiweek: row.Epiweek, Region: row.Region, Target: row.Target}
		if _, seen := table.rows[key]; !seen {
			week := [2]int{row.Year, row.Epiweek}
			table.pairs[week] = append(table.pairs[week], schema.ForecastKey{Region: row.Region, Target: row.Target})
		}
		table.rows[key] = append(table.rows[key], row)
	}

	for _, pairs := range table.pairs {
		schema.SortForecastKeys(pairs)
	}
	return table, nil
}

// parseTruthRecord converts one record into a TruthRow.
func parseTruthRecord(rec []string) (schema.TruthRow, error) {
	if len(rec) < truthMinColumns {
		return schema.TruthRow{}, fmt.Errorf("expected at least %d columns, got %d", truthMinColumns, len(rec))
	}
	year, err := parseInteger(rec[truthYearCol], "year")
	if err != nil {
		return schema.TruthRow{}, err
	}
	epiweek, err := parseInteger(rec[truthEpiweekCol], "epiweek")
	if err != nil {
		return schema.TruthRow{}, err
	}
	return schema.TruthRow{
		Year:      year,
		Epiweek:   epiweek,
		Season:    field(rec, truthSeasonCol),
		ModelWeek: field(rec, truthModelWeekCol),
		Region:    field(rec, truthRegionCol),
		Target:    field(rec, truthTargetCol),
		BinStart:  parseDecimal(field(rec, truthBinStartCol)),
		BinEnd:    parseDecimal(field(rec, truthBinEndCol)),
		Value:     parseDecimal(field(rec, truthValueCol)),
	}, nil
}

// Rows returns the truth rows for a key in file order.
func (t *TruthTable) Rows(key schema.TruthKey) []schema.TruthRow {
	return t.rows[key]
}

// BinStarts returns the truth bin starts for a key in file order.
func (t *TruthTable) BinStarts(key schema.TruthKey) []float64 {
	rows := t.rows[key]
	starts := make([]float64, len(rows))
	for i, row := range rows {
		starts[i] = row.BinStart
	}
	return starts
}

// Pairs returns the (region, target) pairs with truth for a week in canonical order.
func (t *TruthTable) Pairs(year, epiweek int) []schema.ForecastKey {
	return t.pairs[[2]int{year, epiweek}]
}

// Len returns the number of distinct truth keys.
func (t *TruthTable) Len() int {
	return len(t.rows)
}
