package core

import (
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/logscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readerOf(s string) io.Reader {
	return strings.NewReader(s)
}

func TestParseTruth(t *testing.T) {
	table, err := ParseTruth(readerOf(lines(
		truthHeader,
		"2015,3,2014/2015,16,US National,2 wk ahead,1.1",
		"2015,3,2014/2015,16,HHS Region 1,1 wk ahead,0.9",
		"2015,3,2014/2015,16,US National,1 wk ahead,2.5",
		"2015,3,2014/2015,16,US National,1 wk ahead,2.6",
		"",
		"2015,4,2014/2015,17,US National,1 wk ahead,2.7",
	)))
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	pairs := table.Pairs(2015, 3)
	assert.Equal(t, []schema.ForecastKey{
		{Region: "US National", Target: "1 wk ahead"},
		{Region: "US National", Target: "2 wk ahead"},
		{Region: "HHS Region 1", Target: "1 wk ahead"},
	}, pairs, "Pairs follow the canonical region then target order")

	key := schema.TruthKey{Year: 2015, Epiweek: 3, Region: "US National", Target: "1 wk ahead"}
	assert.Equal(t, []float64{2.5, 2.6}, table.BinStarts(key))
	rows := table.Rows(key)
	require.Len(t, rows, 2)
	assert.Equal(t, "16", rows[0].ModelWeek)
	assert.Equal(t, "2014/2015", rows[0].Season)

	assert.Empty(t, table.Pairs(2016, 1))
}

func TestParseTruthNonNumericBin(t *testing.T) {
	table, err := ParseTruth(readerOf(lines(
		truthHeader,
		"2015,3,2014/2015,16,US National,Season onset,none",
	)))
	require.NoError(t, err)
	starts := table.BinStarts(schema.TruthKey{Year: 2015, Epiweek: 3, Region: "US National", Target: "Season onset"})
	require.Len(t, starts, 1)
	assert.True(t, math.IsNaN(starts[0]), "A non-numeric bin start is NaN")
}

func TestParseTruthErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad year", lines(truthHeader, "20x5,3,2014/2015,16,US National,1 wk ahead,2.5")},
		{"bad week", lines(truthHeader, "2015,w3,2014/2015,16,US National,1 wk ahead,2.5")},
		{"short row", lines(truthHeader, "2015,3,2014/2015")},
		{"unterminated quote", lines(truthHeader, `2015,3,"2014/2015,16,US National,1 wk ahead,2.5`+"\n"+`x"y,1`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTruth(readerOf(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadTruthMissingFile(t *testing.T) {
	_, err := LoadTruth(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open truth file")
}
