//go:build basic

package integration

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScoreVerification scores the fixture repository and checks every row
// against the log of the probability the forecast gave to the truth bin.
func TestScoreVerification(t *testing.T) {
	dir := forecastRepo(t)

	_, err := runLogscore(t, dir, "score", "--model-types", "component-models", "--workers", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "scores", "scores.csv"))
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, rows, 5, "Header plus four scored (model, week) pairs")
	assert.Equal(t, "Model,Year,Epiweek,Season,Model Week,Location,Target,Score", rows[0])

	want := map[string]float64{
		"TeamA-KDE/3": math.Log(0.1),
		"TeamA-KDE/4": math.Log(0.5),
		"TeamB-BL/3":  math.Log(0.4),
		"TeamB-BL/4":  math.NaN(),
	}
	for _, row := range rows[1:] {
		fields := strings.Split(row, ",")
		require.Len(t, fields, 8)
		key := fields[0] + "/" + fields[2]
		expected, ok := want[key]
		require.True(t, ok, "unexpected row %s", row)
		if math.IsNaN(expected) {
			assert.Equal(t, "NaN", fields[7])
			continue
		}
		got, err := strconv.ParseFloat(fields[7], 64)
		require.NoError(t, err)
		assert.InDelta(t, expected, got, 1e-12, key)
	}

	errorLog, err := os.ReadFile(filepath.Join(dir, "csv-error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errorLog), "Error in TeamB-BL 2015-5")

	blacklist, err := os.ReadFile(filepath.Join(dir, "csv-blacklist.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(blacklist), "EW05-2015-Team_B.csv")

	// Feeding the blacklist back skips the broken file
	_, err = runLogscore(t, dir, "score", "--model-types", "component-models", "--blacklist-in", "csv-blacklist.yaml")
	require.NoError(t, err)
	errorLog, err = os.ReadFile(filepath.Join(dir, "csv-error.log"))
	require.NoError(t, err)
	assert.Empty(t, string(errorLog))
}

// TestSummaryVerification ranks the fixture models from the scores table.
func TestSummaryVerification(t *testing.T) {
	dir := forecastRepo(t)
	_, err := runLogscore(t, dir, "score", "--model-types", "component-models")
	require.NoError(t, err)

	out, err := runLogscore(t, dir, "summary", "--output", "json")
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "TeamB-BL", entries[0]["model"], "ln(0.4) beats the mean of ln(0.1) and ln(0.5)")
	assert.EqualValues(t, 1, entries[0]["degenerate"])
	assert.Equal(t, "TeamA-KDE", entries[1]["model"])

	out, err = runLogscore(t, dir, "summary", "--output", "text", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "TeamA-KDE")
}

// TestIDsWeekAndCollect checks the repository tooling commands.
func TestIDsWeekAndCollect(t *testing.T) {
	dir := forecastRepo(t)

	_, err := runLogscore(t, dir, "ids", "--id-model-types", "component-models")
	require.NoError(t, err)
	ids, err := os.ReadFile(filepath.Join(dir, "model-forecasts", "component-models", "model-id-map.csv"))
	require.NoError(t, err)
	assert.Equal(t, "model-id,model-dir\nTeamA-KDE,Team_A\nTeamB-BL,Team_B\n", string(ids))

	out, err := runLogscore(t, dir, "week", "--submissions-dir", "component-models", "--commit-message", "")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	out, err = runLogscore(t, dir, "week", "--submissions-dir", "component-models", "--commit-message", "Rebuild 7")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	_, err = runLogscore(t, dir, "collect", "--collect-model-types", "component-models")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data", "2014-2015", "TeamB-BL", "201505.csv"))
	assert.NoError(t, err)
	meta, err := os.ReadFile(filepath.Join(dir, "data", "2014-2015", "TeamA-KDE", "meta.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), "TeamA - Kernel density")
}

// TestRunHistoryWithSQLite records a run in SQLite and exports it.
func TestRunHistoryWithSQLite(t *testing.T) {
	dir := forecastRepo(t)
	runsDB := filepath.Join(dir, "runs.db")
	cacheDB := filepath.Join(dir, "cache.db")
	backends := []string{
		"--runs-backend", "sqlite", "--runs-db-connect", runsDB,
		"--cache-backend", "sqlite", "--cache-db-connect", cacheDB,
	}

	_, err := runLogscore(t, dir, append([]string{"runs", "migrate"}, backends...)...)
	require.NoError(t, err)

	// Second run reads forecasts from the cache
	for range 2 {
		_, err = runLogscore(t, dir, append([]string{"score", "--model-types", "component-models"}, backends...)...)
		require.NoError(t, err)
	}

	out, err := runLogscore(t, dir, append([]string{"runs", "status"}, backends...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs:")

	out, err = runLogscore(t, dir, append([]string{"cache", "status"}, backends...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	export := filepath.Join(dir, "history")
	_, err = runLogscore(t, dir, append([]string{"runs", "export", "--output-file", export}, backends...)...)
	require.NoError(t, err)
	for _, suffix := range []string{".runs.parquet", ".scores.parquet"} {
		info, err := os.Stat(export + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	_, err = runLogscore(t, dir, append([]string{"runs", "clear"}, backends...)...)
	require.NoError(t, err)
	_, err = os.Stat(runsDB)
	assert.True(t, os.IsNotExist(err))
}

// TestVersionVerification checks the scoring details printed by version.
func TestVersionVerification(t *testing.T) {
	out, err := runLogscore(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "logscore ")
	assert.Contains(t, out, "Regions:       11")
	assert.Contains(t, out, "Targets:       7")
	assert.Contains(t, out, "Fallback bin:  1")
	assert.Contains(t, out, "Season starts: EW30")
}
