package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/stretchr/testify/require"
)

const (
	truthHeader    = "Year,Calendar Week,Season,Model Week,Location,Target,Valid Bin_start_incl"
	forecastHeader = "Location,Target,Type,Unit,Bin_start_incl,Bin_end_notincl,Value"
)

// writeFile writes content to root/rel, creating parent directories.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// lines joins rows with a trailing newline.
func lines(rows ...string) string {
	return strings.Join(rows, "\n") + "\n"
}

// metadata returns a metadata.txt descriptor.
func metadata(team, abbr string) string {
	return lines(
		"team_name: "+team,
		"model_name: "+team+" model",
		"model_abbr: "+abbr,
		"methods: Kernel conditional density estimation",
	)
}

// forecastRow returns one bin row of a forecast file.
func forecastRow(region, target, binStart, binEnd, value string) string {
	return strings.Join([]string{region, target, "Bin", "week", binStart, binEnd, value}, ",")
}

// newRepo lays out a forecast repository with one model under component-models
// and a truth file holding a single (region, target) for 2015 week 3.
func newRepo(t *testing.T) (root string, cfg *contract.Config) {
	t.Helper()
	dir := t.TempDir()
	root = filepath.Join(dir, "model-forecasts")

	writeFile(t, root, "component-models/Team_A/metadata.txt", metadata("Team", "A"))
	writeFile(t, root, "component-models/Team_A/EW03-2015-Team_A.csv", lines(
		forecastHeader,
		forecastRow("US National", "1 wk ahead", "2.5", "2.6", "0.1"),
		forecastRow("US National", "1 wk ahead", "2.6", "2.7", "0.9"),
	))
	truthFile := writeFile(t, dir, "scores/target-multivals.csv", lines(
		truthHeader,
		"2015,3,2014/2015,16,US National,1 wk ahead,2.5",
	))

	cfg = &contract.Config{
		RootDir:      root,
		ModelTypes:   []string{"component-models"},
		TruthFile:    truthFile,
		ScoresFile:   filepath.Join(dir, "scores", "scores.csv"),
		ErrorLog:     filepath.Join(dir, "csv-error.log"),
		BlacklistOut: filepath.Join(dir, "csv-blacklist.yaml"),
		Workers:      2,
		Precision:    3,
	}
	return root, cfg
}
