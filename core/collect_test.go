package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/logscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDashboardMeta(t *testing.T) {
	meta := schema.ModelMeta{
		TeamName:  "Delphi",
		ModelName: "Basis Regression",
		ModelAbbr: "BR",
		Methods:   strings.Repeat("m", 200),
	}
	root := filepath.Join("work", "cdc-flusight-ensemble", "model-forecasts")
	dir := filepath.Join(root, "component-models", "Delphi_BR")

	got := DashboardMeta(meta, dir, root, "https://github.com/FluSightNetwork/cdc-flusight-ensemble")
	assert.Equal(t, "Delphi - Basis Regression", got.Name)
	assert.Equal(t, strings.Repeat("m", 150)+"...", got.Description)
	assert.Equal(t, "https://github.com/FluSightNetwork/cdc-flusight-ensemble/blob/master/model-forecasts/component-models/Delphi_BR/metadata.txt", got.URL)
}

func TestCollectDashboardData(t *testing.T) {
	root, cfg := newRepo(t)
	writeFile(t, root, "component-models/Team_A/EW42-2015-Team_A.csv", lines(forecastHeader))
	writeFile(t, root, "component-models/Team_A/latest.csv", lines(forecastHeader))
	writeFile(t, root, "component-models/NoMeta/EW01-2016-x.csv", lines(forecastHeader))
	cfg.CollectModelTypes = []string{"component-models"}
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.RepoURL = "https://example.org/repo"

	output, err := CollectDashboardData(cfg)
	require.NoError(t, err)
	assert.Equal(t, schema.CollectOutput{Models: 1, Files: 2, Skipped: 2}, output)

	copied, err := os.ReadFile(filepath.Join(cfg.DataDir, "2014-2015", "Team-A", "201503.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(copied), "US National,1 wk ahead")
	_, err = os.Stat(filepath.Join(cfg.DataDir, "2015-2016", "Team-A", "201542.csv"))
	assert.NoError(t, err)

	metaPath := filepath.Join(cfg.DataDir, "2014-2015", "Team-A", schema.DashboardMetaFile)
	data, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	var meta schema.DashboardMeta
	require.NoError(t, yaml.Unmarshal(data, &meta))
	assert.Equal(t, "Team - Team model", meta.Name)
	assert.True(t, strings.HasSuffix(meta.URL, "/component-models/Team_A/metadata.txt"))

	// An existing meta.yml is kept
	require.NoError(t, os.WriteFile(metaPath, []byte("name: custom\n"), 0o644))
	_, err = CollectDashboardData(cfg)
	require.NoError(t, err)
	data, err = os.ReadFile(metaPath)
	require.NoError(t, err)
	assert.Equal(t, "name: custom\n", string(data))
}

func TestExecuteCollect(t *testing.T) {
	_, cfg := newRepo(t)
	cfg.CollectModelTypes = []string{"missing-models"}
	cfg.DataDir = t.TempDir()
	assert.Error(t, ExecuteCollect(quietContext(), cfg, nil))

	cfg.CollectModelTypes = []string{"component-models"}
	assert.NoError(t, ExecuteCollect(quietContext(), cfg, nil))
}
