package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/logscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		prob  float64
		label schema.SkillLabel
	}{
		{"poor", 0.01, schema.PoorSkill},
		{"weak", 0.15, schema.WeakSkill},
		{"fair", 0.3, schema.FairSkill},
		{"strong", 0.8, schema.StrongSkill},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.prob)
			// Should contain the plain label
			assert.Contains(t, result, string(tt.label))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})

	t.Run("missing parent directories are created", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "scores", "nested", "scores.csv")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	cachePath := GetCacheDBFilePath()
	runsPath := GetRunsDBFilePath()

	assert.True(t, strings.HasSuffix(cachePath, ".logscore_cache.db"))
	assert.True(t, strings.HasSuffix(runsPath, ".logscore_runs.db"))
	assert.NotEqual(t, cachePath, runsPath)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		expected string
	}{
		{"fits", "model-forecasts/a", 40, "model-forecasts/a"},
		{"truncated", "component-models/KOT_KDE", 10, "...KOT_KDE"},
		{"tiny width is ignored", "abcdef", 3, "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
