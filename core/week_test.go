package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitWeek(t *testing.T) {
	tests := []struct {
		message string
		week    int
		ok      bool
	}{
		{"Upload submissions for week 42", 42, true},
		{"Trigger dashboard rebuild 7abc", 7, true},
		{"Rebuild +3", 3, true},
		{"Rollback -2", -2, true},
		{"Merge pull request", 0, false},
		{"", 0, false},
		{"week ٣", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			week, ok := CommitWeek(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.week, week)
		})
	}
}

func TestCurrentWeek(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "submissions/aaa/EW41-2016-aaa.csv", forecastHeader)
	writeFile(t, root, "submissions/aaa/EW42-2016-aaa.csv", forecastHeader)
	writeFile(t, root, "submissions/aaa/EW01-2016-aaa.csv", forecastHeader)
	writeFile(t, root, "submissions/aaa/notes.csv", "x")
	writeFile(t, root, "submissions/zzz/EW50-2016-zzz.csv", forecastHeader)

	week, err := CurrentWeek(root, "submissions")
	require.NoError(t, err)
	assert.Equal(t, 43, week, "Only the first submissions directory is read")
}

func TestCurrentWeekWrapsYear(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "submissions/aaa/EW52-2015-aaa.csv", forecastHeader)
	week, err := CurrentWeek(root, "submissions")
	require.NoError(t, err)
	assert.Equal(t, 1, week)

	root = t.TempDir()
	writeFile(t, root, "submissions/aaa/EW52-2014-aaa.csv", forecastHeader)
	week, err = CurrentWeek(root, "submissions")
	require.NoError(t, err)
	assert.Equal(t, 53, week)
}

func TestCurrentWeekErrors(t *testing.T) {
	root := t.TempDir()
	_, err := CurrentWeek(root, "submissions")
	assert.Error(t, err, "Missing submissions directory")

	writeFile(t, root, "submissions/README.md", "x")
	_, err = CurrentWeek(root, "submissions")
	assert.ErrorContains(t, err, "no submission directories")

	writeFile(t, root, "submissions/aaa/notes.csv", "x")
	_, err = CurrentWeek(root, "submissions")
	assert.ErrorContains(t, err, "no submissions with a readable filename")
}

func TestResolveWeek(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "submissions/aaa/EW10-2017-aaa.csv", forecastHeader)

	week, source, err := ResolveWeek("Manual rebuild 5", root, "submissions")
	require.NoError(t, err)
	assert.Equal(t, 5, week)
	assert.Equal(t, "commit", source)

	week, source, err = ResolveWeek("Add forecasts", root, "submissions")
	require.NoError(t, err)
	assert.Equal(t, 11, week)
	assert.Equal(t, "submissions", source)
}
