package iocache

import (
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/logscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}  // Reset for test
	closeOnce = sync.Once{} // Reset for test
	Manager = &StoreManagerImpl{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetManager(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		runsPath := filepath.Join(dir, "runs.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, runsPath)
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetForecastCache())
		assert.NotNil(t, Manager.GetRunStore())

		CloseStores()
		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "Cache database file should be created")
		_, err = os.Stat(runsPath)
		assert.NoError(t, err, "Runs database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetManager(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		assert.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.NoneBackend, ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.NoneBackend, ""))

		CloseStores()
		CloseStores()
	})

	t.Run("none backends leave stores disabled", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", "", ""))
		assert.Nil(t, Manager.GetForecastCache())
		assert.Nil(t, Manager.GetRunStore())

		cacheStatus, err := CacheStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", cacheStatus.Backend)
		assert.False(t, cacheStatus.Connected)

		runStatus, err := RunStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", runStatus.Backend)
		CloseStores()
	})

	t.Run("bad runs backend fails", func(t *testing.T) {
		resetManager(t)
		err := InitStores(schema.NoneBackend, "", schema.DatabaseBackend("oracle"), "x")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize run store")
	})
}

func TestCacheStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(forecastCacheTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now().Unix()
	require.NoError(t, store.Set("a.csv", []byte("one"), 1, now))
	require.NoError(t, store.Set("a.csv", []byte("two"), 2, now+5))

	data, version, ts, err := store.Get("a.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
	assert.Equal(t, 2, version)
	assert.Equal(t, now+5, ts)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalEntries)
	assert.Equal(t, now+5, status.LastEntryTime.Unix())
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestCacheStoreNone(t *testing.T) {
	store, err := NewCacheStore(forecastCacheTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("a.csv", []byte("x"), 1, 0))
	_, _, _, err = store.Get("a.csv")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestCacheStoreRejectsBadTableName(t *testing.T) {
	_, err := NewCacheStore("bad;name", schema.SQLiteBackend, filepath.Join(t.TempDir(), "c.db"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func sampleScores() []schema.ScoreRecord {
	return []schema.ScoreRecord{
		{Model: "Team-A", Year: 2015, Epiweek: 3, Season: "2014-2015", ModelWeek: "16", Location: "US National", Target: "1 wk ahead", Score: math.Log(0.1)},
		{Model: "Team-A", Year: 2015, Epiweek: 3, Season: "2014-2015", ModelWeek: "16", Location: "US National", Target: "2 wk ahead", Score: math.Inf(-1)},
	}
}

func TestRunStoreLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginRun(start, map[string]any{"workers": 2})
	require.NoError(t, err)
	assert.Len(t, runID, 36)

	require.NoError(t, store.RecordScores(runID, sampleScores()))
	require.NoError(t, store.EndRun(runID, start.Add(2*time.Second), 2, 1))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 2, status.TotalScores)
	assert.Equal(t, int64(2), status.TableSizes[scoresTable])

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(2000), *runs[0].RunDurationMs)
	assert.Equal(t, int32(1), runs[0].TotalFailures)
	require.NotNil(t, runs[0].ConfigParams)
	assert.JSONEq(t, `{"workers":2}`, *runs[0].ConfigParams)

	scores, err := store.GetAllScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	require.NotNil(t, scores[0].Score)
	assert.InDelta(t, -2.302585, *scores[0].Score, 1e-6)
	assert.Nil(t, scores[1].Score, "Degenerate score should be stored as NULL")
	assert.Equal(t, "2014-2015", scores[1].Season)
}

func TestRunStoreOrdersRunsByStartTime(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later, err := store.BeginRun(base.Add(time.Hour), nil)
	require.NoError(t, err)
	earlier, err := store.BeginRun(base.Add(500*time.Millisecond), nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, earlier, runs[0].RunID)
	assert.Equal(t, later, runs[1].RunID)
	assert.Nil(t, runs[0].EndTime)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, later, status.LastRunID)
	assert.True(t, status.OldestRunTime.Equal(base.Add(500*time.Millisecond)))
}

func TestRunStoreNone(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Empty(t, runID)
	assert.NoError(t, store.RecordScores(runID, sampleScores()))
	assert.NoError(t, store.EndRun(runID, time.Now(), 0, 0))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, store.Close())
}

func TestClearBackends(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearRuns(schema.DatabaseBackend("oracle"), "", ""))
}

func TestExecuteRunsExport(t *testing.T) {
	resetManager(t)
	dir := t.TempDir()
	require.NoError(t, InitStores(schema.NoneBackend, "", schema.SQLiteBackend, filepath.Join(dir, "runs.db")))
	defer CloseStores()

	assert.Error(t, ExecuteRunsExport(""))
	err := ExecuteRunsExport(filepath.Join(dir, "empty"))
	assert.ErrorContains(t, err, "no run data")

	store := Manager.GetRunStore()
	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordScores(runID, sampleScores()))
	require.NoError(t, store.EndRun(runID, time.Now(), 2, 0))

	prefix := filepath.Join(dir, "history")
	require.NoError(t, ExecuteRunsExport(prefix))
	for _, suffix := range []string{runsExportSuffix, scoresExportSuffix} {
		info, err := os.Stat(prefix + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExecuteRunsExportDisabled(t *testing.T) {
	resetManager(t)
	require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
	err := ExecuteRunsExport(filepath.Join(t.TempDir(), "out"))
	assert.ErrorContains(t, err, "run tracking is disabled")
}
