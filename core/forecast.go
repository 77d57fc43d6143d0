package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
)

// Forecast file columns by position.
const (
	forecastRegionCol = iota
	forecastTargetCol
	forecastTypeCol
	forecastUnitCol
	forecastBinStartCol
	forecastBinEndCol
	forecastValueCol
)

// forecastColumns is the number of columns every forecast row must carry.
const forecastColumns = forecastValueCol + 1

// forecastCacheVersion invalidates cached records when the cached layout changes.
const forecastCacheVersion = 1

// Forecast is one parsed submission keyed by (region, target).
type Forecast struct {
	Path string
	rows map[schema.ForecastKey][]schema.ForecastRow
}

// Rows returns the forecast rows for a (region, target) in file order.
func (f *Forecast) Rows(key schema.ForecastKey) []schema.ForecastRow {
	return f.rows[key]
}

// Len returns the number of distinct (region, target) pairs.
func (f *Forecast) Len() int {
	return len(f.rows)
}

// LoadForecast reads and parses a forecast CSV.
func LoadForecast(path string) (*Forecast, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast: %w", err)
	}
	records, err := readRecords(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return buildForecast(path, records)
}

// LoadForecastCached reads a forecast through the cache store. The cache holds the
// raw records keyed by path, size and modification time, so edits to a file miss.
// A nil store or any cache failure falls back to reading the file.
func LoadForecastCached(path string, store contract.CacheStore) (*Forecast, error) {
	if store == nil {
		return LoadForecast(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat forecast: %w", err)
	}
	key := forecastCacheKey(path, info)

	if value, version, _, err := store.Get(key); err == nil && version == forecastCacheVersion {
		var records [][]string
		if err := json.Unmarshal(value, &records); err == nil {
			return buildForecast(path, records)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast: %w", err)
	}
	records, err := readRecords(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	forecast, err := buildForecast(path, records)
	if err != nil {
		return nil, err
	}

	// Only well-formed files are cached
	if value, err := json.Marshal(records); err == nil {
		if err := store.Set(key, value, forecastCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache forecast", err)
		}
	}
	return forecast, nil
}

// forecastCacheKey derives the cache key for a forecast file.
func forecastCacheKey(path string, info os.FileInfo) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return fmt.Sprintf("forecast:%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano())
}

// buildForecast keys parsed records by (region, target).
func buildForecast(path string, records [][]string) (*Forecast, error) {
	forecast := &Forecast{
		Path: path,
		rows: make(map[schema.ForecastKey][]schema.ForecastRow),
	}
	for i, rec := range records {
		if len(rec) < forecastColumns {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrMalformedRow, i+2, len(rec), forecastColumns)
		}
		row := schema.ForecastRow{
			Region:   field(rec, forecastRegionCol),
			Target:   field(rec, forecastTargetCol),
			Type:     field(rec, forecastTypeCol),
			Unit:     field(rec, forecastUnitCol),
			BinStart: parseDecimal(rec[forecastBinStartCol]),
			BinEnd:   parseDecimal(rec[forecastBinEndCol]),
			Value:    parseDecimal(rec[forecastValueCol]),
		}
		key := schema.ForecastKey{Region: row.Region, Target: row.Target}
		forecast.rows[key] = append(forecast.rows[key], row)
	}
	return forecast, nil
}
