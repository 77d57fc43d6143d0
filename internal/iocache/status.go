package iocache

import (
	"fmt"
	"slices"

	"github.com/huangsam/logscore/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintRunStatus prints run history status information.
func PrintRunStatus(status schema.RunStatus) {
	fmt.Printf("Runs Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %s\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
		fmt.Printf("Total Scores Recorded: %d\n", status.TotalScores)
	}
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// CacheStatus returns the status of the global forecast cache. A disabled
// cache reports the none backend.
func CacheStatus() (schema.CacheStatus, error) {
	store := Manager.GetForecastCache()
	if store == nil {
		return schema.CacheStatus{Backend: string(schema.NoneBackend)}, nil
	}
	return store.GetStatus()
}

// RunStatus returns the status of the global run store. A disabled store
// reports the none backend.
func RunStatus() (schema.RunStatus, error) {
	store := Manager.GetRunStore()
	if store == nil {
		return schema.RunStatus{Backend: string(schema.NoneBackend), TableSizes: map[string]int64{}}, nil
	}
	return store.GetStatus()
}
