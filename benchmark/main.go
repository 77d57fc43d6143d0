// Package main provides a performance benchmarking tool for the logscore CLI.
// It generates synthetic forecast repositories of different sizes, scores each
// one several times without a cache and with a SQLite cache, treating the first
// cached run as cold and averaging the rest as warm, and writes a CSV summary.
//
// Prerequisites:
// - logscore binary installed and available in PATH
//
// Usage: go run ./benchmark [models] [weeks]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/logscore/schema"
)

// binsPerTarget is the number of probability bins in every synthetic forecast.
const binsPerTarget = 100

var (
	truthHeader    = []string{"Year", "Calendar Week", "Season", "Model Week", "Location", "Target", "Valid Bin_start_incl"}
	forecastHeader = []string{"Location", "Target", "Type", "Unit", "Bin_start_incl", "Bin_end_notincl", "Value"}
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Size        string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Sizes       [][2]int // models, weeks
}

func main() {
	config := BenchmarkConfig{
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes:       [][2]int{{5, 10}, {20, 30}, {40, 52}},
	}
	if len(os.Args) == 3 {
		models, err1 := strconv.Atoi(os.Args[1])
		weeks, err2 := strconv.Atoi(os.Args[2])
		if err := errors.Join(err1, err2); err != nil || models < 1 || weeks < 1 || weeks > 52 {
			fmt.Printf("Usage: %s [models] [weeks<=52]\n", os.Args[0])
			os.Exit(1)
		}
		config.Sizes = [][2]int{{models, weeks}}
	} else if len(os.Args) != 1 {
		fmt.Printf("Usage: %s [models] [weeks]\n", os.Args[0])
		os.Exit(1)
	}

	if _, err := exec.LookPath("logscore"); err != nil {
		fmt.Printf("Prerequisites check failed: logscore binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks generates and scores one repository per configured size.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.Sizes {
		label := fmt.Sprintf("%dx%d", size[0], size[1])
		dir, err := os.MkdirTemp("", "logscore-benchmark-*")
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", label, err)
			continue
		}
		fmt.Printf("Generating %d models x %d weeks in %s\n", size[0], size[1], dir)
		if err := generateRepo(dir, size[0], size[1]); err != nil {
			fmt.Printf("Skipping %s: %v\n", label, err)
			_ = os.RemoveAll(dir)
			continue
		}
		results = append(results, runBenchmarkSuite(config, label, dir))
		_ = os.RemoveAll(dir)
	}

	return results
}

// generateRepo writes a forecast repository with uniform forecasts and a
// truth table covering every (week, region, target).
func generateRepo(dir string, models, weeks int) error {
	truth, err := os.Create(filepath.Join(dir, "truth.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = truth.Close() }()
	truthWriter := csv.NewWriter(truth)
	if err := truthWriter.Write(truthHeader); err != nil {
		return err
	}
	for week := 1; week <= weeks; week++ {
		for i, region := range schema.Regions {
			for j, target := range schema.Targets {
				bin := strconv.FormatFloat(float64((week+i+j)%binsPerTarget)/10, 'f', 1, 64)
				row := []string{"2016", strconv.Itoa(week), "2015/2016", strconv.Itoa(week + 20), region, target, bin}
				if err := truthWriter.Write(row); err != nil {
					return err
				}
			}
		}
	}
	truthWriter.Flush()
	if err := truthWriter.Error(); err != nil {
		return err
	}

	for m := range models {
		name := fmt.Sprintf("Team%03d_M", m)
		modelDir := filepath.Join(dir, "model-forecasts", "component-models", name)
		if err := os.MkdirAll(modelDir, 0o755); err != nil {
			return err
		}
		meta := fmt.Sprintf("team_name: Team%03d\nmodel_name: Synthetic\nmodel_abbr: M\nmethods: Uniform bins\n", m)
		if err := os.WriteFile(filepath.Join(modelDir, schema.MetadataFileName), []byte(meta), 0o644); err != nil {
			return err
		}
		for week := 1; week <= weeks; week++ {
			path := filepath.Join(modelDir, fmt.Sprintf("EW%02d-2016-%s.csv", week, name))
			if err := writeForecast(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeForecast writes one uniform forecast over binsPerTarget bins.
func writeForecast(path string) error {
	var b strings.Builder
	b.WriteString(strings.Join(forecastHeader, ",") + "\n")
	prob := strconv.FormatFloat(1.0/binsPerTarget, 'f', -1, 64)
	for _, region := range schema.Regions {
		for _, target := range schema.Targets {
			for bin := range binsPerTarget {
				start := float64(bin) / 10
				fmt.Fprintf(&b, "%s,%s,Bin,percent,%.1f,%.1f,%s\n", region, target, start, start+0.1, prob)
			}
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a repository
func runBenchmarkSuite(config BenchmarkConfig, label, dir string) BenchmarkResult {
	fmt.Printf("Scoring %s\n", label)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dir, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Size:        label,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark scores a repository multiple times with the given cache backend
// and returns the first successful time and the times after it.
func runBenchmark(config BenchmarkConfig, dir, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"score",
		"--model-types", "component-models",
		"--truth-file", "truth.csv",
		"--workers", strconv.Itoa(config.Workers),
		"--cache-backend", cacheBackend,
		"--emoji", "no",
	}
	if cacheBackend == string(schema.SQLiteBackend) {
		args = append(args, "--cache-db-connect", filepath.Join(dir, "cache.db"))
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "logscore", args...)
		cmd.Dir = dir
		output, err := cmd.CombinedOutput()
		if err == nil && isSuccess(output) {
			times = append(times, time.Since(start).Seconds())
		}
		cancel()
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Scored ")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("logscore_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"size", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Size, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Size, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}
