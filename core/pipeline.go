package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
	"golang.org/x/sync/errgroup"
)

// fileJob is one forecast file queued for scoring.
type fileJob struct {
	model schema.ModelDir
	path  string
}

// parsedFile is the outcome of parsing one forecast file.
type parsedFile struct {
	time     schema.CSVTime
	forecast *Forecast
	err      error
}

// failures collects per-item errors and the inputs they blacklist.
type failures struct {
	list      []schema.ScoreFailure
	blacklist *Blacklist
}

func (f *failures) add(failure schema.ScoreFailure, path string) {
	f.list = append(f.list, failure)
	f.blacklist.Add(path)
}

// GetScoreResults runs the scoring pipeline and returns every score and failure.
// Failing to read the truth file, the blacklist input or the model directory
// structure is fatal. Anything narrower is recorded as a failure.
func GetScoreResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.ScoreRunOutput, error) {
	logScoreHeader(ctx, cfg)

	var cache contract.CacheStore
	var runs contract.RunStore
	if mgr != nil {
		cache = mgr.GetForecastCache()
		runs = mgr.GetRunStore()
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var runID string
	if runs != nil {
		configParams := map[string]any{
			"root_dir":    cfg.RootDir,
			"model_types": cfg.ModelTypes,
			"truth_file":  cfg.TruthFile,
			"workers":     cfg.Workers,
		}
		id, err := runs.BeginRun(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else {
			runID = id
		}
	}

	// --- 1. Inputs ---
	truth, err := LoadTruth(cfg.TruthFile)
	if err != nil {
		return nil, err
	}
	skip, err := ReadBlacklist(cfg.BlacklistIn)
	if err != nil {
		return nil, err
	}
	dirs, err := ListModelDirs(cfg.RootDir, cfg.ModelTypes)
	if err != nil {
		return nil, err
	}

	fails := &failures{blacklist: NewBlacklist()}
	models, jobs := collectJobs(dirs, skip, fails)

	// --- 2. Parse forecasts in parallel ---
	parsed, err := parseForecasts(ctx, cfg.Workers, jobs, cache)
	if err != nil {
		return nil, err
	}

	// --- 3. Score ---
	records := scoreJobs(jobs, parsed, truth, fails)

	// --- 4. End Run Tracking ---
	if runs != nil && runID != "" {
		if err := runs.RecordScores(runID, records); err != nil {
			contract.LogWarn("Failed to record scores", err)
		}
		if err := runs.EndRun(runID, time.Now(), len(records), len(fails.list)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return &schema.ScoreRunOutput{
		Records:   records,
		Failures:  fails.list,
		Blacklist: fails.blacklist.Paths(),
		Models:    models,
		Files:     len(jobs),
		RunID:     runID,
	}, nil
}

// collectJobs resolves model IDs and lists each model's forecast files.
// Models with unusable metadata are skipped and their descriptor blacklisted.
func collectJobs(dirs []string, skip *Blacklist, fails *failures) (int, []fileJob) {
	var jobs []fileJob
	models := 0
	for _, dir := range dirs {
		metaPath := MetadataPath(dir)
		if skip.Contains(metaPath) {
			continue
		}
		model, err := LoadModelDir(dir)
		if err != nil {
			fails.add(schema.ScoreFailure{Model: filepath.Base(dir), File: metaPath, Err: err}, metaPath)
			continue
		}
		files, err := ListModelCSVs(dir, skip)
		if err != nil {
			fails.add(schema.ScoreFailure{Model: model.ID, File: dir, Err: err}, dir)
			continue
		}
		models++
		for _, path := range files {
			jobs = append(jobs, fileJob{model: model, path: path})
		}
	}
	return models, jobs
}

// parseForecasts parses every job's file with at most workers goroutines.
// Results are stored by job index so ordering matches a serial run.
func parseForecasts(ctx context.Context, workers int, jobs []fileJob, cache contract.CacheStore) ([]parsedFile, error) {
	results := make([]parsedFile, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Each goroutine writes to a unique index, which is safe
			results[i] = parseJob(job, cache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}
	return results, nil
}

// parseJob reads the filename timing and the forecast rows of one file.
func parseJob(job fileJob, cache contract.CacheStore) parsedFile {
	csvTime, err := ParseCSVTime(job.path)
	if err != nil {
		return parsedFile{err: err}
	}
	forecast, err := LoadForecastCached(job.path, cache)
	if err != nil {
		return parsedFile{time: csvTime, err: err}
	}
	return parsedFile{time: csvTime, forecast: forecast}
}

// scoreJobs scores every parsed file against the truth for its week.
func scoreJobs(jobs []fileJob, parsed []parsedFile, truth *TruthTable, fails *failures) []schema.ScoreRecord {
	var records []schema.ScoreRecord
	for i, job := range jobs {
		p := parsed[i]
		failure := schema.ScoreFailure{
			Model:   job.model.ID,
			File:    job.path,
			Year:    p.time.Year,
			Epiweek: p.time.Epiweek,
		}
		if p.err != nil {
			failure.Err = p.err
			fails.add(failure, job.path)
			continue
		}

		pairs := truth.Pairs(p.time.Year, p.time.Epiweek)
		if len(pairs) == 0 {
			failure.Err = fmt.Errorf("%w: %d-%d", ErrNoTruth, p.time.Year, p.time.Epiweek)
			fails.add(failure, job.path)
			continue
		}

		for _, pair := range pairs {
			key := schema.TruthKey{Year: p.time.Year, Epiweek: p.time.Epiweek, Region: pair.Region, Target: pair.Target}
			score, err := scorePair(p.forecast, truth, key)
			if err != nil {
				pairFailure := failure
				pairFailure.Region = pair.Region
				pairFailure.Target = pair.Target
				pairFailure.Err = err
				fails.add(pairFailure, job.path)
				continue
			}
			records = append(records, schema.ScoreRecord{
				Model:     job.model.ID,
				Year:      p.time.Year,
				Epiweek:   p.time.Epiweek,
				Season:    p.time.Season,
				ModelWeek: truth.Rows(key)[0].ModelWeek,
				Location:  pair.Region,
				Target:    pair.Target,
				Score:     score,
			})
		}
	}
	return records
}
