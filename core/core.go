// Package core has core logic for loading forecasts and truth, scoring,
// and summarizing scores.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/internal/outwriter"
	"github.com/huangsam/logscore/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteScore runs the scoring pipeline and writes the scores table, the
// error log and the blacklist. It serves as the main entry point for 'score'.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	output, err := GetScoreResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	for _, f := range output.Failures {
		contract.LogWarn(f.Heading(), f.Err)
	}
	if err := WriteErrorLog(cfg.ErrorLog, output.Failures); err != nil {
		return err
	}
	if err := WriteBlacklist(cfg.BlacklistOut, output.Blacklist); err != nil {
		return err
	}

	duration := time.Since(start)
	if err := outwriter.NewOutWriter().WriteScores(output.Records, cfg, duration); err != nil {
		return err
	}
	logScoreFooter(ctx, cfg, output.Models, output.Files, len(output.Records), len(output.Failures), duration)
	return nil
}

// ExecuteSummary reads a scores table and prints the per-model leaderboard.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	ranked, err := GetLeaderboard(cfg.ScoresFile)
	if err != nil {
		return err
	}
	logf(ctx, cfg, "📈", "Scores: %s (Models: %d)", cfg.ScoresFile, len(ranked))
	return outwriter.NewOutWriter().WriteSummary(ranked, cfg, time.Since(start))
}

// GetLeaderboard reads a scores table and ranks its models.
func GetLeaderboard(scoresFile string) ([]schema.RankedSummary, error) {
	records, err := ReadScores(scoresFile)
	if err != nil {
		return nil, err
	}
	return schema.EnrichSummaries(SummarizeScores(records)), nil
}

// ExecuteIDs writes a model-id-map.csv into every configured parent directory.
func ExecuteIDs(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	writer := outwriter.NewOutWriter()
	for _, parent := range cfg.IDModelTypes {
		pairs, err := BuildModelIDMap(cfg.RootDir, parent)
		if err != nil {
			return err
		}
		path := ModelIDMapPath(cfg.RootDir, parent)
		if err := writer.WriteModelIDMap(path, pairs); err != nil {
			return err
		}
		logf(ctx, cfg, "🪪", "%s: %d models", parent, len(pairs))
	}
	return nil
}

// ExecuteWeek prints the MMWR week the next submissions are due for.
func ExecuteWeek(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	week, source, err := ResolveWeek(cfg.CommitMessage, cfg.RootDir, cfg.SubmissionsDir)
	if err != nil {
		return err
	}
	logf(ctx, cfg, "📅", "Week source: %s", source)
	if _, err := fmt.Println(week); err != nil {
		return err
	}
	return nil
}

// ExecuteCollect packages submissions into the dashboard data layout.
func ExecuteCollect(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	logf(ctx, cfg, "📦", "Collecting %v into %s", cfg.CollectModelTypes, cfg.DataDir)
	output, err := CollectDashboardData(cfg)
	if err != nil {
		return err
	}
	logf(ctx, cfg, "💾", "Copied %d files of %d models in %v (%d skipped)",
		output.Files, output.Models, time.Since(start).Round(time.Millisecond), output.Skipped)
	return nil
}
