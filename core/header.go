package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/logscore/internal/contract"
)

// Headers go to stderr so that tables written to stdout stay parseable.

// logf prints one header line, prefixed with an emoji when enabled.
func logf(ctx context.Context, cfg *contract.Config, emoji, format string, args ...any) {
	if shouldSuppressHeader(ctx) {
		return
	}
	if cfg.UseEmojis {
		format = emoji + " " + format
	}
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// logScoreHeader prints a concise, 2-line header for a scoring run.
func logScoreHeader(ctx context.Context, cfg *contract.Config) {
	rootName := filepath.Base(cfg.RootDir)
	if rootName == "" || rootName == "." {
		rootName = "current"
	}
	logf(ctx, cfg, "🔎", "Root: %s (Models: %s)", rootName, strings.Join(cfg.ModelTypes, ", "))
	logf(ctx, cfg, "📅", "Truth: %s", cfg.TruthFile)
}

// logScoreFooter prints the outcome of a scoring run.
func logScoreFooter(ctx context.Context, cfg *contract.Config, models, files, scores, failures int, duration time.Duration) {
	logf(ctx, cfg, "📊", "Scored %d rows from %d files of %d models in %v", scores, files, models, duration.Round(time.Millisecond))
	if failures > 0 {
		logf(ctx, cfg, "⚠️ ", "%d failures written to %s", failures, cfg.ErrorLog)
	}
}
