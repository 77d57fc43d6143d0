// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScores writes the scores table using the configured output format.
func (ow *OutWriter) WriteScores(records []schema.ScoreRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreResults(records, cfg, duration)
}

// WriteSummary prints the leaderboard using the configured output format.
func (ow *OutWriter) WriteSummary(ranked []schema.RankedSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteSummaryResults(ranked, cfg, duration)
}

// WriteModelIDMap writes one model-id-map.csv.
func (ow *OutWriter) WriteModelIDMap(path string, pairs []schema.ModelIDPair) error {
	return WriteModelIDMap(path, pairs)
}
