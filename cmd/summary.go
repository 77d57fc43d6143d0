package cmd

import (
	"github.com/huangsam/logscore/core"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd ranks models from an existing scores table.
var summaryCmd = &cobra.Command{
	Use:   "summary [scores-file]",
	Short: "Show a per-model leaderboard from a scores table.",
	Long: `Read a scores table and rank models by mean log score.

NaN scores count towards each model's total but not its mean. Models are
labeled by the geometric mean probability they gave to the truth.

Examples:
  # Rank models from the default scores file
  logscore summary

  # Rank models from another table and keep the top 10 as JSON
  logscore summary old-scores.csv --limit 10 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot summarize scores", err)
		}
	},
}
