package cmd

import (
	"github.com/huangsam/logscore/core"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd runs the full scoring pipeline.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every forecast submission against the truth table.",
	Long: `Compute the log score of every forecast file under the configured model types.

For each model directory the metadata descriptor gives the model ID. Every
EW<week>-<year>-*.csv file is matched against the truth table, and each
(region, target) is scored as the sum of the natural logs of the probabilities
the forecast gave to the observed bins.

Writes:
- The scores table (--scores-file), one row per model, week, region and target
- An error log (--error-log) with one block per failure
- A blacklist (--blacklist-out) of files that failed, to feed back with --blacklist-in

Examples:
  # Score the default model types
  logscore score

  # Score a single model type with 8 parsers
  logscore score --model-types component-models --workers 8

  # Skip files that failed last time and keep run history in SQLite
  logscore score --blacklist-in csv-blacklist.yaml --runs-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot score forecasts", err)
		}
	},
}
