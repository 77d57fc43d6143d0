package cmd

import (
	"github.com/huangsam/logscore/core"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/spf13/cobra"
)

// idsCmd writes the model-id maps.
var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "Write a model-id-map.csv for each parent directory.",
	Long: `Pair each model ID with the directory that holds it.

The ID is "<team_name>-<model_abbr>" from the model's metadata.txt. Models
without both fields are skipped with a warning.

Examples:
  logscore ids
  logscore ids --id-model-types component-models`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIDs(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot write model ID maps", err)
		}
	},
}
