package cmd

import (
	"github.com/huangsam/logscore/core"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/spf13/cobra"
)

// collectCmd packages submissions for the dashboard.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Copy submissions into the dashboard data layout.",
	Long: `Copy every submission into <data-dir>/<season>/<model-id>/<year*100+week>.csv.

Each model folder gets a meta.yml with the model name, a description cut to
150 characters and a link to its metadata.txt in the forecast repository.
An existing meta.yml is not overwritten.

Examples:
  logscore collect
  logscore collect --data-dir ./dashboard/data --repo-url https://github.com/me/fork`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCollect(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot collect dashboard data", err)
		}
	},
}
