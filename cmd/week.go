package cmd

import (
	"github.com/huangsam/logscore/core"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/spf13/cobra"
)

// weekCmd prints the week the next submissions are for.
var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the MMWR week after the latest submission.",
	Long: `Print the week the next submissions are due for.

When the last word of the commit message starts with a number, that number is
printed. Otherwise the latest EW<week>-<year> file of the first submission
folder is found and the following MMWR week is printed, wrapping over years
with 52 or 53 weeks.

Examples:
  logscore week
  logscore week --from-git
  logscore week --commit-message "Rebuild for 43"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeek(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot detect week", err)
		}
	},
}
