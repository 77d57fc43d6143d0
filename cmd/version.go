package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/huangsam/logscore/schema"
	"github.com/spf13/cobra"
)

// versionCmd prints build details and the scoring constants baked into the binary.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the logscore build and scoring details.",
	Long: `Display build information alongside the constants that affect scores.

Two binaries with the same scoring details produce identical scores tables
for the same forecast repository.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), versionText())
	},
}

// versionText renders the version block.
func versionText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "logscore %s (%s, built %s, %s)\n", version, commit, date, runtime.Version())
	fmt.Fprintf(&b, "  Regions:       %d\n", len(schema.Regions))
	fmt.Fprintf(&b, "  Targets:       %d\n", len(schema.Targets))
	fmt.Fprintf(&b, "  Fallback bin:  %g\n", schema.FallbackBinStart)
	fmt.Fprintf(&b, "  Season starts: EW%02d\n", schema.SeasonBoundaryWeek)
	return b.String()
}
