// Package cmd defines the command-line interface for logscore.
package cmd

import (
	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(idsCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("root-dir", contract.DefaultRootDir, "Directory holding the model type folders")
	rootCmd.PersistentFlags().String("scores-file", contract.DefaultScoresFile, "Scores table written by score and read by summary ('-' for stdout)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of models to display in summaries")
	rootCmd.PersistentFlags().String("output", "", "Output format: text or csv or json or parquet (score defaults to csv, summary to text)")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write summary output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent forecast parsers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Forecast cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in progress headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scoreCmd to Viper
	scoreCmd.Flags().String("model-types", "", "Comma-separated parent directories to score (default component-models,cv-ensemble-models)")
	scoreCmd.Flags().String("truth-file", contract.DefaultTruthFile, "Truth table with the observed bin of every (week, region, target)")
	scoreCmd.Flags().String("error-log", contract.DefaultErrorLog, "File that receives one block per scoring failure")
	scoreCmd.Flags().String("blacklist-in", "", "YAML list of forecast files to skip")
	scoreCmd.Flags().String("blacklist-out", contract.DefaultBlacklistOut, "YAML list of forecast files that failed this run")
	if err := viper.BindPFlags(scoreCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}

	// Bind all flags of idsCmd to Viper
	idsCmd.Flags().String("id-model-types", "", "Comma-separated parent directories that get a model-id-map.csv")
	if err := viper.BindPFlags(idsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ids flags", err)
	}

	// Bind all flags of weekCmd to Viper
	weekCmd.Flags().String("submissions-dir", contract.DefaultSubmissions, "Parent directory of the submission folders")
	weekCmd.Flags().String("commit-message", "", "Commit message whose last word may name the week (defaults to $"+commitMessageEnv+")")
	weekCmd.Flags().Bool("from-git", false, "Read the HEAD commit message under --root-dir when no commit message is given")
	if err := viper.BindPFlags(weekCmd.Flags()); err != nil {
		contract.LogFatal("Error binding week flags", err)
	}

	// Bind all flags of collectCmd to Viper
	collectCmd.Flags().String("collect-model-types", "", "Comma-separated parent directories to package (default component-models,real-time-ensemble-models)")
	collectCmd.Flags().String("data-dir", contract.DefaultDataDir, "Directory that receives the dashboard data layout")
	collectCmd.Flags().String("repo-url", contract.DefaultRepoURL, "Repository URL used for metadata links")
	if err := viper.BindPFlags(collectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding collect flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
