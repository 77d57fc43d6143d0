package contract

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/logscore/schema"
)

// Default values for configuration.
const (
	DefaultRootDir      = "./model-forecasts"
	DefaultTruthFile    = "./scores/target-multivals.csv"
	DefaultScoresFile   = "./scores/scores.csv"
	DefaultErrorLog     = "./csv-error.log"
	DefaultBlacklistOut = "./csv-blacklist.yaml"
	DefaultDataDir      = "./data"
	DefaultSubmissions  = "submissions"
	DefaultRepoURL      = "https://github.com/FluSightNetwork/cdc-flusight-ensemble"
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 3
	MaxPrecision        = 6
	DescriptionMaxLen   = 150
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	RootDir           string
	ModelTypes        []string // Parent directories scored by the score command
	IDModelTypes      []string // Parent directories that get a model-id-map.csv
	CollectModelTypes []string // Parent directories packaged by the collect command
	SubmissionsDir    string   // Parent directory inspected by the week command

	TruthFile    string
	ScoresFile   string // Written by score, read by summary
	ErrorLog     string
	BlacklistIn  string
	BlacklistOut string

	DataDir       string
	RepoURL       string
	CommitMessage string

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode // Empty means the command default
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ScoresFileArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	RootDir        string `mapstructure:"root-dir"`
	OutputFile     string `mapstructure:"output-file"`
	Output         string `mapstructure:"output"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`
	ScoresFile     string `mapstructure:"scores-file"`

	// --- Fields from scoreCmd.Flags() ---
	ModelTypes   string `mapstructure:"model-types"`
	TruthFile    string `mapstructure:"truth-file"`
	ErrorLog     string `mapstructure:"error-log"`
	BlacklistIn  string `mapstructure:"blacklist-in"`
	BlacklistOut string `mapstructure:"blacklist-out"`

	// --- Fields from idsCmd.Flags() ---
	IDModelTypes string `mapstructure:"id-model-types"`

	// --- Fields from weekCmd.Flags() ---
	SubmissionsDir string `mapstructure:"submissions-dir"`
	CommitMessage  string `mapstructure:"commit-message"`

	// --- Fields from collectCmd.Flags() ---
	CollectModelTypes string `mapstructure:"collect-model-types"`
	DataDir           string `mapstructure:"data-dir"`
	RepoURL           string `mapstructure:"repo-url"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ModelTypes = append([]string(nil), c.ModelTypes...)
	clone.IDModelTypes = append([]string(nil), c.IDModelTypes...)
	clone.CollectModelTypes = append([]string(nil), c.CollectModelTypes...)
	return &clone
}

// OutputOrDefault returns the configured output mode, or def when none was given.
func (c *Config) OutputOrDefault(def schema.OutputMode) schema.OutputMode {
	if c.Output == "" {
		return def
	}
	return c.Output
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPaths(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend normalizes a backend name. An empty name maps to NoneBackend.
func ParseBackend(name string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(name) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and run history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Run History Backend Validation ---
	backend, err = ParseBackend(input.RunsBackend)
	if err != nil {
		return fmt.Errorf("runs: %w", err)
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	// Cache and run history must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		runsDBPath := cfg.RunsDBConnect
		if runsDBPath == "" {
			runsDBPath = GetRunsDBFilePath()
		}
		if filepath.Clean(cacheDBPath) == filepath.Clean(runsDBPath) {
			return fmt.Errorf("cache and run history must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.CommitMessage = strings.TrimSpace(input.CommitMessage)
	cfg.RepoURL = strings.TrimSuffix(strings.TrimSpace(input.RepoURL), "/")
	if cfg.RepoURL == "" {
		cfg.RepoURL = DefaultRepoURL
	}

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = ""
	if input.Output != "" {
		cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
		if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
			return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
		}
	}

	return nil
}

// processPaths fills in file and directory settings, applying defaults.
func processPaths(cfg *Config, input *ConfigRawInput) error {
	cfg.RootDir = orDefault(input.RootDir, DefaultRootDir)
	cfg.TruthFile = orDefault(input.TruthFile, DefaultTruthFile)
	cfg.ErrorLog = orDefault(input.ErrorLog, DefaultErrorLog)
	cfg.BlacklistOut = orDefault(input.BlacklistOut, DefaultBlacklistOut)
	cfg.BlacklistIn = strings.TrimSpace(input.BlacklistIn)
	cfg.DataDir = orDefault(input.DataDir, DefaultDataDir)
	cfg.SubmissionsDir = orDefault(input.SubmissionsDir, DefaultSubmissions)

	// A positional argument takes precedence over --scores-file
	cfg.ScoresFile = orDefault(input.ScoresFile, DefaultScoresFile)
	if input.ScoresFileArg != "" {
		cfg.ScoresFile = input.ScoresFileArg
	}
	if cfg.ScoresFile == "-" {
		cfg.ScoresFile = "" // stdout
	}

	cfg.ModelTypes = parseList(input.ModelTypes, schema.DefaultScoreModelTypes)
	cfg.IDModelTypes = parseList(input.IDModelTypes, schema.DefaultIDModelTypes)
	cfg.CollectModelTypes = parseList(input.CollectModelTypes, schema.DefaultCollectModelTypes)

	for _, list := range [][]string{cfg.ModelTypes, cfg.IDModelTypes, cfg.CollectModelTypes} {
		if err := ValidateModelTypes(list); err != nil {
			return err
		}
	}

	return nil
}

// ValidateModelTypes checks that every entry names a single directory.
func ValidateModelTypes(list []string) error {
	for _, dir := range list {
		if strings.ContainsAny(dir, `/\`) || dir == ".." || dir == "." {
			return fmt.Errorf("model type '%s' must be a single directory name", dir)
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// parseList splits a comma-separated list, falling back to defaults when empty.
func parseList(s string, defaults []string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaults...)
	}
	return out
}

// SplitList splits a comma-separated list and drops empty entries.
func SplitList(s string) []string {
	return parseList(s, nil)
}

func orDefault(s, def string) string {
	if trimmed := strings.TrimSpace(s); trimmed != "" {
		return trimmed
	}
	return def
}
