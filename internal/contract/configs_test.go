package contract

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/logscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input produced by viper defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        DefaultResultLimit,
		Workers:      4,
		Precision:    DefaultPrecision,
		CacheBackend: string(schema.SQLiteBackend),
		Emoji:        "yes",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:        "valid defaults",
			mutate:      func(*ConfigRawInput) {},
			expectError: false,
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "zero workers",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "limit too high",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "precision too high",
			mutate:      func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: true,
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: true,
		},
		{
			name:        "mysql runs backend without connection",
			mutate:      func(in *ConfigRawInput) { in.RunsBackend = "mysql" },
			expectError: true,
		},
		{
			name: "sqlite stores sharing a file",
			mutate: func(in *ConfigRawInput) {
				in.RunsBackend = "sqlite"
				in.CacheDBConnect = "/tmp/shared.db"
				in.RunsDBConnect = "/tmp/shared.db"
			},
			expectError: true,
		},
		{
			name:        "model type with a path separator",
			mutate:      func(in *ConfigRawInput) { in.ModelTypes = "component-models,../etc" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, DefaultRootDir, cfg.RootDir)
	assert.Equal(t, DefaultTruthFile, cfg.TruthFile)
	assert.Equal(t, DefaultScoresFile, cfg.ScoresFile)
	assert.Equal(t, DefaultErrorLog, cfg.ErrorLog)
	assert.Equal(t, DefaultBlacklistOut, cfg.BlacklistOut)
	assert.Empty(t, cfg.BlacklistIn)
	assert.Equal(t, schema.DefaultScoreModelTypes, cfg.ModelTypes)
	assert.Equal(t, schema.DefaultIDModelTypes, cfg.IDModelTypes)
	assert.Equal(t, schema.DefaultCollectModelTypes, cfg.CollectModelTypes)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, schema.NoneBackend, cfg.RunsBackend)
	assert.Equal(t, DefaultRepoURL, cfg.RepoURL)
	assert.Empty(t, cfg.Output)
	assert.Equal(t, schema.CSVOut, cfg.OutputOrDefault(schema.CSVOut))
}

func TestProcessAndValidateOverrides(t *testing.T) {
	input := validInput()
	input.ModelTypes = " component-models , , submissions "
	input.ScoresFile = "custom.csv"
	input.ScoresFileArg = "positional.csv"
	input.Output = "JSON"
	input.RepoURL = "https://example.com/repo/"
	input.CommitMessage = "  add week 42  "

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []string{"component-models", "submissions"}, cfg.ModelTypes)
	assert.Equal(t, "positional.csv", cfg.ScoresFile)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, "https://example.com/repo", cfg.RepoURL)
	assert.Equal(t, "add week 42", cfg.CommitMessage)
}

func TestScoresFileDashMeansStdout(t *testing.T) {
	input := validInput()
	input.ScoresFile = "-"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Empty(t, cfg.ScoresFile)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/logscore", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/logscore", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=logscore", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	backend, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, backend)

	backend, err = ParseBackend(" PostgreSQL ")
	require.NoError(t, err)
	assert.Equal(t, schema.PostgreSQLBackend, backend)

	_, err = ParseBackend("oracle")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{ModelTypes: []string{"a"}, RootDir: filepath.Join("x", "y")}
	clone := cfg.Clone()
	clone.ModelTypes[0] = "b"
	clone.RootDir = "z"

	assert.Equal(t, "a", cfg.ModelTypes[0])
	assert.Equal(t, filepath.Join("x", "y"), cfg.RootDir)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"component-models", "cv-ensemble-models"}, SplitList(" component-models, ,cv-ensemble-models "))
	assert.Empty(t, SplitList(""))
}

func TestValidateModelTypes(t *testing.T) {
	assert.NoError(t, ValidateModelTypes([]string{"component-models"}))
	assert.Error(t, ValidateModelTypes([]string{"a/b"}))
	assert.Error(t, ValidateModelTypes([]string{".."}))
}
