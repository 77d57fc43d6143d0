package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// SkillLabel represents the bucket a model's geometric mean probability falls in.
	SkillLabel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All skill labels supported.
const (
	StrongSkill SkillLabel = "Strong"
	FairSkill   SkillLabel = "Fair"
	WeakSkill   SkillLabel = "Weak"
	PoorSkill   SkillLabel = "Poor"
)

// NaNSentinel is written in place of a score that is not a finite number.
const NaNSentinel = "NaN"

// FallbackBinStart is the bin start substituted when a truth bin has no
// exact match in a forecast. Truth files allow a week 53 bin that models
// may not produce, and week 1 is the closest analog.
const FallbackBinStart = 1.0

// File and directory names that make up a forecast repository.
const (
	MetadataFileName  = "metadata.txt"
	ModelIDMapFile    = "model-id-map.csv"
	DashboardMetaFile = "meta.yml"
	CSVExtension      = ".csv"
)

// ScoresHeader is the fixed header row of the scores table.
var ScoresHeader = []string{
	"Model",
	"Year",
	"Epiweek",
	"Season",
	"Model Week",
	"Location",
	"Target",
	"Score",
}

// ModelIDMapHeader is the header row of model-id-map.csv.
var ModelIDMapHeader = []string{"model-id", "model-dir"}

// Regions lists the CDC locations in canonical output order.
var Regions = []string{
	"US National",
	"HHS Region 1",
	"HHS Region 2",
	"HHS Region 3",
	"HHS Region 4",
	"HHS Region 5",
	"HHS Region 6",
	"HHS Region 7",
	"HHS Region 8",
	"HHS Region 9",
	"HHS Region 10",
}

// Targets lists the forecast targets in canonical output order.
var Targets = []string{
	"Season onset",
	"Season peak week",
	"Season peak percentage",
	"1 wk ahead",
	"2 wk ahead",
	"3 wk ahead",
	"4 wk ahead",
}

// DefaultScoreModelTypes are the parent directories considered for scoring.
var DefaultScoreModelTypes = []string{"component-models", "cv-ensemble-models"}

// DefaultIDModelTypes are the parent directories that get a model-id-map.csv.
var DefaultIDModelTypes = []string{"component-models", "cv-ensemble-models", "real-time-ensemble-models"}

// DefaultCollectModelTypes are the parent directories packaged for the dashboard.
var DefaultCollectModelTypes = []string{"component-models", "real-time-ensemble-models"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
