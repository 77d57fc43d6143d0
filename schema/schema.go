// Package schema has configs, models and global variables for all parts of logscore.
package schema

// TruthRow is one observed bin from the ground-truth table.
// Several rows share a (Year, Epiweek, Region, Target) key when the truth
// declares more than one bin as correct.
type TruthRow struct {
	Year      int     // Calendar year of the observation
	Epiweek   int     // MMWR week of the observation (1-53)
	Season    string  // Season label as written in the truth file
	ModelWeek string  // Model week as written in the truth file
	Region    string  // Location identifier
	Target    string  // Forecast target identifier
	BinStart  float64 // Inclusive bin start (NaN when not numeric)
	BinEnd    float64 // Exclusive bin end (NaN when absent or not numeric)
	Value     float64 // Observed probability (NaN when absent)
}

// ForecastRow is one probability bin of a model submission.
type ForecastRow struct {
	Region   string  `json:"region"`
	Target   string  `json:"target"`
	Type     string  `json:"type"`
	Unit     string  `json:"unit"`
	BinStart float64 `json:"bin_start"`
	BinEnd   float64 `json:"bin_end"`
	Value    float64 `json:"value"`
}

// TruthKey identifies the truth rows that score one (region, target) for a week.
type TruthKey struct {
	Year    int
	Epiweek int
	Region  string
	Target  string
}

// ForecastKey identifies the forecast rows for one (region, target) in a file.
type ForecastKey struct {
	Region string
	Target string
}

// CSVTime is the timing information encoded in a submission filename.
type CSVTime struct {
	Epiweek int    `json:"epiweek"`
	Year    int    `json:"year"`
	Season  string `json:"season"`
}

// Timestamp returns the year*100+epiweek form used for ordering and file names.
func (t CSVTime) Timestamp() int {
	return t.Year*100 + t.Epiweek
}

// ModelMeta holds the fields read from a model's metadata.txt descriptor.
type ModelMeta struct {
	TeamName  string `yaml:"team_name"`
	ModelAbbr string `yaml:"model_abbr"`
	ModelName string `yaml:"model_name"`
	Methods   string `yaml:"methods"`
}

// ModelDir pairs a model directory with its derived identifier.
type ModelDir struct {
	Path string    `json:"path"`
	ID   string    `json:"id"`
	Meta ModelMeta `json:"-"`
}
