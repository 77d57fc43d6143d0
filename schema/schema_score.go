package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// ScoreRecord is one row of the scores table.
type ScoreRecord struct {
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	Epiweek   int     `json:"epiweek"`
	Season    string  `json:"season"`
	ModelWeek string  `json:"model_week"`
	Location  string  `json:"location"`
	Target    string  `json:"target"`
	Score     float64 `json:"score"`
}

// Degenerate reports whether the score has no finite value.
func (r ScoreRecord) Degenerate() bool {
	return math.IsNaN(r.Score) || math.IsInf(r.Score, 0)
}

// MarshalJSON encodes a degenerate score as null.
func (r ScoreRecord) MarshalJSON() ([]byte, error) {
	type alias ScoreRecord
	out := struct {
		alias
		Score *float64 `json:"score"`
	}{alias: alias(r)}
	if !r.Degenerate() {
		score := r.Score
		out.Score = &score
	}
	return json.Marshal(out)
}

// ScoreFailure is a per-file or per-(region, target) error captured during a run.
// Region and Target are empty for failures that affect the whole file.
type ScoreFailure struct {
	Model   string `json:"model"`
	File    string `json:"file"`
	Year    int    `json:"year"`
	Epiweek int    `json:"epiweek"`
	Region  string `json:"region,omitempty"`
	Target  string `json:"target,omitempty"`
	Err     error  `json:"-"`
}

// FileLevel reports whether the failure applies to the whole file.
func (f ScoreFailure) FileLevel() bool {
	return f.Region == "" && f.Target == ""
}

// Heading returns the one-line description used in the error log.
func (f ScoreFailure) Heading() string {
	if f.FileLevel() {
		return fmt.Sprintf("Error in %s", f.File)
	}
	return fmt.Sprintf("Error in %s %d-%d for %s, %s", f.Model, f.Year, f.Epiweek, f.Region, f.Target)
}

// ScoreRunOutput is everything a scoring run produces.
type ScoreRunOutput struct {
	Records   []ScoreRecord  // Score rows in output order
	Failures  []ScoreFailure // Failures in the order they were found
	Blacklist []string       // Unique paths of inputs that failed
	Models    int            // Number of models scored
	Files     int            // Number of forecast files considered
	RunID     string         // Run history identifier, empty when tracking is off
}

// ModelSummary aggregates the scores of one model.
type ModelSummary struct {
	Model       string  `json:"model"`
	Scores      int     `json:"scores"`
	Degenerate  int     `json:"degenerate"`
	MeanScore   float64 `json:"mean_score"`
	StdDev      float64 `json:"std_dev"`
	GeoMeanProb float64 `json:"geo_mean_prob"`
}

// ModelIDPair maps a model identifier to its directory name.
type ModelIDPair struct {
	ModelID  string `json:"model_id"`
	ModelDir string `json:"model_dir"`
}

// DashboardMeta is the meta.yml written next to collected dashboard data.
type DashboardMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

// CollectOutput summarizes a dashboard collection run.
type CollectOutput struct {
	Models  int `json:"models"`
	Files   int `json:"files"`
	Skipped int `json:"skipped"`
}
