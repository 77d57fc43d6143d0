package schema

import "math"

// RankedSummary adds presentation data to a ModelSummary.
type RankedSummary struct {
	Rank  int        `json:"rank"`
	Label SkillLabel `json:"label"`
	ModelSummary
}

// EnrichSummaries adds rank and skill label to summaries that are already sorted.
func EnrichSummaries(summaries []ModelSummary) []RankedSummary {
	output := make([]RankedSummary, len(summaries))
	for i, s := range summaries {
		output[i] = RankedSummary{
			Rank:         i + 1,
			Label:        GetSkillLabel(s.GeoMeanProb),
			ModelSummary: s,
		}
	}
	return output
}

// LeaderboardEntry is the JSON form of a RankedSummary. Statistics that are
// not finite numbers encode as null.
type LeaderboardEntry struct {
	Rank        int        `json:"rank"`
	Model       string     `json:"model"`
	Label       SkillLabel `json:"label"`
	Scores      int        `json:"scores"`
	Degenerate  int        `json:"degenerate"`
	MeanScore   *float64   `json:"mean_score"`
	StdDev      *float64   `json:"std_dev"`
	GeoMeanProb *float64   `json:"geo_mean_prob"`
}

// ToLeaderboard converts ranked summaries to their JSON-safe form.
func ToLeaderboard(ranked []RankedSummary) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(ranked))
	for i, r := range ranked {
		out[i] = LeaderboardEntry{
			Rank:        r.Rank,
			Model:       r.Model,
			Label:       r.Label,
			Scores:      r.Scores,
			Degenerate:  r.Degenerate,
			MeanScore:   finiteOrNil(r.MeanScore),
			StdDev:      finiteOrNil(r.StdDev),
			GeoMeanProb: finiteOrNil(r.GeoMeanProb),
		}
	}
	return out
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
