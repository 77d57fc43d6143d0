package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// SeasonBoundaryWeek is the first epiweek of a new influenza season.
const SeasonBoundaryWeek = 30

// Season returns the season label for a calendar year and epiweek.
// Weeks at or after the boundary start a new season.
func Season(year, epiweek int) string {
	if epiweek >= SeasonBoundaryWeek {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// ModelID joins the team name and model abbreviation.
func ModelID(teamName, modelAbbr string) string {
	return teamName + "-" + modelAbbr
}

// indexOf returns the position of s in list, or -1.
func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// SortForecastKeys orders keys by region then target. Known regions and targets
// keep their CDC order and unknown names follow, sorted lexically.
func SortForecastKeys(keys []ForecastKey) {
	rank := func(list []string, s string) int {
		if i := indexOf(list, s); i >= 0 {
			return i
		}
		return len(list)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		ra, rb := rank(Regions, a.Region), rank(Regions, b.Region)
		if ra != rb {
			return ra < rb
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		ta, tb := rank(Targets, a.Target), rank(Targets, b.Target)
		if ta != tb {
			return ta < tb
		}
		return a.Target < b.Target
	})
}

// GetSkillLabel buckets a geometric mean probability.
func GetSkillLabel(prob float64) SkillLabel {
	switch {
	case math.IsNaN(prob):
		return PoorSkill
	case prob >= 0.5:
		return StrongSkill
	case prob >= 0.25:
		return FairSkill
	case prob >= 0.1:
		return WeakSkill
	default:
		return PoorSkill
	}
}

// TruncateDescription shortens text to limit runes and appends an ellipsis.
func TruncateDescription(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

// FormatScore renders a score for the scores table. Scores that are not
// finite are written as the NaN sentinel.
func FormatScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return NaNSentinel
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}
