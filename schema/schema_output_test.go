package schema_test

import (
	"math"
	"testing"

	"github.com/huangsam/logscore/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetSkillLabel(t *testing.T) {
	tests := []struct {
		name     string
		prob     float64
		expected schema.SkillLabel
	}{
		{"Strong Upper", 1.0, schema.StrongSkill},
		{"Strong Lower", 0.5, schema.StrongSkill},
		{"Fair Upper", 0.49, schema.FairSkill},
		{"Fair Lower", 0.25, schema.FairSkill},
		{"Weak Upper", 0.249, schema.WeakSkill},
		{"Weak Lower", 0.1, schema.WeakSkill},
		{"Poor", 0.05, schema.PoorSkill},
		{"NaN", math.NaN(), schema.PoorSkill}, // Edge case
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetSkillLabel(tt.prob))
		})
	}
}

func TestEnrichSummaries(t *testing.T) {
	summaries := []schema.ModelSummary{
		{Model: "a-x", GeoMeanProb: 0.6}, // Strong
		{Model: "b-y", GeoMeanProb: 0.3}, // Fair
		{Model: "c-z", GeoMeanProb: 0.01},
	}

	enriched := schema.EnrichSummaries(summaries)

	assert.Len(t, enriched, 3)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, schema.StrongSkill, enriched[0].Label)
	assert.Equal(t, "a-x", enriched[0].Model)
	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, schema.FairSkill, enriched[1].Label)
	assert.Equal(t, 3, enriched[2].Rank)
	assert.Equal(t, schema.PoorSkill, enriched[2].Label)
}

func TestToLeaderboard(t *testing.T) {
	ranked := schema.EnrichSummaries([]schema.ModelSummary{
		{Model: "a-x", Scores: 2, MeanScore: -1, StdDev: 0.5, GeoMeanProb: math.Exp(-1)},
		{Model: "b-y", Scores: 1, Degenerate: 1, MeanScore: math.NaN(), StdDev: math.NaN(), GeoMeanProb: math.NaN()},
	})

	entries := schema.ToLeaderboard(ranked)

	assert.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	if assert.NotNil(t, entries[0].MeanScore) {
		assert.Equal(t, -1.0, *entries[0].MeanScore)
	}
	assert.Equal(t, schema.FairSkill, entries[0].Label)
	assert.Nil(t, entries[1].MeanScore)
	assert.Nil(t, entries[1].StdDev)
	assert.Nil(t, entries[1].GeoMeanProb)
	assert.Equal(t, 1, entries[1].Degenerate)
}
