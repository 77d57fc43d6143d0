package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"finite", -1.5, "-1.5"},
		{"zero", 0, "0"},
		{"shortest repr", math.Log(0.5), "-0.6931471805599453"},
		{"nan", math.NaN(), NaNSentinel},
		{"negative infinity", math.Inf(-1), NaNSentinel},
		{"positive infinity", math.Inf(1), NaNSentinel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatScore(tt.score))
		})
	}
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 0, indexOf(Regions, "US National"))
	assert.Equal(t, 10, indexOf(Regions, "HHS Region 10"))
	assert.Equal(t, -1, indexOf(Targets, "5 wk ahead"))
}
