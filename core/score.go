package core

import (
	"fmt"
	"math"
	"strconv"

	"github.com/huangsam/logscore/schema"
)

// BinProbabilities returns the forecast probability for each truth bin start.
// A bin start without an exact match takes the probability of the row whose
// bin start is exactly schema.FallbackBinStart. When that row is missing too,
// the lookup fails for the whole (region, target).
func BinProbabilities(rows []schema.ForecastRow, binStarts []float64) ([]float64, error) {
	probs := make([]float64, 0, len(binStarts))
	for _, b := range binStarts {
		row, ok := findBin(rows, b)
		if !ok {
			row, ok = findBin(rows, schema.FallbackBinStart)
		}
		if !ok {
			return nil, fmt.Errorf("%w: bin start %s", ErrNoBinMatch, strconv.FormatFloat(b, 'f', -1, 64))
		}
		probs = append(probs, row.Value)
	}
	return probs, nil
}

// findBin returns the first row whose bin start equals b.
func findBin(rows []schema.ForecastRow, b float64) (schema.ForecastRow, bool) {
	for _, row := range rows {
		if row.BinStart == b {
			return row, true
		}
	}
	return schema.ForecastRow{}, false
}

// LogScore sums the natural logs of the matched probabilities.
// A zero probability drives the sum to -Inf.
func LogScore(probs []float64) float64 {
	var sum float64
	for _, p := range probs {
		sum += math.Log(p)
	}
	return sum
}

// ParseScore reads a score written by schema.FormatScore. The sentinel and any
// other unparsable text read back as NaN.
func ParseScore(s string) float64 {
	if s == schema.NaNSentinel {
		return math.NaN()
	}
	return parseDecimal(s)
}

// scorePair computes the score for one (region, target) of a forecast.
func scorePair(forecast *Forecast, truth *TruthTable, key schema.TruthKey) (float64, error) {
	rows := forecast.Rows(schema.ForecastKey{Region: key.Region, Target: key.Target})
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: %s, %s", ErrMissingForecast, key.Region, key.Target)
	}
	probs, err := BinProbabilities(rows, truth.BinStarts(key))
	if err != nil {
		return 0, err
	}
	return LogScore(probs), nil
}
