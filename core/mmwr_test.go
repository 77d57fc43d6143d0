package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeeksInYear(t *testing.T) {
	tests := map[int]int{
		2014: 53,
		2015: 52,
		2016: 52,
		2020: 53,
	}
	for year, expected := range tests {
		assert.Equal(t, expected, WeeksInYear(year), "year %d", year)
	}
}

func TestNextEpiweek(t *testing.T) {
	tests := []struct {
		year, week         int
		nextYear, nextWeek int
	}{
		{2015, 10, 2015, 11},
		{2015, 52, 2016, 1},
		{2014, 52, 2014, 53},
		{2014, 53, 2015, 1},
	}
	for _, tt := range tests {
		y, w := NextEpiweek(tt.year, tt.week)
		assert.Equal(t, tt.nextYear, y)
		assert.Equal(t, tt.nextWeek, w)
	}
}

func TestEpiweekOf(t *testing.T) {
	tests := []struct {
		date       time.Time
		year, week int
	}{
		{time.Date(2015, 1, 3, 12, 0, 0, 0, time.UTC), 2014, 53},
		{time.Date(2015, 1, 4, 0, 0, 0, 0, time.UTC), 2015, 1},
		{time.Date(2016, 1, 3, 0, 0, 0, 0, time.UTC), 2016, 1},
		{time.Date(2016, 1, 2, 0, 0, 0, 0, time.UTC), 2015, 52},
		{time.Date(2016, 10, 20, 0, 0, 0, 0, time.UTC), 2016, 42},
	}
	for _, tt := range tests {
		y, w := EpiweekOf(tt.date)
		assert.Equal(t, tt.year, y, tt.date.String())
		assert.Equal(t, tt.week, w, tt.date.String())
	}
}
