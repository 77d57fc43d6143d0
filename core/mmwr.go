package core

import "time"

// mmwrWeekOneStart returns the Sunday that starts MMWR week 1 of a year:
// the first week with at least four days in January.
func mmwrWeekOneStart(year int) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	wd := int(jan1.Weekday())
	if wd <= int(time.Wednesday) {
		return jan1.AddDate(0, 0, -wd)
	}
	return jan1.AddDate(0, 0, 7-wd)
}

// WeeksInYear returns the number of MMWR weeks in a year (52 or 53).
func WeeksInYear(year int) int {
	days := mmwrWeekOneStart(year+1).Sub(mmwrWeekOneStart(year)).Hours() / 24
	return int(days) / 7
}

// NextEpiweek returns the MMWR week that follows (year, week).
func NextEpiweek(year, week int) (int, int) {
	if week < WeeksInYear(year) {
		return year, week + 1
	}
	return year + 1, 1
}

// EpiweekOf returns the MMWR year and week containing t.
func EpiweekOf(t time.Time) (int, int) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	year := day.Year()
	if start := mmwrWeekOneStart(year + 1); !day.Before(start) {
		year++
	} else if day.Before(mmwrWeekOneStart(year)) {
		year--
	}
	days := int(day.Sub(mmwrWeekOneStart(year)).Hours() / 24)
	return year, days/7 + 1
}
