package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// readRecords parses delimited text into records. The header row is dropped,
// as are padding rows made of a single empty field.
func readRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Variable width, validated per column by the callers
	reader.LazyQuotes = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	records := make([][]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		if isPaddingRecord(rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// isPaddingRecord reports whether a record is blank-line padding.
func isPaddingRecord(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

// parseDecimal parses a numeric field. Anything that is not a number yields NaN,
// which never compares equal to another value.
func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseInteger parses an integer field.
func parseInteger(s, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

// field returns the i-th field of a record, or an empty string when absent.
func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
