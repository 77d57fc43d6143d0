package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/logscore/schema"
)

// WriteModelIDMap writes pairs to path as model-id-map.csv.
func WriteModelIDMap(path string, pairs []schema.ModelIDPair) error {
	return writeWithFile(path, func(w io.Writer) error {
		return writeModelIDMapCSV(w, pairs)
	}, "Wrote model ID map")
}

func writeModelIDMapCSV(w io.Writer, pairs []schema.ModelIDPair) error {
	return writeCSVWithHeader(w, schema.ModelIDMapHeader, func(csvWriter *csv.Writer) error {
		for _, p := range pairs {
			if err := csvWriter.Write([]string{p.ModelID, p.ModelDir}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
