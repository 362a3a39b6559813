package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pfrederiksen/class-schedule/internal/record"
)

// ErrEmptyInput is returned by CSV exports when there are no records to
// derive a header from
var ErrEmptyInput = errors.New("no records to export")

// ToCSV writes records as CSV with a header row taken from the first record's keys
func ToCSV(w io.Writer, records []record.Record) error {
	if len(records) == 0 {
		return ErrEmptyInput
	}

	header := records[0].Keys()
	columns := make(map[string]int, len(header))
	for i, key := range header {
		columns[key] = i
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		row := make([]string, len(header))
		for _, f := range rec {
			col, ok := columns[f.Key]
			if !ok {
				return fmt.Errorf("record %d: field %q not in header", i+1, f.Key)
			}
			row[col] = record.String(f.Value)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// JSONDump writes records as a single compact JSON array.
// An empty input produces "[]".
func JSONDump(w io.Writer, records []record.Record) error {
	if records == nil {
		records = []record.Record{}
	}

	if err := json.NewEncoder(w).Encode(records); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
