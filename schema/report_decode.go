package schema

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeReport reads a persisted report in the canonical JSON shape.
// Malformed JSON is the caller's problem to surface; the engine itself never
// produces one. Entries with a non-positive count are rejected since a valid
// report only ever records messages that occurred.
func DecodeReport(r io.Reader) (Report, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report JSON: %w", err)
	}
	if report == nil {
		report = make(Report)
	}
	for file, counts := range report {
		for msg, n := range counts {
			if n < 1 {
				return nil, fmt.Errorf("invalid count %d for message %q in file %q", n, msg, file)
			}
		}
	}
	return report, nil
}
