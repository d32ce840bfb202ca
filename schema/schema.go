// Package schema has the data model and shared constants for all parts of typegate.
package schema

// Diagnostic represents one parsed line of checker output. It is consumed
// transiently during parsing and never persisted; only the (File, Message)
// pair survives into a Report.
type Diagnostic struct {
	File     string   // Path to the source file the diagnostic belongs to
	Line     int      // Line number within the file, 0 for file-level diagnostics
	Severity Severity // Severity reported by the checker (error, note, ...)
	Message  string   // Message text with the location prefix stripped
	Raw      string   // The original line as emitted by the checker
}

// MessageCounts maps a normalized message to its occurrence count within one file.
type MessageCounts map[string]int

// Report is the grouped-and-counted summary of all error-severity diagnostics
// from one checker run. Keys are file paths; line numbers are deliberately
// erased so that two diagnostics differing only in line number count as the
// same message. The JSON form is an object keyed by file path, mapping
// message to count; encoding/json emits string map keys sorted, which gives
// the deterministic serialization for free.
type Report map[string]MessageCounts

// Add records one occurrence of msg in file.
func (r Report) Add(file, msg string) {
	counts, ok := r[file]
	if !ok {
		counts = make(MessageCounts)
		r[file] = counts
	}
	counts[msg]++
}

// Count returns the occurrence count for msg in file, 0 when absent.
func (r Report) Count(file, msg string) int {
	return r[file][msg]
}

// TotalErrors returns the sum of all message counts across all files.
func (r Report) TotalErrors() int {
	total := 0
	for _, counts := range r {
		for _, n := range counts {
			total += n
		}
	}
	return total
}

// TotalFiles returns the number of files with at least one error.
func (r Report) TotalFiles() int {
	return len(r)
}

// SortedFiles returns all file paths in lexicographic order.
func (r Report) SortedFiles() []string {
	return sortedKeys(r)
}

// Clone returns a deep copy of the report.
func (r Report) Clone() Report {
	clone := make(Report, len(r))
	for file, counts := range r {
		cloned := make(MessageCounts, len(counts))
		for msg, n := range counts {
			cloned[msg] = n
		}
		clone[file] = cloned
	}
	return clone
}

// Equal reports whether two reports carry identical counts.
func (r Report) Equal(other Report) bool {
	if len(r) != len(other) {
		return false
	}
	for file, counts := range r {
		otherCounts, ok := other[file]
		if !ok || len(counts) != len(otherCounts) {
			return false
		}
		for msg, n := range counts {
			if otherCounts[msg] != n {
				return false
			}
		}
	}
	return true
}
