package schema

// MessageDelta is one message together with its occurrence delta between two
// reports. Count is always >= 1; the sign is implied by the bucket it sits in.
type MessageDelta struct {
	Message string `json:"message"` // Normalized message text
	Count   int    `json:"count"`   // Number of occurrences added or resolved
}

// SimilarPair records an old message and a new message in the same file that
// the fuzzy-matching heuristic considers restatements of the same underlying
// error (line-shifted or lightly reworded), rather than an unrelated
// addition plus removal.
type SimilarPair struct {
	Old   string  `json:"old"`   // Message as it appeared in the old report
	New   string  `json:"new"`   // Message as it appears in the new report
	Score float64 `json:"score"` // Similarity ratio in [0, 1]
}

// FileChanges holds the classified differences for a single file.
type FileChanges struct {
	New      []MessageDelta `json:"new,omitempty"`      // Messages only in the new report
	Resolved []MessageDelta `json:"resolved,omitempty"` // Messages only in the old report
	Similar  []SimilarPair  `json:"similar,omitempty"`  // Fuzzy-matched old/new pairs
}

// Empty reports whether all three buckets are empty.
func (fc FileChanges) Empty() bool {
	return len(fc.New) == 0 && len(fc.Resolved) == 0 && len(fc.Similar) == 0
}

// ChangeSummary has high-level totals across all changed files.
type ChangeSummary struct {
	NewErrors      int `json:"new_errors"`      // Total new occurrences
	ResolvedErrors int `json:"resolved_errors"` // Total resolved occurrences
	SimilarPairs   int `json:"similar_pairs"`   // Total fuzzy-matched pairs
	ChangedFiles   int `json:"changed_files"`   // Files with changes in any bucket
	TotalErrors    int `json:"total_errors"`    // Error count of the new report
}

// ChangeSet is the classified difference between two reports. Files with no
// changes in any bucket are omitted entirely (sparse representation), so
// diffing a report against itself yields a ChangeSet with no files.
type ChangeSet struct {
	Files   map[string]FileChanges `json:"files"`
	Summary ChangeSummary          `json:"summary"`
}

// Empty reports whether no file has changes in any bucket.
func (cs ChangeSet) Empty() bool {
	return len(cs.Files) == 0
}

// HasNewErrors reports whether any file gained occurrences.
func (cs ChangeSet) HasNewErrors() bool {
	return cs.Summary.NewErrors > 0
}

// SortedFiles returns the changed file paths in lexicographic order.
func (cs ChangeSet) SortedFiles() []string {
	return sortedKeys(cs.Files)
}
