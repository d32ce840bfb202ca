package core

import (
	"sort"

	"github.com/huangsam/typegate/schema"
)

// DiffOptions controls how two reports are compared.
type DiffOptions struct {
	Similar   bool       // Enable the fuzzy similar-pair pass
	Threshold float64    // Minimum ratio for a similar match, (0, 1]
	Metric    Similarity // Similarity measure; nil falls back to Levenshtein
}

// DefaultDiffOptions returns the options used when the caller has no opinion.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		Similar:   true,
		Threshold: DefaultSimilarThreshold,
		Metric:    NewLevenshteinSimilarity(),
	}
}

// DiffReports compares an old report against a new one and classifies the
// per-file differences into new, resolved, and similar-pair buckets. Either
// report may be empty ("no prior snapshot"). The function is pure: diffing a
// report against itself always yields an empty ChangeSet.
func DiffReports(oldReport, newReport schema.Report, opts DiffOptions) schema.ChangeSet {
	if opts.Metric == nil {
		opts.Metric = NewLevenshteinSimilarity()
	}

	changes := schema.ChangeSet{Files: make(map[string]schema.FileChanges)}

	for _, file := range unionFiles(oldReport, newReport) {
		fc := diffFile(oldReport[file], newReport[file], opts)
		if fc.Empty() {
			continue
		}
		changes.Files[file] = fc

		for _, d := range fc.New {
			changes.Summary.NewErrors += d.Count
		}
		for _, d := range fc.Resolved {
			changes.Summary.ResolvedErrors += d.Count
		}
		changes.Summary.SimilarPairs += len(fc.Similar)
	}

	changes.Summary.ChangedFiles = len(changes.Files)
	changes.Summary.TotalErrors = newReport.TotalErrors()
	return changes
}

// diffFile classifies the changes for a single file.
//
// Count deltas come first: a message present on both sides with a higher
// count contributes the increase as new occurrences, a lower count as
// resolved occurrences, and a net-zero change contributes nothing. Messages
// present on only one side feed the similarity pass, which pairs up likely
// line-shifted or reworded restatements so a single logical error is not
// double-counted as both "new" and "fixed".
func diffFile(oldCounts, newCounts schema.MessageCounts, opts DiffOptions) schema.FileChanges {
	var fc schema.FileChanges

	// Wholly added/removed message texts, candidates for similarity pairing.
	var added, removed []string

	for msg, newN := range newCounts {
		oldN := oldCounts[msg]
		switch {
		case oldN == 0:
			added = append(added, msg)
		case newN > oldN:
			fc.New = append(fc.New, schema.MessageDelta{Message: msg, Count: newN - oldN})
		case newN < oldN:
			fc.Resolved = append(fc.Resolved, schema.MessageDelta{Message: msg, Count: oldN - newN})
		}
	}
	for msg := range oldCounts {
		if _, ok := newCounts[msg]; !ok {
			removed = append(removed, msg)
		}
	}

	// Sorted scan order keeps the greedy matching deterministic.
	sort.Strings(added)
	sort.Strings(removed)

	if opts.Similar {
		var pairs []schema.SimilarPair
		pairs, added, removed = matchSimilar(added, removed, opts)
		fc.Similar = pairs
	}

	for _, msg := range added {
		fc.New = append(fc.New, schema.MessageDelta{Message: msg, Count: newCounts[msg]})
	}
	for _, msg := range removed {
		fc.Resolved = append(fc.Resolved, schema.MessageDelta{Message: msg, Count: oldCounts[msg]})
	}

	sortDeltas(fc.New)
	sortDeltas(fc.Resolved)
	return fc
}

// matchSimilar greedily pairs each added message with its best-scoring
// removed message at or above the threshold. Matched messages are consumed;
// the leftovers are returned for regular new/resolved classification.
func matchSimilar(added, removed []string, opts DiffOptions) ([]schema.SimilarPair, []string, []string) {
	var pairs []schema.SimilarPair
	var restAdded []string

	remaining := make([]string, len(removed))
	copy(remaining, removed)

	for _, newMsg := range added {
		bestIdx := -1
		bestScore := 0.0
		for i, oldMsg := range remaining {
			score := opts.Metric.Ratio(oldMsg, newMsg)
			if score >= opts.Threshold && score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}
		if bestIdx < 0 {
			restAdded = append(restAdded, newMsg)
			continue
		}
		pairs = append(pairs, schema.SimilarPair{
			Old:   remaining[bestIdx],
			New:   newMsg,
			Score: bestScore,
		})
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return pairs, restAdded, remaining
}

// sortDeltas orders deltas by message for reproducible output.
func sortDeltas(deltas []schema.MessageDelta) {
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Message < deltas[j].Message
	})
}

// unionFiles returns the sorted union of file keys from both reports.
func unionFiles(oldReport, newReport schema.Report) []string {
	seen := make(map[string]struct{}, len(oldReport)+len(newReport))
	for file := range oldReport {
		seen[file] = struct{}{}
	}
	for file := range newReport {
		seen[file] = struct{}{}
	}
	files := make([]string, 0, len(seen))
	for file := range seen {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}
