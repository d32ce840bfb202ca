package core

import (
	"strings"

	"github.com/huangsam/typegate/schema"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultSimilarThreshold is the minimum ratio for two messages to be
// considered restatements of the same error. The exact value is a
// noise-reduction tuning knob, not a correctness requirement, which is why
// it stays configurable.
const DefaultSimilarThreshold = 0.7

// Similarity measures how alike two messages are. Implementations must be
// deterministic and symmetric, returning a ratio in [0, 1] where 1 means
// identical.
type Similarity interface {
	Ratio(a, b string) float64
}

// NewSimilarity returns the similarity implementation for the given metric.
func NewSimilarity(metric schema.SimilarityMetric) Similarity {
	if metric == schema.TokenMetric {
		return TokenSimilarity{}
	}
	return NewLevenshteinSimilarity()
}

// LevenshteinSimilarity computes 1 - distance/max(len) over runes, with the
// edit distance taken from a character-level diff.
type LevenshteinSimilarity struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewLevenshteinSimilarity creates a Levenshtein-based similarity measure.
func NewLevenshteinSimilarity() LevenshteinSimilarity {
	return LevenshteinSimilarity{dmp: diffmatchpatch.New()}
}

// Ratio implements Similarity.
func (s LevenshteinSimilarity) Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	diffs := s.dmp.DiffMain(a, b, false)
	distance := s.dmp.DiffLevenshtein(diffs)
	if distance >= longest {
		return 0.0
	}
	return 1.0 - float64(distance)/float64(longest)
}

// TokenSimilarity computes the Jaccard overlap of whitespace-separated token
// sets. Cheaper than edit distance and insensitive to token reordering.
type TokenSimilarity struct{}

// Ratio implements Similarity.
func (TokenSimilarity) Ratio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1.0
	}
	intersection := 0
	for tok := range tokensA {
		if _, ok := tokensB[tok]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// tokenSet splits a message into its unique whitespace-separated tokens.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
