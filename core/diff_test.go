package core

import (
	"testing"

	"github.com/huangsam/typegate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffReports_Identity(t *testing.T) {
	report := schema.Report{
		"a.py": {"boom": 2, "crash": 1},
		"b.py": {"leak": 3},
	}

	changes := DiffReports(report, report, DefaultDiffOptions())

	assert.True(t, changes.Empty())
	assert.Equal(t, 0, changes.Summary.NewErrors)
	assert.Equal(t, 0, changes.Summary.ResolvedErrors)
	assert.Equal(t, 6, changes.Summary.TotalErrors)
}

func TestDiffReports_EmptyBaseline(t *testing.T) {
	newReport := schema.Report{
		"a.py": {"boom": 2},
		"b.py": {"leak": 1},
	}

	changes := DiffReports(schema.Report{}, newReport, DefaultDiffOptions())

	assert.Equal(t, 3, changes.Summary.NewErrors)
	assert.Equal(t, 0, changes.Summary.ResolvedErrors)
	assert.Equal(t, 2, changes.Summary.ChangedFiles)
	require.Contains(t, changes.Files, "a.py")
	assert.Equal(t, []schema.MessageDelta{{Message: "boom", Count: 2}}, changes.Files["a.py"].New)
}

func TestDiffReports_SingleNewMessage(t *testing.T) {
	oldReport := schema.Report{"a.py": {"X": 1}}
	newReport := schema.Report{"a.py": {"X": 1, "Y": 1}}

	changes := DiffReports(oldReport, newReport, DefaultDiffOptions())

	fc := changes.Files["a.py"]
	assert.Equal(t, []schema.MessageDelta{{Message: "Y", Count: 1}}, fc.New)
	assert.Empty(t, fc.Resolved)
}

func TestDiffReports_CountDeltas(t *testing.T) {
	oldReport := schema.Report{"a.py": {"boom": 3, "crash": 5, "leak": 2}}
	newReport := schema.Report{"a.py": {"boom": 5, "crash": 3, "leak": 2}}

	changes := DiffReports(oldReport, newReport, DefaultDiffOptions())

	fc := changes.Files["a.py"]
	assert.Equal(t, []schema.MessageDelta{{Message: "boom", Count: 2}}, fc.New)
	assert.Equal(t, []schema.MessageDelta{{Message: "crash", Count: 2}}, fc.Resolved)
	assert.Empty(t, fc.Similar, "count deltas must never feed the similarity pass")
	assert.Equal(t, 2, changes.Summary.NewErrors)
	assert.Equal(t, 2, changes.Summary.ResolvedErrors)
}

func TestDiffReports_SimilarPairing(t *testing.T) {
	oldReport := schema.Report{
		"a.py": {`Argument 1 to "run" has incompatible type "int"`: 1},
	}
	newReport := schema.Report{
		"a.py": {`Argument 1 to "run" has incompatible type "str"`: 1},
	}

	changes := DiffReports(oldReport, newReport, DefaultDiffOptions())

	fc := changes.Files["a.py"]
	require.Len(t, fc.Similar, 1)
	assert.Empty(t, fc.New)
	assert.Empty(t, fc.Resolved)
	assert.GreaterOrEqual(t, fc.Similar[0].Score, DefaultSimilarThreshold)
	assert.Equal(t, `Argument 1 to "run" has incompatible type "int"`, fc.Similar[0].Old)
	assert.Equal(t, `Argument 1 to "run" has incompatible type "str"`, fc.Similar[0].New)
	assert.Equal(t, 1, changes.Summary.SimilarPairs)
}

func TestDiffReports_SimilarDisabled(t *testing.T) {
	oldReport := schema.Report{"a.py": {"incompatible type int": 1}}
	newReport := schema.Report{"a.py": {"incompatible type str": 1}}

	opts := DefaultDiffOptions()
	opts.Similar = false
	changes := DiffReports(oldReport, newReport, opts)

	fc := changes.Files["a.py"]
	assert.Empty(t, fc.Similar)
	assert.Equal(t, []schema.MessageDelta{{Message: "incompatible type str", Count: 1}}, fc.New)
	assert.Equal(t, []schema.MessageDelta{{Message: "incompatible type int", Count: 1}}, fc.Resolved)
}

func TestDiffReports_UnrelatedMessagesNotPaired(t *testing.T) {
	oldReport := schema.Report{"a.py": {"Missing return statement": 1}}
	newReport := schema.Report{"a.py": {"Unsupported operand types": 1}}

	changes := DiffReports(oldReport, newReport, DefaultDiffOptions())

	fc := changes.Files["a.py"]
	assert.Empty(t, fc.Similar)
	assert.Len(t, fc.New, 1)
	assert.Len(t, fc.Resolved, 1)
}

func TestDiffReports_SparseFiles(t *testing.T) {
	oldReport := schema.Report{
		"same.py":  {"boom": 1},
		"fixed.py": {"leak": 2},
	}
	newReport := schema.Report{
		"same.py": {"boom": 1},
		"new.py":  {"crash": 1},
	}

	changes := DiffReports(oldReport, newReport, DefaultDiffOptions())

	assert.NotContains(t, changes.Files, "same.py", "unchanged files must be omitted")
	assert.Contains(t, changes.Files, "fixed.py")
	assert.Contains(t, changes.Files, "new.py")
	assert.Equal(t, []string{"fixed.py", "new.py"}, changes.SortedFiles())
}

func TestMatchSimilar_GreedyBestMatch(t *testing.T) {
	added := []string{"incompatible type str value"}
	removed := []string{
		"incompatible type int value",
		"completely different message",
	}

	opts := DefaultDiffOptions()
	pairs, restAdded, restRemoved := matchSimilar(added, removed, opts)

	require.Len(t, pairs, 1)
	assert.Equal(t, "incompatible type int value", pairs[0].Old)
	assert.Empty(t, restAdded)
	assert.Equal(t, []string{"completely different message"}, restRemoved)
}

func TestMatchSimilar_NoMatchBelowThreshold(t *testing.T) {
	opts := DefaultDiffOptions()
	opts.Threshold = 0.99

	pairs, restAdded, restRemoved := matchSimilar(
		[]string{"incompatible type str"},
		[]string{"incompatible type int"},
		opts,
	)

	assert.Empty(t, pairs)
	assert.Len(t, restAdded, 1)
	assert.Len(t, restRemoved, 1)
}
