package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/internal/snapstore"
	"github.com/huangsam/typegate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testConfig returns a validated config pointed at a temp output file so
// tests never write to stdout.
func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		OutputFile:    filepath.Join(t.TempDir(), "out.json"),
		Output:        schema.JSONOut,
		Indent:        contract.DefaultIndent,
		FailOn:        schema.FailOnAny,
		Similar:       true,
		SimilarThresh: contract.DefaultSimilarThreshold,
		SimilarMetric: schema.LevenshteinMetric,
		SnapshotLimit: contract.DefaultSnapshotLimit,
	}
}

// writeReportFile marshals a report to a temp JSON file and returns its path.
func writeReportFile(t *testing.T, report schema.Report) string {
	t.Helper()
	data, err := json.Marshal(report)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeInputFile writes raw checker output to a temp file and returns its path.
func writeInputFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mypy.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newMockManager(store contract.SnapshotStore) *snapstore.MockSnapshotManager {
	mgr := &snapstore.MockSnapshotManager{}
	mgr.On("GetSnapshotStore").Return(store)
	return mgr
}

func TestGateOnChanges(t *testing.T) {
	withNew := schema.ChangeSet{
		Files:   map[string]schema.FileChanges{"a.py": {New: []schema.MessageDelta{{Message: "boom", Count: 1}}}},
		Summary: schema.ChangeSummary{NewErrors: 1, ChangedFiles: 1},
	}
	resolvedOnly := schema.ChangeSet{
		Files:   map[string]schema.FileChanges{"a.py": {Resolved: []schema.MessageDelta{{Message: "boom", Count: 1}}}},
		Summary: schema.ChangeSummary{ResolvedErrors: 1, ChangedFiles: 1},
	}
	empty := schema.ChangeSet{}

	tests := []struct {
		name    string
		changes schema.ChangeSet
		policy  schema.FailPolicy
		wantErr bool
	}{
		{"any policy trips on new", withNew, schema.FailOnAny, true},
		{"any policy trips on resolved", resolvedOnly, schema.FailOnAny, true},
		{"any policy passes when empty", empty, schema.FailOnAny, false},
		{"new policy trips on new", withNew, schema.FailOnNew, true},
		{"new policy ignores resolved", resolvedOnly, schema.FailOnNew, false},
		{"none policy never trips", withNew, schema.FailOnNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := gateOnChanges(tc.changes, tc.policy)
			if tc.wantErr {
				assert.ErrorIs(t, err, contract.ErrChangesFound)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecuteDiff(t *testing.T) {
	ctx := context.Background()

	t.Run("changed reports trip the gate", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.OldReportPath = writeReportFile(t, schema.Report{"a.py": {"boom": 1}})
		cfg.NewReportPath = writeReportFile(t, schema.Report{"a.py": {"boom": 2}})

		err := ExecuteDiff(ctx, cfg, nil)
		assert.ErrorIs(t, err, contract.ErrChangesFound)

		data, readErr := os.ReadFile(cfg.OutputFile)
		require.NoError(t, readErr)
		var changes schema.ChangeSet
		require.NoError(t, json.Unmarshal(data, &changes))
		assert.Equal(t, 1, changes.Summary.NewErrors)
	})

	t.Run("identical reports pass", func(t *testing.T) {
		cfg := testConfig(t)
		report := schema.Report{"a.py": {"boom": 1}}
		cfg.OldReportPath = writeReportFile(t, report)
		cfg.NewReportPath = writeReportFile(t, report)

		assert.NoError(t, ExecuteDiff(ctx, cfg, nil))
	})

	t.Run("missing old report fails", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.OldReportPath = filepath.Join(t.TempDir(), "missing.json")
		cfg.NewReportPath = writeReportFile(t, schema.Report{})

		err := ExecuteDiff(ctx, cfg, nil)
		assert.ErrorContains(t, err, "failed to load old report")
	})
}

func TestResolveBaseline(t *testing.T) {
	stored := schema.Report{"a.py": {"boom": 2}}

	t.Run("baseline file wins over snapshots", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.BaselinePath = writeReportFile(t, stored)

		baseline, err := resolveBaseline(cfg, nil)
		require.NoError(t, err)
		assert.True(t, baseline.Equal(stored))
	})

	t.Run("latest snapshot by default", func(t *testing.T) {
		store := &snapstore.MockSnapshotStore{}
		store.On("Latest").Return(&schema.SnapshotRecord{ID: 1, Report: stored}, nil)

		baseline, err := resolveBaseline(testConfig(t), newMockManager(store))
		require.NoError(t, err)
		assert.True(t, baseline.Equal(stored))
		store.AssertExpectations(t)
	})

	t.Run("labelled snapshot when referenced", func(t *testing.T) {
		store := &snapstore.MockSnapshotStore{}
		store.On("GetByLabel", "release-1.2").Return(&schema.SnapshotRecord{ID: 3, Label: "release-1.2", Report: stored}, nil)

		cfg := testConfig(t)
		cfg.SnapshotRef = "release-1.2"
		baseline, err := resolveBaseline(cfg, newMockManager(store))
		require.NoError(t, err)
		assert.True(t, baseline.Equal(stored))
		store.AssertExpectations(t)
	})

	t.Run("missing snapshot means empty baseline", func(t *testing.T) {
		store := &snapstore.MockSnapshotStore{}
		store.On("Latest").Return(nil, contract.ErrNoSnapshots)

		baseline, err := resolveBaseline(testConfig(t), newMockManager(store))
		require.NoError(t, err)
		assert.Empty(t, baseline)
	})

	t.Run("no backend and no baseline file fails", func(t *testing.T) {
		_, err := resolveBaseline(testConfig(t), newMockManager(nil))
		assert.Error(t, err)
	})
}

func TestExecuteCheck(t *testing.T) {
	ctx := context.Background()
	input := "a.py:1: error: boom\n"

	t.Run("saves snapshot after a clean comparison", func(t *testing.T) {
		store := &snapstore.MockSnapshotStore{}
		store.On("Latest").Return(&schema.SnapshotRecord{ID: 1, Report: schema.Report{"a.py": {"boom": 1}}}, nil)
		store.On("Save", "", mock.Anything, mock.Anything).Return(int64(2), nil)

		cfg := testConfig(t)
		cfg.InputFile = writeInputFile(t, input)
		cfg.UseSnapshot = true

		assert.NoError(t, ExecuteCheck(ctx, cfg, newMockManager(store)))
		store.AssertExpectations(t)
	})

	t.Run("gates on new errors against empty baseline", func(t *testing.T) {
		store := &snapstore.MockSnapshotStore{}
		store.On("Latest").Return(nil, contract.ErrNoSnapshots)

		cfg := testConfig(t)
		cfg.InputFile = writeInputFile(t, input)

		err := ExecuteCheck(ctx, cfg, newMockManager(store))
		assert.ErrorIs(t, err, contract.ErrChangesFound)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestExecuteParse(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the aggregated report", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InputFile = writeInputFile(t, "a.py:1: error: boom\na.py:9: error: boom\n")

		require.NoError(t, ExecuteParse(ctx, cfg, nil))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var report schema.Report
		require.NoError(t, json.Unmarshal(data, &report))
		assert.Equal(t, 2, report["a.py"]["boom"])
	})

	t.Run("gates against a baseline file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InputFile = writeInputFile(t, "a.py:1: error: boom\n")
		cfg.BaselinePath = writeReportFile(t, schema.Report{})

		err := ExecuteParse(ctx, cfg, nil)
		assert.ErrorIs(t, err, contract.ErrChangesFound)
	})
}

func TestExecuteSnapshotSave(t *testing.T) {
	store := &snapstore.MockSnapshotStore{}
	store.On("Save", "nightly", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(7), nil)

	cfg := testConfig(t)
	cfg.InputFile = writeInputFile(t, "a.py:1: error: boom\n")
	cfg.Label = "nightly"

	assert.NoError(t, ExecuteSnapshotSave(context.Background(), cfg, newMockManager(store)))
	store.AssertExpectations(t)
}
