package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/internal/outwriter"
	"github.com/huangsam/typegate/schema"
)

// writer renders all executor output in the configured format.
var writer = outwriter.NewOutWriter()

// ExecuteParse reads raw checker output and writes the aggregated report.
// It serves as the main entry point for the 'parse' command.
//
// With a baseline configured, the change report additionally goes to stderr
// so that a redirected report file stays valid JSON, and the exit code
// reflects the configured fail policy.
func ExecuteParse(ctx context.Context, cfg *contract.Config, mgr contract.SnapshotManager) error {
	start := time.Now()

	report, err := buildReportFromInput(cfg)
	if err != nil {
		return err
	}

	if cfg.UseSnapshot {
		if err := saveSnapshot(mgr, cfg.Label, report); err != nil {
			contract.LogWarn("Snapshot save failed", err)
		}
	}

	if err := writer.Report(report, cfg); err != nil {
		return err
	}

	if cfg.BaselinePath == "" {
		return nil
	}

	baseline, err := loadReportFile(cfg.BaselinePath)
	if err != nil {
		return fmt.Errorf("failed to load baseline report: %w", err)
	}
	changes := DiffReports(baseline, report, diffOptionsFor(cfg))
	if err := writer.ChangesTo(os.Stderr, changes, cfg, time.Since(start)); err != nil {
		return err
	}
	return gateOnChanges(changes, cfg.FailOn)
}

// ExecuteDiff compares two stored reports and writes the change set.
// It serves as the main entry point for the 'diff' command.
func ExecuteDiff(ctx context.Context, cfg *contract.Config, mgr contract.SnapshotManager) error {
	start := time.Now()

	oldReport, err := loadReportFile(cfg.OldReportPath)
	if err != nil {
		return fmt.Errorf("failed to load old report: %w", err)
	}
	newReport, err := loadReportFile(cfg.NewReportPath)
	if err != nil {
		return fmt.Errorf("failed to load new report: %w", err)
	}

	changes := DiffReports(oldReport, newReport, diffOptionsFor(cfg))
	if err := writer.Changes(changes, cfg, time.Since(start)); err != nil {
		return err
	}
	return gateOnChanges(changes, cfg.FailOn)
}

// ExecuteCheck parses fresh checker output, compares it against a baseline
// report or stored snapshot, and gates on the result. It serves as the main
// entry point for the 'check' command used in CI pipelines.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.SnapshotManager) error {
	start := time.Now()

	report, err := buildReportFromInput(cfg)
	if err != nil {
		return err
	}

	baseline, err := resolveBaseline(cfg, mgr)
	if err != nil {
		return err
	}

	changes := DiffReports(baseline, report, diffOptionsFor(cfg))
	if err := writer.Changes(changes, cfg, time.Since(start)); err != nil {
		return err
	}

	// Persist the fresh report after a successful comparison so a failed
	// write never advances the baseline.
	if cfg.UseSnapshot {
		if err := saveSnapshot(mgr, cfg.Label, report); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	return gateOnChanges(changes, cfg.FailOn)
}

// ExecuteSnapshotSave parses checker output and persists the resulting
// report as a new snapshot.
func ExecuteSnapshotSave(ctx context.Context, cfg *contract.Config, mgr contract.SnapshotManager) error {
	report, err := buildReportFromInput(cfg)
	if err != nil {
		return err
	}

	store := snapshotStoreFor(mgr)
	if store == nil {
		return errors.New("no snapshot backend configured")
	}
	id, err := store.Save(cfg.Label, report, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	fmt.Printf("Saved snapshot %d with %d errors across %d files\n", id, report.TotalErrors(), report.TotalFiles())
	return nil
}

// buildReportFromInput reads raw checker output from the configured input
// (stdin by default) and aggregates it into a report.
func buildReportFromInput(cfg *contract.Config) (schema.Report, error) {
	in, err := contract.SelectInputFile(cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	if in != os.Stdin {
		defer func() { _ = in.Close() }()
	}

	report, err := BuildReport(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read checker output: %w", err)
	}
	return report, nil
}

// loadReportFile decodes a previously written JSON report from disk.
func loadReportFile(path string) (schema.Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return schema.DecodeReport(file)
}

// resolveBaseline returns the report to compare against: an explicit baseline
// file when given, otherwise the referenced (or latest) snapshot. A missing
// snapshot counts as an empty baseline, so first runs report everything as new
// instead of failing.
func resolveBaseline(cfg *contract.Config, mgr contract.SnapshotManager) (schema.Report, error) {
	if cfg.BaselinePath != "" {
		baseline, err := loadReportFile(cfg.BaselinePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load baseline report: %w", err)
		}
		return baseline, nil
	}

	store := snapshotStoreFor(mgr)
	if store == nil {
		return nil, errors.New("no baseline report and no snapshot backend configured")
	}

	var rec *schema.SnapshotRecord
	var err error
	if cfg.SnapshotRef != "" {
		rec, err = store.GetByLabel(cfg.SnapshotRef)
	} else {
		rec, err = store.Latest()
	}
	if errors.Is(err, contract.ErrNoSnapshots) {
		contract.LogWarn("No baseline snapshot found, comparing against empty report", err)
		return make(schema.Report), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline snapshot: %w", err)
	}
	return rec.Report, nil
}

// saveSnapshot persists a report through the manager's store.
func saveSnapshot(mgr contract.SnapshotManager, label string, report schema.Report) error {
	store := snapshotStoreFor(mgr)
	if store == nil {
		return errors.New("no snapshot backend configured")
	}
	_, err := store.Save(label, report, time.Now())
	return err
}

// snapshotStoreFor unwraps the store from an optional manager.
func snapshotStoreFor(mgr contract.SnapshotManager) contract.SnapshotStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSnapshotStore()
}

// diffOptionsFor maps the validated config onto diff options.
func diffOptionsFor(cfg *contract.Config) DiffOptions {
	return DiffOptions{
		Similar:   cfg.Similar,
		Threshold: cfg.SimilarThresh,
		Metric:    NewSimilarity(cfg.SimilarMetric),
	}
}

// gateOnChanges maps a change set onto the configured fail policy.
func gateOnChanges(changes schema.ChangeSet, policy schema.FailPolicy) error {
	switch policy {
	case schema.FailOnNone:
		return nil
	case schema.FailOnNew:
		if changes.Summary.NewErrors > 0 {
			return contract.ErrChangesFound
		}
		return nil
	default:
		if !changes.Empty() {
			return contract.ErrChangesFound
		}
		return nil
	}
}
