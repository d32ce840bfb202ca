// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// Report prints an aggregated error report using the configured output format.
func (ow *OutWriter) Report(report schema.Report, cfg *contract.Config) error {
	return WriteReport(report, cfg)
}

// Changes prints a change set using the configured output format.
func (ow *OutWriter) Changes(changes schema.ChangeSet, cfg *contract.Config, duration time.Duration) error {
	return WriteChanges(changes, cfg, duration)
}

// ChangesTo prints a change set to an explicit writer, bypassing the
// output-file selection. Used for the stderr change report of 'parse'.
func (ow *OutWriter) ChangesTo(w io.Writer, changes schema.ChangeSet, cfg *contract.Config, duration time.Duration) error {
	return WriteChangeResults(w, changes, cfg, duration)
}

// Snapshots prints snapshot metadata using the configured output format.
func (ow *OutWriter) Snapshots(records []schema.SnapshotRecord, cfg *contract.Config) error {
	return WriteSnapshotList(records, cfg)
}
