package cmd

import (
	"github.com/huangsam/typegate/core"
	"github.com/spf13/cobra"
)

// parseCmd turns raw checker output into the aggregated JSON report.
var parseCmd = &cobra.Command{
	Use:   "parse [input-file]",
	Short: "Aggregate raw checker output into a JSON error report.",
	Long: `Read mypy-style diagnostics from stdin (or a file) and aggregate them into
a JSON report of error counts per file and message.

Line numbers are deliberately erased during aggregation, so the report stays
stable when unrelated edits shift code around. Notes and warnings are
dropped; summary lines and other noise are ignored.

Examples:
  # Pipe checker output straight into a report
  mypy . | typegate parse > report.json

  # Compare against a previous report while producing the new one
  mypy . | typegate parse --baseline report.json > new-report.json

  # Store the fresh report as a snapshot for later runs
  mypy . | typegate parse --snapshot --label nightly

  # Human-readable per-file summary instead of JSON
  mypy . | typegate parse --output text`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteParse(rootCtx, cfg, snapshotManager)
	},
}
