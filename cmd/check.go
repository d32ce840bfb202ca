package cmd

import (
	"github.com/huangsam/typegate/core"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD gating.
var checkCmd = &cobra.Command{
	Use:   "check [input-file]",
	Short: "Gate CI on changes against a baseline report or snapshot (fails build on changes)",
	Long: `Parse fresh checker output and compare it against a known-good baseline.

The baseline is an explicit report file when --baseline is given, otherwise
the labelled (or latest) stored snapshot. A missing snapshot counts as an
empty baseline, so the first run reports every error as new instead of
failing outright.

Designed for CI integration - exits non-zero when the comparison finds
changes, per the --fail-on policy.

Examples:
  # Gate a pull request against the latest snapshot
  mypy . | typegate check

  # Gate against a specific labelled snapshot
  mypy . | typegate check --snapshot-label release-1.2

  # Gate against a committed report file
  mypy . | typegate check --baseline known-errors.json

  # Advance the snapshot after a clean comparison
  mypy . | typegate check --snapshot --label nightly --fail-on new`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteCheck(rootCtx, cfg, snapshotManager)
	},
}
