package cmd

import (
	"github.com/huangsam/typegate/core"
	"github.com/spf13/cobra"
)

// diffCmd compares two stored reports.
var diffCmd = &cobra.Command{
	Use:   "diff <old-report> <new-report>",
	Short: "Compare two JSON error reports and classify the differences.",
	Long: `Compare two previously written reports and bucket every difference into
new errors, resolved errors, and similar pairs.

A message present on both sides with a changed count contributes only the
delta. Messages that vanished and appeared in the same file are fuzzy-matched
so a reworded or line-shifted diagnostic is reported as one similar pair
rather than as a false new-plus-resolved couple.

The exit code follows --fail-on: any change (default), only new errors, or
never.

Examples:
  # Diff two report files
  typegate diff old.json new.json

  # Colored human-readable change report
  typegate diff old.json new.json --output text

  # Only fail the build when errors were added
  typegate diff old.json new.json --fail-on new

  # Disable fuzzy pairing of reworded messages
  typegate diff old.json new.json --similar no`,
	Args:    cobra.ExactArgs(2),
	PreRunE: diffSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteDiff(rootCtx, cfg, snapshotManager)
	},
}
