package cmd

import (
	"fmt"
	"strconv"

	"github.com/huangsam/typegate/core"
	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/internal/outwriter"
	"github.com/huangsam/typegate/internal/snapstore"
	"github.com/huangsam/typegate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotMigrateSetup loads minimal configuration needed for migrate
// operations. It does NOT initialize stores or create tables, allowing
// migrations to run on a fresh database.
func snapshotMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("snapshot-backend"))
	connStr := viper.GetString("snapshot-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return fmt.Errorf("%w: %w", contract.ErrBadArguments, err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr

	return nil
}

// snapshotCmd focused on snapshot management.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored report snapshots (baselines for check)",
	Long: `Manage the report snapshots that 'check' compares fresh runs against.

Snapshots persist whole reports with an optional label, so CI can ratchet
against "the last accepted state" without committing report files.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  save    - Parse checker output and store it as a snapshot
  list    - List stored snapshots, newest first
  show    - Print the report of one snapshot
  clear   - Remove all stored snapshots
  status  - Show backend statistics and connection info
  export  - Export snapshot history to Parquet files
  migrate - Run schema migrations on the snapshot database

Examples:
  # Store the current state as the baseline
  mypy . | typegate snapshot save --label release-1.2

  # See what is stored
  typegate snapshot list`,
}

// snapshotSaveCmd stores fresh checker output as a snapshot.
var snapshotSaveCmd = &cobra.Command{
	Use:   "save [input-file]",
	Short: "Parse checker output and store the report as a snapshot",
	Long: `Read checker output from stdin (or a file), aggregate it into a report,
and persist it as a new snapshot.

Examples:
  # Snapshot the current checker state
  mypy . | typegate snapshot save

  # Snapshot with a label for later reference
  mypy . | typegate snapshot save --label release-1.2`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteSnapshotSave(rootCtx, cfg, snapshotManager)
	},
}

// snapshotListCmd lists stored snapshots.
var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored snapshots, newest first",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := snapshotManager.GetSnapshotStore()
		if store == nil {
			return fmt.Errorf("no snapshot backend configured")
		}
		records, err := store.List(cfg.SnapshotLimit)
		if err != nil {
			return err
		}
		return outwriter.WriteSnapshotList(records, cfg)
	},
}

// snapshotShowCmd prints the report of one snapshot.
var snapshotShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the report stored in a snapshot",
	Long: `Print the full report of a snapshot, selected by ID, by label, or the
latest one when neither is given. The output is a regular report, so it can
be redirected to a file and used with 'diff' or 'check --baseline'.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		store := snapshotManager.GetSnapshotStore()
		if store == nil {
			return fmt.Errorf("no snapshot backend configured")
		}

		var rec *schema.SnapshotRecord
		var err error
		switch {
		case len(args) == 1:
			id, parseErr := strconv.ParseInt(args[0], 10, 64)
			if parseErr != nil {
				return fmt.Errorf("%w: invalid snapshot id %q", contract.ErrBadArguments, args[0])
			}
			rec, err = store.Get(id)
		case cfg.SnapshotRef != "":
			rec, err = store.GetByLabel(cfg.SnapshotRef)
		default:
			rec, err = store.Latest()
		}
		if err != nil {
			return err
		}
		return outwriter.WriteReport(rec.Report, cfg)
	},
}

// snapshotClearCmd clears all snapshots.
var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored snapshots",
	Long: `Delete all snapshot data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshots table

Examples:
  # Clear the default SQLite store
  typegate snapshot clear

  # Clear a MySQL store (set connection string via env variable)
  TYPEGATE_SNAPSHOT_BACKEND=mysql TYPEGATE_SNAPSHOT_DB_CONNECT="..." typegate snapshot clear`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := snapstore.ClearSnapshots(cfg.SnapshotBackend, contract.GetSnapshotDBFilePath(), cfg.SnapshotDBConnect); err != nil {
			return err
		}
		fmt.Println("Snapshots cleared successfully.")
		return nil
	},
}

// snapshotStatusCmd shows snapshot store status.
var snapshotStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display snapshot store statistics and connection details",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := snapshotManager.GetSnapshotStore()
		if store == nil {
			return fmt.Errorf("no snapshot backend configured")
		}
		status, err := store.GetStatus()
		if err != nil {
			return err
		}
		snapstore.PrintSnapshotStatus(status)
		return nil
	},
}

// snapshotExportCmd exports snapshot history to Parquet.
var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snapshot history to Parquet files",
	Long: `Export the full snapshot history to Parquet files for offline analysis.

Two files are written next to --output-file: one row per snapshot, and one
row per (snapshot, file, message) error entry.

Examples:
  # Export to ./history.snapshots.parquet and ./history.snapshot_errors.parquet
  typegate snapshot export --output-file history`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return snapstore.ExecuteSnapshotExport(cfg.OutputFile)
	},
}

// snapshotMigrateCmd runs schema migrations on the snapshot database.
var snapshotMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the snapshot database",
	Long: `Apply versioned schema migrations to the snapshot database.

Runs against a fresh database as well, so it can be used to provision the
schema before the first 'snapshot save'.

Examples:
  # Migrate to the latest schema version
  typegate snapshot migrate

  # Roll back everything
  typegate snapshot migrate --target-version 0`,
	PreRunE: snapshotMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return snapstore.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, viper.GetInt("target-version"))
	},
}
