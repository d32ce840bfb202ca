package snapstore

import (
	"errors"
	"fmt"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/internal/parquet"
	"github.com/huangsam/typegate/schema"
)

// ExecuteSnapshotExport exports the full snapshot history to Parquet files.
func ExecuteSnapshotExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetSnapshotStore()
	if store == nil {
		return errors.New("no snapshot backend configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get snapshot status: %w", err)
	}
	if status.TotalSnapshots == 0 {
		return errors.New("no snapshot data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d\n", status.TotalSnapshots)

	// The listing carries no report payloads, so fetch each record in full
	listed, err := store.List(contract.MaxSnapshotLimit)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	records := make([]schema.SnapshotRecord, 0, len(listed))
	for _, rec := range listed {
		full, err := store.Get(rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load snapshot %d: %w", rec.ID, err)
		}
		records = append(records, *full)
	}

	snapshots, errorRows := parquet.ConvertSnapshotRecords(records)

	snapshotsFile := outputFile + ".snapshots.parquet"
	if err := parquet.WriteSnapshotsParquet(snapshots, snapshotsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	fmt.Printf("Exported %d snapshots to: %s\n", len(snapshots), snapshotsFile)

	errorsFile := outputFile + ".snapshot_errors.parquet"
	if err := parquet.WriteSnapshotErrorsParquet(errorRows, errorsFile); err != nil {
		return fmt.Errorf("failed to write snapshot errors: %w", err)
	}
	fmt.Printf("Exported %d error records to: %s\n", len(errorRows), errorsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
