// Package parquet provides data structures and functions for exporting
// snapshot history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/huangsam/typegate/schema"
	"github.com/parquet-go/parquet-go"
)

// SnapshotRow represents one persisted snapshot with its metadata.
// This struct maps to the typegate_snapshots database table.
type SnapshotRow struct {
	// SnapshotID is the unique identifier for this snapshot
	SnapshotID int64 `parquet:"snapshot_id,snappy"`

	// Label is the optional user-supplied snapshot label
	Label string `parquet:"label,snappy"`

	// CreatedAt is when the snapshot was taken (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// TotalErrors is the error count of the snapshotted report
	TotalErrors int32 `parquet:"total_errors,snappy"`

	// TotalFiles is the number of files with errors in the snapshotted report
	TotalFiles int32 `parquet:"total_files,snappy"`
}

// SnapshotErrorRow represents one (file, message) entry of a snapshotted
// report, flattened for columnar analysis across snapshots.
type SnapshotErrorRow struct {
	// SnapshotID references the parent snapshot
	SnapshotID int64 `parquet:"snapshot_id,snappy"`

	// FilePath is the file the error was reported against
	FilePath string `parquet:"file_path,snappy"`

	// Message is the normalized error message text
	Message string `parquet:"message,snappy"`

	// Count is the number of occurrences of the message in the file
	Count int32 `parquet:"count,snappy"`
}

// ConvertSnapshotRecords flattens snapshot records into the two Parquet row
// shapes: one row per snapshot, and one row per (snapshot, file, message).
func ConvertSnapshotRecords(records []schema.SnapshotRecord) ([]SnapshotRow, []SnapshotErrorRow) {
	snapshots := make([]SnapshotRow, 0, len(records))
	var errors []SnapshotErrorRow

	for _, rec := range records {
		snapshots = append(snapshots, SnapshotRow{
			SnapshotID:  rec.ID,
			Label:       rec.Label,
			CreatedAt:   rec.CreatedAt,
			TotalErrors: int32(rec.TotalErrors),
			TotalFiles:  int32(rec.TotalFiles),
		})
		for _, file := range rec.Report.SortedFiles() {
			counts := rec.Report[file]
			for _, msg := range sortedMessages(counts) {
				errors = append(errors, SnapshotErrorRow{
					SnapshotID: rec.ID,
					FilePath:   file,
					Message:    msg,
					Count:      int32(counts[msg]),
				})
			}
		}
	}

	return snapshots, errors
}

// WriteSnapshotsParquet writes a slice of SnapshotRow structs to a Parquet file.
func WriteSnapshotsParquet(data []SnapshotRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSnapshotErrorsParquet writes a slice of SnapshotErrorRow structs to a Parquet file.
func WriteSnapshotErrorsParquet(data []SnapshotErrorRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows to a Parquet file using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the row struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchSnapshotRecords generates sample snapshot records for demonstration.
func MockFetchSnapshotRecords() []schema.SnapshotRecord {
	now := time.Now()

	return []schema.SnapshotRecord{
		{
			ID:          1,
			Label:       "release-1.1",
			CreatedAt:   now.Add(-48 * time.Hour),
			TotalErrors: 5,
			TotalFiles:  2,
			Report: schema.Report{
				"app/main.py": {
					"Incompatible types in assignment": 3,
					"Missing return statement":         1,
				},
				"app/util.py": {
					`Unsupported operand types for + ("int" and "str")`: 1,
				},
			},
		},
		{
			ID:          2,
			Label:       "release-1.2",
			CreatedAt:   now.Add(-24 * time.Hour),
			TotalErrors: 3,
			TotalFiles:  2,
			Report: schema.Report{
				"app/main.py": {
					"Incompatible types in assignment": 2,
				},
				"app/util.py": {
					`Unsupported operand types for + ("int" and "str")`: 1,
				},
			},
		},
		{
			ID:          3,
			CreatedAt:   now.Add(-10 * time.Minute),
			TotalErrors: 2,
			TotalFiles:  1,
			Report: schema.Report{
				"app/main.py": {
					"Incompatible types in assignment": 2,
				},
			},
		},
	}
}

// sortedMessages returns the message keys in lexicographic order so export
// output is reproducible for identical snapshots.
func sortedMessages(counts schema.MessageCounts) []string {
	msgs := make([]string, 0, len(counts))
	for msg := range counts {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return msgs
}
