package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/typegate/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(SnapshotRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"snapshot_id",
		"label",
		"created_at",
		"total_errors",
		"total_files",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestSnapshotErrorRowStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(SnapshotErrorRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"snapshot_id",
		"file_path",
		"message",
		"count",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertSnapshotRecords(t *testing.T) {
	records := []schema.SnapshotRecord{
		{
			ID:          1,
			Label:       "release-1.2",
			CreatedAt:   time.Now(),
			TotalErrors: 3,
			TotalFiles:  2,
			Report: schema.Report{
				"b.py": {"leak": 1},
				"a.py": {"crash": 1, "boom": 1},
			},
		},
		{
			ID:          2,
			CreatedAt:   time.Now(),
			TotalErrors: 0,
			TotalFiles:  0,
			Report:      schema.Report{},
		},
	}

	snapshots, errors := ConvertSnapshotRecords(records)

	require.Len(t, snapshots, 2)
	assert.Equal(t, int64(1), snapshots[0].SnapshotID)
	assert.Equal(t, "release-1.2", snapshots[0].Label)
	assert.Equal(t, int32(3), snapshots[0].TotalErrors)
	assert.Equal(t, int32(2), snapshots[0].TotalFiles)

	// Error rows are flattened in sorted (file, message) order
	require.Len(t, errors, 3)
	assert.Equal(t, "a.py", errors[0].FilePath)
	assert.Equal(t, "boom", errors[0].Message)
	assert.Equal(t, "a.py", errors[1].FilePath)
	assert.Equal(t, "crash", errors[1].Message)
	assert.Equal(t, "b.py", errors[2].FilePath)
	assert.Equal(t, "leak", errors[2].Message)
}

func TestWriteSnapshotErrorsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "snapshot_errors.parquet")

	data := []SnapshotErrorRow{
		{SnapshotID: 1, FilePath: "a.py", Message: "boom", Count: 2},
		{SnapshotID: 1, FilePath: "b.py", Message: "leak", Count: 1},
	}

	err := WriteSnapshotErrorsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[SnapshotErrorRow](file)
	defer reader.Close()

	readData := make([]SnapshotErrorRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")
	assert.Equal(t, data, readData)
}

func TestWriteSnapshotsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "snapshots.parquet")

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	data := []SnapshotRow{
		{SnapshotID: 1, Label: "nightly", CreatedAt: created, TotalErrors: 3, TotalFiles: 2},
	}

	err := WriteSnapshotsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[SnapshotRow](file)
	defer reader.Close()

	readData := make([]SnapshotRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	require.Equal(t, 1, n, "Should read all records")
	assert.Equal(t, data[0].SnapshotID, readData[0].SnapshotID)
	assert.Equal(t, data[0].Label, readData[0].Label)
	assert.WithinDuration(t, created, readData[0].CreatedAt, time.Nanosecond)
	assert.Equal(t, data[0].TotalErrors, readData[0].TotalErrors)
	assert.Equal(t, data[0].TotalFiles, readData[0].TotalFiles)
}
