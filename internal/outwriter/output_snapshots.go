package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSnapshotList outputs snapshot metadata, dispatching based on the
// output format configured. Report payloads are not included; use
// 'snapshot show' for a full report.
func WriteSnapshotList(records []schema.SnapshotRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.CSVOut:
		if err := writeSnapshotCSVResults(records, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records, cfg.Indent)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	default:
		// Snapshot listings are for humans first, so text wins over JSON here
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotTable(records, w)
		}, "Wrote table")
	}
	return nil
}

// writeSnapshotCSVResults handles opening the file and calling the CSV writer.
func writeSnapshotCSVResults(records []schema.SnapshotRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"id", "label", "created_at", "total_errors", "total_files"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, rec := range records {
				row := []string{
					strconv.FormatInt(rec.ID, 10),
					rec.Label,
					rec.CreatedAt.Format("2006-01-02 15:04:05"),
					strconv.Itoa(rec.TotalErrors),
					strconv.Itoa(rec.TotalFiles),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeSnapshotTable generates and writes the human-readable snapshot listing.
func writeSnapshotTable(records []schema.SnapshotRecord, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"ID", "Label", "Created", "Errors", "Files"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, rec := range records {
		label := rec.Label
		if label == "" {
			label = "-"
		}
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			label,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			strconv.Itoa(rec.TotalErrors),
			strconv.Itoa(rec.TotalFiles),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d snapshots\n", len(records)); err != nil {
		return err
	}
	return nil
}
