package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReport outputs an aggregated error report, dispatching based on the
// output format configured. JSON is the canonical shape that 'diff' and
// 'check' read back, so map keys are emitted in sorted order and the payload
// round-trips byte-for-byte for identical reports.
func WriteReport(report schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.CSVOut:
		if err := writeReportCSVResults(report, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, w)
		}, "Wrote table")
	default:
		// Default to the canonical JSON report
		if err := writeReportJSONResults(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	}
	return nil
}

// writeReportJSONResults handles opening the file and calling the JSON writer.
// encoding/json sorts map keys, which gives the canonical ordering for free.
func writeReportJSONResults(report schema.Report, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report, cfg.Indent)
	}, "Wrote JSON")
}

// writeReportCSVResults writes one row per (file, message) pair.
func writeReportCSVResults(report schema.Report, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"file", "message", "count"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, file := range report.SortedFiles() {
				for _, msg := range sortedMessages(report[file]) {
					row := []string{file, msg, strconv.Itoa(report[file][msg])}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeReportTable generates and writes the human-readable per-file summary.
func writeReportTable(report schema.Report, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"File", "Messages", "Errors"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, file := range report.SortedFiles() {
		counts := report[file]
		errors := 0
		for _, n := range counts {
			errors += n
		}
		row := []string{
			contract.TruncatePath(file, GetMaxTablePathWidth(cfg)),
			strconv.Itoa(len(counts)),
			strconv.Itoa(errors),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Found %d errors across %d files\n", report.TotalErrors(), report.TotalFiles()); err != nil {
		return err
	}
	return nil
}

// sortedMessages returns the message keys in lexicographic order.
func sortedMessages(counts schema.MessageCounts) []string {
	msgs := make([]string, 0, len(counts))
	for msg := range counts {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return msgs
}
