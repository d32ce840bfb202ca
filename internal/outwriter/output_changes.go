package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"
)

// WriteChanges outputs a change set to the configured output file,
// dispatching based on the output format configured.
func WriteChanges(changes schema.ChangeSet, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteChangeResults(w, changes, cfg, duration)
	}, "Wrote changes")
}

// WriteChangeResults outputs a change set to an explicit writer, dispatching
// based on the output format configured.
func WriteChangeResults(w io.Writer, changes schema.ChangeSet, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.CSVOut:
		if err := writeChangeCSVResults(w, changes); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.TextOut:
		return writeChangeText(w, changes, cfg, duration)
	default:
		if err := writeJSON(w, changes, cfg.Indent); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	}
	return nil
}

// writeChangeText writes the human-readable change report: one block per
// file, new occurrences in red, resolved in green, similar pairs in yellow.
func writeChangeText(w io.Writer, changes schema.ChangeSet, cfg *contract.Config, duration time.Duration) error {
	var red, green, yellow, bold func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
		bold = color.New(color.Bold).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
		bold = fmt.Sprint
	}

	if changes.Empty() {
		if _, err := fmt.Fprintf(w, "No changes detected (total errors: %d)\n", changes.Summary.TotalErrors); err != nil {
			return err
		}
		return nil
	}

	for _, file := range changes.SortedFiles() {
		fc := changes.Files[file]
		if _, err := fmt.Fprintf(w, "%s\n", bold(file)); err != nil {
			return err
		}
		for _, d := range fc.New {
			if _, err := fmt.Fprintf(w, "  %s\n", red(fmt.Sprintf("+ %s (x%d)", d.Message, d.Count))); err != nil {
				return err
			}
		}
		for _, d := range fc.Resolved {
			if _, err := fmt.Fprintf(w, "  %s\n", green(fmt.Sprintf("- %s (x%d)", d.Message, d.Count))); err != nil {
				return err
			}
		}
		for _, p := range fc.Similar {
			if _, err := fmt.Fprintf(w, "  %s\n", yellow(fmt.Sprintf("~ %s", p.Old))); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "  %s\n", yellow(fmt.Sprintf("  now: %s (%.2f)", p.New, p.Score))); err != nil {
				return err
			}
		}
	}

	s := changes.Summary
	if _, err := fmt.Fprintf(w, "New: %d, Resolved: %d, Similar: %d across %d files\n", s.NewErrors, s.ResolvedErrors, s.SimilarPairs, s.ChangedFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Comparison completed in %v (total errors now: %d)\n", duration, s.TotalErrors); err != nil {
		return err
	}
	return nil
}

// writeChangeCSVResults writes one row per classified change. New rows fill
// new_message, resolved rows fill old_message, similar rows fill both.
func writeChangeCSVResults(w io.Writer, changes schema.ChangeSet) error {
	header := []string{"file", "change", "old_message", "new_message", "count", "score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, file := range changes.SortedFiles() {
			fc := changes.Files[file]
			for _, d := range fc.New {
				row := []string{file, "new", "", d.Message, strconv.Itoa(d.Count), ""}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			for _, d := range fc.Resolved {
				row := []string{file, "resolved", d.Message, "", strconv.Itoa(d.Count), ""}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			for _, p := range fc.Similar {
				row := []string{file, "similar", p.Old, p.New, "", strconv.FormatFloat(p.Score, 'f', 2, 64)}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
