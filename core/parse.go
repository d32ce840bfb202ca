package core

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"github.com/huangsam/typegate/schema"
)

// Checker output comes in two recognized shapes. Everything else (summary
// footers like "Found 3 errors in 1 file", blank lines, future formats) is
// noise and gets dropped without complaint, because the upstream tool's
// stdout is not contractually stable line-by-line.
var (
	// path:line: severity: message, with an optional column segment.
	lineDiagRe = regexp.MustCompile(`^([^:\s][^:]*):(\d+)(?::\d+)?: ([a-z]+): (.+)$`)

	// path: severity: message, emitted for file-level problems.
	fileDiagRe = regexp.MustCompile(`^([^:\s][^:]*): ([a-z]+): (.+)$`)
)

// ParseDiagnostic attempts to parse one raw line of checker output.
// The second return value is false for non-diagnostic lines.
func ParseDiagnostic(line string) (schema.Diagnostic, bool) {
	if m := lineDiagRe.FindStringSubmatch(line); m != nil {
		num, err := strconv.Atoi(m[2])
		if err == nil {
			return schema.Diagnostic{
				File:     m[1],
				Line:     num,
				Severity: schema.Severity(m[3]),
				Message:  m[4],
				Raw:      line,
			}, true
		}
	}
	if m := fileDiagRe.FindStringSubmatch(line); m != nil {
		return schema.Diagnostic{
			File:     m[1],
			Severity: schema.Severity(m[2]),
			Message:  m[3],
			Raw:      line,
		}, true
	}
	return schema.Diagnostic{}, false
}

// ReportBuilder accumulates diagnostics into a report. Only error-severity
// diagnostics contribute; notes are auxiliary context attached to the
// preceding error and carry no new signal. Input does not need to be grouped
// by file since the checker may interleave output under parallel runs.
type ReportBuilder struct {
	report schema.Report
}

// NewReportBuilder creates an empty builder.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{report: make(schema.Report)}
}

// AddLine parses and records one raw line. Non-diagnostic lines and
// non-error severities are ignored.
func (b *ReportBuilder) AddLine(line string) {
	diag, ok := ParseDiagnostic(line)
	if !ok {
		return
	}
	b.Add(diag)
}

// Add records one parsed diagnostic. Line numbers are erased here: two
// diagnostics differing only in line number increment the same entry.
func (b *ReportBuilder) Add(diag schema.Diagnostic) {
	if diag.Severity != schema.ErrorSeverity {
		return
	}
	b.report.Add(diag.File, diag.Message)
}

// Report returns the accumulated report.
func (b *ReportBuilder) Report() schema.Report {
	return b.report
}

// BuildReport consumes all lines from r and returns the resulting report.
// Parsing itself never fails; the only possible error is a read failure from
// the underlying reader.
func BuildReport(r io.Reader) (schema.Report, error) {
	builder := NewReportBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		builder.AddLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return builder.Report(), nil
}
