package core

import (
	"strings"
	"testing"
)

// FuzzParseDiagnostic fuzzes the line parser with arbitrary checker output.
func FuzzParseDiagnostic(f *testing.F) {
	seeds := []string{
		`app/main.py:12: error: Incompatible types in assignment`,
		`app/main.py:12:5: error: Name "x" is not defined`,
		`app/broken.py: error: Duplicate module named "app"`,
		`app/main.py:8: note: Use "-> None" if function does not return a value`,
		`Found 3 errors in 1 file (checked 3 source files)`,
		`Success: no issues found in 24 source files`,
		``,
		`:::`,
		`a:b:c: error: d`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		diag, ok := ParseDiagnostic(line)
		if !ok {
			return
		}
		// Accepted lines must carry a file, a severity and a message, and
		// never a negative line number.
		if diag.File == "" {
			t.Errorf("accepted diagnostic with empty file: %q", line)
		}
		if diag.Severity == "" || diag.Message == "" {
			t.Errorf("accepted diagnostic with empty severity or message: %q", line)
		}
		if diag.Line < 0 {
			t.Errorf("negative line number %d for %q", diag.Line, line)
		}
		if diag.Raw != line {
			t.Errorf("raw line mismatch for %q", line)
		}
	})
}

// FuzzBuildReport fuzzes the report builder with arbitrary multi-line input.
func FuzzBuildReport(f *testing.F) {
	f.Add("a.py:1: error: boom\nb.py:2: note: fine\n")
	f.Add("garbage line\n\n\n")
	f.Add("a.py: error: file level\nFound 1 error in 1 file\n")

	f.Fuzz(func(t *testing.T, input string) {
		report, err := BuildReport(strings.NewReader(input))
		if err != nil {
			// Only pathological scanner input (oversized lines) may error
			return
		}
		// All recorded counts must be positive, whatever the input was
		for file, counts := range report {
			if file == "" {
				t.Errorf("report contains empty file key for input %q", input)
			}
			for msg, n := range counts {
				if n < 1 {
					t.Errorf("non-positive count %d for %q/%q", n, file, msg)
				}
			}
		}
	})
}
