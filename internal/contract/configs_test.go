package contract

import (
	"testing"

	"github.com/huangsam/typegate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput mirrors the defaults that viper seeds before unmarshalling.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:           "json",
		Indent:           DefaultIndent,
		Color:            "yes",
		Similar:          "yes",
		SimilarThreshold: DefaultSimilarThreshold,
		SimilarMetric:    "levenshtein",
		FailOn:           "any",
		Limit:            DefaultSnapshotLimit,
		SnapshotBackend:  "sqlite",
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, DefaultIndent, cfg.Indent)
	assert.True(t, cfg.UseColors)
	assert.True(t, cfg.Similar)
	assert.Equal(t, DefaultSimilarThreshold, cfg.SimilarThresh)
	assert.Equal(t, schema.LevenshteinMetric, cfg.SimilarMetric)
	assert.Equal(t, schema.FailOnAny, cfg.FailOn)
	assert.Equal(t, schema.SQLiteBackend, cfg.SnapshotBackend)
	assert.Equal(t, DefaultSnapshotLimit, cfg.SnapshotLimit)
}

func TestProcessAndValidate_FieldMapping(t *testing.T) {
	input := validRawInput()
	input.InputFileStr = "mypy.txt"
	input.OldReportPathStr = "old.json"
	input.NewReportPathStr = "new.json"
	input.Baseline = "baseline.json"
	input.Label = "  release-1.2  "
	input.SnapshotLabel = "prev"
	input.Snapshot = true
	input.Output = "TEXT"
	input.SimilarMetric = "Token"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "mypy.txt", cfg.InputFile)
	assert.Equal(t, "old.json", cfg.OldReportPath)
	assert.Equal(t, "new.json", cfg.NewReportPath)
	assert.Equal(t, "baseline.json", cfg.BaselinePath)
	assert.Equal(t, "release-1.2", cfg.Label, "labels are trimmed")
	assert.Equal(t, "prev", cfg.SnapshotRef)
	assert.True(t, cfg.UseSnapshot)
	assert.Equal(t, schema.TextOut, cfg.Output, "modes are case-insensitive")
	assert.Equal(t, schema.TokenMetric, cfg.SimilarMetric)
}

func TestProcessAndValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		wantErr string
	}{
		{"bad output mode", func(in *ConfigRawInput) { in.Output = "xml" }, "invalid output format"},
		{"negative indent", func(in *ConfigRawInput) { in.Indent = -1 }, "indent must be"},
		{"oversized indent", func(in *ConfigRawInput) { in.Indent = MaxIndent + 1 }, "indent must be"},
		{"bad color value", func(in *ConfigRawInput) { in.Color = "maybe" }, "invalid --color"},
		{"bad fail policy", func(in *ConfigRawInput) { in.FailOn = "sometimes" }, "invalid fail policy"},
		{"zero limit", func(in *ConfigRawInput) { in.Limit = 0 }, "limit must be"},
		{"oversized limit", func(in *ConfigRawInput) { in.Limit = MaxSnapshotLimit + 1 }, "limit must be"},
		{"bad similar value", func(in *ConfigRawInput) { in.Similar = "perhaps" }, "invalid --similar"},
		{"zero threshold", func(in *ConfigRawInput) { in.SimilarThreshold = 0 }, "similar-threshold"},
		{"threshold above one", func(in *ConfigRawInput) { in.SimilarThreshold = 1.5 }, "similar-threshold"},
		{"bad metric", func(in *ConfigRawInput) { in.SimilarMetric = "cosine" }, "invalid similarity metric"},
		{"bad backend", func(in *ConfigRawInput) { in.SnapshotBackend = "oracle" }, "invalid snapshot backend"},
		{"mysql without connection", func(in *ConfigRawInput) { in.SnapshotBackend = "mysql" }, "snapshot-db-connect is required"},
		{"postgres without connection", func(in *ConfigRawInput) { in.SnapshotBackend = "postgresql" }, "snapshot-db-connect is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validRawInput()
			tc.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"valid mysql", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/typegate", false},
		{"mysql missing tcp host", schema.MySQLBackend, "user:pass/typegate", true},
		{"valid postgres", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=typegate", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost port=5432", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=typegate", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tc.backend, tc.connStr)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
