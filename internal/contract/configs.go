package contract

import (
	"fmt"
	"strings"

	"github.com/huangsam/typegate/schema"
)

// Default values for configuration.
const (
	DefaultIndent           = 2
	MaxIndent               = 8
	DefaultSnapshotLimit    = 25
	MaxSnapshotLimit        = 1000
	DefaultSimilarThreshold = 0.7
)

// Config holds the runtime configuration for a typegate invocation.
// This struct remains the "final, validated" config.
type Config struct {
	InputFile  string
	OutputFile string
	Output     schema.OutputMode
	Indent     int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	BaselinePath  string
	FailOn        schema.FailPolicy
	Similar       bool
	SimilarThresh float64
	SimilarMetric schema.SimilarityMetric

	OldReportPath string // First positional arg of the diff command
	NewReportPath string // Second positional arg of the diff command

	Label         string
	SnapshotRef   string // Snapshot label to diff against; empty means latest
	UseSnapshot   bool
	SnapshotLimit int

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tags
	InputFileStr     string
	OldReportPathStr string
	NewReportPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Indent            int     `mapstructure:"indent"`
	Color             string  `mapstructure:"color"`
	Width             int     `mapstructure:"width"`
	Similar           string  `mapstructure:"similar"`
	SimilarThreshold  float64 `mapstructure:"similar-threshold"`
	SimilarMetric     string  `mapstructure:"similar-metric"`
	SnapshotBackend   string  `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string  `mapstructure:"snapshot-db-connect"`

	// --- Fields from parseCmd / checkCmd flags ---
	Baseline      string `mapstructure:"baseline"`
	FailOn        string `mapstructure:"fail-on"`
	Snapshot      bool   `mapstructure:"snapshot"`
	SnapshotLabel string `mapstructure:"snapshot-label"`

	// --- Fields from snapshot subcommand flags ---
	Label string `mapstructure:"label"`
	Limit int    `mapstructure:"limit"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSimilarity(cfg, input); err != nil {
		return err
	}
	if err := processBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all output-related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputFile = input.InputFileStr
	cfg.OldReportPath = input.OldReportPathStr
	cfg.NewReportPath = input.NewReportPathStr
	cfg.OutputFile = input.OutputFile
	cfg.BaselinePath = input.Baseline
	cfg.Width = input.Width
	cfg.Label = strings.TrimSpace(input.Label)
	cfg.UseSnapshot = input.Snapshot
	cfg.SnapshotRef = strings.TrimSpace(input.SnapshotLabel)

	// --- 1. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv", input.Output)
	}

	// --- 2. Indent Validation ---
	if input.Indent < 0 || input.Indent > MaxIndent {
		return fmt.Errorf("indent must be between 0 and %d (received %d)", MaxIndent, input.Indent)
	}
	cfg.Indent = input.Indent

	// --- 3. Color Validation ---
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 4. Fail Policy Validation ---
	cfg.FailOn = schema.FailPolicy(strings.ToLower(input.FailOn))
	if _, ok := schema.ValidFailPolicies[cfg.FailOn]; !ok {
		return fmt.Errorf("invalid fail policy '%s'. must be any, new, none", input.FailOn)
	}

	// --- 5. Snapshot Limit Validation ---
	if input.Limit <= 0 || input.Limit > MaxSnapshotLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxSnapshotLimit, input.Limit)
	}
	cfg.SnapshotLimit = input.Limit

	return nil
}

// processSimilarity handles the fuzzy-matching knobs.
func processSimilarity(cfg *Config, input *ConfigRawInput) error {
	similar, err := ParseBoolString(input.Similar)
	if err != nil {
		return fmt.Errorf("invalid --similar value: %w", err)
	}
	cfg.Similar = similar

	if input.SimilarThreshold <= 0 || input.SimilarThreshold > 1 {
		return fmt.Errorf("similar-threshold must be in (0, 1] (received %v)", input.SimilarThreshold)
	}
	cfg.SimilarThresh = input.SimilarThreshold

	cfg.SimilarMetric = schema.SimilarityMetric(strings.ToLower(input.SimilarMetric))
	if _, ok := schema.ValidSimilarityMetrics[cfg.SimilarMetric]; !ok {
		return fmt.Errorf("invalid similarity metric '%s'. must be levenshtein or token", input.SimilarMetric)
	}

	return nil
}

// processBackendConfig validates the snapshot backend configuration.
func processBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	return ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
