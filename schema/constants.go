package schema

// Custom string types for type safety.
type (
	// Severity represents the severity of a checker diagnostic.
	Severity string

	// OutputMode represents the format of the output.
	OutputMode string

	// SimilarityMetric represents the fuzzy-matching metric used by the differ.
	SimilarityMetric string

	// DatabaseBackend represents the database backend for snapshot storage.
	DatabaseBackend string

	// FailPolicy represents which change buckets flip the exit code.
	FailPolicy string

	// ExitCode represents a process exit code with a fixed meaning.
	ExitCode int
)

// All severities the checker is known to emit. Anything else is treated as
// noise by the report builder.
const (
	ErrorSeverity   Severity = "error"
	NoteSeverity    Severity = "note"
	WarningSeverity Severity = "warning"
)

// All output modes supported.
const (
	TextOut OutputMode = "text"
	JSONOut OutputMode = "json" // default
	CSVOut  OutputMode = "csv"
)

// All similarity metrics supported.
const (
	LevenshteinMetric SimilarityMetric = "levenshtein" // default
	TokenMetric       SimilarityMetric = "token"
)

// All snapshot backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Process exit codes. Cobra returns 2 on bad arguments, so 2 stays reserved.
const (
	ExitSuccess   ExitCode = 0
	ExitFailure   ExitCode = 1
	ExitBadArgs   ExitCode = 2
	ExitDiffFound ExitCode = 3
	ExitNoCommand ExitCode = 4
)

// All fail policies supported. FailOnAny mirrors the original ratchet
// behavior: both new and resolved errors mean the snapshot is stale.
const (
	FailOnAny  FailPolicy = "any" // default
	FailOnNew  FailPolicy = "new"
	FailOnNone FailPolicy = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidSimilarityMetrics lists all valid similarity metrics.
var ValidSimilarityMetrics = map[SimilarityMetric]struct{}{
	LevenshteinMetric: {},
	TokenMetric:       {},
}

// ValidDatabaseBackends lists all valid snapshot backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidFailPolicies lists all valid fail policies.
var ValidFailPolicies = map[FailPolicy]struct{}{
	FailOnAny:  {},
	FailOnNew:  {},
	FailOnNone: {},
}
