package snapstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)
)

// snapshotsTable is the name of the table for snapshot storage.
const snapshotsTable = "typegate_snapshots"

// SnapshotStoreImpl implements the SnapshotStore interface on top of a SQL
// database. The report payload is stored as its canonical JSON shape, so
// snapshots written by one backend can be inspected with any JSON tooling.
type SnapshotStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore creates a new SnapshotStore with the specified backend.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetSnapshotDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled snapshotting
		return &SnapshotStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	// Create the table schema
	if err := createSnapshotsTable(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &SnapshotStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createSnapshotsTable creates the snapshot storage table.
func createSnapshotsTable(db *sql.DB, backend schema.DatabaseBackend) error {
	if _, err := db.Exec(getCreateSnapshotsQuery(backend)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", snapshotsTable, err)
	}
	return nil
}

// getCreateSnapshotsQuery returns the CREATE TABLE query for typegate_snapshots.
func getCreateSnapshotsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(snapshotsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				label VARCHAR(255) NOT NULL DEFAULT '',
				created_at DATETIME(6) NOT NULL,
				total_errors INT NOT NULL,
				total_files INT NOT NULL,
				report MEDIUMTEXT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGSERIAL PRIMARY KEY,
				label TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				total_errors INT NOT NULL,
				total_files INT NOT NULL,
				report TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id INTEGER PRIMARY KEY AUTOINCREMENT,
				label TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				total_errors INTEGER NOT NULL,
				total_files INTEGER NOT NULL,
				report TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// Save persists a report under the given label and returns the snapshot ID.
func (ss *SnapshotStoreImpl) Save(label string, report schema.Report, createdAt time.Time) (int64, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return 0, nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal report: %w", err)
	}

	quotedTableName := quoteTableName(snapshotsTable, ss.backend)
	totalErrors := report.TotalErrors()
	totalFiles := report.TotalFiles()

	var snapshotID int64
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (label, created_at, total_errors, total_files, report) VALUES ($1, $2, $3, $4, $5) RETURNING snapshot_id`, quotedTableName)
		err = ss.db.QueryRow(query, label, createdAt, totalErrors, totalFiles, string(payload)).Scan(&snapshotID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (label, created_at, total_errors, total_files, report) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = ss.db.Exec(query, label, formatTime(createdAt, ss.backend), totalErrors, totalFiles, string(payload))
		if err != nil {
			return 0, fmt.Errorf("failed to insert snapshot: %w", err)
		}
		snapshotID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return snapshotID, nil
}

// Latest returns the most recent snapshot with its full report payload.
func (ss *SnapshotStoreImpl) Latest() (*schema.SnapshotRecord, error) {
	return ss.queryOne("ORDER BY snapshot_id DESC LIMIT 1")
}

// Get returns the snapshot with the given ID.
func (ss *SnapshotStoreImpl) Get(id int64) (*schema.SnapshotRecord, error) {
	return ss.queryOne("WHERE snapshot_id = %s ORDER BY snapshot_id DESC LIMIT 1", id)
}

// GetByLabel returns the most recent snapshot with the given label.
func (ss *SnapshotStoreImpl) GetByLabel(label string) (*schema.SnapshotRecord, error) {
	return ss.queryOne("WHERE label = %s ORDER BY snapshot_id DESC LIMIT 1", label)
}

// queryOne runs a single-record snapshot query. The clause may contain one
// %s placeholder which is replaced with the backend's parameter marker.
func (ss *SnapshotStoreImpl) queryOne(clause string, args ...any) (*schema.SnapshotRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, contract.ErrNoSnapshots
	}

	marker := "?"
	if ss.backend == schema.PostgreSQLBackend {
		marker = "$1"
	}
	if len(args) > 0 {
		clause = fmt.Sprintf(clause, marker)
	}

	query := fmt.Sprintf(
		"SELECT snapshot_id, label, created_at, total_errors, total_files, report FROM %s %s",
		quoteTableName(snapshotsTable, ss.backend), clause,
	)
	row := ss.db.QueryRow(query, args...)

	rec, err := ss.scanRecord(row.Scan, true)
	if err == sql.ErrNoRows {
		return nil, contract.ErrNoSnapshots
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return rec, nil
}

// List returns up to limit snapshots, newest first, without report payloads.
func (ss *SnapshotStoreImpl) List(limit int) ([]schema.SnapshotRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT snapshot_id, label, created_at, total_errors, total_files FROM %s ORDER BY snapshot_id DESC LIMIT %d",
		quoteTableName(snapshotsTable, ss.backend), limit,
	)
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.SnapshotRecord
	for rows.Next() {
		rec, err := ss.scanRecord(rows.Scan, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}
	return records, nil
}

// scanRecord scans one snapshot row. SQLite stores timestamps as RFC3339
// strings while MySQL and PostgreSQL use native datetime types.
func (ss *SnapshotStoreImpl) scanRecord(scan func(...any) error, withReport bool) (*schema.SnapshotRecord, error) {
	var rec schema.SnapshotRecord
	var payload string

	dest := []any{&rec.ID, &rec.Label, nil, &rec.TotalErrors, &rec.TotalFiles}
	var createdAtStr string
	if ss.backend == schema.SQLiteBackend {
		dest[2] = &createdAtStr
	} else {
		dest[2] = &rec.CreatedAt
	}
	if withReport {
		dest = append(dest, &payload)
	}

	if err := scan(dest...); err != nil {
		return nil, err
	}

	if ss.backend == schema.SQLiteBackend {
		parsed, err := time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		rec.CreatedAt = parsed
	}

	if withReport {
		if err := json.Unmarshal([]byte(payload), &rec.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report payload: %w", err)
		}
	}
	return &rec, nil
}

// Clear removes all snapshots.
func (ss *SnapshotStoreImpl) Clear() error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	query := fmt.Sprintf("DELETE FROM %s", quoteTableName(snapshotsTable, ss.backend))
	if _, err := ss.db.Exec(query); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(snapshotsTable, ss.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ss.db.QueryRow(countQuery).Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}

	if status.TotalSnapshots > 0 {
		last, err := ss.Latest()
		if err != nil {
			return status, err
		}
		status.LastSnapshot = last.CreatedAt

		oldest, err := ss.queryOne("ORDER BY snapshot_id ASC LIMIT 1")
		if err != nil {
			return status, err
		}
		status.OldestSnapshot = oldest.CreatedAt
	}

	return status, nil
}

// Close closes the underlying connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// quoteTableName quotes a table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// formatTime converts a timestamp to the backend's storage representation.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
