package schema

import "time"

// SnapshotRecord is one persisted report snapshot with its metadata.
// The Report payload is stored as the canonical JSON shape.
type SnapshotRecord struct {
	ID          int64     `json:"id"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
	TotalErrors int       `json:"total_errors"`
	TotalFiles  int       `json:"total_files"`
	Report      Report    `json:"report,omitempty"`
}

// SnapshotStatus has status information about the snapshot store.
type SnapshotStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalSnapshots int       `json:"total_snapshots"`
	LastSnapshot   time.Time `json:"last_snapshot,omitempty"`
	OldestSnapshot time.Time `json:"oldest_snapshot,omitempty"`
}
