// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"errors"
	"time"

	"github.com/huangsam/typegate/schema"
)

// ErrChangesFound signals that a diff produced a non-empty change set. The
// engine itself never fails on this; the cmd layer maps it to the diff exit
// code as a policy decision.
var ErrChangesFound = errors.New("changes detected between reports")

// ErrNoSnapshots is returned by snapshot stores when a lookup finds nothing.
var ErrNoSnapshots = errors.New("no snapshots stored")

// ErrBadArguments marks configuration and flag validation failures so the
// entrypoint can exit with the bad-arguments code instead of a generic failure.
var ErrBadArguments = errors.New("invalid arguments")

// SnapshotStore defines the interface for persisted report snapshots.
// This allows mocking the store for testing.
type SnapshotStore interface {
	// Save persists a report under the given label and returns the snapshot ID.
	Save(label string, report schema.Report, createdAt time.Time) (int64, error)

	// Latest returns the most recent snapshot, or an error when none exist.
	Latest() (*schema.SnapshotRecord, error)

	// Get returns the snapshot with the given ID.
	Get(id int64) (*schema.SnapshotRecord, error)

	// GetByLabel returns the most recent snapshot with the given label.
	GetByLabel(label string) (*schema.SnapshotRecord, error)

	// List returns up to limit snapshots, newest first, without report payloads.
	List(limit int) ([]schema.SnapshotRecord, error)

	// Clear removes all snapshots.
	Clear() error

	// GetStatus returns status information about the snapshot store.
	GetStatus() (schema.SnapshotStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// SnapshotManager defines the interface for managing the snapshot store.
type SnapshotManager interface {
	GetSnapshotStore() SnapshotStore
}
