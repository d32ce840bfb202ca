// Package snapstore persists report snapshots across runs.
package snapstore

import (
	"sync"

	"github.com/huangsam/typegate/internal/contract"
)

// SnapshotStoreManager manages the SnapshotStore instance.
type SnapshotStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	snapshots    contract.SnapshotStore
}

var _ contract.SnapshotManager = &SnapshotStoreManager{} // Compile-time check

// GetSnapshotStore returns the snapshot store.
func (mgr *SnapshotStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}
