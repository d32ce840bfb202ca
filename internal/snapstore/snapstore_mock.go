package snapstore

import (
	"time"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotManager is a mock implementation of SnapshotManager for testing.
type MockSnapshotManager struct {
	mock.Mock
}

var _ contract.SnapshotManager = &MockSnapshotManager{} // Compile-time check

// GetSnapshotStore implements the SnapshotManager interface.
func (m *MockSnapshotManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Save implements the SnapshotStore interface.
func (m *MockSnapshotStore) Save(label string, report schema.Report, createdAt time.Time) (int64, error) {
	args := m.Called(label, report, createdAt)
	return args.Get(0).(int64), args.Error(1)
}

// Latest implements the SnapshotStore interface.
func (m *MockSnapshotStore) Latest() (*schema.SnapshotRecord, error) {
	args := m.Called()
	rec, _ := args.Get(0).(*schema.SnapshotRecord)
	return rec, args.Error(1)
}

// Get implements the SnapshotStore interface.
func (m *MockSnapshotStore) Get(id int64) (*schema.SnapshotRecord, error) {
	args := m.Called(id)
	rec, _ := args.Get(0).(*schema.SnapshotRecord)
	return rec, args.Error(1)
}

// GetByLabel implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetByLabel(label string) (*schema.SnapshotRecord, error) {
	args := m.Called(label)
	rec, _ := args.Get(0).(*schema.SnapshotRecord)
	return rec, args.Error(1)
}

// List implements the SnapshotStore interface.
func (m *MockSnapshotStore) List(limit int) ([]schema.SnapshotRecord, error) {
	args := m.Called(limit)
	recs, _ := args.Get(0).([]schema.SnapshotRecord)
	return recs, args.Error(1)
}

// Clear implements the SnapshotStore interface.
func (m *MockSnapshotStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SnapshotStatus), args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
