// Package memory implements the ability to save and load the node's state
// in memory.
package memory

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
)

// Memory represents the serialization implementation for keeping the node's
// state in memory. This implements the storage.Storage interface.
type Memory struct {
	mu       sync.RWMutex
	snapshot storage.Snapshot
	saves    int
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// NewWithSnapshot constructs a Memory value that already holds state.
func NewWithSnapshot(snapshot storage.Snapshot) *Memory {
	m := Memory{}
	m.snapshot = clone(snapshot)
	return &m
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Load returns a copy of the last saved state.
func (m *Memory) Load() (storage.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return clone(m.snapshot), nil
}

// Save keeps a copy of the state.
func (m *Memory) Save(snapshot storage.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = clone(snapshot)
	m.saves++

	return nil
}

// Saves returns the number of times the state was saved.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.saves
}

// =============================================================================

// clone makes a deep copy so callers can't change what's held.
func clone(snapshot storage.Snapshot) storage.Snapshot {
	var cpy storage.Snapshot

	if snapshot.Chain != nil {
		cpy.Chain = make([]database.BlockData, len(snapshot.Chain))
		for i, blockData := range snapshot.Chain {
			blockData.Trans = append([]database.Tx{}, blockData.Trans...)
			cpy.Chain[i] = blockData
		}
	}

	if snapshot.Pending != nil {
		cpy.Pending = append([]database.Tx{}, snapshot.Pending...)
	}

	if snapshot.Peers != nil {
		cpy.Peers = append([]string{}, snapshot.Peers...)
	}

	return cpy
}
