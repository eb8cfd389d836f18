// Package storage defines what a node persists and the behavior required
// by the packages that persist it.
package storage

import (
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrPersistence is returned when the node's state can't be read or written.
var ErrPersistence = errors.New("persistence failure")

// =============================================================================

// Storage interface represents the behavior required to be implemented by any
// package providing support for saving and loading the node's state.
type Storage interface {
	Load() (Snapshot, error)
	Save(snapshot Snapshot) error
	Close() error
}

// Snapshot is the point in time copy of the three records a node persists.
type Snapshot struct {
	Chain   []database.BlockData `json:"chain"`
	Pending []database.Tx        `json:"pending"`
	Peers   []string             `json:"peers"`
}

// Empty reports whether nothing has been saved yet.
func (s Snapshot) Empty() bool {
	return len(s.Chain) == 0 && len(s.Pending) == 0 && len(s.Peers) == 0
}

// Normalize makes sure every record encodes as a list.
func (s Snapshot) Normalize() Snapshot {
	if s.Chain == nil {
		s.Chain = []database.BlockData{}
	}
	if s.Pending == nil {
		s.Pending = []database.Tx{}
	}
	if s.Peers == nil {
		s.Peers = []string{}
	}
	return s
}
