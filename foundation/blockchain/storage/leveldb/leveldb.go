// Package leveldb implements the ability to save and load the node's state
// using a LevelDB database.
package leveldb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Keys used for the three records.
var (
	keyChain   = []byte("chain")
	keyPending = []byte("pending")
	keyPeers   = []byte("peers")
)

// LevelDB represents the serialization implementation for storing the
// node's state in a LevelDB database. This implements the storage.Storage
// interface.
type LevelDB struct {
	db *leveldb.DB
}

// New opens, or creates, the database at the specified path.
func New(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %s", storage.ErrPersistence, path, err)
	}

	return &LevelDB{db: db}, nil
}

// Close closes the database.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Load reads the three records. Records that don't exist yet are left empty.
func (l *LevelDB) Load() (storage.Snapshot, error) {
	var snapshot storage.Snapshot

	records := []struct {
		key   []byte
		value any
	}{
		{keyChain, &snapshot.Chain},
		{keyPending, &snapshot.Pending},
		{keyPeers, &snapshot.Peers},
	}

	for _, record := range records {
		data, err := l.db.Get(record.key, nil)
		if err != nil {
			if errors.Is(err, leveldb.ErrNotFound) {
				continue
			}
			return storage.Snapshot{}, fmt.Errorf("%w: reading %s: %s", storage.ErrPersistence, record.key, err)
		}

		if err := json.Unmarshal(data, record.value); err != nil {
			return storage.Snapshot{}, fmt.Errorf("%w: decoding %s: %s", storage.ErrPersistence, record.key, err)
		}
	}

	return snapshot, nil
}

// Save writes the three records in one atomic batch.
func (l *LevelDB) Save(snapshot storage.Snapshot) error {
	snapshot = snapshot.Normalize()

	records := []struct {
		key   []byte
		value any
	}{
		{keyChain, snapshot.Chain},
		{keyPending, snapshot.Pending},
		{keyPeers, snapshot.Peers},
	}

	batch := new(leveldb.Batch)
	for _, record := range records {
		data, err := json.Marshal(record.value)
		if err != nil {
			return fmt.Errorf("%w: encoding %s: %s", storage.ErrPersistence, record.key, err)
		}
		batch.Put(record.key, data)
	}

	if err := l.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("%w: writing: %s", storage.ErrPersistence, err)
	}

	return nil
}
