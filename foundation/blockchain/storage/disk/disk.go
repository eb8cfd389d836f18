// Package disk implements the ability to save and load the node's state to
// a single file on disk.
package disk

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
)

// Disk represents the serialization implementation for reading and storing
// the node's state in one file. The file holds three lines of JSON: the
// chain, the pending transactions and the peer hosts. This implements the
// storage.Storage interface.
type Disk struct {
	path string
}

// New constructs a Disk value for use. The directory for the file is
// created if it doesn't exist.
func New(path string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrPersistence, err)
	}

	return &Disk{path: path}, nil
}

// Close in this implementation has nothing to do since the file is
// opened and closed on every call.
func (d *Disk) Close() error {
	return nil
}

// Load reads the state from disk. A missing file is not an error, an empty
// snapshot is returned.
func (d *Disk) Load() (storage.Snapshot, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.Snapshot{}, nil
		}
		return storage.Snapshot{}, fmt.Errorf("%w: %s", storage.ErrPersistence, err)
	}

	var snapshot storage.Snapshot
	records := []any{&snapshot.Chain, &snapshot.Pending, &snapshot.Peers}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	for _, record := range records {
		if !scanner.Scan() {
			break
		}

		if err := json.Unmarshal(scanner.Bytes(), record); err != nil {
			return storage.Snapshot{}, fmt.Errorf("%w: decoding %s: %s", storage.ErrPersistence, d.path, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return storage.Snapshot{}, fmt.Errorf("%w: %s", storage.ErrPersistence, err)
	}

	return snapshot, nil
}

// Save writes the state to disk. The data is written to a temporary file
// first and then renamed so a failed write doesn't destroy the last save.
func (d *Disk) Save(snapshot storage.Snapshot) error {
	snapshot = snapshot.Normalize()

	var buf bytes.Buffer
	for _, record := range []any{snapshot.Chain, snapshot.Pending, snapshot.Peers} {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("%w: %s", storage.ErrPersistence, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("%w: %s", storage.ErrPersistence, err)
	}

	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("%w: %s", storage.ErrPersistence, err)
	}

	return nil
}
