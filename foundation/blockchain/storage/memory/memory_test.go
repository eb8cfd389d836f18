package memory_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
)

func Test_Isolation(t *testing.T) {
	mem := memory.New()

	snapshot := storage.Snapshot{Chain: database.ToBlockData(genesis.Chain()), Peers: []string{"host:1"}}
	if err := mem.Save(snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}

	snapshot.Peers[0] = "changed"

	got, err := mem.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Peers[0] != "host:1" {
		t.Fatalf("expected saved copy to be unaffected, got %s", got.Peers[0])
	}

	if mem.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", mem.Saves())
	}
}
