package disk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_SaveLoad(t *testing.T) {
	t.Log("Given the need to persist the node's state to a file.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a file that doesn't exist yet.", testID)
		{
			path := filepath.Join(t.TempDir(), "ledger", "state.json")

			dsk, err := disk.New(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the storage: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct the storage.", success, testID)

			snapshot, err := dsk.Load()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load an absent file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load an absent file.", success, testID)

			if !snapshot.Empty() {
				t.Fatalf("\t%s\tTest %d:\tShould get back an empty snapshot: %+v", failed, testID, snapshot)
			}
			t.Logf("\t%s\tTest %d:\tShould get back an empty snapshot.", success, testID)

			save := storage.Snapshot{
				Chain:   database.ToBlockData(genesis.Chain()),
				Pending: []database.Tx{database.NewTx("0xa", "0xb", "0xsig", 5)},
				Peers:   []string{"127.0.0.1:9080"},
			}

			if err := dsk.Save(save); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to save.", success, testID)

			if _, err := os.Stat(path + ".tmp"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not leave the temporary file behind.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not leave the temporary file behind.", success, testID)

			got, err := dsk.Load()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load.", success, testID)

			if len(got.Chain) != 1 || got.Chain[0].Proof != genesis.Proof {
				t.Fatalf("\t%s\tTest %d:\tShould get back the genesis chain: %+v", failed, testID, got.Chain)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the genesis chain.", success, testID)

			if len(got.Pending) != 1 || !got.Pending[0].Equal(save.Pending[0]) {
				t.Fatalf("\t%s\tTest %d:\tShould get back the pending transaction: %+v", failed, testID, got.Pending)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the pending transaction.", success, testID)

			if len(got.Peers) != 1 || got.Peers[0] != "127.0.0.1:9080" {
				t.Fatalf("\t%s\tTest %d:\tShould get back the peer: %+v", failed, testID, got.Peers)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the peer.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen handling an empty state.", testID)
		{
			path := filepath.Join(t.TempDir(), "state.json")
			dsk, err := disk.New(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the storage: %v", failed, testID, err)
			}

			if err := dsk.Save(storage.Snapshot{}); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save: %v", failed, testID, err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the file: %v", failed, testID, err)
			}

			if string(data) != "[]\n[]\n[]\n" {
				t.Fatalf("\t%s\tTest %d:\tShould write three empty lists: %q", failed, testID, data)
			}
			t.Logf("\t%s\tTest %d:\tShould write three empty lists.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen handling a corrupt file.", testID)
		{
			path := filepath.Join(t.TempDir(), "state.json")
			if err := os.WriteFile(path, []byte("{not json\n"), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
			}

			dsk, err := disk.New(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the storage: %v", failed, testID, err)
			}

			if _, err := dsk.Load(); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get a persistence error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get a persistence error.", success, testID)
		}
	}
}
