package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
)

func Test_Lookup(t *testing.T) {
	root := t.TempDir()

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	if err := crypto.SaveECDSA(filepath.Join(root, "kennedy.ecdsa"), privateKey); err != nil {
		t.Fatalf("saving key: %v", err)
	}

	ns, err := nameservice.New(root)
	if err != nil {
		t.Fatalf("constructing name service: %v", err)
	}

	address := signature.PublicKeyToAddress(privateKey.PublicKey)

	if name := ns.Lookup(address); name != "kennedy" {
		t.Fatalf("expected kennedy, got %s", name)
	}

	if got := ns.Address("kennedy"); got != address {
		t.Fatalf("expected %s, got %s", address, got)
	}

	if got := ns.Lookup("0xunknown"); got != "0xunknown" {
		t.Fatalf("expected the address back, got %s", got)
	}

	if len(ns.Copy()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(ns.Copy()))
	}
}
