package signature_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

type payload struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

func Test_SignRecover(t *testing.T) {
	t.Log("Given the need to sign a value and recover the signer.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a single value.", testID)
		{
			pk, err := crypto.HexToECDSA(pkHexKey)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to generate a private key: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to generate a private key.", success, testID)

			address := signature.PublicKeyToAddress(pk.PublicKey)
			value := payload{Sender: address, Recipient: "bill", Amount: 10}

			sig, err := signature.Sign(value, pk)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign data: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to sign data.", success, testID)

			if err := signature.VerifySignature(sig); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to verify the signature: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to verify the signature.", success, testID)

			from, err := signature.FromAddress(value, sig)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to recover the address: %v", failed, testID, err)
			}
			if from != address {
				t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, from)
				t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, address)
				t.Fatalf("\t%s\tTest %d:\tShould recover the signing address.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould recover the signing address.", success, testID)

			value.Amount = 11
			from, err = signature.FromAddress(value, sig)
			if err == nil && from == address {
				t.Fatalf("\t%s\tTest %d:\tShould not recover the signer from altered data.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not recover the signer from altered data.", success, testID)
		}
	}
}

func Test_BadSignature(t *testing.T) {
	t.Log("Given the need to reject malformed signatures.")
	{
		for testID, sig := range []string{"", "0x", "0x1234", "not-hex"} {
			t.Logf("\tTest %d:\tWhen checking signature %q.", testID, sig)
			{
				if err := signature.VerifySignature(sig); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject the signature.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the signature.", success, testID)
			}
		}
	}
}

func Test_Hash(t *testing.T) {
	t.Log("Given the need to hash values deterministically.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen hashing the same value twice.", testID)
		{
			v := payload{Sender: "a", Recipient: "b", Amount: 1}
			h1 := signature.Hash(v)
			h2 := signature.Hash(v)
			if h1 != h2 || len(h1) != 66 {
				t.Fatalf("\t%s\tTest %d:\tShould get the same 32 byte hash: %s %s", failed, testID, h1, h2)
			}
			t.Logf("\t%s\tTest %d:\tShould get the same 32 byte hash.", success, testID)

			v.Amount = 2
			if signature.Hash(v) == h1 {
				t.Fatalf("\t%s\tTest %d:\tShould get a different hash for a different value.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get a different hash for a different value.", success, testID)
		}
	}
}
