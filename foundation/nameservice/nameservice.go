// Package nameservice reads a folder of account keys and creates a name
// service lookup for the participants on the ledger.
package nameservice

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameService maintains a map of participant addresses for name lookup.
type NameService struct {
	names     map[string]string
	addresses map[string]string
}

// New constructs a name service with the participants whose keys are
// stored in the root folder. The file name without the .ecdsa extension
// is the participant's name.
func New(root string) (*NameService, error) {
	ns := NameService{
		names:     make(map[string]string),
		addresses: make(map[string]string),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return err
		}

		address := signature.PublicKeyToAddress(privateKey.PublicKey)
		name := strings.TrimSuffix(path.Base(fileName), ".ecdsa")

		ns.names[address] = name
		ns.addresses[name] = address

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address. The address is
// returned when no name is known.
func (ns *NameService) Lookup(address string) string {
	name, exists := ns.names[address]
	if !exists {
		return address
	}
	return name
}

// Address returns the address for the specified name. The value is
// returned unchanged when it isn't a known name.
func (ns *NameService) Address(name string) string {
	address, exists := ns.addresses[name]
	if !exists {
		return name
	}
	return address
}

// Copy returns a copy of the map of addresses and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.names))
	for address, name := range ns.names {
		cpy[address] = name
	}
	return cpy
}
