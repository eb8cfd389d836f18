// Package genesis maintains the fixed starting point of every chain and the
// constants all nodes must agree on.
package genesis

import "github.com/ardanlabs/powledger/foundation/blockchain/database"

// MiningReward is the amount paid to the hosting identity for every mined block.
const MiningReward uint64 = 10

// Proof is the fixed proof value recorded on the genesis block.
const Proof uint64 = 100

// Block returns the genesis block. Every node starts with the same value so
// chains from different nodes can be compared.
func Block() database.Block {
	return database.Block{
		Index:        0,
		PreviousHash: "",
		Trans:        []database.Tx{},
		Proof:        Proof,
		TimeStamp:    0,
	}
}

// Chain returns a new chain holding only the genesis block.
func Chain() []database.Block {
	return []database.Block{Block()}
}
