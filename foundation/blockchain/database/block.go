// Package database defines the ledger's data model: transactions, blocks
// and the records used to move them across disk and the network.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// ErrDecode is returned when a block or transaction record can't be turned
// into a fully populated value.
var ErrDecode = errors.New("invalid record")

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the block before it.
type Block struct {
	Index        uint64 // Position in the chain, 0 for genesis.
	PreviousHash string // Hash of the prior block, empty for genesis.
	Trans        []Tx   // Ordered transactions, the reward is last.
	Proof        uint64 // Nonce that solves the puzzle.
	TimeStamp    int64  // Unix seconds when the block was created.
}

// NewBlock constructs the block at the specified position in the chain,
// extending the previous block. The index is the length of the chain the
// block is appended to.
func NewBlock(index uint64, prevBlock Block, trans []Tx, proof uint64) Block {
	return Block{
		Index:        index,
		PreviousHash: prevBlock.Hash(),
		Trans:        copyTrans(trans),
		Proof:        proof,
		TimeStamp:    time.Now().UTC().Unix(),
	}
}

// Hash returns the unique hash for the block.
func (b Block) Hash() string {
	return signature.Hash(NewBlockData(b))
}

// PuzzleTrans returns the transactions covered by the proof of work, which
// is every transaction except the trailing reward.
func (b Block) PuzzleTrans() []Tx {
	if len(b.Trans) == 0 {
		return []Tx{}
	}

	return copyTrans(b.Trans[:len(b.Trans)-1])
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	b.Trans = copyTrans(b.Trans)
	return b
}

// =============================================================================

// BlockData represents what is written to disk and sent over the network.
type BlockData struct {
	Index        uint64 `json:"index"`
	PreviousHash string `json:"previous_hash"`
	Trans        []Tx   `json:"transactions"`
	Proof        uint64 `json:"proof"`
	TimeStamp    int64  `json:"timestamp"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Index:        block.Index,
		PreviousHash: block.PreviousHash,
		Trans:        copyTrans(block.Trans),
		Proof:        block.Proof,
		TimeStamp:    block.TimeStamp,
	}
}

// ToBlock converts a block record into a block. Either a fully populated
// block is returned or an error wrapping ErrDecode.
func ToBlock(blockData BlockData) (Block, error) {
	if blockData.Index > 0 {
		if blockData.PreviousHash == "" {
			return Block{}, fmt.Errorf("%w: block %d missing previous hash", ErrDecode, blockData.Index)
		}

		if len(blockData.Trans) == 0 {
			return Block{}, fmt.Errorf("%w: block %d missing reward transaction", ErrDecode, blockData.Index)
		}
	}

	trans, err := ToTxs(blockData.Trans)
	if err != nil {
		return Block{}, fmt.Errorf("block %d: %w", blockData.Index, err)
	}

	block := Block{
		Index:        blockData.Index,
		PreviousHash: blockData.PreviousHash,
		Trans:        trans,
		Proof:        blockData.Proof,
		TimeStamp:    blockData.TimeStamp,
	}

	return block, nil
}

// ToBlocks converts a list of block records into a chain of blocks. Every
// block's index must match its position in the chain.
func ToBlocks(records []BlockData) ([]Block, error) {
	blocks := make([]Block, len(records))
	for i, record := range records {
		if record.Index != uint64(i) {
			return nil, fmt.Errorf("%w: block at position %d has index %d", ErrDecode, i, record.Index)
		}

		block, err := ToBlock(record)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	return blocks, nil
}

// ToBlockData converts a chain of blocks into records.
func ToBlockData(blocks []Block) []BlockData {
	records := make([]BlockData, len(blocks))
	for i, block := range blocks {
		records[i] = NewBlockData(block)
	}

	return records
}

// =============================================================================

// copyTrans returns a non-nil copy so encodings are stable.
func copyTrans(trans []Tx) []Tx {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)
	return cpy
}
