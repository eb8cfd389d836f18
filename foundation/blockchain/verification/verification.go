// Package verification implements the rules that decide whether transactions
// and blocks can become part of the chain.
package verification

import (
	"errors"
	"fmt"
	"math"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
)

// ErrInvalidLinkage is returned when a block doesn't point at its parent.
var ErrInvalidLinkage = errors.New("previous hash does not match parent block")

// ErrInvalidIndex is returned when a block's index doesn't follow its parent.
var ErrInvalidIndex = errors.New("index does not follow parent block")

// ErrInvalidProof is returned when a block's proof doesn't solve the puzzle.
var ErrInvalidProof = errors.New("proof does not solve the puzzle")

// =============================================================================

// Authenticator represents the capability of checking a transaction was
// produced by its sender. The cryptography is owned by the implementation.
type Authenticator func(tx database.Tx) error

// SignatureAuthenticator checks the transaction's signature was produced
// by the sender's private key.
func SignatureAuthenticator(tx database.Tx) error {
	return tx.VerifySignature()
}

// BalanceFunc returns the balance of the specified participant.
type BalanceFunc func(participant string) int64

// =============================================================================

// IsAdmissible reports whether the sender has the funds to cover the
// transaction.
func IsAdmissible(tx database.Tx, balanceOf BalanceFunc) bool {
	if tx.Amount > math.MaxInt64 {
		return false
	}

	return balanceOf(tx.Sender) >= int64(tx.Amount)
}

// VerifyAll reports whether every transaction is admissible. The balances
// are evaluated as provided, nothing is applied between transactions.
func VerifyAll(trans []database.Tx, balanceOf BalanceFunc) bool {
	for _, tx := range trans {
		if !IsAdmissible(tx, balanceOf) {
			return false
		}
	}

	return true
}

// =============================================================================

// ValidateNextBlock checks the block follows and is linked to the previous
// block and its proof solves the puzzle over every transaction except the
// reward.
func ValidateNextBlock(prevBlock database.Block, block database.Block) error {
	if block.Index != prevBlock.Index+1 {
		return fmt.Errorf("block %d: %w: parent %d", block.Index, ErrInvalidIndex, prevBlock.Index)
	}

	if block.PreviousHash != prevBlock.Hash() {
		return fmt.Errorf("block %d: %w", block.Index, ErrInvalidLinkage)
	}

	if !pow.Verify(block.PuzzleTrans(), block.PreviousHash, block.Proof) {
		return fmt.Errorf("block %d: %w", block.Index, ErrInvalidProof)
	}

	return nil
}

// ValidateChain walks the chain from oldest to newest and returns the first
// violation found. The genesis block is exempt.
func ValidateChain(blocks []database.Block) error {
	for i := 1; i < len(blocks); i++ {
		if err := ValidateNextBlock(blocks[i-1], blocks[i]); err != nil {
			return err
		}
	}

	return nil
}

// VerifyChain reports whether the chain is valid.
func VerifyChain(blocks []database.Block) bool {
	return ValidateChain(blocks) == nil
}
