// Package pow implements the proof of work puzzle used to gate the creation
// of new blocks.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Difficulty is the prefix a digest must start with to solve the puzzle.
// It is fixed for every node.
const Difficulty = "00"

// reportEvery sets how often the number of attempts is reported.
const reportEvery = 1_000_000

// =============================================================================

// Solve finds the smallest nonce that solves the puzzle for the specified
// transactions and previous block hash. The search can be cancelled with
// the context.
func Solve(ctx context.Context, trans []database.Tx, prevHash string, ev func(v string, args ...any)) (uint64, error) {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("pow: Solve: MINING: started: prevBlk[%s]: numTrans[%d]", prevHash, len(trans))
	defer ev("pow: Solve: MINING: completed")

	// The transactions don't change during the search, encode them once.
	input, err := puzzleInput(trans, prevHash)
	if err != nil {
		return 0, err
	}

	var nonce uint64
	for {
		if ctx.Err() != nil {
			ev("pow: Solve: MINING: CANCELLED: attempts[%d]", nonce)
			return 0, ctx.Err()
		}

		if isSolved(digest(input, nonce)) {
			ev("pow: Solve: MINING: SOLVED: nonce[%d]", nonce)
			return nonce, nil
		}

		nonce++
		if nonce%reportEvery == 0 {
			ev("pow: Solve: MINING: attempts[%d]", nonce)
		}
	}
}

// Verify checks the nonce solves the puzzle for the specified transactions
// and previous block hash.
func Verify(trans []database.Tx, prevHash string, nonce uint64) bool {
	input, err := puzzleInput(trans, prevHash)
	if err != nil {
		return false
	}

	return isSolved(digest(input, nonce))
}

// Digest returns the hex encoded digest for the puzzle input.
func Digest(trans []database.Tx, prevHash string, nonce uint64) (string, error) {
	input, err := puzzleInput(trans, prevHash)
	if err != nil {
		return "", err
	}

	return digest(input, nonce), nil
}

// =============================================================================

// puzzleInput builds the part of the puzzle input that doesn't depend on the
// nonce: the canonical transaction list followed by the previous hash.
func puzzleInput(trans []database.Tx, prevHash string) ([]byte, error) {
	if trans == nil {
		trans = []database.Tx{}
	}

	data, err := json.Marshal(trans)
	if err != nil {
		return nil, err
	}

	return append(data, prevHash...), nil
}

// digest hashes the prefix and the nonce.
func digest(prefix []byte, nonce uint64) string {
	h := sha256.New()
	h.Write(prefix)
	h.Write(strconv.AppendUint(nil, nonce, 10))

	return hex.EncodeToString(h.Sum(nil))
}

// isSolved checks the digest complies with the difficulty.
func isSolved(digest string) bool {
	return strings.HasPrefix(digest, Difficulty)
}
