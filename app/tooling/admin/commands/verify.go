package commands

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/verification"
)

// Verify checks the linkage and proofs of the chain along with the
// signature of every non reward transaction.
func Verify(blocks []database.Block) error {
	if err := verification.ValidateChain(blocks); err != nil {
		return err
	}

	for _, block := range blocks {
		for i, tx := range block.Trans {
			if tx.IsReward() {
				continue
			}

			if err := verification.SignatureAuthenticator(tx); err != nil {
				return fmt.Errorf("block %d tx[%d]: %w", block.Index, i, err)
			}
		}
	}

	fmt.Printf("Chain of %d blocks is valid\n", len(blocks))
	return nil
}
