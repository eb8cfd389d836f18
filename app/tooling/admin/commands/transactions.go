package commands

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Transactions prints the transactions in the chain, optionally only the
// ones a participant took part in.
func Transactions(args []string, blocks []database.Block) error {
	var participant string
	if len(args) == 3 {
		participant = args[2]
	}

	for _, block := range blocks {
		for _, tx := range block.Trans {
			if participant != "" && tx.Sender != participant && tx.Recipient != participant {
				continue
			}

			fmt.Printf("Block: %d  Sender: %s  Recipient: %s  Amount: %d\n",
				block.Index, tx.Sender, tx.Recipient, tx.Amount)
		}
	}

	return nil
}
