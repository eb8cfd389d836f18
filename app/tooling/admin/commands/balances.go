// Package commands contains the functionality for the admin tool.
package commands

import (
	"fmt"
	"sort"

	"github.com/ardanlabs/powledger/foundation/blockchain/balance"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Balances prints the current set of balances.
func Balances(args []string, blocks []database.Block, pending []database.Tx) error {
	var onlyParticipant string
	if len(args) == 3 {
		onlyParticipant = args[2]
	}

	if len(blocks) > 0 {
		fmt.Printf("LatestBlockHash: %s\n\n", blocks[len(blocks)-1].Hash())
	}

	if onlyParticipant != "" {
		fmt.Printf("Participant: %s  Balance: %d\n", onlyParticipant, balance.Of(blocks, pending, onlyParticipant))
		return nil
	}

	sheet := balance.Sheet(blocks, pending)

	participants := make([]string, 0, len(sheet))
	for participant := range sheet {
		participants = append(participants, participant)
	}
	sort.Strings(participants)

	for _, participant := range participants {
		fmt.Printf("Participant: %s  Balance: %d\n", participant, sheet[participant])
	}

	return nil
}
