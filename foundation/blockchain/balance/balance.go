// Package balance derives participant balances from the chain and the
// pending transactions.
package balance

import (
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrUnconfigured is returned when a balance is requested for the hosting
// identity and none is configured.
var ErrUnconfigured = errors.New("no hosting identity configured")

// =============================================================================

// Of returns the amount received minus the amount sent by the participant
// over every confirmed and pending transaction. A participant with no
// transactions has a balance of 0.
func Of(blocks []database.Block, pending []database.Tx, participant string) int64 {
	var bal int64

	apply := func(tx database.Tx) {
		if tx.Recipient == participant {
			bal += int64(tx.Amount)
		}
		if tx.Sender == participant {
			bal -= int64(tx.Amount)
		}
	}

	for _, block := range blocks {
		for _, tx := range block.Trans {
			apply(tx)
		}
	}

	for _, tx := range pending {
		apply(tx)
	}

	return bal
}

// Sheet returns the balance of every participant found in the chain and
// the pending transactions. The reward sentinel is not a participant.
func Sheet(blocks []database.Block, pending []database.Tx) map[string]int64 {
	sheet := make(map[string]int64)

	apply := func(tx database.Tx) {
		if !tx.IsReward() {
			sheet[tx.Sender] -= int64(tx.Amount)
		}
		sheet[tx.Recipient] += int64(tx.Amount)
	}

	for _, block := range blocks {
		for _, tx := range block.Trans {
			apply(tx)
		}
	}

	for _, tx := range pending {
		apply(tx)
	}

	return sheet
}

// Participant resolves which participant a balance is being asked for.
// An empty participant falls back to the hosting identity.
func Participant(participant string, hostID string) (string, error) {
	if participant != "" {
		return participant, nil
	}

	if hostID == "" {
		return "", ErrUnconfigured
	}

	return hostID, nil
}
