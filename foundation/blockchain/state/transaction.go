package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/verification"
)

// SubmitTransaction accepts a new transaction into the pending pool. The
// transaction must be authentic and the sender must be able to cover the
// amount. Transactions submitted locally are shared with every known peer.
func (s *State) SubmitTransaction(ctx context.Context, tx database.Tx, origin Origin) error {
	s.evHandler("state: SubmitTransaction: started: tx[%s]", tx)
	defer s.evHandler("state: SubmitTransaction: completed")

	if err := s.authenticate(tx); err != nil {
		return fmt.Errorf("%w: %s", ErrTransactionRejected, err)
	}

	if err := s.appendPending(tx); err != nil {
		return err
	}

	if s.mineOnSubmit {
		s.Worker.SignalStartMining()
	}

	if origin == OriginPeer {
		return nil
	}

	return s.shareTx(ctx, tx)
}

// appendPending adds the transaction to the pool when the sender's balance
// covers it.
func (s *State) appendPending(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !verification.IsAdmissible(tx, s.balanceOf()) {
		return fmt.Errorf("%w: insufficient balance for %s", ErrTransactionRejected, tx)
	}

	n := s.mempool.Append(tx)
	s.evHandler("state: SubmitTransaction: pending[%d]", n)

	s.persist()

	return nil
}
