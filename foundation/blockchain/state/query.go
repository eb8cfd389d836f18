package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/balance"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
)

// HostID returns the participant rewarded for blocks mined by this node.
func (s *State) HostID() string {
	return s.hostID
}

// Host returns the address peers use to reach this node.
func (s *State) Host() string {
	return s.host
}

// Chain returns a copy of the full chain.
func (s *State) Chain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := make([]database.Block, len(s.chain))
	for i, block := range s.chain {
		chain[i] = block.Clone()
	}

	return chain
}

// LatestBlock returns a copy of the block at the tip of the chain.
func (s *State) LatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[len(s.chain)-1].Clone()
}

// Pending returns a copy of the pending pool.
func (s *State) Pending() []database.Tx {
	return s.mempool.Copy()
}

// PendingCount returns the number of pending transactions.
func (s *State) PendingCount() int {
	return s.mempool.Count()
}

// BalanceOf returns the balance of the participant over the chain and the
// pending pool. An empty participant means the hosting identity.
func (s *State) BalanceOf(participant string) (int64, error) {
	participant, err := balance.Participant(participant, s.hostID)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return balance.Of(s.chain, s.mempool.Copy(), participant), nil
}

// Balances returns the balance of every participant on the ledger.
func (s *State) Balances() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return balance.Sheet(s.chain, s.mempool.Copy())
}

// ResolutionNeeded reports whether a peer indicated this node's chain may
// be behind.
func (s *State) ResolutionNeeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolutionNeeded
}

// Status returns the information peers use to learn about this node.
func (s *State) Status() peer.PeerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tip := s.chain[len(s.chain)-1]

	return peer.PeerStatus{
		LatestBlockHash:  tip.Hash(),
		LatestBlockIndex: tip.Index,
		ChainLength:      len(s.chain),
		Pending:          s.mempool.Count(),
		KnownPeers:       s.knownPeers.Hosts(),
	}
}
