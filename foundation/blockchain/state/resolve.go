package state

import (
	"context"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/verification"
)

// Resolve asks every known peer for its chain and replaces the local chain
// with the longest one that passes verification. Peers are evaluated in
// host order and the first strictly longer valid chain wins a tie. When
// the chain is replaced the pending pool is cleared.
func (s *State) Resolve(ctx context.Context) (bool, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	candidates := s.requestChains(ctx)

	if err := ctx.Err(); err != nil {
		s.mu.Lock()
		s.resolutionNeeded = false
		s.mu.Unlock()

		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolutionNeeded = false

	winner := s.chain
	for _, candidate := range candidates {
		if candidate.blocks == nil || len(candidate.blocks) <= len(winner) {
			continue
		}

		if err := verification.ValidateChain(candidate.blocks); err != nil {
			s.evHandler("state: Resolve: peer[%s]: chain ignored: %s", candidate.host, err)
			continue
		}

		s.evHandler("state: Resolve: peer[%s]: new winner: blocks[%d]", candidate.host, len(candidate.blocks))
		winner = candidate.blocks
	}

	replaced := len(winner) != len(s.chain)
	if replaced {
		s.chain = winner
		s.mempool.Truncate()
		s.Worker.SignalCancelMining()
	}

	s.persist()

	return replaced, nil
}

// =============================================================================

// candidate is the chain retrieved from a peer.
type candidate struct {
	host   string
	blocks []database.Block
}

// requestChains retrieves the chain of every known peer concurrently. The
// results are returned in host order, peers that couldn't provide a usable
// chain are left with no blocks.
func (s *State) requestChains(ctx context.Context) []candidate {
	peers := s.knownPeers.Copy(s.host)
	candidates := make([]candidate, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for i, pr := range peers {
		candidates[i].host = pr.Host

		go func() {
			defer wg.Done()

			records, err := s.network.RequestChain(ctx, pr)
			if err != nil {
				s.evHandler("state: Resolve: peer[%s]: WARNING: %s", pr, err)
				return
			}

			blocks, err := database.ToBlocks(records)
			if err != nil {
				s.evHandler("state: Resolve: peer[%s]: WARNING: %s", pr, err)
				return
			}

			candidates[i].blocks = blocks
		}()
	}

	wg.Wait()

	return candidates
}
