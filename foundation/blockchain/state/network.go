package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
)

// shareTx sends the transaction to every known peer. Unreachable peers are
// skipped, any peer rejecting the transaction is reported.
func (s *State) shareTx(ctx context.Context, tx database.Tx) error {
	s.evHandler("state: shareTx: started")
	defer s.evHandler("state: shareTx: completed")

	outcomes := s.fanOut(func(pr peer.Peer) (peer.Outcome, error) {
		return s.network.SendTransaction(ctx, pr, tx)
	})

	var rejected []string
	for host, outcome := range outcomes {
		if outcome == peer.Rejected {
			rejected = append(rejected, host)
		}
	}

	if len(rejected) > 0 {
		return fmt.Errorf("%w: %s", ErrPeerRejected, strings.Join(rejected, ", "))
	}

	return nil
}

// shareBlock sends the newly mined block to every known peer. A peer
// reporting a conflict means this node may be behind.
func (s *State) shareBlock(ctx context.Context, block database.Block) {
	s.evHandler("state: shareBlock: started: block[%d]", block.Index)
	defer s.evHandler("state: shareBlock: completed")

	outcomes := s.fanOut(func(pr peer.Peer) (peer.Outcome, error) {
		return s.network.SendBlock(ctx, pr, block)
	})

	for _, outcome := range outcomes {
		if outcome == peer.Conflict {
			s.mu.Lock()
			s.resolutionNeeded = true
			s.mu.Unlock()

			s.Worker.SignalResolve()
			return
		}
	}
}

// fanOut calls send for every known peer at the same time so a slow peer
// doesn't hold up the others. The outcome for each host is returned.
func (s *State) fanOut(send func(pr peer.Peer) (peer.Outcome, error)) map[string]peer.Outcome {
	peers := s.knownPeers.Copy(s.host)

	var mu sync.Mutex
	outcomes := make(map[string]peer.Outcome, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for _, pr := range peers {
		go func() {
			defer wg.Done()

			outcome, err := send(pr)
			if err != nil {
				s.evHandler("state: fanOut: peer[%s]: %s: %s", pr, outcome, err)
			}

			mu.Lock()
			outcomes[pr.Host] = outcome
			mu.Unlock()
		}()
	}

	wg.Wait()

	return outcomes
}
