package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Worker(t *testing.T) {
	t.Log("Given the need to mine and resolve in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining is signaled with pending transactions.", testID)
		{
			mem := memory.NewWithSnapshot(storage.Snapshot{
				Pending: []database.Tx{database.NewTx("A", "B", "sig", 1)},
			})

			st := newState(t, mem, &network{})
			w := worker.Run(st, worker.Config{})

			w.SignalStartMining()

			if !waitFor(func() bool { return len(st.Chain()) == 2 }) {
				t.Fatalf("\t%s\tTest %d:\tShould mine a block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould mine a block.", success, testID)

			if st.PendingCount() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould empty the pending pool.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould empty the pending pool.", success, testID)

			if err := st.Shutdown(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould shutdown cleanly: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould shutdown cleanly.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining is signaled with an empty pending pool.", testID)
		{
			st := newState(t, memory.New(), &network{})
			w := worker.Run(st, worker.Config{})

			w.SignalStartMining()
			time.Sleep(100 * time.Millisecond)

			if len(st.Chain()) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not mine an empty block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not mine an empty block.", success, testID)

			st.Shutdown()
		}

		testID++
		t.Logf("\tTest %d:\tWhen resolution is signaled.", testID)
		{
			other := newState(t, memory.New(), &network{})
			for range 3 {
				if _, err := other.MineBlock(context.Background()); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
				}
			}

			net := &network{}
			st := newState(t, memory.New(), net)
			w := worker.Run(st, worker.Config{ResolveInterval: time.Hour})

			net.set(database.ToBlockData(other.Chain()))
			st.AddPeer("peer-a")
			w.SignalResolve()

			if !waitFor(func() bool { return len(st.Chain()) == 4 }) {
				t.Fatalf("\t%s\tTest %d:\tShould adopt the longer chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould adopt the longer chain.", success, testID)

			st.Shutdown()
		}
	}
}

// =============================================================================

func newState(t *testing.T, strg storage.Storage, net state.Network) *state.State {
	st, err := state.New(state.Config{
		HostID:        "A",
		Host:          "localhost:9080",
		Storage:       strg,
		Network:       net,
		Authenticator: func(tx database.Tx) error { return nil },
	})
	if err != nil {
		t.Fatalf("constructing state: %v", err)
	}

	return st
}

func waitFor(f func() bool) bool {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if f() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// =============================================================================

type network struct {
	mu    sync.Mutex
	chain []database.BlockData
}

func (n *network) set(chain []database.BlockData) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.chain = chain
}

func (n *network) SendTransaction(ctx context.Context, pr peer.Peer, tx database.Tx) (peer.Outcome, error) {
	return peer.Accepted, nil
}

func (n *network) SendBlock(ctx context.Context, pr peer.Peer, block database.Block) (peer.Outcome, error) {
	return peer.Accepted, nil
}

func (n *network) RequestChain(ctx context.Context, pr peer.Peer) ([]database.BlockData, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.chain == nil {
		return nil, peer.ErrPeerUnreachable
	}

	return n.chain, nil
}
