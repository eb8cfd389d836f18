// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/balance"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/blockchain/verification"
)

// Set of errors the state can return. None of these leave the state changed.
var (
	ErrTransactionRejected = errors.New("transaction rejected")
	ErrNoHostingIdentity   = errors.New("no hosting identity configured")
	ErrBlockRejected       = errors.New("block rejected")
	ErrChainForked         = errors.New("chain is behind, resolution needed")
	ErrInauthenticPending  = errors.New("pending transaction failed authentication")
	ErrPeerRejected        = errors.New("transaction rejected by peer")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and conflict resolution.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
	SignalResolve()
}

// Network interface represents the behavior required to share transactions
// and blocks with peers and to retrieve their chains. The peer.Client
// implements this interface.
type Network interface {
	SendTransaction(ctx context.Context, pr peer.Peer, tx database.Tx) (peer.Outcome, error)
	SendBlock(ctx context.Context, pr peer.Peer, block database.Block) (peer.Outcome, error)
	RequestChain(ctx context.Context, pr peer.Peer) ([]database.BlockData, error)
}

// Origin identifies where a submitted transaction came from.
type Origin int

// Set of origins for a submitted transaction.
const (
	OriginLocal Origin = iota // Submitted to this node, shared with peers.
	OriginPeer                // Shared by a peer, not shared again.
)

// =============================================================================

// Config represents the configuration required to start the ledger node.
type Config struct {
	HostID        string
	Host          string
	MineOnSubmit  bool
	Storage       storage.Storage
	KnownPeers    *peer.PeerSet
	Network       Network
	Authenticator verification.Authenticator
	EvHandler     EventHandler
}

// State manages the chain, the pending pool and the known peers.
type State struct {
	hostID       string
	host         string
	mineOnSubmit bool
	evHandler    EventHandler
	authenticate verification.Authenticator

	mu               sync.RWMutex
	chain            []database.Block
	resolutionNeeded bool

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool
	storage    storage.Storage
	network    Network

	Worker Worker
}

// New constructs a new ledger for data management. Any state previously
// saved to storage is loaded, otherwise the chain starts at genesis.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	network := cfg.Network
	if network == nil {
		network = peer.NewClient(5 * time.Second)
	}

	authenticate := cfg.Authenticator
	if authenticate == nil {
		authenticate = verification.SignatureAuthenticator
	}

	// Load what was saved from the last run.
	var snapshot storage.Snapshot
	if cfg.Storage != nil {
		var err error
		if snapshot, err = cfg.Storage.Load(); err != nil {
			return nil, err
		}
	}

	chain := genesis.Chain()
	if len(snapshot.Chain) > 0 {
		blocks, err := database.ToBlocks(snapshot.Chain)
		if err != nil {
			return nil, fmt.Errorf("loading chain: %w", err)
		}

		if err := verification.ValidateChain(blocks); err != nil {
			return nil, fmt.Errorf("loading chain: %w", err)
		}

		chain = blocks
	}

	pending, err := database.ToTxs(snapshot.Pending)
	if err != nil {
		return nil, fmt.Errorf("loading pending: %w", err)
	}

	mp := mempool.New()
	mp.Replace(pending)

	for _, host := range snapshot.Peers {
		if host != cfg.Host {
			knownPeers.Add(peer.New(host))
		}
	}

	ev("state: New: loaded: blocks[%d] pending[%d] peers[%d]", len(chain), len(pending), len(knownPeers.Hosts()))

	state := State{
		hostID:       cfg.HostID,
		host:         cfg.Host,
		mineOnSubmit: cfg.MineOnSubmit,
		evHandler:    ev,
		authenticate: authenticate,

		chain: chain,

		knownPeers: knownPeers,
		mempool:    mp,
		storage:    cfg.Storage,
		network:    network,

		// The worker.Run function replaces this with the real worker.
		Worker: noWorker{},
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	// Stop all ledger writing activity.
	s.Worker.Shutdown()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist()

	if s.storage != nil {
		return s.storage.Close()
	}

	return nil
}

// =============================================================================

// persist saves the current state. A failure is reported and the node
// keeps running from memory. The caller must hold the lock.
func (s *State) persist() {
	if s.storage == nil {
		return
	}

	snapshot := storage.Snapshot{
		Chain:   database.ToBlockData(s.chain),
		Pending: s.mempool.Copy(),
		Peers:   s.knownPeers.Hosts(),
	}

	if err := s.storage.Save(snapshot); err != nil {
		s.evHandler("state: persist: ERROR: %s", err)
	}
}

// balanceOf scans the chain and pending pool. The caller must hold the lock.
func (s *State) balanceOf() verification.BalanceFunc {
	pending := s.mempool.Copy()
	return func(participant string) int64 {
		return balance.Of(s.chain, pending, participant)
	}
}

// =============================================================================

// noWorker is used until a worker registers itself.
type noWorker struct{}

func (noWorker) Shutdown()           {}
func (noWorker) SignalStartMining()  {}
func (noWorker) SignalCancelMining() {}
func (noWorker) SignalResolve()      {}
