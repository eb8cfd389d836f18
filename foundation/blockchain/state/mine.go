package state

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/verification"
)

// MineBlock batches the pending transactions into a new block, solves the
// puzzle for it and appends it to the chain. The block is then shared with
// every known peer. The puzzle is solved outside the lock so the node keeps
// serving while mining.
func (s *State) MineBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineBlock: MINING: started")
	defer s.evHandler("state: MineBlock: MINING: completed")

	if s.hostID == "" {
		return database.Block{}, ErrNoHostingIdentity
	}

	// Take the snapshot the puzzle is solved against.
	s.mu.RLock()
	index := uint64(len(s.chain))
	tip := s.chain[index-1]
	pending := s.mempool.Copy()
	s.mu.RUnlock()

	s.evHandler("state: MineBlock: MINING: authenticate pending[%d]", len(pending))

	for _, tx := range pending {
		if err := s.authenticate(tx); err != nil {
			return database.Block{}, fmt.Errorf("%w: %s: %s", ErrInauthenticPending, tx, err)
		}
	}

	s.evHandler("state: MineBlock: MINING: perform POW")

	t := time.Now()
	proof, err := pow.Solve(ctx, pending, tip.Hash(), s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineBlock: MINING: solved: proof[%d] duration[%v]", proof, time.Since(t))

	trans := append(pending, database.NewRewardTx(s.hostID, genesis.MiningReward))
	block := database.NewBlock(index, tip, trans, proof)

	if err := s.appendMined(tip, block, pending); err != nil {
		return database.Block{}, err
	}

	s.shareBlock(ctx, block)

	return block, nil
}

// appendMined adds the mined block as long as the chain didn't move while
// the puzzle was being solved.
func (s *State) appendMined(tip database.Block, block database.Block, mined []database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.chain[len(s.chain)-1]
	if uint64(len(s.chain)) != block.Index || latest.Hash() != tip.Hash() {
		return fmt.Errorf("%w: chain moved to block %d while mining", ErrBlockRejected, latest.Index)
	}

	s.chain = append(s.chain, block)
	removed := s.mempool.RemoveIncluded(mined)

	s.evHandler("state: MineBlock: MINING: appended: block[%d] removed[%d]", block.Index, removed)

	s.persist()

	return nil
}

// =============================================================================

// IngestBlock takes a block received from a peer, validates it extends the
// current tip and if that passes, appends it to the chain.
func (s *State) IngestBlock(blockData database.BlockData) error {
	s.evHandler("state: IngestBlock: started: block[%d]", blockData.Index)
	defer s.evHandler("state: IngestBlock: completed")

	block, err := database.ToBlock(blockData)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockRejected, err)
	}

	if err := s.appendPeerBlock(block); err != nil {
		return err
	}

	// Any puzzle being solved now targets a tip that no longer exists.
	s.Worker.SignalCancelMining()

	return nil
}

// appendPeerBlock validates and appends a block received from a peer.
func (s *State) appendPeerBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	length := uint64(len(s.chain))
	tip := s.chain[length-1]

	if block.Index > length {
		if !pow.Verify(block.PuzzleTrans(), block.PreviousHash, block.Proof) {
			return fmt.Errorf("%w: block %d: %s", ErrBlockRejected, block.Index, verification.ErrInvalidProof)
		}

		s.evHandler("state: IngestBlock: block[%d] ahead of chain length[%d]: resolution needed", block.Index, length)
		s.resolutionNeeded = true
		s.Worker.SignalResolve()
		return fmt.Errorf("%w: block %d, chain length %d", ErrChainForked, block.Index, length)
	}

	if block.Index != length {
		return fmt.Errorf("%w: block %d does not follow chain length %d", ErrBlockRejected, block.Index, length)
	}

	if err := verification.ValidateNextBlock(tip, block); err != nil {
		return fmt.Errorf("%w: %s", ErrBlockRejected, err)
	}

	s.chain = append(s.chain, block)
	removed := s.mempool.RemoveIncluded(block.Trans)

	s.evHandler("state: IngestBlock: appended: block[%d] removed[%d]", block.Index, removed)

	s.persist()

	return nil
}
