// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/business/sys/metrics"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// BroadcastTransaction adds a transaction shared by a peer to the pending
// pool. The transaction is not shared again.
func (h Handlers) BroadcastTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("peer tran", "traceid", v.TraceID, "tx", tx)

	if err := h.State.SubmitTransaction(ctx, tx, state.OriginPeer); err != nil {
		if errors.Is(err, state.ErrTransactionRejected) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("broadcast transaction: %w", err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to pending pool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BroadcastBlock takes a block mined by a peer, validates it and if that
// passes, appends the block to the local chain.
func (h Handlers) BroadcastBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var br peer.BlockRequest
	if err := web.Decode(r, &br); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("peer block", "traceid", v.TraceID, "index", br.Block.Index, "proof", br.Block.Proof)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "block accepted",
	}

	if err := h.State.IngestBlock(br.Block); err != nil {
		switch {
		case errors.Is(err, state.ErrChainForked):
			resp.Status = "resolution needed"
			return web.Respond(ctx, w, resp, http.StatusOK)
		case errors.Is(err, state.ErrBlockRejected):
			return errs.NewTrusted(err, http.StatusConflict)
		default:
			return fmt.Errorf("broadcast block: %w", err)
		}
	}

	metrics.SetBlocks(int(br.Block.Index) + 1)

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the full chain in its wire form.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, database.ToBlockData(h.State.Chain()), http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Status(), http.StatusOK)
}
