// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/powledger/business/sys/metrics"
	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/balance"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new wallet transaction to the pending pool and
// shares it with the known peers.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	tx := ntx.toTx()

	h.Log.Infow("submit tran", "traceid", v.TraceID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)

	if err := h.State.SubmitTransaction(ctx, tx, state.OriginLocal); err != nil {
		switch {
		case errors.Is(err, state.ErrTransactionRejected):
			return errs.NewTrusted(err, http.StatusBadRequest)
		case errors.Is(err, state.ErrPeerRejected):
			return errs.NewTrusted(err, http.StatusBadGateway)
		default:
			return fmt.Errorf("submit: %w", err)
		}
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to pending pool",
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mine mines the pending transactions into a new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.State.MineBlock(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoHostingIdentity), errors.Is(err, state.ErrInauthenticPending):
			return errs.NewTrusted(err, http.StatusBadRequest)
		case errors.Is(err, state.ErrBlockRejected):
			return errs.NewTrusted(err, http.StatusConflict)
		default:
			return fmt.Errorf("mine: %w", err)
		}
	}

	metrics.SetBlocks(int(blk.Index) + 1)

	resp := struct {
		Message string `json:"message"`
		Block   block  `json:"block"`
	}{
		Message: "new block mined",
		Block:   toBlock(h.NS, blk),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balance returns the balance for the specified participant. When no
// participant is specified, the hosting identity is used.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	participant := h.NS.Address(web.Param(r, "participant"))

	bal, err := h.State.BalanceOf(participant)
	if err != nil {
		if errors.Is(err, balance.ErrUnconfigured) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("balance: %w", err)
	}

	if participant == "" {
		participant = h.State.HostID()
	}

	resp := balanceInfo{
		Participant: participant,
		Name:        h.NS.Lookup(participant),
		Balance:     bal,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balances returns the current balances for all participants.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	sheet := h.State.Balances()

	bals := make([]balanceInfo, 0, len(sheet))
	for participant, bal := range sheet {
		bals = append(bals, balanceInfo{
			Participant: participant,
			Name:        h.NS.Lookup(participant),
			Balance:     bal,
		})
	}

	sort.Slice(bals, func(i, j int) bool {
		return bals[i].Participant < bals[j].Participant
	})

	resp := balanceSheet{
		LatestBlock: h.State.LatestBlock().Hash(),
		Pending:     h.State.PendingCount(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the full chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.Chain()

	resp := chain{
		Length: len(blocks),
		Blocks: make([]block, len(blocks)),
	}
	for i, blk := range blocks {
		resp.Blocks[i] = toBlock(h.NS, blk)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the set of transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.NS, h.State.Pending()), http.StatusOK)
}

// AddPeers registers new peers with the node.
func (h Handlers) AddPeers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var np newPeers
	if err := web.Decode(r, &np); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(np); err != nil {
		return err
	}

	for _, host := range np.Nodes {
		if h.State.AddPeer(host) {
			h.Log.Infow("add peer", "traceid", web.GetTraceID(ctx), "host", host)
		}
	}

	resp := struct {
		Message string   `json:"message"`
		Nodes   []string `json:"total_nodes"`
	}{
		Message: "new nodes have been added",
		Nodes:   h.State.Peers(),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// RemovePeer unregisters a peer from the node.
func (h Handlers) RemovePeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	host := web.Param(r, "host")

	if !h.State.RemovePeer(host) {
		return errs.NewTrusted(fmt.Errorf("peer %q not found", host), http.StatusNotFound)
	}

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// Peers returns the list of known peers.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, peers{Nodes: h.State.Peers()}, http.StatusOK)
}

// Resolve runs conflict resolution against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	length := len(h.State.Chain())
	metrics.SetBlocks(length)

	resp := resolved{
		Replaced: replaced,
		Length:   length,
		Message:  "our chain is authoritative",
	}
	if replaced {
		resp.Message = "our chain was replaced"
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ps := h.State.Status()
	metrics.SetBlocks(ps.ChainLength)

	resp := status{
		HostID:           h.State.HostID(),
		HostName:         h.NS.Lookup(h.State.HostID()),
		LatestBlockHash:  ps.LatestBlockHash,
		LatestBlockIndex: ps.LatestBlockIndex,
		ChainLength:      ps.ChainLength,
		Pending:          ps.Pending,
		ResolutionNeeded: h.State.ResolutionNeeded(),
		KnownPeers:       ps.KnownPeers,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
