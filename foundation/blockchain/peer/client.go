package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrPeerUnreachable is returned when the network call to a peer fails.
var ErrPeerUnreachable = errors.New("peer unreachable")

// baseURL is the root of the private node api on every peer.
const baseURL = "http://%s/v1/node"

// =============================================================================

// Outcome represents how a peer answered a notification.
type Outcome int

// Set of outcomes a peer can report.
const (
	Accepted    Outcome = iota // Peer applied the payload.
	Rejected                   // Peer answered with an error status.
	Conflict                   // Peer's chain tip doesn't match the block.
	Unreachable                // Peer could not be contacted.
)

// String implements the fmt.Stringer interface.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Conflict:
		return "conflict"
	default:
		return "unreachable"
	}
}

// BlockRequest is the payload used to share a block with a peer.
type BlockRequest struct {
	Block database.BlockData `json:"block"`
}

// =============================================================================

// Client provides the transport to share transactions and blocks with peers
// and to retrieve their chains.
type Client struct {
	http http.Client
}

// NewClient constructs a client where every request is bound by the
// specified timeout so one peer can't stall the others.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: http.Client{
			Timeout: timeout,
		},
	}
}

// SendTransaction shares the transaction with the peer.
func (c *Client) SendTransaction(ctx context.Context, pr Peer, tx database.Tx) (Outcome, error) {
	url := fmt.Sprintf("%s/broadcast-transaction", fmt.Sprintf(baseURL, pr.Host))
	return c.notify(ctx, url, tx)
}

// SendBlock shares the newly mined block with the peer.
func (c *Client) SendBlock(ctx context.Context, pr Peer, block database.Block) (Outcome, error) {
	url := fmt.Sprintf("%s/broadcast-block", fmt.Sprintf(baseURL, pr.Host))
	return c.notify(ctx, url, BlockRequest{Block: database.NewBlockData(block)})
}

// RequestChain retrieves the full chain held by the peer.
func (c *Client) RequestChain(ctx context.Context, pr Peer) ([]database.BlockData, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	var chain []database.BlockData
	status, msg, err := c.send(ctx, http.MethodGet, url, nil, &chain)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %s", pr.Host, status, msg)
	}

	return chain, nil
}

// =============================================================================

// notify posts the payload and converts the answer into an outcome.
func (c *Client) notify(ctx context.Context, url string, payload any) (Outcome, error) {
	status, msg, err := c.send(ctx, http.MethodPost, url, payload, nil)
	if err != nil {
		if errors.Is(err, ErrPeerUnreachable) {
			return Unreachable, err
		}
		return Rejected, err
	}

	switch {
	case status == http.StatusConflict:
		return Conflict, fmt.Errorf("status %d: %s", status, msg)
	case status >= http.StatusBadRequest:
		return Rejected, fmt.Errorf("status %d: %s", status, msg)
	}

	return Accepted, nil
}

// send is a helper function to send an HTTP request to a node. The status
// code is returned along with the body when the status is not a success.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) (int, string, error) {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return 0, "", err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %s", ErrPeerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, "", err
		}
		return resp.StatusCode, string(bytes.TrimSpace(msg)), nil
	}

	if dataRecv != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return resp.StatusCode, "", err
		}
	}

	return resp.StatusCode, "", nil
}
