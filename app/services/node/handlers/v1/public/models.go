package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/nameservice"
)

// newTx is what a wallet submits to be added to the pending pool.
type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"gte=0"`
	Signature string `json:"signature" validate:"required"`
}

// toTx converts the request into a transaction.
func (ntx newTx) toTx() database.Tx {
	return database.NewTx(ntx.Sender, ntx.Recipient, ntx.Signature, ntx.Amount)
}

// newPeers is what is submitted to register peers.
type newPeers struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required,hostname_port"`
}

// =============================================================================

type tx struct {
	Sender        string `json:"sender"`
	SenderName    string `json:"sender_name"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name"`
	Amount        uint64 `json:"amount"`
	Signature     string `json:"signature,omitempty"`
}

func toTxs(ns *nameservice.NameService, trans []database.Tx) []tx {
	txs := make([]tx, len(trans))
	for i, tran := range trans {
		txs[i] = tx{
			Sender:        tran.Sender,
			SenderName:    ns.Lookup(tran.Sender),
			Recipient:     tran.Recipient,
			RecipientName: ns.Lookup(tran.Recipient),
			Amount:        tran.Amount,
			Signature:     tran.Signature,
		}
	}
	return txs
}

type block struct {
	Index        uint64 `json:"index"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	Proof        uint64 `json:"proof"`
	TimeStamp    int64  `json:"timestamp"`
	Transactions []tx   `json:"transactions"`
}

func toBlock(ns *nameservice.NameService, blk database.Block) block {
	return block{
		Index:        blk.Index,
		Hash:         blk.Hash(),
		PreviousHash: blk.PreviousHash,
		Proof:        blk.Proof,
		TimeStamp:    blk.TimeStamp,
		Transactions: toTxs(ns, blk.Trans),
	}
}

type chain struct {
	Length int     `json:"length"`
	Blocks []block `json:"chain"`
}

type balanceInfo struct {
	Participant string `json:"participant"`
	Name        string `json:"name"`
	Balance     int64  `json:"balance"`
}

type balanceSheet struct {
	LatestBlock string        `json:"latest_block"`
	Pending     int           `json:"pending"`
	Balances    []balanceInfo `json:"balances"`
}

type peers struct {
	Nodes []string `json:"nodes"`
}

type resolved struct {
	Replaced bool   `json:"replaced"`
	Length   int    `json:"length"`
	Message  string `json:"message"`
}

type status struct {
	HostID           string   `json:"host_id"`
	HostName         string   `json:"host_name"`
	LatestBlockHash  string   `json:"latest_block_hash"`
	LatestBlockIndex uint64   `json:"latest_block_index"`
	ChainLength      int      `json:"chain_length"`
	Pending          int      `json:"pending"`
	ResolutionNeeded bool     `json:"resolution_needed"`
	KnownPeers       []string `json:"known_peers"`
}
