package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// MiningSender is the sender recorded on reward transactions.
const MiningSender = "MINING"

// =============================================================================

// Tx is the value transfer between two participants.
type Tx struct {
	Sender    string `json:"sender"`    // Participant sending the value, MINING for rewards.
	Recipient string `json:"recipient"` // Participant receiving the value.
	Signature string `json:"signature"` // Authenticity token, empty for rewards.
	Amount    uint64 `json:"amount"`    // Value being transferred.
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, sig string, amount uint64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Signature: sig,
		Amount:    amount,
	}
}

// NewRewardTx constructs the transaction that pays the miner of a block.
func NewRewardTx(recipient string, reward uint64) Tx {
	return Tx{
		Sender:    MiningSender,
		Recipient: recipient,
		Amount:    reward,
	}
}

// SignTx constructs a transaction from the specified private key's account
// and signs it.
func SignTx(privateKey *ecdsa.PrivateKey, recipient string, amount uint64) (Tx, error) {
	tx := Tx{
		Sender:    signature.PublicKeyToAddress(privateKey.PublicKey),
		Recipient: recipient,
		Amount:    amount,
	}

	sig, err := signature.Sign(tx.payload(), privateKey)
	if err != nil {
		return Tx{}, err
	}
	tx.Signature = sig

	return tx, nil
}

// IsReward reports whether the transaction is a mining reward.
func (tx Tx) IsReward() bool {
	return tx.Sender == MiningSender
}

// Equal reports whether all four fields of the transactions match.
func (tx Tx) Equal(other Tx) bool {
	return tx == other
}

// VerifySignature checks the signature was produced by the sender's key
// over the sender, recipient and amount.
func (tx Tx) VerifySignature() error {
	if tx.IsReward() {
		return errors.New("reward transactions can't be submitted")
	}

	if err := signature.VerifySignature(tx.Signature); err != nil {
		return err
	}

	from, err := signature.FromAddress(tx.payload(), tx.Signature)
	if err != nil {
		return err
	}

	if from != tx.Sender {
		return fmt.Errorf("signature does not match sender, got %s, exp %s", from, tx.Sender)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}

// payload is the part of the transaction covered by the signature.
func (tx Tx) payload() any {
	return struct {
		Sender    string `json:"sender"`
		Recipient string `json:"recipient"`
		Amount    uint64 `json:"amount"`
	}{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
	}
}

// =============================================================================

// ToTx validates a transaction record received from disk or the network.
func ToTx(tx Tx) (Tx, error) {
	if tx.Sender == "" {
		return Tx{}, fmt.Errorf("%w: transaction missing sender", ErrDecode)
	}

	if tx.Recipient == "" {
		return Tx{}, fmt.Errorf("%w: transaction missing recipient", ErrDecode)
	}

	return tx, nil
}

// ToTxs validates a list of transaction records.
func ToTxs(records []Tx) ([]Tx, error) {
	trans := make([]Tx, len(records))
	for i, record := range records {
		tx, err := ToTx(record)
		if err != nil {
			return nil, fmt.Errorf("tx[%d]: %w", i, err)
		}
		trans[i] = tx
	}

	return trans, nil
}
