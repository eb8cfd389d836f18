// Package signature provides helper functions for handling the ledger's
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ledgerID is an arbitrary number added to the recovery id of every
// signature. It makes it clear the signature was produced for this ledger.
// Ethereum and Bitcoin do this as well, but they use the value of 27.
const ledgerID = 31

// =============================================================================

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Sign uses the specified private key to sign the value and returns the
// signature as a hex-encoded string in the [R|S|V] format.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return "", errors.New("invalid signature")
	}

	sig[crypto.RecoveryIDOffset] += ledgerID

	return hexutil.Encode(sig), nil
}

// VerifySignature verifies the signature conforms to our standards.
func VerifySignature(sigStr string) error {
	sig, err := decode(sigStr)
	if err != nil {
		return err
	}

	r := sig[:32]
	s := sig[32:64]
	v := sig[crypto.RecoveryIDOffset]

	if !crypto.ValidateSignatureValues(v, toBig(r), toBig(s), false) {
		return errors.New("invalid signature values")
	}

	return nil
}

// FromAddress extracts the address for the account that signed the value.
func FromAddress(value any, sigStr string) (string, error) {

	// NOTE: If the same exact value for the given signature is not provided
	// we will get the wrong from address. The public key is being extracted
	// from the data and signature.

	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	sig, err := decode(sigStr)
	if err != nil {
		return "", err
	}

	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// PublicKeyToAddress converts the public key to an address string.
func PublicKeyToAddress(pk ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(pk).String()
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this value with
// the ledger stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	txHash := crypto.Keccak256(v)

	// The stamp keeps signatures produced here unique to this ledger.
	stamp := []byte("\x19PoW Ledger Signed Message:\n32")

	return crypto.Keccak256(stamp, txHash), nil
}

// decode converts the hex signature back into the 65 bytes crypto expects,
// removing the ledger id from the recovery byte.
func decode(sigStr string) ([]byte, error) {
	sig, err := hexutil.Decode(sigStr)
	if err != nil {
		return nil, fmt.Errorf("decoding signature: %w", err)
	}

	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("invalid signature length, got %d, exp %d", len(sig), crypto.SignatureLength)
	}

	v := sig[crypto.RecoveryIDOffset]
	if v != ledgerID && v != ledgerID+1 {
		return nil, errors.New("invalid recovery id")
	}
	sig[crypto.RecoveryIDOffset] = v - ledgerID

	return sig, nil
}

// toBig converts the bytes of a signature component into a big integer.
func toBig(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
