// Package signature provides helper functions for handling the blockchain
// signature needs.
package signature

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Set of error variables for verifying signatures.
var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMismatch         = errors.New("signature does not match data")
)

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

// PublicKeyToAddress converts the public key to the address used to index
// outputs on the chain. The address is the hex-encoded compressed key so
// signatures can be verified against it directly.
func PublicKeyToAddress(pk ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.CompressPubkey(&pk))
}

// Sign uses the specified private key to sign the data. The signature is
// returned in its hex-encoded [R|S|V] form.
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

	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, sig[:crypto.RecoveryIDOffset]) {
		return "", ErrInvalidSignature
	}

	return hexutil.Encode(sig), nil
}

// Verify checks the signature was produced by the owner of the address over
// the exact same value. Any malformed input fails the verification.
func Verify(value any, address string, sig string) error {
	publicKey, err := hexutil.Decode(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}

	if _, err := crypto.DecompressPubkey(publicKey); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}

	sigBytes, err := hexutil.Decode(sig)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	if len(sigBytes) != crypto.SignatureLength {
		return fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sigBytes))
	}

	// Prepare the data for verification.
	data, err := stamp(value)
	if err != nil {
		return err
	}

	if sigBytes[crypto.RecoveryIDOffset] > 1 {
		return fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sigBytes[crypto.RecoveryIDOffset])
	}

	if !crypto.VerifySignature(publicKey, data, sigBytes[:crypto.RecoveryIDOffset]) {
		return ErrMismatch
	}

	// The recovery id must lead back to the same key.
	recovered, err := crypto.SigToPub(data, sigBytes)
	if err != nil || !bytes.Equal(crypto.CompressPubkey(recovered), publicKey) {
		return ErrMismatch
	}

	return nil
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this data with
// the Ardan stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// Marshal the data.
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Hash the data data into a 32 byte array. This will provide
	// a data length consistency with all data.
	txHash := crypto.Keccak256(v)

	// Convert the stamp into a slice of bytes. This stamp is
	// used so signatures we produce when signing data
	// are always unique to the Ardan blockchain.
	stamp := []byte("\x19Ardan Signed Message:\n32")

	// Hash the stamp and txHash together in a final 32 byte array
	// that represents the data.
	data := crypto.Keccak256(stamp, txHash)

	return data, nil
}
