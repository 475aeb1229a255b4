// Package wallet provides the identity that holds the key pair used to sign
// transactions along with a cached copy of its balance.
package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/balance"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/signature"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/transaction"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet represents an actor on the chain. The balance is a cached value
// that only changes when it's refreshed from the chain or explicitly set.
// A wallet is not safe for concurrent use, callers must serialize the
// creation of transactions for the same wallet.
type Wallet struct {
	privateKey      *ecdsa.PrivateKey
	address         string
	startingBalance uint64
	balance         uint64
}

// New constructs a wallet with a newly generated key pair.
func New(startingBalance uint64) (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey, startingBalance), nil
}

// FromPrivateKey constructs a wallet for the specified private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey, startingBalance uint64) *Wallet {
	return &Wallet{
		privateKey:      privateKey,
		address:         signature.PublicKeyToAddress(privateKey.PublicKey),
		startingBalance: startingBalance,
		balance:         startingBalance,
	}
}

// Load constructs a wallet from the private key stored in the file.
func Load(path string, startingBalance uint64) (*Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading key: %w", err)
	}

	return FromPrivateKey(privateKey, startingBalance), nil
}

// Save writes the private key of the wallet to the file.
func (w *Wallet) Save(path string) error {
	return crypto.SaveECDSA(path, w.privateKey)
}

// Address returns the address of the wallet.
func (w *Wallet) Address() string {
	return w.address
}

// Balance returns the cached balance of the wallet.
func (w *Wallet) Balance() uint64 {
	return w.balance
}

// SetBalance replaces the cached balance of the wallet.
func (w *Wallet) SetBalance(balance uint64) {
	w.balance = balance
}

// Sign produces a signature over the value that can be verified against
// the address of the wallet.
func (w *Wallet) Sign(value any) (string, error) {
	return signature.Sign(value, w.privateKey)
}

// RefreshBalance replays the blocks to recompute the balance of the wallet
// and caches the result.
func (w *Wallet) RefreshBalance(blocks []chain.Block) uint64 {
	w.balance = balance.Calculate(blocks, w.address, w.startingBalance)
	return w.balance
}

// CreateTransaction constructs a transaction sending the amount to the
// recipient using the cached balance. The balance is not decremented.
func (w *Wallet) CreateTransaction(recipient string, amount uint64) (*transaction.Transaction, error) {
	if amount > w.balance {
		return nil, fmt.Errorf("%w: balance %d, amount %d", transaction.ErrInsufficientFunds, w.balance, amount)
	}

	return transaction.New(w, recipient, amount)
}

// CreateTransactionFromChain refreshes the balance from the blocks before
// constructing the transaction, so the funds check uses the latest state.
func (w *Wallet) CreateTransactionFromChain(recipient string, amount uint64, blocks []chain.Block) (*transaction.Transaction, error) {
	w.RefreshBalance(blocks)
	return w.CreateTransaction(recipient, amount)
}
