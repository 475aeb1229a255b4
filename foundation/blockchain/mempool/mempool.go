// Package mempool maintains the pool of transactions waiting to be
// committed to the chain.
package mempool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/transaction"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/wallet"
)

// Mempool represents a cache of pending transactions keyed by the
// transaction id.
type Mempool struct {
	mu        sync.RWMutex
	pool      map[string]transaction.Transaction
	evHandler func(v string, args ...any)
}

// New constructs a new mempool for use.
func New(evHandler func(v string, args ...any)) *Mempool {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	return &Mempool{
		pool:      make(map[string]transaction.Transaction),
		evHandler: evHandler,
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool. A sender only has
// one pending transaction, so any other transaction from the same address
// is replaced.
func (mp *Mempool) Upsert(tx transaction.Transaction) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.upsert(tx)

	return len(mp.pool)
}

// Existing returns the pending transaction sent by the address.
func (mp *Mempool) Existing(address string) (transaction.Transaction, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.existing(address)
}

// Submit creates a transaction from the wallet, or extends the wallet's
// pending transaction if one exists, and adds it to the pool. The pool lock
// is held for the whole operation so two submissions for the same wallet
// can't both observe the same funds.
func (mp *Mempool) Submit(w *wallet.Wallet, recipient string, amount uint64, blocks []chain.Block) (transaction.Transaction, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var tx *transaction.Transaction

	switch existing, found := mp.existing(w.Address()); {
	case found:
		if err := existing.Update(w, recipient, amount); err != nil {
			return transaction.Transaction{}, err
		}
		tx = &existing

	default:
		var err error
		if tx, err = w.CreateTransactionFromChain(recipient, amount, blocks); err != nil {
			return transaction.Transaction{}, err
		}
	}

	if err := tx.Validate(); err != nil {
		return transaction.Transaction{}, fmt.Errorf("submitting %s: %w", tx, err)
	}

	mp.upsert(*tx)
	mp.evHandler("mempool: Submit: tx[%s] recipient[%s] amount[%d] count[%d]", tx, recipient, amount, len(mp.pool))

	return *tx, nil
}

// Transactions returns a copy of the pending transactions ordered by
// the time they were signed.
func (mp *Mempool) Transactions() []transaction.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]transaction.Transaction, 0, len(mp.pool))
	for _, tx := range mp.pool {
		trans = append(trans, tx)
	}

	sort.Slice(trans, func(i, j int) bool {
		if trans[i].Input.TimeStamp == trans[j].Input.TimeStamp {
			return trans[i].ID < trans[j].ID
		}
		return trans[i].Input.TimeStamp < trans[j].Input.TimeStamp
	})

	return trans
}

// ValidTransactions returns the pending transactions that pass validation.
func (mp *Mempool) ValidTransactions() []transaction.Transaction {
	var valid []transaction.Transaction
	for _, tx := range mp.Transactions() {
		if transaction.IsValid(tx, mp.evHandler) {
			valid = append(valid, tx)
		}
	}
	return valid
}

// ClearCommitted removes the transactions that have been committed into
// any of the blocks.
func (mp *Mempool) ClearCommitted(blocks []chain.Block) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, block := range blocks {
		for _, tx := range block.Trans {
			delete(mp.pool, tx.ID)
		}
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]transaction.Transaction)
}

// =============================================================================

// upsert expects the lock to be held.
func (mp *Mempool) upsert(tx transaction.Transaction) {
	for id, pending := range mp.pool {
		if id != tx.ID && pending.Input.Address == tx.Input.Address {
			delete(mp.pool, id)
		}
	}

	mp.pool[tx.ID] = tx
}

// existing expects the lock to be held. The output map is copied so the
// caller can update the transaction without touching the pool.
func (mp *Mempool) existing(address string) (transaction.Transaction, bool) {
	for _, tx := range mp.pool {
		if tx.Input.Address == address {
			tx.OutputMap = tx.OutputMap.Copy()
			return tx, true
		}
	}

	return transaction.Transaction{}, false
}
