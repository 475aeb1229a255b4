// Package chain provides the read-only view of the committed blocks that the
// balance accounting replays, and the storage needed to keep them.
package chain

import (
	"sync"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/transaction"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Chain manages the ordered set of committed blocks.
type Chain struct {
	mu      sync.RWMutex
	blocks  []Block
	storage Storage
}

// New constructs a chain and reads every block from storage, checking
// each block links to the one before it.
func New(storage Storage, evHandler func(v string, args ...any)) (*Chain, error) {
	ch := Chain{
		storage: storage,
	}

	var latestBlock Block

	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if err := block.ValidateBlock(latestBlock); err != nil {
			return nil, err
		}

		if evHandler != nil {
			evHandler("chain: New: loaded block[%d] trans[%d]", block.Header.Number, len(block.Trans))
		}

		ch.blocks = append(ch.blocks, block)
		latestBlock = block
	}

	return &ch, nil
}

// Close closes the underlying storage.
func (ch *Chain) Close() error {
	return ch.storage.Close()
}

// Reset removes every block from the chain and its storage.
func (ch *Chain) Reset() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if err := ch.storage.Reset(); err != nil {
		return err
	}

	ch.blocks = nil

	return nil
}

// Append commits the transactions into a new block at the end of the chain.
// Validating the transactions is the responsibility of the caller.
func (ch *Chain) Append(trans []transaction.Transaction) (Block, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	block := NewBlock(ch.latestBlock(), trans)
	if err := ch.storage.Write(block); err != nil {
		return Block{}, err
	}

	ch.blocks = append(ch.blocks, block)

	return block, nil
}

// Blocks returns a copy of the blocks in the chain, oldest first.
func (ch *Chain) Blocks() []Block {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	blocks := make([]Block, len(ch.blocks))
	copy(blocks, ch.blocks)
	return blocks
}

// LatestBlock returns the latest block in the chain.
func (ch *Chain) LatestBlock() Block {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	return ch.latestBlock()
}

// latestBlock expects the lock to be held.
func (ch *Chain) latestBlock() Block {
	if len(ch.blocks) == 0 {
		return Block{}
	}
	return ch.blocks[len(ch.blocks)-1]
}
