// Package memory keeps committed blocks in a slice. It backs tests and
// short lived chains that don't need to survive a restart.
package memory

import (
	"errors"
	"sync"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
)

// Set of error variables for reading and writing blocks.
var (
	ErrOutOfOrder = errors.New("block is out of order")
	ErrNotFound   = errors.New("block does not exist")
)

// Memory stores the blocks in number order. Block n lives at index n-1.
type Memory struct {
	mu     sync.RWMutex
	blocks []chain.Block
}

// New constructs an empty store.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Write appends the block. The block must be the next one in the chain.
func (m *Memory) Write(block chain.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if next := uint64(len(m.blocks)) + 1; block.Header.Number != next {
		return ErrOutOfOrder
	}

	m.blocks = append(m.blocks, block)
	return nil
}

// GetBlock returns the block with the number.
func (m *Memory) GetBlock(num uint64) (chain.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num == 0 || num > uint64(len(m.blocks)) {
		return chain.Block{}, ErrNotFound
	}

	return m.blocks[num-1], nil
}

// ForEach walks the blocks from number 1.
func (m *Memory) ForEach() chain.Iterator {
	return &iterator{store: m}
}

// Reset drops every block.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

type iterator struct {
	store *Memory
	num   uint64
	done  bool
}

// Next returns the following block. Reading past the last block marks the
// iterator as done.
func (it *iterator) Next() (chain.Block, error) {
	if it.done {
		return chain.Block{}, ErrNotFound
	}

	it.num++
	block, err := it.store.GetBlock(it.num)
	if err != nil {
		it.done = true
	}

	return block, err
}

// Done reports whether the last block was read.
func (it *iterator) Done() bool {
	return it.done
}
