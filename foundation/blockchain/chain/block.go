package chain

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/signature"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/transaction"
)

// ErrChainForked is returned when a block doesn't link to the latest block.
var ErrChainForked = errors.New("block doesn't link to the latest block")

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Block number in the chain, starting at 1.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was added to the chain.
}

// Block represents a group of committed transactions batched together.
type Block struct {
	Header BlockHeader               `json:"header"`
	Trans  []transaction.Transaction `json:"trans"`
}

// NewBlock constructs the block that follows the parent block.
func NewBlock(parent Block, trans []transaction.Transaction) Block {
	prevBlockHash := signature.ZeroHash
	if parent.Header.Number > 0 {
		prevBlockHash = parent.Hash()
	}

	return Block{
		Header: BlockHeader{
			Number:        parent.Header.Number + 1,
			PrevBlockHash: prevBlockHash,
			TimeStamp:     uint64(time.Now().UTC().UnixMilli()),
		},
		Trans: trans,
	}
}

// Hash returns the unique hash for the block.
func (b Block) Hash() string {
	if b.Header.Number == 0 {
		return signature.ZeroHash
	}

	return signature.Hash(b)
}

// ValidateBlock checks the block links to the parent block.
func (b Block) ValidateBlock(parent Block) error {
	if b.Header.Number != parent.Header.Number+1 {
		return fmt.Errorf("%w: block number %d, parent number %d", ErrChainForked, b.Header.Number, parent.Header.Number)
	}

	if b.Header.PrevBlockHash != parent.Hash() {
		return fmt.Errorf("%w: parent hash doesn't match for block %d", ErrChainForked, b.Header.Number)
	}

	return nil
}
