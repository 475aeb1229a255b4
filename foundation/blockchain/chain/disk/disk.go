// Package disk keeps committed blocks on disk, one JSON file per block
// named after the block number.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
)

// Disk stores the blocks under a single directory.
type Disk struct {
	dbPath string
}

// New constructs a store rooted at the directory, creating it if needed.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dbPath, err)
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close is a no-op, every file is closed once written.
func (d *Disk) Close() error {
	return nil
}

// Write stores the block in its own file. A block already on disk is
// never overwritten.
func (d *Disk) Write(block chain.Block) error {
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding block %d: %w", block.Header.Number, err)
	}

	f, err := os.OpenFile(d.path(block.Header.Number), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// GetBlock reads the block with the number. A missing block reports an
// error matching fs.ErrNotExist.
func (d *Disk) GetBlock(num uint64) (chain.Block, error) {
	f, err := os.Open(d.path(num))
	if err != nil {
		return chain.Block{}, err
	}
	defer f.Close()

	var block chain.Block
	if err := json.NewDecoder(f).Decode(&block); err != nil {
		return chain.Block{}, fmt.Errorf("decoding block %d: %w", num, err)
	}

	return block, nil
}

// ForEach walks the blocks from number 1 until a file is missing.
func (d *Disk) ForEach() chain.Iterator {
	return &iterator{store: d}
}

// Reset deletes every block file and leaves an empty directory.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

func (d *Disk) path(num uint64) string {
	return filepath.Join(d.dbPath, fmt.Sprintf("%d.json", num))
}

// =============================================================================

type iterator struct {
	store *Disk
	num   uint64
	done  bool
}

// Next returns the following block. A missing file ends the walk, any
// other error is returned to the caller.
func (it *iterator) Next() (chain.Block, error) {
	if it.done {
		return chain.Block{}, fs.ErrNotExist
	}

	it.num++
	block, err := it.store.GetBlock(it.num)
	if errors.Is(err, fs.ErrNotExist) {
		it.done = true
	}

	return block, err
}

// Done reports whether the last block was read.
func (it *iterator) Done() bool {
	return it.done
}
