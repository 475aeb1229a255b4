// Package balance reconstructs account balances by replaying the
// transactions committed to the chain.
package balance

import (
	"math"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
)

// Calculate returns the spendable balance for the address by scanning the
// chain from the newest transaction to the oldest. The most recent
// transaction sent by the address records its change, so anything older is
// superseded and the scan stops there. Within a block, transactions are
// ordered as they appear in the block and the last one is the most recent.
// If the address never sent a transaction, the starting balance plus all
// the income is returned. A balance that would overflow is capped at the
// maximum amount.
func Calculate(blocks []chain.Block, address string, startingBalance uint64) uint64 {
	var income uint64

	for i := len(blocks) - 1; i >= 0; i-- {
		trans := blocks[i].Trans

		for j := len(trans) - 1; j >= 0; j-- {
			tx := trans[j]

			if tx.Input.Address == address {
				return add(tx.OutputMap[address], income)
			}

			if amount, exists := tx.OutputMap[address]; exists {
				income = add(income, amount)
			}
		}
	}

	return add(startingBalance, income)
}

// Sheet calculates the balance of every specified address against the same
// set of blocks.
func Sheet(blocks []chain.Block, addresses []string, startingBalance uint64) map[string]uint64 {
	sheet := make(map[string]uint64, len(addresses))
	for _, address := range addresses {
		sheet[address] = Calculate(blocks, address, startingBalance)
	}
	return sheet
}

// add sums the amounts, saturating at the maximum amount.
func add(a, b uint64) uint64 {
	if b > math.MaxUint64-a {
		return math.MaxUint64
	}
	return a + b
}
