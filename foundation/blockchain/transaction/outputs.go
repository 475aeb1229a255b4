package transaction

import (
	"fmt"
	"math"
)

// OutputMap maps an address to the amount that address receives from the
// transaction. The JSON encoding sorts the keys, so the bytes that are
// signed are the same for the same set of outputs.
type OutputMap map[string]uint64

// Set assigns the amount to the address, replacing any amount the address
// was already assigned.
func (om OutputMap) Set(address string, amount uint64) {
	om[address] = amount
}

// Copy returns a copy of the output map.
func (om OutputMap) Copy() OutputMap {
	cpy := make(OutputMap, len(om))
	for address, amount := range om {
		cpy[address] = amount
	}
	return cpy
}

// Total returns the sum of all the outputs. An empty output map has no
// total and a sum that overflows can't match any input.
func (om OutputMap) Total() (uint64, error) {
	if len(om) == 0 {
		return 0, ErrNoOutputs
	}

	var total uint64
	for address, amount := range om {
		if amount > math.MaxUint64-total {
			return 0, fmt.Errorf("%w: outputs overflow at %s", ErrConservation, address)
		}
		total += amount
	}

	return total, nil
}
