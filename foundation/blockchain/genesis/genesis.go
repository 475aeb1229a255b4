// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/cryptochain/foundation/validate"
)

// StartingBalance is the allotment every address owns before it shows up
// in any transaction on the chain.
const StartingBalance uint64 = 1000

// Genesis represents the genesis file.
type Genesis struct {
	Date            time.Time `json:"date"`
	ChainID         uint16    `json:"chain_id" validate:"required"`         // The chain id represents an unique id for this running instance.
	StartingBalance uint64    `json:"starting_balance" validate:"required"` // The balance every address starts with.
}

// Default returns the genesis used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Date:            time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:         1,
		StartingBalance: StartingBalance,
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validating genesis: %w", err)
	}

	return genesis, nil
}
