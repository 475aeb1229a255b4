// Package transaction provides the value transfer record that moves funds
// between addresses, along with its construction, extension and validation.
package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/signature"
	"github.com/google/uuid"
)

// Set of error variables for creating and validating transactions.
var (
	ErrInsufficientFunds = errors.New("amount exceeds balance")
	ErrNoOutputs         = errors.New("transaction has no outputs")
	ErrConservation      = errors.New("input amount does not match outputs")
	ErrSignature         = errors.New("invalid signature")
)

// Sender represents the behavior of the identity that originates and signs
// a transaction.
type Sender interface {
	Address() string
	Balance() uint64
	Sign(value any) (string, error)
}

// =============================================================================

// Input is the signed envelope of a transaction. Amount is the balance of
// the signer at the time of signing, not the amount being transferred.
type Input struct {
	TimeStamp int64  `json:"timestamp"` // Unix milliseconds when the input was signed.
	Amount    uint64 `json:"amount"`    // Balance of the signer when signing.
	Address   string `json:"address"`   // Address of the signer.
	Signature string `json:"signature"` // Signature over the output map.
}

// Transaction represents a transfer of value from one sender to one or
// more recipients, including the change returned to the sender.
type Transaction struct {
	ID        string    `json:"id"`
	OutputMap OutputMap `json:"outputMap"`
	Input     Input     `json:"input"`
}

// New constructs a transaction moving the amount from the sender to the
// recipient. The remaining balance of the sender is recorded as change.
func New(sender Sender, recipient string, amount uint64) (*Transaction, error) {
	balance := sender.Balance()
	if amount > balance {
		return nil, fmt.Errorf("%w: balance %d, amount %d", ErrInsufficientFunds, balance, amount)
	}

	// The sender is set last so a transfer to yourself leaves a single
	// output holding the full balance.
	outputMap := make(OutputMap)
	outputMap.Set(recipient, amount)
	outputMap.Set(sender.Address(), balance-amount)

	input, err := newInput(sender, outputMap)
	if err != nil {
		return nil, err
	}

	tx := Transaction{
		ID:        uuid.NewString(),
		OutputMap: outputMap,
		Input:     input,
	}

	return &tx, nil
}

// Update extends the transaction with another payment from the same sender.
// An existing output for the recipient is replaced, not added to. The input
// is regenerated so the previous signature is discarded.
func (tx *Transaction) Update(sender Sender, recipient string, amount uint64) error {
	address := sender.Address()

	senderBalance := tx.OutputMap[address]
	if amount > senderBalance {
		return fmt.Errorf("%w: remaining %d, amount %d", ErrInsufficientFunds, senderBalance, amount)
	}

	// Work on a copy so a signing failure leaves the transaction untouched.
	outputMap := tx.OutputMap.Copy()
	outputMap.Set(recipient, amount)
	outputMap.Set(address, outputMap[address]-amount)

	input, err := newInput(sender, outputMap)
	if err != nil {
		return err
	}

	tx.OutputMap = outputMap
	tx.Input = input

	return nil
}

// Validate checks the input amount matches the total of the outputs and
// the signature was produced by the input address over the current outputs.
func (tx Transaction) Validate() error {
	total, err := tx.OutputMap.Total()
	if err != nil {
		return err
	}

	if total != tx.Input.Amount {
		return fmt.Errorf("%w: input %d, outputs %d", ErrConservation, tx.Input.Amount, total)
	}

	if err := signature.Verify(tx.OutputMap, tx.Input.Address, tx.Input.Signature); err != nil {
		return fmt.Errorf("%w: %s", ErrSignature, err)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s:%s", tx.Input.Address, tx.ID)
}

// IsValid reports whether the transaction passes validation. The reason
// for a failure is reported through the event handler.
func IsValid(tx Transaction, evHandler func(v string, args ...any)) bool {
	if err := tx.Validate(); err != nil {
		if evHandler != nil {
			evHandler("transaction: IsValid: ERROR: invalid transaction from %s: %s", tx.Input.Address, err)
		}
		return false
	}

	return true
}

// =============================================================================

// newInput signs the output map on behalf of the sender.
func newInput(sender Sender, outputMap OutputMap) (Input, error) {
	sig, err := sender.Sign(outputMap)
	if err != nil {
		return Input{}, fmt.Errorf("signing outputs: %w", err)
	}

	input := Input{
		TimeStamp: time.Now().UTC().UnixMilli(),
		Amount:    sender.Balance(),
		Address:   sender.Address(),
		Signature: sig,
	}

	return input, nil
}
