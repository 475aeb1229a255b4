package mempool_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/mempool"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/transaction"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/wallet"
	"go.uber.org/zap/zaptest"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newWallet(t *testing.T) *wallet.Wallet {
	w, err := wallet.New(genesis.StartingBalance)
	if err != nil {
		t.Fatalf("Should be able to construct a wallet: %s", err)
	}
	return w
}

func TestSubmit(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	ev := func(v string, args ...any) {
		log.Info(fmt.Sprintf(v, args...))
	}

	w := newWallet(t)
	mp := mempool.New(ev)

	t.Log("Given the need to submit wallet transactions to the pool.")
	{
		t.Logf("\tTest 0:\tWhen the wallet has no pending transaction.")
		{
			tx, err := mp.Submit(w, "R1", 50, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit.", success)

			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have one transaction in the pool: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould have one transaction in the pool.", success)

			existing, found := mp.Existing(w.Address())
			if !found || existing.ID != tx.ID {
				t.Fatalf("\t%s\tTest 0:\tShould find the transaction by the sender address.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the transaction by the sender address.", success)
		}

		t.Logf("\tTest 1:\tWhen the wallet already has a pending transaction.")
		{
			tx, err := mp.Submit(w, "R2", 100, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to submit: %s", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to submit.", success)

			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould extend the pending transaction: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 1:\tShould extend the pending transaction.", success)

			if tx.OutputMap["R1"] != 50 || tx.OutputMap["R2"] != 100 || tx.OutputMap[w.Address()] != 850 {
				t.Logf("\t%s\tTest 1:\tgot: %v", failed, tx.OutputMap)
				t.Fatalf("\t%s\tTest 1:\tShould carry both payments.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould carry both payments.", success)

			if len(mp.ValidTransactions()) != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould be a valid transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould be a valid transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen the payment exceeds what is left.")
		{
			before, _ := mp.Existing(w.Address())

			if _, err := mp.Submit(w, "R3", 851, nil); !errors.Is(err, transaction.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest 2:\tShould fail with insufficient funds: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould fail with insufficient funds.", success)

			after, _ := mp.Existing(w.Address())
			if _, exists := after.OutputMap["R3"]; exists || after.Input != before.Input {
				t.Fatalf("\t%s\tTest 2:\tShould leave the pooled transaction untouched.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould leave the pooled transaction untouched.", success)
		}
	}
}

func TestValidTransactions(t *testing.T) {
	a := newWallet(t)
	b := newWallet(t)
	mp := mempool.New(nil)

	good, err := a.CreateTransaction("R1", 10)
	if err != nil {
		t.Fatalf("Should be able to create a transaction: %s", err)
	}

	bad, err := b.CreateTransaction("R1", 10)
	if err != nil {
		t.Fatalf("Should be able to create a transaction: %s", err)
	}
	bad.OutputMap["R1"] = 11

	mp.Upsert(*good)
	mp.Upsert(*bad)

	t.Log("Given the need to pick the valid transactions in the pool.")
	{
		t.Logf("\tTest 0:\tWhen one transaction was tampered with.")
		{
			valid := mp.ValidTransactions()
			if len(valid) != 1 || valid[0].ID != good.ID {
				t.Fatalf("\t%s\tTest 0:\tShould only return the valid transaction: %v", failed, valid)
			}
			t.Logf("\t%s\tTest 0:\tShould only return the valid transaction.", success)

			if len(mp.Transactions()) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould keep both transactions in the pool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep both transactions in the pool.", success)
		}
	}
}

func TestClearCommitted(t *testing.T) {
	a := newWallet(t)
	b := newWallet(t)
	mp := mempool.New(nil)

	txA, err := mp.Submit(a, "R1", 10, nil)
	if err != nil {
		t.Fatalf("Should be able to submit: %s", err)
	}

	if _, err := mp.Submit(b, "R1", 10, nil); err != nil {
		t.Fatalf("Should be able to submit: %s", err)
	}

	blocks := []chain.Block{chain.NewBlock(chain.Block{}, []transaction.Transaction{txA})}

	t.Log("Given the need to clear committed transactions from the pool.")
	{
		t.Logf("\tTest 0:\tWhen one of two transactions was committed.")
		{
			mp.ClearCommitted(blocks)

			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have one transaction left: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould have one transaction left.", success)

			if _, found := mp.Existing(a.Address()); found {
				t.Fatalf("\t%s\tTest 0:\tShould have removed the committed transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have removed the committed transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen truncating the pool.")
		{
			mp.Truncate()

			if mp.Count() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould have an empty pool: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 1:\tShould have an empty pool.", success)
		}
	}
}

func TestUpsertSameSender(t *testing.T) {
	w := newWallet(t)
	mp := mempool.New(nil)

	first, err := w.CreateTransaction("R1", 10)
	if err != nil {
		t.Fatalf("Should be able to create a transaction: %s", err)
	}

	second, err := w.CreateTransaction("R2", 20)
	if err != nil {
		t.Fatalf("Should be able to create a transaction: %s", err)
	}

	t.Log("Given the need to keep one pending transaction per sender.")
	{
		t.Logf("\tTest 0:\tWhen two transactions from the same sender are added.")
		{
			mp.Upsert(*first)
			mp.Upsert(*second)

			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have one transaction in the pool: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould have one transaction in the pool.", success)

			for i := 0; i < 10; i++ {
				existing, found := mp.Existing(w.Address())
				if !found || existing.ID != second.ID {
					t.Fatalf("\t%s\tTest 0:\tShould always find the latest transaction.", failed)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould always find the latest transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen the same transaction is added again.")
		{
			mp.Upsert(*second)

			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould still have one transaction in the pool: %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 1:\tShould still have one transaction in the pool.", success)
		}
	}
}
