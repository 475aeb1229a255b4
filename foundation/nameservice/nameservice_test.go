package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/wallet"
	"github.com/ardanlabs/cryptochain/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestNameService(t *testing.T) {
	dir := t.TempDir()

	w, err := wallet.New(genesis.StartingBalance)
	if err != nil {
		t.Fatalf("Should be able to construct a wallet: %s", err)
	}

	if err := w.Save(filepath.Join(dir, "bill"+nameservice.KeyExtension)); err != nil {
		t.Fatalf("Should be able to save the key: %s", err)
	}

	t.Log("Given the need to resolve names for addresses.")
	{
		t.Logf("\tTest 0:\tWhen a key file exists for the account.")
		{
			ns, err := nameservice.New(dir)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the name service: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to construct the name service.", success)

			if name := ns.Lookup(w.Address()); name != "bill" {
				t.Fatalf("\t%s\tTest 0:\tShould resolve the name: %s", failed, name)
			}
			t.Logf("\t%s\tTest 0:\tShould resolve the name.", success)

			if address, found := ns.Address("bill"); !found || address != w.Address() {
				t.Fatalf("\t%s\tTest 0:\tShould resolve the address: %s", failed, address)
			}
			t.Logf("\t%s\tTest 0:\tShould resolve the address.", success)

			if name := ns.Lookup("unknown"); name != "unknown" {
				t.Fatalf("\t%s\tTest 0:\tShould return the address for unknown accounts: %s", failed, name)
			}
			t.Logf("\t%s\tTest 0:\tShould return the address for unknown accounts.", success)
		}
	}
}
