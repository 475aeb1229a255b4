// Package cmd contains wallet app
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain/disk"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/wallet"
	"github.com/ardanlabs/cryptochain/foundation/nameservice"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	dbPath      string
	genesisPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Path to the private key.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db-path", "d", "zblock/blocks/", "Path to the directory with the committed blocks.")
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "", "Path to the genesis file, the default genesis is used when empty.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple wallet",
}

// Execute runs the wallet command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// =============================================================================

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, nameservice.KeyExtension) {
		accountName += nameservice.KeyExtension
	}

	return filepath.Join(accountPath, accountName)
}

func loadGenesis() (genesis.Genesis, error) {
	if genesisPath == "" {
		return genesis.Default(), nil
	}

	return genesis.Load(genesisPath)
}

func loadWallet() (*wallet.Wallet, error) {
	gen, err := loadGenesis()
	if err != nil {
		return nil, err
	}

	return wallet.Load(getPrivateKeyPath(), gen.StartingBalance)
}

func openChain(evHandler func(v string, args ...any)) (*chain.Chain, error) {
	storage, err := disk.New(dbPath)
	if err != nil {
		return nil, err
	}

	return chain.New(storage, evHandler)
}
