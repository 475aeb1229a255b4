package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	gen, err := loadGenesis()
	if err != nil {
		log.Fatal(err)
	}

	w, err := wallet.New(gen.StartingBalance)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		log.Fatal(err)
	}

	if err := w.Save(getPrivateKeyPath()); err != nil {
		log.Fatal(err)
	}

	fmt.Println(w.Address())
}
