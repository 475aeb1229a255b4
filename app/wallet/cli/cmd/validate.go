package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/transaction"
	"github.com/spf13/cobra"
)

var txFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a transaction stored in a JSON file",
	Run:   validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&txFile, "file", "f", "", "Path to the transaction JSON file.")
	validateCmd.MarkFlagRequired("file")
}

func validateRun(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(txFile)
	if err != nil {
		log.Fatal(err)
	}

	var tx transaction.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		log.Fatal(err)
	}

	if err := tx.Validate(); err != nil {
		fmt.Println("invalid:", err)
		os.Exit(1)
	}

	fmt.Println("valid:", tx)
}
