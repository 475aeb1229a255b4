package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	w, err := loadWallet()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("For Address:", w.Address())

	ch, err := openChain(nil)
	if err != nil {
		log.Fatal(err)
	}
	defer ch.Close()

	fmt.Println(w.RefreshBalance(ch.Blocks()))
}
