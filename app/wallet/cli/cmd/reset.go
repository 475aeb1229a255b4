package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every committed block.",
	Run:   resetRun,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func resetRun(cmd *cobra.Command, args []string) {
	ch, err := openChain(nil)
	if err != nil {
		log.Fatal(err)
	}
	defer ch.Close()

	if err := ch.Reset(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Chain reset:", dbPath)
}
