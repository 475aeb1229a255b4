package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/cryptochain/foundation/blockchain/mempool"
	"github.com/ardanlabs/cryptochain/foundation/logger"
	"github.com/ardanlabs/cryptochain/foundation/nameservice"
	"github.com/ardanlabs/cryptochain/foundation/validate"
	"github.com/spf13/cobra"
)

var (
	to    []string
	value []uint
)

// sendRequest is the set of payments collected from the command line.
type sendRequest struct {
	Payments []payment `json:"payments" validate:"required,min=1,dive"`
}

type payment struct {
	To    string `json:"to" validate:"required"`
	Value uint64 `json:"value" validate:"gt=0"`
}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send one or more payments in a single transaction and commit it to the chain",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringSliceVarP(&to, "to", "t", nil, "Name or address of the recipient, repeat for more payments.")
	sendCmd.Flags().UintSliceVarP(&value, "value", "v", nil, "Value to send, one per recipient.")
}

func sendRun(cmd *cobra.Command, args []string) {
	if len(to) != len(value) {
		log.Fatalf("got %d recipients and %d values", len(to), len(value))
	}

	req := sendRequest{
		Payments: make([]payment, len(to)),
	}
	for i := range to {
		req.Payments[i] = payment{To: to[i], Value: uint64(value[i])}
	}

	if err := validate.Check(req); err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New("WALLET")
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	ev := logger.EvHandler(zlog)

	w, err := loadWallet()
	if err != nil {
		log.Fatal(err)
	}

	ns, err := nameservice.New(accountPath)
	if err != nil {
		log.Fatal(err)
	}

	ch, err := openChain(ev)
	if err != nil {
		log.Fatal(err)
	}
	defer ch.Close()

	// Every payment lands in the same pending transaction for the wallet.
	mp := mempool.New(ev)
	blocks := ch.Blocks()
	for _, p := range req.Payments {
		recipient := p.To
		if address, found := ns.Address(p.To); found {
			recipient = address
		}

		if _, err := mp.Submit(w, recipient, p.Value, blocks); err != nil {
			log.Fatal(err)
		}
	}

	trans := mp.ValidTransactions()
	block, err := ch.Append(trans)
	if err != nil {
		log.Fatal(err)
	}
	mp.ClearCommitted(ch.Blocks())

	zlog.Infow("send", "status", "committed", "block", block.Header.Number, "trans", len(trans))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trans); err != nil {
		log.Fatal(err)
	}

	fmt.Println("new balance:", w.RefreshBalance(ch.Blocks()))
}
