package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/balance"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/chain/disk"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/cryptochain/foundation/blockchain/transaction"
	"github.com/ardanlabs/cryptochain/foundation/logger"
	"github.com/ardanlabs/cryptochain/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("AUDIT")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the audit.
	if err := run(log); err != nil {
		log.Errorw("audit", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Chain struct {
			DBPath      string `conf:"default:zblock/blocks/"`
			GenesisPath string
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "AUDIT"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Infow("starting audit", "version", build)
	defer log.Infow("audit complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Genesis Support

	gen := genesis.Default()
	if cfg.Chain.GenesisPath != "" {
		if gen, err = genesis.Load(cfg.Chain.GenesisPath); err != nil {
			return fmt.Errorf("unable to load genesis: %w", err)
		}
	}
	log.Infow("startup", "status", "genesis", "chain_id", gen.ChainID, "starting_balance", gen.StartingBalance)

	// =========================================================================
	// Name Service Support

	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	// =========================================================================
	// Chain Support

	storage, err := disk.New(cfg.Chain.DBPath)
	if err != nil {
		return fmt.Errorf("unable to open chain storage: %w", err)
	}

	ev := logger.EvHandler(log)

	ch, err := chain.New(storage, ev)
	if err != nil {
		return fmt.Errorf("unable to load chain: %w", err)
	}
	defer ch.Close()

	blocks := ch.Blocks()

	// =========================================================================
	// Audit Transactions

	var invalid int
	for _, block := range blocks {
		for _, tx := range block.Trans {
			if !transaction.IsValid(tx, ev) {
				invalid++
				log.Infow("audit", "status", "invalid transaction", "block", block.Header.Number, "tx", tx.ID, "from", ns.Lookup(tx.Input.Address))
			}
		}
	}

	// =========================================================================
	// Replay Balances

	addresses := knownAddresses(blocks, ns)
	for _, address := range addresses {
		log.Infow("audit", "status", "balance", "name", ns.Lookup(address), "address", address, "balance", balance.Calculate(blocks, address, gen.StartingBalance))
	}

	log.Infow("audit", "blocks", len(blocks), "accounts", len(addresses), "invalid", invalid)

	return nil
}

// knownAddresses collects every address in the name service and on the
// chain, sorted for stable output.
func knownAddresses(blocks []chain.Block, ns *nameservice.NameService) []string {
	set := make(map[string]struct{})
	for address := range ns.Copy() {
		set[address] = struct{}{}
	}

	for _, block := range blocks {
		for _, tx := range block.Trans {
			set[tx.Input.Address] = struct{}{}
			for address := range tx.OutputMap {
				set[address] = struct{}{}
			}
		}
	}

	addresses := make([]string, 0, len(set))
	for address := range set {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	return addresses
}
