// This program performs administrative tasks against the ledger a node
// has saved to disk.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/leveldb"
	"github.com/ardanlabs/powledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	if len(os.Args) < 2 {
		return errors.New("usage: admin <bals|trans|verify> [participant]")
	}

	strg, err := openStorage()
	if err != nil {
		return err
	}
	defer strg.Close()

	snapshot, err := strg.Load()
	if err != nil {
		return err
	}

	blocks, err := database.ToBlocks(snapshot.Chain)
	if err != nil {
		return err
	}

	log.Infow("startup", "version", build, "blocks", len(blocks), "pending", len(snapshot.Pending))

	return processCommands(os.Args, blocks, snapshot.Pending)
}

// openStorage opens the node's leveldb store when LEDGER_LEVELDB is set,
// otherwise the disk file.
func openStorage() (storage.Storage, error) {
	if path := os.Getenv("LEDGER_LEVELDB"); path != "" {
		return leveldb.New(path)
	}

	path := os.Getenv("LEDGER_FILE")
	if path == "" {
		path = "zblock/ledger.txt"
	}

	return disk.New(path)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, blocks []database.Block, pending []database.Tx) error {
	switch args[1] {
	case "bals":
		if err := commands.Balances(args, blocks, pending); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}
	case "trans":
		if err := commands.Transactions(args, blocks); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}
	case "verify":
		if err := commands.Verify(blocks); err != nil {
			return fmt.Errorf("verifying chain: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
