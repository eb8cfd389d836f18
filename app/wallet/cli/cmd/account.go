package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the participant address for the specific wallet",
	Run:   accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(signature.PublicKeyToAddress(privateKey.PublicKey))
}
