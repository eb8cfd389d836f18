package cmd

import (
	"log"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
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
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		log.Fatal(err)
	}

	if err := crypto.SaveECDSA(getPrivateKeyPath(), privateKey); err != nil {
		log.Fatal(err)
	}
}
