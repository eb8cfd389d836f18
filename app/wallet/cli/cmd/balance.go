package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type balance struct {
	Participant string `json:"participant"`
	Name        string `json:"name"`
	Balance     int64  `json:"balance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	address := signature.PublicKeyToAddress(privateKey.PublicKey)
	fmt.Println("For Participant:", address)

	resp, err := http.Get(fmt.Sprintf("%s/v1/balance/%s", url, address))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node answered with status %d", resp.StatusCode)
	}

	var bal balance
	if err := json.NewDecoder(resp.Body).Decode(&bal); err != nil {
		log.Fatal(err)
	}

	fmt.Println(bal.Balance)
}
