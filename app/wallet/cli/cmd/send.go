package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Participant to receive the value.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	if err := send(privateKey); err != nil {
		log.Fatal(err)
	}
}

func send(privateKey *ecdsa.PrivateKey) error {
	tx, err := database.SignTx(privateKey, to, amount)
	if err != nil {
		return err
	}

	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	msg, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	fmt.Println(string(bytes.TrimSpace(msg)))
	return nil
}
