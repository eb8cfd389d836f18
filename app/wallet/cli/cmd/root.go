// Package cmd contains the wallet app.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	url         string
)

const (
	keyExtension = ".ecdsa"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Path to the private key.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Simple wallet for the proof of work ledger",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, keyExtension) {
		accountName += keyExtension
	}

	return filepath.Join(accountPath, accountName)
}
