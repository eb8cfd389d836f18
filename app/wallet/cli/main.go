// This program is a wallet for submitting signed transactions to a node.
package main

import "github.com/ardanlabs/powledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
