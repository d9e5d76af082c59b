package main

import (
	"os"

	"github.com/evcomfg/invoice-backend/cmd/invoicectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
