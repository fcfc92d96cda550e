package main

import (
	"os"

	"github.com/tradex/exchange-service/cmd/exchange/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
