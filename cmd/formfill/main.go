package main

import (
	"os"

	"github.com/goliatone/go-formfill/cmd/formfill/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
