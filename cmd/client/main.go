package main

import (
	"os"

	"github.com/asanchezr/bancoseguro/cmd/client/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
