package main

import (
	"os"

	"github.com/skyfield/exotriage/cmd/exotriage/commands"
)

// main is the entry point for the exotriage CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
