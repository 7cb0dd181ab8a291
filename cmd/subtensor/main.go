// Package main provides the subtensor CLI.
package main

import (
	"os"

	"github.com/born-ml/subtensor/cmd/subtensor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
