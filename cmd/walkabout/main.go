// Package main is the entry point for the walkabout CLI.
package main

import (
	"os"

	"github.com/walkabout-eda/walkabout/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
