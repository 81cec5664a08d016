// Package main provides the CLI for the namedgen code generator.
package main

import (
	"os"

	"github.com/leapstack-labs/namedgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
