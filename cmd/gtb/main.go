// Package main is the entry point for the gtb CLI.
package main

import (
	"os"

	"github.com/f3rmion/gtb/cmd/gtb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
