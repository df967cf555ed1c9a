// Command brc is the BRC compiler's command-line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/brc-lang/brc/cmd/brc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
