// Command figscript is the CLI entry point for the Fig evaluator.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/figscript/cmd/figscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
