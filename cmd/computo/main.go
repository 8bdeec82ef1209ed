// Command computo is a command-line driver for evaluating, converting, and
// formatting Computo scripts.
package main

import (
	"fmt"
	"os"

	"github.com/computo-run/computo/cmd/computo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
