// Package cmd implements the computo command-line tool: run scripts against
// JSON input documents, convert between sugar source and the call-form AST,
// reformat and highlight sugar source, and inspect the operator registry.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version, GitCommit, and BuildDate are set via -ldflags at release build
// time; they keep the defaults below for local `go run`/`go build`.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "computo",
	Short:   "Computo: a homoiconic expression language for transforming JSON",
	Version: Version,
	Long: `Computo evaluates a JSON call-form AST against a sequence of JSON
input documents and produces a JSON result. A small sugar syntax compiles
down to the same call-form AST, so scripts can be written either way.

Use "computo run" to evaluate a script, "computo convert" to translate
between the two forms, and "computo operators" to list what's available.`,
}

// Execute runs the root command, returning any error it reports.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("computo version %s (commit %s, built %s)\n", Version, GitCommit, BuildDate))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print extra diagnostic output")
}

var verbose bool

func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "computo: "+format+"\n", args...)
	os.Exit(1)
}
