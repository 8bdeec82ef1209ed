package cmd

import (
	"fmt"
	"sort"

	"github.com/computo-run/computo/internal/builtins"
	"github.com/computo-run/computo/internal/registry"
	"github.com/spf13/cobra"
)

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "List the registered operator names",
	RunE:  runOperators,
}

func init() {
	rootCmd.AddCommand(operatorsCmd)
}

func runOperators(cmd *cobra.Command, args []string) error {
	builtins.Register()
	names := append([]string{"if", "let", "lambda"}, registry.Names()...)
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
