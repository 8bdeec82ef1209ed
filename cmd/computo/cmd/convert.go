package cmd

import (
	"fmt"
	"os"

	"github.com/computo-run/computo/internal/value"
	"github.com/computo-run/computo/pkg/computo"
	"github.com/spf13/cobra"
)

var (
	convertToComputo bool
	convertToJSON    bool
	convertArrayKey  string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert between sugar source and the call-form JSON AST",
	Long: `Convert a script file from sugar syntax to its call-form JSON AST
(--tojson), or from the JSON AST back to sugar syntax (--tocomputo).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertToComputo, "tocomputo", false, "convert JSON AST to sugar source")
	convertCmd.Flags().BoolVar(&convertToJSON, "tojson", false, "convert sugar source to the JSON call-form AST")
	convertCmd.Flags().StringVar(&convertArrayKey, "array", "array", "literal-array wrapper key")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertToComputo == convertToJSON {
		return fmt.Errorf("exactly one of --tocomputo or --tojson is required")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	opts := computo.Options{ArrayKey: convertArrayKey}

	if convertToJSON {
		ast, err := computo.ParseSugar(string(raw), opts)
		if err != nil {
			return fmt.Errorf("parsing sugar source: %w", err)
		}
		out, err := value.MarshalWrapped(ast, convertArrayKey)
		if err != nil {
			return fmt.Errorf("encoding AST: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	ast, err := value.ParseJSON(raw)
	if err != nil {
		return fmt.Errorf("parsing JSON AST: %w", err)
	}
	src, err := computo.WriteSugar(ast, opts)
	if err != nil {
		return fmt.Errorf("rendering sugar source: %w", err)
	}
	fmt.Println(src)
	return nil
}
