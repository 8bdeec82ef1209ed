package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/computo-run/computo/internal/value"
	"github.com/computo-run/computo/pkg/computo"
	"github.com/spf13/cobra"
)

var (
	runScriptPath string
	runArrayKey   string
	runComments   bool
	runDebug      bool
)

var runCmd = &cobra.Command{
	Use:   "run [input files...]",
	Short: "Evaluate a script against zero or more JSON input documents",
	Long: `Evaluate a Computo script, read with --script, against the JSON
documents named as positional arguments. The first document becomes
$input, the full ordered list becomes $inputs.

The script file is read as sugar source unless it parses as bare JSON,
in which case it is treated as the call-form AST directly.

Examples:
  computo run --script transform.computo data.json
  computo run --script transform.json --array=items a.json b.json`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runScriptPath, "script", "", "path to the script file (required)")
	runCmd.Flags().StringVar(&runArrayKey, "array", "array", "literal-array wrapper key")
	runCmd.Flags().BoolVar(&runComments, "comments", true, "has no effect: sugar source always allows -- comments and a shebang; JSON scripts and inputs never allow comments")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "print each evaluation step to stderr")
	runCmd.MarkFlagRequired("script")
}

func runRun(cmd *cobra.Command, args []string) error {
	scriptSrc, err := os.ReadFile(runScriptPath)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", runScriptPath, err)
	}

	opts := computo.Options{ArrayKey: runArrayKey, Comments: runComments}
	if runDebug {
		opts.Trace = func(path []string, expr *value.Value) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", strings.Join(path, "/"), expr.String())
		}
	}

	script, err := loadScript(scriptSrc, opts)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", runScriptPath, err)
	}

	inputs := make([]*value.Value, 0, len(args))
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading input %s: %w", path, err)
		}
		doc, err := value.ParseJSON(raw)
		if err != nil {
			return fmt.Errorf("parsing input %s: %w", path, err)
		}
		inputs = append(inputs, doc)
	}

	out, err := computo.ExecuteJSON(script, inputs, opts)
	if err != nil {
		return formatRunError(err, string(scriptSrc))
	}

	fmt.Println(string(out))
	return nil
}

// loadScript accepts either bare JSON (the call-form AST already encoded as
// JSON) or sugar source, trying JSON first since it is the unambiguous,
// self-describing case.
func loadScript(src []byte, opts computo.Options) (*value.Value, error) {
	if ast, err := value.ParseJSON(src); err == nil {
		return ast, nil
	}
	return computo.ParseSugar(string(src), opts)
}
