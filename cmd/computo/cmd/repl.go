package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/computo-run/computo/internal/value"
	"github.com/computo-run/computo/pkg/computo"
	"github.com/spf13/cobra"
)

var replDebug bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive read-eval-print loop over stdin",
	Long: `Read one sugar expression per line from stdin, evaluate it with no
input documents bound, and print the JSON result. A line starting with
":" is a REPL directive; ":q" or ":quit" exits.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replDebug, "debug", false, "print each evaluation step to stderr")
}

func runRepl(cmd *cobra.Command, args []string) error {
	opts := computo.Options{ArrayKey: "array", Comments: true}
	if replDebug {
		opts.Trace = func(path []string, expr *value.Value) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", strings.Join(path, "/"), expr.String())
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, "computo> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == ":q" || line == ":quit":
			return nil
		default:
			evalReplLine(line, opts)
		}
		fmt.Fprint(os.Stdout, "computo> ")
	}
	fmt.Fprintln(os.Stdout)
	return scanner.Err()
}

func evalReplLine(line string, opts computo.Options) {
	script, err := loadScript([]byte(line), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		return
	}
	result, err := computo.Execute(script, nil, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", formatRunError(err, line))
		return
	}
	out, err := value.MarshalWrapped(result, opts.ArrayKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
