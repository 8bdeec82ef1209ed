package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/computo-run/computo/pkg/computo"
	"github.com/spf13/cobra"
)

var (
	formatWrite    bool
	formatList     bool
	formatArrayKey string
)

var formatCmd = &cobra.Command{
	Use:   "format [files...]",
	Short: "Reparse and rewrite sugar source in canonical form",
	Long: `Format sugar source files by parsing them and writing the result back
through the sugar writer, producing a canonical rendering.

By default, format writes the result to standard output. If no path is
given, it reads from standard input.

  computo format file.computo          # format to stdout
  computo format -w file.computo       # overwrite in place
  computo format -l *.computo          # list files that need formatting`,
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "write result to (source) file instead of stdout")
	formatCmd.Flags().BoolVarP(&formatList, "list", "l", false, "list files whose formatting differs")
	formatCmd.Flags().StringVar(&formatArrayKey, "array", "array", "literal-array wrapper key")
}

func runFormat(cmd *cobra.Command, args []string) error {
	if formatWrite && formatList {
		return fmt.Errorf("cannot use -w and -l together")
	}

	if len(args) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		formatted, err := formatSource(string(src))
		if err != nil {
			return err
		}
		fmt.Print(formatted)
		return nil
	}

	hasErrors := false
	for _, path := range args {
		if err := formatPath(path); err != nil {
			fmt.Fprintf(os.Stderr, "computo: %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func formatPath(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := formatSource(string(src))
	if err != nil {
		return err
	}

	if formatList {
		if formatted != string(src) {
			fmt.Println(path)
		}
		return nil
	}
	if formatWrite {
		if formatted == string(src) {
			return nil
		}
		return os.WriteFile(path, []byte(formatted), 0644)
	}
	fmt.Print(formatted)
	return nil
}

func formatSource(src string) (string, error) {
	opts := computo.Options{ArrayKey: formatArrayKey, Comments: true}
	ast, err := computo.ParseSugar(src, opts)
	if err != nil {
		return "", fmt.Errorf("parsing: %w", err)
	}
	out, err := computo.WriteSugar(ast, opts)
	if err != nil {
		return "", fmt.Errorf("rendering: %w", err)
	}
	return out + "\n", nil
}
