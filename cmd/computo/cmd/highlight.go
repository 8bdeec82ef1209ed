package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/computo-run/computo/internal/sugar/lexer"
	"github.com/computo-run/computo/pkg/computo"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

var (
	highlightJSON     bool
	highlightArrayKey string
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Print sugar source, or its JSON AST, with ANSI color",
	Long: `Highlight prints the tokens of sugar source to the terminal with
ANSI coloring, one space between tokens; the source's own line breaks and
indentation are not kept. With --json, it instead parses the file and pretty-prints the
call-form JSON AST, colorized the same way "computo convert --tojson |
pretty" output would be.`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	highlightCmd.Flags().BoolVar(&highlightJSON, "json", false, "show the colorized JSON AST instead of sugar tokens")
	highlightCmd.Flags().StringVar(&highlightArrayKey, "array", "array", "literal-array wrapper key")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	if highlightJSON {
		opts := computo.Options{ArrayKey: highlightArrayKey, Comments: true}
		ast, err := computo.ParseSugar(string(raw), opts)
		if err != nil {
			return fmt.Errorf("parsing: %w", err)
		}
		out, err := ast.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding AST: %w", err)
		}
		os.Stdout.Write(pretty.Color(pretty.Pretty(out), pretty.TerminalStyle))
		return nil
	}

	os.Stdout.WriteString(highlightSugar(string(raw)))
	return nil
}

// ANSI color codes chosen to echo tidwall/pretty's own TerminalStyle palette
// (strings green, numbers cyan, keywords distinct).
const (
	colorKeyword = "\x1b[35m" // magenta: let, in, if, then, else
	colorString  = "\x1b[32m" // green
	colorNumber  = "\x1b[36m" // cyan
	colorIdent   = "\x1b[0m"
	colorPath    = "\x1b[34m" // blue
	colorComment = "\x1b[90m" // gray
	colorReset   = "\x1b[0m"
)

func highlightSugar(src string) string {
	lx := lexer.New(src, lexer.WithPreserveComments(true))
	var sb strings.Builder
	last := 0
	for {
		tok := lx.NextToken()
		if tok.Type == lexer.EOF {
			break
		}
		text := tok.Literal
		switch tok.Type {
		case lexer.STRING:
			if q, err := json.Marshal(tok.Literal); err == nil {
				text = string(q)
			}
		case lexer.INPUT, lexer.INPUTS:
			text = "$" + tok.Literal
		}
		color := colorForToken(tok.Type)
		if color != "" {
			sb.WriteString(color)
			sb.WriteString(text)
			sb.WriteString(colorReset)
		} else {
			sb.WriteString(text)
		}
		sb.WriteByte(' ')
		last++
	}
	if last == 0 {
		return src
	}
	return sb.String()
}

func colorForToken(tt lexer.TokenType) string {
	switch tt {
	case lexer.LET, lexer.IN, lexer.IF, lexer.THEN, lexer.ELSE:
		return colorKeyword
	case lexer.STRING:
		return colorString
	case lexer.INT, lexer.FLOAT:
		return colorNumber
	case lexer.PATH, lexer.INPUT, lexer.INPUTS, lexer.DOLLAR:
		return colorPath
	case lexer.COMMENT:
		return colorComment
	default:
		return ""
	}
}
