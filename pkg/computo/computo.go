// Package computo is the public library surface: evaluate a call-form AST
// against a sequence of JSON input documents, and convert between that AST
// and its concrete sugar syntax.
package computo

import (
	"github.com/computo-run/computo/internal/builtins"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/eval"
	"github.com/computo-run/computo/internal/sugar/lexer"
	"github.com/computo-run/computo/internal/sugar/parser"
	"github.com/computo-run/computo/internal/sugar/writer"
	"github.com/computo-run/computo/internal/value"
)

// TraceSink receives one call per evaluation step, in the order the
// evaluator takes them, when Options.Trace is set. path is the evaluation
// breadcrumb trail (environment.Environment.Path) at that step.
type TraceSink func(path []string, expr *value.Value)

// Options configures evaluation and sugar conversion. The zero Options is
// usable: ArrayKey defaults to "array" and no trace is recorded.
type Options struct {
	// ArrayKey is the literal-array wrapper key used both to disambiguate a
	// literal array from a call form during evaluation and to mark wrapped
	// arrays in ExecuteJSON's output. Defaults to "array".
	ArrayKey string
	// Comments is carried for callers but is not read anywhere in this
	// package: ParseSugar always allows "--" line comments and a leading
	// shebang, and JSON input is never parsed with comments.
	Comments bool
	// Trace, if non-nil, is invoked once per evaluation step.
	Trace TraceSink
}

func (o Options) arrayKey() string {
	if o.ArrayKey == "" {
		return "array"
	}
	return o.ArrayKey
}

func init() {
	builtins.Register()
}

// Execute evaluates script against the ordered input documents and returns
// the result as an in-memory Value with arrays left bare; ExecuteJSON is the
// entry point that renders every array as {"<arrayKey>": [...]}.
func Execute(script *value.Value, inputs []*value.Value, opts Options) (*value.Value, error) {
	env := environment.Root(inputs, opts.arrayKey())
	result, err := evaluate(script, env, opts.Trace)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteJSON evaluates script and serializes the result via
// value.MarshalWrapped, the wire encoding a Computo result is published
// with.
func ExecuteJSON(script *value.Value, inputs []*value.Value, opts Options) ([]byte, error) {
	result, err := Execute(script, inputs, opts)
	if err != nil {
		return nil, err
	}
	return value.MarshalWrapped(result, opts.arrayKey())
}

func evaluate(script *value.Value, env *environment.Environment, trace TraceSink) (*value.Value, error) {
	if trace == nil {
		return eval.Evaluate(script, env)
	}
	return eval.EvaluateTraced(script, env, func(path []string, expr *value.Value) {
		trace(path, expr)
	})
}

// ParseSugar compiles sugar source text into the call-form AST.
func ParseSugar(source string, opts Options) (*value.Value, error) {
	return parser.Parse(source, opts.arrayKey())
}

// WriteSugar renders a call-form AST back into sugar source text. For any
// AST produced by ParseSugar, ParseSugar(WriteSugar(ast)) reproduces it.
func WriteSugar(script *value.Value, opts Options) (string, error) {
	return writer.Write(script, opts.arrayKey())
}

// LexSugar tokenizes sugar source text. Comments are preserved as COMMENT
// tokens.
func LexSugar(source string) []lexer.Token {
	lx := lexer.New(source, lexer.WithPreserveComments(true))
	var toks []lexer.Token
	for {
		tok := lx.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return toks
}
