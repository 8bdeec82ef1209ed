package computo

import (
	"testing"

	"github.com/computo-run/computo/internal/sugar/lexer"
	"github.com/computo-run/computo/internal/value"
)

func mustParseJSON(t *testing.T, s string) *value.Value {
	t.Helper()
	v, err := value.ParseJSON([]byte(s))
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return v
}

func TestExecuteArithmeticScript(t *testing.T) {
	script := mustParseJSON(t, `["+", 1, 2, 3]`)
	result, err := Execute(script, nil, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.IsInt() || result.IntValue() != 6 {
		t.Fatalf("got %s, want 6", result.String())
	}
}

func TestExecuteJSONWrapsArrays(t *testing.T) {
	script, err := ParseSugar("[1, 2, 3]", Options{})
	if err != nil {
		t.Fatalf("ParseSugar: %v", err)
	}
	out, err := ExecuteJSON(script, nil, Options{})
	if err != nil {
		t.Fatalf("ExecuteJSON: %v", err)
	}
	if string(out) != `{"array":[1,2,3]}` {
		t.Fatalf("got %s", out)
	}
}

func TestExecuteWithInputs(t *testing.T) {
	script, err := ParseSugar("$input/name", Options{})
	if err != nil {
		t.Fatalf("ParseSugar: %v", err)
	}
	input := mustParseJSON(t, `{"name": "ada"}`)
	result, err := Execute(script, []*value.Value{input}, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.StringValue() != "ada" {
		t.Fatalf("got %q, want %q", result.StringValue(), "ada")
	}
}

func TestParseWriteSugarRoundTrip(t *testing.T) {
	ast, err := ParseSugar("let x = 1 in x + 2", Options{})
	if err != nil {
		t.Fatalf("ParseSugar: %v", err)
	}
	text, err := WriteSugar(ast, Options{})
	if err != nil {
		t.Fatalf("WriteSugar: %v", err)
	}
	again, err := ParseSugar(text, Options{})
	if err != nil {
		t.Fatalf("re-ParseSugar of %q: %v", text, err)
	}
	if !value.Equal(ast, again) {
		t.Fatalf("round trip mismatch: %q", text)
	}
}

func TestExecuteTraceFires(t *testing.T) {
	script := mustParseJSON(t, `["+", 1, ["+", 2, 3]]`)
	var paths [][]string
	_, err := Execute(script, nil, Options{Trace: func(path []string, expr *value.Value) {
		cp := append([]string(nil), path...)
		paths = append(paths, cp)
	}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(paths) < 2 {
		t.Fatalf("expected trace to fire at least twice (outer and nested +), got %d", len(paths))
	}
}

func TestParseSugarAllowsShebangAndComments(t *testing.T) {
	src := "#!/usr/bin/env computo\n-- a note\n1 + 1"
	ast, err := ParseSugar(src, Options{})
	if err != nil {
		t.Fatalf("ParseSugar: %v", err)
	}
	result, err := Execute(ast, nil, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.IntValue() != 2 {
		t.Fatalf("got %s", result.String())
	}
}

func TestLexSugarPreservesComments(t *testing.T) {
	toks := LexSugar("-- hi\n1")
	var sawComment bool
	for _, tok := range toks {
		if tok.Type == lexer.COMMENT {
			sawComment = true
		}
	}
	if !sawComment {
		t.Fatalf("expected LexSugar to preserve the comment token")
	}
}
