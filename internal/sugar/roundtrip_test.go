// Package sugar has no code of its own; this file exercises the round-trip
// law the parser and writer subpackages are jointly required to satisfy:
// for any AST A the parser can produce, parse(write(A)) reproduces A.
package sugar

import (
	"testing"

	"github.com/computo-run/computo/internal/sugar/parser"
	"github.com/computo-run/computo/internal/sugar/writer"
	"github.com/computo-run/computo/internal/value"
)

func roundTrip(t *testing.T, source string) *value.Value {
	t.Helper()
	ast, err := parser.Parse(source, "array")
	if err != nil {
		t.Fatalf("parsing %q: %v", source, err)
	}
	text, err := writer.Write(ast, "array")
	if err != nil {
		t.Fatalf("writing %q: %v", source, err)
	}
	again, err := parser.Parse(text, "array")
	if err != nil {
		t.Fatalf("reparsing writer output %q (from %q): %v", text, source, err)
	}
	if !value.Equal(ast, again) {
		t.Fatalf("round trip mismatch for %q: wrote %q, reparsed to a different AST", source, text)
	}
	return ast
}

func TestRoundTripArithmeticPrecedence(t *testing.T) {
	cases := []string{
		"1 + 2 + 3",
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"1 - 2 - 3",
		"1 - (2 - 3)",
		"10 / 2 / 5",
		"1 + 2 * 3 - 4 / 2",
		"-x",
		"-(x + y)",
	}
	for _, c := range cases {
		roundTrip(t, c)
	}
}

func TestRoundTripLogical(t *testing.T) {
	cases := []string{
		"a and b and c",
		"a or b and c",
		"not a and b",
		"1 < 2 < 3",
		"a == b",
		"a != b",
	}
	for _, c := range cases {
		roundTrip(t, c)
	}
}

func TestRoundTripControlForms(t *testing.T) {
	cases := []string{
		"let x = 1, y = 2 in x + y",
		"if a < b then a else b",
		"(x, y) => x + y",
		"let f = (x) => x * 2 in f(21)",
	}
	for _, c := range cases {
		roundTrip(t, c)
	}
}

func TestRoundTripLiterals(t *testing.T) {
	cases := []string{
		`[1, 2, 3]`,
		`[1, [2, 3], 4]`,
		`{a: 1, b: "two"}`,
		`{a: [1, 2], b: {c: 3}}`,
		`"hello world"`,
		"true",
		"false",
		"null",
		"3.5",
		"1.0e10",
	}
	for _, c := range cases {
		roundTrip(t, c)
	}
}

func TestRoundTripPaths(t *testing.T) {
	cases := []string{
		"x",
		"x/y/z",
		"$input",
		"$input/a/b",
		"$inputs",
		"$",
	}
	for _, c := range cases {
		roundTrip(t, c)
	}
}

func TestRoundTripGenericCalls(t *testing.T) {
	cases := []string{
		"map(items, (x) => x * 2)",
		`filter(items, (x) => x > 0)`,
		`$inputs(0)`,
	}
	for _, c := range cases {
		roundTrip(t, c)
	}
}

func TestWriterArrayLiteralMatchesEvalWrapperDetection(t *testing.T) {
	ast := roundTrip(t, "[1, 2, 3]")
	if !ast.IsObject() {
		t.Fatalf("expected the array literal AST to be the {array: [...]} wrapper object, got %s", ast.Kind())
	}
	keys := ast.ObjectKeys()
	if len(keys) != 1 || keys[0] != "array" {
		t.Fatalf("expected exactly one key \"array\", got %v", keys)
	}
}
