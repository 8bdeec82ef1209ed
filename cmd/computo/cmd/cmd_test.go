package cmd

import (
	"strings"
	"testing"

	"github.com/computo-run/computo/pkg/computo"
)

func TestLoadScriptAcceptsJSONOrSugar(t *testing.T) {
	opts := computo.Options{ArrayKey: "array"}

	ast, err := loadScript([]byte(`["+", 1, 2]`), opts)
	if err != nil {
		t.Fatalf("loading JSON script: %v", err)
	}
	if !ast.IsArray() || ast.ArrayLen() != 3 {
		t.Fatalf("unexpected AST shape: %s", ast.String())
	}

	ast, err = loadScript([]byte("1 + 2"), opts)
	if err != nil {
		t.Fatalf("loading sugar script: %v", err)
	}
	result, err := computo.Execute(ast, nil, opts)
	if err != nil {
		t.Fatalf("executing sugar script: %v", err)
	}
	if !result.IsInt() || result.IntValue() != 3 {
		t.Fatalf("got %s, want 3", result.String())
	}
}

func TestFormatSourceIsIdempotent(t *testing.T) {
	formatArrayKey = "array"
	once, err := formatSource("let x=1 in x+2")
	if err != nil {
		t.Fatalf("formatSource: %v", err)
	}
	twice, err := formatSource(once)
	if err != nil {
		t.Fatalf("formatSource on already-formatted text: %v", err)
	}
	if once != twice {
		t.Fatalf("formatting is not idempotent: %q vs %q", once, twice)
	}
}

func TestHighlightSugarColorsKeywords(t *testing.T) {
	out := highlightSugar("let x = 1 in x")
	if out == "" {
		t.Fatal("expected non-empty highlighted output")
	}
	if !strings.Contains(out, colorKeyword+"let"+colorReset) || !strings.Contains(out, colorKeyword+"in"+colorReset) {
		t.Fatalf("expected let and in in keyword color, got %q", out)
	}
}

func TestFormatRunErrorFallsBackForPlainErrors(t *testing.T) {
	if got := formatRunError(errPlain, "source"); got != errPlain {
		t.Fatalf("expected a non-computo error to pass through unchanged, got %v", got)
	}
}

type plainError string

func (e plainError) Error() string { return string(e) }

var errPlain error = plainError("boom")
