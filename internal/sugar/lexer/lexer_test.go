package lexer

import "testing"

func TestNextTokenBasics(t *testing.T) {
	input := `let x = 1, y = 2.5 in if x < y then x else y`
	want := []TokenType{
		LET, IDENT, EQ, INT, COMMA, IDENT, EQ, FLOAT, IN,
		IF, IDENT, LESS, IDENT, THEN, IDENT, ELSE, IDENT, EOF,
	}
	l := New(input)
	for i, wt := range want {
		tok := l.NextToken()
		if tok.Type != wt {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, wt)
		}
	}
}

func TestDollarForms(t *testing.T) {
	cases := []struct {
		input string
		want  TokenType
	}{
		{"$", DOLLAR},
		{"$input", INPUT},
		{"$input/a/b", INPUT},
		{"$inputs", INPUTS},
	}
	for _, c := range cases {
		l := New(c.input)
		tok := l.NextToken()
		if tok.Type != c.want {
			t.Errorf("%q: got %s, want %s", c.input, tok.Type, c.want)
		}
	}
}

func TestPathLexeme(t *testing.T) {
	l := New("a/b/c")
	tok := l.NextToken()
	if tok.Type != PATH || tok.Literal != "a/b/c" {
		t.Fatalf("got %s %q, want PATH %q", tok.Type, tok.Literal, "a/b/c")
	}
}

func TestSlashAmbiguityIsError(t *testing.T) {
	cases := []string{"a /b", "a/ b"}
	for _, c := range cases {
		l := New(c)
		l.NextToken() // ident
		tok := l.NextToken()
		if tok.Type != ILLEGAL {
			t.Errorf("%q: got %s, want ILLEGAL", c, tok.Type)
		}
		if len(l.Errors()) == 0 {
			t.Errorf("%q: expected a lexical error to be recorded", c)
		}
	}
}

func TestDivisionNeedsSymmetricSpace(t *testing.T) {
	l := New("a / b")
	l.NextToken() // ident a
	tok := l.NextToken()
	if tok.Type != SLASH {
		t.Fatalf("got %s, want SLASH", tok.Type)
	}
}

func TestShebangStripped(t *testing.T) {
	l := New("#!/usr/bin/env computo\n1")
	tok := l.NextToken()
	if tok.Type != INT || tok.Literal != "1" {
		t.Fatalf("got %s %q, want INT \"1\"", tok.Type, tok.Literal)
	}
}

func TestCommentPreservation(t *testing.T) {
	l := New("-- a note\n1", WithPreserveComments(true))
	tok := l.NextToken()
	if tok.Type != COMMENT {
		t.Fatalf("got %s, want COMMENT", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != INT {
		t.Fatalf("got %s, want INT", tok.Type)
	}
}

func TestCommentDiscardedByDefault(t *testing.T) {
	l := New("-- a note\n1")
	tok := l.NextToken()
	if tok.Type != INT {
		t.Fatalf("got %s, want INT (comment should be skipped)", tok.Type)
	}
}
