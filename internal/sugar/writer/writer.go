// Package writer renders the call-form AST back into sugar source text. It is
// the mirror image of internal/sugar/parser: for any AST A the parser can
// produce, Write(A) must reparse to exactly A again.
package writer

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/value"
)

// Precedence levels, lowest to highest, mirroring the parser's ladder.
const (
	precLowest = 1 // let / if / lambda
	precOr     = 2
	precAnd    = 3
	precNot    = 4
	precCmp    = 5
	precAdd    = 6
	precMul    = 7
	precUnary  = 8
	precCall   = 9 // literals, paths, calls, grouping — never needs outer parens
)

type writer struct {
	arrayKey string
}

// Write renders ast as sugar source text, using arrayKey as the literal-array
// wrapper key (defaulting to "array" when empty) — the same key that must be
// passed to parser.Parse for the round trip to hold.
func Write(ast *value.Value, arrayKey string) (string, error) {
	if arrayKey == "" {
		arrayKey = "array"
	}
	w := &writer{arrayKey: arrayKey}
	return w.wrap(ast, precLowest)
}

// wrap renders v and parenthesizes it if its natural precedence is too low
// for the position it's being rendered into (minPrec).
func (w *writer) wrap(v *value.Value, minPrec int) (string, error) {
	text, prec, err := w.render(v)
	if err != nil {
		return "", err
	}
	if prec < minPrec {
		return "(" + text + ")", nil
	}
	return text, nil
}

func (w *writer) render(v *value.Value) (string, int, error) {
	switch {
	case v.IsNull():
		return "null", precCall, nil
	case v.IsBool():
		if v.BoolValue() {
			return "true", precCall, nil
		}
		return "false", precCall, nil
	case v.IsInt():
		return strconv.FormatInt(v.IntValue(), 10), precCall, nil
	case v.IsFloat():
		return formatFloat(v.FloatValue()), precCall, nil
	case v.IsString():
		return quoteString(v.StringValue()), precCall, nil
	case v.IsArray():
		return w.renderCallNode(v)
	case v.IsObject():
		return w.renderObjectish(v)
	default:
		return "", 0, cerrors.New(cerrors.InvalidScript, "sugar writer cannot render a %s value", v.Kind())
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// renderCallNode treats every array value in the AST as a call form: a
// non-empty array whose head is a string operator name.
func (w *writer) renderCallNode(v *value.Value) (string, int, error) {
	elems := v.ArrayElements()
	if len(elems) == 0 || !elems[0].IsString() {
		return "", 0, cerrors.New(cerrors.InvalidScript, "sugar writer found an array that isn't a call form")
	}
	return w.renderCall(elems[0].StringValue(), elems[1:])
}

func (w *writer) renderCall(op string, args []*value.Value) (string, int, error) {
	switch op {
	case "let":
		return w.renderLet(args)
	case "if":
		return w.renderIf(args)
	case "lambda":
		return w.renderLambda(args)
	case "$":
		return w.renderDollar(args)
	case "$input":
		return w.renderInput(args)
	case "$inputs":
		return w.renderInputs(args)
	case "+", "*":
		if len(args) < 2 {
			return w.renderGenericCall(op, args)
		}
		return w.renderVariadic(op, args, precLevelFor(op))
	case "-":
		return w.renderMinus(args)
	case "/":
		return w.renderBinary("/", args, precMul)
	case "%":
		return w.renderBinary("%", args, precMul)
	case "<", ">", "<=", ">=", "==", "!=":
		if len(args) < 2 {
			return w.renderGenericCall(op, args)
		}
		return w.renderVariadic(op, args, precCmp)
	case "and", "&&":
		if len(args) < 2 {
			return w.renderGenericCall(op, args)
		}
		return w.renderVariadic("and", args, precAnd)
	case "or", "||":
		if len(args) < 2 {
			return w.renderGenericCall(op, args)
		}
		return w.renderVariadic("or", args, precOr)
	case "not":
		if len(args) != 1 {
			return w.renderGenericCall(op, args)
		}
		operand, err := w.wrap(args[0], precCmp)
		if err != nil {
			return "", 0, err
		}
		return "not " + operand, precNot, nil
	default:
		return w.renderGenericCall(op, args)
	}
}

func precLevelFor(op string) int {
	if op == "*" {
		return precMul
	}
	return precAdd
}

// renderVariadic joins args with " op " at the given precedence level. Only
// the leftmost operand may share this node's own precedence unparenthesized;
// every later operand is rendered at prec+1, which forces parens around a
// same-precedence child and so preserves the exact nesting of the given AST
// instead of merging it into a flatter chain on reparse.
func (w *writer) renderVariadic(op string, args []*value.Value, prec int) (string, int, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		childMin := prec
		if i > 0 {
			childMin = prec + 1
		}
		s, err := w.wrap(a, childMin)
		if err != nil {
			return "", 0, err
		}
		parts[i] = s
	}
	return strings.Join(parts, " "+op+" "), prec, nil
}

func (w *writer) renderBinary(op string, args []*value.Value, prec int) (string, int, error) {
	if len(args) != 2 {
		return w.renderGenericCall(op, args)
	}
	left, err := w.wrap(args[0], prec)
	if err != nil {
		return "", 0, err
	}
	right, err := w.wrap(args[1], prec+1)
	if err != nil {
		return "", 0, err
	}
	return left + " " + op + " " + right, prec, nil
}

func (w *writer) renderMinus(args []*value.Value) (string, int, error) {
	switch len(args) {
	case 1:
		operand, err := w.wrap(args[0], precUnary)
		if err != nil {
			return "", 0, err
		}
		return "-" + operand, precUnary, nil
	case 2:
		return w.renderBinary("-", args, precAdd)
	default:
		return w.renderGenericCall("-", args)
	}
}

func (w *writer) renderLet(args []*value.Value) (string, int, error) {
	if len(args) != 2 {
		return "", 0, cerrors.New(cerrors.InvalidScript, "let takes exactly 2 arguments, got %d", len(args))
	}
	var parts []string
	switch {
	case args[0].IsArray():
		for _, pair := range args[0].ArrayElements() {
			if !pair.IsArray() || pair.ArrayLen() != 2 || !pair.ArrayGet(0).IsString() {
				return "", 0, cerrors.New(cerrors.InvalidScript, "let binding must be a [name, expr] pair")
			}
			exprText, err := w.wrap(pair.ArrayGet(1), precLowest)
			if err != nil {
				return "", 0, err
			}
			parts = append(parts, pair.ArrayGet(0).StringValue()+" = "+exprText)
		}
	case args[0].IsObject():
		for _, k := range args[0].SortedObjectKeys() {
			exprText, err := w.wrap(args[0].ObjectGet(k), precLowest)
			if err != nil {
				return "", 0, err
			}
			parts = append(parts, k+" = "+exprText)
		}
	default:
		return "", 0, cerrors.New(cerrors.InvalidScript, "let bindings must be an array or object")
	}
	body, err := w.wrap(args[1], precLowest)
	if err != nil {
		return "", 0, err
	}
	return "let " + strings.Join(parts, ", ") + " in " + body, precLowest, nil
}

func (w *writer) renderIf(args []*value.Value) (string, int, error) {
	if len(args) != 3 {
		return "", 0, cerrors.New(cerrors.InvalidScript, "if takes exactly 3 arguments, got %d", len(args))
	}
	cond, err := w.wrap(args[0], precLowest)
	if err != nil {
		return "", 0, err
	}
	thenText, err := w.wrap(args[1], precLowest)
	if err != nil {
		return "", 0, err
	}
	elseText, err := w.wrap(args[2], precLowest)
	if err != nil {
		return "", 0, err
	}
	return "if " + cond + " then " + thenText + " else " + elseText, precLowest, nil
}

func (w *writer) renderLambda(args []*value.Value) (string, int, error) {
	if len(args) != 2 || !args[0].IsArray() {
		return "", 0, cerrors.New(cerrors.InvalidScript, "lambda takes a parameter array and a body")
	}
	names := make([]string, 0, args[0].ArrayLen())
	for _, p := range args[0].ArrayElements() {
		if !p.IsString() {
			return "", 0, cerrors.New(cerrors.InvalidScript, "lambda parameters must be strings")
		}
		names = append(names, p.StringValue())
	}
	body, err := w.wrap(args[1], precLowest)
	if err != nil {
		return "", 0, err
	}
	return "(" + strings.Join(names, ", ") + ") => " + body, precLowest, nil
}

// renderDollar renders "$": a bare variable snapshot (no args), a simple
// static path collapsed to bare identifier/path sugar ("x", "x/y"), or — for
// a computed, multi-segment-with-specials, or defaulted pointer — the
// $("...") call-style fallback.
func (w *writer) renderDollar(args []*value.Value) (string, int, error) {
	if len(args) == 0 {
		return "$", precCall, nil
	}
	if len(args) == 1 && args[0].IsString() {
		if p, ok := simplePath(args[0].StringValue()); ok {
			return p, precCall, nil
		}
	}
	return w.renderGenericCallText("$", args)
}

// renderInput renders "$input". Unlike "$", the lexer merges an adjacent
// "/path" directly into the $input lexeme, so the inline form keeps the
// "$input" prefix ("$input/a/b") rather than dropping it.
func (w *writer) renderInput(args []*value.Value) (string, int, error) {
	if len(args) == 0 {
		return "$input", precCall, nil
	}
	if len(args) == 1 && args[0].IsString() {
		if p, ok := simplePath(args[0].StringValue()); ok {
			return "$input/" + p, precCall, nil
		}
	}
	return w.renderGenericCallText("$input", args)
}

// renderInputs renders "$inputs". The lexer has no inline-path lexeme for it
// (only the bare "$inputs" keyword), so any arguments always take the
// call-style fallback.
func (w *writer) renderInputs(args []*value.Value) (string, int, error) {
	if len(args) == 0 {
		return "$inputs", precCall, nil
	}
	return w.renderGenericCallText("$inputs", args)
}

func (w *writer) renderGenericCallText(head string, args []*value.Value) (string, int, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := w.wrap(a, precLowest)
		if err != nil {
			return "", 0, err
		}
		parts[i] = s
	}
	return head + "(" + strings.Join(parts, ", ") + ")", precCall, nil
}

func (w *writer) renderGenericCall(op string, args []*value.Value) (string, int, error) {
	if !isIdentText(op) {
		return "", 0, cerrors.New(cerrors.InvalidScript, "operator %q has no sugar call syntax", op)
	}
	return w.renderGenericCallText(op, args)
}

// renderObjectish distinguishes the literal-array wrapper shape — exactly
// one key equal to arrayKey, whose value is itself an array — from a
// generic object literal. This must match eval's literalArray detection
// exactly, or array-literal sugar and plain objects would stop round-tripping
// to the same AST they started from.
func (w *writer) renderObjectish(v *value.Value) (string, int, error) {
	keys := v.ObjectKeys()
	if len(keys) == 1 && keys[0] == w.arrayKey {
		inner := v.ObjectGet(w.arrayKey)
		if inner.IsArray() {
			elems := inner.ArrayElements()
			parts := make([]string, len(elems))
			for i, e := range elems {
				s, err := w.wrap(e, precLowest)
				if err != nil {
					return "", 0, err
				}
				parts[i] = s
			}
			return "[" + strings.Join(parts, ", ") + "]", precCall, nil
		}
	}
	parts := make([]string, 0, len(keys))
	for _, k := range v.SortedObjectKeys() {
		keyText := k
		if !isIdentText(k) {
			keyText = quoteString(k)
		}
		valText, err := w.wrap(v.ObjectGet(k), precLowest)
		if err != nil {
			return "", 0, err
		}
		parts = append(parts, keyText+": "+valText)
	}
	return "{" + strings.Join(parts, ", ") + "}", precCall, nil
}

// simplePath reports whether path (a JSON-Pointer-style "/seg/seg" string)
// can be written as bare path sugar: every segment non-empty and made only
// of identifier characters, with the first segment additionally required to
// start with a letter or underscore (so it lexes as the base identifier of a
// PATH/IDENT token rather than colliding with a number).
func simplePath(path string) (string, bool) {
	if len(path) < 2 || path[0] != '/' {
		return "", false
	}
	rest := path[1:]
	segs := strings.Split(rest, "/")
	for i, seg := range segs {
		if seg == "" {
			return "", false
		}
		runes := []rune(seg)
		if i == 0 && !isIdentStartRune(runes[0]) {
			return "", false
		}
		start := 0
		if i == 0 {
			start = 1
		}
		for _, r := range runes[start:] {
			if !isIdentCharRune(r) {
				return "", false
			}
		}
	}
	return rest, true
}

func isIdentStartRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCharRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isIdentText(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	if !isIdentStartRune(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !isIdentCharRune(r) {
			return false
		}
	}
	return true
}
