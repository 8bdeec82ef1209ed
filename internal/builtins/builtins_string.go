package builtins

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerStrings wires the Unicode-correct string utilities: upper/lower
// use golang.org/x/text/cases for full case mapping rather than a simple
// rune-by-rune unicode.To, tagged language.Und ("undetermined") since
// Computo has no notion of a current locale to thread through. trim and the
// code-point form of split normalize to NFC first via golang.org/x/text/
// unicode/norm, so a combining-mark sequence and its precomposed equivalent
// trim/split identically rather than depending on the input's own form.
// normalize exposes all four normalization forms directly.
func registerStrings(register func(name string, h registry.Handler)) {
	register("upper", stringUnary("upper", func(s string) string {
		return cases.Upper(language.Und).String(s)
	}))
	register("lower", stringUnary("lower", func(s string) string {
		return cases.Lower(language.Und).String(s)
	}))
	register("trim", stringUnary("trim", func(s string) string {
		return strings.TrimFunc(norm.NFC.String(s), unicode.IsSpace)
	}))
	register("normalize", builtinNormalize)
	register("split", builtinSplit)
	register("join", builtinJoin)
	register("strConcat", builtinStrConcat)
}

// normalizeUnicodeForm normalizes s to the named Unicode form (NFC, NFD,
// NFKC, or NFKD), defaulting to NFC for an unrecognized or empty name.
func normalizeUnicodeForm(s string, form string) string {
	switch form {
	case "NFD":
		return norm.NFD.String(s)
	case "NFKC":
		return norm.NFKC.String(s)
	case "NFKD":
		return norm.NFKD.String(s)
	default:
		return norm.NFC.String(s)
	}
}

func builtinNormalize(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("normalize", args, 2); err != nil {
		return registry.Result{}, err
	}
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	if !vals[0].IsString() || !vals[1].IsString() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "normalize expects (string, form)")
	}
	return registry.Done(value.String(normalizeUnicodeForm(vals[0].StringValue(), vals[1].StringValue()))), nil
}

func stringUnary(op string, f func(string) string) registry.Handler {
	return func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityExactly(op, args, 1); err != nil {
			return registry.Result{}, err
		}
		v, err := ev(args[0], env)
		if err != nil {
			return registry.Result{}, err
		}
		if !v.IsString() {
			return registry.Result{}, cerrors.New(cerrors.TypeError, "%s expects a string, got %s", op, v.Kind())
		}
		return registry.Done(value.String(f(v.StringValue()))), nil
	}
}

// builtinSplit splits by code point when delim is empty, and by literal
// delimiter otherwise.
func builtinSplit(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("split", args, 2); err != nil {
		return registry.Result{}, err
	}
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	if !vals[0].IsString() || !vals[1].IsString() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "split expects (string, string)")
	}
	s, delim := vals[0].StringValue(), vals[1].StringValue()

	var parts []string
	if delim == "" {
		for _, r := range norm.NFC.String(s) {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s, delim)
	}
	out := make([]*value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinJoin(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("join", args, 2); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("join", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	delimVal, err := ev(args[1], env)
	if err != nil {
		return registry.Result{}, err
	}
	if !delimVal.IsString() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "join expects a string delimiter, got %s", delimVal.Kind())
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		if !e.IsString() {
			return registry.Result{}, cerrors.New(cerrors.TypeError, "join expects an array of strings, element %d is %s", i, e.Kind())
		}
		parts[i] = e.StringValue()
	}
	return registry.Done(value.String(strings.Join(parts, delimVal.StringValue()))), nil
}

// builtinStrConcat concatenates any JSON scalars, stringifying numbers,
// booleans and null as their JSON form.
func builtinStrConcat(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(stringify(v))
	}
	return registry.Done(value.String(sb.String())), nil
}

func stringify(v *value.Value) string {
	switch v.Kind() {
	case value.KindString:
		return v.StringValue()
	case value.KindNull:
		return "null"
	case value.KindBool:
		if v.BoolValue() {
			return "true"
		}
		return "false"
	case value.KindInt:
		return strconv.FormatInt(v.IntValue(), 10)
	case value.KindFloat:
		return strconv.FormatFloat(v.FloatValue(), 'g', -1, 64)
	default:
		return v.String()
	}
}
