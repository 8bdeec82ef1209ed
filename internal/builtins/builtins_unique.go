package builtins

import (
	"strconv"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerUnique wires "unique" (general, unsorted input), "uniqueSorted"
// (exploits adjacency on pre-sorted input) and "reverse".
func registerUnique(register func(name string, h registry.Handler)) {
	register("unique", builtinUnique)
	register("uniqueSorted", builtinUniqueSorted)
	register("reverse", builtinReverse)
}

const (
	modeFirsts    = "firsts"
	modeLasts     = "lasts"
	modeSingles   = "singles"
	modeMultiples = "multiples"
)

func isMode(s string) bool {
	switch s {
	case modeFirsts, modeLasts, modeSingles, modeMultiples:
		return true
	default:
		return false
	}
}

// uniqueArgs parses the common (arr, mode?, selector?) trailing arguments
// shared by unique and uniqueSorted: an optional mode keyword and an
// optional JSON-pointer selector naming the field compared for equality
// instead of the whole element.
func uniqueArgs(op string, args registry.Args, env *environment.Environment, ev registry.Evaluator) ([]*value.Value, string, string, error) {
	if err := arityAtLeast(op, args, 1); err != nil {
		return nil, "", "", err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return nil, "", "", err
	}
	elems, err := requireSequence(op, arrVal, env)
	if err != nil {
		return nil, "", "", err
	}
	mode := modeFirsts
	selector := ""
	rest, err := evalAll(args[1:], env, ev)
	if err != nil {
		return nil, "", "", err
	}
	for _, r := range rest {
		if !r.IsString() {
			return nil, "", "", cerrors.New(cerrors.TypeError, "%s expects string mode/selector arguments, got %s", op, r.Kind())
		}
		if isMode(r.StringValue()) {
			mode = r.StringValue()
		} else {
			selector = r.StringValue()
		}
	}
	return elems, mode, selector, nil
}

func keyOf(elem *value.Value, selector string) *value.Value {
	if selector == "" {
		return elem
	}
	v, err := value.Resolve(elem, selector)
	if err != nil {
		return value.Null()
	}
	return v
}

// canonicalKey renders a value as a string that collides exactly when
// value.Equal would report the two values equal — numeric values fold to a
// kind-independent form (so 5 and 5.0 hash alike) and object keys are
// sorted first (so key order never affects grouping), mirroring §3's
// order-insensitive object equality.
func canonicalKey(v *value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "0:"
	case value.KindBool:
		if v.BoolValue() {
			return "1:true"
		}
		return "1:false"
	case value.KindInt, value.KindFloat:
		return "2:" + strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case value.KindString:
		return "3:" + strconv.Quote(v.StringValue())
	case value.KindArray:
		s := "4:["
		for i, e := range v.ArrayElements() {
			if i > 0 {
				s += ","
			}
			s += canonicalKey(e)
		}
		return s + "]"
	default:
		keys := v.SortedObjectKeys()
		s := "5:{"
		for i, k := range keys {
			if i > 0 {
				s += ","
			}
			s += strconv.Quote(k) + ":" + canonicalKey(v.ObjectGet(k))
		}
		return s + "}"
	}
}

func builtinUnique(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, mode, selector, err := uniqueArgs("unique", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}

	keys := make([]string, len(elems))
	count := map[string]int{}
	firstIdx := map[string]int{}
	lastIdx := map[string]int{}
	for i, e := range elems {
		k := canonicalKey(keyOf(e, selector))
		keys[i] = k
		count[k]++
		if _, ok := firstIdx[k]; !ok {
			firstIdx[k] = i
		}
		lastIdx[k] = i
	}

	var out []*value.Value
	for i, e := range elems {
		k := keys[i]
		switch mode {
		case modeFirsts:
			if firstIdx[k] == i {
				out = append(out, e)
			}
		case modeLasts:
			if lastIdx[k] == i {
				out = append(out, e)
			}
		case modeSingles:
			if count[k] == 1 {
				out = append(out, e)
			}
		case modeMultiples:
			if count[k] > 1 {
				out = append(out, e)
			}
		}
	}
	return registry.Done(value.NewArray(out)), nil
}

// builtinUniqueSorted implements an adjacency sweep directly: for index i,
// left = key(i)==key(i-1), right = key(i)==key(i+1); firsts
// emits "not left", lasts emits "not right", singles "not left and not
// right", multiples "left or right". Input is assumed pre-sorted on the
// same key; behavior on unsorted input is unspecified.
func builtinUniqueSorted(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, mode, selector, err := uniqueArgs("uniqueSorted", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}

	n := len(elems)
	keys := make([]*value.Value, n)
	for i, e := range elems {
		keys[i] = keyOf(e, selector)
	}

	var out []*value.Value
	for i := 0; i < n; i++ {
		left := i > 0 && value.Equal(keys[i], keys[i-1])
		right := i < n-1 && value.Equal(keys[i], keys[i+1])
		keep := false
		switch mode {
		case modeFirsts:
			keep = !left
		case modeLasts:
			keep = !right
		case modeSingles:
			keep = !left && !right
		case modeMultiples:
			keep = left || right
		}
		if keep {
			out = append(out, elems[i])
		}
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinReverse(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("reverse", args, 1); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("reverse", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	out := make([]*value.Value, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return registry.Done(value.NewArray(out)), nil
}
