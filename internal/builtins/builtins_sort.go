package builtins

import (
	"sort"
	"strings"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerSort wires "sort" in its three shapes. The object-aware shape
// decorates each element with its extracted key tuple exactly once, a
// decorate-sort-undecorate pass that keeps key extraction O(n) rather than
// re-running on every comparison, then sorts (stably, via sort.SliceStable)
// on the tuples and restores the original elements.
func registerSort(register func(name string, h registry.Handler)) {
	register("sort", builtinSort)
}

type sortKey struct {
	field []*value.Value // one comparison value per field-spec (or the element itself, whole-value shapes)
	elem  *value.Value
}

type fieldSpec struct {
	pointer string
	desc    bool
}

func builtinSort(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityAtLeast("sort", args, 1); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("sort", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}

	rest, err := evalAll(args[1:], env, ev)
	if err != nil {
		return registry.Result{}, err
	}

	// Shape 2: (arr, "asc"|"desc") — whole-element comparison, one direction.
	if len(rest) == 1 && rest[0].IsString() && (rest[0].StringValue() == "asc" || rest[0].StringValue() == "desc") {
		desc := rest[0].StringValue() == "desc"
		keys := make([]sortKey, len(elems))
		for i, e := range elems {
			keys[i] = sortKey{field: []*value.Value{e}, elem: e}
		}
		sortByKeys(keys, []fieldSpec{{desc: desc}})
		return registry.Done(value.NewArray(undecorate(keys))), nil
	}

	// Shape 1: (arr) — ascending, whole-element comparison.
	if len(rest) == 0 {
		keys := make([]sortKey, len(elems))
		for i, e := range elems {
			keys[i] = sortKey{field: []*value.Value{e}, elem: e}
		}
		sortByKeys(keys, []fieldSpec{{}})
		return registry.Done(value.NewArray(undecorate(keys))), nil
	}

	// Shape 3: (arr, field-spec, ...) — object-aware, lexicographic key.
	specs := make([]fieldSpec, len(rest))
	for i, r := range rest {
		spec, err := parseFieldSpec(r)
		if err != nil {
			return registry.Result{}, err
		}
		specs[i] = spec
	}
	keys := make([]sortKey, len(elems))
	for i, e := range elems {
		field := make([]*value.Value, len(specs))
		for j, spec := range specs {
			v, rerr := value.Resolve(e, spec.pointer)
			if rerr != nil {
				v = value.Null()
			}
			field[j] = v
		}
		keys[i] = sortKey{field: field, elem: e}
	}
	sortByKeys(keys, specs)
	return registry.Done(value.NewArray(undecorate(keys))), nil
}

func parseFieldSpec(v *value.Value) (fieldSpec, error) {
	if v.IsString() {
		return fieldSpec{pointer: v.StringValue()}, nil
	}
	if v.IsArray() && v.ArrayLen() == 2 && v.ArrayGet(0).IsString() && v.ArrayGet(1).IsString() {
		dir := v.ArrayGet(1).StringValue()
		if dir != "asc" && dir != "desc" {
			return fieldSpec{}, cerrors.New(cerrors.InvalidScript, "sort field direction must be \"asc\" or \"desc\", got %q", dir)
		}
		return fieldSpec{pointer: v.ArrayGet(0).StringValue(), desc: dir == "desc"}, nil
	}
	return fieldSpec{}, cerrors.New(cerrors.InvalidScript, "sort field-spec must be a pointer string or a [pointer, direction] pair")
}

func sortByKeys(keys []sortKey, specs []fieldSpec) {
	sort.SliceStable(keys, func(i, j int) bool {
		for f := range specs {
			c := compareTypeAware(keys[i].field[f], keys[j].field[f])
			if c == 0 {
				continue
			}
			if specs[f].desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func undecorate(keys []sortKey) []*value.Value {
	out := make([]*value.Value, len(keys))
	for i, k := range keys {
		out[i] = k.elem
	}
	return out
}

// classRank orders the type classes: null < number < string < boolean <
// array < object.
func classRank(v *value.Value) int {
	switch v.Kind() {
	case value.KindNull:
		return 0
	case value.KindInt, value.KindFloat:
		return 1
	case value.KindString:
		return 2
	case value.KindBool:
		return 3
	case value.KindArray:
		return 4
	default:
		return 5
	}
}

// compareTypeAware implements the cross-type ordering used by "sort":
// differing types order by
// class; within a class, numbers by value, strings by code point, booleans
// false-before-true, and arrays/objects element-wise with a length
// tiebreak.
func compareTypeAware(a, b *value.Value) int {
	ra, rb := classRank(a), classRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.Kind() {
	case value.KindNull:
		return 0
	case value.KindInt, value.KindFloat:
		af, bf := a.AsFloat64(), b.AsFloat64()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case value.KindString:
		return strings.Compare(a.StringValue(), b.StringValue())
	case value.KindBool:
		av, bv := a.BoolValue(), b.BoolValue()
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case value.KindArray:
		n := a.ArrayLen()
		if b.ArrayLen() < n {
			n = b.ArrayLen()
		}
		for i := 0; i < n; i++ {
			if c := compareTypeAware(a.ArrayGet(i), b.ArrayGet(i)); c != 0 {
				return c
			}
		}
		return compareInts(a.ArrayLen(), b.ArrayLen())
	default: // object
		ak, bk := a.SortedObjectKeys(), b.SortedObjectKeys()
		n := len(ak)
		if len(bk) < n {
			n = len(bk)
		}
		for i := 0; i < n; i++ {
			if c := strings.Compare(ak[i], bk[i]); c != 0 {
				return c
			}
			if c := compareTypeAware(a.ObjectGet(ak[i]), b.ObjectGet(bk[i])); c != 0 {
				return c
			}
		}
		return compareInts(len(ak), len(bk))
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
