package builtins

import (
	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerObjects wires object construction/access operators: obj, get,
// keys, values, objFromPairs, pick, omit, merge.
func registerObjects(register func(name string, h registry.Handler)) {
	register("obj", builtinObj)
	register("get", builtinGet)
	register("keys", builtinKeys)
	register("values", builtinValues)
	register("objFromPairs", builtinObjFromPairs)
	register("pick", builtinPick)
	register("omit", builtinOmit)
	register("merge", builtinMerge)
}

// builtinObj supports both construction shapes: a single array argument
// of [key-expr, value-expr] pairs (both sub-expressions evaluated), or flat
// positional arguments in key/value pairs where odd positions are taken as
// string literals without evaluation — the same raw-argument-inspection
// "let" uses for its bindings list, since obj's key positions are names,
// not general values, in the flat shape.
func builtinObj(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	out := value.NewObject()

	if len(args) == 1 && args[0].IsArray() {
		for i, pair := range args[0].ArrayElements() {
			if !pair.IsArray() || pair.ArrayLen() != 2 {
				return registry.Result{}, cerrors.New(cerrors.InvalidScript, "obj pair %d must be a [key, value] pair", i)
			}
			k, err := ev(pair.ArrayGet(0), env)
			if err != nil {
				return registry.Result{}, err
			}
			if !k.IsString() {
				return registry.Result{}, cerrors.New(cerrors.TypeError, "obj key must evaluate to a string, got %s", k.Kind())
			}
			v, err := ev(pair.ArrayGet(1), env)
			if err != nil {
				return registry.Result{}, err
			}
			out.ObjectSet(k.StringValue(), v)
		}
		return registry.Done(out), nil
	}

	if len(args)%2 != 0 {
		return registry.Result{}, cerrors.New(cerrors.Arity, "obj flat form expects an even number of arguments, got %d", len(args))
	}
	for i := 0; i < len(args); i += 2 {
		keyExpr := args[i]
		if !keyExpr.IsString() {
			return registry.Result{}, cerrors.New(cerrors.InvalidScript, "obj flat form expects a string literal key at position %d", i)
		}
		v, err := ev(args[i+1], env)
		if err != nil {
			return registry.Result{}, err
		}
		out.ObjectSet(keyExpr.StringValue(), v)
	}
	return registry.Done(out), nil
}

func builtinGet(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("get", args, 2); err != nil {
		return registry.Result{}, err
	}
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	if !vals[1].IsString() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "get expects a string pointer, got %s", vals[1].Kind())
	}
	v, rerr := value.Resolve(vals[0], vals[1].StringValue())
	if rerr != nil {
		return registry.Result{}, cerrors.New(cerrors.PathError, "%v", rerr)
	}
	return registry.Done(v), nil
}

func builtinKeys(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("keys", args, 1); err != nil {
		return registry.Result{}, err
	}
	v, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	if !v.IsObject() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "keys expects an object, got %s", v.Kind())
	}
	ks := v.ObjectKeys()
	out := make([]*value.Value, len(ks))
	for i, k := range ks {
		out[i] = value.String(k)
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinValues(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("values", args, 1); err != nil {
		return registry.Result{}, err
	}
	v, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	if !v.IsObject() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "values expects an object, got %s", v.Kind())
	}
	ks := v.ObjectKeys()
	out := make([]*value.Value, len(ks))
	for i, k := range ks {
		out[i] = v.ObjectGet(k)
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinObjFromPairs(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("objFromPairs", args, 1); err != nil {
		return registry.Result{}, err
	}
	v, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, ok := asSequence(v, env)
	if !ok {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "objFromPairs expects an array, got %s", v.Kind())
	}
	out := value.NewObject()
	for i, pair := range elems {
		if !pair.IsArray() || pair.ArrayLen() != 2 || !pair.ArrayGet(0).IsString() {
			return registry.Result{}, cerrors.New(cerrors.InvalidScript, "objFromPairs element %d must be a [string, value] pair", i)
		}
		out.ObjectSet(pair.ArrayGet(0).StringValue(), pair.ArrayGet(1))
	}
	return registry.Done(out), nil
}

func builtinPick(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	return projectKeys("pick", args, env, ev, true)
}

func builtinOmit(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	return projectKeys("omit", args, env, ev, false)
}

// projectKeys implements both pick (keep) and omit (drop): obj is the first
// argument, followed either by a single array of key names or by the key
// names given positionally.
func projectKeys(op string, args registry.Args, env *environment.Environment, ev registry.Evaluator, keep bool) (registry.Result, error) {
	if err := arityAtLeast(op, args, 1); err != nil {
		return registry.Result{}, err
	}
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	obj := vals[0]
	if !obj.IsObject() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "%s expects an object, got %s", op, obj.Kind())
	}

	var names []string
	rest := vals[1:]
	if len(rest) == 1 {
		if elems, ok := asSequence(rest[0], env); ok {
			for _, e := range elems {
				if !e.IsString() {
					return registry.Result{}, cerrors.New(cerrors.TypeError, "%s key list must contain strings, got %s", op, e.Kind())
				}
				names = append(names, e.StringValue())
			}
			rest = nil
		}
	}
	for _, r := range rest {
		if !r.IsString() {
			return registry.Result{}, cerrors.New(cerrors.TypeError, "%s expects string key arguments, got %s", op, r.Kind())
		}
		names = append(names, r.StringValue())
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	out := value.NewObject()
	for _, k := range obj.ObjectKeys() {
		if want[k] == keep {
			out.ObjectSet(k, obj.ObjectGet(k))
		}
	}
	return registry.Done(out), nil
}

func builtinMerge(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityAtLeast("merge", args, 1); err != nil {
		return registry.Result{}, err
	}
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	out := value.NewObject()
	for _, v := range vals {
		if !v.IsObject() {
			return registry.Result{}, cerrors.New(cerrors.TypeError, "merge expects object operands, got %s", v.Kind())
		}
		for _, k := range v.ObjectKeys() {
			out.ObjectSet(k, v.ObjectGet(k))
		}
	}
	return registry.Done(out), nil
}
