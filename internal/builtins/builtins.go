// Package builtins wires every built-in operator into the operator
// registry. Each file groups one family of operators (arithmetic,
// comparison, arrays, objects, strings, and so on) behind its own
// registerXxx function, one registry.Handler closure per operator.
package builtins

import (
	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// Register populates the process-wide operator registry exactly once (via
// registry.Bootstrap's sync.Once guard). Safe to call from multiple
// goroutines and multiple times; only the first call's registration runs.
func Register() {
	registry.Bootstrap(func(register func(name string, h registry.Handler)) {
		registerArithmetic(register)
		registerComparison(register)
		registerLogical(register)
		registerVariables(register)
		registerObjects(register)
		registerArrays(register)
		registerSort(register)
		registerUnique(register)
		registerStrings(register)
		registerPatch(register)
		registerLambdaOps(register)
	})
}

// evalAll evaluates every expr in args, in order, stopping at the first
// error. Used by operators whose whole argument list is strict.
func evalAll(args registry.Args, env *environment.Environment, ev registry.Evaluator) ([]*value.Value, error) {
	out := make([]*value.Value, len(args))
	for i, a := range args {
		v, err := ev(a, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func arityAtLeast(op string, args registry.Args, n int) error {
	if len(args) < n {
		return cerrors.New(cerrors.Arity, "%s expects at least %d argument(s), got %d", op, n, len(args))
	}
	return nil
}

func arityExactly(op string, args registry.Args, n int) error {
	if len(args) != n {
		return cerrors.New(cerrors.Arity, "%s expects exactly %d argument(s), got %d", op, n, len(args))
	}
	return nil
}

func arityRange(op string, args registry.Args, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return cerrors.New(cerrors.Arity, "%s expects between %d and %d argument(s), got %d", op, lo, hi, len(args))
	}
	return nil
}

// asSequence accepts either a bare array value or the configured
// {"<arrayKey>": [...]} wrapped form, both of which the array higher-order
// operators accept as input.
func asSequence(v *value.Value, env *environment.Environment) ([]*value.Value, bool) {
	if v.IsArray() {
		return v.ArrayElements(), true
	}
	if v.IsObject() {
		keys := v.ObjectKeys()
		if len(keys) == 1 && keys[0] == env.ArrayKey() {
			if inner := v.ObjectGet(env.ArrayKey()); inner.IsArray() {
				return inner.ArrayElements(), true
			}
		}
	}
	return nil, false
}

func requireSequence(op string, v *value.Value, env *environment.Environment) ([]*value.Value, error) {
	elems, ok := asSequence(v, env)
	if !ok {
		return nil, cerrors.New(cerrors.TypeError, "%s expects an array, got %s", op, v.Kind())
	}
	return elems, nil
}

func requireLambda(op string, v *value.Value) (*value.Value, error) {
	if !v.IsLambda() {
		return nil, cerrors.New(cerrors.TypeError, "%s expects a lambda, got %s", op, v.Kind())
	}
	return v, nil
}
