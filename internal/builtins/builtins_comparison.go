package builtins

import (
	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerComparison wires the six chained comparison operators: [op, a, b,
// c] means (a op b) AND (b op c).
func registerComparison(register func(name string, h registry.Handler)) {
	register("==", chainedComparison("==", func(a, b *value.Value) (bool, error) { return value.Equal(a, b), nil }, false))
	register("!=", chainedComparison("!=", func(a, b *value.Value) (bool, error) { return !value.Equal(a, b), nil }, false))
	register("<", chainedComparison("<", numericLess, true))
	register("<=", chainedComparison("<=", numericLessEqual, true))
	register(">", chainedComparison(">", numericGreater, true))
	register(">=", chainedComparison(">=", numericGreaterEqual, true))
}

func chainedComparison(op string, pairwise func(a, b *value.Value) (bool, error), numericOnly bool) registry.Handler {
	return func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityAtLeast(op, args, 2); err != nil {
			return registry.Result{}, err
		}
		vals, err := evalAll(args, env, ev)
		if err != nil {
			return registry.Result{}, err
		}
		if numericOnly {
			for _, v := range vals {
				if !v.IsNumber() {
					return registry.Result{}, cerrors.New(cerrors.TypeError, "%s expects numeric operands, got %s", op, v.Kind())
				}
			}
		}
		for i := 0; i+1 < len(vals); i++ {
			ok, err := pairwise(vals[i], vals[i+1])
			if err != nil {
				return registry.Result{}, err
			}
			if !ok {
				return registry.Done(value.Bool(false)), nil
			}
		}
		return registry.Done(value.Bool(true)), nil
	}
}

func numericLess(a, b *value.Value) (bool, error)      { return a.AsFloat64() < b.AsFloat64(), nil }
func numericLessEqual(a, b *value.Value) (bool, error) { return a.AsFloat64() <= b.AsFloat64(), nil }
func numericGreater(a, b *value.Value) (bool, error)   { return a.AsFloat64() > b.AsFloat64(), nil }
func numericGreaterEqual(a, b *value.Value) (bool, error) {
	return a.AsFloat64() >= b.AsFloat64(), nil
}
