package builtins

import (
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerLogical wires "and"/"&&", "or"/"||" (variadic, short-circuit) and
// "not" (unary).
func registerLogical(register func(name string, h registry.Handler)) {
	and := func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityAtLeast("and", args, 1); err != nil {
			return registry.Result{}, err
		}
		for _, a := range args {
			v, err := ev(a, env)
			if err != nil {
				return registry.Result{}, err
			}
			if !v.Truthy() {
				return registry.Done(value.Bool(false)), nil
			}
		}
		return registry.Done(value.Bool(true)), nil
	}
	or := func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityAtLeast("or", args, 1); err != nil {
			return registry.Result{}, err
		}
		for _, a := range args {
			v, err := ev(a, env)
			if err != nil {
				return registry.Result{}, err
			}
			if v.Truthy() {
				return registry.Done(value.Bool(true)), nil
			}
		}
		return registry.Done(value.Bool(false)), nil
	}
	register("and", and)
	register("&&", and)
	register("or", or)
	register("||", or)

	register("not", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityExactly("not", args, 1); err != nil {
			return registry.Result{}, err
		}
		v, err := ev(args[0], env)
		if err != nil {
			return registry.Result{}, err
		}
		return registry.Done(value.Bool(!v.Truthy())), nil
	})
}
