package builtins

import (
	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerVariables wires "$", "$input" and "$inputs". All three share the
// same pointer-resolution-with-lazy-default shape, only differing in what
// "root" value the pointer's first segment resolves against.
func registerVariables(register func(name string, h registry.Handler)) {
	register("$", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if len(args) == 0 {
			return registry.Done(env.Snapshot()), nil
		}
		if err := arityRange("$", args, 1, 2); err != nil {
			return registry.Result{}, err
		}
		ptrVal, err := ev(args[0], env)
		if err != nil {
			return registry.Result{}, err
		}
		if !ptrVal.IsString() {
			return registry.Result{}, cerrors.New(cerrors.TypeError, "$ expects a string pointer, got %s", ptrVal.Kind())
		}
		name, rest, perr := value.SplitFirstSegment(ptrVal.StringValue())
		if perr != nil {
			return resolveOrDefault(args, env, ev, perr)
		}
		bound, ok := env.Lookup(name)
		if !ok {
			err := cerrors.New(cerrors.UnknownVariable, "undefined variable %q%s", name, suggestSuffix(name, env.FrameNames()))
			return resolveOrDefault(args, env, ev, err)
		}
		v, rerr := value.Resolve(bound, rest)
		if rerr != nil {
			err := cerrors.New(cerrors.PathError, "%v", rerr)
			return resolveOrDefault(args, env, ev, err)
		}
		return registry.Done(v), nil
	})

	register("$input", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		return resolveAgainstRoot("$input", env.Input0(), args, env, ev)
	})

	register("$inputs", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		return resolveAgainstRoot("$inputs", env.Inputs(), args, env, ev)
	})
}

// resolveAgainstRoot implements the shared "$input"/"$inputs" shape: with no
// arguments return root unchanged; with a pointer argument (and optional
// lazy default) resolve root against it.
func resolveAgainstRoot(op string, root *value.Value, args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if len(args) == 0 {
		return registry.Done(root), nil
	}
	if err := arityRange(op, args, 1, 2); err != nil {
		return registry.Result{}, err
	}
	ptrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	if !ptrVal.IsString() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "%s expects a string pointer, got %s", op, ptrVal.Kind())
	}
	v, rerr := value.Resolve(root, ptrVal.StringValue())
	if rerr != nil {
		pathErr := cerrors.New(cerrors.PathError, "%v", rerr)
		return resolveOrDefault(args, env, ev, pathErr)
	}
	return registry.Done(v), nil
}

// resolveOrDefault is the one place variable/pointer resolution permits
// local error recovery: a failed lookup/traversal falls through to the
// lazily-evaluated second argument, if present, instead of propagating
// failed.
func resolveOrDefault(args registry.Args, env *environment.Environment, ev registry.Evaluator, failed error) (registry.Result, error) {
	if len(args) < 2 {
		return registry.Result{}, failed
	}
	v, err := ev(args[1], env)
	if err != nil {
		return registry.Result{}, err
	}
	return registry.Done(v), nil
}

func suggestSuffix(name string, candidates []string) string {
	suggestions := cerrors.Suggestions(name, candidates)
	if len(suggestions) == 0 {
		return ""
	}
	s := " (did you mean "
	for i, c := range suggestions {
		if i > 0 {
			s += " or "
		}
		s += "\"" + c + "\""
	}
	return s + "?)"
}
