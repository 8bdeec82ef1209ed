package builtins

import (
	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/eval"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerArrays wires the array higher-order operators. A lambda
// argument — whether an inline ["lambda", ...] literal or a name bound via
// "$" — is uniformly obtained by evaluating it: the evaluator already turns
// an inline lambda literal into a closure value through its own
// special-form handling, so every operator here just calls ev(args[1], env)
// and then eval.Apply to invoke it, the same way a plain value argument is
// obtained.
func registerArrays(register func(name string, h registry.Handler)) {
	register("map", builtinMap)
	register("filter", builtinFilter)
	register("reduce", builtinReduce)
	register("count", builtinCount)
	register("find", builtinFind)
	register("some", builtinSome)
	register("every", builtinEvery)
	register("flatMap", builtinFlatMap)
	register("zip", builtinZip)
	register("zipWith", builtinZipWith)
	register("enumerate", builtinEnumerate)
	register("mapWithIndex", builtinMapWithIndex)
	register("car", builtinCar)
	register("cdr", builtinCdr)
	register("cons", builtinCons)
	register("append", builtinAppend)
	register("chunk", builtinChunk)
	register("partition", builtinPartition)
}

// arrayAndLambda evaluates the common (arr, lambda) argument shape shared by
// most higher-order operators.
func arrayAndLambda(op string, args registry.Args, env *environment.Environment, ev registry.Evaluator) ([]*value.Value, *value.Value, error) {
	if err := arityExactly(op, args, 2); err != nil {
		return nil, nil, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return nil, nil, err
	}
	elems, err := requireSequence(op, arrVal, env)
	if err != nil {
		return nil, nil, err
	}
	lambdaVal, err := ev(args[1], env)
	if err != nil {
		return nil, nil, err
	}
	lambdaVal, err = requireLambda(op, lambdaVal)
	if err != nil {
		return nil, nil, err
	}
	return elems, lambdaVal, nil
}

func builtinMap(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("map", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	out := make([]*value.Value, len(elems))
	for i, e := range elems {
		v, err := eval.Apply(lambda, []*value.Value{e})
		if err != nil {
			return registry.Result{}, err
		}
		out[i] = v
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinFilter(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("filter", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	var out []*value.Value
	for _, e := range elems {
		v, err := eval.Apply(lambda, []*value.Value{e})
		if err != nil {
			return registry.Result{}, err
		}
		if v.Truthy() {
			out = append(out, e)
		}
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinReduce(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("reduce", args, 3); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("reduce", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	lambdaVal, err := ev(args[1], env)
	if err != nil {
		return registry.Result{}, err
	}
	lambdaVal, err = requireLambda("reduce", lambdaVal)
	if err != nil {
		return registry.Result{}, err
	}
	acc, err := ev(args[2], env)
	if err != nil {
		return registry.Result{}, err
	}
	for _, e := range elems {
		acc, err = eval.Apply(lambdaVal, []*value.Value{acc, e})
		if err != nil {
			return registry.Result{}, err
		}
	}
	return registry.Done(acc), nil
}

func builtinCount(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("count", args, 1); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("count", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	return registry.Done(value.Int(int64(len(elems)))), nil
}

func builtinFind(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("find", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	for _, e := range elems {
		v, err := eval.Apply(lambda, []*value.Value{e})
		if err != nil {
			return registry.Result{}, err
		}
		if v.Truthy() {
			return registry.Done(e), nil
		}
	}
	return registry.Done(value.Null()), nil
}

func builtinSome(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("some", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	for _, e := range elems {
		v, err := eval.Apply(lambda, []*value.Value{e})
		if err != nil {
			return registry.Result{}, err
		}
		if v.Truthy() {
			return registry.Done(value.Bool(true)), nil
		}
	}
	return registry.Done(value.Bool(false)), nil
}

func builtinEvery(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("every", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	for _, e := range elems {
		v, err := eval.Apply(lambda, []*value.Value{e})
		if err != nil {
			return registry.Result{}, err
		}
		if !v.Truthy() {
			return registry.Done(value.Bool(false)), nil
		}
	}
	return registry.Done(value.Bool(true)), nil
}

func builtinFlatMap(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("flatMap", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	var out []*value.Value
	for _, e := range elems {
		r, err := eval.Apply(lambda, []*value.Value{e})
		if err != nil {
			return registry.Result{}, err
		}
		if sub, ok := asSequence(r, env); ok {
			out = append(out, sub...)
		} else {
			out = append(out, r)
		}
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinZip(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("zip", args, 2); err != nil {
		return registry.Result{}, err
	}
	aVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	bVal, err := ev(args[1], env)
	if err != nil {
		return registry.Result{}, err
	}
	a, err := requireSequence("zip", aVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	b, err := requireSequence("zip", bVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]*value.Value, n)
	for i := 0; i < n; i++ {
		out[i] = value.NewArray([]*value.Value{a[i], b[i]})
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinZipWith(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("zipWith", args, 3); err != nil {
		return registry.Result{}, err
	}
	aVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	bVal, err := ev(args[1], env)
	if err != nil {
		return registry.Result{}, err
	}
	a, err := requireSequence("zipWith", aVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	b, err := requireSequence("zipWith", bVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	lambdaVal, err := ev(args[2], env)
	if err != nil {
		return registry.Result{}, err
	}
	lambdaVal, err = requireLambda("zipWith", lambdaVal)
	if err != nil {
		return registry.Result{}, err
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]*value.Value, n)
	for i := 0; i < n; i++ {
		v, err := eval.Apply(lambdaVal, []*value.Value{a[i], b[i]})
		if err != nil {
			return registry.Result{}, err
		}
		out[i] = v
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinEnumerate(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("enumerate", args, 1); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("enumerate", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	out := make([]*value.Value, len(elems))
	for i, e := range elems {
		out[i] = value.NewArray([]*value.Value{value.Int(int64(i)), e})
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinMapWithIndex(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("mapWithIndex", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	out := make([]*value.Value, len(elems))
	for i, e := range elems {
		v, err := eval.Apply(lambda, []*value.Value{e, value.Int(int64(i))})
		if err != nil {
			return registry.Result{}, err
		}
		out[i] = v
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinCar(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("car", args, 1); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("car", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	if len(elems) == 0 {
		return registry.Result{}, cerrors.New(cerrors.DomainError, "car of an empty array")
	}
	return registry.Done(elems[0]), nil
}

func builtinCdr(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("cdr", args, 1); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("cdr", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	if len(elems) == 0 {
		return registry.Done(value.NewArray(nil)), nil
	}
	return registry.Done(value.NewArray(elems[1:])), nil
}

func builtinCons(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("cons", args, 2); err != nil {
		return registry.Result{}, err
	}
	head, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	tailVal, err := ev(args[1], env)
	if err != nil {
		return registry.Result{}, err
	}
	tail, err := requireSequence("cons", tailVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	out := make([]*value.Value, 0, len(tail)+1)
	out = append(out, head)
	out = append(out, tail...)
	return registry.Done(value.NewArray(out)), nil
}

func builtinAppend(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityAtLeast("append", args, 1); err != nil {
		return registry.Result{}, err
	}
	var out []*value.Value
	for _, a := range args {
		v, err := ev(a, env)
		if err != nil {
			return registry.Result{}, err
		}
		elems, err := requireSequence("append", v, env)
		if err != nil {
			return registry.Result{}, err
		}
		out = append(out, elems...)
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinChunk(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("chunk", args, 2); err != nil {
		return registry.Result{}, err
	}
	arrVal, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	elems, err := requireSequence("chunk", arrVal, env)
	if err != nil {
		return registry.Result{}, err
	}
	nVal, err := ev(args[1], env)
	if err != nil {
		return registry.Result{}, err
	}
	if !nVal.IsInt() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "chunk size must be an integer, got %s", nVal.Kind())
	}
	n := int(nVal.IntValue())
	if n <= 0 {
		return registry.Result{}, cerrors.New(cerrors.DomainError, "chunk size must be > 0, got %d", n)
	}
	var out []*value.Value
	for i := 0; i < len(elems); i += n {
		end := i + n
		if end > len(elems) {
			end = len(elems)
		}
		out = append(out, value.NewArray(elems[i:end]))
	}
	return registry.Done(value.NewArray(out)), nil
}

func builtinPartition(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	elems, lambda, err := arrayAndLambda("partition", args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	var truthy, falsy []*value.Value
	for _, e := range elems {
		v, err := eval.Apply(lambda, []*value.Value{e})
		if err != nil {
			return registry.Result{}, err
		}
		if v.Truthy() {
			truthy = append(truthy, e)
		} else {
			falsy = append(falsy, e)
		}
	}
	return registry.Done(value.NewArray([]*value.Value{value.NewArray(truthy), value.NewArray(falsy)})), nil
}
