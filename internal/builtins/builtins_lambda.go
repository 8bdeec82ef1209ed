package builtins

import (
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/eval"
	"github.com/computo-run/computo/internal/registry"
)

// registerLambdaOps wires "call", the only operator that applies a lambda
// directly rather than handing it to an array operator. It evaluates the
// function position and every argument first (neither is itself in tail
// position), then hands the bound body back to the trampoline via
// eval.ApplyTail so a lambda calling itself through "call" recurses at
// constant native stack depth no matter how many times it calls itself.
func registerLambdaOps(register func(name string, h registry.Handler)) {
	register("call", builtinCall)
}

func builtinCall(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityAtLeast("call", args, 1); err != nil {
		return registry.Result{}, err
	}
	fn, err := ev(args[0], env)
	if err != nil {
		return registry.Result{}, err
	}
	lambda, err := requireLambda("call", fn)
	if err != nil {
		return registry.Result{}, err
	}
	callArgs, err := evalAll(args[1:], env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	return eval.ApplyTail(lambda, callArgs)
}
