package eval

import (
	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// Bind checks lambda's arity against args and returns the body expression
// together with the environment frame it should run in — the closure's
// captured environment extended with params bound to args. It does not
// evaluate the body; callers choose whether to recurse into Evaluate (a
// non-tail application, as array higher-order operators make once per
// element) or hand the pair back to the trampoline via registry.Continue
// (a tail application, as "call" does).
func Bind(lambda *value.Value, args []*value.Value) (*value.Value, *environment.Environment, error) {
	if !lambda.IsLambda() {
		return nil, nil, cerrors.New(cerrors.TypeError, "expected a lambda, got %s", lambda.Kind())
	}
	params := lambda.LambdaParams()
	if len(params) != len(args) {
		return nil, nil, cerrors.New(cerrors.Arity,
			"lambda expects %d argument(s), got %d", len(params), len(args))
	}
	closureEnv, ok := lambda.ClosureEnv().(*environment.Environment)
	if !ok {
		return nil, nil, cerrors.New(cerrors.TypeError, "lambda has no captured environment")
	}
	bindings := make(map[string]*value.Value, len(params))
	for i, p := range params {
		bindings[p] = args[i]
	}
	return lambda.LambdaBody(), closureEnv.Extend(bindings), nil
}

// Apply binds and immediately evaluates lambda against args. Use from
// non-tail contexts (map, filter, reduce, and friends invoking the lambda
// once per element); each call is a bounded, ordinary recursive descent that
// returns before the caller's loop proceeds to the next element, so it never
// accumulates stack proportional to the collection size — only to the
// nesting depth of the lambda body itself.
func Apply(lambda *value.Value, args []*value.Value) (*value.Value, error) {
	body, env, err := Bind(lambda, args)
	if err != nil {
		return nil, err
	}
	return Evaluate(body, env)
}

// ApplyTail binds lambda against args and returns a registry.Result that
// continues the trampoline with the body rather than recursing, giving
// tail-position lambda application (the "call" operator invoking a lambda
// as the last thing it does) the same constant-stack guarantee as "if" and
// "let".
func ApplyTail(lambda *value.Value, args []*value.Value) (registry.Result, error) {
	body, env, err := Bind(lambda, args)
	if err != nil {
		return registry.Result{}, err
	}
	return registry.Continue(body, env), nil
}
