// Package eval implements Computo's evaluator: a dispatch loop driven by a
// trampoline so that "if" and "let" tail positions (and tail-position lambda
// application via the "call" operator) run in constant native stack depth
// regardless of source nesting depth. The program and the data it
// manipulates share one representation, so instead of switching on a typed
// AST node, the loop switches on a runtime value.Value's Kind directly.
package eval

import (
	"strconv"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// TraceHook is called once per trampoline step, before expr is dispatched,
// with the evaluation-path breadcrumb trail active at that point.
type TraceHook func(path []string, expr *value.Value)

// Evaluate runs expr to a value under env. It is the single entry point used
// by the public API, the CLI, and every built-in that needs to evaluate a
// sub-expression (via the registry.Evaluator callback passed to handlers).
func Evaluate(expr *value.Value, env *environment.Environment) (*value.Value, error) {
	return evaluate(expr, env, nil)
}

// EvaluateTraced runs expr like Evaluate, additionally invoking hook at
// every trampoline step (including the tail-call continuations "if"/"let"/
// lambda application produce) — the mechanism behind Options.Trace.
func EvaluateTraced(expr *value.Value, env *environment.Environment, hook TraceHook) (*value.Value, error) {
	return evaluate(expr, env, hook)
}

func evaluate(expr *value.Value, env *environment.Environment, hook TraceHook) (*value.Value, error) {
	for {
		if expr == nil {
			return value.Null(), nil
		}
		if hook != nil {
			hook(env.Path(), expr)
		}

		switch expr.Kind() {
		case value.KindObject:
			if lit, ok := literalArray(expr, env); ok {
				return evaluateLiteralArray(lit, env, hook)
			}
			return evaluateObjectLiteral(expr, env, hook)

		case value.KindArray:
			n := expr.ArrayLen()
			if n == 0 {
				return nil, cerrors.New(cerrors.InvalidScript, "empty array is not a valid call form").WithPath(env.Path())
			}
			head := expr.ArrayGet(0)
			if !head.IsString() {
				return nil, cerrors.New(cerrors.InvalidScript,
					"call form head must be a string operator name, got %s", head.Kind()).WithPath(env.Path())
			}
			op := head.StringValue()
			rest := expr.ArrayElements()[1:]

			switch op {
			case "if":
				nextExpr, nextEnv, err := stepIf(rest, env, hook)
				if err != nil {
					return nil, err
				}
				expr, env = nextExpr, nextEnv
				continue

			case "let":
				nextExpr, nextEnv, err := stepLet(rest, env, hook)
				if err != nil {
					return nil, err
				}
				expr, env = nextExpr, nextEnv
				continue

			case "lambda":
				return stepLambda(rest, env)

			default:
				h, ok := registry.Lookup(op)
				if !ok {
					return nil, unknownOperator(op, env)
				}
				res, err := h(registry.Args(rest), env, subEvaluator(hook))
				if err != nil {
					return nil, prependStep(err, op)
				}
				if res.Tail != nil {
					expr, env = res.Tail.Expr, res.Tail.Env
					continue
				}
				return res.Value, nil
			}

		default:
			// Null, Bool, Int, Float, String: literal passthrough.
			return expr, nil
		}
	}
}

// subEvaluator binds hook into a registry.Evaluator callback so built-in
// operators evaluating their own sub-expressions keep tracing threaded
// through, without every operator file needing to know about TraceHook.
func subEvaluator(hook TraceHook) func(*value.Value, *environment.Environment) (*value.Value, error) {
	return func(expr *value.Value, env *environment.Environment) (*value.Value, error) {
		return evaluate(expr, env, hook)
	}
}

// literalArray reports whether expr is the {"<arrayKey>": [...]} wrapper that
// disambiguates a literal array from a call form, returning the wrapped
// array when it is.
func literalArray(expr *value.Value, env *environment.Environment) (*value.Value, bool) {
	keys := expr.ObjectKeys()
	if len(keys) != 1 || keys[0] != env.ArrayKey() {
		return nil, false
	}
	inner := expr.ObjectGet(env.ArrayKey())
	if !inner.IsArray() {
		return nil, false
	}
	return inner, true
}

func evaluateLiteralArray(arr *value.Value, env *environment.Environment, hook TraceHook) (*value.Value, error) {
	elems := arr.ArrayElements()
	out := make([]*value.Value, len(elems))
	for i, e := range elems {
		v, err := evaluate(e, env.WithPath("array["+strconv.Itoa(i)+"]"), hook)
		if err != nil {
			return nil, prependStep(err, "array["+strconv.Itoa(i)+"]")
		}
		out[i] = v
	}
	return value.NewArray(out), nil
}

// evaluateObjectLiteral handles any JSON object that is not the array
// wrapper: each value expression is evaluated in turn, keys pass through
// unevaluated.
func evaluateObjectLiteral(expr *value.Value, env *environment.Environment, hook TraceHook) (*value.Value, error) {
	out := value.NewObject()
	for _, k := range expr.ObjectKeys() {
		v, err := evaluate(expr.ObjectGet(k), env.WithPath(k), hook)
		if err != nil {
			return nil, prependStep(err, k)
		}
		out.ObjectSet(k, v)
	}
	return out, nil
}

// stepIf evaluates the condition (a non-tail recursive call) and returns the
// chosen branch as an (expr, env) pair for the trampoline to continue with,
// rather than recursing into the branch itself.
func stepIf(rest []*value.Value, env *environment.Environment, hook TraceHook) (*value.Value, *environment.Environment, error) {
	if len(rest) != 3 {
		return nil, nil, cerrors.New(cerrors.Arity, "if requires exactly 3 arguments (condition, then, else), got %d", len(rest)).WithPath(env.Path())
	}
	cond, err := evaluate(rest[0], env.WithPath("if.condition"), hook)
	if err != nil {
		return nil, nil, prependStep(err, "if.condition")
	}
	if cond.Truthy() {
		return rest[1], env, nil
	}
	return rest[2], env, nil
}

// stepLet evaluates each binding's value expression against the ORIGINAL
// (outer) environment — bindings cannot see each other, i.e. let is
// non-recursive — then extends the environment with all bindings at once
// before continuing into the body. This is the "non-recursive let with late
// lookup" resolution of the spec's first open question: a binding's name is
// only resolved when the body runs, never while computing sibling bindings.
func stepLet(rest []*value.Value, env *environment.Environment, hook TraceHook) (*value.Value, *environment.Environment, error) {
	if len(rest) != 2 {
		return nil, nil, cerrors.New(cerrors.Arity, "let requires exactly 2 arguments (bindings, body), got %d", len(rest)).WithPath(env.Path())
	}
	bindingsExpr := rest[0]

	var names []string
	var valueExprs []*value.Value
	switch {
	case bindingsExpr.IsArray():
		for i, pair := range bindingsExpr.ArrayElements() {
			if !pair.IsArray() || pair.ArrayLen() != 2 || !pair.ArrayGet(0).IsString() {
				return nil, nil, cerrors.New(cerrors.InvalidScript,
					"let binding %d must be a [name, expr] pair", i).WithPath(env.Path())
			}
			names = append(names, pair.ArrayGet(0).StringValue())
			valueExprs = append(valueExprs, pair.ArrayGet(1))
		}
	case bindingsExpr.IsObject():
		for _, k := range bindingsExpr.ObjectKeys() {
			names = append(names, k)
			valueExprs = append(valueExprs, bindingsExpr.ObjectGet(k))
		}
	default:
		return nil, nil, cerrors.New(cerrors.InvalidScript,
			"let bindings must be an array of [name, expr] pairs or an object of name: expr").WithPath(env.Path())
	}

	bindings := make(map[string]*value.Value, len(names))
	for i, name := range names {
		v, err := evaluate(valueExprs[i], env.WithPath("let.binding."+name), hook)
		if err != nil {
			return nil, nil, prependStep(err, "let.binding."+name)
		}
		bindings[name] = v
	}

	return rest[1], env.Extend(bindings), nil
}

// stepLambda constructs a closure value without evaluating its body — a
// lambda expression denotes itself, homoiconically, plus the environment it
// closed over.
func stepLambda(rest []*value.Value, env *environment.Environment) (*value.Value, error) {
	if len(rest) != 2 {
		return nil, cerrors.New(cerrors.Arity, "lambda requires exactly 2 arguments (params, body), got %d", len(rest)).WithPath(env.Path())
	}
	paramsExpr := rest[0]
	if !paramsExpr.IsArray() {
		return nil, cerrors.New(cerrors.InvalidScript, "lambda parameters must be an array of strings").WithPath(env.Path())
	}
	params := make([]string, paramsExpr.ArrayLen())
	for i, p := range paramsExpr.ArrayElements() {
		if !p.IsString() {
			return nil, cerrors.New(cerrors.InvalidScript, "lambda parameter %d must be a string", i).WithPath(env.Path())
		}
		params[i] = p.StringValue()
	}
	return value.NewLambda(params, rest[1], env), nil
}

func unknownOperator(op string, env *environment.Environment) error {
	suggestions := cerrors.Suggestions(op, registry.Names())
	msg := "unknown operator " + strconv.Quote(op)
	if len(suggestions) > 0 {
		msg += " (did you mean "
		for i, s := range suggestions {
			if i > 0 {
				msg += " or "
			}
			msg += strconv.Quote(s)
		}
		msg += "?)"
	}
	return cerrors.New(cerrors.UnknownOperator, "%s", msg).WithPath(env.Path())
}

func prependStep(err error, step string) error {
	if ce, ok := cerrors.AsComputoError(err); ok {
		return ce.PrependStep(step)
	}
	return err
}
