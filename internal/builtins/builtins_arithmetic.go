package builtins

import (
	"math"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerArithmetic wires "+", "-", "*", "/", "%" and "approx". For "+",
// "-" and "*" the result stays integer only when every operand is integer;
// the moment any operand is a float, the whole result promotes to float.
// "/" always returns a float, and "%" accepts integer operands only.
func registerArithmetic(register func(name string, h registry.Handler)) {
	register("+", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityAtLeast("+", args, 1); err != nil {
			return registry.Result{}, err
		}
		vals, err := evalAll(args, env, ev)
		if err != nil {
			return registry.Result{}, err
		}
		v, err := sumOrProduct("+", vals)
		if err != nil {
			return registry.Result{}, err
		}
		return registry.Done(v), nil
	})

	register("*", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityAtLeast("*", args, 1); err != nil {
			return registry.Result{}, err
		}
		vals, err := evalAll(args, env, ev)
		if err != nil {
			return registry.Result{}, err
		}
		v, err := sumOrProduct("*", vals)
		if err != nil {
			return registry.Result{}, err
		}
		return registry.Done(v), nil
	})

	register("-", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityRange("-", args, 1, 2); err != nil {
			return registry.Result{}, err
		}
		vals, err := evalAll(args, env, ev)
		if err != nil {
			return registry.Result{}, err
		}
		for _, v := range vals {
			if !v.IsNumber() {
				return registry.Result{}, cerrors.New(cerrors.TypeError, "- expects numeric operands, got %s", v.Kind())
			}
		}
		if len(vals) == 1 {
			if vals[0].IsInt() {
				return registry.Done(value.Int(-vals[0].IntValue())), nil
			}
			return registry.Done(value.Float(-vals[0].AsFloat64())), nil
		}
		if vals[0].IsInt() && vals[1].IsInt() {
			return registry.Done(value.Int(vals[0].IntValue() - vals[1].IntValue())), nil
		}
		return registry.Done(value.Float(vals[0].AsFloat64() - vals[1].AsFloat64())), nil
	})

	register("/", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityExactly("/", args, 2); err != nil {
			return registry.Result{}, err
		}
		vals, err := evalAll(args, env, ev)
		if err != nil {
			return registry.Result{}, err
		}
		for _, v := range vals {
			if !v.IsNumber() {
				return registry.Result{}, cerrors.New(cerrors.TypeError, "/ expects numeric operands, got %s", v.Kind())
			}
		}
		divisor := vals[1].AsFloat64()
		if divisor == 0 {
			return registry.Result{}, cerrors.New(cerrors.DomainError, "division by zero")
		}
		return registry.Done(value.Float(vals[0].AsFloat64() / divisor)), nil
	})

	register("%", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityExactly("%", args, 2); err != nil {
			return registry.Result{}, err
		}
		vals, err := evalAll(args, env, ev)
		if err != nil {
			return registry.Result{}, err
		}
		if !vals[0].IsInt() || !vals[1].IsInt() {
			return registry.Result{}, cerrors.New(cerrors.TypeError, "%% expects integer operands, got %s and %s", vals[0].Kind(), vals[1].Kind())
		}
		if vals[1].IntValue() == 0 {
			return registry.Result{}, cerrors.New(cerrors.DomainError, "modulo by zero")
		}
		return registry.Done(value.Int(vals[0].IntValue() % vals[1].IntValue())), nil
	})

	register("approx", func(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
		if err := arityExactly("approx", args, 3); err != nil {
			return registry.Result{}, err
		}
		vals, err := evalAll(args, env, ev)
		if err != nil {
			return registry.Result{}, err
		}
		for _, v := range vals {
			if !v.IsNumber() {
				return registry.Result{}, cerrors.New(cerrors.TypeError, "approx expects numeric operands, got %s", v.Kind())
			}
		}
		tolerance := vals[2].AsFloat64()
		if tolerance < 0 {
			return registry.Result{}, cerrors.New(cerrors.DomainError, "approx tolerance must be >= 0, got %v", tolerance)
		}
		diff := math.Abs(vals[0].AsFloat64() - vals[1].AsFloat64())
		return registry.Done(value.Bool(diff <= tolerance)), nil
	})
}

// sumOrProduct folds vals with op's identity/combine rule, promoting to
// float the instant any operand is a float (integer+integer stays integer,
// any float operand contaminates the whole result to float) and also the
// instant an int64 accumulation would overflow, so a long chain of large
// integers degrades to a float result rather than wrapping silently.
func sumOrProduct(op string, vals []*value.Value) (*value.Value, error) {
	isFloat := false
	var fAcc float64
	var iAcc int64
	if op == "*" {
		iAcc = 1
		fAcc = 1
	}
	for _, v := range vals {
		if !v.IsNumber() {
			return nil, cerrors.New(cerrors.TypeError, "%s expects numeric operands, got %s", op, v.Kind())
		}
		if v.IsFloat() && !isFloat {
			isFloat = true
			fAcc = float64(iAcc)
		}
		if isFloat {
			if op == "+" {
				fAcc += v.AsFloat64()
			} else {
				fAcc *= v.AsFloat64()
			}
			continue
		}
		n := v.IntValue()
		var next int64
		var overflowed bool
		if op == "+" {
			next = iAcc + n
			overflowed = (n > 0 && next < iAcc) || (n < 0 && next > iAcc)
		} else {
			next, overflowed = mulOverflows(iAcc, n)
		}
		if overflowed {
			isFloat = true
			fAcc = float64(iAcc)
			if op == "+" {
				fAcc += float64(n)
			} else {
				fAcc *= float64(n)
			}
			continue
		}
		iAcc = next
	}
	if isFloat {
		return value.Float(fAcc), nil
	}
	return value.Int(iAcc), nil
}

// mulOverflows reports whether a*b overflows int64, along with the product
// when it does not.
func mulOverflows(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, true
	}
	product := a * b
	if product/b != a {
		return 0, true
	}
	return product, false
}
