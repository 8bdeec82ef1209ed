package builtins

import (
	"math"
	"strings"
	"testing"

	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/eval"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

func setup(t *testing.T) {
	t.Helper()
	registry.Reset()
	Register()
}

func run(t *testing.T, script *value.Value, inputs []*value.Value) *value.Value {
	t.Helper()
	env := environment.Root(inputs, "array")
	result, err := eval.Evaluate(script, env)
	if err != nil {
		t.Fatalf("evaluating %s: %v", script.String(), err)
	}
	return result
}

func call(op string, args ...*value.Value) *value.Value {
	elems := append([]*value.Value{value.String(op)}, args...)
	return value.NewArray(elems)
}

func TestArithmeticPromotesToFloatOnOverflow(t *testing.T) {
	setup(t)
	script := call("+", value.Int(math.MaxInt64), value.Int(1))
	result := run(t, script, nil)
	if !result.IsFloat() {
		t.Fatalf("expected overflow to promote to float, got %s", result.Kind())
	}
}

func TestArithmeticStaysIntegerWithoutOverflow(t *testing.T) {
	setup(t)
	script := call("+", value.Int(1), value.Int(2), value.Int(3))
	result := run(t, script, nil)
	if !result.IsInt() || result.IntValue() != 6 {
		t.Fatalf("got %s, want int 6", result.String())
	}
}

func lambdaOf(param string, body *value.Value) *value.Value {
	return call("lambda", value.NewArray([]*value.Value{value.String(param)}), body)
}

func TestMapAppliesLambdaToEachElement(t *testing.T) {
	setup(t)
	arr := value.NewArray([]*value.Value{value.Int(1), value.Int(2), value.Int(3)})
	lambda := lambdaOf("x", call("+", call("$", value.String("/x")), value.Int(1)))
	script := call("map", arr, lambda)
	result := run(t, script, nil)
	if !result.IsArray() || result.ArrayLen() != 3 {
		t.Fatalf("got %s", result.String())
	}
	want := []int64{2, 3, 4}
	for i, w := range want {
		if result.ArrayGet(i).IntValue() != w {
			t.Errorf("element %d: got %d, want %d", i, result.ArrayGet(i).IntValue(), w)
		}
	}
}

func TestFilterKeepsMatchingElements(t *testing.T) {
	setup(t)
	arr := value.NewArray([]*value.Value{value.Int(1), value.Int(2), value.Int(3), value.Int(4)})
	lambda := lambdaOf("x", call(">", call("$", value.String("/x")), value.Int(2)))
	script := call("filter", arr, lambda)
	result := run(t, script, nil)
	if result.ArrayLen() != 2 || result.ArrayGet(0).IntValue() != 3 || result.ArrayGet(1).IntValue() != 4 {
		t.Fatalf("got %s", result.String())
	}
}

func TestPatchAppliesDiffOutput(t *testing.T) {
	setup(t)
	a, err := value.ParseJSON([]byte(`{"name":"ada","role":"engineer"}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := value.ParseJSON([]byte(`{"name":"ada","role":"architect"}`))
	if err != nil {
		t.Fatal(err)
	}

	// a and b are plain-scalar object literals, so passing them directly as
	// call-form arguments evaluates to themselves: each field is a string,
	// which the evaluator's object-literal handling passes through unchanged.
	ops := run(t, call("diff", a, b), nil)

	// ops is an array of patch-operation objects; embedding it directly as a
	// call argument would be read as a call form (its head isn't a string),
	// so it must go back through the {"array": [...]} literal wrapper to be
	// re-quoted as data rather than code.
	wrappedOps := value.NewObject()
	wrappedOps.ObjectSet("array", ops)
	patched := run(t, call("patch", a, wrappedOps), nil)
	if !value.Equal(patched, b) {
		t.Fatalf("patch(a, diff(a,b)) = %s, want %s", patched.String(), b.String())
	}
}

func TestUnknownOperatorSuggestsNearMiss(t *testing.T) {
	setup(t)
	env := environment.Root(nil, "array")
	_, err := eval.Evaluate(call("fitler", value.NewArray(nil)), env)
	if err == nil {
		t.Fatal("expected an unknown-operator error")
	}
	if !strings.Contains(err.Error(), "filter") {
		t.Fatalf("expected the error to suggest \"filter\", got %v", err)
	}
}
