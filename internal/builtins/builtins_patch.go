package builtins

import (
	"strconv"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/computo-run/computo/internal/cerrors"
	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/registry"
	"github.com/computo-run/computo/internal/value"
)

// registerPatch wires "diff" and "patch". "patch" applies an RFC 6902
// document through evanphx/json-patch/v5; that library applies patches but
// does not generate them, so "diff" walks the two value trees itself and
// emits the add/remove/replace sequence below directly from the RFC.
func registerPatch(register func(name string, h registry.Handler)) {
	register("diff", builtinDiff)
	register("patch", builtinPatch)
}

func builtinDiff(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("diff", args, 2); err != nil {
		return registry.Result{}, err
	}
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	ops := diffValues("", vals[0], vals[1])
	out := make([]*value.Value, len(ops))
	for i, op := range ops {
		out[i] = op
	}
	return registry.Done(value.NewArray(out)), nil
}

// diffValues recursively compares a and b rooted at pointer, returning the
// RFC 6902 operations that turn a into b. Objects are diffed key by key
// (removed keys emit "remove", added keys "add", changed keys recurse).
// Arrays are diffed position by position over their common prefix length;
// a length difference appends "add" operations for b's tail or "remove"
// operations (issued back-to-front so earlier indices stay valid) for a's
// tail. Anything else that differs is a single "replace" at pointer.
func diffValues(pointer string, a, b *value.Value) []*value.Value {
	if value.Equal(a, b) {
		return nil
	}
	if a.IsObject() && b.IsObject() {
		return diffObjects(pointer, a, b)
	}
	if a.IsArray() && b.IsArray() {
		return diffArrays(pointer, a, b)
	}
	return []*value.Value{patchOp("replace", pointer, b)}
}

func diffObjects(pointer string, a, b *value.Value) []*value.Value {
	var ops []*value.Value
	seen := map[string]bool{}
	for _, k := range a.ObjectKeys() {
		seen[k] = true
		childPtr := pointer + "/" + value.EscapeToken(k)
		if !b.ObjectHas(k) {
			ops = append(ops, patchOp("remove", childPtr, nil))
			continue
		}
		ops = append(ops, diffValues(childPtr, a.ObjectGet(k), b.ObjectGet(k))...)
	}
	for _, k := range b.ObjectKeys() {
		if seen[k] {
			continue
		}
		ops = append(ops, patchOp("add", pointer+"/"+value.EscapeToken(k), b.ObjectGet(k)))
	}
	return ops
}

func diffArrays(pointer string, a, b *value.Value) []*value.Value {
	var ops []*value.Value
	ae, be := a.ArrayElements(), b.ArrayElements()
	common := len(ae)
	if len(be) < common {
		common = len(be)
	}
	for i := 0; i < common; i++ {
		ops = append(ops, diffValues(pointer+"/"+strconv.Itoa(i), ae[i], be[i])...)
	}
	for i := len(ae) - 1; i >= common; i-- {
		ops = append(ops, patchOp("remove", pointer+"/"+strconv.Itoa(i), nil))
	}
	for i := common; i < len(be); i++ {
		ops = append(ops, patchOp("add", pointer+"/"+strconv.Itoa(i), be[i]))
	}
	return ops
}

func patchOp(op, pointer string, v *value.Value) *value.Value {
	out := value.NewObject()
	out.ObjectSet("op", value.String(op))
	out.ObjectSet("path", value.String(pointer))
	if v != nil {
		out.ObjectSet("value", v)
	}
	return out
}

func builtinPatch(args registry.Args, env *environment.Environment, ev registry.Evaluator) (registry.Result, error) {
	if err := arityExactly("patch", args, 2); err != nil {
		return registry.Result{}, err
	}
	vals, err := evalAll(args, env, ev)
	if err != nil {
		return registry.Result{}, err
	}
	doc, ops := vals[0], vals[1]
	if !ops.IsArray() {
		return registry.Result{}, cerrors.New(cerrors.TypeError, "patch expects an array of RFC 6902 operations, got %s", ops.Kind())
	}

	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return registry.Result{}, cerrors.New(cerrors.PatchError, "patch target could not be serialized: %v", err)
	}
	opsJSON, err := ops.MarshalJSON()
	if err != nil {
		return registry.Result{}, cerrors.New(cerrors.PatchError, "patch operations could not be serialized: %v", err)
	}

	decoded, derr := jsonpatch.DecodePatch(opsJSON)
	if derr != nil {
		return registry.Result{}, cerrors.New(cerrors.PatchError, "invalid RFC 6902 patch: %v", derr)
	}
	applied, aerr := decoded.Apply(docJSON)
	if aerr != nil {
		return registry.Result{}, cerrors.New(cerrors.PatchError, "patch application failed: %v", aerr)
	}

	result, perr := value.ParseJSON(applied)
	if perr != nil {
		return registry.Result{}, cerrors.New(cerrors.PatchError, "patched document could not be parsed: %v", perr)
	}
	return registry.Done(result), nil
}
