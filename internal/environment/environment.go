// Package environment implements Computo's lexically scoped variable frames.
package environment

import (
	"sort"

	"github.com/computo-run/computo/internal/value"
)

// Environment is an immutable frame in the lexical scope chain. Frames are
// created by "let" and by lambda application and are never mutated once
// built: each new binding set produces a new *Environment whose outer
// pointer is the frame it extends. There is no "Set", only binding at
// construction, and names are compared case-sensitively.
type Environment struct {
	vars   map[string]*value.Value
	outer  *Environment
	inputs []*value.Value
	// arrayKey is the configured literal-array wrapper key (default "array"),
	// fixed for the whole evaluation and inherited by every child frame.
	arrayKey string
	// path is the evaluation-path breadcrumb trail rooted at the top-level
	// call; child frames append to it without mutating the parent's slice.
	path []string
}

// Root creates the top-level environment seeded with the ordered input
// documents. $input resolves to inputs[0] (or null when empty); $inputs
// resolves to the whole ordered sequence.
func Root(inputs []*value.Value, arrayKey string) *Environment {
	if arrayKey == "" {
		arrayKey = "array"
	}
	return &Environment{
		vars:     map[string]*value.Value{},
		inputs:   inputs,
		arrayKey: arrayKey,
	}
}

// ArrayKey returns the literal-array wrapper key configured for this
// evaluation.
func (e *Environment) ArrayKey() string {
	if e == nil {
		return "array"
	}
	return e.arrayKey
}

// Input0 returns input[0], or JSON null if there are no inputs.
func (e *Environment) Input0() *value.Value {
	if e == nil || len(e.inputs) == 0 {
		return value.Null()
	}
	return e.inputs[0]
}

// Inputs returns the full ordered input sequence as a literal-array Value.
func (e *Environment) Inputs() *value.Value {
	if e == nil {
		return value.NewArray(nil)
	}
	return value.NewArray(e.inputs)
}

// Extend pushes a new frame containing bindings on top of e. Later duplicate
// names in bindings shadow earlier ones within the same call, matching
// "let"'s last-binding-wins rule for repeated names.
func (e *Environment) Extend(bindings map[string]*value.Value) *Environment {
	return &Environment{
		vars:     bindings,
		outer:    e,
		inputs:   e.inputs,
		arrayKey: e.arrayKey,
		path:     e.path,
	}
}

// Lookup scans frames innermost-first for name.
func (e *Environment) Lookup(name string) (*value.Value, bool) {
	for f := e; f != nil; f = f.outer {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// FrameNames returns the names bound in the innermost frame only, used to
// scope unknown-variable suggestions to names actually in scope nearby.
func (e *Environment) FrameNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.vars))
	for n := range e.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WithPath returns a copy of e with step appended to the evaluation path.
// The returned environment shares its variable frame with e; only the
// breadcrumb trail changes.
func (e *Environment) WithPath(step string) *Environment {
	next := append(append([]string{}, e.path...), step)
	return &Environment{
		vars:     e.vars,
		outer:    e.outer,
		inputs:   e.inputs,
		arrayKey: e.arrayKey,
		path:     next,
	}
}

// Snapshot returns the union of every frame from outermost to innermost as a
// single object value, innermost bindings winning on name collision. Used by
// the bare ["$"] form for REPL/debugging introspection.
func (e *Environment) Snapshot() *value.Value {
	var chain []*Environment
	for f := e; f != nil; f = f.outer {
		chain = append(chain, f)
	}
	out := value.NewObject()
	for i := len(chain) - 1; i >= 0; i-- {
		names := make([]string, 0, len(chain[i].vars))
		for n := range chain[i].vars {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			out.ObjectSet(n, chain[i].vars[n])
		}
	}
	return out
}

// Path returns the current evaluation-path breadcrumb trail.
func (e *Environment) Path() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.path))
	copy(out, e.path)
	return out
}
