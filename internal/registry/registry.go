// Package registry holds Computo's operator dispatch table: a name -> handler
// map initialized once under a sync.Once guard and read-only afterward. The
// table is process-wide so that any number of independent evaluations can
// run concurrently against it without synchronization beyond the one-time
// build.
package registry

import (
	"sync"

	"github.com/computo-run/computo/internal/environment"
	"github.com/computo-run/computo/internal/value"
)

// Args is the unevaluated argument list handed to an operator. Each operator
// decides which of its operands to evaluate and in what order.
type Args []*value.Value

// Evaluator is the callback operators use to evaluate a sub-expression
// within a (possibly path-extended) environment. It is supplied by the
// evaluator package at call time to avoid an import cycle between registry
// and eval.
type Evaluator func(expr *value.Value, env *environment.Environment) (*value.Value, error)

// TailCall asks the trampoline to continue evaluating expr in env instead of
// recursing, so a handler sitting in tail position (chiefly "call" applying
// a lambda whose body is itself the result) costs no native stack frame.
// Handlers that aren't in tail position — an array operator invoking a
// lambda once per element, say — just call Evaluator directly instead of
// returning a TailCall.
type TailCall struct {
	Expr *value.Value
	Env  *environment.Environment
}

// Result is what a Handler hands back to the trampoline: either a finished
// Value or a TailCall to continue with. Exactly one of the two is set.
type Result struct {
	Value *value.Value
	Tail  *TailCall
}

// Done wraps a finished value as a Result.
func Done(v *value.Value) Result { return Result{Value: v} }

// Continue wraps a tail call as a Result.
func Continue(expr *value.Value, env *environment.Environment) Result {
	return Result{Tail: &TailCall{Expr: expr, Env: env}}
}

// Handler is an operator implementation. args are the unevaluated argument
// expressions (elements of the call form after the operator name); eval lets
// the handler evaluate whichever of them its contract requires, in whatever
// order it requires (left-to-right unless the contract says otherwise).
type Handler func(args Args, env *environment.Environment, eval Evaluator) (Result, error)

var (
	once  sync.Once
	table map[string]Handler
	mu    sync.RWMutex
)

// register adds name -> handler to the table. It is only safe to call before
// Bootstrap's registration pass completes; built-in packages call it from
// their init-time registration function, never at evaluation time.
func register(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	if table == nil {
		table = make(map[string]Handler)
	}
	if _, exists := table[name]; exists {
		panic("registry: duplicate operator registration for " + name)
	}
	table[name] = h
}

// Bootstrap initializes the registry exactly once per process, invoking fill
// to populate it. Subsequent calls are no-ops.
func Bootstrap(fill func(register func(name string, h Handler))) {
	once.Do(func() {
		fill(register)
	})
}

// Lookup returns the handler bound to name, if any. Safe for concurrent use
// once Bootstrap has completed.
func Lookup(name string) (Handler, bool) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := table[name]
	return h, ok
}

// Names returns every registered operator name, used by the "operators"
// command and for UnknownOperator suggestion candidates.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return names
}

// Reset clears the registry. It exists solely for tests that need a fresh
// table across multiple Bootstrap calls within one test binary; production
// code never calls it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	table = nil
	once = sync.Once{}
}
