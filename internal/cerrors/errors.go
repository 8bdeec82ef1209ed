// Package cerrors defines Computo's structured error model: a tagged kind,
// a message, an evaluation-path breadcrumb trail, and (for sugar parse
// errors only) a source position.
package cerrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies the broad category of failure a Computo evaluation or
// parse can raise.
type Kind string

const (
	InvalidScript   Kind = "InvalidScript"
	UnknownOperator Kind = "UnknownOperator"
	UnknownVariable Kind = "UnknownVariable"
	Arity           Kind = "Arity"
	TypeError       Kind = "TypeError"
	DomainError     Kind = "DomainError"
	PathError       Kind = "PathError"
	PatchError      Kind = "PatchError"
	ParseError      Kind = "ParseError"
)

// Position is a 1-indexed line/column in sugar source, present only on
// ParseError.
type Position struct {
	Line   int
	Column int
}

// Error is Computo's structured error type. It implements the standard error
// interface so it composes with %w/errors.Is/errors.As, while exposing Kind
// and Path for callers (the CLI, the library caller) that want structure
// rather than just a string.
type Error struct {
	Kind    Kind
	Message string
	Path    []string
	Pos     *Position
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if len(e.Path) > 0 {
		sb.WriteString(" (at ")
		sb.WriteString(strings.Join(e.Path, " -> "))
		sb.WriteString(")")
	}
	if e.Pos != nil {
		sb.WriteString(fmt.Sprintf(" [%d:%d]", e.Pos.Line, e.Pos.Column))
	}
	return sb.String()
}

// New builds a plain error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPath returns a copy of e with path attached, replacing any path e
// already carries; used by the evaluator as it unwinds the trampoline so each
// error surfaces the spine of contexts from root to the failing
// sub-expression.
func (e *Error) WithPath(path []string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// PrependStep prepends a single context breadcrumb to e's path. Operators
// call this as an error unwinds through a sub-expression they evaluated, so
// the outermost caller accumulates the full spine.
func (e *Error) PrependStep(step string) *Error {
	cp := *e
	cp.Path = append([]string{step}, e.Path...)
	return &cp
}

// Format renders a caret diagnostic pointing at the offending column when
// Pos and source are available (sugar parse errors); otherwise it falls
// back to Error().
func (e *Error) Format(source string, color bool) string {
	if e.Pos == nil || source == "" {
		return e.Error()
	}

	var sb strings.Builder
	sb.WriteString("parse error at " + e.Pos.posString() + "\n")

	lines := strings.Split(source, "\n")
	if e.Pos.Line >= 1 && e.Pos.Line <= len(lines) {
		srcLine := lines[e.Pos.Line-1]
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(srcLine)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// AsComputoError reports whether err is (or wraps) a *Error.
func AsComputoError(err error) (*Error, bool) {
	var ce *Error
	ok := errors.As(err, &ce)
	return ce, ok
}

// posString renders a position for compact one-line diagnostics.
func (p *Position) posString() string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
