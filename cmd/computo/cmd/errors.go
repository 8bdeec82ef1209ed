package cmd

import (
	"github.com/computo-run/computo/internal/cerrors"
)

// formatRunError upgrades a computo evaluation error into its caret-annotated
// form against the original script source when possible, falling back to
// the plain error otherwise.
func formatRunError(err error, source string) error {
	ce, ok := cerrors.AsComputoError(err)
	if !ok {
		return err
	}
	return &formattedError{msg: ce.Format(source, true), cause: ce}
}

type formattedError struct {
	msg   string
	cause error
}

func (e *formattedError) Error() string { return e.msg }
func (e *formattedError) Unwrap() error { return e.cause }
