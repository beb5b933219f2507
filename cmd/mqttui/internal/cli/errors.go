package cli

import (
	"errors"
	"fmt"
)

// exitError carries the process exit code a command's failure should
// produce (spec §6: 0 success, 1 runtime error, 2 usage/configuration
// error). A plain error from a RunE always maps to 1; commands that
// detect a configuration or usage problem wrap it in usageError instead.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// usageError reports a configuration or argument-parsing problem (spec
// §7 "Configuration error"), exit code 2.
func usageError(format string, args ...any) error {
	return &exitError{err: fmt.Errorf(format, args...), code: 2}
}

// runtimeError reports a startup or runtime failure (spec §7 "Startup
// error"), exit code 1. Most RunE errors don't need this wrapper since 1
// is ExitCode's default for an unwrapped error.
func runtimeError(format string, args ...any) error {
	return &exitError{err: fmt.Errorf(format, args...), code: 1}
}

// ExitCode maps a command error to the process exit code spec §6
// defines. nil maps to 0 by convention at the call site, not here.
func ExitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
