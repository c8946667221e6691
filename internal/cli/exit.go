package cli

import "errors"

// Process exit codes, distinguished so CI can tell "some platforms failed"
// from "the run could not start".
const (
	ExitOK             = 0
	ExitPartialFailure = 1
	ExitCouldNotStart  = 2
)

// Error carrying an explicit process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// Wraps a run-precondition failure so the process exits with
// [ExitCouldNotStart].
func couldNotStart(err error) error {
	return &ExitError{Code: ExitCouldNotStart, Err: err}
}

// Maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return ExitPartialFailure
}
