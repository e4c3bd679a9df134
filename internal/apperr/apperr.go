// Package apperr defines the error kinds surfaced to the user and the process
// exit code each one maps to.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for reporting.
type Kind int

const (
	Unexpected Kind = iota
	InvalidArgument
	TimesheetMissing
	UnparsableDate
	TimesheetExists
	LoginFailed
	TimesheetSubmitted
	ConfigError
)

// exitCodes maps each kind to the status returned to the shell.
var exitCodes = map[Kind]int{
	InvalidArgument:    1,
	TimesheetMissing:   2,
	UnparsableDate:     3,
	TimesheetExists:    4,
	LoginFailed:        5,
	TimesheetSubmitted: 6,
	ConfigError:        7,
	Unexpected:         8,
}

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case TimesheetMissing:
		return "timesheet missing"
	case UnparsableDate:
		return "unparsable date"
	case TimesheetExists:
		return "timesheet exists"
	case LoginFailed:
		return "login failed"
	case TimesheetSubmitted:
		return "timesheet submitted"
	case ConfigError:
		return "config error"
	default:
		return "unexpected error"
	}
}

// Error is a user-facing error. Msg is printed as-is on stderr.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of the given kind carrying err as its cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ExitCode returns the process exit status for err. A nil error is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return exitCodes[KindOf(err)]
}

// Message returns the one-line text shown to the user for err. Errors that
// carry no kind are reported as unexpected.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Unexpected {
		return e.Error()
	}
	return "Unexpected error: " + err.Error()
}
