package clierr

import (
	"errors"
	"fmt"
	"strings"
)

// Type categorizes a launcher error so the top-level handler can decide how to report it
// and with which exit code.
type Type string

const (
	Configuration Type = "configuration"
	Validation    Type = "validation"
	Launch        Type = "launch"
	OutOfMemory   Type = "out_of_memory"
	Internal      Type = "internal"
)

// Error is a structured user-facing error.
type Error struct {
	Type    Type
	Message string
	Err     error // optional underlying error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a new launcher Error.
func New(t Type, msg string, err error) *Error { return &Error{Type: t, Message: msg, Err: err} }

// Newf constructs a launcher Error with a formatted message and no underlying error.
func Newf(t Type, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// TypeOf reports the Type of the first *Error in err's chain, or Internal when there is none.
func TypeOf(err error) Type {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return Internal
}

// Is reports whether err carries a launcher error of type t.
func Is(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}

// Fatal reports whether an error of this type must terminate the process.
func (t Type) Fatal() bool {
	return t == OutOfMemory || t == Internal
}

// ExitCode maps an error type to the process exit status used by the CLI.
func (t Type) ExitCode() int {
	switch t {
	case Validation:
		return 2
	case Configuration:
		return 3
	default:
		return 1
	}
}

// FromPanic converts a recovered panic value into an Error. Allocation failures the
// runtime reports as panics become OutOfMemory; everything else is Internal.
func FromPanic(r any) *Error {
	var err error
	switch v := r.(type) {
	case error:
		err = v
	default:
		err = fmt.Errorf("%v", v)
	}
	if strings.Contains(err.Error(), "out of memory") || strings.Contains(err.Error(), "cannot allocate memory") {
		return New(OutOfMemory, "out of memory: "+err.Error(), err)
	}
	return New(Internal, err.Error(), err)
}
