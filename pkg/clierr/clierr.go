package clierr

import (
	"errors"
	"fmt"
)

// Error is an error carrying an explicit process exit code.
// It supports wrapping so errors.Is/As work as expected.
type Error struct {
	code  int
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the exit code.
func (e *Error) Code() int { return e.code }

// New creates an Error with a message.
func New(code int, msg string) error {
	return &Error{code: normalize(code), msg: msg}
}

// Newf is the formatted variant of New.
func Newf(code int, format string, args ...interface{}) error {
	return &Error{code: normalize(code), msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an underlying cause.
func Wrap(code int, cause error, msg string) error {
	if cause == nil {
		return New(code, msg)
	}
	return &Error{code: normalize(code), msg: msg, cause: cause}
}

// ExitCode extracts an exit code from any error, defaulting to 1
// for errors which do not carry one. A nil error maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return 1
}

func normalize(code int) int {
	// exit code 0 means success, errors must never map to it
	if code <= 0 {
		return 1
	}
	return code
}
