// Package vserr defines the closed error taxonomy shared by every component in the
// shader build pipeline. Components never swallow errors — they propagate a *Error
// unchanged up the call stack; only the driver and cmd/vshaderc render them to
// diagnostics and exit codes.
package vserr

import "fmt"

// Code identifies the category of a pipeline failure.
type Code int

const (
	// IO covers filesystem failures: missing files, unwritable directories, rename
	// failures during an atomic write.
	IO Code = iota
	// InvalidArgument covers caller misuse: bad flags, duplicate library entries from
	// packlib, malformed CLI invocations.
	InvalidArgument
	// ParseError covers pragma, .vkw, and only_if grammar failures.
	ParseError
	// CompileError covers failures reported by the external GLSL/SPIR-V frontend.
	CompileError
	// ReflectError covers failures reported by the external SPIR-V reflector.
	ReflectError
	// SerializeError covers failures while writing .vshbin/.vshlib.
	SerializeError
	// DeserializeError covers failures while reading .vshbin/.vshlib, including
	// integrity check mismatches.
	DeserializeError
)

// String returns the taxonomy name used in rendered diagnostics.
func (c Code) String() string {
	switch c {
	case IO:
		return "IO"
	case InvalidArgument:
		return "InvalidArgument"
	case ParseError:
		return "ParseError"
	case CompileError:
		return "CompileError"
	case ReflectError:
		return "ReflectError"
	case SerializeError:
		return "SerializeError"
	case DeserializeError:
		return "DeserializeError"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by every fallible operation in this module.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error with no wrapped cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error that wraps an existing error, preserving it for errors.As.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// AtLine prefixes the message with a 1-based source line number, matching spec's
// requirement that metadata and .vkw parse errors include line context.
func AtLine(code Code, path string, line int, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if path != "" {
		return &Error{Code: code, Message: fmt.Sprintf("%s:%d: %s", path, line, msg)}
	}
	return &Error{Code: code, Message: fmt.Sprintf("line %d: %s", line, msg)}
}
