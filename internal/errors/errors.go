package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Error is the structured error every package in the sheet returns. Meta
// carries machine readable detail such as ids, levels and the domain reason.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMeta sets one metadata entry and returns the error for chaining
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[key] = value
	return e
}

// New creates an error with code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. The code and metadata of a wrapped *Error carry
// over; any other cause becomes CodeInternal. Wrap(nil) is nil.
func Wrap(err error, message string) *Error {
	return wrap(err, "", message)
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	return wrap(err, "", fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err under a new code, keeping its metadata
func WrapWithCode(err error, code Code, message string) *Error {
	return wrap(err, code, message)
}

func wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	out := &Error{Code: CodeInternal, Message: message, Cause: err}
	var inner *Error
	if errors.As(err, &inner) {
		out.Code = inner.Code
		out.Meta = maps.Clone(inner.Meta)
	}
	if code != "" {
		out.Code = code
	}
	return out
}

// NotFound creates a not found error
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// NotFoundf creates a not found error with a formatted message
func NotFoundf(format string, args ...any) *Error { return newf(CodeNotFound, format, args...) }

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

// InvalidArgumentf creates an invalid argument error with a formatted message
func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args...)
}

// Internalf creates an internal error with a formatted message
func Internalf(format string, args ...any) *Error { return newf(CodeInternal, format, args...) }

// FailedPrecondition creates a failed precondition error
func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }

// FailedPreconditionf creates a failed precondition error with a formatted message
func FailedPreconditionf(format string, args ...any) *Error {
	return newf(CodeFailedPrecondition, format, args...)
}

// OutOfRangef reports a level or score outside its allowed range
func OutOfRangef(format string, args ...any) *Error { return newf(CodeOutOfRange, format, args...) }

// Canceled reports an operation the user stopped
func Canceled(message string) *Error { return New(CodeCanceled, message) }
