// Package errors provides the coded errors shared by every dxfsvg package.
//
// An error that leaves a package carries a [Code]. The CLI maps codes to exit
// statuses and the HTTP service maps them to response statuses, so neither
// has to match on message text.
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", name)
//	err = errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s", path)
//	errors.GetCode(err) // INVALID_DOCUMENT
//
// [LimitError] reports oversized input and carries [ErrCodeTooLarge].
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

// Malformed or rejected input.
const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidCodepage Code = "INVALID_CODEPAGE"
	ErrCodeTooLarge        Code = "TOO_LARGE"
)

// Missing files and resources.
const (
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
)

// Failures while rendering or converting.
const (
	ErrCodeBlockRecursion Code = "BLOCK_RECURSION"
	ErrCodeConversion     Code = "CONVERSION_FAILED"
	ErrCodeTimeout        Code = "TIMEOUT"
	ErrCodeUnsupported    Code = "UNSUPPORTED"
	ErrCodeInternal       Code = "INTERNAL_ERROR"
)

// coded is implemented by the error types of this package.
type coded interface {
	error
	ErrorCode() Code
}

// Error pairs a code with a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorCode returns e.Code.
func (e *Error) ErrorCode() Code { return e.Code }

// GetCode returns the code of the outermost coded error in err's chain, or
// the empty code when there is none.
func GetCode(err error) Code {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage returns the message of the outermost *Error without its code
// prefix, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// LimitError reports input larger than a configured limit.
type LimitError struct {
	Limit int64 // bytes; zero when unknown
	What  string
}

func (e *LimitError) Error() string {
	what := e.What
	if what == "" {
		what = "input"
	}
	if e.Limit <= 0 {
		return what + " too large"
	}
	return fmt.Sprintf("%s too large: limit is %d bytes", what, e.Limit)
}

// ErrorCode returns [ErrCodeTooLarge].
func (e *LimitError) ErrorCode() Code { return ErrCodeTooLarge }
