// Package errors carries the coded errors shared by the codecs, the pipeline,
// the cracker and both front ends.
//
// Every failure that reaches a user has a [Code]. The HTTP API returns it as
// the "code" field and the CLI prints [UserMessage] without it. Codec refusals
// always use one of the two DECODE_* codes, which [IsDecodeFailure] tests
// for; the cracker treats either as a pruned branch.
//
//	err := errors.Wrap(errors.ErrCodeDecodeAlphabet, cause, "decode %s", name)
//	errors.Is(fmt.Errorf("step 2: %w", err), errors.ErrCodeDecodeAlphabet) // true
package errors

import (
	"errors"
	"fmt"
)

// Code is the stable machine-readable part of an error.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeEmptyInput    Code = "EMPTY_INPUT"

	// Scheme lookup and registration.
	ErrCodeUnknownScheme   Code = "UNKNOWN_SCHEME"
	ErrCodeDuplicateScheme Code = "DUPLICATE_SCHEME"
	ErrCodeInvalidScheme   Code = "INVALID_SCHEME"

	// A codec refused its input: a symbol outside the alphabet, or a length
	// or value the radix arithmetic cannot accept.
	ErrCodeDecodeAlphabet   Code = "DECODE_ALPHABET"
	ErrCodeDecodeArithmetic Code = "DECODE_ARITHMETIC"

	ErrCodeSearchTruncated Code = "SEARCH_TRUNCATED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message" followed by ": cause" when there is one.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is Error without the code prefix. Plain errors pass through.
func UserMessage(err error) string {
	e, ok := find(err)
	if !ok {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// IsDecodeFailure reports whether err is a codec refusal of either kind.
func IsDecodeFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeDecodeAlphabet, ErrCodeDecodeArithmetic:
		return true
	}
	return false
}
