package codec

import (
	"fmt"

	errs "github.com/skyf0l/basecracker/pkg/errors"
)

// Kind classifies a decode failure.
type Kind int

const (
	// AlphabetViolation means a symbol is neither in the alphabet nor part of
	// a legal trailing complement run.
	AlphabetViolation Kind = iota + 1
	// ArithmeticFailure means every symbol is valid but the payload does not
	// describe a whole number of bytes (bad length, bad padding, overflow).
	ArithmeticFailure
)

func (k Kind) String() string {
	switch k {
	case AlphabetViolation:
		return "alphabet violation"
	case ArithmeticFailure:
		return "arithmetic failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Code returns the error code reported for this kind.
func (k Kind) Code() errs.Code {
	if k == AlphabetViolation {
		return errs.ErrCodeDecodeAlphabet
	}
	return errs.ErrCodeDecodeArithmetic
}

// DecodeError describes why a codec refused its input.
// Pos is -1 when the failure is not tied to one symbol.
type DecodeError struct {
	Kind   Kind
	Pos    int
	Symbol byte
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Kind == AlphabetViolation {
		return fmt.Sprintf("invalid symbol %q at position %d", e.Symbol, e.Pos)
	}
	return e.Msg
}

func alphabetError(pos int, sym byte) error {
	de := &DecodeError{Kind: AlphabetViolation, Pos: pos, Symbol: sym}
	return errs.Wrap(de.Kind.Code(), de, "symbol outside alphabet")
}

func arithmeticError(format string, args ...any) error {
	de := &DecodeError{Kind: ArithmeticFailure, Pos: -1, Msg: fmt.Sprintf(format, args...)}
	return errs.Wrap(de.Kind.Code(), de, "malformed payload")
}
