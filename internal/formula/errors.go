package formula

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedSyntax is returned when a formula contains characters
	// outside the permitted set. Such a formula is never evaluated.
	ErrUnsupportedSyntax = errors.New("formula contains unsupported characters")

	// ErrEvaluation is returned when a formula passes the character gate but
	// cannot be evaluated: a syntax error, an unknown identifier, a bad helper
	// call, or a non-finite result.
	ErrEvaluation = errors.New("formula evaluation failed")
)

// SyntaxError describes a grammar violation at a byte offset of the formula.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Unwrap makes syntax errors match ErrEvaluation.
func (e *SyntaxError) Unwrap() error {
	return ErrEvaluation
}

func evalErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrEvaluation, fmt.Sprintf(format, args...))
}
