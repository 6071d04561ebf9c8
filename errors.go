package typeid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat matches every *FormatError
	ErrInvalidFormat = errors.New("typeid: invalid format")

	// ErrInvalidPrefix indicates the prefix violates the prefix grammar
	ErrInvalidPrefix = errors.New("typeid: invalid prefix")

	// ErrInvalidSuffix indicates the suffix is not a valid base32 encoded UUID
	ErrInvalidSuffix = errors.New("typeid: invalid suffix")

	// ErrInvalidSeparator indicates a misplaced or dangling '_' separator
	ErrInvalidSeparator = errors.New("typeid: invalid separator")

	// ErrInvalidUUID indicates the UUID text could not be parsed
	ErrInvalidUUID = errors.New("typeid: invalid UUID")

	// ErrPrefixMismatch indicates a typed ID received a TypeID with another prefix
	ErrPrefixMismatch = errors.New("typeid: prefix mismatch")
)

// ErrorCode identifies the rule an input violated.
type ErrorCode string

const (
	// CodePrefixTooLong indicates a prefix longer than MaxPrefixLen.
	CodePrefixTooLong ErrorCode = "prefix-too-long"
	// CodePrefixCharacter indicates a prefix byte outside [a-z_].
	CodePrefixCharacter ErrorCode = "prefix-invalid-character"
	// CodePrefixEdgeUnderscore indicates a prefix starting or ending with '_'.
	CodePrefixEdgeUnderscore ErrorCode = "prefix-edge-underscore"
	// CodePrefixDoubleUnderscore indicates "__" inside a prefix.
	CodePrefixDoubleUnderscore ErrorCode = "prefix-double-underscore"

	// CodeSuffixLength indicates a suffix that is not SuffixLen characters long.
	CodeSuffixLength ErrorCode = "suffix-length"
	// CodeSuffixCharacter indicates a suffix character outside the alphabet.
	CodeSuffixCharacter ErrorCode = "suffix-invalid-character"
	// CodeSuffixOverflow indicates a suffix whose first character exceeds '7'.
	CodeSuffixOverflow ErrorCode = "suffix-overflow"

	// CodeEmptyPrefix indicates a separator with nothing in front of it.
	CodeEmptyPrefix ErrorCode = "separator-without-prefix"

	// CodeUUID indicates an unparsable UUID string.
	CodeUUID ErrorCode = "uuid-invalid"

	// CodePrefixMismatch indicates a prefix other than the one a typed ID requires.
	CodePrefixMismatch ErrorCode = "prefix-mismatch"
)

// FormatError reports why an input was rejected. It never describes an
// internal fault: the input string or value itself is malformed.
type FormatError struct {
	Code   ErrorCode
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("typeid: %s: %q", e.Reason, e.Input)
}

// Unwrap returns the sentinel for the error's kind.
func (e *FormatError) Unwrap() error {
	switch e.Code {
	case CodePrefixTooLong, CodePrefixCharacter, CodePrefixEdgeUnderscore, CodePrefixDoubleUnderscore:
		return ErrInvalidPrefix
	case CodeSuffixLength, CodeSuffixCharacter, CodeSuffixOverflow:
		return ErrInvalidSuffix
	case CodeEmptyPrefix:
		return ErrInvalidSeparator
	case CodeUUID:
		return ErrInvalidUUID
	case CodePrefixMismatch:
		return ErrPrefixMismatch
	default:
		return nil
	}
}

// Is reports whether target is ErrInvalidFormat or a *FormatError with the
// same code.
func (e *FormatError) Is(target error) bool {
	if target == ErrInvalidFormat {
		return true
	}
	var fe *FormatError
	if errors.As(target, &fe) {
		return fe.Code == e.Code
	}
	return false
}

func formatError(code ErrorCode, input, reason string) *FormatError {
	return &FormatError{Code: code, Input: input, Reason: reason}
}
