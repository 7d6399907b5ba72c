package expr

import "fmt"

// ErrorCode categorizes expression failures.
type ErrorCode string

const (
	// ErrCodeEmptyExpression indicates the expression was empty or whitespace.
	ErrCodeEmptyExpression ErrorCode = "EMPTY_EXPRESSION"

	// ErrCodeUnexpectedCharacter indicates a character outside the grammar.
	ErrCodeUnexpectedCharacter ErrorCode = "UNEXPECTED_CHARACTER"

	// ErrCodeInvalidNumber indicates a malformed numeric literal (e.g. "1.2.3").
	ErrCodeInvalidNumber ErrorCode = "INVALID_NUMBER"

	// ErrCodeUnknownVariable indicates a variable not present in the source.
	ErrCodeUnknownVariable ErrorCode = "UNKNOWN_VARIABLE"

	// ErrCodeDivisionByZero indicates a division whose divisor evaluated to zero.
	ErrCodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeMissingClosingParen indicates an unbalanced '('.
	ErrCodeMissingClosingParen ErrorCode = "MISSING_CLOSING_PAREN"

	// ErrCodeUnexpectedToken indicates trailing tokens after a complete
	// expression, or a token where a factor was required.
	ErrCodeUnexpectedToken ErrorCode = "UNEXPECTED_TOKEN"

	// ErrCodeNonFiniteResult indicates the result was NaN or infinite.
	ErrCodeNonFiniteResult ErrorCode = "NON_FINITE_RESULT"
)

// EvalError is the single error type produced by tokenizing, parsing, and
// evaluating expressions. Position is a rune offset into the expression,
// -1 when no position applies (empty expression, non-finite result).
type EvalError struct {
	Code     ErrorCode
	Message  string
	Position int

	// Variable holds the offending name for ErrCodeUnknownVariable.
	Variable string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s: %s (at offset %d)", e.Code, e.Message, e.Position)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errAt(code ErrorCode, pos int, format string, args ...any) *EvalError {
	return &EvalError{Code: code, Message: fmt.Sprintf(format, args...), Position: pos}
}
