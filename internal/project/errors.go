package project

import "fmt"

// ErrorCode categorizes model mutation failures.
type ErrorCode string

const (
	// ErrCodeDuplicateName indicates a variable name already in use.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// ErrCodeInvalidName indicates a name failing the identifier pattern or
	// colliding with a reserved word.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"

	// ErrCodeNotFound indicates a missing variable, trajectory, waypoint, or
	// constraint.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeLinkedReadOnly indicates an attempted mutation of a variable
	// sourced from another project.
	ErrCodeLinkedReadOnly ErrorCode = "LINKED_READ_ONLY"

	// ErrCodeLockedWaypoint indicates a direct edit of a chained first
	// waypoint's position or heading. Those fields change only through
	// chain synchronization while the follows edge exists.
	ErrCodeLockedWaypoint ErrorCode = "LOCKED_WAYPOINT"

	// ErrCodeInvalidField indicates a field name outside the bindable set.
	ErrCodeInvalidField ErrorCode = "INVALID_FIELD"
)

// Error is the typed error for model mutations. Every rejection leaves the
// model unchanged; there is no fatal error class in this core.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func modelErr(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a model *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
