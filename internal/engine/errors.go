package engine

import "fmt"

// AppErrorCode is a small gRPC-style error taxonomy for failures at the
// engine's boundary (as opposed to in-grid Faulty cells, which are not
// errors at all).
type AppErrorCode int

const (
	// Unknown covers errors that don't fit a more specific code.
	Unknown AppErrorCode = iota
	// InvalidArgument indicates a caller supplied a malformed input,
	// such as a ragged grid (rows of differing width).
	InvalidArgument
	// NotFound indicates a lookup against a coordinate with no cell.
	NotFound
	// FailedPrecondition indicates an operation was attempted while the
	// engine was not in the state it requires (e.g. evaluating before
	// quarantine has run).
	FailedPrecondition
	// Internal indicates a broken invariant inside the engine itself.
	Internal
)

// AppError is the engine's boundary error type.
type AppError struct {
	Code    AppErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// newAppError builds an AppError with a formatted message.
func newAppError(code AppErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}
