package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrUnauthenticated indicates the caller identity is missing or invalid
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the access policy denies the operation
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAttachmentNotFound indicates the attachment was not found
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrProductImageNotFound indicates the product image was not found
	ErrProductImageNotFound = errors.New("product image not found")

	// ErrOrderNotFound indicates the order was not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrFileTooLarge indicates an upload above the size ceiling
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrInvalidSignature indicates a webhook payload failed hash verification
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrUpstream indicates the object store or database call failed
	ErrUpstream = errors.New("upstream failure")
)

// Error codes for API responses
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidSignature = "INVALID_SIGNATURE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Unauthenticated returns an AppError for a missing or invalid caller identity
func Unauthenticated(message string) *AppError {
	return NewAppError(ErrUnauthenticated, message, CodeUnauthorized)
}

// Forbidden returns an AppError for a policy denial
func Forbidden(message string) *AppError {
	return NewAppError(ErrForbidden, message, CodeForbidden)
}

// NotFound wraps one of the not-found sentinels
func NotFound(err error) *AppError {
	return NewAppError(err, "", CodeNotFound)
}

// InvalidInput returns an AppError for malformed, missing or oversized input
func InvalidInput(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, CodeInvalidInput)
}

// Upstream wraps an object store or database failure. The cause is kept for
// server-side logging and never shown to the caller.
func Upstream(op string, cause error) *AppError {
	return NewAppError(fmt.Errorf("%s: %w: %w", op, ErrUpstream, cause), "", CodeInternalError)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAttachmentNotFound) ||
		errors.Is(err, ErrProductImageNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrFileTooLarge)
}

// IsUpstream checks if the error came from a failed store call
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case IsNotFound(err):
		return CodeNotFound
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case IsInvalidInput(err):
		return CodeInvalidInput
	default:
		return CodeInternalError
	}
}
