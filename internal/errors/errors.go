// Package errors provides categorized errors mapping the failure taxonomy
// of the volunteer hub service to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/volunteer-hub/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryValidation represents input validation errors; no state changed
	CategoryValidation ErrorCategory = "validation"
	// CategoryAuthorization represents missing or invalid sessions
	CategoryAuthorization ErrorCategory = "authorization"
	// CategoryNotFound represents missing rows
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryBackend represents hosted backend failures (network, permission, constraint)
	CategoryBackend ErrorCategory = "backend"
	// CategorySystem represents internal errors
	CategorySystem ErrorCategory = "system"
	// CategoryRateLimit represents rate limiting errors
	CategoryRateLimit ErrorCategory = "rate_limit"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to a ServiceError
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// NewValidationError creates a validation error; the operation is aborted
// with no partial state change.
func NewValidationError(field, reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       types.CodeValidation,
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		Details: map[string]interface{}{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewUnauthenticatedError creates the error raised when a per-user
// operation carries no session. Callers are expected to prompt sign-in.
func NewUnauthenticatedError() *CategorizedError {
	return &CategorizedError{
		Category:   CategoryAuthorization,
		StatusCode: http.StatusUnauthorized,
		Code:       types.CodeUnauthenticated,
		Message:    "sign in to perform this operation",
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string, id string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       types.CodeNotFound,
		Message:    fmt.Sprintf("%s not found: %s", resource, id),
		Details: map[string]interface{}{
			"resource": resource,
			"id":       id,
		},
	}
}

// NewBackendError wraps a hosted backend failure. Surfaced to the user as
// a transient error for mutations; opportunity reads fall back to the
// bundled snapshot instead of surfacing it.
func NewBackendError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryBackend,
		StatusCode: http.StatusBadGateway,
		Code:       types.CodeBackend,
		Message:    fmt.Sprintf("backend error during %s", operation),
		Cause:      cause,
		Details: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Cause:      cause,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(retryAfter int) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryRateLimit,
		StatusCode: http.StatusTooManyRequests,
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "rate limit exceeded",
		Details: map[string]interface{}{
			"retryAfter": retryAfter,
		},
	}
}

// AsCategorized extracts a CategorizedError from an error chain.
func AsCategorized(err error) (*CategorizedError, bool) {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HTTPStatus returns the status code for an error, mapping bare
// ServiceErrors by code and defaulting to 500.
func HTTPStatus(err error) int {
	if ce, ok := AsCategorized(err); ok {
		return ce.StatusCode
	}
	var se *types.ServiceError
	if errors.As(err, &se) {
		switch se.Code {
		case types.CodeUnauthenticated:
			return http.StatusUnauthorized
		case types.CodeValidation:
			return http.StatusBadRequest
		case types.CodeNotFound:
			return http.StatusNotFound
		case types.CodeBackend:
			return http.StatusBadGateway
		case types.CodeUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}
