package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Standard error codes
const (
	CodeValidationError        = "VALIDATION_ERROR"
	CodeNotFound               = "RESOURCE_NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeNoTemplatesAvailable   = "NO_TEMPLATES_AVAILABLE"
	CodeInternalError          = "INTERNAL_ERROR"
	CodeBadRequest             = "BAD_REQUEST"
	CodeServiceUnavailable     = "SERVICE_UNAVAILABLE"
	CodeTimeout                = "TIMEOUT"
	CodeUnsupportedMediaType   = "UNSUPPORTED_MEDIA_TYPE"
	CodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails replaces the error details
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap records the underlying cause
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates a new AppError
func NewAppError(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

// ErrValidationWithFields creates a validation error with field details
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	return ErrValidation(message).WithDetails(fields)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ErrNotFoundWithID creates a not found error with ID
func ErrNotFoundWithID(resource, id string) *AppError {
	return ErrNotFound(resource).WithDetail("id", id)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return NewAppError(CodeConflict, message, http.StatusConflict)
}

// ErrInvalidStateTransition reports a workflow action whose preconditions are not met
func ErrInvalidStateTransition(message string) *AppError {
	return NewAppError(CodeInvalidStateTransition, message, http.StatusConflict)
}

// ErrInternal creates an internal error
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalError, message, http.StatusInternalServerError)
}

// ErrBadRequest creates a bad request error
func ErrBadRequest(message string) *AppError {
	return NewAppError(CodeBadRequest, message, http.StatusBadRequest)
}

// ErrServiceUnavailable creates a service unavailable error
func ErrServiceUnavailable(service string) *AppError {
	return NewAppError(CodeServiceUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

// ErrTimeout creates a timeout error
func ErrTimeout(operation string) *AppError {
	return NewAppError(CodeTimeout, fmt.Sprintf("%s timed out", operation), http.StatusGatewayTimeout)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Mapping builds the AppError returned for an error matching a registered sentinel
type Mapping func(err error) *AppError

type sentinel struct {
	target  error
	mapping Mapping
}

var (
	sentinelsMu sync.RWMutex
	sentinels   = []sentinel{
		{context.DeadlineExceeded, func(err error) *AppError { return ErrTimeout("operation") }},
		{context.Canceled, func(err error) *AppError { return ErrServiceUnavailable("request") }},
	}
)

// RegisterSentinel makes MapDomainError translate errors matching target with errors.Is.
// Later registrations are checked first.
func RegisterSentinel(target error, mapping Mapping) {
	sentinelsMu.Lock()
	defer sentinelsMu.Unlock()
	sentinels = append([]sentinel{{target, mapping}}, sentinels...)
}

// MapDomainError returns the AppError in err's chain, the mapping of the first registered
// sentinel err matches, or an internal error. The cause is always kept.
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	sentinelsMu.RLock()
	defer sentinelsMu.RUnlock()
	for _, s := range sentinels {
		if errors.Is(err, s.target) {
			return s.mapping(err).Wrap(err)
		}
	}
	return ErrInternal("").Wrap(err)
}
