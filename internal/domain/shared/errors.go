package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so errors.Is(err, ErrNotFound) holds for
// any NOT_FOUND error regardless of its message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeConflict        = "CONFLICT"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeQuotaExceeded   = "QUOTA_EXCEEDED"
)

// Common domain errors
var (
	ErrConflict        = NewDomainError(CodeConflict, "Resource already exists")
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidArgument = NewDomainError(CodeInvalidArgument, "Invalid argument provided")
	ErrQuotaExceeded   = NewDomainError(CodeQuotaExceeded, "Quota exceeded")
)

// NewConflictError creates a CONFLICT error with a formatted message
func NewConflictError(format string, args ...any) *DomainError {
	return NewDomainError(CodeConflict, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a NOT_FOUND error with a formatted message
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...))
}

// NewInvalidArgumentError creates an INVALID_ARGUMENT error with a formatted message
func NewInvalidArgumentError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

// NewQuotaExceededError creates a QUOTA_EXCEEDED error with a formatted message
func NewQuotaExceededError(format string, args ...any) *DomainError {
	return NewDomainError(CodeQuotaExceeded, fmt.Sprintf(format, args...))
}

// IsDomainError reports whether err carries a DomainError
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
