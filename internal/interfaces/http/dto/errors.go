package dto

import (
	"net/http"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
)

// Transport error codes. Domain codes are reused as-is.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	ErrCodeRequestInProgress  = "REQUEST_IN_PROGRESS"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	ErrCodeConflict        = shared.CodeConflict
	ErrCodeNotFound        = shared.CodeNotFound
	ErrCodeInvalidArgument = shared.CodeInvalidArgument
	ErrCodeQuotaExceeded   = shared.CodeQuotaExceeded
)

// InternalErrorMessage is the only message a client sees for storage failures and panics
const InternalErrorMessage = "An unexpected error occurred"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidArgument:    http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeRequestInProgress:  http.StatusConflict,
	ErrCodeRequestTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeQuotaExceeded:      http.StatusUnprocessableEntity,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
