package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain services emit
// their own codes (NOT_FOUND, FORBIDDEN, ...) which pass through as-is.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller's role is not permitted
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Auth errors
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"SSO_DISABLED":        http.StatusServiceUnavailable,
	"FORBIDDEN":           http.StatusForbidden,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	"INVALID_INPUT": http.StatusBadRequest,
	"WEAK_PASSWORD": http.StatusBadRequest,

	// Upstream failures (support desk, storage)
	"EXTERNAL_SERVICE": http.StatusBadGateway,

	// Rate limiting
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Body limit
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// INVALID_* validation codes fall back to 400, everything unknown to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
