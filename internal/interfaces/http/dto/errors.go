package dto

import (
	"net/http"
	"strings"
)

// Error codes originated by the HTTP layer itself. Domain errors carry
// their own codes (shared.DomainError); both vocabularies share the
// status table below.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInvalidJSON = "INVALID_JSON"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Validation
// failures are 400, auth failures 401/403, conflicts 409, and business
// rule violations 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Authentication and authorization
	"UNAUTHORIZED":            http.StatusUnauthorized,
	"INVALID_CREDENTIALS":     http.StatusUnauthorized,
	"TOKEN_EXPIRED":           http.StatusUnauthorized,
	"TOKEN_INVALID":           http.StatusUnauthorized,
	"TOKEN_REVOKED":           http.StatusUnauthorized,
	"FORBIDDEN":               http.StatusForbidden,
	"ACCOUNT_DEACTIVATED":     http.StatusForbidden,
	"GUEST_CHECKOUT_DISABLED": http.StatusForbidden,

	// Resources
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"USERNAME_TAKEN": http.StatusConflict,
	"CART_CONFLICT":  http.StatusConflict,

	// Business rules
	"EMPTY_CART":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":  http.StatusUnprocessableEntity,
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE": http.StatusUnprocessableEntity,

	// Degraded mode: redis-backed guest carts are offline
	"GUEST_CART_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code. Unmapped
// INVALID_* codes are client input problems; anything else unknown is a
// server fault.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
