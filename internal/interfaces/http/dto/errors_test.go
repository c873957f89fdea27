package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"TOKEN_REVOKED", http.StatusUnauthorized},
		{"GUEST_CHECKOUT_DISABLED", http.StatusForbidden},
		{"ACCOUNT_DEACTIVATED", http.StatusForbidden},
		{"USERNAME_TAKEN", http.StatusConflict},
		{"CART_CONFLICT", http.StatusConflict},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"EMPTY_CART", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"PRODUCT_UNAVAILABLE", http.StatusUnprocessableEntity},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		// Unmapped INVALID_* codes are client errors.
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_SLUG", http.StatusBadRequest},
		// Unknown codes are server faults.
		{"SOMETHING_ELSE", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetHTTPStatus(tt.code), "code %q", tt.code)
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	r := NewSuccessResponseWithMeta([]string{"a"}, 45, 2, 20)
	assert.True(t, r.Success)
	assert.Equal(t, int64(45), r.Meta.Total)
	assert.Equal(t, 3, r.Meta.TotalPages)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	r := NewErrorResponseWithRequestID("NOT_FOUND", "Order not found", "req-1")
	assert.False(t, r.Success)
	assert.Equal(t, "NOT_FOUND", r.Error.Code)
	assert.Equal(t, "req-1", r.Error.RequestID)
}
