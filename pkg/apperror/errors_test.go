package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("ACC_001", "Insufficient balance", http.StatusPaymentRequired),
			expected: "[ACC_001] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("REQ_001", "test", http.StatusConflict).Unwrap())
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("applying payment: %w", ErrInsufficientBalance())

	assert.True(t, HasCode(wrapped, CodeInsufficientBalance))
	assert.False(t, HasCode(wrapped, CodeAmountExceedsRemaining))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(), "AMT_001", 400},
		{"InvalidPriority", ErrInvalidPriority(), "VAL_001", 400},
		{"NotFound", ErrNotFound("Donation request"), "RES_001", 404},
		{"InvalidState", ErrInvalidState("request is not pending"), "REQ_001", 409},
		{"AmountExceedsRemaining", ErrAmountExceedsRemaining(), "REQ_002", 422},
		{"InsufficientBalance", ErrInsufficientBalance(), "ACC_001", 402},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"UsernameExists", ErrUsernameExists(), "AUTH_002", 409},
		{"InvalidToken", ErrInvalidToken(), "AUTH_003", 401},
		{"Forbidden", ErrForbidden(), "AUTH_004", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("redis: connection refused")

	internal := InternalError(inner)
	assert.Equal(t, "SYS_001", internal.Code)
	assert.Equal(t, 500, internal.HTTPStatus)
	assert.True(t, errors.Is(internal, inner))

	dep := ErrDependencyUnavailable("redis", inner)
	assert.Equal(t, "SYS_002", dep.Code)
	assert.Equal(t, 503, dep.HTTPStatus)
	assert.Contains(t, dep.Message, "redis")
}

func TestRateLimitAndIdempotencyErrors(t *testing.T) {
	assert.Equal(t, 429, ErrRateLimitExceeded().HTTPStatus)
	assert.Equal(t, "IDEM_001", ErrDuplicateRequest().Code)
	assert.Equal(t, 409, ErrDuplicateRequest().HTTPStatus)
}
