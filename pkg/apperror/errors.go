package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared between the service layer and HTTP clients.
const (
	CodeInvalidAmount          = "AMT_001"
	CodeValidation             = "VAL_001"
	CodeNotFound               = "RES_001"
	CodeInvalidState           = "REQ_001"
	CodeAmountExceedsRemaining = "REQ_002"
	CodeInsufficientBalance    = "ACC_001"
	CodeInvalidCredentials     = "AUTH_001"
	CodeUsernameExists         = "AUTH_002"
	CodeInvalidToken           = "AUTH_003"
	CodeForbidden              = "AUTH_004"
	CodeRateLimitExceeded      = "RATE_001"
	CodeDuplicateRequest       = "IDEM_001"
	CodeInternal               = "SYS_001"
	CodeDependencyUnavailable  = "SYS_002"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err (or anything it wraps) is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ---- Amounts & Validation ----

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Amount must be a positive value with at most two decimal places", http.StatusBadRequest)
}

// Validation returns a VAL_001 error with a caller-supplied message.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrInvalidPriority() *AppError {
	return Validation("Priority level must be at least 1")
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Donation Requests (REQ) ----

func ErrInvalidState(message string) *AppError {
	return New(CodeInvalidState, message, http.StatusConflict)
}

func ErrAmountExceedsRemaining() *AppError {
	return New(CodeAmountExceedsRemaining, "Amount exceeds the remaining amount of the request", http.StatusUnprocessableEntity)
}

// ---- Donor Accounts (ACC) ----

func ErrInsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "Insufficient balance", http.StatusPaymentRequired)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New(CodeUsernameExists, "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New(CodeForbidden, "Your role is not allowed to perform this action", http.StatusForbidden)
}

// ---- Rate Limiting & Idempotency ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

func ErrDuplicateRequest() *AppError {
	return New(CodeDuplicateRequest, "A request with this idempotency key is already in progress", http.StatusConflict)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

func ErrDependencyUnavailable(name string, err error) *AppError {
	return Wrap(CodeDependencyUnavailable, fmt.Sprintf("%s unavailable", name), http.StatusServiceUnavailable, err)
}
