package apperror

import (
	"fmt"
	"net/http"
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

// ---- Account (ACC) ----

func ErrInvalidAccountNumber() *AppError {
	return New("ACC_001", "Invalid account number format", http.StatusBadRequest)
}

func ErrAccountNotFound() *AppError {
	return New("ACC_002", "Account not found", http.StatusNotFound)
}

// ---- Transaction Business Logic (TXN) ----

func ErrInvalidAmount() *AppError {
	return New("TXN_001", "Invalid amount", http.StatusBadRequest)
}

// ErrSameAccountTransfer is the TXN_001 variant raised when a transfer
// names the same account on both sides.
func ErrSameAccountTransfer() *AppError {
	return New("TXN_001", "Source and destination cannot be the same", http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("TXN_002", "Insufficient balance", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a TXN_001-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("TXN_001", message, http.StatusBadRequest)
}
