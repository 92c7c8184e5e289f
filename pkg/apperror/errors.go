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

// ---- Marketplace Business Logic (MKT) ----

func ErrInsufficientFunds() *AppError {
	return New("MKT_001", "Payment required: wallet balance is insufficient", http.StatusPaymentRequired)
}

func ErrSelfPurchase() *AppError {
	return New("MKT_002", "Purchasing your own app is not allowed", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("MKT_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// Validation returns a 400 error for malformed input.
func Validation(message string) *AppError {
	return New("MKT_004", message, http.StatusBadRequest)
}

func ErrWalletExists() *AppError {
	return New("MKT_005", "Wallet already seeded for this user", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an infrastructure fault. The wrapped cause stays
// attached for logging while the client sees a generic message.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrLockTimeout signals a bounded lock wait expired. Transient: the caller
// may retry since no partial state was persisted.
func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Wallet lock acquisition timed out, retry later", http.StatusServiceUnavailable, err)
}
