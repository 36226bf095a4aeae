// Package errors provides custom error types for the Grip Invest API.
// All service-layer errors should use AppError so that handlers can map
// failures to a fixed HTTP status and a stable client-facing message
// without ever leaking internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. The login message is identical whether the email
// is unknown or the password is wrong, to avoid user enumeration.
var (
	ErrMissingToken       = &AppError{Code: "MISSING_TOKEN", Message: "Missing token", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal Server Error", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound  = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrEmailTaken    = &AppError{Code: "EMAIL_TAKEN", Message: "Email already registered", StatusCode: http.StatusConflict}
	ErrWrongPassword = &AppError{Code: "WRONG_PASSWORD", Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
)

// Two-factor errors.
var (
	ErrTwoFactorNotSetup = &AppError{Code: "2FA_NOT_SETUP", Message: "2FA not setup", StatusCode: http.StatusBadRequest}
	ErrTwoFactorCode     = &AppError{Code: "2FA_INVALID_CODE", Message: "Invalid token", StatusCode: http.StatusBadRequest}
)

// Product errors.
var (
	ErrProductNotFound = &AppError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found", StatusCode: http.StatusNotFound}
)

// Investment errors. The invest pre-check reports one combined message, as
// the caller cannot distinguish which reference was stale.
var (
	ErrUserOrProductNotFound = &AppError{Code: "USER_OR_PRODUCT_NOT_FOUND", Message: "User or product not found", StatusCode: http.StatusNotFound}
)
