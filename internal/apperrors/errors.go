package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates an authenticated caller whose role may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates a request without usable credentials.
var ErrUnauthorized = errors.New("unauthenticated")

// ErrInvalidToken indicates a malformed, expired or badly signed session token.
var ErrInvalidToken = errors.New("invalid token")

// ErrAccountNotFound indicates a valid token whose account no longer exists.
var ErrAccountNotFound = errors.New("account not found")

// ErrRoleMismatch indicates a login where the claimed role differs from the stored one.
var ErrRoleMismatch = errors.New("role mismatch")

// ErrPendingApproval indicates a login against an account an admin has not approved yet.
var ErrPendingApproval = errors.New("account pending approval")

// ErrBadCredential indicates a secret that does not match the stored hash.
var ErrBadCredential = errors.New("bad credential")

// ErrPincodeRequired indicates a client login without a pincode.
var ErrPincodeRequired = errors.New("pincode required")

// ErrPincodeMismatch indicates a client login with the wrong pincode.
var ErrPincodeMismatch = errors.New("pincode mismatch")

// ErrInvalidState indicates a workflow transition attempted from the wrong status.
var ErrInvalidState = errors.New("invalid state")

// ErrDependencyUnavailable indicates storage or a notification transport is down.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// AppError carries an HTTP status code and a caller-safe message alongside the cause.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError wraps ErrValidation with a human-readable message.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewNotFoundError wraps ErrNotFound with a human-readable message.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewForbiddenError wraps ErrForbidden with a human-readable message.
func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

// NewInvalidStateError wraps ErrInvalidState with a human-readable message.
func NewInvalidStateError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrInvalidState)
}

// NewUnavailableError wraps ErrDependencyUnavailable around the underlying cause.
func NewUnavailableError(message string, cause error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, errors.Join(ErrDependencyUnavailable, cause))
}

// Kind names the taxonomy entry an error belongs to. It is what callers see in the
// "kind" field of an error response.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDependencyUnavailable):
		return "DependencyUnavailable"
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrDuplicate):
		return "DuplicateIdentity"
	case errors.Is(err, ErrAccountNotFound):
		return "AccountNotFound"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrInvalidToken):
		return "InvalidToken"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthenticated"
	case errors.Is(err, ErrRoleMismatch):
		return "RoleMismatch"
	case errors.Is(err, ErrPendingApproval):
		return "PendingApproval"
	case errors.Is(err, ErrBadCredential):
		return "BadCredential"
	case errors.Is(err, ErrPincodeRequired):
		return "PincodeRequired"
	case errors.Is(err, ErrPincodeMismatch):
		return "PincodeMismatch"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	default:
		return "Internal"
	}
}

// StatusCode maps an error to the HTTP status the request boundary responds with.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch Kind(err) {
	case "DependencyUnavailable":
		return http.StatusServiceUnavailable
	case "ValidationError", "PincodeRequired":
		return http.StatusBadRequest
	case "DuplicateIdentity":
		return http.StatusConflict
	case "NotFound":
		return http.StatusNotFound
	case "Forbidden", "PendingApproval":
		return http.StatusForbidden
	case "Unauthenticated", "InvalidToken", "AccountNotFound", "BadCredential", "PincodeMismatch", "RoleMismatch":
		return http.StatusUnauthorized
	case "InvalidState":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
