package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error for transport mapping.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindQuotaExceeded   Kind = "QUOTA_EXCEEDED"
	KindDuplicateReview Kind = "DUPLICATE_REVIEW"
	KindDelivery        Kind = "DELIVERY"
	KindInternal        Kind = "INTERNAL"
)

var (
	// ErrNotAuthorized is returned when a request carries no usable token.
	ErrNotAuthorized = Unauthenticated("not authorized to access this route")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = Unauthenticated("invalid credentials")
	// ErrInvalidResetToken is returned when a reset token is unknown or expired.
	ErrInvalidResetToken = Validation("invalid or expired reset token")
)

// AppError carries a Kind, a client-safe message, and an optional cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap creates an AppError of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError      { return New(KindValidation, message) }
func Unauthenticated(message string) *AppError { return New(KindUnauthenticated, message) }
func Forbidden(message string) *AppError       { return New(KindForbidden, message) }
func NotFound(message string) *AppError        { return New(KindNotFound, message) }
func QuotaExceeded(message string) *AppError   { return New(KindQuotaExceeded, message) }
func DuplicateReview(message string) *AppError { return New(KindDuplicateReview, message) }

// Delivery wraps an outbound email failure.
func Delivery(message string, err error) *AppError {
	return Wrap(KindDelivery, message, err)
}

// Internal wraps an unexpected failure. The cause is never sent to clients.
func Internal(message string, err error) *AppError {
	return Wrap(KindInternal, message, err)
}

// KindOf reports the Kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse is the uniform JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       Kind
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string, code Kind) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
	}
}

// KindForStatus classifies a transport level status, such as one raised by
// the router or a middleware, into the closest Kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized:
		return KindUnauthenticated
	case status == http.StatusForbidden:
		return KindForbidden
	case status < http.StatusInternalServerError:
		return KindValidation
	default:
		return KindInternal
	}
}

// MapErrorToHTTP maps application errors to HTTP errors.
// Internal errors never leak their cause.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", KindInternal)
	}

	switch appErr.Kind {
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, appErr.Message, appErr.Kind)
	case KindUnauthenticated:
		return NewHTTPError(http.StatusUnauthorized, appErr.Message, appErr.Kind)
	case KindForbidden:
		return NewHTTPError(http.StatusForbidden, appErr.Message, appErr.Kind)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, appErr.Message, appErr.Kind)
	case KindQuotaExceeded:
		return NewHTTPError(http.StatusBadRequest, appErr.Message, appErr.Kind)
	case KindDuplicateReview:
		return NewHTTPError(http.StatusConflict, appErr.Message, appErr.Kind)
	case KindDelivery:
		return NewHTTPError(http.StatusInternalServerError, appErr.Message, appErr.Kind)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", KindInternal)
	}
}
