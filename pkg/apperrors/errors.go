package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrTransport      ErrorType = "TRANSPORT_ERROR"
	ErrDecode         ErrorType = "DECODE_ERROR"
	ErrSchema         ErrorType = "SCHEMA_ERROR"
	ErrNotImplemented ErrorType = "NOT_IMPLEMENTED"
	ErrRPC            ErrorType = "RPC_ERROR"
	ErrRejected       ErrorType = "COMMAND_REJECTED"
	ErrInvalidRequest ErrorType = "INVALID_REQUEST"
	ErrAuthFailed     ErrorType = "AUTH_FAILED"
	ErrRateLimited    ErrorType = "RATE_LIMITED"
	ErrNotFound       ErrorType = "NOT_FOUND"
	ErrReadOnly       ErrorType = "READ_ONLY"
	ErrInternal       ErrorType = "INTERNAL_ERROR"
)

// AppError is the error value returned by every fallible operation in the
// module. Callers branch on Type, never on Message.
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func Newf(errType ErrorType, format string, args ...any) *AppError {
	return New(errType, fmt.Sprintf(format, args...), nil)
}

func NewTransport(msg string, cause error) *AppError {
	return New(ErrTransport, msg, cause)
}

func NewDecode(msg string, cause error) *AppError {
	return New(ErrDecode, msg, cause)
}

func NewSchema(msg string) *AppError {
	return New(ErrSchema, msg, nil)
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func NewRejected(msg string) *AppError {
	return New(ErrRejected, msg, nil)
}

// Wrap returns err as an *AppError, classifying unknown errors as internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

// Is reports whether any error in err's chain is an *AppError of type t.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == t
}

// TypeOf returns the type of the first *AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ""
	}
	return appErr.Type
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrRejected, ErrInvalidRequest, ErrSchema:
		return http.StatusBadRequest
	case ErrAuthFailed:
		return http.StatusUnauthorized
	case ErrReadOnly:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrNotImplemented:
		return http.StatusNotImplemented
	case ErrTransport, ErrDecode, ErrRPC:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrTransport:
		return "Check that the wallet service is running and reachable."
	case ErrDecode:
		return "The wallet answered with an unexpected payload; check wallet and client versions."
	case ErrSchema:
		return "A command must select exactly one known variant."
	case ErrRejected:
		return "Check the command against the gateway guard limits."
	case ErrAuthFailed:
		return "Check the gateway API key."
	case ErrRateLimited:
		return "Retry after a short delay."
	case ErrReadOnly:
		return "The gateway is in read-only mode; transactions are disabled."
	default:
		return ""
	}
}
