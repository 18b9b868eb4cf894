package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed failure carrying its classification code and the HTTP status that produced it.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so errors.Is works against the predefined values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. The first block is the client failure taxonomy; the
// second is shared with the sandbox backend when it renders envelopes.
var (
	ErrNetwork           = New("NETWORK_FAILURE", 0, "could not reach server")
	ErrAuth              = New("AUTH_FAILURE", http.StatusUnauthorized, "please log in again")
	ErrMalformedResponse = New("MALFORMED_RESPONSE", 0, "could not parse server response")
	ErrValidation        = New("VALIDATION_FAILURE", http.StatusBadRequest, "validation failed")
	ErrBusiness          = New("BUSINESS_FAILURE", http.StatusOK, "request rejected")
	ErrUpstream          = New("UPSTREAM_FAILURE", http.StatusBadGateway, "server error, try again later")
	ErrEncoding          = New("ENCODING_ERROR", 0, "attachment content unavailable")
	ErrBreakerOpen       = New("BREAKER_OPEN", 0, "could not reach server")

	ErrNotFound  = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict  = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal  = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss = New("CACHE_MISS", 0, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithStatus returns a copy of err reporting the given HTTP status.
func WithStatus(err *Error, status int) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Status = status
	return &clone
}

// IsNetwork reports whether err means the server could not be reached.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrBreakerOpen)
}

// UserMessage renders the text a view shows for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	e := FromError(err)
	switch e.Code {
	case ErrNetwork.Code, ErrBreakerOpen.Code:
		return ErrNetwork.Message
	case ErrAuth.Code:
		return ErrAuth.Message
	case ErrMalformedResponse.Code:
		return ErrMalformedResponse.Message
	case ErrInternal.Code:
		return "unexpected error"
	default:
		return e.Message
	}
}
