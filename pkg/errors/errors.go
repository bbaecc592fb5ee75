package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared across repositories and services.
var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record with the same unique field already exists")
	ErrBadRequest         = errors.New("invalid request")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInviteCodeUsed     = errors.New("invite code has already been used")
	ErrInviteCodeInvalid  = errors.New("invite code is invalid")
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrUserNotInContext   = errors.New("user not found in request context")
)

// HttpError carries an HTTP status code, a message safe to show to the
// client, the wrapped internal error and extra context for logging.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// StatusFor maps an error to the HTTP status code it should be reported
// with. Unknown errors are treated as internal.
func StatusFor(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInviteCodeUsed),
		errors.Is(err, ErrInviteCodeInvalid),
		errors.Is(err, ErrFileTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
