package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
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

// Is matches errors sharing the same code so that clones and wraps of a
// predefined error still satisfy errors.Is.
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

// Predefined errors for common scenarios.
var (
	ErrNotFound    = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden   = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrValidation  = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal    = New("INTERNAL_ERROR", http.StatusInternalServerError, "Something went wrong. Please try again later!")
	ErrCacheMiss   = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrBadPassword = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid email or password!")
)

// Session and authorization failures surfaced to end users verbatim.
var (
	ErrNotAuthenticated      = New("NOT_AUTHENTICATED", http.StatusUnauthorized, "You are not Logged In!")
	ErrTokenInvalidOrExpired = New("TOKEN_INVALID_OR_EXPIRED", http.StatusUnauthorized, "Token invalid or expired. Please log in again!")
	ErrOrgNotFound           = New("ORG_NOT_FOUND", http.StatusNotFound, "Organization Not Found!")
	ErrNotAnEditor           = New("NOT_AN_EDITOR", http.StatusForbidden, "You are not an Editor in this organization!")
	ErrEditorRevoked         = New("EDITOR_REVOKED", http.StatusForbidden, "You are no longer an Editor in this organization!")
)

// Temporal consistency failures for scheduled content.
var (
	ErrPublishInPast     = New("PUBLISH_IN_PAST", http.StatusBadRequest, "publish date cannot be in the past")
	ErrEndsBeforePublish = New("ENDS_BEFORE_PUBLISH", http.StatusBadRequest, "ends publishing date must be after publishing date")
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

// UserMessage returns the text that may be shown to an end user. Internal
// errors never expose their detail.
func UserMessage(err error) string {
	appErr := FromError(err)
	if appErr == nil {
		return ""
	}
	if appErr.Code == ErrInternal.Code {
		return ErrInternal.Message
	}
	return appErr.Message
}
