// Package apperr is the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindUpstream        Kind = "UPSTREAM"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindInternal        Kind = "INTERNAL"
)

// Machine-readable codes surfaced to clients next to the message.
const (
	CodeNoToken       = "NO_TOKEN"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeTokenInvalid  = "TOKEN_INVALID"
	CodeNotFound      = "NOT_FOUND"
	CodeForbidden     = "FORBIDDEN"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeEmailTaken    = "EMAIL_TAKEN"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeValidation    = "VALIDATION"
	CodeUploadFailed  = "UPLOAD_FAILED"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the kind to its HTTP status. Conflicts answer 400 so a
// duplicate caught by the unique index looks like one caught by the pre-check.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(err error, kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(message string, err error) *Error {
	return Wrap(err, KindValidation, CodeValidation, message)
}

func Internal(err error) *Error {
	return Wrap(err, KindInternal, CodeInternal, "Internal server error")
}

// As extracts an *Error from err; anything else is reported as INTERNAL.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Envelope is the JSON error body. detail carries the wrapped error text and
// is only set outside production.
func (e *Error) Envelope(detail bool) map[string]any {
	body := map[string]any{
		"success": false,
		"code":    e.Code,
		"message": e.Message,
	}
	if detail && e.Err != nil {
		body["detail"] = e.Err.Error()
	}
	return body
}
