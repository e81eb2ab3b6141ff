// Package apierr defines the error taxonomy shared by the loandesk services
// and its mapping onto HTTP status codes.
//
// Services return *Error values; handlers translate them with Status. Any
// other error is treated as Internal.
//
//	if errors.Is(err, apierr.ErrNotFound) {
//	    // handle missing entity
//	}
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform kebab -json -output kind.gen.go

// Kind classifies an error.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindInvalidStatus
	KindConflict
	KindNotFound
)

// HTTPStatus returns the status code a handler should answer with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation, KindInvalidStatus, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Fields is only populated for validation
// errors and lists every offending field.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrInvalidStatus   = &Error{Kind: KindInvalidStatus}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInternal        = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if len(e.Fields) > 0 {
		msg += ": " + strings.Join(e.Fields, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Validation reports every invalid field at once.
func Validation(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func InvalidStatus(status string) *Error {
	return &Error{Kind: KindInvalidStatus, Message: "Invalid status", Err: fmt.Errorf("unknown status %q", status)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Internal wraps an unexpected store or provider failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Server error", Err: err}
}

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	return KindOf(err).HTTPStatus()
}
