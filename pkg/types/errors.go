package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrKindNotFound   ErrorKind = "NOT_FOUND"
	ErrKindBadRequest ErrorKind = "BAD_REQUEST"
	ErrKindForbidden  ErrorKind = "FORBIDDEN"
	ErrKindConflict   ErrorKind = "CONFLICT"
	ErrKindInternal   ErrorKind = "INTERNAL"
)

// Error is the application error taxonomy. The HTTP layer maps Kind onto
// a status code; Message is safe to show the caller.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewNotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewBadRequest(format string, args ...any) *Error {
	return &Error{Kind: ErrKindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(format string, args ...any) *Error {
	return &Error{Kind: ErrKindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...any) *Error {
	return &Error{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from any error in the chain, or ErrKindInternal
// when the error sits outside the taxonomy.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrKindInternal
}

// Well-known not-found sentinels. Each is a taxonomy error so the HTTP
// layer maps it without special cases, and callers can errors.Is on it.
var (
	ErrUserNotFound     = NewNotFound("user not found")
	ErrCriteriaNotFound = NewNotFound("inspection criteria not found")
	ErrTemplateNotFound = NewNotFound("dashboard template not found")
	ErrPropertyNotFound = NewNotFound("property not found")
	ErrRequestNotFound  = NewNotFound("access request not found")
	ErrAccessNotFound   = NewNotFound("access grant not found")
)
