// Package apperr carries the error taxonomy every operation reports through:
// validation failures surface verbatim, auth failures collapse into one
// uniform message, and dependency failures hide their detail from clients.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindDependency
)

type Error struct {
	Kind    Kind
	Message string // client-facing
	Err     error  // underlying cause, logged but never sent to the client
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unauthorized deliberately ignores the reason: callers pass it for the log
// wrap, clients only ever see the message.
func Unauthorized(message string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Err: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Dependency(message string, cause error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: cause}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "an unexpected error occurred", Err: cause}
}

// KindOf classifies any error; non-apperr errors are internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// ClientMessage returns what the caller may see for err.
func ClientMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "an unexpected error occurred"
}
