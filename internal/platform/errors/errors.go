// Package errors carries the typed error used across the service. Every
// layer wraps failures with the kind it owns and the operation that failed,
// so callers can branch on the kind without parsing messages.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the layer that produced it.
type Kind string

const (
	KindConfig    Kind = "config"
	KindAuth      Kind = "auth"
	KindDomain    Kind = "domain"
	KindTransport Kind = "transport"
	KindStorage   Kind = "storage"
	KindBootstrap Kind = "bootstrap"
	KindUnknown   Kind = "unknown"
)

// Error pairs a kind and operation with a human-readable message and the
// underlying cause, if any.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a typed error with no underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches kind and operation context to err. A nil err yields nil so
// call sites can wrap unconditionally. An err that already carries a typed
// error keeps its original classification.
func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return &Error{Kind: kind, Op: op, Message: message, Cause: err}
}

// KindOf returns the kind of the first typed error in the chain, or
// KindUnknown when the chain carries none.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

// IsKind reports whether the first typed error in the chain has the given
// kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
