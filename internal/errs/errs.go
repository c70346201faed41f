// Package errs defines the error-kind taxonomy the core distinguishes,
// per the error handling design: translation failure, remote command
// failure, session failure, resource pressure, host misuse, and
// unsupported-locally (skip pattern). Every typed error wraps a plain
// error via github.com/pkg/errors so callers keep a stack trace without
// the core having to build one by hand.
package errs

import "github.com/pkg/errors"

// Kind classifies why an operation failed, so the shim layer can map it
// onto the right Engine-L-style return code.
type Kind int

const (
	// KindUnknown is the zero value; never returned deliberately.
	KindUnknown Kind = iota
	// KindTranslation marks a SQL construct the translator could not map.
	KindTranslation
	// KindRemote marks a non-success status from Engine-R.
	KindRemote
	// KindSession marks an unusable underlying connection.
	KindSession
	// KindResourcePressure marks ring/pool/stack exhaustion.
	KindResourcePressure
	// KindMisuse marks a host-side contract violation.
	KindMisuse
	// KindSkipped marks a statement recognized as a no-op skip pattern.
	KindSkipped
)

func (k Kind) String() string {
	switch k {
	case KindTranslation:
		return "translation"
	case KindRemote:
		return "remote"
	case KindSession:
		return "session"
	case KindResourcePressure:
		return "resource_pressure"
	case KindMisuse:
		return "misuse"
	case KindSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Error is a typed, kind-tagged error. The underlying cause is kept
// separate from the kind so that the same Kind can wrap many distinct
// root causes across the lifetime of a lease or statement.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// New builds a typed Error of the given kind from a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Wrap builds a typed Error of the given kind around an existing error,
// attaching a stack trace if cause does not already carry one.
func Wrap(kind Kind, cause error, msg string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(cause, msg)}
}

// As reports whether err is (or wraps) an *Error and, if so, returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is a typed Error, else KindUnknown.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}
