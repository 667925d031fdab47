// Package errors defines the error kinds used across splashload and the
// helpers to classify them.
//
// Every fatal condition is an *Error carrying a Kind. Callers test the kind
// with the package sentinels:
//
//	if errors.Is(err, errors.ErrConfiguration) { ... }
//
// The recoverable "class not found after a successful load" condition is
// reported with ErrClassNotFound wrapped in a KindLoad error, but it is never
// returned from a loading run; it is recorded in the run report instead.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind classifies an error by how the host should react to it.
type Kind int

const (
	// KindConfiguration covers invalid host arguments and bad manifests.
	KindConfiguration Kind = iota + 1
	// KindDependency covers collaborators that are missing at construction.
	KindDependency
	// KindLoad covers component sources that cannot be read or parsed.
	KindLoad
	// KindProtocol covers internal handshake invariant breaches.
	KindProtocol
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindDependency:
		return "dependency error"
	case KindLoad:
		return "load error"
	case KindProtocol:
		return "protocol violation"
	default:
		return "unknown error"
	}
}

// Error is the single structured error type of the loader.
type Error struct {
	Kind      Kind
	Op        string // operation that failed, e.g. "manifest.load"
	Component string // class identifier, when the error is about one component
	Err       error
}

// Sentinels for errors.Is checks. They match any *Error of the same kind.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrDependency    = &Error{Kind: KindDependency}
	ErrLoad          = &Error{Kind: KindLoad}
	ErrProtocol      = &Error{Kind: KindProtocol}

	// ErrClassNotFound marks a source that loaded but does not provide the
	// class the manifest asked for.
	ErrClassNotFound = errors.New("class not found")
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Component != "" {
		msg += fmt.Sprintf(" (component %q)", e.Component)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Component == "" && t.Err == nil && t.Kind == e.Kind
}

// WithComponent returns a copy of e bound to a component class.
func (e *Error) WithComponent(class string) *Error {
	cp := *e
	cp.Component = class
	return &cp
}

// Configuration builds a KindConfiguration error.
func Configuration(op string, err error) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// Configurationf builds a KindConfiguration error from a format string.
func Configurationf(op, format string, args ...any) *Error {
	return Configuration(op, fmt.Errorf(format, args...))
}

// Dependency builds a KindDependency error.
func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Op: op, Err: err}
}

// Load builds a KindLoad error.
func Load(op string, err error) *Error {
	return &Error{Kind: KindLoad, Op: op, Err: err}
}

// Protocol builds a KindProtocol error.
func Protocol(op, format string, args ...any) *Error {
	return &Error{Kind: KindProtocol, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsFatal reports whether err must abort a loading run. Everything except
// a bare class-not-found condition is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrClassNotFound) && KindOf(err) == KindLoad {
		return false
	}
	return true
}
