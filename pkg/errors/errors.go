package errors

import (
	"errors"
	"fmt"
)

// Kind classifies the errors that can occur during a capture run
type Kind string

const (
	// KindDriver covers page navigation, query and evaluation failures.
	// The page itself is unreachable, so the run cannot continue.
	KindDriver Kind = "driver"

	// KindElementDetached means an element handle went stale between
	// discovery and capture (scrolled out of a virtualized list).
	KindElementDetached Kind = "element_detached"

	// KindWriteCollision means the generated filename already exists.
	KindWriteCollision Kind = "write_collision"

	// KindTimeout means a bounded driver or capture call exceeded its deadline.
	KindTimeout Kind = "timeout"

	// KindConfig means the run configuration is invalid.
	KindConfig Kind = "config"

	KindUnknown Kind = "unknown"
)

// Error carries a kind, the failing operation and an optional cause
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s error: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Driver wraps a fatal page-level failure
func Driver(op string, err error) *Error {
	return &Error{Kind: KindDriver, Op: op, Message: "page driver failure", Err: err}
}

// Detached reports a stale element handle
func Detached(op string, err error) *Error {
	return &Error{Kind: KindElementDetached, Op: op, Message: "element no longer attached", Err: err}
}

// Collision reports a refused overwrite of an existing file
func Collision(op, path string) *Error {
	return &Error{Kind: KindWriteCollision, Op: op, Message: fmt.Sprintf("file already exists: %s", path)}
}

// Timeout reports an exceeded call deadline
func Timeout(op string, err error) *Error {
	return &Error{Kind: KindTimeout, Op: op, Message: "deadline exceeded", Err: err}
}

// Config reports an invalid run configuration
func Config(msg string, err error) *Error {
	return &Error{Kind: KindConfig, Op: "config", Message: msg, Err: err}
}

// KindOf extracts the kind from any error in the chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsFatal reports whether an error must terminate the run.
// Driver and config errors are fatal; everything per-item is not.
func IsFatal(err error) bool {
	switch KindOf(err) {
	case KindDriver, KindConfig:
		return true
	default:
		return false
	}
}

// IsRecoverable reports whether an error is local to a single capture
// attempt and the loop should continue with the next element.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindElementDetached, KindWriteCollision, KindTimeout:
		return true
	default:
		return false
	}
}

// IsDetached reports whether the error is a stale element handle
func IsDetached(err error) bool {
	return KindOf(err) == KindElementDetached
}
