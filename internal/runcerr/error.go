// Package runcerr defines the error taxonomy shared by the container
// lifecycle core: a small set of Kinds that lifecycle commands switch on,
// wrapped with a stack trace via github.com/pkg/errors so debug logging
// can print where a syscall or state transition actually failed.
package runcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure the way lifecycle commands need to branch on it.
type Kind int

const (
	// NotFound means the state directory for a given id is missing.
	NotFound Kind = iota
	// AlreadyExists means create found an existing state directory.
	AlreadyExists
	// InvalidStatus means a command precondition (can_start/can_kill/can_delete) failed.
	InvalidStatus
	// InvalidSignal means kill was given an unknown signal name.
	InvalidSignal
	// Spec means config.json was malformed or missing required fields.
	Spec
	// Syscall means a fork/setns/unshare/open/kill/waitpid call failed.
	Syscall
	// Io means state persistence or pid-file writing failed.
	Io
	// BootstrapAbnormal means waitpid returned neither an exit nor a signal status.
	BootstrapAbnormal
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case InvalidStatus:
		return "InvalidStatus"
	case InvalidSignal:
		return "InvalidSignal"
	case Spec:
		return "Spec"
	case Syscall:
		return "Syscall"
	case Io:
		return "Io"
	case BootstrapAbnormal:
		return "BootstrapAbnormal"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type the core returns. Cause is the wrapped,
// stack-annotated error; Kind lets callers branch without string matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a Kind error with no underlying cause.
func New(kind Kind, message string) error {
	return errors.WithStack(&Error{Kind: kind, Message: message})
}

// Newf is New with fmt formatting for the message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Wrap attaches a Kind and stack trace to an existing error.
func Wrap(kind Kind, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Message: message, Cause: cause})
}

// Wrapf is Wrap with fmt formatting for the message.
func Wrapf(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause})
}

// KindOf extracts the Kind of err, returning ok=false if err is not (or does
// not wrap) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
