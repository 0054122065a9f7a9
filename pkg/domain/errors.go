package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the engine unwraps to exactly one of them,
// so callers can branch with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrNotFound        = errors.New("not found")
	ErrUnknownType     = errors.New("unknown gate type")
	ErrInvalidRole     = errors.New("invalid role")
	ErrCycleDetected   = errors.New("cycle detected")
	ErrPortMismatch    = errors.New("port mismatch")
	ErrDuplicateEdge   = errors.New("duplicate edge")
	ErrParseError      = errors.New("parse error")
	ErrSchemaError     = errors.New("schema error")
)

// ErrPatchNotFound is returned when a patch ID cannot be found in a store.
var ErrPatchNotFound = errors.New("patch not found")

// GateError describes a failed engine operation.
type GateError struct {
	Op     string // Operation that failed, e.g. "add", "connect"
	Gate   string // Gate the operation was addressed to (may be empty)
	Kind   error  // One of the Err* kinds
	Detail string // Human-readable reason
}

func (e *GateError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Gate != "" {
		return fmt.Sprintf("%s %q: %s", e.Op, e.Gate, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *GateError) Unwrap() error {
	return e.Kind
}

// NewError builds a GateError with a formatted detail.
func NewError(op, gate string, kind error, format string, args ...any) *GateError {
	return &GateError{
		Op:     op,
		Gate:   gate,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the error kind wrapped by err, or nil if err is not an engine error.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrInvalidArgument, ErrDuplicateName, ErrNotFound, ErrUnknownType,
		ErrInvalidRole, ErrCycleDetected, ErrPortMismatch, ErrDuplicateEdge,
		ErrParseError, ErrSchemaError,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
