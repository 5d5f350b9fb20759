// Package callcore implements the call dispatcher and protected-invocation
// core of a dynamically-typed scripting runtime: the boundary between a host
// program and any callable value -- closures, native primitives, secure
// primitives and variadic primitives.
package callcore

import "github.com/mudlle-go/callcore/internal/callerr"

// ErrKind is the error taxonomy surfaced to the host: wrong-parameters,
// security-violation, bad-value, bad-type, divide-by-zero, type-error, and
// the none sentinel.
type ErrKind = callerr.Kind

const (
	ErrNone              = callerr.None
	ErrWrongParameters   = callerr.WrongParameters
	ErrSecurityViolation = callerr.SecurityViolation
	ErrBadValue          = callerr.BadValue
	ErrBadType           = callerr.BadType
	ErrDivideByZero      = callerr.DivideByZero
	ErrTypeError         = callerr.TypeError
)

// Error is the structured failure raised by the gate, the dispatcher, or a
// callee, and recovered at the nearest protected call.
type Error = callerr.Error

// NewError constructs an *Error, the only kind of value Mthrow accepts.
func NewError(kind ErrKind, format string, args ...any) *Error {
	return callerr.New(kind, format, args...)
}
