// Package callerr defines the error taxonomy shared by every component of
// the call core (gate, dispatcher, catch, jump). It is a standalone leaf
// package -- not the root package -- purely so that internal/gate and the
// public package can both depend on it without an import cycle; the root
// package re-exports these types as aliases, the same way wazero's
// internal/logging aliases api.ValueType.
package callerr

import "fmt"

// Kind enumerates the error taxonomy surfaced to the host. It mirrors
// mudlle's enum runtime_error, trimmed to the kinds this core can itself
// raise plus the handful a callee commonly raises (divide-by-zero, bad-type,
// bad-value) so tests and examples have something to throw.
type Kind int

const (
	None Kind = iota
	WrongParameters
	SecurityViolation
	BadValue
	BadType
	DivideByZero
	TypeError
)

func (k Kind) String() string {
	switch k {
	case WrongParameters:
		return "wrong-parameters"
	case SecurityViolation:
		return "security-violation"
	case BadValue:
		return "bad-value"
	case BadType:
		return "bad-type"
	case DivideByZero:
		return "divide-by-zero"
	case TypeError:
		return "type-error"
	default:
		return "none"
	}
}

// Error is the structured failure raised by the gate, the dispatcher, or a
// callee. It is always recovered and classified at the nearest Mcatch; the
// dispatcher itself never recovers one.
type Error struct {
	Kind Kind
	Msg  string

	// Required and Have are populated only for a SecurityViolation raised
	// by the gate: the seclevel the callable demanded and the privilege
	// it was actually offered, so a caller logging the rejection doesn't
	// need to re-derive them from the callable.
	Required int
	Have     int
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New constructs an *Error, the only kind of value Mthrow accepts.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotCallableWith builds the diagnostic CheckCallable raises on an arity
// mismatch: "<name> not callable with N arguments".
func NotCallableWith(name string, nargs int) *Error {
	return New(WrongParameters, "%s not callable with %d arguments", name, nargs)
}

// SecurityViolationError builds the diagnostic CheckCallable raises when a
// secure primitive's required seclevel exceeds the privilege it was offered,
// carrying required/have so a caller can log the rejected levels without
// re-deriving them.
func SecurityViolationError(name string, required, have int, ceilingDesc string) *Error {
	return &Error{
		Kind:     SecurityViolation,
		Msg:      fmt.Sprintf("%s requires seclevel %d, %s is %d", name, required, ceilingDesc, have),
		Required: required,
		Have:     have,
	}
}
