// Package gate implements the arity and privilege checks every dispatch must
// pass before a callable is entered: component C of the call core. It never
// allocates and never blocks, mirroring mudlle's callablep/function_callable
// pair in call.c.
package gate

import (
	"github.com/mudlle-go/callcore/internal/callerr"
	"github.com/mudlle-go/callcore/value"
)

// Ceilings bundles the two privilege ceilings and the minlevel floor that
// gate decisions are checked against. It is threaded explicitly rather than
// read from process globals, per the context-passing design note: each
// Runtime owns one.
type Ceilings struct {
	// DefaultSeclevel is the privilege of code that entered the runtime
	// from the outside without crossing a script frame.
	DefaultSeclevel int

	// MaxSeclevel is a per-session ceiling. HasMaxSeclevel is false when
	// no session context is active, in which case MaxSeclevel imposes no
	// additional restriction.
	MaxSeclevel    int
	HasMaxSeclevel bool

	// Minlevel is the floor below which a closure is a minlevel
	// violator for certain host-facing APIs.
	Minlevel int
}

// IsCallableWith returns false if v is not a callable, or if its arity does
// not admit nargs. A variadic closure admits any nargs <= MaxFunctionArgs; a
// fixed-arity closure admits exactly its declared arity. Primitive arity
// must match exactly unless the primitive is variadic. Unlike CheckCallable,
// this never consults the privilege ceilings -- mudlle's callablep doesn't
// either.
func IsCallableWith(v value.Value, nargs int) bool {
	c, ok := value.AsCallable(v)
	if !ok {
		return false
	}
	switch cc := c.(type) {
	case *value.Closure:
		if cc.Variadic {
			return nargs <= value.MaxFunctionArgs
		}
		return cc.ArgCount == nargs
	case *value.Primitive:
		return cc.Desc.Arity == nargs
	case *value.VariadicPrimitive:
		return nargs <= value.MaxFunctionArgs
	default:
		return false
	}
}

// CheckCallable is the checked form of IsCallableWith. It additionally
// enforces the privilege ceilings for secure primitives, returning the
// error kind the caller should raise ("wrong-parameters",
// "security-violation", or "type-error" if v isn't a function at all), or
// nil if c may be entered with nargs arguments.
func CheckCallable(ceil Ceilings, v value.Value, nargs int) *callerr.Error {
	callable, ok := value.AsCallable(v)
	if !ok {
		return callerr.New(callerr.TypeError, "value is not a function")
	}

	switch cc := callable.(type) {
	case *value.Closure:
		if cc.Variadic {
			if nargs > value.MaxFunctionArgs {
				return callerr.NotCallableWith(cc.Name(), nargs)
			}
			return nil
		}
		if cc.ArgCount != nargs {
			return callerr.NotCallableWith(cc.Name(), nargs)
		}
		return nil

	case *value.Primitive:
		if cc.Secure {
			if ceil.DefaultSeclevel < cc.Desc.SecLevel {
				return callerr.SecurityViolationError(cc.Name(), cc.Desc.SecLevel, ceil.DefaultSeclevel, "default")
			}
			if ceil.HasMaxSeclevel && ceil.MaxSeclevel < cc.Desc.SecLevel {
				return callerr.SecurityViolationError(cc.Name(), cc.Desc.SecLevel, ceil.MaxSeclevel, "session ceiling")
			}
		}
		if cc.Desc.Arity != nargs {
			return callerr.NotCallableWith(cc.Name(), nargs)
		}
		return nil

	case *value.VariadicPrimitive:
		if nargs > value.MaxFunctionArgs {
			return callerr.NotCallableWith(cc.Name(), nargs)
		}
		return nil

	default:
		return callerr.New(callerr.TypeError, "value is not a function")
	}
}

// CheckCallableTailVector is CheckCallable for the "1 + vector" call shape
// (Call1Plus / ProtectedCall1Plus): per §4.3's tie-break, a closure callee is
// not arity-checked here, since the closure's own entry performs that check
// and event-dispatch paths rely on being able to pass mixed-arity handlers
// through this one entry point. Every other callable kind, and every other
// check (privilege included), is unchanged.
func CheckCallableTailVector(ceil Ceilings, v value.Value, nargs int) *callerr.Error {
	callable, ok := value.AsCallable(v)
	if !ok {
		return callerr.New(callerr.TypeError, "value is not a function")
	}
	if _, isClosure := callable.(*value.Closure); isClosure {
		return nil
	}
	return CheckCallable(ceil, v, nargs)
}

// MinlevelViolator reports whether v is (or wraps) code whose declared
// seclevel is below the active minlevel. Non-closure values are never
// violators -- mudlle's minlevel check only descends into type_closure.
func MinlevelViolator(v value.Value, minlevel int) bool {
	cl, ok := v.(*value.Closure)
	if !ok {
		return false
	}
	return cl.SecLevel() < minlevel
}
