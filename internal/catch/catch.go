// Package catch implements component F, the protected-call facility:
// mudlle's mcatch/mthrow/mrethrow family. Go already has a structured
// non-local control transfer that behaves like sigsetjmp/siglongjmp under a
// single goroutine -- panic/recover -- so that is what this package builds
// on, per the "non-local jump -> typed result channel" design note. The
// pattern is grounded on wazero's moduleEngine.Call, whose deferred
// recover() classifies a panic and rebuilds a trace from its own call
// stack (internal/engine/interpreter/interpreter.go) exactly the way
// Mcatch below rebuilds one from the reified Stack.
package catch

import (
	"github.com/mudlle-go/callcore/internal/callerr"
	"github.com/mudlle-go/callcore/internal/dispatch"
	"github.com/mudlle-go/callcore/internal/rtstate"
	"github.com/mudlle-go/callcore/value"
)

// TraceMode re-exports rtstate's enum so callers outside this package don't
// need to import rtstate directly.
type TraceMode = rtstate.TraceMode

const (
	TraceOn      = rtstate.TraceOn
	TraceOff     = rtstate.TraceOff
	TraceBarrier = rtstate.TraceBarrier
)

// signal is the panic payload Mthrow/Mrethrow use. Wrapping the *Error in a
// distinct type lets Mcatch's recover distinguish "a callee raised a
// callcore error" from an unrelated Go panic (a genuine bug), which is
// allowed to keep propagating per §7: unexpected states are fatal, not
// caught.
type signal struct {
	err *callerr.Error
}

// Mthrow sets st's pending exception and transfers control to the nearest
// installed catch point via panic. It never returns.
func Mthrow(st *rtstate.State, err *callerr.Error) {
	st.Exception = err
	panic(signal{err: err})
}

// Mrethrow jumps to the nearest catch point without altering the pending
// exception. It never returns.
func Mrethrow(st *rtstate.State) {
	panic(signal{err: st.Exception})
}

// MaybeMrethrow jumps only if an exception is currently pending; used at
// safe points to propagate a latent failure instead of silently clearing
// it.
func MaybeMrethrow(st *rtstate.State) {
	if st.Exception != nil {
		Mrethrow(st)
	}
}

// PendingException returns the current exception, or nil if none is
// pending.
func PendingException(st *rtstate.State) *callerr.Error {
	return st.Exception
}

// ClearException clears the pending exception without jumping; used after a
// caller has fully handled it.
func ClearException(st *rtstate.State) {
	st.Exception = nil
}

// CaughtTrace holds the diagnostic trace captured at an Mcatch site, filled
// in only when the installed (possibly inherited) trace mode is not
// TraceOff.
type CaughtTrace struct {
	Frames []string
}

// Mcatch installs a catch context, invokes thunk, and returns true on
// normal completion. On an unwind (thunk panics with a signal, directly or
// via a nested dispatch failure) it restores the saved call-stack head and
// catch-context chain, optionally captures trace into *trace per mode, and
// returns false. Any panic that is not a signal -- an invariant violation
// -- is allowed to keep propagating rather than being treated as a catchable
// failure (§7).
func Mcatch(st *rtstate.State, thunk func(), mode TraceMode, trace *CaughtTrace) (ok bool) {
	// A TraceOn request is the ambient default and falls through to
	// inheritance from the enclosing context, so nested protected calls
	// compose the way §4.5 describes; TraceOff/TraceBarrier are explicit
	// overrides and are used as-is.
	effectiveMode := mode
	if effectiveMode == TraceOn {
		effectiveMode = rtstate.InheritedMode(st.Catch)
	}

	ctx := st.PushCatch(effectiveMode)
	defer func() {
		if r := recover(); r != nil {
			sig, isSignal := r.(signal)
			if !isSignal {
				st.PopCatch(ctx)
				panic(r)
			}
			if sig.err != nil {
				st.Exception = sig.err
				st.Log.Throw(sig.err.Kind.String(), sig.err.Msg, true)
			}
			if trace != nil && effectiveMode != TraceOff {
				trace.Frames = st.Stack.Trace()
			}
			st.PopCatch(ctx)
			ok = false
			return
		}
		st.PopCatch(ctx)
	}()

	thunk()
	return true
}

// ProtectedCall wraps Call(callable, args) in an Mcatch, returning the
// callee's result and true on success, or a nil result and false on
// failure -- inspect PendingException to distinguish "returned nil" from
// "the call failed".
func ProtectedCall(st *rtstate.State, d *dispatch.Dispatcher, callable value.Value, args []value.Value) (value.Value, bool) {
	return protectedCall(st, d, "protected_call", callable, args)
}

// ProtectedCall0 is ProtectedCall with no arguments.
func ProtectedCall0(st *rtstate.State, d *dispatch.Dispatcher, callable value.Value) (value.Value, bool) {
	return protectedCall(st, d, "protected_call_0", callable, nil)
}

// ProtectedCall1Plus is ProtectedCall for the "first argument is
// significant, the rest are a tail vector" shape. Per §4.3's tie-break this
// shares Call1Plus's closure-arity skip, so a mixed-arity handler dispatched
// through an event path is not rejected here either.
func ProtectedCall1Plus(st *rtstate.State, d *dispatch.Dispatcher, callable value.Value, first value.Value, rest []value.Value) (value.Value, bool) {
	args := make([]value.Value, 0, 1+len(rest))
	args = append(args, first)
	args = append(args, rest...)
	return protectedCall1Plus(st, d, "protected_call_1_plus", callable, args)
}

// ProtectedCallV is ProtectedCall taking its arguments variadically.
func ProtectedCallV(st *rtstate.State, d *dispatch.Dispatcher, callable value.Value, args ...value.Value) (value.Value, bool) {
	return protectedCall(st, d, "protected_call_v", callable, args)
}

// asCallError normalizes any error returned by a callee into a
// *callerr.Error so Mthrow always has a classified kind to record.
func asCallError(err error) *callerr.Error {
	if cerr, ok := err.(*callerr.Error); ok {
		return cerr
	}
	return callerr.New(callerr.BadValue, "%v", err)
}

func protectedCall(st *rtstate.State, d *dispatch.Dispatcher, siteName string, callable value.Value, args []value.Value) (value.Value, bool) {
	var result value.Value
	ClearException(st)
	okResult := Mcatch(st, func() {
		r, err := d.CallNamed(siteName, callable, args)
		if err != nil {
			Mthrow(st, asCallError(err))
		}
		result = r
	}, st.DefaultTraceMode, nil)
	if !okResult {
		return nil, false
	}
	return result, true
}

// protectedCall1Plus is protectedCall routed through CallNamed1Plus, so the
// "1 + vector" closure-arity tie-break applies to the protected entry point
// too.
func protectedCall1Plus(st *rtstate.State, d *dispatch.Dispatcher, siteName string, callable value.Value, args []value.Value) (value.Value, bool) {
	var result value.Value
	ClearException(st)
	okResult := Mcatch(st, func() {
		r, err := d.CallNamed1Plus(siteName, callable, args)
		if err != nil {
			Mthrow(st, asCallError(err))
		}
		result = r
	}, st.DefaultTraceMode, nil)
	if !okResult {
		return nil, false
	}
	return result, true
}
