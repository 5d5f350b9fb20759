package callcore

import (
	"github.com/google/uuid"

	"github.com/mudlle-go/callcore/internal/catch"
	"github.com/mudlle-go/callcore/internal/dispatch"
	"github.com/mudlle-go/callcore/internal/gate"
	"github.com/mudlle-go/callcore/internal/jump"
	"github.com/mudlle-go/callcore/internal/rtstate"
	"github.com/mudlle-go/callcore/value"
)

// TraceMode re-exports rtstate's trace-capture modes: TraceOn, TraceOff,
// TraceBarrier.
type TraceMode = rtstate.TraceMode

const (
	TraceOn      = rtstate.TraceOn
	TraceOff     = rtstate.TraceOff
	TraceBarrier = rtstate.TraceBarrier
)

// Buffer is the script-visible jump-buffer handle Setjmp hands to its
// callback and Longjmp consumes.
type Buffer = jump.Buffer

// CaughtTrace holds the diagnostic trace a protected call captures on
// failure.
type CaughtTrace = catch.CaughtTrace

// Runtime is one independent call-core instance: its own privilege
// ceilings, reified call stack, pending-exception slot, and logger. Each
// Runtime is a UUID-tagged unit of isolation -- the same shared-nothing
// discipline the teacher gives each wazero Runtime/Store pair, generalized
// to the call core's own state instead of module instances.
type Runtime struct {
	id uuid.UUID
	st *rtstate.State
	d  *dispatch.Dispatcher
	cf *RuntimeConfig
}

// NewRuntime constructs a Runtime from cfg. A nil cfg uses NewRuntimeConfig.
func NewRuntime(cfg *RuntimeConfig) *Runtime {
	if cfg == nil {
		cfg = NewRuntimeConfig()
	}
	st := rtstate.New(cfg.ceilings)
	st.CallStackCeiling = cfg.callStackCeiling
	st.Stack.Ceiling = cfg.callStackCeiling
	st.DefaultTraceMode = cfg.defaultTraceMode

	id := uuid.New()
	st.Log = cfg.rtlogger().With("runtime_id", id.String())

	return &Runtime{
		id: id,
		st: st,
		d:  dispatch.New(st),
		cf: cfg,
	}
}

// ID returns the Runtime's correlation identifier, stable for its lifetime
// and suitable for distinguishing parallel runtimes in shared log output.
func (r *Runtime) ID() uuid.UUID { return r.id }

// SetInterpreter wires the bytecode interpreter collaborator a Closure with
// a Bytecode body is dispatched to. A Runtime with none configured rejects
// bytecode closures with ErrBadValue; native closures and primitives are
// unaffected.
func (r *Runtime) SetInterpreter(interp func(body *value.BytecodeBody, env any, args []value.Value) (value.Value, error)) {
	r.st.Interpret = interp
}

// IsCallableWith reports whether v can be dispatched with nargs arguments,
// ignoring privilege ceilings.
func (r *Runtime) IsCallableWith(v value.Value, nargs int) bool {
	return gate.IsCallableWith(v, nargs)
}

// MinlevelViolator reports whether v is a closure whose declared seclevel is
// below the Runtime's configured minlevel.
func (r *Runtime) MinlevelViolator(v value.Value) bool {
	return gate.MinlevelViolator(v, r.st.Ceilings.Minlevel)
}

// Call0..Call4 and Call/CallV are the unprotected dispatch entry points:
// a dispatch failure (wrong arity, insufficient privilege, stack overflow)
// returns a non-nil *Error rather than setting the pending exception, so an
// embedder that never calls into protected territory still gets ordinary Go
// error handling.
func (r *Runtime) Call0(c value.Value) (value.Value, error) { return r.d.Call0(c) }
func (r *Runtime) Call1(c value.Value, a0 value.Value) (value.Value, error) {
	return r.d.Call1(c, a0)
}
func (r *Runtime) Call2(c value.Value, a0, a1 value.Value) (value.Value, error) {
	return r.d.Call2(c, a0, a1)
}
func (r *Runtime) Call3(c value.Value, a0, a1, a2 value.Value) (value.Value, error) {
	return r.d.Call3(c, a0, a1, a2)
}
func (r *Runtime) Call4(c value.Value, a0, a1, a2, a3 value.Value) (value.Value, error) {
	return r.d.Call4(c, a0, a1, a2, a3)
}
func (r *Runtime) Call(c value.Value, args []value.Value) (value.Value, error) {
	return r.d.Call(c, args)
}
func (r *Runtime) CallV(c value.Value, args ...value.Value) (value.Value, error) {
	return r.d.CallV(c, args...)
}

// ProtectedCall, ProtectedCall0, and ProtectedCallV are mcatch-wrapped
// dispatch: a failure sets the Runtime's pending exception (inspect it via
// PendingException) instead of returning a Go error, and the reified call
// stack is always restored to its pre-call identity.
func (r *Runtime) ProtectedCall(c value.Value, args []value.Value) (value.Value, bool) {
	return catch.ProtectedCall(r.st, r.d, c, args)
}
func (r *Runtime) ProtectedCall0(c value.Value) (value.Value, bool) {
	return catch.ProtectedCall0(r.st, r.d, c)
}
func (r *Runtime) ProtectedCallV(c value.Value, args ...value.Value) (value.Value, bool) {
	return catch.ProtectedCallV(r.st, r.d, c, args...)
}

// Mcatch installs a catch point around thunk: see internal/catch.Mcatch.
func (r *Runtime) Mcatch(thunk func(), mode TraceMode, trace *CaughtTrace) bool {
	return catch.Mcatch(r.st, thunk, mode, trace)
}

// Mthrow raises err, transferring control to the nearest installed catch
// point. It never returns.
func (r *Runtime) Mthrow(err *Error) { catch.Mthrow(r.st, err) }

// Mrethrow re-raises the pending exception without altering it. It never
// returns.
func (r *Runtime) Mrethrow() { catch.Mrethrow(r.st) }

// MaybeMrethrow re-raises only if an exception is currently pending.
func (r *Runtime) MaybeMrethrow() { catch.MaybeMrethrow(r.st) }

// PendingException returns the Runtime's current exception, or nil.
func (r *Runtime) PendingException() *Error { return catch.PendingException(r.st) }

// ClearException clears the pending exception without jumping.
func (r *Runtime) ClearException() { catch.ClearException(r.st) }

// Setjmp and Longjmp are the script-visible non-local-jump primitives: see
// internal/jump.
func (r *Runtime) Setjmp(f func(buf *Buffer) value.Value) value.Value {
	return jump.Setjmp(r.st, f)
}
func (r *Runtime) Longjmp(buf *Buffer, x value.Value) { jump.Longjmp(r.st, buf, x) }

// SetForbidCalls toggles the leaf reentrancy guard. While set, dispatching
// to anything but a native primitive or variadic primitive panics -- this
// mirrors mudlle's forbid_mudlle_calls, which aborts the process rather
// than raising a catchable error, per §7: unexpected states are fatal. The
// flag is never cleared implicitly; a leaf primitive that itself calls back
// into the dispatcher is responsible for clearing it first.
func (r *Runtime) SetForbidCalls(forbid bool) { r.st.ForbidCalls = forbid }

// ForbidCalls reports the current state of the leaf reentrancy guard.
func (r *Runtime) ForbidCalls() bool { return r.st.ForbidCalls }

// StackDepth reports the number of in-flight reified call frames.
func (r *Runtime) StackDepth() int { return r.st.Stack.Len() }

// Trace renders the current reified call stack as diagnostic lines, most
// recent call first.
func (r *Runtime) Trace() []string { return r.st.Stack.Trace() }
