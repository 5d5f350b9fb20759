// Package rtstate bundles the state mudlle keeps as process-wide globals
// (call_stack, catch_context, mexception, maxseclevel, forbid_mudlle_calls)
// into a single value threaded through every entry point, per the
// context-passing design note. Every component below the public Runtime
// type operates on a *State rather than on package-level variables, which
// is what makes "each test owns a fresh runtime" possible.
package rtstate

import (
	"github.com/mudlle-go/callcore/internal/callerr"
	"github.com/mudlle-go/callcore/internal/callstack"
	"github.com/mudlle-go/callcore/internal/gate"
	"github.com/mudlle-go/callcore/internal/rtlog"
	"github.com/mudlle-go/callcore/value"
)

// TraceMode controls whether a protected call contributes to a captured
// diagnostic trace.
type TraceMode int

const (
	// TraceOn captures a trace on failure.
	TraceOn TraceMode = iota
	// TraceOff suppresses trace capture entirely.
	TraceOff
	// TraceBarrier captures a trace but stops it from extending further
	// outward, so an untrusted callee's frames don't leak past its own
	// catch point.
	TraceBarrier
)

// CatchContext is a saved point a protected call unwinds to on failure. It
// forms a chain via Prev mirroring the host call stack's own nesting --
// there is one CatchContext per currently-installed Mcatch.
type CatchContext struct {
	Mode          TraceMode
	SavedStackTop *callstack.Frame
	Prev          *CatchContext
}

// InheritedMode resolves the trace mode a new Mcatch should use: the local
// default (TraceOn) if there is no enclosing context or the enclosing
// context is itself a barrier, otherwise the enclosing context's mode.
func InheritedMode(enclosing *CatchContext) TraceMode {
	if enclosing == nil || enclosing.Mode == TraceBarrier {
		return TraceOn
	}
	return enclosing.Mode
}

// State is the mutable state shared by the dispatcher, the protected-call
// facility and the script-visible jump facility for one Runtime instance.
type State struct {
	Ceilings    gate.Ceilings
	Stack       callstack.Stack
	ForbidCalls bool

	// Exception is the single-slot "current exception" location: set by
	// Mthrow, inspected by PendingException, cleared by ClearException
	// (which every ProtectedCall* also does before dispatching).
	Exception *callerr.Error

	// Catch is the head of the installed catch-context chain, or nil if
	// no protected call is currently active.
	Catch *CatchContext

	// CallStackCeiling bounds callstack depth; exceeding it is reported
	// as a callerr.BadValue failure rather than a Go stack overflow.
	CallStackCeiling int

	// Interpret is the external interpreter collaborator consumed by the
	// dispatcher for a bytecode closure: do_interpret(closure, nargs) in
	// §6's terms. It is out of scope for this core (the lexer, parser
	// and opcode loop are separate collaborators); a host embedding an
	// actual bytecode interpreter wires it in, and a build with none
	// simply cannot enter bytecode closures.
	Interpret func(body *value.BytecodeBody, env any, args []value.Value) (value.Value, error)

	// Log receives dispatch, throw, and security-violation events. It is
	// never nil; New wires in rtlog.Discard when the caller doesn't supply
	// one.
	Log *rtlog.Logger

	// DefaultTraceMode is the mode a top-level ProtectedCall* installs when
	// the caller doesn't request a specific one -- the Runtime-configured
	// default, per RuntimeConfig.WithTraceMode, rather than a literal
	// TraceOn baked into the protected-call wrappers.
	DefaultTraceMode TraceMode
}

// New returns a State with the given ceilings and a generous default
// call-stack ceiling.
func New(ceilings gate.Ceilings) *State {
	s := &State{Ceilings: ceilings, CallStackCeiling: 4096, Log: rtlog.Discard, DefaultTraceMode: TraceOn}
	s.Stack.Ceiling = s.CallStackCeiling
	return s
}

// PushCatch installs a new catch context as the innermost one, returning it
// so the caller can pass it back to PopCatch on every exit path.
func (s *State) PushCatch(mode TraceMode) *CatchContext {
	ctx := &CatchContext{
		Mode:          mode,
		SavedStackTop: s.Stack.Identity(),
		Prev:          s.Catch,
	}
	s.Catch = ctx
	return ctx
}

// PopCatch restores the previously installed catch context and unwinds the
// reified call stack back to the point ctx was installed at. It is safe to
// call on both the success and failure path -- it is what gives Mcatch the
// "stack restoration" invariant (§8).
func (s *State) PopCatch(ctx *CatchContext) {
	s.Stack.RestoreTo(ctx.SavedStackTop)
	s.Catch = ctx.Prev
}
