// Package jump implements component G, the script-visible setjmp/longjmp
// analogue. It is built directly on catch.Mcatch -- a Buffer is a
// heap-allocated handle around a result slot, armed when Setjmp installs
// the catch, consumed when Longjmp fires or the catch returns normally, and
// holding an armed/consumed state field just as the design notes require.
package jump

import (
	"github.com/mudlle-go/callcore/internal/callerr"
	"github.com/mudlle-go/callcore/internal/catch"
	"github.com/mudlle-go/callcore/internal/rtstate"
	"github.com/mudlle-go/callcore/value"
)

type bufferState int

const (
	stateArmed bufferState = iota
	stateConsumed
	stateOutOfScope
)

// Buffer is the script-visible jump-buffer value. It is opaque to script
// code beyond being a Callable's argument: the only legal operations on it
// are passing it to Longjmp or letting it go out of scope when its
// enclosing Setjmp returns.
type Buffer struct {
	state  bufferState
	result value.Value
}

// longjmpSignal is the panic payload Longjmp raises; it carries the
// SIGNAL_LONGJMP the spec describes, distinct from a catch.signal raised by
// Mthrow so Setjmp's catch can tell "a script jumped here" apart from "a
// callee errored here".
type longjmpSignal struct {
	buf *Buffer
}

// Setjmp allocates a jump buffer, installs a catch context, and calls
// f(buf). If f returns normally, the buffer is disarmed (consumed) and the
// result is f's return value. If Longjmp(buf, x) fires from within f, the
// buffer's result slot is filled with x and Setjmp returns x instead.
func Setjmp(st *rtstate.State, f func(buf *Buffer) value.Value) value.Value {
	buf := &Buffer{state: stateArmed}

	ok := protectedThunk(st, buf, func() {
		buf.result = f(buf)
	})

	if buf.state == stateArmed {
		buf.state = stateConsumed
	}
	if !ok {
		// A genuine callcore error propagated through f (not a
		// longjmp targeting buf); MaybeMrethrow keeps it live for the
		// next outer catch.
		catch.MaybeMrethrow(st)
	}
	return buf.result
}

// protectedThunk is Mcatch specialized to additionally intercept a
// longjmpSignal aimed at buf specifically, so Setjmp can return normally
// with the jumped-to value instead of reporting a failure. A longjmp
// targeting a different (outer) buffer -- e.g. from within a nested
// Setjmp -- is re-panicked so it keeps unwinding to the Setjmp that owns
// it.
func protectedThunk(st *rtstate.State, buf *Buffer, thunk func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if sig, isLongjmp := r.(longjmpSignal); isLongjmp && sig.buf == buf {
				ok = true
				return
			}
			panic(r)
		}
	}()
	return catch.Mcatch(st, thunk, catch.TraceOn, nil)
}

// Longjmp performs a non-local return to the point buf's enclosing Setjmp
// installed: it fills buf's result slot with x, marks buf consumed, and
// transfers control there. Invoking Longjmp on a consumed or out-of-scope
// buffer is a runtime error, not a panic recoverable by script code other
// than through the normal protected-call machinery.
func Longjmp(st *rtstate.State, buf *Buffer, x value.Value) {
	if buf.state != stateArmed {
		catch.Mthrow(st, callerr.New(callerr.BadValue, "longjmp on a consumed or out-of-scope jump buffer"))
		return
	}
	buf.result = x
	buf.state = stateConsumed
	panic(longjmpSignal{buf: buf})
}
