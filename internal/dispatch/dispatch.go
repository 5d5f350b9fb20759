// Package dispatch implements component D: given a callable and an argument
// vector, select and enter the correct execution path. Grounded on
// wazero's moduleEngine.Call / callEngine.callNativeFunc /
// callEngine.callGoFunc (internal/engine/interpreter/interpreter.go), which
// solve the same "one semantic call operation, several entry shapes"
// problem for Wasm closures versus host functions.
package dispatch

import (
	"fmt"

	"github.com/mudlle-go/callcore/internal/callerr"
	"github.com/mudlle-go/callcore/internal/callstack"
	"github.com/mudlle-go/callcore/internal/gate"
	"github.com/mudlle-go/callcore/internal/rootscope"
	"github.com/mudlle-go/callcore/internal/rtstate"
	"github.com/mudlle-go/callcore/value"
)

// Dispatcher is the family of entry points described in §4.3, all
// reducible to "invoke callable c with arguments a0..a{n-1}, return its
// single result". It holds no state of its own beyond a reference to the
// owning Runtime's shared state.
type Dispatcher struct {
	St *rtstate.State
}

// New returns a Dispatcher bound to st.
func New(st *rtstate.State) *Dispatcher {
	return &Dispatcher{St: st}
}

// Call0 enters c with no arguments, short-circuiting the general vector
// path -- no allocation occurs.
func (d *Dispatcher) Call0(c value.Value) (value.Value, error) {
	return d.dispatch(c, nil, "", false)
}

func (d *Dispatcher) Call1(c value.Value, a0 value.Value) (value.Value, error) {
	return d.dispatch(c, []value.Value{a0}, "", false)
}

func (d *Dispatcher) Call2(c value.Value, a0, a1 value.Value) (value.Value, error) {
	return d.dispatch(c, []value.Value{a0, a1}, "", false)
}

func (d *Dispatcher) Call3(c value.Value, a0, a1, a2 value.Value) (value.Value, error) {
	return d.dispatch(c, []value.Value{a0, a1, a2}, "", false)
}

func (d *Dispatcher) Call4(c value.Value, a0, a1, a2, a3 value.Value) (value.Value, error) {
	return d.dispatch(c, []value.Value{a0, a1, a2, a3}, "", false)
}

// Call1Plus is the common "first argument is significant, the rest are a
// tail vector" shape used by event-dispatch paths. Per §4.3's tie-break, if
// c is a closure the dispatcher does not check arity here -- any such check
// is left to the closure's own entry -- so mixed-arity handlers may be
// passed through this single entry.
func (d *Dispatcher) Call1Plus(c value.Value, first value.Value, rest []value.Value) (value.Value, error) {
	args := make([]value.Value, 0, 1+len(rest))
	args = append(args, first)
	args = append(args, rest...)
	return d.dispatch(c, args, "", true)
}

// Call is the general value+vector entry: nargs == 0 short-circuits to the
// zero-arg path with no allocation.
func (d *Dispatcher) Call(c value.Value, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return d.Call0(c)
	}
	return d.dispatch(c, args, "", false)
}

// CallV is the varargs-style entry: argc paired with a variadic Go call,
// routed internally to the same dispatch core.
func (d *Dispatcher) CallV(c value.Value, args ...value.Value) (value.Value, error) {
	return d.Call(c, args)
}

// CallNamed behaves like Call but pushes the callee's frame as a diagnostic
// KindNamedCCall frame carrying name (no separate extra frame is pushed),
// used by protected-call wrappers so a captured trace identifies the logical
// call site rather than an anonymous Go frame.
func (d *Dispatcher) CallNamed(name string, c value.Value, args []value.Value) (value.Value, error) {
	return d.dispatch(c, args, name, false)
}

// CallNamed1Plus is CallNamed for the "1 + vector" shape: used by
// catch.ProtectedCall1Plus so the same closure-arity tie-break Call1Plus
// gets also applies to its protected-call counterpart.
func (d *Dispatcher) CallNamed1Plus(name string, c value.Value, args []value.Value) (value.Value, error) {
	return d.dispatch(c, args, name, true)
}

// dispatch is the algorithm of §4.3, steps 1-7. skipClosureArity selects
// gate.CheckCallableTailVector over gate.CheckCallable for the "1 + vector"
// call shape (Call1Plus/CallNamed1Plus), per §4.3's tie-break: a closure
// callee is not re-checked for arity there, since the closure's own entry
// performs that check.
func (d *Dispatcher) dispatch(c value.Value, args []value.Value, siteName string, skipClosureArity bool) (result value.Value, err error) {
	callable, ok := value.AsCallable(c)
	if !ok {
		return nil, callerr.New(callerr.TypeError, "value is not a function")
	}

	nargs := len(args)

	// Step 1: the leaf reentrancy guard. A primitive that declares
	// itself leaf (OpLeaf) must not re-enter anything but another
	// native primitive while forbidCalls is set.
	if d.St.ForbidCalls {
		if _, isPrimitive := callable.(*value.Primitive); !isPrimitive {
			if _, isVariadic := callable.(*value.VariadicPrimitive); !isVariadic {
				panic(fmt.Errorf("callcore: forbidden call to %s while forbid-calls is set", callable.Name()))
			}
		}
	}

	// Gate: arity + privilege. Checked here so every entry path --
	// including the fixed-arity Call0..Call4 shortcuts -- gets the same
	// enforcement CheckCallable would give a host caller.
	checkFn := gate.CheckCallable
	if skipClosureArity {
		checkFn = gate.CheckCallableTailVector
	}
	if gerr := checkFn(d.St.Ceilings, c, nargs); gerr != nil {
		if gerr.Kind == callerr.SecurityViolation {
			d.St.Log.SecurityViolation(callable.Name(), gerr.Required, gerr.Have)
		}
		return nil, gerr
	}

	result, err = rootscopedDispatch(d, callable, args, nargs, siteName)
	if err == nil {
		d.St.Log.Dispatch(callable.Name(), fmt.Sprintf("%T", callable), nargs)
	}
	return result, err
}

// rootscopedDispatch performs steps 2-7 with the callable and its arguments
// enrolled as GC roots for the duration of the call, since entering a
// closure or allocating the variadic-primitive argument vector are both
// allocation sites under §4.3's rooting discipline.
func rootscopedDispatch(d *Dispatcher, callable value.Callable, args []value.Value, nargs int, siteName string) (result value.Value, err error) {
	roots := make([]value.Value, 0, nargs+1)
	roots = append(roots, callable)
	roots = append(roots, args...)

	err = rootscope.With(roots, func() error {
		var derr error
		result, derr = enter(d, callable, args, nargs, siteName)
		return derr
	})
	return result, err
}

func enter(d *Dispatcher, callable value.Callable, args []value.Value, nargs int, siteName string) (value.Value, error) {
	switch c := callable.(type) {
	case *value.Closure:
		return enterClosure(d, c, args, siteName)

	case *value.Primitive:
		frame := &callstack.Frame{Kind: callstack.KindNativePrimitive, Callable: c, Args: args, Nargs: nargs}
		if siteName != "" {
			frame.Kind, frame.Name = callstack.KindNamedCCall, siteName
		}
		if perr := d.St.Stack.CheckedPush(frame); perr != nil {
			d.St.Log.StackOverflow(d.St.Stack.Ceiling)
			return nil, callerr.New(callerr.BadValue, "%v", perr)
		}
		defer d.St.Stack.Pop()
		value.BumpCallCount(c)
		return c.Desc.Entry(args)

	case *value.VariadicPrimitive:
		frame := &callstack.Frame{Kind: callstack.KindNativePrimitive, Callable: c}
		if siteName != "" {
			frame.Kind, frame.Name = callstack.KindNamedCCall, siteName
		}
		if perr := d.St.Stack.CheckedPush(frame); perr != nil {
			d.St.Log.StackOverflow(d.St.Stack.Ceiling)
			return nil, callerr.New(callerr.BadValue, "%v", perr)
		}
		defer d.St.Stack.Pop()

		// The frame's Nargs is held at zero until the vector is fully
		// populated, so a GC mid-construction never observes a
		// partially-initialized argument slot (§4.4).
		vec := make([]value.Value, nargs)
		copy(vec, args)
		frame.Args = vec
		frame.Nargs = nargs

		value.BumpCallCount(c)
		return c.Entry(vec, nargs)

	default:
		// Unreachable: CheckCallable already rejected anything else.
		panic(fmt.Errorf("callcore: unreachable callable kind %T", callable))
	}
}

func enterClosure(d *Dispatcher, c *value.Closure, args []value.Value, siteName string) (value.Value, error) {
	frame := &callstack.Frame{Kind: callstack.KindNativeClosure, Callable: c, Args: args, Nargs: len(args)}
	if siteName != "" {
		frame.Kind, frame.Name = callstack.KindNamedCCall, siteName
	}
	if perr := d.St.Stack.CheckedPush(frame); perr != nil {
		d.St.Log.StackOverflow(d.St.Stack.Ceiling)
		return nil, callerr.New(callerr.BadValue, "%v", perr)
	}
	defer d.St.Stack.Pop()

	if c.Code.Native != nil {
		// Native-compiled closure: enter through the generic vector
		// invoker. A real native-code ABI would offer invoke_k for k
		// in 0..MaxPrimitiveArgs and fall back to invoke_vec beyond
		// that; in Go, escape analysis already gives the zero-overhead
		// property those per-arity invokers exist for, so a single
		// path suffices.
		return c.Code.Native(args)
	}

	if c.Code.Bytecode != nil {
		if d.St.Interpret == nil {
			return nil, callerr.New(callerr.BadValue,
				"closure %s has a bytecode body but no interpreter is wired into this build", c.Name())
		}
		// Reserve stack space and push the arguments left-to-right per
		// §4.3 step 4; the reservation itself is the interpreter's
		// concern (stack_reserve/stack_push in §6), so it is folded
		// into the Interpret hook rather than duplicated here.
		return d.St.Interpret(c.Code.Bytecode, c.Env, args)
	}

	return nil, callerr.New(callerr.BadValue, "closure %s has no code body", c.Name())
}
