package value

import "sync/atomic"

// CodeBody is the body of a Closure: either interpreted bytecode or a
// native-compiled entry point. The dispatcher switches on which one is
// present rather than on a further Kind, since from the caller's side both
// are just "a closure".
type CodeBody struct {
	// Bytecode is non-nil for an interpreted closure. Ops is opaque to
	// the call core -- it is handed to the interpreter collaborator
	// (do_interpret in mudlle terms) verbatim.
	Bytecode *BytecodeBody

	// Native is non-nil for a native-compiled closure, entered directly
	// through the native-code ABI rather than through the interpreter.
	Native func(args []Value) (Value, error)

	SecLevel int
}

// BytecodeBody is a placeholder for whatever the (out of scope) interpreter
// needs to resume a frame; the call core only ever threads it through.
type BytecodeBody struct {
	Ops any
}

// Closure pairs a code body with a captured environment. ArgCount and
// Variadic describe its arity; a variadic closure admits any nargs up to
// MaxFunctionArgs, a fixed-arity one admits exactly ArgCount.
type Closure struct {
	DebugName string
	Env       any
	Code      CodeBody
	ArgCount  int
	Variadic  bool
}

func NewClosure(name string, env any, code CodeBody, argCount int, variadic bool) *Closure {
	return &Closure{DebugName: name, Env: env, Code: code, ArgCount: argCount, Variadic: variadic}
}

func (c *Closure) Kind() Kind { return KindClosure }
func (c *Closure) Name() string {
	if c.DebugName == "" {
		return "<anonymous closure>"
	}
	return c.DebugName
}
func (c *Closure) Arity() (int, bool) { return c.ArgCount, c.Variadic }

// SecLevel reports the privilege level of the closure's code, used by
// MinlevelViolator.
func (c *Closure) SecLevel() int { return c.Code.SecLevel }

// Primitive is a fixed-arity native callable. Secure is the flag that turns
// a plain primitive into what mudlle calls a "secure primitive": the gate
// checks Desc.SecLevel against the active ceilings only when Secure is set.
type Primitive struct {
	DebugName string
	Desc      *OperationDescriptor
	Secure    bool

	callCount uint64 // atomic; incremented once per successful dispatch
}

func NewPrimitive(name string, desc *OperationDescriptor, secure bool) *Primitive {
	return &Primitive{DebugName: name, Desc: desc, Secure: secure}
}

func (p *Primitive) Kind() Kind       { return KindPrimitive }
func (p *Primitive) Name() string     { return p.DebugName }
func (p *Primitive) Arity() (int, bool) { return p.Desc.Arity, false }

// CallCount returns the number of successful dispatches to this primitive.
func (p *Primitive) CallCount() uint64 { return atomic.LoadUint64(&p.callCount) }

// bumpCallCount is called by the dispatcher exactly once per successful
// entry, never per attempted gate check.
func (p *Primitive) bumpCallCount() { atomic.AddUint64(&p.callCount, 1) }

// VariadicPrimitive receives its arguments as a length-prefixed vector
// rather than positional slots. It is never gated by privilege: mudlle only
// ever declares varargs primitives at the lowest trust level.
type VariadicPrimitive struct {
	DebugName string
	Entry     func(args []Value, n int) (Value, error)

	callCount uint64
}

func NewVariadicPrimitive(name string, entry func(args []Value, n int) (Value, error)) *VariadicPrimitive {
	return &VariadicPrimitive{DebugName: name, Entry: entry}
}

func (v *VariadicPrimitive) Kind() Kind         { return KindVariadicPrimitive }
func (v *VariadicPrimitive) Name() string       { return v.DebugName }
func (v *VariadicPrimitive) Arity() (int, bool) { return 0, true }
func (v *VariadicPrimitive) CallCount() uint64  { return atomic.LoadUint64(&v.callCount) }
func (v *VariadicPrimitive) bumpCallCount()     { atomic.AddUint64(&v.callCount, 1) }

// BumpCallCount is the dispatcher-facing hook for incrementing a callable's
// call counter. It is a no-op for closures, which mudlle does not count.
func BumpCallCount(c Callable) {
	switch cc := c.(type) {
	case *Primitive:
		cc.bumpCallCount()
	case *VariadicPrimitive:
		cc.bumpCallCount()
	}
}
