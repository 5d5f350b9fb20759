// Package rootscope models mudlle's scoped_root(v...) { ... } construct: a
// lexically bounded enrollment of values as GC roots, guaranteed reachable
// for the scope's duration and released on every exit path.
//
// Go's collector is precise and needs no manual rooting -- any Value still
// referenced by a live local is already a root. The protocol is kept anyway
// because it is part of the call core's architecture (component B): every
// call-path function that holds arguments live across an allocation site
// (building an argument vector, reserving interpreter stack space, entering
// a callee) enrolls them here first. This keeps the Go code shaped the same
// way the original is shaped, and gives a stress-testing mode a place to
// assert that nothing slipped through uninstrumented.
package rootscope

import "github.com/mudlle-go/callcore/value"

// Scope is the explicit guard object the design notes call for in a
// language without destructors: a typed handle whose Release ends the
// enrollment. Most callers should prefer With, which guarantees Release
// runs on every path including a panic unwind.
type Scope struct {
	roots    []value.Value
	released bool
	onTrace  func(v []value.Value) // hook for the stress-GC test mode
}

// Enroll opens a new Scope rooting vs for its lifetime.
func Enroll(vs ...value.Value) *Scope {
	s := &Scope{roots: vs}
	if tracer != nil {
		tracer(vs)
	}
	return s
}

// Release ends the enrollment. Calling Release more than once is a no-op,
// matching the idempotence expected of a scope that may be released both by
// a deferred call and, on some paths, explicitly.
func (s *Scope) Release() {
	s.released = true
	s.roots = nil
}

// Released reports whether Release has been called; used only by tests.
func (s *Scope) Released() bool { return s.released }

// With runs fn with vs enrolled as roots for the duration of the call,
// releasing them on every exit path -- normal return, error return, or a
// panic propagating through fn (e.g. a dispatcher unwind via Mcatch).
func With(vs []value.Value, fn func() error) error {
	s := Enroll(vs...)
	defer s.Release()
	return fn()
}

// tracer, when set by EnableStressTracing, is invoked every time a Scope is
// opened. The stress-GC test mode (§8 "GC safety") uses this to force a
// collection at every allocation site the call core instruments, without
// requiring a separate build tag.
var tracer func(v []value.Value)

// EnableStressTracing installs f as the hook invoked on every Enroll, and
// returns a function that restores the previous hook. Intended for tests
// only.
func EnableStressTracing(f func(v []value.Value)) (restore func()) {
	prev := tracer
	tracer = f
	return func() { tracer = prev }
}
