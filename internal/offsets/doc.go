// Package offsets holds the struct-field byte offsets a native-code
// compiler or hand-written assembly trampoline would need to reach into a
// Closure, a Primitive, an OperationDescriptor, or a reified call-stack
// Frame without going through Go's normal field selectors. offsets.go is
// produced by cmd/gencall and checked in rather than computed at program
// start, the same way original_source/genconst.c's output is a generated
// header checked in alongside hand-written assembly, and the way
// wazevoapi.ExecutionContextOffsets is a checked-in table consumed by
// wazero's native compiler backend.
//
// Only exported fields are covered: an offset consumer outside the value
// package can only ever dereference through an exported field in the first
// place, so unexported bookkeeping (Primitive's atomic call counter,
// Frame's next pointer) has no ABI-stable offset here -- a constraint
// genconst.c doesn't have (C has no package-private fields) but that a Go
// rewrite must respect.
package offsets
