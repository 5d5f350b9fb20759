// Command gencall emits internal/offsets/offsets.go: the struct-field byte
// offset table a native-code trampoline needs for value.Closure,
// value.Primitive, value.OperationDescriptor, and callstack.Frame. It is the
// Go-native analogue of original_source/genconst.c, which does the
// equivalent job for mudlle's C structs via sizeof/offsetof and prints a C
// header instead of a Go source file.
//
// Run with `go run ./cmd/gencall > internal/offsets/offsets.go` after
// changing the layout of any of the structs above; the checked-in file is
// not regenerated automatically.
package main

import (
	"fmt"
	"os"
	"text/template"
	"unsafe"

	"github.com/mudlle-go/callcore/internal/callstack"
	"github.com/mudlle-go/callcore/value"
)

type tableData struct {
	Closure, Primitive, OperationDescriptor, CallStackFrame map[string]uintptr
}

func main() {
	var c value.Closure
	var p value.Primitive
	var d value.OperationDescriptor
	var f callstack.Frame

	data := tableData{
		Closure: map[string]uintptr{
			"DebugName": unsafe.Offsetof(c.DebugName),
			"Env":       unsafe.Offsetof(c.Env),
			"Code":      unsafe.Offsetof(c.Code),
			"ArgCount":  unsafe.Offsetof(c.ArgCount),
			"Variadic":  unsafe.Offsetof(c.Variadic),
		},
		Primitive: map[string]uintptr{
			"DebugName": unsafe.Offsetof(p.DebugName),
			"Desc":      unsafe.Offsetof(p.Desc),
			"Secure":    unsafe.Offsetof(p.Secure),
		},
		OperationDescriptor: map[string]uintptr{
			"Entry":    unsafe.Offsetof(d.Entry),
			"Arity":    unsafe.Offsetof(d.Arity),
			"SecLevel": unsafe.Offsetof(d.SecLevel),
			"Flags":    unsafe.Offsetof(d.Flags),
		},
		CallStackFrame: map[string]uintptr{
			"Kind":     unsafe.Offsetof(f.Kind),
			"Name":     unsafe.Offsetof(f.Name),
			"Nargs":    unsafe.Offsetof(f.Nargs),
			"Args":     unsafe.Offsetof(f.Args),
			"Callable": unsafe.Offsetof(f.Callable),
		},
	}

	if err := tmpl.Execute(os.Stdout, data); err != nil {
		fmt.Fprintln(os.Stderr, "gencall:", err)
		os.Exit(1)
	}
}

var tmpl = template.Must(template.New("offsets").Parse(`// Code generated by cmd/gencall. DO NOT EDIT.

package offsets

type Offset int32

type ClosureOffsets struct {
	DebugName Offset
	Env       Offset
	Code      Offset
	ArgCount  Offset
	Variadic  Offset
}

type PrimitiveOffsets struct {
	DebugName Offset
	Desc      Offset
	Secure    Offset
}

type OperationDescriptorOffsets struct {
	Entry    Offset
	Arity    Offset
	SecLevel Offset
	Flags    Offset
}

type CallStackFrameOffsets struct {
	Kind     Offset
	Name     Offset
	Nargs    Offset
	Args     Offset
	Callable Offset
}

type Table struct {
	Closure             ClosureOffsets
	Primitive           PrimitiveOffsets
	OperationDescriptor OperationDescriptorOffsets
	CallStackFrame      CallStackFrameOffsets
}

var Generated = Table{
	Closure: ClosureOffsets{
		DebugName: {{.Closure.DebugName}},
		Env:       {{.Closure.Env}},
		Code:      {{.Closure.Code}},
		ArgCount:  {{.Closure.ArgCount}},
		Variadic:  {{.Closure.Variadic}},
	},
	Primitive: PrimitiveOffsets{
		DebugName: {{.Primitive.DebugName}},
		Desc:      {{.Primitive.Desc}},
		Secure:    {{.Primitive.Secure}},
	},
	OperationDescriptor: OperationDescriptorOffsets{
		Entry:    {{.OperationDescriptor.Entry}},
		Arity:    {{.OperationDescriptor.Arity}},
		SecLevel: {{.OperationDescriptor.SecLevel}},
		Flags:    {{.OperationDescriptor.Flags}},
	},
	CallStackFrame: CallStackFrameOffsets{
		Kind:     {{.CallStackFrame.Kind}},
		Name:     {{.CallStackFrame.Name}},
		Nargs:    {{.CallStackFrame.Nargs}},
		Args:     {{.CallStackFrame.Args}},
		Callable: {{.CallStackFrame.Callable}},
	},
}
`))
