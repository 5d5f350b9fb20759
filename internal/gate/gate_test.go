package gate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mudlle-go/callcore/internal/callerr"
	"github.com/mudlle-go/callcore/internal/gate"
	"github.com/mudlle-go/callcore/value"
)

func fixedPrimitive(nargs int) *value.Primitive {
	return value.NewPrimitive("add3", &value.OperationDescriptor{Arity: nargs}, false)
}

func TestIsCallableWith_NonCallable(t *testing.T) {
	require.False(t, gate.IsCallableWith(42, 0))
}

func TestIsCallableWith_FixedArityClosure(t *testing.T) {
	c := value.NewClosure("f", nil, value.CodeBody{}, 2, false)
	require.True(t, gate.IsCallableWith(c, 2))
	require.False(t, gate.IsCallableWith(c, 1))
	require.False(t, gate.IsCallableWith(c, 3))
}

func TestIsCallableWith_VariadicClosure(t *testing.T) {
	c := value.NewClosure("f", nil, value.CodeBody{}, 0, true)
	require.True(t, gate.IsCallableWith(c, 0))
	require.True(t, gate.IsCallableWith(c, value.MaxFunctionArgs))
	require.False(t, gate.IsCallableWith(c, value.MaxFunctionArgs+1))
}

func TestIsCallableWith_Primitive(t *testing.T) {
	p := fixedPrimitive(3)
	require.True(t, gate.IsCallableWith(p, 3))
	require.False(t, gate.IsCallableWith(p, 2))
}

func TestIsCallableWith_VariadicPrimitive(t *testing.T) {
	v := value.NewVariadicPrimitive("sum", nil)
	require.True(t, gate.IsCallableWith(v, 0))
	require.True(t, gate.IsCallableWith(v, value.MaxFunctionArgs))
	require.False(t, gate.IsCallableWith(v, value.MaxFunctionArgs+1))
}

func TestCheckCallable_TypeError(t *testing.T) {
	err := gate.CheckCallable(gate.Ceilings{}, 42, 0)
	require.NotNil(t, err)
	require.Equal(t, callerr.TypeError, err.Kind)
}

func TestCheckCallable_WrongParameters(t *testing.T) {
	p := fixedPrimitive(3)
	err := gate.CheckCallable(gate.Ceilings{}, p, 2)
	require.NotNil(t, err)
	require.Equal(t, callerr.WrongParameters, err.Kind)
	require.Contains(t, err.Msg, "add3")
	require.Contains(t, err.Msg, "2 arguments")
}

func TestCheckCallable_SecureRejectedByDefaultSeclevel(t *testing.T) {
	secure := value.NewPrimitive("dangerous", &value.OperationDescriptor{Arity: 0, SecLevel: 2}, true)
	err := gate.CheckCallable(gate.Ceilings{DefaultSeclevel: 1}, secure, 0)
	require.NotNil(t, err)
	require.Equal(t, callerr.SecurityViolation, err.Kind)
	require.Equal(t, 2, err.Required)
	require.Equal(t, 1, err.Have)
}

func TestCheckCallable_SecureAllowedWithinDefaultSeclevel(t *testing.T) {
	secure := value.NewPrimitive("dangerous", &value.OperationDescriptor{Arity: 0, SecLevel: 2}, true)
	err := gate.CheckCallable(gate.Ceilings{DefaultSeclevel: 2}, secure, 0)
	require.Nil(t, err)
}

func TestCheckCallable_SecureRejectedByMaxSeclevel(t *testing.T) {
	secure := value.NewPrimitive("dangerous", &value.OperationDescriptor{Arity: 0, SecLevel: 2}, true)
	ceil := gate.Ceilings{DefaultSeclevel: 5, MaxSeclevel: 1, HasMaxSeclevel: true}
	err := gate.CheckCallable(ceil, secure, 0)
	require.NotNil(t, err)
	require.Equal(t, callerr.SecurityViolation, err.Kind)
	require.Equal(t, 2, err.Required)
	require.Equal(t, 1, err.Have)
}

func TestCheckCallable_PrivilegeMonotonicity(t *testing.T) {
	secure := value.NewPrimitive("dangerous", &value.OperationDescriptor{Arity: 0, SecLevel: 2}, true)
	ceil := gate.Ceilings{DefaultSeclevel: 5, MaxSeclevel: 2, HasMaxSeclevel: true}
	require.Nil(t, gate.CheckCallable(ceil, secure, 0))

	// Lowering maxseclevel between two invocations must not let a
	// previously accepted secure primitive succeed again.
	ceil.MaxSeclevel = 1
	require.NotNil(t, gate.CheckCallable(ceil, secure, 0))
}

func TestCheckCallable_NonSecurePrimitiveIgnoresCeilings(t *testing.T) {
	p := value.NewPrimitive("plain", &value.OperationDescriptor{Arity: 0, SecLevel: 99}, false)
	ceil := gate.Ceilings{DefaultSeclevel: 0, MaxSeclevel: 0, HasMaxSeclevel: true}
	require.Nil(t, gate.CheckCallable(ceil, p, 0))
}

func TestCheckCallableTailVector_SkipsClosureArity(t *testing.T) {
	c := value.NewClosure("handler", nil, value.CodeBody{}, 2, false)
	require.NotNil(t, gate.CheckCallable(gate.Ceilings{}, c, 3))
	require.Nil(t, gate.CheckCallableTailVector(gate.Ceilings{}, c, 3))
}

func TestCheckCallableTailVector_StillChecksPrimitiveArity(t *testing.T) {
	p := fixedPrimitive(3)
	err := gate.CheckCallableTailVector(gate.Ceilings{}, p, 2)
	require.NotNil(t, err)
	require.Equal(t, callerr.WrongParameters, err.Kind)
}

func TestCheckCallableTailVector_StillChecksPrivilege(t *testing.T) {
	secure := value.NewPrimitive("dangerous", &value.OperationDescriptor{Arity: 0, SecLevel: 2}, true)
	err := gate.CheckCallableTailVector(gate.Ceilings{DefaultSeclevel: 1}, secure, 0)
	require.NotNil(t, err)
	require.Equal(t, callerr.SecurityViolation, err.Kind)
}

func TestMinlevelViolator(t *testing.T) {
	low := value.NewClosure("f", nil, value.CodeBody{SecLevel: 1}, 0, false)
	require.True(t, gate.MinlevelViolator(low, 2))
	require.False(t, gate.MinlevelViolator(low, 1))

	// Non-closure values are never violators.
	require.False(t, gate.MinlevelViolator(42, 10))
}
