package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mudlle-go/callcore/value"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		k        value.Kind
		expected string
	}{
		{value.KindNone, "none"},
		{value.KindClosure, "closure"},
		{value.KindPrimitive, "primitive"},
		{value.KindVariadicPrimitive, "variadic-primitive"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.expected, tc.k.String())
	}
}

func TestAsCallable(t *testing.T) {
	c, ok := value.AsCallable(42)
	require.False(t, ok)
	require.Nil(t, c)

	prim := value.NewPrimitive("add3", &value.OperationDescriptor{Arity: 3}, false)
	c, ok = value.AsCallable(prim)
	require.True(t, ok)
	require.Equal(t, value.KindPrimitive, c.Kind())
}

func TestPrimitiveCallCount(t *testing.T) {
	prim := value.NewPrimitive("add3", &value.OperationDescriptor{Arity: 3}, false)
	require.Zero(t, prim.CallCount())

	value.BumpCallCount(prim)
	value.BumpCallCount(prim)
	require.Equal(t, uint64(2), prim.CallCount())
}

func TestClosureArity(t *testing.T) {
	fixed := value.NewClosure("f", nil, value.CodeBody{}, 2, false)
	n, variadic := fixed.Arity()
	require.Equal(t, 2, n)
	require.False(t, variadic)

	vararg := value.NewClosure("g", nil, value.CodeBody{}, 0, true)
	_, variadic = vararg.Arity()
	require.True(t, variadic)
}

func TestClosureNameDefaultsWhenAnonymous(t *testing.T) {
	c := value.NewClosure("", nil, value.CodeBody{}, 0, false)
	require.Equal(t, "<anonymous closure>", c.Name())
}

func TestOpFlagsHas(t *testing.T) {
	f := value.OpLeaf | value.OpConstant
	require.True(t, f.Has(value.OpLeaf))
	require.True(t, f.Has(value.OpConstant))
	require.False(t, f.Has(value.OpNonAllocating))
}
