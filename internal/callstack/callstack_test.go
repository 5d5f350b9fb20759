package callstack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mudlle-go/callcore/internal/callstack"
)

func TestPushPopOrder(t *testing.T) {
	var s callstack.Stack
	require.Zero(t, s.Len())

	f1 := &callstack.Frame{Name: "outer"}
	f2 := &callstack.Frame{Name: "inner"}
	s.Push(f1)
	s.Push(f2)
	require.Equal(t, 2, s.Len())
	require.Same(t, f2, s.Top())

	require.Same(t, f2, s.Pop())
	require.Same(t, f1, s.Pop())
	require.Zero(t, s.Len())
}

func TestPopOnEmptyPanics(t *testing.T) {
	var s callstack.Stack
	require.Panics(t, func() { s.Pop() })
}

func TestIdentityAndRestoreTo(t *testing.T) {
	var s callstack.Stack
	base := s.Identity()

	s.Push(&callstack.Frame{Name: "a"})
	s.Push(&callstack.Frame{Name: "b"})
	require.NotEqual(t, base, s.Identity())

	s.RestoreTo(base)
	require.Equal(t, base, s.Identity())
	require.Zero(t, s.Len())
}

func TestTraceOrdersMostRecentFirst(t *testing.T) {
	var s callstack.Stack
	s.Push(&callstack.Frame{Kind: callstack.KindNamedCCall, Name: "outer", Nargs: 1})
	s.Push(&callstack.Frame{Kind: callstack.KindNativePrimitive, Name: "inner", Nargs: 2})

	trace := s.Trace()
	require.Len(t, trace, 2)
	require.Contains(t, trace[0], "inner")
	require.Contains(t, trace[1], "outer")
}
