package jump_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mudlle-go/callcore/internal/callerr"
	"github.com/mudlle-go/callcore/internal/catch"
	"github.com/mudlle-go/callcore/internal/gate"
	"github.com/mudlle-go/callcore/internal/jump"
	"github.com/mudlle-go/callcore/internal/rtstate"
	"github.com/mudlle-go/callcore/value"
)

func newState() *rtstate.State {
	return rtstate.New(gate.Ceilings{})
}

func TestSetjmpLongjmpRoundTrip(t *testing.T) {
	st := newState()
	result := jump.Setjmp(st, func(buf *jump.Buffer) value.Value {
		jump.Longjmp(st, buf, 7)
		return 0 // unreachable
	})
	require.Equal(t, 7, result)
}

func TestSetjmpNormalReturn(t *testing.T) {
	st := newState()
	result := jump.Setjmp(st, func(buf *jump.Buffer) value.Value {
		return 9
	})
	require.Equal(t, 9, result)
}

func TestLongjmpOnStaleBufferFails(t *testing.T) {
	st := newState()
	var stale *jump.Buffer
	jump.Setjmp(st, func(buf *jump.Buffer) value.Value {
		stale = buf
		return 1
	})

	var caught *callerr.Error
	ok := catch.Mcatch(st, func() {
		jump.Longjmp(st, stale, 0)
	}, catch.TraceOn, nil)
	require.False(t, ok)
	caught = catch.PendingException(st)
	require.NotNil(t, caught)
	require.Equal(t, callerr.BadValue, caught.Kind)
}

func TestNestedSetjmpTargetsCorrectBuffer(t *testing.T) {
	st := newState()
	outerResult := jump.Setjmp(st, func(outerBuf *jump.Buffer) value.Value {
		innerResult := jump.Setjmp(st, func(innerBuf *jump.Buffer) value.Value {
			jump.Longjmp(st, outerBuf, 42)
			return 0 // unreachable
		})
		// Unreachable: the longjmp targets outerBuf, so control never
		// returns here.
		return innerResult
	})
	require.Equal(t, 42, outerResult)
}

func TestJumpIdempotence(t *testing.T) {
	st := newState()
	var buf *jump.Buffer
	jump.Setjmp(st, func(b *jump.Buffer) value.Value {
		buf = b
		jump.Longjmp(st, b, 1)
		return 0
	})

	ok := catch.Mcatch(st, func() {
		jump.Longjmp(st, buf, 2)
	}, catch.TraceOn, nil)
	require.False(t, ok)
	require.Equal(t, callerr.BadValue, catch.PendingException(st).Kind)
}
