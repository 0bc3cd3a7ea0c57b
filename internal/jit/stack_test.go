package jit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticStack_pushPeekPop(t *testing.T) {
	var s staticStack
	s.push(stackI32)
	s.push(stackF64)

	top, ok := s.peek()
	require.True(t, ok)
	require.Equal(t, stackF64, top.kind)

	top, ok = s.pop()
	require.True(t, ok)
	require.Equal(t, stackF64, top.kind)
	require.Equal(t, 1, s.len())

	_, ok = s.pop()
	require.True(t, ok)
	_, ok = s.pop()
	require.False(t, ok)
}

func TestStaticStack_findLabel(t *testing.T) {
	var s staticStack
	s.pushLabel(1, 0)
	s.push(stackI32)
	s.pushLabel(0, 1)
	s.push(stackI64)

	elt, idx, ok := s.findLabel(0)
	require.True(t, ok)
	require.Equal(t, uint32(1), elt.label.continuationID)
	require.Equal(t, 2, idx)

	elt, idx, ok = s.findLabel(1)
	require.True(t, ok)
	require.Equal(t, uint32(0), elt.label.continuationID)
	require.Equal(t, 0, idx)

	_, _, ok = s.findLabel(2)
	require.False(t, ok)
}

func TestStaticStack_truncate(t *testing.T) {
	var s staticStack
	s.push(stackI32)
	s.push(stackI32)
	s.push(stackI32)
	s.truncate(1)
	require.Equal(t, 1, s.len())
}

func TestStaticStack_valueCount(t *testing.T) {
	var s staticStack
	s.pushLabel(1, 0)
	s.push(stackI32)
	s.pushLabel(0, 1)
	s.push(stackI64)
	s.push(stackF64)

	require.Equal(t, 5, s.len())
	require.Equal(t, 3, s.valueCount())
}
