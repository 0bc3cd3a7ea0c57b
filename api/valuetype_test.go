package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueTypeName(t *testing.T) {
	require.Equal(t, "i32", ValueTypeName(ValueTypeI32))
	require.Equal(t, "f64", ValueTypeName(ValueTypeF64))
	require.Equal(t, "unknown", ValueTypeName(0x00))
}

func TestIsIntegerIsFloat(t *testing.T) {
	require.True(t, IsInteger(ValueTypeI32))
	require.True(t, IsInteger(ValueTypeI64))
	require.False(t, IsInteger(ValueTypeF64))

	require.True(t, IsFloat(ValueTypeF32))
	require.False(t, IsFloat(ValueTypeI64))
}

func TestIs64(t *testing.T) {
	require.True(t, Is64(ValueTypeI64))
	require.True(t, Is64(ValueTypeF64))
	require.False(t, Is64(ValueTypeI32))
	require.False(t, Is64(ValueTypeF32))
}
