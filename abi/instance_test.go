package abi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGlobalValueOffsets_allZero pins the assumption emitGetGlobal /
// emitSetGlobal rely on: every member of the value union starts at byte 0,
// so the union member offset never needs to be added to
// GlobalInstanceValueOffset.
func TestGlobalValueOffsets_allZero(t *testing.T) {
	require.EqualValues(t, 0, GlobalValueI32Offset)
	require.EqualValues(t, 0, GlobalValueI64Offset)
	require.EqualValues(t, 0, GlobalValueF32Offset)
	require.EqualValues(t, 0, GlobalValueF64Offset)
}

func TestFunctionInstanceCompiledCodeOffset_isFirstField(t *testing.T) {
	require.EqualValues(t, 0, FunctionInstanceCompiledCodeOffset)
}

func TestMemoryInstanceOffsets_dataBeforeSize(t *testing.T) {
	require.Less(t, MemoryInstanceDataOffset, MemoryInstanceSizeOffset)
}

func TestPageSize(t *testing.T) {
	require.EqualValues(t, 65536, PageSize)
}
