package jit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmbase/x64jit/api"
)

func TestComputeFrameLayout_registerArgs(t *testing.T) {
	params := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	layout, err := computeFrameLayout(params, 1, []api.ValueType{api.ValueTypeI64})
	require.NoError(t, err)

	require.Equal(t, int32(-8), layout.slots[0].fpOffset)
	require.Equal(t, int32(-16), layout.slots[1].fpOffset)
	require.Equal(t, int32(-24), layout.slots[2].fpOffset)
	require.Equal(t, 3, layout.frameQuadwords)
}

func TestComputeFrameLayout_overflowsToCallerStack(t *testing.T) {
	params := make([]api.ValueType, 8)
	for i := range params {
		params[i] = api.ValueTypeI32
	}
	layout, err := computeFrameLayout(params, 0, nil)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		require.Less(t, layout.slots[i].fpOffset, int32(0))
	}
	require.Equal(t, int32(16), layout.slots[6].fpOffset)
	require.Equal(t, int32(24), layout.slots[7].fpOffset)
	require.Equal(t, 6, layout.frameQuadwords)
}

func TestComputeFrameLayout_mixedIntFloat(t *testing.T) {
	params := []api.ValueType{api.ValueTypeF64, api.ValueTypeI32}
	layout, err := computeFrameLayout(params, 0, nil)
	require.NoError(t, err)
	require.Equal(t, int32(-8), layout.slots[0].fpOffset)
	require.Equal(t, int32(-16), layout.slots[1].fpOffset)
}
