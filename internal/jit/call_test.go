package jit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmbase/x64jit/api"
)

// TestPlanArgs_countsFrameAndStackDepth reproduces the scenario a call
// site with one declared local (frameQuadwords=1) and two i32 operands
// already pushed for a two-i32-parameter callee: cur_stack_depth is
// 1 (frame) + 2 (already-pushed operands) = 3, odd, so a pad is required
// even though every parameter fits in registers and there is no overflow.
func TestPlanArgs_countsFrameAndStackDepth(t *testing.T) {
	params := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	plan := planArgs(params, 1, 2)
	require.True(t, plan.needsAlign)
}

func TestPlanArgs_evenDepthNeedsNoPad(t *testing.T) {
	params := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	plan := planArgs(params, 0, 2)
	require.False(t, plan.needsAlign)
}

// TestPlanArgs_overflowArgsShiftParity checks that a parameter overflowing
// the integer register budget contributes its own quadword to the depth
// used for alignment, on top of whatever is already on the stack.
func TestPlanArgs_overflowArgsShiftParity(t *testing.T) {
	params := make([]api.ValueType, 7) // 7th i32 overflows the 6-register budget
	for i := range params {
		params[i] = api.ValueTypeI32
	}

	// depth = 0 (frame) + 7 (stack) + 1 (overflow arg) = 8, even.
	plan := planArgs(params, 0, 7)
	require.False(t, plan.needsAlign)

	// depth = 1 (frame) + 7 (stack) + 1 (overflow arg) = 9, odd.
	plan = planArgs(params, 1, 7)
	require.True(t, plan.needsAlign)
}
