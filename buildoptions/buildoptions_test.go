package buildoptions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDefaults pins the values every default (non-tagged) build should see;
// each build tag changes only the constants of its own pair of files.
func TestDefaults(t *testing.T) {
	require.True(t, CheckBlockNestingDepth)
	require.Equal(t, 1000, BlockNestingDepthLimit)
	require.False(t, EmitEntryBreakpoint)
	require.False(t, IsDebugMode)
}
