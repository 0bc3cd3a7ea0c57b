//go:build disable_block_depth_check
// +build disable_block_depth_check

package buildoptions

const (
	CheckBlockNestingDepth = false
	BlockNestingDepthLimit = 0
)
