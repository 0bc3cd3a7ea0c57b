package jit

import "github.com/wasmbase/x64jit/buildoptions"

// buildoptionsCheckDepth reports whether depth has exceeded the configured
// nesting limit. It is a no-op returning false when the check is compiled
// out via the disable_block_depth_check build tag.
func buildoptionsCheckDepth(depth int) bool {
	return buildoptions.CheckBlockNestingDepth && depth > buildoptions.BlockNestingDepthLimit
}
