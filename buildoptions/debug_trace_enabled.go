//go:build jit_debug_trace
// +build jit_debug_trace

package buildoptions

// IsDebugMode turns on per-instruction trace printing in the compiler's
// main dispatch loop for every Compiler. Flip it with the jit_debug_trace
// build tag; jit.WithDebugTrace turns the same tracing on for a single
// Compiler at run time.
const IsDebugMode = true
