//go:build entry_breakpoint_enabled
// +build entry_breakpoint_enabled

package buildoptions

// EmitEntryBreakpoint is the default for whether the function prologue
// emits an int3 right after the frame pointer is set up. It is set by the
// entry_breakpoint_enabled build tag; jit.WithEntryBreakpoint overrides it
// for a single Compiler.
const EmitEntryBreakpoint = true
