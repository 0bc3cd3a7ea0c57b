// Package jit implements the single-pass baseline compiler that turns one
// decoded WebAssembly function body into position-independent x86-64
// machine code plus a relocation list, following the System V AMD64 ABI.
package jit

import (
	"fmt"

	"github.com/wasmbase/x64jit/api"
	"github.com/wasmbase/x64jit/buildoptions"
	"github.com/wasmbase/x64jit/ir"
)

// funcExitContinuation is the sentinel continuation ID meaning "patch this
// branch to the function's epilogue", used by `return` and by any branch
// that targets the implicit outermost label.
const funcExitContinuation = ^uint32(0)

// CompiledFunction is the result of compiling one function body: raw
// machine code, ready to be copied into executable memory by an external
// loader, and the relocations that code needs applied before it can run.
type CompiledFunction struct {
	Code        []byte
	Relocations []Relocation
}

// Option configures a Compiler. See WithDebugTrace and WithEntryBreakpoint.
type Option func(*compilerConfig)

type compilerConfig struct {
	debugTrace      bool
	entryBreakpoint bool
}

// WithDebugTrace enables printing a line to stdout for every instruction
// compiled, in addition to whatever buildoptions.IsDebugMode already
// gates. Useful for isolating which instruction produced malformed code
// without rebuilding with the debug tag.
func WithDebugTrace(enabled bool) Option {
	return func(c *compilerConfig) { c.debugTrace = enabled }
}

// WithEntryBreakpoint overrides buildoptions.EmitEntryBreakpoint for a
// single Compiler instance, letting a caller opt a specific module into
// prologue breakpoints without a build tag.
func WithEntryBreakpoint(enabled bool) Option {
	return func(c *compilerConfig) { c.entryBreakpoint = enabled }
}

// Compiler compiles function bodies against one fixed set of module-wide
// type tables. A Compiler is not safe for concurrent use by multiple
// goroutines on overlapping calls, matching the single-writer-per-function
// design of the code path it implements; separate Compiler values, or
// separate calls serialized by the caller, may run concurrently.
type Compiler struct {
	types  *api.TypeTables
	config compilerConfig
}

// NewCompiler constructs a Compiler over the module's function and global
// type tables. types must outlive every Compile call.
func NewCompiler(types *api.TypeTables, opts ...Option) *Compiler {
	c := &Compiler{
		types:  types,
		config: compilerConfig{entryBreakpoint: buildoptions.EmitEntryBreakpoint},
	}
	for _, opt := range opts {
		opt(&c.config)
	}
	return c
}

// Compile lowers one function body to machine code. fnType is the
// function's own signature; code is its decoded locals and instructions.
func (c *Compiler) Compile(fnType api.FuncType, code ir.Code) (*CompiledFunction, error) {
	if len(fnType.Results) > 1 {
		return nil, fmt.Errorf("jit: multi-value results not supported: %s", fnType.String())
	}

	declaredTypes := make([]api.ValueType, 0, code.NumDeclaredLocals())
	for _, l := range code.Locals {
		for i := uint32(0); i < l.Count; i++ {
			declaredTypes = append(declaredTypes, l.Type)
		}
	}

	layout, err := computeFrameLayout(fnType.Params, len(declaredTypes), declaredTypes)
	if err != nil {
		return nil, err
	}

	fc := &funcCompiler{
		buf:      &outputBuffer{},
		types:    c.types,
		thisType: fnType,
		frame:    layout,
		config:   c.config,
	}

	fc.emitPrologue()

	fc.stack.pushLabel(len(fnType.Results), funcExitContinuation)
	if err := fc.compileBody(code.Body); err != nil {
		return nil, err
	}

	if fc.stack.len() != 1+len(fnType.Results) {
		return nil, fmt.Errorf("%w: function body leaves %d values on the stack, want %d", ErrTypeMismatch, fc.stack.len()-1, len(fnType.Results))
	}
	for i, rt := range fnType.Results {
		if fc.stack.elts[1+i].kind != stackKind(rt) {
			return nil, fmt.Errorf("%w: result %d", ErrTypeMismatch, i)
		}
	}

	fc.patchBranches()
	fc.emitEpilogue(fnType)

	return &CompiledFunction{Code: fc.buf.bytes(), Relocations: fc.relocs}, nil
}

// funcCompiler holds all per-function compilation state: the growing output
// buffer, deferred relocations, the compile-time operand stack, the label
// continuation table and pending branch sites, and the frame layout
// computed up front.
type funcCompiler struct {
	buf      *outputBuffer
	relocs   []Relocation
	stack    staticStack
	types    *api.TypeTables
	thisType api.FuncType
	frame    *frameLayout
	config   compilerConfig

	continuations []uint32 // continuationID -> byte offset, filled once known
	branches      []branchSite
	depth         int
}

type branchSite struct {
	// siteOffset is the offset of the 4-byte rel32 field of an already
	// emitted `jmp rel32`.
	siteOffset     uint32
	continuationID uint32
}

// newLabel allocates a fresh continuation ID with an as-yet-unknown target
// offset.
func (fc *funcCompiler) newLabel() uint32 {
	id := uint32(len(fc.continuations))
	fc.continuations = append(fc.continuations, 0)
	return id
}

// markContinuation records the current buffer offset as the target for
// branches to id. Called once the offset becomes known: immediately at a
// loop's first instruction, or once a block/if's matching `end` is
// reached.
func (fc *funcCompiler) markContinuation(id uint32) {
	fc.continuations[id] = fc.buf.offset()
}

// addBranch records a `jmp rel32` (or `jcc rel32`) already emitted with a
// placeholder displacement, to be patched once every continuation's offset
// is known.
func (fc *funcCompiler) addBranch(siteOffset, continuationID uint32) {
	fc.branches = append(fc.branches, branchSite{siteOffset: siteOffset, continuationID: continuationID})
}

// patchBranches is Phase 4: every branch site recorded during body
// compilation is resolved against the continuation table, using the
// current end of the buffer for funcExitContinuation.
func (fc *funcCompiler) patchBranches() {
	exit := fc.buf.offset()
	for _, b := range fc.branches {
		target := exit
		if b.continuationID != funcExitContinuation {
			target = fc.continuations[b.continuationID]
		}
		fc.buf.patchRel32(b.siteOffset, target)
	}
}

func (fc *funcCompiler) addReloc(r Relocation) {
	fc.relocs = append(fc.relocs, r)
}
