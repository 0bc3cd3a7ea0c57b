package ir

import "github.com/wasmbase/x64jit/api"

// BlockType is the type carried by a block/loop/if construct: either the
// absent type (0x40 in the binary format) or a single value type, since
// WebAssembly 1.0 (MVP) has no multi-value blocks.
type BlockType struct {
	Present bool
	Type    api.ValueType
}

// Unreachable is the `unreachable` instruction: traps unconditionally.
type Unreachable struct{}

func (Unreachable) Kind() Kind { return KindUnreachable }

// Nop is the `nop` instruction.
type Nop struct{}

func (Nop) Kind() Kind { return KindNop }

// Block is a `block` construct: a forward branch target with no back edge.
type Block struct {
	Type BlockType
	Body []Instr
}

func (*Block) Kind() Kind { return KindBlock }

// Loop is a `loop` construct: a branch target at its own start, i.e. the
// br/br_if/br_table that name it jump backward to Loop's first instruction
// rather than past its last.
type Loop struct {
	Type BlockType
	Body []Instr
}

func (*Loop) Kind() Kind { return KindLoop }

// If is an `if`/`else` construct. Else may be nil when the source omitted
// the else arm.
type If struct {
	Type BlockType
	Then []Instr
	Else []Instr
}

func (*If) Kind() Kind { return KindIf }

// Br is an unconditional branch to the LabelIdx-th enclosing construct,
// counting outward from zero at the innermost.
type Br struct {
	LabelIdx uint32
}

func (Br) Kind() Kind { return KindBr }

// BrIf is a conditional branch: pops an i32, branches if it is nonzero.
type BrIf struct {
	LabelIdx uint32
}

func (BrIf) Kind() Kind { return KindBrIf }

// BrTable is the `br_table` multi-way branch. Targets holds the direct
// table; Default is used when the selector (popped as i32) is out of range.
type BrTable struct {
	Targets []uint32
	Default uint32
}

func (BrTable) Kind() Kind { return KindBrTable }

// Return exits the current function, popping its result (if any) from the
// operand stack the way an implicit branch to the outermost label would.
type Return struct{}

func (Return) Kind() Kind { return KindReturn }

// Call invokes a statically-known function by module-relative index.
type Call struct {
	FuncIdx uint32
}

func (Call) Kind() Kind { return KindCall }

// CallIndirect invokes a function looked up through the module's function
// table at a runtime-computed index, checked against TypeIdx's signature.
type CallIndirect struct {
	TypeIdx uint32
}

func (CallIndirect) Kind() Kind { return KindCallIndirect }

// Drop discards the top operand stack value without inspecting it.
type Drop struct{}

func (Drop) Kind() Kind { return KindDrop }
