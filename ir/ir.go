// Package ir models the instruction tree the compiler core consumes: the
// decoded body of a single WebAssembly function, already parsed by an
// external bytecode decoder. Decoding raw bytecode into this tree happens
// upstream of this module.
//
// Instructions are modeled as a tagged variant, one Go type per opcode
// shape, dispatched once per instruction by the emitter.
package ir

import "github.com/wasmbase/x64jit/api"

// Local is one declared-local group in a function body, e.g. "2 x i64".
// WebAssembly's local declarations are run-length encoded this way rather
// than one entry per local.
type Local struct {
	Count uint32
	Type  api.ValueType
}

// Code is a function's compilation input: its declared locals and
// instruction body. Parameters are not repeated here; they come from the
// function's own api.FuncType.
type Code struct {
	Locals []Local
	Body   []Instr
}

// NumDeclaredLocals returns the total count of locals declared by Locals,
// not counting parameters.
func (c *Code) NumDeclaredLocals() int {
	n := 0
	for _, l := range c.Locals {
		n += int(l.Count)
	}
	return n
}

// Kind identifies an instruction's shape for switch dispatch. It is
// deliberately a small closed enum covering only the opcode subset this
// compiler supports; an ir.Instr found elsewhere (e.g. decoded from a wider
// bytecode dialect) that has no matching Kind here is rejected by the
// compiler's opcode dispatch as unsupported.
type Kind byte

const (
	KindUnreachable Kind = iota
	KindNop
	KindBlock
	KindLoop
	KindIf
	KindBr
	KindBrIf
	KindBrTable
	KindReturn
	KindCall
	KindCallIndirect
	KindDrop
	KindGetLocal
	KindSetLocal
	KindTeeLocal
	KindGetGlobal
	KindSetGlobal
	KindLoad
	KindStore
	KindConstI32
	KindConstI64
	KindConstF64
	KindEqz
	KindCompare
	KindBinary
	KindFloatUnary
	KindFloatBinary
	KindI32WrapI64
	KindI32TruncF64
	KindI64ExtendI32
	KindF64ConvertI32
	KindI64ReinterpretF64
	KindF64ReinterpretI64
)

// Instr is implemented by every instruction shape in this package.
type Instr interface {
	Kind() Kind
}
