package jit

import (
	"github.com/wasmbase/x64jit/abi"
	"github.com/wasmbase/x64jit/ir"
)

// emitBoundsCheckedAddress pops an i32 effective address off the operand
// stack into %rsi, adds memarg.offset (already biased by +4 so every load
// width can share one range check against the memory's declared size),
// loads the memory's size and data-pointer fields through a pair of MEM
// relocations, and traps via `int 4` if the address is out of range.
// %rax holds the data pointer and %rsi the biased address on return.
func (fc *funcCompiler) emitBoundsCheckedAddress(offset uint32) {
	fc.buf.emit(0x5e) // pop %rsi

	biased := offset + 4
	if biased != 0 {
		fc.buf.emit(0x48, 0x81, 0xc6) // add $biased, %rsi
		fc.buf.emitU32LE(biased)
	}

	fc.buf.emit(0x48, 0xb8) // movabs $const, %rax (memory base)
	sizeSite := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocMemory, Offset: sizeSite, Size: 8, Addend: int64(abi.MemoryInstanceSizeOffset)})
	fc.buf.emit(0x48, 0x8b, 0x40) // mov N(%rax), %rax
	fc.buf.emit(0)

	fc.buf.emit(0x48, 0x39, 0xc6)       // cmp %rax, %rsi
	fc.buf.emit(0x7e, 0x02, 0xcd, 0x04) // jle +2; int 4

	fc.buf.emit(0x48, 0xb8) // movabs $const, %rax (memory data pointer)
	dataSite := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocMemory, Offset: dataSite, Size: 8, Addend: int64(abi.MemoryInstanceDataOffset)})
	fc.buf.emit(0x48, 0x8b, 0x40) // mov N(%rax), %rax
	fc.buf.emit(0)
}

func (fc *funcCompiler) compileLoad(i ir.Load) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI32 {
		return ErrTypeMismatch
	}

	fc.emitBoundsCheckedAddress(i.Offset)

	var resultKind stackKind
	switch i.Op {
	case ir.LoadI32_8S:
		fc.buf.emit(0x0f, 0xbe, 0x44, 0x30, 0xfc) // movsbl -4(%rax,%rsi), %eax
		resultKind = stackI32
	case ir.LoadI32:
		fc.buf.emit(0x8b, 0x44, 0x30, 0xfc) // movl -4(%rax,%rsi), %eax
		resultKind = stackI32
	case ir.LoadI64:
		fc.buf.emit(0x48, 0x8b, 0x44, 0x30, 0xfc) // movq -4(%rax,%rsi), %rax
		resultKind = stackI64
	case ir.LoadF64:
		fc.buf.emit(0x48, 0x8b, 0x44, 0x30, 0xfc) // movq -4(%rax,%rsi), %rax
		resultKind = stackF64
	}

	fc.buf.emit(0x50) // push %rax
	fc.stack.push(resultKind)
	return nil
}

func (fc *funcCompiler) compileStore(i ir.Store) error {
	var wantKind stackKind
	switch i.Op {
	case ir.StoreI64:
		wantKind = stackI64
	case ir.StoreF64:
		wantKind = stackF64
	default:
		wantKind = stackI32
	}

	top, ok := fc.stack.pop()
	if !ok || top.kind != wantKind {
		return ErrTypeMismatch
	}
	fc.buf.emit(0x5f) // pop %rdi (value)

	addr, ok := fc.stack.pop()
	if !ok || addr.kind != stackI32 {
		return ErrTypeMismatch
	}

	fc.emitBoundsCheckedAddress(i.Offset)

	switch i.Op {
	case ir.StoreI32:
		fc.buf.emit(0x89, 0x7c, 0x30, 0xfc) // movl %edi, -4(%rax,%rsi)
	case ir.StoreI32_8:
		fc.buf.emit(0x40, 0x88, 0x7c, 0x30, 0xfc) // movb %dil, -4(%rax,%rsi)
	case ir.StoreI32_16:
		fc.buf.emit(0x66, 0x89, 0x7c, 0x30, 0xfc) // movw %di, -4(%rax,%rsi)
	case ir.StoreI64, ir.StoreF64:
		fc.buf.emit(0x48, 0x89, 0x7c, 0x30, 0xfc) // movq %rdi, -4(%rax,%rsi)
	}
	return nil
}
