package jit

import (
	"fmt"

	"github.com/wasmbase/x64jit/abi"
	"github.com/wasmbase/x64jit/ir"
)

func (fc *funcCompiler) compileGetLocal(i ir.GetLocal) error {
	slot, ok := fc.frame.at(i.Idx)
	if !ok {
		return fmt.Errorf("jit: local index %d out of range", i.Idx)
	}
	fc.buf.emit(0xff, 0xb5) // push N(%rbp)
	fc.buf.emitI32LE(slot.fpOffset)
	fc.stack.push(stackKind(slot.valType))
	return nil
}

func (fc *funcCompiler) compileSetLocal(i ir.SetLocal) error {
	slot, ok := fc.frame.at(i.Idx)
	if !ok {
		return fmt.Errorf("jit: local index %d out of range", i.Idx)
	}
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackKind(slot.valType) {
		return ErrTypeMismatch
	}
	fc.buf.emit(0x8f, 0x85) // pop N(%rbp)
	fc.buf.emitI32LE(slot.fpOffset)
	return nil
}

func (fc *funcCompiler) compileTeeLocal(i ir.TeeLocal) error {
	slot, ok := fc.frame.at(i.Idx)
	if !ok {
		return fmt.Errorf("jit: local index %d out of range", i.Idx)
	}
	top, ok := fc.stack.peek()
	if !ok || top.kind != stackKind(slot.valType) {
		return ErrTypeMismatch
	}
	fc.buf.emit(0x48, 0x8b, 0x04, 0x24) // mov (%rsp), %rax
	fc.buf.emit(0x48, 0x89, 0x85)       // mov %rax, N(%rbp)
	fc.buf.emitI32LE(slot.fpOffset)
	return nil
}

// globalValueOffset returns the offset of the value union within a
// GlobalInstance, added as the Relocation's Addend since the
// module-supplied global base address is only known to the loader. Every
// union member starts at byte 0 of the union, so the same offset serves
// all value types.
func globalValueOffset() int64 {
	return int64(abi.GlobalInstanceValueOffset)
}

func (fc *funcCompiler) compileGetGlobal(i ir.GetGlobal) error {
	t, err := fc.types.GlobalTypeAt(i.Idx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownGlobal, err)
	}

	fc.buf.emit(0x48, 0xb8) // movabs $const, %rax
	site := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocGlobal, Index: i.Idx, Offset: site, Size: 8, Addend: globalValueOffset()})

	if t == 0x7f || t == 0x7d { // i32 / f32
		fc.buf.emit(0x8b, 0x40) // mov N(%rax), %eax
	} else {
		fc.buf.emit(0x48, 0x8b, 0x40) // mov N(%rax), %rax
	}
	fc.buf.emit(0) // union offset already folded into the relocation addend

	fc.buf.emit(0x50) // push %rax
	fc.stack.push(stackKind(t))
	return nil
}

func (fc *funcCompiler) compileSetGlobal(i ir.SetGlobal) error {
	t, err := fc.types.GlobalTypeAt(i.Idx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownGlobal, err)
	}
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackKind(t) {
		return ErrTypeMismatch
	}

	fc.buf.emit(0x5a) // pop %rdx

	fc.buf.emit(0x48, 0xb8) // movabs $const, %rax
	site := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocGlobal, Index: i.Idx, Offset: site, Size: 8, Addend: globalValueOffset()})

	if t == 0x7f || t == 0x7d {
		fc.buf.emit(0x89, 0x50) // mov %edx, N(%rax)
	} else {
		fc.buf.emit(0x48, 0x89, 0x50) // mov %rdx, N(%rax)
	}
	fc.buf.emit(0)
	return nil
}
