package jit

import (
	"fmt"
	"math"

	"github.com/wasmbase/x64jit/api"
	"github.com/wasmbase/x64jit/ir"
)

func (fc *funcCompiler) compileConstI32(i ir.ConstI32) error {
	fc.buf.emit(0xb8) // mov $imm32, %eax (zero-extends into %rax)
	fc.buf.emitI32LE(i.Value)
	fc.buf.emit(0x50) // push %rax
	fc.stack.push(stackI32)
	return nil
}

func (fc *funcCompiler) compileConstI64(i ir.ConstI64) error {
	fc.buf.emit(0x48, 0xb8) // movabs $imm64, %rax
	fc.buf.emitU64LE(uint64(i.Value))
	fc.buf.emit(0x50) // push %rax
	fc.stack.push(stackI64)
	return nil
}

func (fc *funcCompiler) compileConstF64(i ir.ConstF64) error {
	fc.buf.emit(0x48, 0xb8) // movabs $imm64, %rax
	fc.buf.emitU64LE(math.Float64bits(i.Value))
	fc.buf.emit(0x50) // push %rax
	fc.stack.push(stackF64)
	return nil
}

func (fc *funcCompiler) compileEqz(i ir.Eqz) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackKind(i.Type) {
		return ErrTypeMismatch
	}
	fc.buf.emit(0x31, 0xc0)             // xor %eax, %eax
	fc.buf.emit(0x83, 0x3c, 0x24, 0x00) // cmpl $0, (%rsp)
	fc.buf.emit(0x0f, 0x94, 0xc0)       // sete %al
	fc.buf.emit(0x89, 0x04, 0x24)       // mov %eax, (%rsp)
	fc.stack.push(stackI32)
	return nil
}

// setccByte maps a CompareOp to the SETcc opcode's condition byte (the
// second byte of the 0f 9x encoding).
var setccByte = map[ir.CompareOp]byte{
	ir.CmpEq:  0x94, // sete
	ir.CmpNe:  0x95, // setne
	ir.CmpLtS: 0x9c, // setl
	ir.CmpLtU: 0x92, // setb
	ir.CmpGtS: 0x9f, // setg
	ir.CmpGtU: 0x97, // seta
	ir.CmpLeS: 0x9e, // setle
	ir.CmpLeU: 0x96, // setbe
	ir.CmpGeS: 0x9d, // setge
}

// i64CompareOps and f64CompareOps enumerate which comparisons the original
// opcode set actually supports for each wider type; a caller asking for
// anything else has stepped outside the canonical opcode list.
var i64CompareOps = map[ir.CompareOp]bool{ir.CmpEq: true, ir.CmpNe: true, ir.CmpLtS: true, ir.CmpGtU: true}
var f64CompareOps = map[ir.CompareOp]bool{ir.CmpEq: true, ir.CmpNe: true}

func (fc *funcCompiler) compileCompare(c ir.Compare) error {
	switch c.Type {
	case api.ValueTypeI32:
		return fc.compileIntCompare(c, stackI32, false)
	case api.ValueTypeI64:
		if !i64CompareOps[c.Op] {
			return fmt.Errorf("%w: i64 comparison %d", ErrUnsupportedOpcode, c.Op)
		}
		return fc.compileIntCompare(c, stackI64, true)
	case api.ValueTypeF64:
		if !f64CompareOps[c.Op] {
			return fmt.Errorf("%w: f64 comparison %d", ErrUnsupportedOpcode, c.Op)
		}
		return fc.compileFloatCompare(c)
	}
	return fmt.Errorf("%w: compare on type 0x%x", ErrUnsupportedOpcode, c.Type)
}

func (fc *funcCompiler) compileIntCompare(c ir.Compare, kind stackKind, wide bool) error {
	if b, ok := fc.stack.pop(); !ok || b.kind != kind {
		return ErrTypeMismatch
	}
	if a, ok := fc.stack.pop(); !ok || a.kind != kind {
		return ErrTypeMismatch
	}
	fc.buf.emit(0x5f) // pop %rdi
	if wide {
		fc.buf.emit(0x48)
	}
	fc.buf.emit(0x31, 0xc0) // xor %eax, %eax
	if wide {
		fc.buf.emit(0x48)
	}
	fc.buf.emit(0x39, 0x3c, 0x24) // cmp %rdi/%edi, (%rsp)

	sc, ok := setccByte[c.Op]
	if !ok {
		return fmt.Errorf("%w: comparison %d", ErrUnsupportedOpcode, c.Op)
	}
	fc.buf.emit(0x0f, sc, 0xc0) // setCC %al

	if wide {
		fc.buf.emit(0x48)
	}
	fc.buf.emit(0x89, 0x04, 0x24) // mov %rax/%eax, (%rsp)
	fc.stack.push(stackI32)
	return nil
}

func (fc *funcCompiler) compileFloatCompare(c ir.Compare) error {
	if b, ok := fc.stack.pop(); !ok || b.kind != stackF64 {
		return ErrTypeMismatch
	}
	if a, ok := fc.stack.pop(); !ok || a.kind != stackF64 {
		return ErrTypeMismatch
	}

	fc.buf.emit(0xf2, 0x0f, 0x10, 0x04, 0x24) // movsd (%rsp), %xmm0
	fc.buf.emit(0x48, 0x83, 0xc4, 0x08)       // add $8, %rsp
	fc.buf.emit(0x31, 0xc0)                   // xor %eax, %eax

	if c.Op == ir.CmpEq {
		fc.buf.emit(0x31, 0xd2) // xor %edx, %edx
	} else {
		fc.buf.emit(0xba, 0x01, 0x00, 0x00, 0x00) // mov $1, %edx
	}

	fc.buf.emit(0x66, 0x0f, 0x2e, 0x04, 0x24) // ucomisd (%rsp), %xmm0

	if c.Op == ir.CmpEq {
		fc.buf.emit(0x0f, 0x9b, 0xc0) // setnp %al
	} else {
		fc.buf.emit(0x0f, 0x9a, 0xc0) // setp %al
	}
	fc.buf.emit(0x0f, 0x45, 0xc2) // cmovne %edx, %eax

	fc.buf.emit(0x48, 0x89, 0x04, 0x24) // mov %rax, (%rsp)
	fc.stack.push(stackI32)
	return nil
}

func (fc *funcCompiler) compileBinary(b ir.Binary) error {
	if b.Op == ir.BinXor && b.Type == api.ValueTypeI64 {
		return fmt.Errorf("%w: i64.xor", ErrUnsupportedOpcode)
	}
	kind := stackKind(b.Type)
	wide := b.Type == api.ValueTypeI64

	switch b.Op {
	case ir.BinAdd, ir.BinSub, ir.BinMul, ir.BinAnd, ir.BinOr, ir.BinXor:
		return fc.compileArithOrLogic(b.Op, kind, wide)
	case ir.BinDivS, ir.BinDivU, ir.BinRemS, ir.BinRemU:
		return fc.compileDivRem(b.Op, kind, wide)
	case ir.BinShl, ir.BinShrS, ir.BinShrU:
		return fc.compileShift(b.Op, kind, wide)
	}
	return fmt.Errorf("%w: binary op %d", ErrUnsupportedOpcode, b.Op)
}

func (fc *funcCompiler) compileArithOrLogic(op ir.BinaryOp, kind stackKind, wide bool) error {
	if b, ok := fc.stack.pop(); !ok || b.kind != kind {
		return ErrTypeMismatch
	}
	if a, ok := fc.stack.peek(); !ok || a.kind != kind {
		return ErrTypeMismatch
	}

	fc.buf.emit(0x58) // pop %rax
	if wide {
		fc.buf.emit(0x48)
	}

	switch op {
	case ir.BinSub:
		fc.buf.emit(0x29, 0x04, 0x24) // sub %eax, (%rsp)
	case ir.BinAdd:
		fc.buf.emit(0x01, 0x04, 0x24) // add %eax, (%rsp)
	case ir.BinMul:
		fc.buf.emit(0xf7, 0x24, 0x24) // mul(l|q) (%rsp)
		if wide {
			fc.buf.emit(0x48)
		}
		fc.buf.emit(0x89, 0x04, 0x24) // mov %rax, (%rsp)
	case ir.BinAnd:
		fc.buf.emit(0x21, 0x04, 0x24) // and %eax, (%rsp)
	case ir.BinOr:
		fc.buf.emit(0x09, 0x04, 0x24) // or %eax, (%rsp)
	case ir.BinXor:
		fc.buf.emit(0x31, 0x04, 0x24) // xor %eax, (%rsp)
	}
	return nil
}

func (fc *funcCompiler) compileDivRem(op ir.BinaryOp, kind stackKind, wide bool) error {
	if b, ok := fc.stack.pop(); !ok || b.kind != kind {
		return ErrTypeMismatch
	}
	if a, ok := fc.stack.peek(); !ok || a.kind != kind {
		return ErrTypeMismatch
	}

	fc.buf.emit(0x5f) // pop %rdi (divisor)
	if wide {
		fc.buf.emit(0x48)
	}
	fc.buf.emit(0x8b, 0x04, 0x24) // mov (%rsp), %eax/%rax (dividend)

	signed := op == ir.BinDivS || op == ir.BinRemS
	if wide {
		fc.buf.emit(0x48)
	}
	if signed {
		fc.buf.emit(0x99) // cdq / cqo
		if wide {
			fc.buf.emit(0x48)
		}
		fc.buf.emit(0xf7, 0xff) // idiv %edi/%rdi
	} else {
		fc.buf.emit(0x31, 0xd2) // xor %edx, %edx
		if wide {
			fc.buf.emit(0x48)
		}
		fc.buf.emit(0xf7, 0xf7) // div %edi/%rdi
	}

	if wide {
		fc.buf.emit(0x48)
	}
	if op == ir.BinRemS || op == ir.BinRemU {
		fc.buf.emit(0x89, 0x14, 0x24) // mov %edx/%rdx, (%rsp)
	} else {
		fc.buf.emit(0x89, 0x04, 0x24) // mov %eax/%rax, (%rsp)
	}
	return nil
}

func (fc *funcCompiler) compileShift(op ir.BinaryOp, kind stackKind, wide bool) error {
	fc.buf.emit(0x59) // pop %rcx (shift amount)
	if b, ok := fc.stack.pop(); !ok || b.kind != kind {
		return ErrTypeMismatch
	}
	if a, ok := fc.stack.peek(); !ok || a.kind != kind {
		return ErrTypeMismatch
	}

	if wide {
		fc.buf.emit(0x48)
	}
	switch op {
	case ir.BinShl:
		fc.buf.emit(0xd3, 0x24, 0x24) // shl %cl, (%rsp)
	case ir.BinShrS:
		fc.buf.emit(0xd3, 0x3c, 0x24) // sar %cl, (%rsp)
	case ir.BinShrU:
		fc.buf.emit(0xd3, 0x2c, 0x24) // shr %cl, (%rsp)
	}
	return nil
}

func (fc *funcCompiler) compileFloatUnary(u ir.FloatUnary) error {
	top, ok := fc.stack.peek()
	if !ok || top.kind != stackF64 {
		return ErrTypeMismatch
	}
	switch u.Op {
	case ir.FloatNeg:
		fc.buf.emit(0x48, 0x0f, 0xba, 0x3c, 0x24, 0x3f) // btc $0x3f, (%rsp)
	}
	return nil
}

func (fc *funcCompiler) compileFloatBinary(b ir.FloatBinary) error {
	if v, ok := fc.stack.pop(); !ok || v.kind != stackF64 {
		return ErrTypeMismatch
	}
	if v, ok := fc.stack.peek(); !ok || v.kind != stackF64 {
		return ErrTypeMismatch
	}

	fc.buf.emit(0xf2, 0x0f, 0x10, 0x04, 0x24) // movsd (%rsp), %xmm0
	fc.buf.emit(0x48, 0x83, 0xc4, 0x08)       // add $8, %rsp

	switch b.Op {
	case ir.FloatAdd:
		fc.buf.emit(0xf2, 0x0f, 0x58, 0x04, 0x24) // addsd (%rsp), %xmm0
	case ir.FloatSub:
		fc.buf.emit(0xf2, 0x0f, 0x5c, 0x04, 0x24) // subsd (%rsp), %xmm0
	case ir.FloatMul:
		fc.buf.emit(0xf2, 0x0f, 0x59, 0x04, 0x24) // mulsd (%rsp), %xmm0
	}

	fc.buf.emit(0xf2, 0x0f, 0x11, 0x04, 0x24) // movsd %xmm0, (%rsp)
	return nil
}

func (fc *funcCompiler) compileI32WrapI64() error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI64 {
		return ErrTypeMismatch
	}
	fc.buf.emit(0xb8, 0xff, 0xff, 0xff, 0xff) // mov $0xffffffff, %eax
	fc.buf.emit(0x48, 0x21, 0x04, 0x24)       // and %rax, (%rsp)
	fc.stack.push(stackI32)
	return nil
}

func (fc *funcCompiler) compileI32TruncF64(i ir.I32TruncF64) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackF64 {
		return ErrTypeMismatch
	}
	if i.Signed {
		fc.buf.emit(0xf2, 0x0f, 0x2c, 0x04, 0x24) // cvttsd2si (%rsp), %eax
	} else {
		fc.buf.emit(0xf2, 0x48, 0x0f, 0x2c, 0x04, 0x24) // cvttsd2si (%rsp), %rax
		fc.buf.emit(0x89, 0xc0)                         // mov %eax, %eax
	}
	fc.buf.emit(0x48, 0x89, 0x04, 0x24) // mov %rax, (%rsp)
	fc.stack.push(stackI32)
	return nil
}

func (fc *funcCompiler) compileI64ExtendI32(i ir.I64ExtendI32) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI32 {
		return ErrTypeMismatch
	}
	if i.Signed {
		fc.buf.emit(0x48, 0x63, 0x04, 0x24) // movslq (%rsp), %rax
		fc.buf.emit(0x48, 0x89, 0x04, 0x24) // mov %rax, (%rsp)
	}
	// Unsigned extension needs no code: values are already stored
	// zero-extended to 64 bits in their 8-byte stack slot.
	fc.stack.push(stackI64)
	return nil
}

func (fc *funcCompiler) compileF64ConvertI32(i ir.F64ConvertI32) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI32 {
		return ErrTypeMismatch
	}
	if i.Signed {
		fc.buf.emit(0xf2, 0x0f, 0x2a, 0x04, 0x24) // cvtsi2sdl (%rsp), %xmm0
	} else {
		fc.buf.emit(0x8b, 0x04, 0x24)             // mov (%rsp), %eax
		fc.buf.emit(0xf2, 0x48, 0x0f, 0x2a, 0xc0) // cvtsi2sd %rax, %xmm0
	}
	fc.buf.emit(0xf2, 0x0f, 0x11, 0x04, 0x24) // movsd %xmm0, (%rsp)
	fc.stack.push(stackF64)
	return nil
}

func (fc *funcCompiler) compileI64ReinterpretF64() error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackF64 {
		return ErrTypeMismatch
	}
	fc.stack.push(stackI64)
	return nil
}

func (fc *funcCompiler) compileF64ReinterpretI64() error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI64 {
		return ErrTypeMismatch
	}
	fc.stack.push(stackF64)
	return nil
}
