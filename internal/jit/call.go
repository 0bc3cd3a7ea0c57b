package jit

import (
	"fmt"

	"github.com/wasmbase/x64jit/abi"
	"github.com/wasmbase/x64jit/api"
	"github.com/wasmbase/x64jit/ir"
)

// intArgLoads and float*ArgLoads mirror the intArgMovs tables but load from
// a caller-computed displacement off %rsp instead of storing to %rbp,
// since by the time a call marshals its arguments they already sit on the
// operand stack rather than in the callee's not-yet-existing frame.
var intArgLoads = [maxIntArgRegs][]byte{
	{0x48, 0x8b, 0xbc, 0x24}, // mov N(%rsp), %rdi
	{0x48, 0x8b, 0xb4, 0x24}, // mov N(%rsp), %rsi
	{0x48, 0x8b, 0x94, 0x24}, // mov N(%rsp), %rdx
	{0x48, 0x8b, 0x8c, 0x24}, // mov N(%rsp), %rcx
	{0x4c, 0x8b, 0x84, 0x24}, // mov N(%rsp), %r8
	{0x4c, 0x8b, 0x8c, 0x24}, // mov N(%rsp), %r9
}

var floatArgLoadsSS = [maxFloatArgRegs][]byte{
	{0xf3, 0x0f, 0x10, 0x84, 0x24}, {0xf3, 0x0f, 0x10, 0x8c, 0x24},
	{0xf3, 0x0f, 0x10, 0x94, 0x24}, {0xf3, 0x0f, 0x10, 0x9c, 0x24},
	{0xf3, 0x0f, 0x10, 0xa4, 0x24}, {0xf3, 0x0f, 0x10, 0xac, 0x24},
	{0xf3, 0x0f, 0x10, 0xb4, 0x24}, {0xf3, 0x0f, 0x10, 0xbc, 0x24},
}

var floatArgLoadsSD = [maxFloatArgRegs][]byte{
	{0xf2, 0x0f, 0x10, 0x84, 0x24}, {0xf2, 0x0f, 0x10, 0x8c, 0x24},
	{0xf2, 0x0f, 0x10, 0x94, 0x24}, {0xf2, 0x0f, 0x10, 0x9c, 0x24},
	{0xf2, 0x0f, 0x10, 0xa4, 0x24}, {0xf2, 0x0f, 0x10, 0xac, 0x24},
	{0xf2, 0x0f, 0x10, 0xb4, 0x24}, {0xf2, 0x0f, 0x10, 0xbc, 0x24},
}

// argMarshalPlan records whether the call site needs an extra 8-byte pad
// to keep the call itself 16-byte aligned, computed up front so both the
// pad and the argument-load offsets it shifts agree with each other.
type argMarshalPlan struct {
	needsAlign bool
}

// planArgs figures the real stack depth at the point of the call: the
// calling function's own spilled frame (frameQuadwords), everything already sitting
// on the operand stack (stackValueCount, which includes the args about to
// be marshaled — they're already pushed), plus one more slot for every
// argument that will overflow into a `push N(%rsp)` copy rather than a
// register load, since each such push grows the real stack before the
// call executes.
func planArgs(params []api.ValueType, frameQuadwords, stackValueCount int) argMarshalPlan {
	depth := frameQuadwords + stackValueCount

	nMovs, nXMM := 0, 0
	for _, t := range params {
		switch {
		case api.IsInteger(t) && nMovs < maxIntArgRegs:
			nMovs++
		case api.IsFloat(t) && nXMM < maxFloatArgRegs:
			nXMM++
		default:
			depth++
		}
	}
	return argMarshalPlan{needsAlign: depth%2 != 0}
}

// emitCallSequence marshals the top len(params) operand stack slots into
// argument registers, re-pushing any overflow past the register budget so
// it lands in the caller-stack order System V expects immediately above
// the call, calls through %rax, cleans the stack back up and pushes the
// single result if there is one. The address to call must already be in
// %rax by the time this is invoked.
func (fc *funcCompiler) emitCallSequence(sig api.FuncType) error {
	if len(sig.Params) > 0 && fc.stack.len() < len(sig.Params) {
		return ErrStackUnderflow
	}

	plan := planArgs(sig.Params, fc.frame.frameQuadwords, fc.stack.valueCount())
	aligned := int32(0)
	if plan.needsAlign {
		aligned = 1
		fc.buf.emit(0x48, 0x83, 0xec, 0x08) // sub $8, %rsp
	}

	nMovs, nXMM, nStack := 0, 0, 0
	for i, t := range sig.Params {
		switch {
		case api.IsInteger(t) && nMovs < maxIntArgRegs:
			stackOffset := (int32(len(sig.Params)-i-1+nStack) + aligned) * 8
			fc.buf.emitBytes(intArgLoads[nMovs])
			fc.buf.emitI32LE(stackOffset)
			nMovs++
		case t == api.ValueTypeF32 && nXMM < maxFloatArgRegs:
			stackOffset := (int32(len(sig.Params)-i-1+nStack) + aligned) * 8
			fc.buf.emitBytes(floatArgLoadsSS[nXMM])
			fc.buf.emitI32LE(stackOffset)
			nXMM++
		case t == api.ValueTypeF64 && nXMM < maxFloatArgRegs:
			stackOffset := (int32(len(sig.Params)-i-1+nStack) + aligned) * 8
			fc.buf.emitBytes(floatArgLoadsSD[nXMM])
			fc.buf.emitI32LE(stackOffset)
			nXMM++
		default:
			// Overflow argument: the operand is somewhere below the top
			// of the stack, in reverse order relative to where the call
			// needs it, so it's re-pushed rather than left in place.
			stackOffset := (int32(len(sig.Params)-i-1+nStack) + aligned) * 8
			fc.buf.emit(0xff, 0xb4, 0x24) // push N(%rsp)
			fc.buf.emitI32LE(stackOffset)
			nStack++
		}
	}

	fc.buf.emit(0xff, 0xd0) // call *%rax

	cleanup := (int32(nStack+len(sig.Params)) + aligned) * 8
	fc.buf.emit(0x48, 0x81, 0xc4) // add $N, %rsp
	fc.buf.emitU32LE(uint32(cleanup))

	for range sig.Params {
		if _, ok := fc.stack.pop(); !ok {
			return ErrStackUnderflow
		}
	}

	if len(sig.Results) == 1 {
		rt := sig.Results[0]
		if api.IsFloat(rt) {
			fc.buf.emit(0x66, 0x48, 0x0f, 0x7e, 0xc0) // movq %xmm0, %rax
		}
		fc.buf.emit(0x50) // push %rax
		fc.stack.push(stackKind(rt))
	}
	return nil
}

func (fc *funcCompiler) compileCall(i ir.Call) error {
	sig, err := fc.types.FuncTypeOf(i.FuncIdx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownFunction, err)
	}

	fc.buf.emit(0x48, 0xb8) // movabs $const, %rax
	reloc := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocFunc, Index: i.FuncIdx, Offset: reloc, Size: 8})

	fc.buf.emit(0x48, 0x8b, 0x40) // mov compiledCodeOffset(%rax), %rax
	fc.buf.emit(byte(abi.FunctionInstanceCompiledCodeOffset))

	return fc.emitCallSequence(*sig)
}

func (fc *funcCompiler) compileCallIndirect(i ir.CallIndirect) error {
	sig, err := fc.types.TypeAt(i.TypeIdx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownFunction, err)
	}

	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI32 {
		return ErrTypeMismatch
	}

	fc.buf.emit(0x48, 0xbf) // movabs $const, %rdi (table base)
	tableSite := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocTable, Offset: tableSite, Size: 8})

	fc.buf.emit(0x48, 0xbe) // movabs $const, %rsi (type descriptor)
	typeSite := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocType, Index: i.TypeIdx, Offset: typeSite, Size: 8})

	fc.buf.emit(0x5a) // pop %rdx (table index, popped from the stack above)

	fc.buf.emit(0x48, 0xb8) // movabs $const, %rax (resolve_indirect_call helper)
	helperSite := fc.buf.emitPlaceholder64()
	fc.addReloc(Relocation{Kind: RelocIndirectCallHelper, Offset: helperSite, Size: 8})

	helperPad := (fc.frame.frameQuadwords+fc.stack.valueCount())%2 != 0
	if helperPad {
		fc.buf.emit(0x48, 0x83, 0xec, 0x08) // sub $8, %rsp (align for the helper call)
	}
	fc.buf.emit(0xff, 0xd0) // call *%rax
	if helperPad {
		fc.buf.emit(0x48, 0x83, 0xc4, 0x08) // add $8, %rsp
	}

	return fc.emitCallSequence(*sig)
}
