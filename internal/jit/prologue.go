package jit

import "github.com/wasmbase/x64jit/api"

// intArgMovs are the "mov %reg, N(%rbp)" encodings (missing the trailing
// disp8) for the six integer argument registers in System V AMD64 ABI
// order.
var intArgMovs = [maxIntArgRegs][]byte{
	{0x48, 0x89, 0x7d}, // mov %rdi, N(%rbp)
	{0x48, 0x89, 0x75}, // mov %rsi, N(%rbp)
	{0x48, 0x89, 0x55}, // mov %rdx, N(%rbp)
	{0x48, 0x89, 0x4d}, // mov %rcx, N(%rbp)
	{0x4c, 0x89, 0x45}, // mov %r8, N(%rbp)
	{0x4c, 0x89, 0x4d}, // mov %r9, N(%rbp)
}

var floatArgMovSS = [maxFloatArgRegs][]byte{
	{0xf3, 0x0f, 0x11, 0x45}, {0xf3, 0x0f, 0x11, 0x4d},
	{0xf3, 0x0f, 0x11, 0x55}, {0xf3, 0x0f, 0x11, 0x5d},
	{0xf3, 0x0f, 0x11, 0x65}, {0xf3, 0x0f, 0x11, 0x6d},
	{0xf3, 0x0f, 0x11, 0x75}, {0xf3, 0x0f, 0x11, 0x7d},
}

var floatArgMovSD = [maxFloatArgRegs][]byte{
	{0xf2, 0x0f, 0x11, 0x45}, {0xf2, 0x0f, 0x11, 0x4d},
	{0xf2, 0x0f, 0x11, 0x55}, {0xf2, 0x0f, 0x11, 0x5d},
	{0xf2, 0x0f, 0x11, 0x65}, {0xf2, 0x0f, 0x11, 0x6d},
	{0xf2, 0x0f, 0x11, 0x75}, {0xf2, 0x0f, 0x11, 0x7d},
}

// emitPrologue is Phase 2: build the stack frame, spill register-passed
// arguments into it, and zero-initialize declared locals.
func (fc *funcCompiler) emitPrologue() {
	fc.buf.emit(0x55)             // push %rbp
	fc.buf.emit(0x48, 0x89, 0xe5) // mov %rsp, %rbp

	if fc.config.entryBreakpoint {
		fc.buf.emit(0xcc) // int3
	}

	frameBytes := fc.frame.frameQuadwords * 8
	if frameBytes != 0 {
		fc.buf.emit(0x48, 0x81, 0xec) // sub $N, %rsp
		fc.buf.emitU32LE(uint32(frameBytes))
	}

	nMovs, nXMM := 0, 0
	for i := 0; i < fc.frame.numInputs; i++ {
		slot := fc.frame.slots[i]
		if slot.fpOffset > 0 {
			continue // caller-stack argument, nothing to spill
		}
		switch {
		case api.IsInteger(slot.valType):
			fc.buf.emitBytes(intArgMovs[nMovs])
			nMovs++
		case slot.valType == api.ValueTypeF32:
			fc.buf.emitBytes(floatArgMovSS[nXMM])
			nXMM++
		default: // f64
			fc.buf.emitBytes(floatArgMovSD[nXMM])
			nXMM++
		}
		fc.buf.emit(byte(int8(slot.fpOffset)))
	}

	numDeclared := len(fc.frame.slots) - fc.frame.numInputs
	switch {
	case numDeclared == 0:
		// nothing to zero
	case numDeclared == 1:
		fc.buf.emit(0x48, 0xc7, 0x04, 0x24) // movq $0, (%rsp)
		fc.buf.emitU32LE(0)
	default:
		fc.buf.emit(0x48, 0x89, 0xe7)       // mov %rsp, %rdi
		fc.buf.emit(0x48, 0x31, 0xc0)       // xor %rax, %rax
		fc.buf.emit(0x48, 0xc7, 0xc1)       // mov $numDeclared, %rcx
		fc.buf.emitU32LE(uint32(numDeclared))
		fc.buf.emit(0xfc)             // cld
		fc.buf.emit(0xf3, 0x48, 0xab) // rep stosq
	}
}

// emitEpilogue is Phase 5: pop the single result (if any) into the return
// register for its class, tear down the frame and return.
//
// This deliberately improves on the single-result-in-rax convention of the
// reference implementation this design is grounded on: a float result is
// returned in xmm0, matching the ABI a caller would actually expect,
// instead of the integer register.
func (fc *funcCompiler) emitEpilogue(fnType api.FuncType) {
	if len(fnType.Results) == 1 {
		rt := fnType.Results[0]
		if api.IsFloat(rt) {
			if rt == api.ValueTypeF64 {
				fc.buf.emit(0xf2, 0x0f, 0x10, 0x04, 0x24) // movsd (%rsp), %xmm0
			} else {
				fc.buf.emit(0xf3, 0x0f, 0x10, 0x04, 0x24) // movss (%rsp), %xmm0
			}
			fc.buf.emit(0x48, 0x83, 0xc4, 0x08) // add $8, %rsp
		} else {
			fc.buf.emit(0x58) // pop %rax
		}
	}

	frameBytes := fc.frame.frameQuadwords * 8
	if frameBytes != 0 {
		fc.buf.emit(0x48, 0x81, 0xc4) // add $N, %rsp
		fc.buf.emitU32LE(uint32(frameBytes))
	}

	fc.buf.emit(0x5d) // pop %rbp
	fc.buf.emit(0xc3) // retq
}
