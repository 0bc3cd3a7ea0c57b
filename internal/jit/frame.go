package jit

import "github.com/wasmbase/x64jit/api"

// maxIntArgRegs and maxFloatArgRegs are the number of System V AMD64 ABI
// registers available for integer and floating-point arguments
// respectively, before the caller must spill remaining arguments to the
// stack.
const (
	maxIntArgRegs   = 6
	maxFloatArgRegs = 8
)

// localSlot describes where one parameter or declared local lives relative
// to rbp: negative offsets are in the callee's own frame (either a
// register-spilled parameter or a declared local), positive offsets are a
// parameter the caller left on its stack past the register budget.
type localSlot struct {
	valType api.ValueType
	fpOffset int32
}

// frameLayout is the result of Phase 1 of function compilation: where every
// parameter and declared local lives, and how many quadwords of frame the
// prologue must reserve for register-spilled parameters and locals.
type frameLayout struct {
	slots         []localSlot
	numInputs     int
	frameQuadwords int
}

// computeFrameLayout implements the locals-placement algorithm: parameters
// are assigned to the same registers the caller used to pass them (spilled
// into the frame at prologue time), in order, until the integer or float
// register budget is exhausted; the rest are read directly from the
// caller's stack past the return address and saved rbp. Declared locals
// always live in the callee's own frame, immediately below the last
// register-spilled parameter, and are zero-initialized by the prologue.
func computeFrameLayout(params []api.ValueType, numDeclaredLocals int, declaredTypes []api.ValueType) (*frameLayout, error) {
	slots := make([]localSlot, len(params)+numDeclaredLocals)

	nMovs, nXMM, nStack := 0, 0, 0
	for i, t := range params {
		switch {
		case api.IsInteger(t) && nMovs < maxIntArgRegs:
			slots[i] = localSlot{valType: t, fpOffset: -int32(1+nMovs+nXMM) * 8}
			nMovs++
		case api.IsFloat(t) && nXMM < maxFloatArgRegs:
			slots[i] = localSlot{valType: t, fpOffset: -int32(1+nMovs+nXMM) * 8}
			nXMM++
		default:
			// Caller-stack argument: 2 quadwords past rbp skips the saved
			// rbp and the return address pushed by `call`.
			off := int64(nStack)*8 + 16
			if off > 0x7fffffff {
				return nil, ErrOffsetOverflow
			}
			slots[i] = localSlot{valType: t, fpOffset: int32(off)}
			nStack++
		}
	}

	base := -int32(1+nMovs+nXMM) * 8
	for i := 0; i < numDeclaredLocals; i++ {
		off := int64(base) - int64(i)*8
		if off < -0x80000000 {
			return nil, ErrOffsetOverflow
		}
		slots[len(params)+i] = localSlot{valType: declaredTypes[i], fpOffset: int32(off)}
	}

	return &frameLayout{
		slots:          slots,
		numInputs:      len(params),
		frameQuadwords: nMovs + nXMM + numDeclaredLocals,
	}, nil
}

func (f *frameLayout) at(idx uint32) (localSlot, bool) {
	if int(idx) >= len(f.slots) {
		return localSlot{}, false
	}
	return f.slots[idx], true
}
