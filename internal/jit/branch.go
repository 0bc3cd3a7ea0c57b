package jit

import "github.com/wasmbase/x64jit/ir"

// emitBranchTo implements the shared branch-taking sequence used by br,
// br_if and each br_table arm: shift the label's arity worth of values
// down to where the stack sat when the label was pushed, drop everything
// above them, then jump to the label's continuation. The move happens
// backward (std + rep movsq) so overlapping source and destination ranges
// don't clobber values still to be copied.
func (fc *funcCompiler) emitBranchTo(labelIdx uint32) error {
	elt, j, ok := fc.stack.findLabel(labelIdx)
	if !ok {
		return ErrInvalidBranchTarget
	}
	arity := elt.label.arity
	if fc.stack.len() < j+int(labelIdx)+1+arity {
		return ErrStackUnderflow
	}
	stackShift := int32(fc.stack.len()-j-(int(labelIdx)+1)-arity) * 8

	if arity != 0 {
		off := int32(arity-1) * 8

		fc.buf.emit(0x48, 0x89, 0xe6) // mov %rsp, %rsi
		if arity-1 != 0 {
			fc.buf.emit(0x48, 0x81, 0xc6) // add $off, %rsi
			fc.buf.emitI32LE(off)
		}
		fc.buf.emit(0x48, 0x89, 0xe7) // mov %rsp, %rdi
		if off+stackShift != 0 {
			fc.buf.emit(0x48, 0x81, 0xc7) // add off+stackShift, %rdi
			fc.buf.emitI32LE(off + stackShift)
		}
		fc.buf.emit(0x48, 0xc7, 0xc1) // mov $arity, %rcx
		fc.buf.emitU32LE(uint32(arity))
		fc.buf.emit(0xfd)             // std
		fc.buf.emit(0x48, 0xa5)       // rep movsq
	}

	if stackShift != 0 {
		fc.buf.emit(0x48, 0x81, 0xc4) // add stackShift, %rsp
		fc.buf.emitI32LE(stackShift)
	}

	siteOff := fc.buf.offset()
	fc.buf.emit(0xe9) // jmp rel32
	fc.buf.emitPlaceholder32()
	fc.addBranch(siteOff+1, elt.label.continuationID)
	return nil
}

func (fc *funcCompiler) compileBr(i ir.Br) error {
	return fc.emitBranchTo(i.LabelIdx)
}

func (fc *funcCompiler) compileBrIf(i ir.BrIf) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI32 {
		return ErrTypeMismatch
	}
	fc.buf.emit(0x5e)       // pop %rsi
	fc.buf.emit(0x85, 0xf6) // test %esi, %esi

	jeOff := fc.buf.offset()
	fc.buf.emit(0x74, 0x00) // je rel8, patched below

	if err := fc.emitBranchTo(i.LabelIdx); err != nil {
		return err
	}

	rel := int64(fc.buf.offset()) - int64(jeOff+2)
	if rel < 0 || rel > 127 {
		return ErrInvalidBranchTarget
	}
	fc.buf.bytes()[jeOff+1] = byte(rel)
	return nil
}

func (fc *funcCompiler) compileBrTable(i ir.BrTable) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI32 {
		return ErrTypeMismatch
	}

	fc.buf.emit(0x58) // pop %rax

	fc.buf.emit(0x48, 0x3d) // cmp $n, %rax
	fc.buf.emitU32LE(uint32(len(i.Targets)))

	fc.buf.emit(0x0f, 0x83) // jae rel32 (default branch)
	defaultSite := fc.buf.emitPlaceholder32()

	fc.buf.emit(0x48, 0x8d, 0x15, 0x09, 0x00, 0x00, 0x00) // lea 9(%rip), %rdx
	fc.buf.emit(0x48, 0x63, 0x04, 0x82)                   // movslq (%rdx,%rax,4), %rax
	fc.buf.emit(0x48, 0x01, 0xd0)                         // add %rdx, %rax
	fc.buf.emit(0xff, 0xe0)                               // jmp *%rax

	tableOff := fc.buf.offset()
	for range i.Targets {
		fc.buf.emitPlaceholder32()
	}

	endJumps := make([]uint32, len(i.Targets))
	for idx, label := range i.Targets {
		ipOffset := fc.buf.offset() - tableOff
		fc.buf.patchU32LE(tableOff+uint32(idx)*4, ipOffset)

		if err := fc.emitBranchTo(label); err != nil {
			return err
		}

		fc.buf.emit(0xe9) // jmp rel32 to end
		endJumps[idx] = fc.buf.emitPlaceholder32()
	}

	fc.buf.patchU32LE(defaultSite, fc.buf.offset()-(defaultSite+4))
	if err := fc.emitBranchTo(i.Default); err != nil {
		return err
	}

	for _, site := range endJumps {
		fc.buf.patchRel32(site, fc.buf.offset())
	}
	return nil
}

// compileReturn implements the shared exit path: shift the function's
// result values (if any) down to sit just above the frame, reset rsp to
// that point, then jump to the epilogue.
func (fc *funcCompiler) compileReturn() error {
	arity := len(fc.thisType.Results)
	if arity != 0 {
		if fc.stack.len() < arity {
			return ErrStackUnderflow
		}
		fc.buf.emit(0x48, 0x8d, 0x74, 0x24) // lea (arity-1)*8(%rsp), %rsi
		fc.buf.emit(byte(int8((arity - 1) * 8)))

		fc.buf.emit(0x48, 0x8d, 0xbd) // lea N(%rbp), %rdi
		fc.buf.emitI32LE(int32(-(fc.frame.frameQuadwords + 1) * 8))

		fc.buf.emit(0x48, 0xc7, 0xc1) // mov $arity, %rcx
		fc.buf.emitU32LE(uint32(arity))

		fc.buf.emit(0xfd)       // std
		fc.buf.emit(0x48, 0xa5) // rep movsq
	}

	fc.buf.emit(0x48, 0x8d, 0xa5) // lea N(%rbp), %rsp
	fc.buf.emitI32LE(int32(-(fc.frame.frameQuadwords + arity) * 8))

	siteOff := fc.buf.offset()
	fc.buf.emit(0xe9)
	fc.buf.emitPlaceholder32()
	fc.addBranch(siteOff+1, funcExitContinuation)
	return nil
}
