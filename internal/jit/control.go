package jit

import "github.com/wasmbase/x64jit/ir"

func blockArity(bt ir.BlockType) int {
	if bt.Present {
		return 1
	}
	return 0
}

// compileBlock emits a plain forward branch target: the body runs in
// sequence, `end` falls through, and any br/br_if/br_table naming this
// label jumps to just past the body.
func (fc *funcCompiler) compileBlock(b *ir.Block) error {
	arity := blockArity(b.Type)
	labelID := fc.newLabel()
	stackIdx := fc.stack.len()
	fc.stack.pushLabel(arity, labelID)

	if err := fc.compileBodyAt(b.Body); err != nil {
		return err
	}

	shiftLabelResults(&fc.stack, stackIdx, arity)
	fc.markContinuation(labelID)
	return nil
}

// compileLoop emits a backward branch target: the label's continuation is
// its own first instruction, so br/br_if/br_table naming it restart the
// loop body rather than exit it.
func (fc *funcCompiler) compileLoop(l *ir.Loop) error {
	arity := blockArity(l.Type)
	labelID := fc.newLabel()
	fc.markContinuation(labelID) // loop restarts here, known immediately

	stackIdx := fc.stack.len()
	fc.stack.pushLabel(arity, labelID)

	if err := fc.compileBodyAt(l.Body); err != nil {
		return err
	}

	shiftLabelResults(&fc.stack, stackIdx, arity)
	return nil
}

// compileIf emits a two-way branch: the top-of-stack i32 selects the then
// or else arm, both of which converge on a shared continuation past the
// whole construct.
func (fc *funcCompiler) compileIf(n *ir.If) error {
	top, ok := fc.stack.pop()
	if !ok || top.kind != stackI32 {
		return ErrTypeMismatch
	}

	fc.buf.emit(0x58)       // pop %rax
	fc.buf.emit(0x85, 0xc0) // test %eax, %eax

	fc.buf.emit(0x0f, 0x84) // je rel32 (to else/end)
	elseSite := fc.buf.emitPlaceholder32()

	arity := blockArity(n.Type)
	labelID := fc.newLabel()
	stackIdx := fc.stack.len()
	fc.stack.pushLabel(arity, labelID)

	if err := fc.compileBodyAt(n.Then); err != nil {
		return err
	}

	var afterElseSite uint32
	hasElse := len(n.Else) != 0
	if hasElse {
		fc.buf.emit(0xe9) // jmp rel32 (over else, to end)
		afterElseSite = fc.buf.emitPlaceholder32()
	}

	fc.buf.patchRel32(elseSite, fc.buf.offset())

	if hasElse {
		// The else arm starts from the stack as it was at the label, not
		// from whatever the then arm left on top of it.
		fc.stack.truncate(stackIdx + 1)
		if err := fc.compileBodyAt(n.Else); err != nil {
			return err
		}
		fc.buf.patchRel32(afterElseSite, fc.buf.offset())
	}

	shiftLabelResults(&fc.stack, stackIdx, arity)
	fc.markContinuation(labelID)
	return nil
}

// shiftLabelResults implements the stack fixup every block/loop/if
// performs after its body: the arity worth of result shapes the body left
// on top replace the label entry itself, discarding whatever the body
// pushed below them (values that were validated statically-reachable but
// never consumed, e.g. after an unconditional branch).
func shiftLabelResults(s *staticStack, labelStackIdx, arity int) {
	top := s.elts[len(s.elts)-arity:]
	dst := s.elts[labelStackIdx : labelStackIdx+arity]
	copy(dst, top)
	s.truncate(labelStackIdx + arity)
}

// compileBodyAt recurses into a nested instruction sequence, guarding
// against pathologically deep nesting the way a single-pass recursive
// descent compiler must since it has no explicit work-list.
func (fc *funcCompiler) compileBodyAt(body []ir.Instr) error {
	fc.depth++
	defer func() { fc.depth-- }()
	if buildoptionsCheckDepth(fc.depth) {
		return ErrBlockNestingTooDeep
	}
	return fc.compileBody(body)
}
