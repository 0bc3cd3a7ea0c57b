package jit

import "github.com/wasmbase/x64jit/api"

// stackKind extends api.ValueType with a fifth tag for a label entry marking
// the start of a block/loop/if/function, mirroring the C source's
// StaticStack, which stores STACK_I32/I64/F32/F64 alongside STACK_LABEL in
// one vector.
type stackKind byte

const (
	stackI32 stackKind = stackKind(api.ValueTypeI32)
	stackI64 stackKind = stackKind(api.ValueTypeI64)
	stackF32 stackKind = stackKind(api.ValueTypeF32)
	stackF64 stackKind = stackKind(api.ValueTypeF64)
	stackLabel stackKind = 0xff
)

// labelData is carried by a stackLabel entry: the number of values the
// construct's `end` (or, for a loop, its own start) leaves on the operand
// stack, and which continuation slot branches to it should patch against.
type labelData struct {
	arity          int
	continuationID uint32
}

type stackElt struct {
	kind  stackKind
	label labelData
}

// staticStack is the compile-time operand-stack simulation used to know,
// at every point in a function body, how many values a `drop`, `end` or
// branch needs to pop and what type checks apply. It never holds run-time
// values, only shapes.
type staticStack struct {
	elts []stackElt
}

func (s *staticStack) push(kind stackKind) {
	s.elts = append(s.elts, stackElt{kind: kind})
}

func (s *staticStack) pushLabel(arity int, continuationID uint32) {
	s.elts = append(s.elts, stackElt{kind: stackLabel, label: labelData{arity: arity, continuationID: continuationID}})
}

func (s *staticStack) peek() (stackElt, bool) {
	if len(s.elts) == 0 {
		return stackElt{}, false
	}
	return s.elts[len(s.elts)-1], true
}

func (s *staticStack) pop() (stackElt, bool) {
	e, ok := s.peek()
	if !ok {
		return stackElt{}, false
	}
	s.elts = s.elts[:len(s.elts)-1]
	return e, true
}

func (s *staticStack) len() int {
	return len(s.elts)
}

// truncate drops the stack back to length n, used when a branch or `end`
// discards everything above a label's arity.
func (s *staticStack) truncate(n int) {
	s.elts = s.elts[:n]
}

// valueCount returns the number of non-label entries on the stack: the
// values actually sitting at a real %rsp offset right now, as opposed to
// label entries, which mark a control-flow construct and occupy no
// run-time stack space of their own. Callers use this to figure the real
// stack depth at a call site for 16-byte alignment.
func (s *staticStack) valueCount() int {
	n := 0
	for _, e := range s.elts {
		if e.kind != stackLabel {
			n++
		}
	}
	return n
}

// findLabel returns the stackElt for the labelIdx-th label counting from
// the top of the stack (0 = innermost enclosing construct), and the stack
// depth at which it sits.
func (s *staticStack) findLabel(labelIdx uint32) (stackElt, int, bool) {
	seen := uint32(0)
	for i := len(s.elts) - 1; i >= 0; i-- {
		if s.elts[i].kind == stackLabel {
			if seen == labelIdx {
				return s.elts[i], i, true
			}
			seen++
		}
	}
	return stackElt{}, 0, false
}
