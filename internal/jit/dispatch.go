package jit

import (
	"fmt"

	"github.com/wasmbase/x64jit/buildoptions"
	"github.com/wasmbase/x64jit/ir"
)

// compileBody is Phase 3: walk a flat instruction sequence, dispatching
// each to its emitter by concrete ir type. This is the function-level
// entry point too, called once with the whole body after the label for the
// function's own implicit outermost block is already pushed.
func (fc *funcCompiler) compileBody(body []ir.Instr) error {
	for _, instr := range body {
		if fc.config.debugTrace || buildoptions.IsDebugMode {
			fmt.Printf("jit: compiling %T at offset %d\n", instr, fc.buf.offset())
		}
		if err := fc.compileInstr(instr); err != nil {
			return err
		}
	}
	return nil
}

func (fc *funcCompiler) compileInstr(instr ir.Instr) error {
	switch i := instr.(type) {
	case ir.Unreachable:
		fc.buf.emit(0x0f, 0x0b) // ud2
		return nil
	case ir.Nop:
		return nil
	case ir.Drop:
		if _, ok := fc.stack.pop(); !ok {
			return ErrStackUnderflow
		}
		fc.buf.emit(0x48, 0x83, 0xc4, 0x08) // add $8, %rsp
		return nil

	case *ir.Block:
		return fc.compileBlock(i)
	case *ir.Loop:
		return fc.compileLoop(i)
	case *ir.If:
		return fc.compileIf(i)
	case ir.Br:
		return fc.compileBr(i)
	case ir.BrIf:
		return fc.compileBrIf(i)
	case ir.BrTable:
		return fc.compileBrTable(i)
	case ir.Return:
		return fc.compileReturn()

	case ir.Call:
		return fc.compileCall(i)
	case ir.CallIndirect:
		return fc.compileCallIndirect(i)

	case ir.GetLocal:
		return fc.compileGetLocal(i)
	case ir.SetLocal:
		return fc.compileSetLocal(i)
	case ir.TeeLocal:
		return fc.compileTeeLocal(i)
	case ir.GetGlobal:
		return fc.compileGetGlobal(i)
	case ir.SetGlobal:
		return fc.compileSetGlobal(i)

	case ir.Load:
		return fc.compileLoad(i)
	case ir.Store:
		return fc.compileStore(i)

	case ir.ConstI32:
		return fc.compileConstI32(i)
	case ir.ConstI64:
		return fc.compileConstI64(i)
	case ir.ConstF64:
		return fc.compileConstF64(i)
	case ir.Eqz:
		return fc.compileEqz(i)
	case ir.Compare:
		return fc.compileCompare(i)
	case ir.Binary:
		return fc.compileBinary(i)
	case ir.FloatUnary:
		return fc.compileFloatUnary(i)
	case ir.FloatBinary:
		return fc.compileFloatBinary(i)

	case ir.I32WrapI64:
		return fc.compileI32WrapI64()
	case ir.I32TruncF64:
		return fc.compileI32TruncF64(i)
	case ir.I64ExtendI32:
		return fc.compileI64ExtendI32(i)
	case ir.F64ConvertI32:
		return fc.compileF64ConvertI32(i)
	case ir.I64ReinterpretF64:
		return fc.compileI64ReinterpretF64()
	case ir.F64ReinterpretI64:
		return fc.compileF64ReinterpretI64()
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedOpcode, instr)
}
