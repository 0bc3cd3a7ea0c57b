package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmbase/x64jit/api"
)

func TestCode_NumDeclaredLocals(t *testing.T) {
	c := Code{Locals: []Local{
		{Count: 2, Type: api.ValueTypeI32},
		{Count: 3, Type: api.ValueTypeI64},
	}}
	require.Equal(t, 5, c.NumDeclaredLocals())
}

func TestCode_NumDeclaredLocals_empty(t *testing.T) {
	var c Code
	require.Equal(t, 0, c.NumDeclaredLocals())
}

// TestInstr_KindDispatch checks every instruction shape reports the Kind
// its own dispatch switch expects, so a mismatched receiver type (value vs
// pointer) isn't caught only at the internal/jit call site.
func TestInstr_KindDispatch(t *testing.T) {
	cases := []struct {
		name  string
		instr Instr
		want  Kind
	}{
		{"Unreachable", Unreachable{}, KindUnreachable},
		{"Nop", Nop{}, KindNop},
		{"Block", &Block{}, KindBlock},
		{"Loop", &Loop{}, KindLoop},
		{"If", &If{}, KindIf},
		{"Br", Br{}, KindBr},
		{"BrIf", BrIf{}, KindBrIf},
		{"BrTable", BrTable{}, KindBrTable},
		{"Return", Return{}, KindReturn},
		{"Call", Call{}, KindCall},
		{"CallIndirect", CallIndirect{}, KindCallIndirect},
		{"Drop", Drop{}, KindDrop},
		{"GetLocal", GetLocal{}, KindGetLocal},
		{"SetLocal", SetLocal{}, KindSetLocal},
		{"TeeLocal", TeeLocal{}, KindTeeLocal},
		{"GetGlobal", GetGlobal{}, KindGetGlobal},
		{"SetGlobal", SetGlobal{}, KindSetGlobal},
		{"Load", Load{}, KindLoad},
		{"Store", Store{}, KindStore},
		{"ConstI32", ConstI32{}, KindConstI32},
		{"ConstI64", ConstI64{}, KindConstI64},
		{"ConstF64", ConstF64{}, KindConstF64},
		{"Eqz", Eqz{}, KindEqz},
		{"Compare", Compare{}, KindCompare},
		{"Binary", Binary{}, KindBinary},
		{"FloatUnary", FloatUnary{}, KindFloatUnary},
		{"FloatBinary", FloatBinary{}, KindFloatBinary},
		{"I32WrapI64", I32WrapI64{}, KindI32WrapI64},
		{"I32TruncF64", I32TruncF64{}, KindI32TruncF64},
		{"I64ExtendI32", I64ExtendI32{}, KindI64ExtendI32},
		{"F64ConvertI32", F64ConvertI32{}, KindF64ConvertI32},
		{"I64ReinterpretF64", I64ReinterpretF64{}, KindI64ReinterpretF64},
		{"F64ReinterpretI64", F64ReinterpretI64{}, KindF64ReinterpretI64},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.instr.Kind())
		})
	}
}
