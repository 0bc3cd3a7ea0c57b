package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuncType_String(t *testing.T) {
	ft := FuncType{Params: []ValueType{ValueTypeI32, ValueTypeI64}, Results: []ValueType{ValueTypeF64}}
	require.Equal(t, "(i32, i64) -> (f64)", ft.String())

	empty := FuncType{}
	require.Equal(t, "() -> ()", empty.String())
}

func TestTypeTables_FuncTypeOf(t *testing.T) {
	tt := &TypeTables{
		FuncTypes:       []FuncType{{Results: []ValueType{ValueTypeI32}}},
		FuncTypeIndices: []uint32{0},
	}
	ft, err := tt.FuncTypeOf(0)
	require.NoError(t, err)
	require.Equal(t, []ValueType{ValueTypeI32}, ft.Results)

	_, err = tt.FuncTypeOf(1)
	require.Error(t, err)
}

func TestTypeTables_GlobalTypeAt(t *testing.T) {
	tt := &TypeTables{GlobalTypes: []ValueType{ValueTypeF32}}
	vt, err := tt.GlobalTypeAt(0)
	require.NoError(t, err)
	require.Equal(t, ValueTypeF32, vt)

	_, err = tt.GlobalTypeAt(5)
	require.Error(t, err)
}
