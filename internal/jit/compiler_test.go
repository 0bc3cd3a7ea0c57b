package jit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmbase/x64jit/api"
	"github.com/wasmbase/x64jit/ir"
)

func i32AddType() api.FuncType {
	return api.FuncType{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	}
}

func TestCompiler_i32Add(t *testing.T) {
	types := &api.TypeTables{}
	c := NewCompiler(types)

	fn, err := c.Compile(i32AddType(), ir.Code{
		Body: []ir.Instr{
			ir.GetLocal{Idx: 0},
			ir.GetLocal{Idx: 1},
			ir.Binary{Type: api.ValueTypeI32, Op: ir.BinAdd},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, fn.Code)
	require.Empty(t, fn.Relocations)

	// push %rbp; mov %rsp, %rbp
	require.Equal(t, byte(0x55), fn.Code[0])
	require.Equal(t, []byte{0x48, 0x89, 0xe5}, fn.Code[1:4])
	// retq is the very last byte emitted
	require.Equal(t, byte(0xc3), fn.Code[len(fn.Code)-1])
}

func TestCompiler_blockWithBranch(t *testing.T) {
	types := &api.TypeTables{}
	c := NewCompiler(types)

	fnType := api.FuncType{Results: []api.ValueType{api.ValueTypeI32}}
	fn, err := c.Compile(fnType, ir.Code{
		Body: []ir.Instr{
			&ir.Block{
				Type: ir.BlockType{Present: true, Type: api.ValueTypeI32},
				Body: []ir.Instr{
					ir.ConstI32{Value: 42},
					ir.Br{LabelIdx: 0},
				},
			},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, fn.Code)
}

func TestCompiler_call(t *testing.T) {
	callee := api.FuncType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	types := &api.TypeTables{
		FuncTypes:       []api.FuncType{callee},
		FuncTypeIndices: []uint32{0},
	}
	c := NewCompiler(types)

	fnType := api.FuncType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	fn, err := c.Compile(fnType, ir.Code{
		Body: []ir.Instr{
			ir.GetLocal{Idx: 0},
			ir.Call{FuncIdx: 0},
		},
	})
	require.NoError(t, err)
	require.Len(t, fn.Relocations, 1)
	require.Equal(t, RelocFunc, fn.Relocations[0].Kind)
}

func TestCompiler_unknownFunctionIndex(t *testing.T) {
	types := &api.TypeTables{}
	c := NewCompiler(types)
	fnType := api.FuncType{}
	_, err := c.Compile(fnType, ir.Code{
		Body: []ir.Instr{ir.Call{FuncIdx: 99}},
	})
	require.Error(t, err)
}

func TestCompiler_resultTypeMismatchRejected(t *testing.T) {
	types := &api.TypeTables{}
	c := NewCompiler(types)
	fnType := api.FuncType{Results: []api.ValueType{api.ValueTypeI32}}
	_, err := c.Compile(fnType, ir.Code{Body: nil})
	require.ErrorIs(t, err, ErrTypeMismatch)
}
