//go:build amd64 && cgo && !windows

// Wasmtime and wasmer-go both require CGO on amd64 and don't link on
// Windows, so this comparison is gated the same way the benchmark it's
// modeled on is.
package bench

import (
	"testing"

	"github.com/bytecodealliance/wasmtime-go"
	"github.com/stretchr/testify/require"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/wasmbase/x64jit/api"
	"github.com/wasmbase/x64jit/internal/jit"
	"github.com/wasmbase/x64jit/ir"
)

// addWasm is the binary encoding of a module exporting a single function
// `add(a: i32, b: i32) -> i32 { return a + b }`, hand-assembled since this
// module has no bytecode decoder of its own to produce it from a .wat
// source: it exists purely to give wasmtime-go and wasmer-go a same-shaped
// module to compile for a side-by-side comparison against this package's
// direct-to-machine-code path.
var addWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic, version
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, // type section: (i32,i32)->i32
	0x03, 0x02, 0x01, 0x00, // function section: fn 0 uses type 0
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00, // export "add" func 0
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b, // code: get_local 0,1; i32.add; end
}

func addFuncType() api.FuncType {
	return api.FuncType{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	}
}

func addCode() ir.Code {
	return ir.Code{
		Body: []ir.Instr{
			ir.GetLocal{Idx: 0},
			ir.GetLocal{Idx: 1},
			ir.Binary{Type: api.ValueTypeI32, Op: ir.BinAdd},
		},
	}
}

// TestCompilersAgreeOnShape sanity-checks that both reference engines
// accept addWasm before it's used as the fixture for BenchmarkCompile*,
// and that this package's own compiler produces non-empty code plus no
// relocations for a function with no calls, globals or memory ops.
func TestCompilersAgreeOnShape(t *testing.T) {
	engine := wasmtime.NewEngine()
	_, err := wasmtime.NewModule(engine, addWasm)
	require.NoError(t, err)

	wasmerEngine := wasmer.NewEngine()
	store := wasmer.NewStore(wasmerEngine)
	_, err = wasmer.NewModule(store, addWasm)
	require.NoError(t, err)

	c := jit.NewCompiler(&api.TypeTables{})
	fn, err := c.Compile(addFuncType(), addCode())
	require.NoError(t, err)
	require.NotEmpty(t, fn.Code)
	require.Empty(t, fn.Relocations)
}

func BenchmarkCompileX64JIT(b *testing.B) {
	c := jit.NewCompiler(&api.TypeTables{})
	fnType, code := addFuncType(), addCode()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Compile(fnType, code); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileWasmtime(b *testing.B) {
	engine := wasmtime.NewEngine()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := wasmtime.NewModule(engine, addWasm); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileWasmer(b *testing.B) {
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := wasmer.NewModule(store, addWasm); err != nil {
			b.Fatal(err)
		}
	}
}
