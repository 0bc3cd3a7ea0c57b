package api

import "fmt"

// FuncType is a function signature: a list of parameter types and a list of
// result types. WebAssembly 1.0 (MVP) restricts result lists to at most one
// entry; this is asserted where it matters rather than encoded in the type,
// so a FuncType can still represent an intermediate multi-value shape if a
// caller constructs one by hand.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// String renders the signature the way wazero's wasm/type.go does, e.g.
// "(i32, i64) -> (i32)".
func (t *FuncType) String() string {
	return fmt.Sprintf("%s -> %s", valueTypesString(t.Params), valueTypesString(t.Results))
}

func valueTypesString(ts []ValueType) string {
	if len(ts) == 0 {
		return "()"
	}
	out := "("
	for i, v := range ts {
		if i > 0 {
			out += ", "
		}
		out += ValueTypeName(v)
	}
	return out + ")"
}

// TypeTables aggregates the type information a single function's compilation
// needs to resolve `call` and `call_indirect` targets and global accesses:
// FuncTypes indexes call_indirect's type immediates and the module's
// function table, GlobalTypes indexes get_global/set_global.
type TypeTables struct {
	// FuncTypes is indexed by type index (call_indirect's typeidx immediate)
	// and by function index (call's funcidx, via FuncTypeIndices).
	FuncTypes []FuncType
	// FuncTypeIndices maps a module function index to its entry in FuncTypes.
	FuncTypeIndices []uint32
	// GlobalTypes is indexed by global index.
	GlobalTypes []ValueType
}

// FuncTypeOf returns the signature of the funcidx-th function in the module,
// or an error if funcidx is out of range.
func (t *TypeTables) FuncTypeOf(funcidx uint32) (*FuncType, error) {
	if int(funcidx) >= len(t.FuncTypeIndices) {
		return nil, fmt.Errorf("function index %d out of range (have %d functions)", funcidx, len(t.FuncTypeIndices))
	}
	typeidx := t.FuncTypeIndices[funcidx]
	if int(typeidx) >= len(t.FuncTypes) {
		return nil, fmt.Errorf("type index %d out of range (have %d types)", typeidx, len(t.FuncTypes))
	}
	return &t.FuncTypes[typeidx], nil
}

// TypeAt returns the typeidx-th registered signature, used to resolve
// call_indirect's type immediate.
func (t *TypeTables) TypeAt(typeidx uint32) (*FuncType, error) {
	if int(typeidx) >= len(t.FuncTypes) {
		return nil, fmt.Errorf("type index %d out of range (have %d types)", typeidx, len(t.FuncTypes))
	}
	return &t.FuncTypes[typeidx], nil
}

// GlobalTypeAt returns the value type of the globalidx-th global.
func (t *TypeTables) GlobalTypeAt(globalidx uint32) (ValueType, error) {
	if int(globalidx) >= len(t.GlobalTypes) {
		return 0, fmt.Errorf("global index %d out of range (have %d globals)", globalidx, len(t.GlobalTypes))
	}
	return t.GlobalTypes[globalidx], nil
}
