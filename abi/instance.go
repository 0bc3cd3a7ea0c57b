// Package abi models the runtime instance layouts the compiler core must
// agree on with its external collaborators: the module store, the loader,
// and the resolve_indirect_call helper. Their actual memory/table/global/
// function instance representation lives outside this module; only the
// field offsets referenced by emitted code are part of the contract, so
// these structs carry no behavior, just layout.
package abi

import "unsafe"

// FunctionInstance is the runtime representation of a compiled function.
// direct `call` emission dereferences CompiledCode to obtain the callee's
// entry address.
type FunctionInstance struct {
	CompiledCode uintptr
	ParamCount   uint32
	ResultCount  uint32
}

// FunctionInstanceCompiledCodeOffset is the byte offset of
// FunctionInstance.CompiledCode, referenced by FUNC relocations.
const FunctionInstanceCompiledCodeOffset = unsafe.Offsetof(FunctionInstance{}.CompiledCode)

// MemoryInstance is the runtime representation of a linear memory. Every
// load/store bounds check reads Size before touching Data.
type MemoryInstance struct {
	Data []byte
	Size uint32
}

// MemoryInstanceDataOffset and MemoryInstanceSizeOffset are the byte offsets
// of MemoryInstance's fields, referenced by MEM relocations.
const (
	MemoryInstanceDataOffset = unsafe.Offsetof(MemoryInstance{}.Data)
	MemoryInstanceSizeOffset = unsafe.Offsetof(MemoryInstance{}.Size)
)

// PageSize is the size in bytes of one WebAssembly memory page.
const PageSize = 65536

// GlobalValue is the value union of a global instance. Only one member is
// meaningful at a time, selected by the global's declared value type; all
// four alias the same 8 bytes so get_global/set_global can address the
// union by the offset matching the accessed type without a discriminant
// check at run time.
type GlobalValue struct {
	raw [8]byte
}

// I32Offset, I64Offset, F32Offset and F64Offset are all zero: the union
// members overlap starting at byte 0 of GlobalValue, matching the C source's
// `union ValueUnion { int32_t i32; int64_t i64; float f32; double f64; }`.
const (
	GlobalValueI32Offset = 0
	GlobalValueI64Offset = 0
	GlobalValueF32Offset = 0
	GlobalValueF64Offset = 0
)

// GlobalInstance is the runtime representation of a mutable or immutable
// global. get_global/set_global emission addresses Value directly by the
// offsets above.
type GlobalInstance struct {
	Value GlobalValue
}

// GlobalInstanceValueOffset is the byte offset of GlobalInstance.Value,
// referenced by GLOBAL relocations before applying the union member offset.
const GlobalInstanceValueOffset = unsafe.Offsetof(GlobalInstance{}.Value)

// TableInstance is the runtime representation of a function table. Only one
// table exists per module in WebAssembly 1.0 (MVP).
type TableInstance struct {
	Elements []uintptr
}
