// Package api models the WebAssembly 1.0 (MVP) value and function types that
// form the input contract of the compiler core. Bytecode decoding itself is
// out of scope; callers are expected to already hold decoded types.
package api

// ValueType is the binary encoding of a WebAssembly value type.
// See https://www.w3.org/TR/wasm-core-1/#binary-valtype
type ValueType = byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

// ValueTypeName returns the WebAssembly text format name of t, or "unknown".
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	}
	return "unknown"
}

// IsInteger reports whether t is i32 or i64.
func IsInteger(t ValueType) bool {
	return t == ValueTypeI32 || t == ValueTypeI64
}

// IsFloat reports whether t is f32 or f64.
func IsFloat(t ValueType) bool {
	return t == ValueTypeF32 || t == ValueTypeF64
}

// Is64 reports whether t occupies the full 64-bit width of its class
// (i64/f64), as opposed to a 32-bit value zero-extended into its 8-byte slot.
func Is64(t ValueType) bool {
	return t == ValueTypeI64 || t == ValueTypeF64
}
