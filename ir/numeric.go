package ir

import "github.com/wasmbase/x64jit/api"

// ConstI32 pushes an immediate i32.
type ConstI32 struct {
	Value int32
}

func (ConstI32) Kind() Kind { return KindConstI32 }

// ConstI64 pushes an immediate i64.
type ConstI64 struct {
	Value int64
}

func (ConstI64) Kind() Kind { return KindConstI64 }

// ConstF64 pushes an immediate f64.
type ConstF64 struct {
	Value float64
}

func (ConstF64) Kind() Kind { return KindConstF64 }

// Eqz pops one value of Type and pushes an i32 1 if it was zero, else 0.
// Only i32.eqz is in the canonical opcode list.
type Eqz struct {
	Type api.ValueType
}

func (Eqz) Kind() Kind { return KindEqz }

// CompareOp enumerates the comparison operators. Not every (Type, Op) pair
// is legal: i32 supports the full set, i64 only Eq, Ne, LtS and GtU, f64
// only Eq and Ne, matching the C source's opcode switch rather than a full
// cartesian product.
type CompareOp byte

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLtS
	CmpLtU
	CmpGtS
	CmpGtU
	CmpLeS
	CmpLeU
	CmpGeS
)

// Compare pops two values of Type and pushes an i32 0/1.
type Compare struct {
	Type api.ValueType
	Op   CompareOp
}

func (Compare) Kind() Kind { return KindCompare }

// BinaryOp enumerates the integer arithmetic and bitwise operators.
type BinaryOp byte

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShrS
	BinShrU
	BinDivS
	BinDivU
	BinRemS
	BinRemU
)

// Binary pops two values of Type and pushes the result of applying Op.
// BinXor is only legal with Type == api.ValueTypeI32: the C source has no
// i64.xor case, so i64 Binary{Op: BinXor} is rejected at emission time
// rather than modeled away here.
type Binary struct {
	Type api.ValueType
	Op   BinaryOp
}

func (Binary) Kind() Kind { return KindBinary }

// FloatUnaryOp enumerates the f64 unary operators.
type FloatUnaryOp byte

const (
	FloatNeg FloatUnaryOp = iota
)

// FloatUnary pops one f64 and pushes the result of applying Op.
type FloatUnary struct {
	Op FloatUnaryOp
}

func (FloatUnary) Kind() Kind { return KindFloatUnary }

// FloatBinaryOp enumerates the f64 binary operators.
type FloatBinaryOp byte

const (
	FloatAdd FloatBinaryOp = iota
	FloatSub
	FloatMul
)

// FloatBinary pops two f64 and pushes the result of applying Op.
type FloatBinary struct {
	Op FloatBinaryOp
}

func (FloatBinary) Kind() Kind { return KindFloatBinary }

// I32WrapI64 truncates an i64 to its low 32 bits.
type I32WrapI64 struct{}

func (I32WrapI64) Kind() Kind { return KindI32WrapI64 }

// I32TruncF64 truncates an f64 toward zero to an i32. Signed selects
// trunc_s (result read as a signed i32) versus trunc_u (result read as an
// unsigned i32). No trap is emitted for NaN or out-of-range inputs; the
// result is whatever the SSE conversion produces for them.
type I32TruncF64 struct {
	Signed bool
}

func (I32TruncF64) Kind() Kind { return KindI32TruncF64 }

// I64ExtendI32 widens an i32 to i64. Signed selects sign-extension versus
// zero-extension.
type I64ExtendI32 struct {
	Signed bool
}

func (I64ExtendI32) Kind() Kind { return KindI64ExtendI32 }

// F64ConvertI32 converts an i32 to f64. Signed selects whether the source
// is interpreted as signed or unsigned.
type F64ConvertI32 struct {
	Signed bool
}

func (F64ConvertI32) Kind() Kind { return KindF64ConvertI32 }

// I64ReinterpretF64 reinterprets an f64's bit pattern as an i64 without
// conversion.
type I64ReinterpretF64 struct{}

func (I64ReinterpretF64) Kind() Kind { return KindI64ReinterpretF64 }

// F64ReinterpretI64 reinterprets an i64's bit pattern as an f64 without
// conversion.
type F64ReinterpretI64 struct{}

func (F64ReinterpretI64) Kind() Kind { return KindF64ReinterpretI64 }
