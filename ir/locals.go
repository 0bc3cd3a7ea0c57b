package ir

// GetLocal pushes the value of the Idx-th local (parameters and declared
// locals share one index space, parameters first).
type GetLocal struct {
	Idx uint32
}

func (GetLocal) Kind() Kind { return KindGetLocal }

// SetLocal pops a value and stores it to the Idx-th local.
type SetLocal struct {
	Idx uint32
}

func (SetLocal) Kind() Kind { return KindSetLocal }

// TeeLocal stores the top of the operand stack to the Idx-th local without
// popping it, unlike SetLocal.
type TeeLocal struct {
	Idx uint32
}

func (TeeLocal) Kind() Kind { return KindTeeLocal }

// GetGlobal pushes the value of the Idx-th module global.
type GetGlobal struct {
	Idx uint32
}

func (GetGlobal) Kind() Kind { return KindGetGlobal }

// SetGlobal pops a value and stores it to the Idx-th module global. The
// decoder is trusted to have already rejected writes to immutable globals;
// this package carries no mutability flag.
type SetGlobal struct {
	Idx uint32
}

func (SetGlobal) Kind() Kind { return KindSetGlobal }
