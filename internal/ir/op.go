package ir

// Op enumerates instruction opcodes.
type Op uint8

const (
	// OpInvalid is the zero Op.
	OpInvalid Op = iota
	// OpParam defines an incoming function argument.
	OpParam
	// OpAdd is wrapping integer addition.
	OpAdd
	// OpSub is wrapping integer subtraction.
	OpSub
	// OpMul is wrapping integer multiplication.
	OpMul
	// OpSDiv is signed division truncating toward zero.
	OpSDiv
	// OpShl is a left shift.
	OpShl
	// OpLShr is a logical (zero-filling) right shift.
	OpLShr
	// OpAShr is an arithmetic (sign-filling) right shift.
	OpAShr
	// OpMulHS yields the high half of a signed double-width product.
	OpMulHS
	// OpRet returns its single operand from the function.
	OpRet
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpParam:   "param",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpSDiv:    "sdiv",
	OpShl:     "shl",
	OpLShr:    "lshr",
	OpAShr:    "ashr",
	OpMulHS:   "mulhs",
	OpRet:     "ret",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "unknown"
}

// Arity returns the number of operands an instruction with this opcode takes.
func (op Op) Arity() int {
	switch op {
	case OpParam, OpInvalid:
		return 0
	case OpRet:
		return 1
	default:
		return 2
	}
}

// IsBinary reports whether op is a two-operand value-producing opcode.
func (op Op) IsBinary() bool {
	return op >= OpAdd && op <= OpMulHS
}

// ProducesValue reports whether instructions with this opcode can be operands.
func (op Op) ProducesValue() bool {
	return op != OpRet && op != OpInvalid
}

func lookupOp(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name && Op(i) != OpInvalid { //nolint:gosec // G115: bounded by opNames length.
			return Op(i), true //nolint:gosec // G115: bounded by opNames length.
		}
	}
	return OpInvalid, false
}
