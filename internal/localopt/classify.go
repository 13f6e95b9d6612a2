package localopt

import (
	"errors"
	"fmt"

	"localopt/internal/apint"
	"localopt/internal/ir"
)

// ErrMalformedOperands reports a binary arithmetic instruction that does
// not carry exactly two operands.
var ErrMalformedOperands = errors.New("binary instruction must have exactly two operands")

type operand struct {
	val     ir.Value
	c       apint.Int
	isConst bool
}

// binop is the classified view of an arithmetic instruction.
type binop struct {
	in   *ir.Instr
	op   ir.Op
	args [2]operand
}

// classify extracts the opcode and constant operands of in. Only add, sub,
// mul and sdiv are handled; anything else reports ok=false.
func classify(in *ir.Instr) (b binop, ok bool, err error) {
	if in == nil {
		return binop{}, false, nil
	}
	switch in.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpSDiv:
	default:
		return binop{}, false, nil
	}
	if len(in.Args) != 2 {
		return binop{}, false, fmt.Errorf("%%%s: %w (has %d)", in.Name, ErrMalformedOperands, len(in.Args))
	}
	b = binop{in: in, op: in.Op}
	for i, v := range in.Args {
		c, isConst := v.AsConst()
		b.args[i] = operand{val: v, c: c, isConst: isConst}
	}
	return b, true, nil
}

// singleConst returns the position of the only constant operand.
func (b binop) singleConst() (int, bool) {
	switch {
	case b.args[0].isConst && !b.args[1].isConst:
		return 0, true
	case b.args[1].isConst && !b.args[0].isConst:
		return 1, true
	}
	return 0, false
}
