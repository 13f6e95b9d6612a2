package ir

import (
	"errors"
	"fmt"

	"localopt/internal/apint"
)

var (
	// ErrNoReturn reports a function that finished without reaching ret.
	ErrNoReturn = errors.New("function has no ret")
	// ErrArgCount reports a call with the wrong number of arguments.
	ErrArgCount = errors.New("wrong number of arguments")
)

// Eval interprets f over the given arguments. Blocks execute in order and
// the first ret ends evaluation.
func Eval(f *Func, args []apint.Int) (apint.Int, error) {
	if len(args) != len(f.Params) {
		return apint.Int{}, fmt.Errorf("@%s: %w: got %d, want %d", f.Name, ErrArgCount, len(args), len(f.Params))
	}
	env := make(map[*Instr]apint.Int, len(f.Params)+f.NumInstrs())
	for i, p := range f.Params {
		if args[i].Width() != p.Width {
			return apint.Int{}, fmt.Errorf("@%s: argument %%%s: %w", f.Name, p.Name, apint.ErrWidthMismatch)
		}
		env[p] = args[i]
	}

	operand := func(v Value) (apint.Int, error) {
		switch v.Kind {
		case ValueConst:
			return v.Const, nil
		case ValueReg:
			if got, ok := env[v.Def]; ok {
				return got, nil
			}
			return apint.Int{}, fmt.Errorf("use of %%%s before definition", v.Def.Name)
		}
		return apint.Int{}, errors.New("missing operand")
	}

	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if len(in.Args) != in.Op.Arity() {
				return apint.Int{}, fmt.Errorf("@%s: %%%s: malformed operands", f.Name, in.Name)
			}
			vals := make([]apint.Int, len(in.Args))
			for i, a := range in.Args {
				v, err := operand(a)
				if err != nil {
					return apint.Int{}, fmt.Errorf("@%s: %%%s: %w", f.Name, in.Name, err)
				}
				vals[i] = v
			}
			if in.Op == OpRet {
				return vals[0], nil
			}
			res, err := evalBinary(in.Op, vals[0], vals[1])
			if err != nil {
				return apint.Int{}, fmt.Errorf("@%s: %%%s: %w", f.Name, in.Name, err)
			}
			env[in] = res
		}
	}
	return apint.Int{}, fmt.Errorf("@%s: %w", f.Name, ErrNoReturn)
}

func evalBinary(op Op, a, b apint.Int) (apint.Int, error) {
	switch op {
	case OpAdd:
		return apint.Add(a, b)
	case OpSub:
		return apint.Sub(a, b)
	case OpMul:
		return apint.Mul(a, b)
	case OpSDiv:
		return apint.SDiv(a, b)
	case OpMulHS:
		return apint.MulHS(a, b)
	case OpShl, OpLShr, OpAShr:
		n, err := b.ShiftAmount()
		if err != nil {
			return apint.Int{}, err
		}
		switch op {
		case OpShl:
			return apint.Shl(a, n)
		case OpLShr:
			return apint.LShr(a, n)
		default:
			return apint.AShr(a, n)
		}
	}
	return apint.Int{}, fmt.Errorf("cannot evaluate opcode %s", op)
}
