package ir

import (
	"errors"
	"fmt"

	"localopt/internal/apint"
)

// Validate checks structural invariants of every function in m:
// operand arity, width agreement, user-set consistency and the absence of
// forward references. All violations are reported together.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if err := ValidateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("func @%s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateFunc checks a single function.
func ValidateFunc(f *Func) error {
	if f == nil {
		return nil
	}
	var errs []error

	defined := make(map[*Instr]bool, len(f.Params)+f.NumInstrs())
	for _, p := range f.Params {
		if p.Op != OpParam {
			errs = append(errs, fmt.Errorf("param %%%s: opcode %s", p.Name, p.Op))
		}
		if p.Width < 1 || p.Width > apint.MaxWidth {
			errs = append(errs, fmt.Errorf("param %%%s: invalid width %d", p.Name, p.Width))
		}
		defined[p] = true
	}

	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if err := validateInstr(f, b, in, defined); err != nil {
				errs = append(errs, fmt.Errorf("%s: %%%s: %w", b.Name, in.Name, err))
			}
			defined[in] = true
		}
	}

	if err := validateUsers(f, defined); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateInstr(f *Func, b *Block, in *Instr, defined map[*Instr]bool) error {
	var errs []error
	if in.block != b || in.fn != f {
		errs = append(errs, errors.New("stale owner link"))
	}
	if in.Op == OpParam || in.Op == OpInvalid {
		errs = append(errs, fmt.Errorf("opcode %s not allowed in a block", in.Op))
	}
	if len(in.Args) != in.Op.Arity() {
		errs = append(errs, fmt.Errorf("%s takes %d operands, has %d", in.Op, in.Op.Arity(), len(in.Args)))
	}
	for i, a := range in.Args {
		switch a.Kind {
		case ValueConst:
		case ValueReg:
			switch {
			case a.Def == nil:
				errs = append(errs, fmt.Errorf("operand %d: nil register", i))
				continue
			case a.Def.fn != f:
				errs = append(errs, fmt.Errorf("operand %d: %%%s belongs to another function", i, a.Def.Name))
			case !a.Def.Op.ProducesValue():
				errs = append(errs, fmt.Errorf("operand %d: %%%s produces no value", i, a.Def.Name))
			case !defined[a.Def]:
				errs = append(errs, fmt.Errorf("operand %d: forward reference to %%%s", i, a.Def.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("operand %d: missing", i))
			continue
		}
		if a.Width() != in.Width {
			errs = append(errs, fmt.Errorf("operand %d: width i%d, want i%d", i, a.Width(), in.Width))
		}
	}
	return errors.Join(errs...)
}

func validateUsers(f *Func, defined map[*Instr]bool) error {
	var errs []error
	check := func(def *Instr) {
		for _, u := range def.users {
			if !defined[u] {
				errs = append(errs, fmt.Errorf("%%%s: user %%%s is not in the function", def.Name, u.Name))
				continue
			}
			if !refersTo(u, def) {
				errs = append(errs, fmt.Errorf("%%%s: stale user %%%s", def.Name, u.Name))
			}
		}
	}
	for _, p := range f.Params {
		check(p)
	}
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			check(in)
			for _, a := range in.Args {
				if a.Kind == ValueReg && a.Def != nil && !contains(a.Def.users, in) {
					errs = append(errs, fmt.Errorf("%%%s: missing from user set of %%%s", in.Name, a.Def.Name))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func refersTo(u, def *Instr) bool {
	for _, a := range u.Args {
		if a.Kind == ValueReg && a.Def == def {
			return true
		}
	}
	return false
}

func contains(list []*Instr, in *Instr) bool {
	for _, cur := range list {
		if cur == in {
			return true
		}
	}
	return false
}
