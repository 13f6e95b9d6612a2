package ir

import "localopt/internal/apint"

// ValueKind distinguishes operand kinds.
type ValueKind uint8

const (
	// ValueNone is an absent operand.
	ValueNone ValueKind = iota
	// ValueConst is a fixed-width integer constant.
	ValueConst
	// ValueReg refers to the result of an instruction.
	ValueReg
)

// Value is an instruction operand. Register values do not own the
// instruction they point at.
type Value struct {
	Kind  ValueKind
	Const apint.Int
	Def   *Instr
}

// Const wraps a constant.
func Const(c apint.Int) Value {
	return Value{Kind: ValueConst, Const: c}
}

// IntConst builds a constant of the given width from an int64.
func IntConst(width int, v int64) (Value, error) {
	c, err := apint.FromInt64(width, v)
	if err != nil {
		return Value{}, err
	}
	return Const(c), nil
}

// Reg refers to the result of def.
func Reg(def *Instr) Value {
	return Value{Kind: ValueReg, Def: def}
}

// IsConst reports whether v is a constant.
func (v Value) IsConst() bool { return v.Kind == ValueConst }

// AsConst returns the constant held by v.
func (v Value) AsConst() (apint.Int, bool) {
	if v.Kind != ValueConst {
		return apint.Int{}, false
	}
	return v.Const, true
}

// Width returns the bit width of the value, or 0 when absent.
func (v Value) Width() int {
	switch v.Kind {
	case ValueConst:
		return v.Const.Width()
	case ValueReg:
		if v.Def != nil {
			return v.Def.Width
		}
	}
	return 0
}

// Same reports whether v and o denote the same value.
func (v Value) Same(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueConst:
		return v.Const.Eq(o.Const)
	case ValueReg:
		return v.Def == o.Def
	}
	return true
}

func (v Value) String() string {
	switch v.Kind {
	case ValueConst:
		return v.Const.String()
	case ValueReg:
		if v.Def == nil {
			return "%<nil>"
		}
		return "%" + v.Def.Name
	}
	return "<none>"
}
