package ir

import (
	"errors"
	"fmt"
)

// ErrDetached reports a mutation on an instruction that is not in a block.
var ErrDetached = errors.New("instruction is not attached to a block")

// SetArg replaces operand i of in and keeps both user sets current.
func SetArg(in *Instr, i int, v Value) error {
	if i < 0 || i >= len(in.Args) {
		return fmt.Errorf("%%%s: operand %d out of range", in.Name, i)
	}
	old := in.Args[i]
	in.Args[i] = v
	if old.Kind == ValueReg && old.Def != nil {
		old.Def.removeUser(in)
	}
	if v.Kind == ValueReg && v.Def != nil {
		v.Def.addUser(in)
	}
	return nil
}

// InsertAfter creates a binary instruction of anchor's width and places it immediately after
// anchor in anchor's block. nameHint seeds the generated name. Block slices
// captured before the call keep their old contents.
func InsertAfter(anchor *Instr, nameHint string, op Op, a, b Value) (*Instr, error) {
	if anchor == nil || anchor.block == nil {
		return nil, ErrDetached
	}
	pos := anchor.Position()
	if pos < 0 {
		return nil, ErrDetached
	}
	f := anchor.fn
	in, err := f.newInstr(f.freshName(nameHint), op, anchor.Width, []Value{a, b})
	if err != nil {
		return nil, err
	}
	blk := anchor.block
	in.block = blk
	instrs := make([]*Instr, 0, len(blk.Instrs)+1)
	instrs = append(instrs, blk.Instrs[:pos+1]...)
	instrs = append(instrs, in)
	instrs = append(instrs, blk.Instrs[pos+1:]...)
	blk.Instrs = instrs
	return in, nil
}

// ReplaceAllUsesWith points every operand slot that refers to x at v
// instead. x keeps its place in the block but ends up with no users.
// It returns the number of users that were rewritten.
func ReplaceAllUsesWith(x *Instr, v Value) int {
	if x == nil || (v.Kind == ValueReg && v.Def == x) {
		return 0
	}
	users := x.users
	x.users = nil
	for _, u := range users {
		for i := range u.Args {
			if u.Args[i].Kind == ValueReg && u.Args[i].Def == x {
				u.Args[i] = v
			}
		}
		if v.Kind == ValueReg && v.Def != nil {
			v.Def.addUser(u)
		}
	}
	return len(users)
}
