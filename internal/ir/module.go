// Package ir defines the straight-line integer IR rewritten by the local
// optimizer: modules of functions, functions of blocks, blocks of
// instructions linked by explicit def-use edges.
package ir

import (
	"fmt"
	"strconv"
)

type Module struct {
	Name  string
	Funcs []*Func
}

type Func struct {
	Name   string
	Params []*Instr
	Blocks []*Block

	nextID int
	names  map[string]*Instr
}

type Block struct {
	Name   string
	Instrs []*Instr

	fn *Func
}

// Instr is a single instruction. Users is the inverse of the operand
// relation and is maintained by SetArg, InsertAfter and ReplaceAllUsesWith.
type Instr struct {
	ID    int
	Name  string
	Op    Op
	Width int
	Args  []Value

	block *Block
	fn    *Func
	users []*Instr
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// NewFunc appends an empty function to m.
func (m *Module) NewFunc(name string) *Func {
	f := &Func{Name: name, names: make(map[string]*Instr)}
	m.Funcs = append(m.Funcs, f)
	return f
}

// Func looks a function up by name.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// NewBlock appends an empty block to f.
func (f *Func) NewBlock(name string) *Block {
	b := &Block{Name: name, fn: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Param declares a new function argument of the given width.
func (f *Func) Param(name string, width int) (*Instr, error) {
	in, err := f.newInstr(name, OpParam, width, nil)
	if err != nil {
		return nil, err
	}
	f.Params = append(f.Params, in)
	return in, nil
}

// Lookup finds a parameter or instruction by name.
func (f *Func) Lookup(name string) *Instr {
	return f.names[name]
}

// NumInstrs returns the number of block instructions in f.
func (f *Func) NumInstrs() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Instrs)
	}
	return n
}

// Append adds an instruction at the end of b. An empty name gets a fresh one.
func (b *Block) Append(name string, op Op, width int, args ...Value) (*Instr, error) {
	in, err := b.fn.newInstr(name, op, width, args)
	if err != nil {
		return nil, err
	}
	in.block = b
	b.Instrs = append(b.Instrs, in)
	return in, nil
}

// Func returns the function owning b.
func (b *Block) Func() *Func { return b.fn }

// Block returns the block holding in, or nil for parameters.
func (in *Instr) Block() *Block { return in.block }

// Func returns the function owning in.
func (in *Instr) Func() *Func { return in.fn }

// Users returns a copy of the user set of in, in first-use order.
func (in *Instr) Users() []*Instr {
	return append([]*Instr(nil), in.users...)
}

// NumUsers returns the size of the user set.
func (in *Instr) NumUsers() int { return len(in.users) }

// Position returns the index of in within its block, or -1.
func (in *Instr) Position() int {
	if in.block == nil {
		return -1
	}
	for i, cur := range in.block.Instrs {
		if cur == in {
			return i
		}
	}
	return -1
}

func (in *Instr) String() string {
	return formatInstr(in)
}

func (f *Func) newInstr(name string, op Op, width int, args []Value) (*Instr, error) {
	if f.names == nil {
		f.names = make(map[string]*Instr)
	}
	switch {
	case name == "":
		name = f.freshName("")
	case f.names[name] != nil:
		return nil, fmt.Errorf("func @%s: duplicate name %%%s", f.Name, name)
	}
	in := &Instr{
		ID:    f.nextID,
		Name:  name,
		Op:    op,
		Width: width,
		Args:  append([]Value(nil), args...),
		fn:    f,
	}
	f.nextID++
	f.names[name] = in
	for _, a := range in.Args {
		if a.Kind == ValueReg && a.Def != nil {
			a.Def.addUser(in)
		}
	}
	return in, nil
}

// freshName returns a name derived from hint not yet used in f.
func (f *Func) freshName(hint string) string {
	if hint != "" && f.names[hint] == nil {
		return hint
	}
	base := hint
	if base == "" {
		base = "t"
	} else {
		base += "."
	}
	for i := f.nextID; ; i++ {
		cand := base + strconv.Itoa(i)
		if f.names[cand] == nil {
			return cand
		}
	}
}

func (in *Instr) addUser(u *Instr) {
	for _, cur := range in.users {
		if cur == u {
			return
		}
	}
	in.users = append(in.users, u)
}

func (in *Instr) removeUser(u *Instr) {
	for _, a := range u.Args {
		if a.Kind == ValueReg && a.Def == in {
			return
		}
	}
	for i, cur := range in.users {
		if cur == u {
			in.users = append(in.users[:i], in.users[i+1:]...)
			return
		}
	}
}
