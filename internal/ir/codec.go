package ir

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"localopt/internal/apint"
)

// snapshotSchema is bumped whenever the encoded layout changes.
const snapshotSchema uint16 = 1

// ErrSchema reports a snapshot written with a different layout version.
var ErrSchema = errors.New("ir snapshot schema mismatch")

type moduleSnapshot struct {
	Schema uint16         `msgpack:"schema"`
	Name   string         `msgpack:"name"`
	Funcs  []funcSnapshot `msgpack:"funcs"`
}

type funcSnapshot struct {
	Name   string          `msgpack:"name"`
	Params []instrSnapshot `msgpack:"params"`
	Blocks []blockSnapshot `msgpack:"blocks"`
}

type blockSnapshot struct {
	Name   string          `msgpack:"name"`
	Instrs []instrSnapshot `msgpack:"instrs"`
}

type instrSnapshot struct {
	Name  string          `msgpack:"name"`
	Op    Op              `msgpack:"op"`
	Width int             `msgpack:"width"`
	Args  []valueSnapshot `msgpack:"args,omitempty"`
}

// valueSnapshot refers to registers by name; constants are kept as decimal
// text so any width round-trips.
type valueSnapshot struct {
	Kind  ValueKind `msgpack:"kind"`
	Ref   string    `msgpack:"ref,omitempty"`
	Const string    `msgpack:"const,omitempty"`
}

// Encode writes a msgpack snapshot of m.
func Encode(w io.Writer, m *Module) error {
	snap := moduleSnapshot{Schema: snapshotSchema, Name: m.Name}
	for _, f := range m.Funcs {
		fs := funcSnapshot{Name: f.Name}
		for _, p := range f.Params {
			fs.Params = append(fs.Params, instrSnapshot{Name: p.Name, Op: OpParam, Width: p.Width})
		}
		for _, b := range f.Blocks {
			bs := blockSnapshot{Name: b.Name}
			for _, in := range b.Instrs {
				is := instrSnapshot{Name: in.Name, Op: in.Op, Width: in.Width}
				for _, a := range in.Args {
					vs := valueSnapshot{Kind: a.Kind}
					switch a.Kind {
					case ValueConst:
						vs.Const = a.Const.String()
					case ValueReg:
						vs.Ref = a.Def.Name
					}
					is.Args = append(is.Args, vs)
				}
				bs.Instrs = append(bs.Instrs, is)
			}
			fs.Blocks = append(fs.Blocks, bs)
		}
		snap.Funcs = append(snap.Funcs, fs)
	}
	return msgpack.NewEncoder(w).Encode(&snap)
}

// Decode rebuilds a module, including user sets, from a snapshot.
func Decode(r io.Reader) (*Module, error) {
	var snap moduleSnapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode ir snapshot: %w", err)
	}
	if snap.Schema != snapshotSchema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, snap.Schema, snapshotSchema)
	}
	m := NewModule(snap.Name)
	for _, fs := range snap.Funcs {
		f := m.NewFunc(fs.Name)
		for _, ps := range fs.Params {
			if _, err := f.Param(ps.Name, ps.Width); err != nil {
				return nil, err
			}
		}
		for _, bs := range fs.Blocks {
			b := f.NewBlock(bs.Name)
			for _, is := range bs.Instrs {
				args := make([]Value, 0, len(is.Args))
				for _, vs := range is.Args {
					v, err := decodeValue(f, vs, is.Width)
					if err != nil {
						return nil, fmt.Errorf("@%s: %%%s: %w", f.Name, is.Name, err)
					}
					args = append(args, v)
				}
				if _, err := b.Append(is.Name, is.Op, is.Width, args...); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

func decodeValue(f *Func, vs valueSnapshot, width int) (Value, error) {
	switch vs.Kind {
	case ValueConst:
		c, err := apint.Parse(width, vs.Const)
		if err != nil {
			return Value{}, err
		}
		return Const(c), nil
	case ValueReg:
		def := f.Lookup(vs.Ref)
		if def == nil {
			return Value{}, fmt.Errorf("unknown register %%%s", vs.Ref)
		}
		return Reg(def), nil
	}
	return Value{}, fmt.Errorf("unknown value kind %d", vs.Kind)
}
