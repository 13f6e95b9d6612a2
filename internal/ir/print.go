package ir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes m in the textual form accepted by Parse.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	for i, f := range m.Funcs {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := DumpFunc(w, f); err != nil {
			return err
		}
	}
	return nil
}

// DumpFunc writes a single function.
func DumpFunc(w io.Writer, f *Func) error {
	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%%%s: i%d", p.Name, p.Width)
	}
	fmt.Fprintf(&sb, "func @%s(%s) {\n", f.Name, strings.Join(params, ", "))
	for _, b := range f.Blocks {
		fmt.Fprintf(&sb, "%s:\n", b.Name)
		for _, in := range b.Instrs {
			sb.WriteString("  ")
			sb.WriteString(formatInstr(in))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders m via Dump.
func (m *Module) String() string {
	var sb strings.Builder
	if err := Dump(&sb, m); err != nil {
		return "<dump error: " + err.Error() + ">"
	}
	return sb.String()
}

func formatInstr(in *Instr) string {
	if in == nil {
		return "<nil>"
	}
	args := make([]string, len(in.Args))
	for i, a := range in.Args {
		args[i] = a.String()
	}
	switch in.Op {
	case OpParam:
		return fmt.Sprintf("%%%s: i%d", in.Name, in.Width)
	case OpRet:
		return fmt.Sprintf("ret i%d %s", in.Width, strings.Join(args, ", "))
	default:
		return fmt.Sprintf("%%%s = %s i%d %s", in.Name, in.Op, in.Width, strings.Join(args, ", "))
	}
}
