package ir

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"localopt/internal/apint"
)

// ErrParse reports malformed IR text.
var ErrParse = errors.New("ir parse error")

type parser struct {
	file string
	line int
	mod  *Module
	fn   *Func
	blk  *Block
}

// Parse reads the textual IR produced by Dump.
//
//	func @f(%x: i32) {
//	entry:
//	  %y = add i32 %x, 7
//	  ret i32 %y
//	}
//
// Everything after ';' on a line is a comment.
func Parse(file, src string) (*Module, error) {
	p := &parser{file: file, mod: NewModule(file)}
	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		p.line++
		line := sc.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if p.fn != nil {
		return nil, p.errorf("unterminated func @%s", p.fn.Name)
	}
	return p.mod, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", ErrParse, p.file, p.line, fmt.Sprintf(format, args...))
}

func (p *parser) parseLine(line string) error {
	switch {
	case strings.HasPrefix(line, "func "):
		return p.parseFuncHeader(strings.TrimPrefix(line, "func "))
	case line == "}":
		if p.fn == nil {
			return p.errorf("unexpected '}'")
		}
		p.fn, p.blk = nil, nil
		return nil
	case p.fn == nil:
		return p.errorf("instruction outside of a function")
	case strings.HasSuffix(line, ":") && !strings.ContainsAny(line, " =%"):
		p.blk = p.fn.NewBlock(strings.TrimSuffix(line, ":"))
		return nil
	}
	if p.blk == nil {
		p.blk = p.fn.NewBlock("entry")
	}
	return p.parseInstr(line)
}

func (p *parser) parseFuncHeader(rest string) error {
	if p.fn != nil {
		return p.errorf("nested func")
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "@") || !strings.HasSuffix(rest, "{") {
		return p.errorf("malformed func header")
	}
	rest = strings.TrimSpace(strings.TrimSuffix(rest[1:], "{"))
	open := strings.IndexByte(rest, '(')
	if open <= 0 || !strings.HasSuffix(rest, ")") {
		return p.errorf("malformed func header")
	}
	name := rest[:open]
	if p.mod.Func(name) != nil {
		return p.errorf("duplicate func @%s", name)
	}
	p.fn = p.mod.NewFunc(name)
	params := strings.TrimSpace(rest[open+1 : len(rest)-1])
	if params == "" {
		return nil
	}
	for _, decl := range strings.Split(params, ",") {
		pname, ty, ok := strings.Cut(decl, ":")
		pname = strings.TrimSpace(pname)
		if !ok || !strings.HasPrefix(pname, "%") {
			return p.errorf("malformed parameter %q", strings.TrimSpace(decl))
		}
		width, err := p.parseType(strings.TrimSpace(ty))
		if err != nil {
			return err
		}
		if _, err := p.fn.Param(pname[1:], width); err != nil {
			return p.errorf("%v", err)
		}
	}
	return nil
}

func (p *parser) parseType(tok string) (int, error) {
	if !strings.HasPrefix(tok, "i") {
		return 0, p.errorf("expected integer type, got %q", tok)
	}
	n, err := strconv.ParseUint(tok[1:], 10, 32)
	if err != nil {
		return 0, p.errorf("bad integer type %q", tok)
	}
	width, err := safecast.Conv[int](n)
	if err != nil || width < 1 || width > apint.MaxWidth {
		return 0, p.errorf("integer width %q out of range", tok)
	}
	return width, nil
}

func (p *parser) parseInstr(line string) error {
	name := ""
	body := line
	if lhs, rhs, ok := strings.Cut(line, "="); ok {
		lhs = strings.TrimSpace(lhs)
		if !strings.HasPrefix(lhs, "%") || len(lhs) < 2 {
			return p.errorf("malformed result name %q", lhs)
		}
		name, body = lhs[1:], strings.TrimSpace(rhs)
	}

	fields := strings.Fields(body)
	if len(fields) < 2 {
		return p.errorf("malformed instruction %q", line)
	}
	op, ok := lookupOp(fields[0])
	if !ok || op == OpParam {
		return p.errorf("unknown opcode %q", fields[0])
	}
	if op == OpRet && name != "" {
		return p.errorf("ret has no result")
	}
	if op != OpRet && name == "" {
		return p.errorf("%s needs a result name", op)
	}
	width, err := p.parseType(fields[1])
	if err != nil {
		return err
	}

	operands := strings.TrimSpace(strings.Join(fields[2:], " "))
	var args []Value
	if operands != "" {
		for _, tok := range strings.Split(operands, ",") {
			v, err := p.parseValue(strings.TrimSpace(tok), width)
			if err != nil {
				return err
			}
			args = append(args, v)
		}
	}
	if len(args) != op.Arity() {
		return p.errorf("%s takes %d operands, got %d", op, op.Arity(), len(args))
	}
	if _, err := p.blk.Append(name, op, width, args...); err != nil {
		return p.errorf("%v", err)
	}
	return nil
}

func (p *parser) parseValue(tok string, width int) (Value, error) {
	if strings.HasPrefix(tok, "%") {
		def := p.fn.Lookup(tok[1:])
		if def == nil {
			return Value{}, p.errorf("undefined value %s", tok)
		}
		return Reg(def), nil
	}
	c, err := apint.Parse(width, tok)
	if err != nil {
		return Value{}, p.errorf("bad constant %q: %v", tok, err)
	}
	return Const(c), nil
}
