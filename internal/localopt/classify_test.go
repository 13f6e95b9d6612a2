package localopt

import (
	"errors"
	"testing"

	"localopt/internal/apint"
	"localopt/internal/ir"
)

func buildOne(t *testing.T, op ir.Op, args func(x *ir.Instr) []ir.Value) *ir.Instr {
	t.Helper()
	m := ir.NewModule("t")
	f := m.NewFunc("f")
	x, err := f.Param("x", 32)
	if err != nil {
		t.Fatal(err)
	}
	in, err := f.NewBlock("entry").Append("y", op, 32, args(x)...)
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func c32(t *testing.T, v int64) ir.Value {
	t.Helper()
	c, err := ir.IntConst(32, v)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClassify(t *testing.T) {
	in := buildOne(t, ir.OpMul, func(x *ir.Instr) []ir.Value {
		return []ir.Value{ir.Reg(x), c32(t, 6)}
	})
	b, ok, err := classify(in)
	if err != nil || !ok {
		t.Fatalf("classify: ok=%v err=%v", ok, err)
	}
	if b.op != ir.OpMul || b.args[0].isConst || !b.args[1].isConst {
		t.Fatalf("unexpected classification %+v", b)
	}
	if v, _ := b.args[1].c.Int64(); v != 6 {
		t.Fatalf("constant = %d", v)
	}
	if pos, ok := b.singleConst(); !ok || pos != 1 {
		t.Fatalf("singleConst = %d, %v", pos, ok)
	}
}

func TestClassify_NotApplicable(t *testing.T) {
	for _, op := range []ir.Op{ir.OpShl, ir.OpLShr, ir.OpAShr, ir.OpMulHS} {
		in := buildOne(t, op, func(x *ir.Instr) []ir.Value {
			return []ir.Value{ir.Reg(x), c32(t, 1)}
		})
		if _, ok, err := classify(in); ok || err != nil {
			t.Fatalf("%s: ok=%v err=%v", op, ok, err)
		}
	}
	if _, ok, err := classify(nil); ok || err != nil {
		t.Fatalf("nil: ok=%v err=%v", ok, err)
	}
}

func TestClassify_Malformed(t *testing.T) {
	tests := []struct {
		name string
		args func(x *ir.Instr) []ir.Value
	}{
		{"none", func(*ir.Instr) []ir.Value { return nil }},
		{"one", func(x *ir.Instr) []ir.Value { return []ir.Value{ir.Reg(x)} }},
		{"three", func(x *ir.Instr) []ir.Value { return []ir.Value{ir.Reg(x), ir.Reg(x), ir.Reg(x)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := buildOne(t, ir.OpSub, tt.args)
			_, ok, err := classify(in)
			if ok || !errors.Is(err, ErrMalformedOperands) {
				t.Fatalf("ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestSingleConst(t *testing.T) {
	both := buildOne(t, ir.OpAdd, func(*ir.Instr) []ir.Value {
		return []ir.Value{c32(t, 1), c32(t, 2)}
	})
	neither := buildOne(t, ir.OpAdd, func(x *ir.Instr) []ir.Value {
		return []ir.Value{ir.Reg(x), ir.Reg(x)}
	})
	left := buildOne(t, ir.OpAdd, func(x *ir.Instr) []ir.Value {
		return []ir.Value{c32(t, 3), ir.Reg(x)}
	})
	for _, tc := range []struct {
		in   *ir.Instr
		pos  int
		want bool
	}{
		{both, 0, false},
		{neither, 0, false},
		{left, 0, true},
	} {
		b, _, err := classify(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		pos, ok := b.singleConst()
		if ok != tc.want || (ok && pos != tc.pos) {
			t.Fatalf("%s: singleConst = %d, %v", tc.in, pos, ok)
		}
	}
}

func TestSignedMagic(t *testing.T) {
	tests := []struct {
		width int
		d     int64
		m     uint64
		s     int
	}{
		{32, 3, 0x55555556, 0},
		{32, 5, 0x66666667, 1},
		{32, 7, 0x92492493, 2},
		{32, 10, 0x66666667, 2},
		{8, 3, 86, 0},
		{8, 7, 147, 2},
	}
	for _, tt := range tests {
		d, err := apint.FromInt64(tt.width, tt.d)
		if err != nil {
			t.Fatal(err)
		}
		m, s, err := signedMagic(d)
		if err != nil {
			t.Fatalf("i%d /%d: %v", tt.width, tt.d, err)
		}
		got, ok := m.Unsigned().Uint64()
		if !ok || got != tt.m || s != tt.s {
			t.Fatalf("i%d /%d: M=%#x s=%d, want M=%#x s=%d", tt.width, tt.d, got, s, tt.m, tt.s)
		}
	}
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		in      string
		want    Rule
		wantErr bool
	}{
		{"all", AllRules, false},
		{"", 0, false},
		{"none", 0, false},
		{"shift, sdiv", RuleShift | RuleSDiv, false},
		{"IDENTITY,cancel", RuleIdentity | RuleCancel, false},
		{"shift,bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRules(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseRules(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRules(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if s := (RuleShift | RuleCancel).String(); s != "shift,cancel" {
		t.Fatalf("String() = %q", s)
	}
	if s := Rule(0).String(); s != "none" {
		t.Fatalf("String() = %q", s)
	}
}

func TestWithinCorrection(t *testing.T) {
	neg, err := apint.FromInt64(32, -28)
	if err != nil {
		t.Fatal(err)
	}
	if !withinCorrection(neg, 0) {
		t.Fatal("limit 0 must be unbounded")
	}
	if !withinCorrection(neg, 28) {
		t.Fatal("|-28| <= 28")
	}
	if withinCorrection(neg, 27) {
		t.Fatal("|-28| > 27")
	}
}

func TestResultMerge(t *testing.T) {
	var a Result
	a.count(RuleShift)
	b := Result{Visited: 3, Inserted: 2}
	b.count(RuleShift)
	b.count(RuleCancel)
	a.Merge(b)
	if !a.Changed || a.Visited != 3 || a.Inserted != 2 {
		t.Fatalf("merged = %+v", a)
	}
	if a.Count(RuleShift) != 2 || a.Count(RuleCancel) != 1 || a.Total() != 3 {
		t.Fatalf("fired = %v", a.Fired)
	}
}
