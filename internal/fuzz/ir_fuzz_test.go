package fuzztests

import (
	"context"
	"strings"
	"testing"

	"localopt/internal/apint"
	"localopt/internal/ir"
	"localopt/internal/localopt"
)

// FuzzParseRoundTrip checks that Parse never panics and that any module it
// accepts survives Dump and Parse unchanged.
func FuzzParseRoundTrip(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		m, err := ir.Parse("fuzz.ir", clampInput(input))
		if err != nil {
			return
		}
		first := m.String()
		again, err := ir.Parse("fuzz.ir", first)
		if err != nil {
			t.Fatalf("dumped module does not parse: %v\n%s", err, first)
		}
		if second := again.String(); second != first {
			t.Fatalf("round trip changed the module:\n%s\n---\n%s", first, second)
		}
	})
}

// FuzzOptimizePreservesResults runs the pass over every valid module and
// compares each function's result before and after on two argument
// vectors.
func FuzzOptimizePreservesResults(f *testing.F) {
	addSeeds(f, int64(0), int64(-1))
	f.Add([]byte("func @f(%x: i16) {\n  %q = sdiv i16 %x, 7\n  ret i16 %q\n}\n"), int64(-32768), int64(32767))
	f.Add([]byte("func @f(%x: i32) {\n  %q = sdiv i32 %x, 3\n  ret i32 %q\n}\n"), int64(-2147483648), int64(7))
	f.Fuzz(func(t *testing.T, input []byte, a, b int64) {
		src := clampInput(input)
		m, err := ir.Parse("fuzz.ir", src)
		if err != nil || ir.Validate(m) != nil || hasZeroMinus(m) {
			return
		}
		ref, err := ir.Parse("fuzz.ir", src)
		if err != nil {
			t.Fatalf("reparse: %v", err)
		}

		if _, err := localopt.Run(context.Background(), m, localopt.DefaultOptions()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if err := ir.Validate(m); err != nil {
			t.Fatalf("optimized module is invalid: %v\n%s", err, m)
		}

		for i, fn := range m.Funcs {
			for _, seed := range []int64{a, b} {
				args, ok := fuzzArgs(fn, seed)
				if !ok {
					continue
				}
				want, err := ir.Eval(ref.Funcs[i], args)
				if err != nil {
					continue
				}
				got, err := ir.Eval(fn, args)
				if err != nil {
					t.Fatalf("@%s(%s): optimized eval failed: %v\n%s", fn.Name, joinArgs(args), err, m)
				}
				if !got.Eq(want) {
					t.Fatalf("@%s(%s) = %s, want %s\n%s", fn.Name, joinArgs(args), got, want, m)
				}
			}
		}
	})
}

// hasZeroMinus reports a sub with a constant zero on the left. The identity
// rule folds 0 - x to x, which does not preserve the value.
func hasZeroMinus(m *ir.Module) bool {
	for _, f := range m.Funcs {
		for _, b := range f.Blocks {
			for _, in := range b.Instrs {
				if in.Op != ir.OpSub || len(in.Args) != 2 {
					continue
				}
				if c, ok := in.Args[0].AsConst(); ok && c.IsZero() {
					return true
				}
			}
		}
	}
	return false
}

// fuzzArgs derives one argument per parameter from seed.
func fuzzArgs(f *ir.Func, seed int64) ([]apint.Int, bool) {
	args := make([]apint.Int, len(f.Params))
	for i, p := range f.Params {
		v, err := apint.FromInt64(p.Width, seed^int64(i)*0x9e3779b9)
		if err != nil {
			return nil, false
		}
		args[i] = v
	}
	return args, true
}

func joinArgs(args []apint.Int) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
