package bignum

import (
	"errors"
	"testing"
)

func mustParseUint(t *testing.T, s string) BigUint {
	t.Helper()
	u, err := ParseUint(s)
	if err != nil {
		t.Fatalf("ParseUint(%q): %v", s, err)
	}
	return u
}

func TestUintArith(t *testing.T) {
	a := mustParseUint(t, "340282366920938463463374607431768211455") // 2^128-1
	one := UintFromUint64(1)

	sum, err := UintAdd(a, one)
	if err != nil {
		t.Fatal(err)
	}
	pow, err := UintPow2(128)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Cmp(pow) != 0 {
		t.Fatalf("2^128-1 + 1 = %s", FormatUint(sum))
	}

	diff, err := UintSub(pow, one)
	if err != nil {
		t.Fatal(err)
	}
	if diff.Cmp(a) != 0 {
		t.Fatalf("2^128 - 1 = %s", FormatUint(diff))
	}
	if _, err := UintSub(one, pow); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}

	prod, err := UintMul(mustParseUint(t, "4294967297"), mustParseUint(t, "4294967295"))
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatUint(prod); got != "18446744073709551615" {
		t.Fatalf("(2^32+1)(2^32-1) = %s", got)
	}
}

func TestUintDivMod(t *testing.T) {
	tests := []struct {
		a, b, q, r string
	}{
		{"100", "7", "14", "2"},
		{"18446744073709551616", "3", "6148914691236517205", "1"},
		{"340282366920938463463374607431768211456", "18446744073709551615", "18446744073709551617", "1"},
		{"5", "9", "0", "5"},
	}
	for _, tt := range tests {
		q, r, err := UintDivMod(mustParseUint(t, tt.a), mustParseUint(t, tt.b))
		if err != nil {
			t.Fatalf("%s / %s: %v", tt.a, tt.b, err)
		}
		if FormatUint(q) != tt.q || FormatUint(r) != tt.r {
			t.Fatalf("%s / %s = %s rem %s, want %s rem %s", tt.a, tt.b, FormatUint(q), FormatUint(r), tt.q, tt.r)
		}
	}
	if _, _, err := UintDivMod(UintFromUint64(1), BigUint{}); !errors.Is(err, ErrDivByZero) {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}
}

func TestUintShifts(t *testing.T) {
	u := UintFromUint64(0b1011)
	l, err := UintShl(u, 70)
	if err != nil {
		t.Fatal(err)
	}
	if l.BitLen() != 74 || !l.Bit(70) || l.Bit(72) || !l.Bit(73) {
		t.Fatalf("shl 70: bitlen %d", l.BitLen())
	}
	r, err := UintShr(l, 71)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := r.Uint64(); !ok || v != 0b101 {
		t.Fatalf("shr 71 = %d", v)
	}
	if _, err := UintShl(u, -1); !errors.Is(err, ErrNegativeShift) {
		t.Fatalf("expected ErrNegativeShift, got %v", err)
	}
}

func TestUintBits(t *testing.T) {
	u := UintFromUint64(100) // 0b1100100
	if u.BitLen() != 7 || u.OnesCount() != 3 {
		t.Fatalf("bitlen=%d ones=%d", u.BitLen(), u.OnesCount())
	}
	if low, _ := u.LowBits(5).Uint64(); low != 0b00100 {
		t.Fatalf("LowBits(5) = %b", low)
	}
	if !u.LowBits(2).IsZero() {
		t.Fatal("LowBits(2) should be zero")
	}
	if low, _ := u.LowBits(64).Uint64(); low != 100 {
		t.Fatalf("LowBits(64) = %d", low)
	}
	if (BigUint{}).BitLen() != 0 || !(BigUint{Limbs: []uint32{0, 0}}).IsZero() {
		t.Fatal("zero handling")
	}
}

func TestIntConversions(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808} {
		got, ok := IntFromInt64(v).Int64()
		if !ok || got != v {
			t.Fatalf("round trip %d -> %d (%v)", v, got, ok)
		}
	}
	big := IntFromUint(mustParseUint(t, "9223372036854775808"))
	if _, ok := big.Int64(); ok {
		t.Fatal("2^63 should not fit")
	}
	if v, ok := big.Negated().Int64(); !ok || v != -9223372036854775808 {
		t.Fatalf("-2^63 = %d, %v", v, ok)
	}
}

func TestIntArith(t *testing.T) {
	tests := []struct {
		a, b           int64
		sum, diff, mul int64
		quo, rem       int64
	}{
		{7, 3, 10, 4, 21, 2, 1},
		{-7, 3, -4, -10, -21, -2, -1},
		{7, -3, 4, 10, -21, -2, 1},
		{-7, -3, -10, -4, 21, 2, -1},
		{0, 5, 5, -5, 0, 0, 0},
	}
	for _, tt := range tests {
		a, b := IntFromInt64(tt.a), IntFromInt64(tt.b)
		check := func(op string, got BigInt, err error, want int64) {
			t.Helper()
			if err != nil {
				t.Fatalf("%d %s %d: %v", tt.a, op, tt.b, err)
			}
			if v, _ := got.Int64(); v != want {
				t.Fatalf("%d %s %d = %s, want %d", tt.a, op, tt.b, FormatInt(got), want)
			}
		}
		s, err := IntAdd(a, b)
		check("+", s, err, tt.sum)
		d, err := IntSub(a, b)
		check("-", d, err, tt.diff)
		m, err := IntMul(a, b)
		check("*", m, err, tt.mul)
		q, r, err := IntDivMod(a, b)
		check("/", q, err, tt.quo)
		check("%", r, err, tt.rem)
	}
}

func TestIntShrFloors(t *testing.T) {
	tests := []struct {
		v    int64
		n    int
		want int64
	}{
		{7, 1, 3},
		{-7, 1, -4},
		{-8, 3, -1},
		{-1, 10, -1},
		{-9, 3, -2},
		{1, 5, 0},
	}
	for _, tt := range tests {
		got, err := IntShr(IntFromInt64(tt.v), tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := got.Int64(); v != tt.want {
			t.Fatalf("%d >> %d = %d, want %d", tt.v, tt.n, v, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0", "0"},
		{"-0", "0"},
		{"+15", "15"},
		{"-1_000_000", "-1000000"},
		{"0xff", "255"},
		{"0b1010", "10"},
		{"0o17", "15"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
	}
	for _, tt := range tests {
		v, err := ParseInt(tt.in)
		if err != nil {
			t.Fatalf("ParseInt(%q): %v", tt.in, err)
		}
		if got := FormatInt(v); got != tt.want {
			t.Fatalf("ParseInt(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "-", "12a", "0xzz", "1.5"} {
		if _, err := ParseInt(bad); !errors.Is(err, ErrParse) {
			t.Fatalf("ParseInt(%q) err = %v, want ErrParse", bad, err)
		}
	}
}
