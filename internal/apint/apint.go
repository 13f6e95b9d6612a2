// Package apint provides fixed-width two's-complement integers for IR constants.
//
// An Int stores its bit pattern as an unsigned value reduced modulo 2^width.
// Arithmetic wraps; predicates read the pattern either as signed or unsigned
// as documented on each method.
package apint

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"localopt/internal/bignum"
)

// MaxWidth is the widest supported integer type.
const MaxWidth = 4096

var (
	// ErrWidth reports a width outside 1..MaxWidth.
	ErrWidth = errors.New("invalid integer width")
	// ErrWidthMismatch reports an operation over two different widths.
	ErrWidthMismatch = errors.New("integer width mismatch")
	// ErrDivByZero reports a division by a zero value.
	ErrDivByZero = errors.New("division by zero")
)

// Int is an immutable fixed-width integer.
type Int struct {
	width int
	bits  bignum.BigUint
}

// FromInt64 returns v wrapped to the given width.
func FromInt64(width int, v int64) (Int, error) {
	return FromBig(width, bignum.IntFromInt64(v))
}

// FromBig returns v wrapped to the given width.
func FromBig(width int, v bignum.BigInt) (Int, error) {
	if width < 1 || width > MaxWidth {
		return Int{}, fmt.Errorf("%w: %d", ErrWidth, width)
	}
	mag := v.Abs().LowBits(width)
	if !v.Neg || mag.IsZero() {
		return Int{width: width, bits: mag}, nil
	}
	pow2, err := bignum.UintPow2(width)
	if err != nil {
		return Int{}, err
	}
	bits, err := bignum.UintSub(pow2, mag)
	if err != nil {
		return Int{}, err
	}
	return Int{width: width, bits: bits}, nil
}

// Pow2 returns 2^k at the given width (wrapping when k >= width-1).
func Pow2(width, k int) (Int, error) {
	p, err := bignum.UintPow2(k)
	if err != nil {
		return Int{}, err
	}
	return FromBig(width, bignum.IntFromUint(p))
}

// Width returns the bit width.
func (a Int) Width() int { return a.width }

// IsZero reports whether every bit is clear.
func (a Int) IsZero() bool { return a.bits.IsZero() }

// IsOne reports whether the value is exactly 1.
func (a Int) IsOne() bool {
	v, ok := a.bits.Uint64()
	return ok && v == 1
}

// IsNegative reports whether the sign bit is set.
func (a Int) IsNegative() bool { return a.bits.Bit(a.width - 1) }

// IsStrictlyPositive reports whether the signed value is greater than zero.
func (a Int) IsStrictlyPositive() bool { return !a.IsZero() && !a.IsNegative() }

// IsPowerOf2 reports whether the unsigned bit pattern has exactly one bit set.
func (a Int) IsPowerOf2() bool { return a.bits.OnesCount() == 1 }

// LogBase2 returns floor(log2) of the unsigned pattern, or -1 for zero.
func (a Int) LogBase2() int { return a.bits.BitLen() - 1 }

// NearestLogBase2 returns the exponent k minimising |a - 2^k| over the
// unsigned pattern. Exact ties pick the lower exponent. Zero yields -1.
func (a Int) NearestLogBase2() int {
	lg := a.LogBase2()
	if lg <= 0 {
		return lg
	}
	if !a.bits.Bit(lg - 1) {
		return lg
	}
	// Bit lg-1 set: the upper power is at least as close. It wins only
	// when some lower bit is also set.
	if a.bits.LowBits(lg-1).IsZero() {
		return lg
	}
	return lg + 1
}

// Eq reports whether a and b have the same width and bit pattern.
func (a Int) Eq(b Int) bool {
	return a.width == b.width && a.bits.Cmp(b.bits) == 0
}

// Unsigned returns the bit pattern as an unsigned magnitude.
func (a Int) Unsigned() bignum.BigUint { return a.bits }

// Signed returns the two's-complement value.
func (a Int) Signed() bignum.BigInt {
	if !a.IsNegative() {
		return bignum.IntFromUint(a.bits)
	}
	pow2, err := bignum.UintPow2(a.width)
	if err != nil {
		return bignum.BigInt{}
	}
	mag, err := bignum.UintSub(pow2, a.bits)
	if err != nil {
		return bignum.BigInt{}
	}
	return bignum.IntFromUint(mag).Negated()
}

// Int64 returns the signed value when it fits in an int64.
func (a Int) Int64() (int64, bool) { return a.Signed().Int64() }

// ShiftAmount interprets a as an unsigned shift count.
func (a Int) ShiftAmount() (int, error) {
	v, ok := a.bits.Uint64()
	if !ok {
		return 0, fmt.Errorf("shift amount %s out of range", a)
	}
	return safecast.Conv[int](v)
}

// String renders the signed value in base 10.
func (a Int) String() string {
	return bignum.FormatInt(a.Signed())
}

// Parse reads a signed or unsigned decimal/hex literal and wraps it to width.
func Parse(width int, s string) (Int, error) {
	v, err := bignum.ParseInt(s)
	if err != nil {
		return Int{}, err
	}
	return FromBig(width, v)
}
