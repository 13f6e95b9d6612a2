package apint

import (
	"fmt"

	"localopt/internal/bignum"
)

func sameWidth(a, b Int) error {
	if a.width != b.width {
		return fmt.Errorf("%w: i%d vs i%d", ErrWidthMismatch, a.width, b.width)
	}
	return nil
}

func wrapUint(width int, u bignum.BigUint) Int {
	return Int{width: width, bits: u.LowBits(width)}
}

// Add returns a + b modulo 2^width.
func Add(a, b Int) (Int, error) {
	if err := sameWidth(a, b); err != nil {
		return Int{}, err
	}
	sum, err := bignum.UintAdd(a.bits, b.bits)
	if err != nil {
		return Int{}, err
	}
	return wrapUint(a.width, sum), nil
}

// Sub returns a - b modulo 2^width.
func Sub(a, b Int) (Int, error) {
	if err := sameWidth(a, b); err != nil {
		return Int{}, err
	}
	diff, err := bignum.IntSub(bignum.IntFromUint(a.bits), bignum.IntFromUint(b.bits))
	if err != nil {
		return Int{}, err
	}
	return FromBig(a.width, diff)
}

// Mul returns a * b modulo 2^width.
func Mul(a, b Int) (Int, error) {
	if err := sameWidth(a, b); err != nil {
		return Int{}, err
	}
	prod, err := bignum.UintMul(a.bits, b.bits)
	if err != nil {
		return Int{}, err
	}
	return wrapUint(a.width, prod), nil
}

// SDiv returns the signed quotient truncated toward zero. The single
// overflowing case, MinValue / -1, wraps to MinValue.
func SDiv(a, b Int) (Int, error) {
	if err := sameWidth(a, b); err != nil {
		return Int{}, err
	}
	if b.IsZero() {
		return Int{}, ErrDivByZero
	}
	q, _, err := bignum.IntDivMod(a.Signed(), b.Signed())
	if err != nil {
		return Int{}, err
	}
	return FromBig(a.width, q)
}

// MulHS returns the upper width bits of the signed double-width product.
func MulHS(a, b Int) (Int, error) {
	if err := sameWidth(a, b); err != nil {
		return Int{}, err
	}
	prod, err := bignum.IntMul(a.Signed(), b.Signed())
	if err != nil {
		return Int{}, err
	}
	hi, err := bignum.IntShr(prod, a.width)
	if err != nil {
		return Int{}, err
	}
	return FromBig(a.width, hi)
}

// Shl returns a << n. Shifting by width or more yields zero.
func Shl(a Int, n int) (Int, error) {
	if n < 0 {
		return Int{}, bignum.ErrNegativeShift
	}
	if n >= a.width {
		return Int{width: a.width}, nil
	}
	shifted, err := bignum.UintShl(a.bits, n)
	if err != nil {
		return Int{}, err
	}
	return wrapUint(a.width, shifted), nil
}

// LShr returns a >> n filling with zeros.
func LShr(a Int, n int) (Int, error) {
	if n < 0 {
		return Int{}, bignum.ErrNegativeShift
	}
	shifted, err := bignum.UintShr(a.bits, n)
	if err != nil {
		return Int{}, err
	}
	return Int{width: a.width, bits: shifted}, nil
}

// AShr returns a >> n filling with the sign bit.
func AShr(a Int, n int) (Int, error) {
	if n < 0 {
		return Int{}, bignum.ErrNegativeShift
	}
	if n >= a.width {
		n = a.width - 1
	}
	shifted, err := bignum.IntShr(a.Signed(), n)
	if err != nil {
		return Int{}, err
	}
	return FromBig(a.width, shifted)
}
