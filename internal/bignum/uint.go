// Package bignum implements the limb arithmetic behind fixed-width IR constants.
package bignum

import (
	"errors"
	"math/bits"
)

// MaxLimbs bounds the size of any intermediate value (2^16 limbs = 2M bits).
const MaxLimbs = 1 << 16

var (
	// ErrMaxLimbs indicates the numeric size limit was exceeded.
	ErrMaxLimbs = errors.New("numeric size limit exceeded")
	// ErrDivByZero indicates an attempt to divide by zero.
	ErrDivByZero = errors.New("division by zero")
	// ErrUnderflow indicates an unsigned subtraction went below zero.
	ErrUnderflow = errors.New("unsigned underflow")
	// ErrNegativeShift indicates a negative shift amount.
	ErrNegativeShift = errors.New("negative shift")
)

// BigUint is an unsigned magnitude stored as base-2^32 little-endian limbs.
// Canonical zero is a nil slice.
type BigUint struct {
	Limbs []uint32
}

// UintFromUint64 creates a BigUint from a uint64.
func UintFromUint64(v uint64) BigUint {
	if v == 0 {
		return BigUint{}
	}
	lo := uint32(v)       //nolint:gosec // G115: low limb truncation.
	hi := uint32(v >> 32) //nolint:gosec // G115: high limb truncation.
	if hi == 0 {
		return BigUint{Limbs: []uint32{lo}}
	}
	return BigUint{Limbs: []uint32{lo, hi}}
}

// UintPow2 returns 2^n.
func UintPow2(n int) (BigUint, error) {
	if n < 0 {
		return BigUint{}, ErrNegativeShift
	}
	if n/32+1 > MaxLimbs {
		return BigUint{}, ErrMaxLimbs
	}
	out := make([]uint32, n/32+1)
	out[n/32] = 1 << (n % 32)
	return BigUint{Limbs: out}, nil
}

// IsZero reports whether u is zero.
func (u BigUint) IsZero() bool {
	return len(trimLimbs(u.Limbs)) == 0
}

// BitLen returns the number of significant bits.
func (u BigUint) BitLen() int {
	return bitLenLimbs(u.Limbs)
}

// OnesCount returns the number of set bits.
func (u BigUint) OnesCount() int {
	n := 0
	for _, l := range u.Limbs {
		n += bits.OnesCount32(l)
	}
	return n
}

// Bit reports whether bit i is set.
func (u BigUint) Bit(i int) bool {
	if i < 0 || i/32 >= len(u.Limbs) {
		return false
	}
	return u.Limbs[i/32]&(1<<(i%32)) != 0
}

// LowBits returns u mod 2^n.
func (u BigUint) LowBits(n int) BigUint {
	limbs := trimLimbs(u.Limbs)
	if n <= 0 || len(limbs) == 0 {
		return BigUint{}
	}
	words := (n + 31) / 32
	if words >= len(limbs) && n%32 == 0 {
		return BigUint{Limbs: limbs}
	}
	if words > len(limbs) {
		words = len(limbs)
	}
	out := make([]uint32, words)
	copy(out, limbs[:words])
	if rem := n % 32; rem != 0 && words == (n+31)/32 {
		out[words-1] &= (1 << rem) - 1
	}
	return BigUint{Limbs: trimLimbs(out)}
}

// Cmp compares u and v and returns -1, 0 or 1.
func (u BigUint) Cmp(v BigUint) int {
	return cmpLimbs(u.Limbs, v.Limbs)
}

// Uint64 converts u to uint64 when it fits.
func (u BigUint) Uint64() (uint64, bool) {
	limbs := trimLimbs(u.Limbs)
	switch len(limbs) {
	case 0:
		return 0, true
	case 1:
		return uint64(limbs[0]), true
	case 2:
		return uint64(limbs[0]) | uint64(limbs[1])<<32, true
	default:
		return 0, false
	}
}

// UintAdd returns a + b.
func UintAdd(a, b BigUint) (BigUint, error) {
	al := trimLimbs(a.Limbs)
	bl := trimLimbs(b.Limbs)
	if len(bl) > len(al) {
		al, bl = bl, al
	}
	if len(al) == 0 {
		return BigUint{}, nil
	}
	out := make([]uint32, len(al)+1)
	var carry uint64
	for i := range al {
		sum := uint64(al[i]) + carry
		if i < len(bl) {
			sum += uint64(bl[i])
		}
		out[i] = uint32(sum) //nolint:gosec // G115: limb truncation.
		carry = sum >> 32
	}
	out[len(al)] = uint32(carry) //nolint:gosec // G115: carry is 0 or 1.
	out = trimLimbs(out)
	if len(out) > MaxLimbs {
		return BigUint{}, ErrMaxLimbs
	}
	return BigUint{Limbs: out}, nil
}

// UintSub returns a - b, failing with ErrUnderflow when b > a.
func UintSub(a, b BigUint) (BigUint, error) {
	if cmpLimbs(a.Limbs, b.Limbs) < 0 {
		return BigUint{}, ErrUnderflow
	}
	al := trimLimbs(a.Limbs)
	bl := trimLimbs(b.Limbs)
	if len(bl) == 0 {
		return BigUint{Limbs: al}, nil
	}
	out := make([]uint32, len(al))
	copy(out, al)
	subInPlace(out, bl)
	return BigUint{Limbs: trimLimbs(out)}, nil
}

// UintMul returns a * b.
func UintMul(a, b BigUint) (BigUint, error) {
	al := trimLimbs(a.Limbs)
	bl := trimLimbs(b.Limbs)
	if len(al) == 0 || len(bl) == 0 {
		return BigUint{}, nil
	}
	if len(al)+len(bl) > MaxLimbs {
		return BigUint{}, ErrMaxLimbs
	}
	out := make([]uint32, len(al)+len(bl))
	for i := range al {
		ai := uint64(al[i])
		var carry uint64
		for j := range bl {
			sum := uint64(out[i+j]) + ai*uint64(bl[j]) + carry
			out[i+j] = uint32(sum) //nolint:gosec // G115: limb truncation.
			carry = sum >> 32
		}
		for k := i + len(bl); carry != 0; k++ {
			sum := uint64(out[k]) + carry
			out[k] = uint32(sum) //nolint:gosec // G115: limb truncation.
			carry = sum >> 32
		}
	}
	return BigUint{Limbs: trimLimbs(out)}, nil
}

// UintDivModSmall divides u by a single limb.
func UintDivModSmall(u BigUint, d uint32) (q BigUint, r uint32, err error) {
	if d == 0 {
		return BigUint{}, 0, ErrDivByZero
	}
	limbs := trimLimbs(u.Limbs)
	out := make([]uint32, len(limbs))
	var rem uint64
	for i := len(limbs) - 1; i >= 0; i-- {
		cur := rem<<32 | uint64(limbs[i])
		out[i] = uint32(cur / uint64(d)) //nolint:gosec // G115: quotient fits in a limb.
		rem = cur % uint64(d)
	}
	return BigUint{Limbs: trimLimbs(out)}, uint32(rem), nil //nolint:gosec // G115: rem < d.
}

// UintDivMod returns the quotient and remainder of a / b.
func UintDivMod(a, b BigUint) (q, r BigUint, err error) {
	al := trimLimbs(a.Limbs)
	bl := trimLimbs(b.Limbs)
	if len(bl) == 0 {
		return BigUint{}, BigUint{}, ErrDivByZero
	}
	if cmpLimbs(al, bl) < 0 {
		return BigUint{}, BigUint{Limbs: al}, nil
	}
	if len(bl) == 1 {
		q, small, err := UintDivModSmall(BigUint{Limbs: al}, bl[0])
		return q, UintFromUint64(uint64(small)), err
	}

	shift := bitLenLimbs(al) - bitLenLimbs(bl)
	denomShifted, err := UintShl(BigUint{Limbs: bl}, shift)
	if err != nil {
		return BigUint{}, BigUint{}, err
	}
	denom := make([]uint32, len(al))
	copy(denom, denomShifted.Limbs)
	rem := make([]uint32, len(al))
	copy(rem, al)

	quot := make([]uint32, shift/32+1)
	for i := shift; i >= 0; i-- {
		if cmpLimbs(rem, denom) >= 0 {
			subInPlace(rem, denom)
			quot[i/32] |= 1 << (i % 32)
		}
		shr1InPlace(denom)
	}
	return BigUint{Limbs: trimLimbs(quot)}, BigUint{Limbs: trimLimbs(rem)}, nil
}

// UintShl returns u << n.
func UintShl(u BigUint, n int) (BigUint, error) {
	if n < 0 {
		return BigUint{}, ErrNegativeShift
	}
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 || n == 0 {
		return BigUint{Limbs: limbs}, nil
	}
	wordShift, bitShift := n/32, n%32
	if len(limbs)+wordShift+1 > MaxLimbs {
		return BigUint{}, ErrMaxLimbs
	}
	out := make([]uint32, len(limbs)+wordShift+1)
	if bitShift == 0 {
		copy(out[wordShift:], limbs)
		return BigUint{Limbs: trimLimbs(out)}, nil
	}
	var carry uint32
	for i, v := range limbs {
		out[i+wordShift] = v<<bitShift | carry
		carry = v >> (32 - bitShift)
	}
	out[len(limbs)+wordShift] = carry
	return BigUint{Limbs: trimLimbs(out)}, nil
}

// UintShr returns u >> n.
func UintShr(u BigUint, n int) (BigUint, error) {
	if n < 0 {
		return BigUint{}, ErrNegativeShift
	}
	limbs := trimLimbs(u.Limbs)
	wordShift, bitShift := n/32, n%32
	if wordShift >= len(limbs) {
		return BigUint{}, nil
	}
	out := make([]uint32, len(limbs)-wordShift)
	if bitShift == 0 {
		copy(out, limbs[wordShift:])
		return BigUint{Limbs: trimLimbs(out)}, nil
	}
	for i := range out {
		v := limbs[i+wordShift] >> bitShift
		if i+wordShift+1 < len(limbs) {
			v |= limbs[i+wordShift+1] << (32 - bitShift)
		}
		out[i] = v
	}
	return BigUint{Limbs: trimLimbs(out)}, nil
}

func trimLimbs(limbs []uint32) []uint32 {
	for len(limbs) > 0 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	if len(limbs) == 0 {
		return nil
	}
	return limbs
}

func bitLenLimbs(limbs []uint32) int {
	limbs = trimLimbs(limbs)
	if len(limbs) == 0 {
		return 0
	}
	return (len(limbs)-1)*32 + bits.Len32(limbs[len(limbs)-1])
}

func cmpLimbs(a, b []uint32) int {
	a = trimLimbs(a)
	b = trimLimbs(b)
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// subInPlace computes dst -= sub; callers guarantee dst >= sub.
func subInPlace(dst, sub []uint32) {
	var borrow uint64
	for i := range dst {
		av := uint64(dst[i])
		var bv uint64
		if i < len(sub) {
			bv = uint64(sub[i])
		}
		dst[i] = uint32(av - bv - borrow) //nolint:gosec // G115: limb truncation.
		if av < bv+borrow {
			borrow = 1
		} else {
			borrow = 0
		}
	}
}

func shr1InPlace(limbs []uint32) {
	var carry uint32
	for i := len(limbs) - 1; i >= 0; i-- {
		v := limbs[i]
		limbs[i] = v>>1 | carry<<31
		carry = v & 1
	}
}
