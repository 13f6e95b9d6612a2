package bignum

// BigInt is a signed integer in sign-magnitude form.
// Canonical zero is Neg=false with no limbs.
type BigInt struct {
	Neg   bool
	Limbs []uint32
}

// IntFromInt64 creates a BigInt from an int64.
func IntFromInt64(v int64) BigInt {
	switch {
	case v == 0:
		return BigInt{}
	case v > 0:
		return BigInt{Limbs: UintFromUint64(uint64(v)).Limbs}
	default:
		u := uint64(-(v + 1)) + 1 //nolint:gosec // G115: -(v+1) is non-negative.
		return BigInt{Neg: true, Limbs: UintFromUint64(u).Limbs}
	}
}

// IntFromUint creates a non-negative BigInt from a magnitude.
func IntFromUint(u BigUint) BigInt {
	return BigInt{Limbs: trimLimbs(u.Limbs)}
}

// IsZero reports whether i is zero.
func (i BigInt) IsZero() bool {
	return len(trimLimbs(i.Limbs)) == 0
}

// Sign returns -1, 0 or 1.
func (i BigInt) Sign() int {
	switch {
	case i.IsZero():
		return 0
	case i.Neg:
		return -1
	default:
		return 1
	}
}

// Abs returns the magnitude of i.
func (i BigInt) Abs() BigUint {
	return BigUint{Limbs: trimLimbs(i.Limbs)}
}

// Negated returns -i.
func (i BigInt) Negated() BigInt {
	if i.IsZero() {
		return BigInt{}
	}
	return BigInt{Neg: !i.Neg, Limbs: trimLimbs(i.Limbs)}
}

// Cmp compares i and j and returns -1, 0 or 1.
func (i BigInt) Cmp(j BigInt) int {
	is, js := i.Sign(), j.Sign()
	if is != js {
		if is < js {
			return -1
		}
		return 1
	}
	c := cmpLimbs(i.Limbs, j.Limbs)
	if is < 0 {
		return -c
	}
	return c
}

// Int64 converts i to int64 when it fits.
func (i BigInt) Int64() (int64, bool) {
	mag, ok := i.Abs().Uint64()
	if !ok {
		return 0, false
	}
	const limit = uint64(1) << 63
	if !i.Neg {
		if mag >= limit {
			return 0, false
		}
		return int64(mag), true
	}
	switch {
	case mag > limit:
		return 0, false
	case mag == limit:
		return -1 << 63, true
	default:
		return -int64(mag), true
	}
}

// IntAdd returns a + b.
func IntAdd(a, b BigInt) (BigInt, error) {
	am, bm := a.Abs(), b.Abs()
	if a.Neg == b.Neg {
		sum, err := UintAdd(am, bm)
		if err != nil {
			return BigInt{}, err
		}
		return canonical(a.Neg, sum), nil
	}
	switch c := am.Cmp(bm); {
	case c == 0:
		return BigInt{}, nil
	case c > 0:
		diff, err := UintSub(am, bm)
		if err != nil {
			return BigInt{}, err
		}
		return canonical(a.Neg, diff), nil
	default:
		diff, err := UintSub(bm, am)
		if err != nil {
			return BigInt{}, err
		}
		return canonical(b.Neg, diff), nil
	}
}

// IntSub returns a - b.
func IntSub(a, b BigInt) (BigInt, error) {
	return IntAdd(a, b.Negated())
}

// IntMul returns a * b.
func IntMul(a, b BigInt) (BigInt, error) {
	prod, err := UintMul(a.Abs(), b.Abs())
	if err != nil {
		return BigInt{}, err
	}
	return canonical(a.Neg != b.Neg, prod), nil
}

// IntDivMod returns the truncated quotient and the remainder of a / b.
// The remainder takes the sign of a.
func IntDivMod(a, b BigInt) (q, r BigInt, err error) {
	if b.IsZero() {
		return BigInt{}, BigInt{}, ErrDivByZero
	}
	qm, rm, err := UintDivMod(a.Abs(), b.Abs())
	if err != nil {
		return BigInt{}, BigInt{}, err
	}
	return canonical(a.Neg != b.Neg, qm), canonical(a.Neg, rm), nil
}

// IntShr returns a >> n rounded toward negative infinity.
func IntShr(a BigInt, n int) (BigInt, error) {
	if n < 0 {
		return BigInt{}, ErrNegativeShift
	}
	if !a.Neg {
		shifted, err := UintShr(a.Abs(), n)
		if err != nil {
			return BigInt{}, err
		}
		return canonical(false, shifted), nil
	}
	// floor(-m / 2^n) = -ceil(m / 2^n) = -((m + 2^n - 1) >> n)
	pow2, err := UintPow2(n)
	if err != nil {
		return BigInt{}, err
	}
	bias, err := UintSub(pow2, UintFromUint64(1))
	if err != nil {
		return BigInt{}, err
	}
	sum, err := UintAdd(a.Abs(), bias)
	if err != nil {
		return BigInt{}, err
	}
	shifted, err := UintShr(sum, n)
	if err != nil {
		return BigInt{}, err
	}
	return canonical(true, shifted), nil
}

func canonical(neg bool, mag BigUint) BigInt {
	limbs := trimLimbs(mag.Limbs)
	if len(limbs) == 0 {
		return BigInt{}
	}
	return BigInt{Neg: neg, Limbs: limbs}
}
