package localopt

import (
	"fmt"

	"localopt/internal/apint"
	"localopt/internal/bignum"
	"localopt/internal/ir"
)

// sdivReduce rewrites x / d for a constant divisor d > 0 into shifts and a
// high multiply that compute the same truncated quotient for every x:
//
//	d == 1     uses of the division become x
//	d == 2^k   q = (x + ((x >>a w-1) >>l w-k)) >>a k
//	otherwise  q = mulhs(x, M) [+ x] >>a s; q += x >>l w-1
//
// A constant dividend is never rewritten.
func sdivReduce(rc *rewriteCtx) (bool, error) {
	b := rc.cur
	if b.op != ir.OpSDiv || b.args[0].isConst || !b.args[1].isConst {
		return false, nil
	}
	d := b.args[1].c
	if !d.IsStrictlyPositive() {
		return false, nil
	}
	x := b.args[0].val

	var q *ir.Instr
	var err error
	switch {
	case d.IsOne():
		rc.replaceUses(x)
		rc.record(RuleSDiv, b.in, x)
		return true, nil
	case d.IsPowerOf2():
		q, err = rc.divPow2(x, d.LogBase2())
	default:
		q, err = rc.divMagic(x, d)
	}
	if err != nil {
		return false, err
	}
	rc.replaceUses(ir.Reg(q))
	rc.record(RuleSDiv, b.in, ir.Reg(q))
	return true, nil
}

func (rc *rewriteCtx) divPow2(x ir.Value, k int) (*ir.Instr, error) {
	w := rc.cur.in.Width
	signAmt, err := rc.shiftConst(w - 1)
	if err != nil {
		return nil, err
	}
	biasAmt, err := rc.shiftConst(w - k)
	if err != nil {
		return nil, err
	}
	kAmt, err := rc.shiftConst(k)
	if err != nil {
		return nil, err
	}
	sign, err := rc.insert("sign", ir.OpAShr, x, signAmt)
	if err != nil {
		return nil, err
	}
	bias, err := rc.insert("bias", ir.OpLShr, ir.Reg(sign), biasAmt)
	if err != nil {
		return nil, err
	}
	adj, err := rc.insert("adj", ir.OpAdd, x, ir.Reg(bias))
	if err != nil {
		return nil, err
	}
	return rc.insert("quot", ir.OpAShr, ir.Reg(adj), kAmt)
}

func (rc *rewriteCtx) divMagic(x ir.Value, d apint.Int) (*ir.Instr, error) {
	w := rc.cur.in.Width
	m, s, err := signedMagic(d)
	if err != nil {
		return nil, err
	}
	q, err := rc.insert("mulhs", ir.OpMulHS, x, ir.Const(m))
	if err != nil {
		return nil, err
	}
	if m.IsNegative() {
		if q, err = rc.insert("fix", ir.OpAdd, ir.Reg(q), x); err != nil {
			return nil, err
		}
	}
	if s > 0 {
		amt, err := rc.shiftConst(s)
		if err != nil {
			return nil, err
		}
		if q, err = rc.insert("shr", ir.OpAShr, ir.Reg(q), amt); err != nil {
			return nil, err
		}
	}
	signAmt, err := rc.shiftConst(w - 1)
	if err != nil {
		return nil, err
	}
	sign, err := rc.insert("sign", ir.OpLShr, x, signAmt)
	if err != nil {
		return nil, err
	}
	return rc.insert("quot", ir.OpAdd, ir.Reg(q), ir.Reg(sign))
}

// signedMagic computes the multiplier M and post-shift s for signed
// division by d, 2 <= d < 2^(w-1) (Hacker's Delight, 10-1). p is the
// smallest exponent >= w with 2^p > nc * (d - 2^p mod d), where
// nc = 2^(w-1) - 1 - 2^(w-1) mod d. Then M = (2^p + d - 2^p mod d) / d
// and s = p - w. M always fits in w bits unsigned.
func signedMagic(d apint.Int) (apint.Int, int, error) {
	w := d.Width()
	dv := d.Unsigned()

	half, err := bignum.UintPow2(w - 1)
	if err != nil {
		return apint.Int{}, 0, err
	}
	_, halfMod, err := bignum.UintDivMod(half, dv)
	if err != nil {
		return apint.Int{}, 0, err
	}
	nc, err := bignum.UintSub(half, bignum.UintFromUint64(1))
	if err != nil {
		return apint.Int{}, 0, err
	}
	if nc, err = bignum.UintSub(nc, halfMod); err != nil {
		return apint.Int{}, 0, err
	}

	for p := w; p < 2*w; p++ {
		twoP, err := bignum.UintPow2(p)
		if err != nil {
			return apint.Int{}, 0, err
		}
		_, r, err := bignum.UintDivMod(twoP, dv)
		if err != nil {
			return apint.Int{}, 0, err
		}
		gap, err := bignum.UintSub(dv, r)
		if err != nil {
			return apint.Int{}, 0, err
		}
		bound, err := bignum.UintMul(nc, gap)
		if err != nil {
			return apint.Int{}, 0, err
		}
		if twoP.Cmp(bound) <= 0 {
			continue
		}
		num, err := bignum.UintAdd(twoP, gap)
		if err != nil {
			return apint.Int{}, 0, err
		}
		mag, _, err := bignum.UintDivMod(num, dv)
		if err != nil {
			return apint.Int{}, 0, err
		}
		m, err := apint.FromBig(w, bignum.IntFromUint(mag))
		if err != nil {
			return apint.Int{}, 0, err
		}
		return m, p - w, nil
	}
	return apint.Int{}, 0, fmt.Errorf("no magic number for divisor %s at i%d", d, w)
}
