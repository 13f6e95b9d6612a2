package localopt

import (
	"localopt/internal/apint"
	"localopt/internal/bignum"
	"localopt/internal/ir"
)

// approxReduce rewrites x * C for a positive C that is not a power of two
// as (x << k) + x*(C - 2^k), where 2^k is the power of two nearest to C.
// The identity holds for any k modulo 2^width; k only decides how cheap
// the residual multiply is.
func approxReduce(rc *rewriteCtx) (bool, error) {
	b := rc.cur
	if b.op != ir.OpMul {
		return false, nil
	}
	pos, ok := b.singleConst()
	if !ok {
		return false, nil
	}
	c := b.args[pos].c
	if !c.IsStrictlyPositive() || c.IsPowerOf2() {
		return false, nil
	}
	k := c.NearestLogBase2()
	pow, err := apint.Pow2(c.Width(), k)
	if err != nil {
		return false, err
	}
	offset, err := apint.Sub(c, pow)
	if err != nil {
		return false, err
	}
	if !withinCorrection(offset, rc.opts.MaxCorrection) {
		return false, nil
	}

	x := b.args[1-pos].val
	amount, err := rc.shiftConst(k)
	if err != nil {
		return false, err
	}
	shl, err := rc.insert("shl", ir.OpShl, x, amount)
	if err != nil {
		return false, err
	}
	corr, err := rc.insert("corr", ir.OpMul, x, ir.Const(offset))
	if err != nil {
		return false, err
	}
	sum, err := rc.insert("sum", ir.OpAdd, ir.Reg(shl), ir.Reg(corr))
	if err != nil {
		return false, err
	}
	rc.replaceUses(ir.Reg(sum))
	rc.record(RuleApprox, b.in, ir.Reg(sum))
	return true, nil
}

// withinCorrection reports whether |offset| <= limit; limit 0 disables the bound.
func withinCorrection(offset apint.Int, limit uint64) bool {
	if limit == 0 {
		return true
	}
	return offset.Signed().Abs().Cmp(bignum.UintFromUint64(limit)) <= 0
}
