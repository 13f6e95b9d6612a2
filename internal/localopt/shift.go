package localopt

import (
	"localopt/internal/apint"
	"localopt/internal/ir"
)

// exactShift reports whether c is a power of two greater than one.
// Non-positive constants never qualify, which also keeps the minimum
// signed value (a lone sign bit) out.
func exactShift(c apint.Int) bool {
	return c.IsStrictlyPositive() && c.IsPowerOf2() && !c.IsOne()
}

// shiftReduce rewrites x * 2^k as x << k. Operand 0 is tried first.
func shiftReduce(rc *rewriteCtx) (bool, error) {
	b := rc.cur
	if b.op != ir.OpMul {
		return false, nil
	}
	for i := range b.args {
		if !b.args[i].isConst || !exactShift(b.args[i].c) {
			continue
		}
		amount, err := rc.shiftConst(b.args[i].c.LogBase2())
		if err != nil {
			return false, err
		}
		shl, err := rc.insert("shl", ir.OpShl, b.args[1-i].val, amount)
		if err != nil {
			return false, err
		}
		rc.replaceUses(ir.Reg(shl))
		rc.record(RuleShift, b.in, ir.Reg(shl))
		return true, nil
	}
	return false, nil
}
