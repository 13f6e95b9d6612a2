package localopt

import "localopt/internal/ir"

// cancelPair looks through the users of y = x + C for z = y - C and
// redirects every use of z to x. Users are classified before they are
// inspected; anything that is not exactly sub(y, C) is skipped.
func cancelPair(rc *rewriteCtx) (bool, error) {
	b := rc.cur
	if b.op != ir.OpAdd {
		return false, nil
	}
	pos, ok := b.singleConst()
	if !ok || b.args[1-pos].val.Kind != ir.ValueReg {
		return false, nil
	}
	c := b.args[pos].c
	x := b.args[1-pos].val

	fired := false
	for _, u := range b.in.Users() {
		ub, ok, err := classify(u)
		if err != nil || !ok || ub.op != ir.OpSub {
			continue
		}
		lhs, rhs := ub.args[0], ub.args[1]
		if lhs.isConst || lhs.val.Def != b.in || !rhs.isConst || !rhs.c.Eq(c) {
			continue
		}
		if ir.ReplaceAllUsesWith(u, x) > 0 {
			rc.record(RuleCancel, u, x)
			fired = true
		}
	}
	return fired, nil
}
