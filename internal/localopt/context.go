package localopt

import (
	"fmt"

	"localopt/internal/ir"
	"localopt/internal/trace"
)

// rewriteCtx is the state of one instruction visit. Rules receive it
// instead of sharing a cursor.
type rewriteCtx struct {
	cur  binop
	tail *ir.Instr
	opts *Options
	res  *Result

	tracer trace.Tracer
	span   uint64
}

func newRewriteCtx(b binop, opts *Options, res *Result, t trace.Tracer, span uint64) *rewriteCtx {
	return &rewriteCtx{cur: b, tail: b.in, opts: opts, res: res, tracer: t, span: span}
}

// insert places a new instruction after the previous insertion point, so
// a sequence of calls lands in call order right after the current
// instruction.
func (rc *rewriteCtx) insert(hint string, op ir.Op, a, b ir.Value) (*ir.Instr, error) {
	in, err := ir.InsertAfter(rc.tail, rc.cur.in.Name+"."+hint, op, a, b)
	if err != nil {
		return nil, fmt.Errorf("insert %s after %%%s: %w", op, rc.tail.Name, err)
	}
	rc.tail = in
	rc.res.Inserted++
	return in, nil
}

// replaceUses redirects every use of the current instruction to v.
func (rc *rewriteCtx) replaceUses(v ir.Value) int {
	return ir.ReplaceAllUsesWith(rc.cur.in, v)
}

// shiftConst builds a shift amount constant of the current width.
func (rc *rewriteCtx) shiftConst(n int) (ir.Value, error) {
	return ir.IntConst(rc.cur.in.Width, int64(n))
}

func (rc *rewriteCtx) record(rule Rule, target *ir.Instr, replacement ir.Value) {
	rc.res.count(rule)
	if rc.tracer == nil || !rc.tracer.Enabled() {
		return
	}
	trace.Point(rc.tracer, trace.ScopeRewrite, rule.String(), rc.span,
		fmt.Sprintf("%%%s -> %s", target.Name, replacement))
}
