package localopt

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"localopt/internal/ir"
	"localopt/internal/trace"
)

// Result summarizes one pass run.
type Result struct {
	// Changed is true when at least one rule rewrote a use or inserted an
	// instruction. Instructions without users are never visited by the
	// rules, so a module whose only candidates are unused reports false.
	Changed  bool         `msgpack:"changed"`
	Visited  int          `msgpack:"visited"`
	Inserted int          `msgpack:"inserted"`
	Fired    map[Rule]int `msgpack:"fired"`
}

func (r *Result) count(rule Rule) {
	if r.Fired == nil {
		r.Fired = make(map[Rule]int)
	}
	r.Fired[rule]++
	r.Changed = true
}

// Count returns how many times rule fired.
func (r Result) Count(rule Rule) int { return r.Fired[rule] }

// Total returns the number of rule firings.
func (r Result) Total() int {
	n := 0
	for _, c := range r.Fired {
		n += c
	}
	return n
}

// Merge adds o into r.
func (r *Result) Merge(o Result) {
	r.Changed = r.Changed || o.Changed
	r.Visited += o.Visited
	r.Inserted += o.Inserted
	for rule, c := range o.Fired {
		if r.Fired == nil {
			r.Fired = make(map[Rule]int)
		}
		r.Fired[rule] += c
	}
}

type ruleFunc func(rc *rewriteCtx) (bool, error)

// pipeline is the application order. The first rule that fires ends the
// visit.
var pipeline = []struct {
	rule Rule
	fn   ruleFunc
}{
	{RuleIdentity, identity},
	{RuleShift, shiftReduce},
	{RuleApprox, approxReduce},
	{RuleSDiv, sdivReduce},
	{RuleCancel, cancelPair},
}

// Run makes one forward pass over every instruction of m. Instructions
// inserted by a rewrite are not visited again, and nothing is deleted:
// rewritten instructions stay in place without users.
//
// On error Run stops and returns the counts accumulated so far.
func Run(ctx context.Context, m *ir.Module, opts Options) (Result, error) {
	var res Result
	if m == nil {
		return res, nil
	}
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopePass, "localopt", trace.ParentSpan(ctx)).
		WithExtra("module", m.Name).
		WithExtra("rules", opts.Rules.String())

	var err error
	for _, f := range m.Funcs {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = runFunc(f, &opts, &res, t, span.ID()); err != nil {
			break
		}
	}
	span.WithExtra("visited", strconv.Itoa(res.Visited)).
		WithExtra("fired", strconv.Itoa(res.Total())).
		End(errDetail(err))
	return res, err
}

// RunDefault runs every rule and reports whether anything changed.
func RunDefault(m *ir.Module) bool {
	res, err := Run(context.Background(), m, DefaultOptions())
	return err == nil && res.Changed
}

func runFunc(f *ir.Func, opts *Options, res *Result, t trace.Tracer, parent uint64) error {
	span := trace.Begin(t, trace.ScopeFunc, "func:@"+f.Name, parent)
	before := res.Total()
	var err error
	for _, b := range f.Blocks {
		if err = runBlock(b, opts, res, t, span.ID()); err != nil {
			err = fmt.Errorf("func @%s: %w", f.Name, err)
			break
		}
	}
	span.WithExtra("fired", strconv.Itoa(res.Total()-before)).End(errDetail(err))
	return err
}

func runBlock(b *ir.Block, opts *Options, res *Result, t trace.Tracer, span uint64) error {
	// InsertAfter replaces b.Instrs, so the snapshot keeps original order.
	for _, in := range slices.Clone(b.Instrs) {
		bin, ok, err := classify(in)
		if err != nil {
			return fmt.Errorf("block %s: %w", b.Name, err)
		}
		if !ok {
			continue
		}
		res.Visited++
		// A value nobody reads has nothing to redirect; this also keeps
		// a second run from re-expanding rewritten instructions.
		if in.NumUsers() == 0 {
			continue
		}
		rc := newRewriteCtx(bin, opts, res, t, span)
		for _, step := range pipeline {
			if !opts.enabled(step.rule) {
				continue
			}
			fired, err := step.fn(rc)
			if err != nil {
				return fmt.Errorf("block %s: %%%s: %s: %w", b.Name, in.Name, step.rule, err)
			}
			if fired {
				break
			}
		}
	}
	return nil
}

func errDetail(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
