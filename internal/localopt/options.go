package localopt

import (
	"fmt"
	"strings"
)

// Rule identifies one rewrite rule. Rules form a bit set.
type Rule uint8

const (
	// RuleIdentity removes add/sub of 0 and mul by 1.
	RuleIdentity Rule = 1 << iota
	// RuleShift turns mul by an exact power of two into shl.
	RuleShift
	// RuleApprox turns mul by other positive constants into shl+mul+add.
	RuleApprox
	// RuleSDiv strength-reduces signed division by a positive constant.
	RuleSDiv
	// RuleCancel folds (x + C) - C back to x across a use edge.
	RuleCancel

	// AllRules enables every rule.
	AllRules = RuleIdentity | RuleShift | RuleApprox | RuleSDiv | RuleCancel
)

var ruleNames = []struct {
	rule Rule
	name string
}{
	{RuleIdentity, "identity"},
	{RuleShift, "shift"},
	{RuleApprox, "approx"},
	{RuleSDiv, "sdiv"},
	{RuleCancel, "cancel"},
}

// Rules lists the individual rules in application order.
func Rules() []Rule {
	out := make([]Rule, len(ruleNames))
	for i, rn := range ruleNames {
		out[i] = rn.rule
	}
	return out
}

func (r Rule) String() string {
	var parts []string
	for _, rn := range ruleNames {
		if r&rn.rule != 0 {
			parts = append(parts, rn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseRules parses a comma-separated rule list. "all" and "none" are accepted.
func ParseRules(s string) (Rule, error) {
	var out Rule
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		switch tok {
		case "":
			continue
		case "all":
			out |= AllRules
			continue
		case "none":
			continue
		}
		found := false
		for _, rn := range ruleNames {
			if rn.name == tok {
				out |= rn.rule
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown rule %q (expected: identity|shift|approx|sdiv|cancel|all|none)", tok)
		}
	}
	return out, nil
}

// Options configures a pass run.
type Options struct {
	// Rules selects the enabled rules.
	Rules Rule
	// MaxCorrection bounds |offset| for the approximate multiply rule.
	// Zero means unbounded.
	MaxCorrection uint64
}

// DefaultOptions enables every rule with no profitability bound.
func DefaultOptions() Options {
	return Options{Rules: AllRules}
}

func (o Options) enabled(r Rule) bool { return o.Rules&r != 0 }
