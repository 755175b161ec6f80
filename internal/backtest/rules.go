package backtest

import (
	"fmt"

	"github.com/contactkeval/ruletest-backtest/internal/rule"
	"github.com/contactkeval/ruletest-backtest/internal/strategy"
)

// parsedRules holds a strategy's four rule trees after parsing. Entry/
// exit short are nil when the strategy config left them blank.
type parsedRules struct {
	entryLong  *rule.Node
	exitLong   *rule.Node
	entryShort *rule.Node
	exitShort  *rule.Node
}

func parseStrategyRules(strat strategy.Strategy) (parsedRules, error) {
	var p parsedRules
	var err error

	if p.entryLong, err = parseRequired(strat.EntryLong, "entry_long"); err != nil {
		return p, err
	}
	if p.exitLong, err = parseRequired(strat.ExitLong, "exit_long"); err != nil {
		return p, err
	}
	if p.entryShort, err = parseOptional(strat.EntryShort); err != nil {
		return p, err
	}
	if p.exitShort, err = parseOptional(strat.ExitShort); err != nil {
		return p, err
	}
	return p, nil
}

func parseRequired(s, field string) (*rule.Node, error) {
	node, err := rule.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", field, err)
	}
	return node, nil
}

func parseOptional(s string) (*rule.Node, error) {
	if s == "" {
		return nil, nil
	}
	node, err := rule.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing optional rule %q: %w", s, err)
	}
	return node, nil
}

// allIndicatorOperands merges the indicator operands referenced across
// all four of a strategy's rule trees into one fingerprint-keyed set.
func allIndicatorOperands(p parsedRules) map[string]rule.Operand {
	out := make(map[string]rule.Operand)
	merge := func(node *rule.Node) {
		for k, v := range rule.CollectIndicatorOperands(node) {
			out[k] = v
		}
	}
	merge(p.entryLong)
	merge(p.exitLong)
	merge(p.entryShort)
	merge(p.exitShort)
	return out
}
