// Package strategy holds the Strategy definition — the four rule trees
// plus sizing and risk parameters a backtest run evaluates bar by bar —
// and an optional govaluate-based sizing override.
package strategy

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// Strategy bundles the rule-grammar source text and numeric parameters
// that drive one backtest run. EntryLong and ExitLong are required;
// ExitShort and EntryShort are optional (empty when the strategy never
// shorts). The backtest package parses these into rule.Node trees once
// per run rather than this package depending on the parser directly,
// keeping strategy a plain data holder.
type Strategy struct {
	Name        string
	Description string

	EntryLong  string
	ExitLong   string
	EntryShort string
	ExitShort  string

	PositionSize float64 // fraction of cash, default 0.25
	StopLoss     float64 // percent, default 0 (unset)
	TakeProfit   float64 // percent, default 0 (unset)
	MaxPositions int     // default 1

	// SizeExpr, when non-empty, overrides PositionSize per entry signal.
	// It is evaluated against a variable bag built from the bar/run state
	// at the moment of entry; it does not replace or weaken the rule
	// grammar used for EntryLong/ExitLong/etc — this is a narrow numeric
	// override, not a second rule language.
	SizeExpr string
}

// FromConfig builds a Strategy from a loaded strategy configuration
// section, carrying the rule-grammar source text through unparsed.
func FromConfig(name, description, entryLong, exitLong, entryShort, exitShort string,
	positionSize, stopLoss, takeProfit float64, maxPositions int, sizeExpr string) Strategy {
	return Strategy{
		Name: name, Description: description,
		EntryLong: entryLong, ExitLong: exitLong,
		EntryShort: entryShort, ExitShort: exitShort,
		PositionSize: positionSize, StopLoss: stopLoss, TakeProfit: takeProfit,
		MaxPositions: maxPositions, SizeExpr: sizeExpr,
	}
}

// Vars is the variable bag EvalSizeExpr evaluates a SizeExpr against.
type Vars struct {
	Close         float64
	ATR14         float64
	Equity        float64
	OpenPositions int
}

// EvalSizeExpr compiles and evaluates s.SizeExpr against vars, returning
// the resulting position-size fraction. If SizeExpr is empty, it
// returns s.PositionSize unchanged.
func (s Strategy) EvalSizeExpr(vars Vars) (float64, error) {
	if s.SizeExpr == "" {
		return s.PositionSize, nil
	}
	expr, err := govaluate.NewEvaluableExpression(s.SizeExpr)
	if err != nil {
		return 0, fmt.Errorf("strategy: invalid size expression %q: %w", s.SizeExpr, err)
	}
	params := map[string]interface{}{
		"Close":         vars.Close,
		"ATR14":         vars.ATR14,
		"Equity":        vars.Equity,
		"OpenPositions": float64(vars.OpenPositions),
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("strategy: size expression evaluation failed: %w", err)
	}
	size, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("strategy: size expression %q did not produce a number", s.SizeExpr)
	}
	return size, nil
}
