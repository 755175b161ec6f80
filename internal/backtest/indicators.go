package backtest

import (
	"fmt"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
	"github.com/contactkeval/ruletest-backtest/internal/indicator"
	"github.com/contactkeval/ruletest-backtest/internal/rule"
)

// computeIndicators evaluates every distinct indicator operand a
// strategy's rule trees reference, over bars, keyed by the operand's
// fingerprint so the backtest loop's evaluator can look each one up in
// O(1).
func computeIndicators(bars []bar.Bar, operands map[string]rule.Operand) (map[string]indicator.Series, error) {
	out := make(map[string]indicator.Series, len(operands))
	for key, op := range operands {
		series, err := computeOne(bars, op)
		if err != nil {
			return nil, fmt.Errorf("backtest: computing indicator %s: %w", key, err)
		}
		out[key] = series
	}
	return out, nil
}

func computeOne(bars []bar.Bar, op rule.Operand) (indicator.Series, error) {
	switch op.Indicator {
	case rule.IndicatorSMA:
		return indicator.SMA(bars, op.Period)
	case rule.IndicatorEMA:
		return indicator.EMA(bars, op.Period)
	case rule.IndicatorRSI:
		return indicator.RSI(bars, op.Period)
	case rule.IndicatorATR:
		return indicator.ATR(bars, op.Period)
	case rule.IndicatorMACD:
		return indicator.MACD(bars, op.Period, op.Period2, op.Period3)
	case rule.IndicatorBollinger:
		return indicator.Bollinger(bars, op.Period, op.Mult)
	case rule.IndicatorPivot:
		return indicator.Pivot(bars)
	default:
		return indicator.Series{}, fmt.Errorf("backtest: unknown indicator kind %v", op.Indicator)
	}
}
