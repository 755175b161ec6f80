package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// EMA computes the exponential moving average of closing price over
// period p, seeded at i=p-1 with the SMA of the first p closes, then
// ema[i] = close[i]*k + ema[i-1]*(1-k) with k = 2/(p+1). Invalid for
// i < p-1.
func EMA(bars []bar.Bar, period int) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	emaVals := emaOf(closes, period)

	values := blankValues(bars, KindEMA)
	for i := period - 1; i < len(bars); i++ {
		values[i].Valid = true
		values[i].Value = emaVals[i]
	}
	return Series{Kind: KindEMA, Params: Params{Period: period}, Values: values}, nil
}

// emaOf computes an EMA over an arbitrary float64 series, seeded at
// i=period-1 with the SMA of the first `period` values. Indices before
// the seed are left at zero (callers must check validity separately via
// their own warmup index).
func emaOf(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) < period {
		return out
	}
	k := 2.0 / (float64(period) + 1.0)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += xs[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < len(xs); i++ {
		out[i] = xs[i]*k + out[i-1]*(1-k)
	}
	return out
}
