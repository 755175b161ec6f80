package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// SMA computes the simple moving average of closing price over period p.
// Invalid for i < p-1.
func SMA(bars []bar.Bar, period int) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	values := blankValues(bars, KindSMA)

	sum := 0.0
	for i, b := range bars {
		sum += b.Close
		if i >= period {
			sum -= bars[i-period].Close
		}
		if i >= period-1 {
			values[i].Valid = true
			values[i].Value = sum / float64(period)
		}
	}
	return Series{Kind: KindSMA, Params: Params{Period: period}, Values: values}, nil
}

// smaOf computes a plain SMA over an arbitrary float64 series; indices
// before period-1 are left at zero. Bollinger and Stochastic %D compute
// their window sums inline and do not call it.
func smaOf(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= period {
			sum -= xs[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}
