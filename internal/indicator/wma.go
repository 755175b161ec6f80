package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// WMA computes the weighted moving average of closing price over period
// p, weighting the newest close by p and the oldest in the window by 1.
// Invalid for i < p-1.
func WMA(bars []bar.Bar, period int) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	values := blankValues(bars, KindWMA)
	divisor := float64(period*(period+1)) / 2

	for i := period - 1; i < len(bars); i++ {
		sum := 0.0
		for w := 0; w < period; w++ {
			// newest (offset 0 from i) gets weight `period`, oldest gets weight 1.
			weight := float64(period - w)
			sum += bars[i-w].Close * weight
		}
		values[i].Valid = true
		values[i].Value = sum / divisor
	}
	return Series{Kind: KindWMA, Params: Params{Period: period}, Values: values}, nil
}
