package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// Pivot computes classic floor-trader pivots from the *previous* bar's
// H/L/C. Bar 0 is invalid (no previous bar exists).
func Pivot(bars []bar.Bar) (Series, error) {
	if len(bars) == 0 {
		return Series{}, ErrEmptyBars
	}
	values := blankValues(bars, KindPivot)

	for i := 1; i < len(bars); i++ {
		prev := bars[i-1]
		p := (prev.High + prev.Low + prev.Close) / 3

		values[i].Valid = true
		values[i].Pivot = p
		values[i].R1 = 2*p - prev.Low
		values[i].R2 = p + (prev.High - prev.Low)
		values[i].R3 = prev.High + 2*(p-prev.Low)
		values[i].S1 = 2*p - prev.High
		values[i].S2 = p - (prev.High - prev.Low)
		values[i].S3 = prev.Low - 2*(prev.High-p)
	}
	return Series{Kind: KindPivot, Values: values}, nil
}
