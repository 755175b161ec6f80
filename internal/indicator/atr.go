package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// ATR computes the Wilder-smoothed average true range over period p.
// TR at bar 0 is high-low; for i>=1, TR is the max of high-low,
// |high-prevClose| and |low-prevClose|. Seeded at i=p-1 with the mean of
// the first p true ranges, then Wilder-smoothed. Invalid for i < p-1.
func ATR(bars []bar.Bar, period int) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	values := blankValues(bars, KindATR)

	tr := make([]float64, len(bars))
	for i := range bars {
		if i == 0 {
			tr[i] = bars[i].TrueRange(nil)
		} else {
			prev := bars[i-1]
			tr[i] = bars[i].TrueRange(&prev)
		}
	}

	if len(bars) < period {
		return Series{Kind: KindATR, Params: Params{Period: period}, Values: values}, nil
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += tr[i]
	}
	atr := sum / float64(period)
	values[period-1].Valid = true
	values[period-1].Value = atr

	for i := period; i < len(bars); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		values[i].Valid = true
		values[i].Value = atr
	}

	return Series{Kind: KindATR, Params: Params{Period: period}, Values: values}, nil
}
