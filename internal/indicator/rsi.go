package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// RSI computes the Wilder-smoothed relative strength index over period p.
// The first valid value is emitted at i=p using the simple mean of the
// first p gains/losses (indices 1..p); thereafter gains/losses are
// Wilder-smoothed. avg_loss==0 maps to RSI=50 when avg_gain==0, else 100.
// Invalid for i < p.
func RSI(bars []bar.Bar, period int) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	values := blankValues(bars, KindRSI)
	if len(bars) <= period {
		return Series{Kind: KindRSI, Params: Params{Period: period}, Values: values}, nil
	}

	var sumGain, sumLoss float64
	for i := 1; i <= period; i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			sumGain += change
		} else {
			sumLoss += -change
		}
	}
	avgGain := sumGain / float64(period)
	avgLoss := sumLoss / float64(period)

	values[period].Valid = true
	values[period].Value = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)

		values[i].Valid = true
		values[i].Value = rsiFromAverages(avgGain, avgLoss)
	}

	return Series{Kind: KindRSI, Params: Params{Period: period}, Values: values}, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
