package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// MACD computes the MACD line (EMA(fast)-EMA(slow) of close), its signal
// line (an EMA(sig) run over the MACD line's own valid-value sequence,
// seeded with the simple mean of the first sig valid MACD values), and
// the histogram (line-signal). The line is emitted invalid until the
// signal line is seeded; once seeded all three fields are valid together.
func MACD(bars []bar.Bar, fast, slow, sig int) (Series, error) {
	if fast < 1 || slow < 1 || sig < 1 {
		return Series{}, ErrInvalidPeriod
	}
	if len(bars) == 0 {
		return Series{}, ErrEmptyBars
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	emaFast := emaOf(closes, fast)
	emaSlow := emaOf(closes, slow)

	lineValidFrom := maxInt(fast, slow) - 1

	values := blankValues(bars, KindMACD)

	k := 2.0 / (float64(sig) + 1.0)
	var seedSum float64
	var seedCount int
	var signalSeeded bool
	var prevSignal float64

	for i := lineValidFrom; i < len(bars); i++ {
		line := emaFast[i] - emaSlow[i]

		if !signalSeeded {
			seedSum += line
			seedCount++
			if seedCount < sig {
				continue
			}
			prevSignal = seedSum / float64(sig)
			signalSeeded = true
		} else {
			prevSignal = line*k + prevSignal*(1-k)
		}

		values[i].Valid = true
		values[i].Line = line
		values[i].Signal = prevSignal
		values[i].Histogram = line - prevSignal
	}

	return Series{Kind: KindMACD, Params: Params{Period: fast, Period2: slow, Period3: sig}, Values: values}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
