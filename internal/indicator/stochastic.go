package indicator

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// Stochastic computes %K over a window of kPeriod bars (100*(close-min
// low)/(max high-min low), or 50 when the window's range is zero) and %D
// as the SMA(dPeriod) of %K. %K is valid at i >= kPeriod-1; %D is valid
// once dPeriod %K values exist.
func Stochastic(bars []bar.Bar, kPeriod, dPeriod int) (Series, error) {
	if kPeriod < 1 || dPeriod < 1 {
		return Series{}, ErrInvalidPeriod
	}
	if len(bars) == 0 {
		return Series{}, ErrEmptyBars
	}

	k := make([]float64, len(bars))
	for i := kPeriod - 1; i < len(bars); i++ {
		hi, lo := bars[i-kPeriod+1].High, bars[i-kPeriod+1].Low
		for w := i - kPeriod + 1; w <= i; w++ {
			if bars[w].High > hi {
				hi = bars[w].High
			}
			if bars[w].Low < lo {
				lo = bars[w].Low
			}
		}
		rng := hi - lo
		if rng == 0 {
			k[i] = 50
		} else {
			k[i] = 100 * (bars[i].Close - lo) / rng
		}
	}

	values := blankValues(bars, KindStochastic)
	dValidFrom := kPeriod - 1 + dPeriod - 1
	for i := kPeriod - 1; i < len(bars); i++ {
		values[i].K = k[i]
		if i >= dValidFrom {
			sum := 0.0
			for w := i - dPeriod + 1; w <= i; w++ {
				sum += k[w]
			}
			values[i].D = sum / float64(dPeriod)
			values[i].Valid = true
		}
	}
	return Series{Kind: KindStochastic, Params: Params{Period: kPeriod, Period2: dPeriod}, Values: values}, nil
}
