package indicator

import (
	"math"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
)

// Bollinger computes middle=SMA(p), population stddev over the same
// window, upper=middle+m*stddev, lower=middle-m*stddev. Invalid for
// i < p-1.
func Bollinger(bars []bar.Bar, period int, mult float64) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	values := blankValues(bars, KindBollinger)

	for i := period - 1; i < len(bars); i++ {
		sum := 0.0
		for w := i - period + 1; w <= i; w++ {
			sum += bars[w].Close
		}
		mean := sum / float64(period)

		sq := 0.0
		for w := i - period + 1; w <= i; w++ {
			d := bars[w].Close - mean
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(period))

		values[i].Valid = true
		values[i].Middle = mean
		values[i].Upper = mean + mult*sd
		values[i].Lower = mean - mult*sd
	}
	return Series{Kind: KindBollinger, Params: Params{Period: period, Mult: mult}, Values: values}, nil
}
