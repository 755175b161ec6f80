package indicator

import (
	"math"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
)

// ROC computes the rate of change of close over period p:
// (close[i]-close[i-p])/close[i-p]*100. Invalid for i < p.
func ROC(bars []bar.Bar, period int) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	values := blankValues(bars, KindROC)
	for i := period; i < len(bars); i++ {
		prev := bars[i-period].Close
		if prev == 0 {
			continue
		}
		values[i].Valid = true
		values[i].Value = (bars[i].Close - prev) / prev * 100
	}
	return Series{Kind: KindROC, Params: Params{Period: period}, Values: values}, nil
}

// StdDev computes the population standard deviation of close over a
// window of period p. Invalid for i < p-1.
func StdDev(bars []bar.Bar, period int) (Series, error) {
	if err := validate(bars, period); err != nil {
		return Series{}, err
	}
	values := blankValues(bars, KindStdDev)
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
		values[i].Valid = true
		values[i].Value = math.Sqrt(sq / float64(period))
	}
	return Series{Kind: KindStdDev, Params: Params{Period: period}, Values: values}, nil
}

// OBV computes on-balance volume: a running sum of volume, signed by the
// direction of the day's close-to-close move. Valid from bar 0 (no
// warmup — the running total is well defined at every index).
func OBV(bars []bar.Bar) (Series, error) {
	if len(bars) == 0 {
		return Series{}, ErrEmptyBars
	}
	values := blankValues(bars, KindOBV)

	running := bars[0].Volume
	values[0].Valid = true
	values[0].Value = running

	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			running += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			running -= bars[i].Volume
		}
		values[i].Valid = true
		values[i].Value = running
	}
	return Series{Kind: KindOBV, Values: values}, nil
}

// VWAP computes the cumulative volume-weighted average price from the
// start of the bar vector: sum(typicalPrice*volume)/sum(volume). Valid
// from bar 0.
func VWAP(bars []bar.Bar) (Series, error) {
	if len(bars) == 0 {
		return Series{}, ErrEmptyBars
	}
	values := blankValues(bars, KindVWAP)

	var cumPV, cumV float64
	for i, b := range bars {
		cumPV += b.TypicalPrice() * b.Volume
		cumV += b.Volume
		values[i].Valid = true
		if cumV == 0 {
			values[i].Value = b.Close
			continue
		}
		values[i].Value = cumPV / cumV
	}
	return Series{Kind: KindVWAP, Values: values}, nil
}
