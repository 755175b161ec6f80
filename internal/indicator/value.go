// Package indicator implements the streaming technical-indicator suite:
// SMA, EMA, WMA, RSI, MACD, Bollinger, Stochastic, ATR and Pivot, each
// producing a Series aligned index-for-index with the source bar vector.
//
// Every indicator emits a value at every index, even during warmup — the
// Value.Valid flag carries that distinction rather than shortening the
// slice, so callers can always index Series.Values by bar index.
package indicator

import (
	"errors"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
)

// Kind tags the indicator family a Series/Value belongs to.
type Kind int

const (
	KindSMA Kind = iota
	KindEMA
	KindWMA
	KindRSI
	KindMACD
	KindBollinger
	KindStochastic
	KindATR
	KindPivot
	KindROC
	KindStdDev
	KindOBV
	KindVWAP
)

// Value is a tagged union over the indicator output shapes the spec
// defines. Only the fields relevant to Kind are meaningful; the rest are
// zero. Valid is false during warmup.
type Value struct {
	Date  int64
	Valid bool
	Kind  Kind

	// Simple: SMA, EMA, WMA, RSI, ROC, ATR, StdDev, OBV, VWAP.
	Value float64

	// MACD.
	Line      float64
	Signal    float64
	Histogram float64

	// Stochastic.
	K float64
	D float64

	// Bollinger.
	Upper  float64
	Middle float64
	Lower  float64

	// Pivot.
	Pivot float64
	R1    float64
	R2    float64
	R3    float64
	S1    float64
	S2    float64
	S3    float64
}

// Series is a computed indicator over a bar vector: one Value per bar,
// aligned by index (Values[i].Date == bars[i].Date).
type Series struct {
	Kind   Kind
	Params Params
	Values []Value
}

// Params is the small fixed set of configuration knobs any indicator
// kind needs. Not every field applies to every kind; see each
// constructor's doc comment.
type Params struct {
	Period int
	Period2 int // MACD slow period, Stochastic %D period
	Period3 int // MACD signal period
	Mult    float64
}

var (
	// ErrEmptyBars is returned when an indicator is asked to compute over
	// zero bars.
	ErrEmptyBars = errors.New("indicator: empty bar vector")
	// ErrInvalidPeriod is returned when a period parameter is < 1.
	ErrInvalidPeriod = errors.New("indicator: period must be >= 1")
)

func validate(bars []bar.Bar, period int) error {
	if len(bars) == 0 {
		return ErrEmptyBars
	}
	if period < 1 {
		return ErrInvalidPeriod
	}
	return nil
}

// blankValues returns a slice of len(bars) Values, all Valid=false with
// Date set from the source bars, for an indicator that must still emit one
// value per bar during warmup.
func blankValues(bars []bar.Bar, kind Kind) []Value {
	out := make([]Value, len(bars))
	for i, b := range bars {
		out[i] = Value{Date: b.Date, Kind: kind}
	}
	return out
}
