package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
)

func closesToBars(closes []float64) []bar.Bar {
	out := make([]bar.Bar, len(closes))
	for i, c := range closes {
		out[i] = bar.Bar{Code: "X", Date: int64(i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return out
}

func TestSMAWarmupAndValue(t *testing.T) {
	bars := closesToBars([]float64{1, 2, 3, 4, 5})
	s, err := SMA(bars, 3)
	require.NoError(t, err)
	require.Len(t, s.Values, len(bars))

	assert.False(t, s.Values[0].Valid)
	assert.False(t, s.Values[1].Valid)
	assert.True(t, s.Values[2].Valid)
	assert.InDelta(t, 2.0, s.Values[2].Value, 1e-9)
	assert.InDelta(t, 4.0, s.Values[4].Value, 1e-9)
}

func TestSeriesLengthMatchesBarsAndDatesAlign(t *testing.T) {
	bars := closesToBars([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	for _, period := range []int{1, 3, 5} {
		s, err := EMA(bars, period)
		require.NoError(t, err)
		require.Len(t, s.Values, len(bars))
		for i, v := range s.Values {
			assert.Equal(t, bars[i].Date, v.Date)
		}
	}
}

func TestRSIBoundaries(t *testing.T) {
	// Flat prices: avg_gain == avg_loss == 0 -> RSI 50.
	flat := closesToBars([]float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100})
	s, err := RSI(flat, 14)
	require.NoError(t, err)
	require.True(t, s.Values[14].Valid)
	assert.InDelta(t, 50, s.Values[14].Value, 1e-9)

	// Strictly increasing: avg_loss == 0, avg_gain > 0 -> RSI 100.
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	up := closesToBars(closes)
	s2, err := RSI(up, 14)
	require.NoError(t, err)
	require.True(t, s2.Values[14].Valid)
	assert.InDelta(t, 100, s2.Values[14].Value, 1e-9)
}

func TestStochasticZeroRangeYields50(t *testing.T) {
	bars := closesToBars([]float64{10, 10, 10, 10, 10})
	s, err := Stochastic(bars, 3, 2)
	require.NoError(t, err)
	for i := 2; i < len(bars); i++ {
		assert.InDelta(t, 50, s.Values[i].K, 1e-9)
	}
}

func TestMACDSeedsSignalAtSigthValidValue(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	bars := closesToBars(closes)
	s, err := MACD(bars, 12, 26, 9)
	require.NoError(t, err)

	lineValidFrom := 26 - 1
	seedIdx := lineValidFrom + 9 - 1
	for i := 0; i < seedIdx; i++ {
		assert.False(t, s.Values[i].Valid, "index %d should be invalid before signal seeds", i)
	}
	assert.True(t, s.Values[seedIdx].Valid)
	assert.InDelta(t, s.Values[seedIdx].Line-s.Values[seedIdx].Signal, s.Values[seedIdx].Histogram, 1e-9)
}

func TestPivotBarZeroInvalid(t *testing.T) {
	bars := closesToBars([]float64{10, 11, 12})
	s, err := Pivot(bars)
	require.NoError(t, err)
	assert.False(t, s.Values[0].Valid)
	assert.True(t, s.Values[1].Valid)
}

func TestIndicatorErrorsOnEmptyOrInvalidPeriod(t *testing.T) {
	_, err := SMA(nil, 3)
	assert.ErrorIs(t, err, ErrEmptyBars)

	bars := closesToBars([]float64{1, 2, 3})
	_, err = SMA(bars, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
