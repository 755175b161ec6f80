package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndCloseUpdatesCashAndTrades(t *testing.T) {
	pf := New(10000)
	pf.Open(Position{Code: "ABC", Quantity: 10, EntryPrice: 100, EntryDate: 1})
	require.Contains(t, pf.Positions, "ABC")

	ok := pf.Close("ABC", 110, 2, 95, 1100)
	require.True(t, ok)
	assert.NotContains(t, pf.Positions, "ABC")
	assert.InDelta(t, 10000+1100, pf.Cash, 1e-9)
	require.Len(t, pf.ClosedTrades, 1)
	assert.InDelta(t, 95, pf.ClosedTrades[0].PnL, 1e-9)
}

func TestCloseUnknownCodeReturnsFalse(t *testing.T) {
	pf := New(1000)
	assert.False(t, pf.Close("NOPE", 1, 1, 0, 0))
}

func TestMarkEquitySumsCashAndPositions(t *testing.T) {
	pf := New(1000)
	pf.Cash = 500
	pf.Open(Position{Code: "A", Quantity: 10, EntryPrice: 20})
	pf.Open(Position{Code: "B", Quantity: -5, EntryPrice: 30})

	equity := pf.MarkEquity(5, map[string]float64{"A": 25, "B": 28})
	assert.InDelta(t, 500+10*25+5*28, equity, 1e-9)
	require.Len(t, pf.EquityCurve, 1)
	assert.Equal(t, int64(5), pf.EquityCurve[0].Date)
}

func TestMarkEquityFallsBackToEntryPriceWhenNoQuote(t *testing.T) {
	pf := New(1000)
	pf.Cash = 0
	pf.Open(Position{Code: "A", Quantity: 4, EntryPrice: 50})
	equity := pf.MarkEquity(1, map[string]float64{})
	assert.InDelta(t, 200, equity, 1e-9)
}

func TestUnrealizedPnLLongAndShort(t *testing.T) {
	long := Position{Quantity: 10, EntryPrice: 100}
	assert.InDelta(t, 50, long.UnrealizedPnL(105), 1e-9)

	short := Position{Quantity: -10, EntryPrice: 100}
	assert.InDelta(t, 50, short.UnrealizedPnL(95), 1e-9)
}
