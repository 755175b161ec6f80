package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/ruletest-backtest/internal/portfolio"
)

func TestEnterLongDeductsCashAndSetsBrackets(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{Flat: 1, Pct: 0.1, Slip: 0})

	ok := b.EnterLong("ABC", "NASDAQ", 100, 1, 0.5, 5, 10, 5)
	require.True(t, ok)

	pos := pf.Positions["ABC"]
	require.NotNil(t, pos)
	assert.Greater(t, pos.Quantity, int64(0))
	assert.InDelta(t, 95, pos.StopLoss, 1e-6)
	assert.InDelta(t, 110, pos.TakeProfit, 1e-6)
	assert.Less(t, pf.Cash, 10000.0)
}

func TestEnterLongRejectsWhenPositionAlreadyOpen(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{})
	require.True(t, b.EnterLong("ABC", "X", 100, 1, 1, 0, 0, 5))
	assert.False(t, b.EnterLong("ABC", "X", 100, 2, 1, 0, 0, 5))
}

func TestEnterLongRejectsAtMaxPositions(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{})
	require.True(t, b.EnterLong("A", "X", 10, 1, 0.1, 0, 0, 1))
	assert.False(t, b.EnterLong("B", "X", 10, 1, 0.1, 0, 0, 1))
}

func TestEnterShortSetsMirroredBrackets(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{})
	ok := b.EnterShort("ABC", "X", 100, 1, 0.5, 5, 10, 5)
	require.True(t, ok)
	pos := pf.Positions["ABC"]
	require.NotNil(t, pos)
	assert.Less(t, pos.Quantity, int64(0))
	assert.InDelta(t, 105, pos.StopLoss, 1e-6)
	assert.InDelta(t, 90, pos.TakeProfit, 1e-6)
}

func TestExitPositionBooksNetPnL(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{Flat: 0, Pct: 1, Slip: 0})
	require.True(t, b.EnterLong("ABC", "X", 100, 1, 0.5, 0, 0, 5))
	qty := pf.Positions["ABC"].Quantity

	ok := b.ExitPosition("ABC", 120, 2)
	require.True(t, ok)
	require.Len(t, pf.ClosedTrades, 1)

	trade := pf.ClosedTrades[0]
	entryCommission := float64(qty) * 100 * 0.01
	exitCommission := float64(qty) * 120 * 0.01
	expectedPnL := float64(qty)*(120-100) - entryCommission - exitCommission
	assert.InDelta(t, expectedPnL, trade.PnL, 1e-6)
}

func TestTriggerSweepExitsOnStopLoss(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{})
	require.True(t, b.EnterLong("ABC", "X", 100, 1, 1, 5, 0, 5))

	n, err := b.TriggerSweep(map[string]float64{"ABC": 90}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, pf.Positions)
}

func TestTriggerSweepIgnoresZeroThresholds(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{})
	require.True(t, b.EnterLong("ABC", "X", 100, 1, 1, 0, 0, 5))

	n, err := b.TriggerSweep(map[string]float64{"ABC": 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NotEmpty(t, pf.Positions)
}

func TestTriggerSweepNilPriceMapIsError(t *testing.T) {
	pf := portfolio.New(10000)
	b := New(pf, Fees{})
	_, err := b.TriggerSweep(nil, 1)
	assert.ErrorIs(t, err, ErrNilPriceMap)
}

func TestShareQuantityFloorsAndRejectsNonPositive(t *testing.T) {
	assert.Equal(t, int64(3), ShareQuantity(100, 30))
	assert.Equal(t, int64(0), ShareQuantity(-1, 30))
	assert.Equal(t, int64(0), ShareQuantity(100, 0))
}
