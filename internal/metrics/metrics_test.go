package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contactkeval/ruletest-backtest/internal/portfolio"
)

func eqPoints(vals ...float64) []portfolio.EquityPoint {
	out := make([]portfolio.EquityPoint, len(vals))
	for i, v := range vals {
		out[i] = portfolio.EquityPoint{Date: int64(i), Equity: v}
	}
	return out
}

func TestTradeStatsEmptyIsZeroValue(t *testing.T) {
	s := ComputeTradeStats(nil)
	assert.Equal(t, TradeStats{}, s)
}

func TestTradeStatsWinLossSplit(t *testing.T) {
	trades := []portfolio.ClosedTrade{
		{PnL: 100, EntryDate: 0, ExitDate: 2},
		{PnL: -40, EntryDate: 0, ExitDate: 1},
		{PnL: 50, EntryDate: 0, ExitDate: 3},
	}
	s := ComputeTradeStats(trades)
	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 2, s.WinningTrades)
	assert.Equal(t, 1, s.LosingTrades)
	assert.InDelta(t, 2.0/3.0, s.WinRate, 1e-9)
	assert.InDelta(t, 75, s.AverageWin, 1e-9)
	assert.InDelta(t, -40, s.AverageLoss, 1e-9)
	assert.InDelta(t, 150.0/40.0, s.ProfitFactor, 1e-9)
}

func TestProfitFactorInfiniteWhenNoLosses(t *testing.T) {
	s := ComputeTradeStats([]portfolio.ClosedTrade{{PnL: 10}})
	assert.True(t, math.IsInf(s.ProfitFactor, 1))
}

func TestProfitFactorZeroWhenNoTradesWinOrLose(t *testing.T) {
	s := ComputeTradeStats([]portfolio.ClosedTrade{{PnL: 0}})
	assert.Equal(t, 0.0, s.ProfitFactor)
}

func TestPerCodeSkipsUnknownCodesAndSumsMatchAggregate(t *testing.T) {
	trades := []portfolio.ClosedTrade{
		{Code: "A", PnL: 10},
		{Code: "A", PnL: -5},
		{Code: "B", PnL: 20},
		{Code: "ZZZ", PnL: 999},
	}
	per := ComputePerCode(trades, []string{"A", "B"})
	total := 0
	for _, p := range per {
		total += p.TotalTrades
	}
	agg := ComputeTradeStats(trades)
	assert.Equal(t, agg.TotalTrades-1, total, "the ZZZ trade has no bucket and is dropped")
}

func TestEquityStatsSinglePointIsZeroValue(t *testing.T) {
	s := ComputeEquityStats(eqPoints(1000), 0.05)
	assert.Equal(t, EquityStats{}, s)
}

func TestEquityStatsGroundTruthSharpeSortino(t *testing.T) {
	curve := eqPoints(10000, 10200, 10098, 10400.94, 10192.92, 10294.85)
	s := ComputeEquityStats(curve, 0.05)
	assert.InDelta(t, 4.97, s.Sharpe, 0.10)
	assert.InDelta(t, 9.52, s.Sortino, 0.10)
}

func TestMaxDrawdownGroundTruth(t *testing.T) {
	curve := eqPoints(100, 120, 108, 90, 110, 130)
	s := ComputeEquityStats(curve, 0)
	assert.InDelta(t, 0.25, s.MaxDrawdown, 1e-9)
	assert.Equal(t, 4, s.MaxDrawdownDuration)
}

func TestMaxDrawdownZeroWhenMonotonicIncreasing(t *testing.T) {
	curve := eqPoints(100, 110, 120, 130)
	s := ComputeEquityStats(curve, 0)
	assert.Equal(t, 0.0, s.MaxDrawdown)
	assert.Equal(t, 0, s.MaxDrawdownDuration)
}

func TestMaxDrawdownNeverRecoveredCountsToFinalBar(t *testing.T) {
	curve := eqPoints(100, 90, 80, 70)
	s := ComputeEquityStats(curve, 0)
	assert.Equal(t, 3, s.MaxDrawdownDuration)
}
