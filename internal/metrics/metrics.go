// Package metrics computes trade and equity-curve statistics from a
// completed run's closed trades and equity curve.
package metrics

import (
	"math"

	"github.com/contactkeval/ruletest-backtest/internal/portfolio"
)

// TradeStats summarizes a set of closed trades, either the full run
// (aggregate) or one code's subset (per-code).
type TradeStats struct {
	TotalTrades          int
	WinningTrades        int
	LosingTrades         int
	WinRate              float64
	AverageWin           float64
	AverageLoss          float64
	LargestWin           float64
	LargestLoss          float64
	ProfitFactor         float64
	AverageTradeDuration float64 // days
}

// ComputeTradeStats reduces trades into TradeStats. Empty input yields
// the zero value (TotalTrades 0, all ratios 0).
func ComputeTradeStats(trades []portfolio.ClosedTrade) TradeStats {
	var s TradeStats
	s.TotalTrades = len(trades)
	if s.TotalTrades == 0 {
		return s
	}

	var sumWin, sumLoss, sumDuration float64
	for _, tr := range trades {
		sumDuration += float64(tr.ExitDate - tr.EntryDate)
		if tr.PnL > 0 {
			s.WinningTrades++
			sumWin += tr.PnL
			if tr.PnL > s.LargestWin {
				s.LargestWin = tr.PnL
			}
		} else {
			s.LosingTrades++
			sumLoss += tr.PnL
			if tr.PnL < s.LargestLoss {
				s.LargestLoss = tr.PnL
			}
		}
	}

	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades)
	if s.WinningTrades > 0 {
		s.AverageWin = sumWin / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AverageLoss = sumLoss / float64(s.LosingTrades)
	}
	// Dates are day-aligned Unix seconds; report the mean in days.
	s.AverageTradeDuration = sumDuration / float64(s.TotalTrades) / 86400

	absLoss := math.Abs(sumLoss)
	switch {
	case absLoss > 0:
		s.ProfitFactor = sumWin / absLoss
	case sumWin > 0:
		s.ProfitFactor = math.Inf(1)
	default:
		s.ProfitFactor = 0
	}
	return s
}

// PerCodeStats pairs a code with the TradeStats computed from its
// subset of closed trades.
type PerCodeStats struct {
	Code string
	TradeStats
}

// ComputePerCode buckets trades by exact code match against the given
// code list and computes TradeStats for each bucket. Trades whose code
// is not present in codes are skipped, and codes with no trades still
// produce a zero-value entry.
func ComputePerCode(trades []portfolio.ClosedTrade, codes []string) []PerCodeStats {
	buckets := make(map[string][]portfolio.ClosedTrade, len(codes))
	for _, c := range codes {
		buckets[c] = nil
	}
	for _, tr := range trades {
		if _, ok := buckets[tr.Code]; ok {
			buckets[tr.Code] = append(buckets[tr.Code], tr)
		}
	}

	out := make([]PerCodeStats, 0, len(codes))
	for _, c := range codes {
		out = append(out, PerCodeStats{Code: c, TradeStats: ComputeTradeStats(buckets[c])})
	}
	return out
}

// EquityStats summarizes an equity curve's return and risk profile.
type EquityStats struct {
	TotalReturn         float64
	AnnualizedReturn    float64
	Sharpe              float64
	Sortino             float64
	MaxDrawdown         float64
	MaxDrawdownDuration int
}

// ComputeEquityStats derives TotalReturn/AnnualizedReturn/Sharpe/
// Sortino/drawdown from an equity curve and an annual risk-free rate.
// A curve of fewer than 2 points yields the zero value.
func ComputeEquityStats(curve []portfolio.EquityPoint, riskFreeRate float64) EquityStats {
	var s EquityStats
	n := len(curve)
	if n < 2 {
		return s
	}
	tradingDays := n - 1

	first := curve[0].Equity
	last := curve[n-1].Equity
	if first > 0 {
		s.TotalReturn = (last - first) / first
	}
	if tradingDays > 0 && s.TotalReturn > -1 {
		s.AnnualizedReturn = math.Pow(1+s.TotalReturn, 252/float64(tradingDays)) - 1
	}

	rets := make([]float64, tradingDays)
	for i := 0; i < tradingDays; i++ {
		e := curve[i].Equity
		if e <= 0 {
			rets[i] = 0
			continue
		}
		rets[i] = (curve[i+1].Equity - e) / e
	}

	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(tradingDays)
	rfDaily := riskFreeRate / 252

	var sumSq, downsideSq float64
	for _, r := range rets {
		d := r - mean
		sumSq += d * d
		if dd := rfDaily - r; dd > 0 {
			downsideSq += dd * dd
		}
	}
	stddev := math.Sqrt(sumSq / float64(tradingDays))
	downsideDev := math.Sqrt(downsideSq / float64(tradingDays))

	if stddev > 0 {
		s.Sharpe = (mean - rfDaily) / stddev * math.Sqrt(252)
	}
	if downsideDev > 0 {
		s.Sortino = (mean - rfDaily) / downsideDev * math.Sqrt(252)
	}

	s.MaxDrawdown, s.MaxDrawdownDuration = maxDrawdown(curve)
	return s
}

// maxDrawdown walks the equity curve tracking a running peak, returning
// the largest fractional decline from any peak and the longest run of
// bars from a peak to the next new peak (or to the end of the curve if
// the decline never recovers).
func maxDrawdown(curve []portfolio.EquityPoint) (float64, int) {
	if len(curve) == 0 {
		return 0, 0
	}
	peak := curve[0].Equity
	peakIdx := 0
	var maxDD float64
	var maxDur int
	inDrawdown := false

	for i, pt := range curve {
		switch {
		case pt.Equity > peak:
			if inDrawdown {
				if dur := i - peakIdx; dur > maxDur {
					maxDur = dur
				}
			}
			peak = pt.Equity
			peakIdx = i
			inDrawdown = false
		case pt.Equity < peak:
			inDrawdown = true
			if peak > 0 {
				if dd := (peak - pt.Equity) / peak; dd > maxDD {
					maxDD = dd
				}
			}
		}
	}
	if inDrawdown {
		if dur := len(curve) - 1 - peakIdx; dur > maxDur {
			maxDur = dur
		}
	}
	return maxDD, maxDur
}
