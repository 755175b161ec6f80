package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/contactkeval/ruletest-backtest/internal/backtest"
)

// TextSummaryWriter renders the headline trade and equity statistics as
// a plain-text report, the kind a console or a chat notification would
// display rather than a machine-readable export.
type TextSummaryWriter struct{}

// Write emits <path>/summary.txt.
func (TextSummaryWriter) Write(res *backtest.Result, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Backtest summary: %s\n", res.Strategy.Name)
	if res.Strategy.Description != "" {
		fmt.Fprintf(&b, "%s\n", res.Strategy.Description)
	}
	fmt.Fprintf(&b, "run id: %s\n\n", res.RunID)

	ts := res.TradeStats
	fmt.Fprintf(&b, "Trades: %s total, %s wins, %s losses (win rate %.1f%%)\n",
		humanize.Comma(int64(ts.TotalTrades)),
		humanize.Comma(int64(ts.WinningTrades)),
		humanize.Comma(int64(ts.LosingTrades)),
		ts.WinRate*100)
	fmt.Fprintf(&b, "Average win: $%s   Average loss: $%s   Profit factor: %.2f\n",
		humanize.Commaf(ts.AverageWin), humanize.Commaf(-ts.AverageLoss), ts.ProfitFactor)

	var finalEquity float64
	if n := len(res.EquityCurve); n > 0 {
		finalEquity = res.EquityCurve[n-1].Equity
	}
	es := res.EquityStats
	fmt.Fprintf(&b, "\nFinal equity: $%s   Total return: %.1f%%   Sharpe: %.2f   Sortino: %.2f\n",
		humanize.Commaf(finalEquity), es.TotalReturn*100, es.Sharpe, es.Sortino)
	fmt.Fprintf(&b, "Max drawdown: %.1f%% over %s bars\n",
		es.MaxDrawdown*100, humanize.Comma(int64(es.MaxDrawdownDuration)))

	if len(res.PerCode) > 0 {
		fmt.Fprintf(&b, "\nPer-code breakdown:\n")
		for _, pc := range res.PerCode {
			fmt.Fprintf(&b, "  %-10s trades=%-6s win_rate=%.1f%%\n",
				pc.Code, humanize.Comma(int64(pc.TradeStats.TotalTrades)), pc.TradeStats.WinRate*100)
		}
	}

	if err := os.WriteFile(filepath.Join(path, "summary.txt"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("report: write summary.txt: %w", err)
	}
	return nil
}
