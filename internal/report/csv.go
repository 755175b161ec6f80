package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/ruletest-backtest/internal/backtest"
)

// CSVWriter writes a result's closed trades as a flat CSV table,
// one row per trade.
type CSVWriter struct{}

// Write emits <path>/trades.csv.
func (CSVWriter) Write(res *backtest.Result, path string) error {
	f, err := os.Create(filepath.Join(path, "trades.csv"))
	if err != nil {
		return fmt.Errorf("report: create trades.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"code", "exchange", "quantity", "entry_price", "exit_price", "entry_date", "exit_date", "pnl"}
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}
	for _, tr := range res.ClosedTrades {
		row := []string{
			tr.Code, tr.Exchange,
			fmt.Sprintf("%d", tr.Quantity),
			fmt.Sprintf("%.4f", tr.EntryPrice),
			fmt.Sprintf("%.4f", tr.ExitPrice),
			fmt.Sprintf("%d", tr.EntryDate),
			fmt.Sprintf("%d", tr.ExitDate),
			fmt.Sprintf("%.4f", tr.PnL),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("report: write row: %w", err)
		}
	}
	return nil
}
