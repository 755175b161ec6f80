package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/ruletest-backtest/internal/backtest"
	"github.com/contactkeval/ruletest-backtest/internal/metrics"
	"github.com/contactkeval/ruletest-backtest/internal/portfolio"
	"github.com/contactkeval/ruletest-backtest/internal/strategy"
)

func sampleResult() *backtest.Result {
	trades := []portfolio.ClosedTrade{
		{Code: "ABC", Exchange: "X", Quantity: 10, EntryPrice: 100, ExitPrice: 110, EntryDate: 0, ExitDate: 5, PnL: 95.5},
		{Code: "ABC", Exchange: "X", Quantity: 10, EntryPrice: 110, ExitPrice: 105, EntryDate: 6, ExitDate: 8, PnL: -55.0},
	}
	curve := []portfolio.EquityPoint{{Date: 0, Equity: 100000}, {Date: 8, Equity: 100040.5}}
	return &backtest.Result{
		RunID:        "test-run-id",
		Strategy:     strategy.FromConfig("demo", "demo strategy", "ABOVE(close,1)", "BELOW(close,1)", "", "", 0.25, 0, 0, 1, ""),
		ClosedTrades: trades,
		EquityCurve:  curve,
		TradeStats:   metrics.ComputeTradeStats(trades),
		EquityStats:  metrics.ComputeEquityStats(curve, 0),
		PerCode:      metrics.ComputePerCode(trades, []string{"ABC"}),
	}
}

func TestJSONWriterRoundTrips(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	require.NoError(t, JSONWriter{}.Write(res, dir))

	b, err := os.ReadFile(filepath.Join(dir, "trades.json"))
	require.NoError(t, err)

	var decoded backtest.Result
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, res.RunID, decoded.RunID)
	assert.Len(t, decoded.ClosedTrades, 2)
}

func TestCSVWriterEmitsHeaderAndOneRowPerTrade(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	require.NoError(t, CSVWriter{}.Write(res, dir))

	f, err := os.Open(filepath.Join(dir, "trades.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 trades
	assert.Equal(t, "code", rows[0][0])
	assert.Equal(t, "ABC", rows[1][0])
	assert.Equal(t, "ABC", rows[2][0])
}

func TestTextSummaryWriterIncludesHeadlineNumbers(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	require.NoError(t, TextSummaryWriter{}.Write(res, dir))

	b, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	require.NoError(t, err)
	text := string(b)

	assert.Contains(t, text, "demo")
	assert.Contains(t, text, "test-run-id")
	assert.Contains(t, text, "Trades: 2")
}

func TestCSVWriterHandlesNoTrades(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()
	res.ClosedTrades = nil

	require.NoError(t, CSVWriter{}.Write(res, dir))

	f, err := os.Open(filepath.Join(dir, "trades.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}
