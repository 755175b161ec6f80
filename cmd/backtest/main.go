package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contactkeval/ruletest-backtest/internal/backtest"
	"github.com/contactkeval/ruletest-backtest/internal/bterrors"
	"github.com/contactkeval/ruletest-backtest/internal/config"
	"github.com/contactkeval/ruletest-backtest/internal/dataport"
	"github.com/contactkeval/ruletest-backtest/internal/execution"
	"github.com/contactkeval/ruletest-backtest/internal/logger"
	"github.com/contactkeval/ruletest-backtest/internal/report"
	"github.com/contactkeval/ruletest-backtest/internal/strategy"
	"github.com/contactkeval/ruletest-backtest/internal/universe"
)

var (
	verbosity int
	dataDir   string
	httpURL   string
	httpKey   string
	outDir    string
)

func main() {
	bterrors.SetHandler(func(kind bterrors.Kind, msg string) {
		logger.Errorf("event=core_error kind=%s msg=%s", kind, msg)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "backtest replays an equity strategy's rules bar by bar against historical data",
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 1, "log verbosity (0=error,1=info,2=debug,3=trace)")
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&dataDir, "data-dir", "", "directory of per-code CSV bar files (overrides synthetic/http provider)")
	runCmd.Flags().StringVar(&httpURL, "http-url", "", "base URL of an HTTP bar provider (overrides synthetic provider)")
	runCmd.Flags().StringVar(&httpKey, "http-key", "", "API key for the HTTP bar provider")
	runCmd.Flags().StringVar(&outDir, "out", "./report", "directory reports are written to")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run one backtest from [strategy]/[backtest] config sections and write its report",
	RunE:  runBacktest,
}

// runBacktest wires a config source, builds a data port from the
// resolved flags/environment, runs the simulation, and writes every
// report format to outDir.
func runBacktest(cmd *cobra.Command, args []string) error {
	logger.SetVerbosity(verbosity)

	src := config.NewEnvFlagSource(nil)

	stratCfg, err := config.LoadStrategyConfig(src)
	if err != nil {
		return fmt.Errorf("loading strategy config: %w", err)
	}
	btCfg, err := config.LoadBacktestConfig(src)
	if err != nil {
		return fmt.Errorf("loading backtest config: %w", err)
	}

	codes, err := universe.Parse(btCfg.Codes, btCfg.Exchange)
	if err != nil {
		return fmt.Errorf("parsing codes: %w", err)
	}

	port := resolveDataPort()
	defer port.Close()

	strat := strategy.FromConfig(
		stratCfg.Name, stratCfg.Description,
		stratCfg.EntryLong, stratCfg.ExitLong, stratCfg.EntryShort, stratCfg.ExitShort,
		stratCfg.PositionSize, stratCfg.StopLoss, stratCfg.TakeProfit, stratCfg.MaxPositions,
		stratCfg.SizeExpr,
	)

	cfg := backtest.Config{
		Codes:          codes,
		Exchange:       btCfg.Exchange,
		StartDate:      btCfg.StartDate,
		EndDate:        btCfg.EndDate,
		InitialCapital: btCfg.InitialCapital,
		RiskFreeRate:   btCfg.RiskFreeRate,
		Fees: execution.Fees{
			Flat: btCfg.CommissionFlat,
			Pct:  btCfg.CommissionPct,
			Slip: btCfg.SlippagePct,
		},
	}

	res, err := backtest.Run(cfg, strat, port)
	if err != nil {
		return fmt.Errorf("running backtest: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	writers := []report.Port{report.JSONWriter{}, report.CSVWriter{}, report.TextSummaryWriter{}}
	for _, w := range writers {
		if err := w.Write(res, outDir); err != nil {
			logger.Errorf("event=report_write_error run_id=%s err=%v", res.RunID, err)
		}
	}

	logger.Infof("event=cli_done run_id=%s trades=%d", res.RunID, res.TradeStats.TotalTrades)
	return nil
}

// resolveDataPort picks a bar source in priority order: CSV directory,
// then HTTP provider, then the deterministic synthetic generator as a
// dependency-free fallback for trying the tool without live data.
func resolveDataPort() dataport.Port {
	switch {
	case dataDir != "":
		logger.Infof("event=data_port_selected kind=csv dir=%s", dataDir)
		return dataport.NewCSVPort(dataDir)
	case httpURL != "":
		logger.Infof("event=data_port_selected kind=http url=%s", httpURL)
		return dataport.NewHTTPPort(httpURL, httpKey)
	default:
		logger.Infof("event=data_port_selected kind=synthetic")
		return dataport.NewSyntheticPort()
	}
}
