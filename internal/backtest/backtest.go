// Package backtest implements the bar-stepping simulation loop: for
// every date in a universe's unified timeline, it sweeps stop-loss/
// take-profit triggers, evaluates exit and entry rules per code, and
// marks portfolio equity.
package backtest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/contactkeval/ruletest-backtest/internal/bterrors"
	"github.com/contactkeval/ruletest-backtest/internal/dataport"
	"github.com/contactkeval/ruletest-backtest/internal/execution"
	"github.com/contactkeval/ruletest-backtest/internal/indicator"
	"github.com/contactkeval/ruletest-backtest/internal/logger"
	"github.com/contactkeval/ruletest-backtest/internal/metrics"
	"github.com/contactkeval/ruletest-backtest/internal/portfolio"
	"github.com/contactkeval/ruletest-backtest/internal/rule"
	"github.com/contactkeval/ruletest-backtest/internal/strategy"
	"github.com/contactkeval/ruletest-backtest/internal/universe"
)

// Config bundles the inputs a single run needs beyond the strategy
// itself: the universe to trade, the date window, starting capital,
// and fee schedule.
type Config struct {
	Codes          []string
	Exchange       string
	StartDate      int64
	EndDate        int64
	InitialCapital float64
	Fees           execution.Fees
	RiskFreeRate   float64
}

// Result is the complete output of one run: the raw closed-trade and
// equity-curve sequences plus every derived metric, aggregate and
// per-code.
type Result struct {
	RunID         string
	Strategy      strategy.Strategy
	ClosedTrades  []portfolio.ClosedTrade
	EquityCurve   []portfolio.EquityPoint
	TradeStats    metrics.TradeStats
	EquityStats   metrics.EquityStats
	PerCode       []metrics.PerCodeStats
}

// runScope holds the per-run state: each surviving code's CodeData,
// keyed by code, with its indicator series attached. Everything it owns
// is discarded when Run returns; nothing it allocates outlives the run,
// matching the GC-owns-the-run-object allocation discipline.
type runScope struct {
	codeData map[string]*universe.CodeData
}

// Run executes one complete backtest: validates the universe, computes
// every indicator a strategy's rules reference per code, then steps the
// unified timeline applying the ordering from the bar-stepping loop
// (sweep, exit, entry, mark) exactly once per date.
func Run(cfg Config, strat strategy.Strategy, port dataport.Port) (*Result, error) {
	if port == nil {
		return nil, bterrors.New(bterrors.NullParam, "backtest: nil data port", nil)
	}

	runID := uuid.NewString()
	logger.Infof("event=run_start run_id=%s codes=%v", runID, cfg.Codes)

	parsed, err := parseStrategyRules(strat)
	if err != nil {
		return nil, bterrors.New(bterrors.RuleParse, "backtest: parsing strategy rules", err)
	}

	codeData, err := universe.Validate(cfg.Codes, cfg.Exchange, port, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, bterrors.New(bterrors.DataQuery, "backtest: validating universe", err)
	}
	if len(codeData) == 0 {
		logger.Infof("event=run_empty_universe run_id=%s", runID)
		return &Result{RunID: runID, Strategy: strat}, nil
	}

	scope := &runScope{codeData: make(map[string]*universe.CodeData, len(codeData))}
	operands := allIndicatorOperands(parsed)
	for _, cd := range codeData {
		series, err := computeIndicators(cd.Bars, operands)
		if err != nil {
			return nil, bterrors.New(bterrors.InsufficientData, fmt.Sprintf("backtest: code %s", cd.Code), err)
		}
		atr14, err := indicator.ATR(cd.Bars, 14)
		if err == nil {
			series["ATR14"] = atr14
		}
		cd.Indicators = series
		scope.codeData[cd.Code] = cd
	}

	pf := portfolio.New(cfg.InitialCapital)
	broker := execution.New(pf, cfg.Fees)
	timeline := universe.Timeline(codeData)

	for _, t := range timeline {
		priceMap := buildPriceMap(codeData, t)

		if _, err := broker.TriggerSweep(priceMap, t); err != nil {
			logger.Errorf("event=trigger_sweep_error run_id=%s date=%d err=%v", runID, t, err)
		}

		for _, cd := range codeData {
			idx, ok := cd.DateToIndex[t]
			if !ok {
				continue
			}
			stepCode(broker, pf, cd, idx, t, parsed, strat)
		}

		pf.MarkEquity(t, priceMap)
	}

	tradeStats := metrics.ComputeTradeStats(pf.ClosedTrades)
	equityStats := metrics.ComputeEquityStats(pf.EquityCurve, cfg.RiskFreeRate)
	perCode := metrics.ComputePerCode(pf.ClosedTrades, cfg.Codes)

	logger.Infof("event=run_finish run_id=%s trades=%d total_return=%.4f", runID, tradeStats.TotalTrades, equityStats.TotalReturn)

	return &Result{
		RunID:        runID,
		Strategy:     strat,
		ClosedTrades: pf.ClosedTrades,
		EquityCurve:  pf.EquityCurve,
		TradeStats:   tradeStats,
		EquityStats:  equityStats,
		PerCode:      perCode,
	}, nil
}

// buildPriceMap builds code→close for every code with a bar at date t.
func buildPriceMap(codeData []*universe.CodeData, t int64) map[string]float64 {
	priceMap := make(map[string]float64, len(codeData))
	for _, cd := range codeData {
		if idx, ok := cd.DateToIndex[t]; ok {
			priceMap[cd.Code] = cd.Bars[idx].Close
		}
	}
	return priceMap
}

// stepCode applies one code's exit/entry evaluation for bar index idx
// at date t: exit strictly precedes entry, and long is evaluated before
// short per the long-before-short tie-break this run pins.
func stepCode(broker *execution.Broker, pf *portfolio.Portfolio, cd *universe.CodeData, idx int, t int64, parsed parsedRules, strat strategy.Strategy) {
	b := cd.Bars[idx]
	pos, open := pf.Positions[cd.Code]

	if open {
		if pos.IsLong() && parsed.exitLong != nil && rule.Evaluate(parsed.exitLong, cd.Bars, cd.Indicators, idx) {
			broker.ExitPosition(cd.Code, b.Close, t)
			return
		}
		if !pos.IsLong() && parsed.exitShort != nil && rule.Evaluate(parsed.exitShort, cd.Bars, cd.Indicators, idx) {
			broker.ExitPosition(cd.Code, b.Close, t)
		}
		return
	}

	if len(pf.Positions) >= strat.MaxPositions {
		return
	}

	sizeFrac := resolveSizeFrac(strat, cd, idx, pf)

	if parsed.entryLong != nil && rule.Evaluate(parsed.entryLong, cd.Bars, cd.Indicators, idx) {
		broker.EnterLong(cd.Code, cd.Exchange, b.Close, t, sizeFrac, strat.StopLoss, strat.TakeProfit, strat.MaxPositions)
		return
	}
	if parsed.entryShort != nil && rule.Evaluate(parsed.entryShort, cd.Bars, cd.Indicators, idx) {
		broker.EnterShort(cd.Code, cd.Exchange, b.Close, t, sizeFrac, strat.StopLoss, strat.TakeProfit, strat.MaxPositions)
	}
}

// resolveSizeFrac evaluates the strategy's optional sizing expression,
// falling back to the constant PositionSize on any error so a malformed
// expression never stops a run in progress.
func resolveSizeFrac(strat strategy.Strategy, cd *universe.CodeData, idx int, pf *portfolio.Portfolio) float64 {
	if strat.SizeExpr == "" {
		return strat.PositionSize
	}
	var atr14 float64
	if series, ok := cd.Indicators["ATR14"]; ok && series.Values[idx].Valid {
		atr14 = series.Values[idx].Value
	}
	size, err := strat.EvalSizeExpr(strategy.Vars{
		Close:         cd.Bars[idx].Close,
		ATR14:         atr14,
		Equity:        pf.Cash,
		OpenPositions: len(pf.Positions),
	})
	if err != nil {
		logger.Errorf("event=size_expr_error code=%s err=%v", cd.Code, err)
		return strat.PositionSize
	}
	return size
}

