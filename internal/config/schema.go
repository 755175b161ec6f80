package config

import "github.com/go-playground/validator/v10"

// StrategyConfig mirrors the [strategy] section schema. EntryLong and
// ExitLong are required; EntryShort/ExitShort are optional (empty means
// the strategy never shorts).
type StrategyConfig struct {
	Name         string  `validate:"required"`
	Description  string
	EntryLong    string  `validate:"required"`
	ExitLong     string  `validate:"required"`
	EntryShort   string
	ExitShort    string
	PositionSize float64 `validate:"gt=0,lte=1"`
	StopLoss     float64 `validate:"gte=0"`
	TakeProfit   float64 `validate:"gte=0"`
	MaxPositions int     `validate:"gte=1"`
	SizeExpr     string
}

// BacktestConfig mirrors the [backtest] section schema.
type BacktestConfig struct {
	Codes          string  `validate:"required"`
	Exchange       string  `validate:"required"`
	InitialCapital float64 `validate:"gt=0"`
	StartDate      int64   `validate:"required"`
	EndDate        int64   `validate:"required,gtfield=StartDate"`
	CommissionFlat float64 `validate:"gte=0"`
	CommissionPct  float64 `validate:"gte=0"`
	SlippagePct    float64 `validate:"gte=0"`
	RiskFreeRate   float64 `validate:"gte=0"`
}

var validate = validator.New()

// LoadStrategyConfig reads the [strategy] section from src with the
// spec's documented defaults and validates the result.
func LoadStrategyConfig(src Source) (StrategyConfig, error) {
	cfg := StrategyConfig{
		Name:         src.GetString("strategy", "name"),
		Description:  src.GetString("strategy", "description"),
		EntryLong:    src.GetString("strategy", "entry_long"),
		ExitLong:     src.GetString("strategy", "exit_long"),
		EntryShort:   src.GetString("strategy", "entry_short"),
		ExitShort:    src.GetString("strategy", "exit_short"),
		PositionSize: src.GetFloat("strategy", "position_size", 0.25),
		StopLoss:     src.GetFloat("strategy", "stop_loss", 0),
		TakeProfit:   src.GetFloat("strategy", "take_profit", 0),
		MaxPositions: src.GetInt("strategy", "max_positions", 1),
		SizeExpr:     src.GetString("strategy", "size_expr"),
	}
	if err := validate.Struct(cfg); err != nil {
		return StrategyConfig{}, err
	}
	return cfg, nil
}

// LoadBacktestConfig reads the [backtest] section from src and
// validates the result.
func LoadBacktestConfig(src Source) (BacktestConfig, error) {
	cfg := BacktestConfig{
		Codes:          src.GetString("backtest", "codes"),
		Exchange:       src.GetString("backtest", "exchange"),
		InitialCapital: src.GetFloat("backtest", "initial_capital", 100000),
		StartDate:      int64(src.GetInt("backtest", "start_date", 0)),
		EndDate:        int64(src.GetInt("backtest", "end_date", 0)),
		CommissionFlat: src.GetFloat("backtest", "commission_flat", 0),
		CommissionPct:  src.GetFloat("backtest", "commission_pct", 0),
		SlippagePct:    src.GetFloat("backtest", "slippage_pct", 0),
		RiskFreeRate:   src.GetFloat("backtest", "risk_free_rate", 0),
	}
	if err := validate.Struct(cfg); err != nil {
		return BacktestConfig{}, err
	}
	return cfg, nil
}
