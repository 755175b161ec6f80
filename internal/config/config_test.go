package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagSourceOverlayTakesPriorityOverEnv(t *testing.T) {
	t.Setenv("BACKTEST_CODES", "FROM_ENV")
	src := NewEnvFlagSource(map[string]string{"BACKTEST_CODES": "FROM_OVERLAY"})
	assert.Equal(t, "FROM_OVERLAY", src.GetString("backtest", "codes"))
}

func TestEnvFlagSourceFallsBackToDefaultOnMissingOrBadValue(t *testing.T) {
	src := NewEnvFlagSource(nil)
	assert.Equal(t, 7, src.GetInt("x", "missing", 7))

	t.Setenv("X_BAD", "not-a-number")
	assert.Equal(t, 7, src.GetInt("x", "bad", 7))
}

func TestGetBoolRecognizesDocumentedTokens(t *testing.T) {
	src := NewEnvFlagSource(map[string]string{"X_A": "YES", "X_B": "0", "X_C": "maybe"})
	assert.True(t, src.GetBool("x", "a", false))
	assert.False(t, src.GetBool("x", "b", true))
	assert.True(t, src.GetBool("x", "c", true), "unrecognized token falls back to default")
}

func TestLoadStrategyConfigAppliesDefaults(t *testing.T) {
	src := NewEnvFlagSource(map[string]string{
		"STRATEGY_NAME":       "sma-cross",
		"STRATEGY_ENTRY_LONG": "CROSS_ABOVE(SMA(3),SMA(5))",
		"STRATEGY_EXIT_LONG":  "CROSS_BELOW(SMA(3),SMA(5))",
	})
	cfg, err := LoadStrategyConfig(src)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, cfg.PositionSize, 1e-9)
	assert.Equal(t, 1, cfg.MaxPositions)
}

func TestLoadStrategyConfigRejectsMissingRequiredFields(t *testing.T) {
	src := NewEnvFlagSource(nil)
	_, err := LoadStrategyConfig(src)
	assert.Error(t, err)
}

func TestLoadBacktestConfigRejectsEndBeforeStart(t *testing.T) {
	src := NewEnvFlagSource(map[string]string{
		"BACKTEST_CODES":      "ABC",
		"BACKTEST_EXCHANGE":   "NASDAQ",
		"BACKTEST_START_DATE": "100",
		"BACKTEST_END_DATE":   "50",
	})
	_, err := LoadBacktestConfig(src)
	assert.Error(t, err)
}
