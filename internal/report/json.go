package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/ruletest-backtest/internal/backtest"
)

// JSONWriter writes the full Result, including the raw equity curve
// and closed-trade sequence, as indented JSON.
type JSONWriter struct{}

// Write marshals res to <path>/trades.json.
func (JSONWriter) Write(res *backtest.Result, path string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, "trades.json"), b, 0o644); err != nil {
		return fmt.Errorf("report: write trades.json: %w", err)
	}
	return nil
}
