// Package report writes a completed backtest's results to disk: JSON
// and CSV machine-readable forms, plus a human-readable text summary.
package report

import (
	"github.com/contactkeval/ruletest-backtest/internal/backtest"
)

// Port is the report-writing contract: write a single-code result, or
// a multi-code result alongside each code's stats.
type Port interface {
	Write(res *backtest.Result, path string) error
}
