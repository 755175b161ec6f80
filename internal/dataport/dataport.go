// Package dataport defines the data-source port the backtest loop reads
// bars through, plus CSV-file, synthetic-random-walk, and HTTP-backed
// implementations.
package dataport

import "github.com/contactkeval/ruletest-backtest/internal/bar"

// Port is the data-source contract: fetch daily bars for a code over a
// date range, list symbols available on an exchange, and release any
// underlying connection. FetchOHLCV's date filter is inclusive; an
// empty (not error) result means no bars exist in range.
type Port interface {
	FetchOHLCV(code, exchange string, start, end int64) ([]bar.Bar, error)
	ListSymbols(exchange string) ([]string, error)
	Close() error
}
