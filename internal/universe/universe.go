// Package universe parses and validates the set of instrument codes a
// run trades, and builds the unified timeline the backtest loop steps
// over.
package universe

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
	"github.com/contactkeval/ruletest-backtest/internal/indicator"
)

// ErrDuplicateCode is returned by Parse when the same code (after
// upper-casing) appears twice.
var ErrDuplicateCode = errors.New("universe: duplicate code")

// ErrEmptyToken is returned by Parse when a comma-separated token is
// blank after trimming.
var ErrEmptyToken = errors.New("universe: empty code token")

// Parse splits codes_str on commas, trims whitespace, upper-cases each
// token, rejects empty tokens, and rejects duplicates after
// upper-casing. Order is preserved — the universe's insertion order
// governs same-date evaluation order in the backtest loop.
func Parse(codesStr, exchange string) ([]string, error) {
	parts := strings.Split(codesStr, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		token := strings.ToUpper(strings.TrimSpace(part))
		if token == "" {
			return nil, ErrEmptyToken
		}
		if seen[token] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, token)
		}
		seen[token] = true
		out = append(out, token)
	}
	return out, nil
}

// MinBars is the minimum bar count a code must have to remain in the
// universe after validation.
const MinBars = 30

// DataPort is the narrow slice of the data port this package needs to
// validate a universe against available history.
type DataPort interface {
	FetchOHLCV(code, exchange string, start, end int64) ([]bar.Bar, error)
}

// CodeData bundles one code's bar vector with its date-to-index lookup,
// the unit the backtest loop steps over.
type CodeData struct {
	Code        string
	Exchange    string
	Bars        []bar.Bar
	DateToIndex map[int64]int
	Indicators  map[string]indicator.Series // keyed by operand fingerprint, populated once per run
}

// Validate fetches bars for each code in the universe, keeps only codes
// with at least MinBars bars, and returns the per-code data compacted
// to the surviving codes in their original order. It returns an empty
// slice (not an error) when zero codes remain, matching Go's
// zero-value-is-usable idiom in place of the sentinel-count convention
// other languages in this system use.
func Validate(codes []string, exchange string, port DataPort, start, end int64) ([]*CodeData, error) {
	out := make([]*CodeData, 0, len(codes))
	for _, code := range codes {
		bars, err := port.FetchOHLCV(code, exchange, start, end)
		if err != nil {
			continue
		}
		if len(bars) < MinBars {
			continue
		}
		dti := make(map[int64]int, len(bars))
		for i, b := range bars {
			dti[b.Date] = i
		}
		out = append(out, &CodeData{
			Code:        code,
			Exchange:    exchange,
			Bars:        bars,
			DateToIndex: dti,
		})
	}
	return out, nil
}

// Timeline returns the sorted, deduplicated union of dates across every
// CodeData's bar set.
func Timeline(codeData []*CodeData) []int64 {
	seen := make(map[int64]bool)
	for _, cd := range codeData {
		for _, b := range cd.Bars {
			seen[b.Date] = true
		}
	}
	dates := make([]int64, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}
