package dataport

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
	"github.com/contactkeval/ruletest-backtest/internal/logger"
)

// CSVPort reads daily-bar CSV files from a directory, one file per
// code: <dir>/<CODE>.csv with columns date,open,high,low,close,volume
// (date as Unix seconds). Parsed files are cached for the lifetime of
// the CSVPort, so repeated fetches of the same code read its file once.
type CSVPort struct {
	dir string

	mu    sync.Mutex
	cache map[string][]bar.Bar
}

// NewCSVPort returns a Port backed by daily-bar CSV files under dir.
func NewCSVPort(dir string) *CSVPort {
	return &CSVPort{dir: dir, cache: make(map[string][]bar.Bar)}
}

func (c *CSVPort) loadFile(code string) ([]bar.Bar, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bars, ok := c.cache[code]; ok {
		return bars, nil
	}

	path := filepath.Join(c.dir, strings.ToUpper(code)+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataport: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataport: read %s: %w", path, err)
	}

	bars := make([]bar.Bar, 0, len(records))
	for _, row := range records {
		if len(row) < 6 {
			continue
		}
		date, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		high, _ := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		low, _ := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		closeVal, _ := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		volume, _ := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		bars = append(bars, bar.Bar{
			Code: strings.ToUpper(code), Date: date,
			Open: open, High: high, Low: low, Close: closeVal, Volume: volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })

	c.cache[code] = bars
	logger.Debugf("event=csv_load code=%s bars=%d", code, len(bars))
	return bars, nil
}

// FetchOHLCV returns bars for code within [start, end] inclusive.
func (c *CSVPort) FetchOHLCV(code, exchange string, start, end int64) ([]bar.Bar, error) {
	all, err := c.loadFile(code)
	if err != nil {
		return nil, err
	}
	out := make([]bar.Bar, 0, len(all))
	for _, b := range all {
		if b.Date >= start && b.Date <= end {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListSymbols returns every <CODE>.csv stem under the port's directory.
func (c *CSVPort) ListSymbols(exchange string) ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("dataport: list %s: %w", c.dir, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.EqualFold(name, "intervals.csv") || !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		out = append(out, strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	return out, nil
}

// Close is a no-op for CSVPort; there is no underlying connection to
// release.
func (c *CSVPort) Close() error { return nil }
