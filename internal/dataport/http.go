// HTTP-backed data port.
//
// Design notes:
//   - Uses resty instead of a vendor SDK, since the port must work against
//     any JSON bars endpoint, not one proprietary API.
//   - Supports pagination (next_url-style cursor) and retry-on-429/5xx.
//   - Logging is intentionally verbose at Debug level for diagnostics.
package dataport

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/contactkeval/ruletest-backtest/internal/bar"
	"github.com/contactkeval/ruletest-backtest/internal/logger"
)

// httpBar mirrors the JSON shape an HTTPPort bars endpoint is expected
// to return: one object per day.
type httpBar struct {
	Date   int64   `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// httpBarsResp models a paginated bars response: a page of results plus
// an optional cursor URL for the next page.
type httpBarsResp struct {
	Results []httpBar `json:"results"`
	NextURL string    `json:"next_url"`
}

// httpSymbolsResp models the list-symbols endpoint response.
type httpSymbolsResp struct {
	Symbols []string `json:"symbols"`
}

// HTTPPort fetches bars from a JSON HTTP API via resty, with bounded
// retries on 429/5xx and cursor-based pagination.
type HTTPPort struct {
	client  *resty.Client
	baseURL string
}

// NewHTTPPort constructs an HTTPPort with resty defaults tuned for a
// slow, occasionally rate-limited upstream: bounded timeout, a handful
// of retries with backoff, and automatic retry on 429/5xx.
func NewHTTPPort(baseURL, apiKey string) *HTTPPort {
	logger.Infof("event=http_port_init base_url=%s", baseURL)

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetAuthToken(apiKey).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &HTTPPort{client: client, baseURL: baseURL}
}

// FetchOHLCV fetches bars for code within [start, end] inclusive,
// following next_url pagination cursors until the upstream stops
// returning one.
func (p *HTTPPort) FetchOHLCV(code, exchange string, start, end int64) ([]bar.Bar, error) {
	var out []bar.Bar
	path := fmt.Sprintf("/v1/bars/%s", code)

	for path != "" {
		var resp httpBarsResp
		r, err := p.client.R().
			SetQueryParams(map[string]string{
				"exchange": exchange,
				"start":    fmt.Sprintf("%d", start),
				"end":      fmt.Sprintf("%d", end),
			}).
			SetResult(&resp).
			Get(path)
		if err != nil {
			return nil, fmt.Errorf("dataport: fetch %s: %w", code, err)
		}
		if r.IsError() {
			return nil, fmt.Errorf("dataport: fetch %s: status %d", code, r.StatusCode())
		}

		for _, hb := range resp.Results {
			if hb.Date < start || hb.Date > end {
				continue
			}
			out = append(out, bar.Bar{
				Code: code, Exchange: exchange, Date: hb.Date,
				Open: hb.Open, High: hb.High, Low: hb.Low, Close: hb.Close, Volume: hb.Volume,
			})
		}

		logger.Debugf("event=http_port_page code=%s results=%d next=%q", code, len(resp.Results), resp.NextURL)
		path = resp.NextURL
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ListSymbols calls the upstream symbol-catalog endpoint.
func (p *HTTPPort) ListSymbols(exchange string) ([]string, error) {
	var resp httpSymbolsResp
	r, err := p.client.R().
		SetQueryParam("exchange", exchange).
		SetResult(&resp).
		Get("/v1/symbols")
	if err != nil {
		return nil, fmt.Errorf("dataport: list symbols: %w", err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("dataport: list symbols: status %d", r.StatusCode())
	}
	return resp.Symbols, nil
}

// Close releases the underlying HTTP connection pool.
func (p *HTTPPort) Close() error {
	p.client.GetClient().CloseIdleConnections()
	return nil
}
