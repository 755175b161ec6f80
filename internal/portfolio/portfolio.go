// Package portfolio holds the open-position and closed-trade bookkeeping
// for a single backtest run: one Portfolio per run, mutated bar-by-bar
// by the backtest loop and read by the metrics engine at the end.
package portfolio

// Position is an open position in a single code. Quantity > 0 is long,
// < 0 is short; quantity == 0 never appears (an exit removes the entry
// instead of zeroing it). StopLoss/TakeProfit == 0 means unset.
type Position struct {
	Code       string
	Exchange   string
	Quantity   int64
	EntryPrice float64
	EntryDate  int64
	StopLoss   float64
	TakeProfit float64
}

// IsLong reports whether the position is a long (positive quantity).
func (p Position) IsLong() bool { return p.Quantity > 0 }

// ClosedTrade is an immutable record of a completed round trip. PnL is
// net of both entry and exit commissions.
type ClosedTrade struct {
	Code       string
	Exchange   string
	Quantity   int64
	EntryPrice float64
	ExitPrice  float64
	EntryDate  int64
	ExitDate   int64
	PnL        float64
}

// EquityPoint is one sample of total portfolio equity, appended once
// per simulated bar.
type EquityPoint struct {
	Date   int64
	Equity float64
}

// Portfolio tracks cash, open positions keyed by code, and the ordered
// history of closed trades and equity samples for one run.
//
// Invariant: at most one open Position per code at any time. Strings
// stored on Position/ClosedTrade are copies independent of any caller
// buffer — Go string assignment already copies the header, and the
// underlying bytes of a string literal or a freshly built string are
// never aliased to caller-owned mutable memory, so no extra interning
// step is required here.
type Portfolio struct {
	Cash           float64
	InitialCapital float64
	Positions      map[string]*Position
	ClosedTrades   []ClosedTrade
	EquityCurve    []EquityPoint
}

// New returns a Portfolio seeded with the given starting cash.
func New(initialCapital float64) *Portfolio {
	return &Portfolio{
		Cash:           initialCapital,
		InitialCapital: initialCapital,
		Positions:      make(map[string]*Position),
	}
}

// Open records a new position for code. It panics if a position is
// already open for that code — the backtest loop must check first,
// since the execution layer enforces at-most-one-open-per-code as a
// precondition, not a runtime guard here.
func (pf *Portfolio) Open(pos Position) {
	if _, exists := pf.Positions[pos.Code]; exists {
		panic("portfolio: position already open for code " + pos.Code)
	}
	pf.Positions[pos.Code] = &pos
}

// Close removes the open position for code, books a ClosedTrade with
// the given exit price/date/commission-adjusted pnl, and credits cash.
// It returns false if no position was open for code.
func (pf *Portfolio) Close(code string, exitPrice float64, exitDate int64, pnl, proceeds float64) bool {
	pos, exists := pf.Positions[code]
	if !exists {
		return false
	}
	delete(pf.Positions, code)
	pf.Cash += proceeds
	pf.ClosedTrades = append(pf.ClosedTrades, ClosedTrade{
		Code:       pos.Code,
		Exchange:   pos.Exchange,
		Quantity:   pos.Quantity,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exitPrice,
		EntryDate:  pos.EntryDate,
		ExitDate:   exitDate,
		PnL:        pnl,
	})
	return true
}

// MarkEquity computes total equity from cash plus the mark-to-market
// value of every open position (using lastPrice for each code) and
// appends an EquityPoint for date. Codes with no entry in lastPrice are
// valued at their entry price, which only happens when a code's
// timeline has no bar on this date.
func (pf *Portfolio) MarkEquity(date int64, lastPrice map[string]float64) float64 {
	equity := pf.Cash
	for code, pos := range pf.Positions {
		price, ok := lastPrice[code]
		if !ok {
			price = pos.EntryPrice
		}
		qty := pos.Quantity
		if qty < 0 {
			qty = -qty
		}
		equity += float64(qty) * price
	}
	pf.EquityCurve = append(pf.EquityCurve, EquityPoint{Date: date, Equity: equity})
	return equity
}

// UnrealizedPnL computes the mark-to-market profit or loss of an open
// position at the given current price.
func (p Position) UnrealizedPnL(currentPrice float64) float64 {
	return float64(p.Quantity) * (currentPrice - p.EntryPrice)
}
