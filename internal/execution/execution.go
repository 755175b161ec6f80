// Package execution implements the broker model: commission and
// slippage math, position entry/exit, and the stop-loss/take-profit
// trigger sweep, all operating on a portfolio.Portfolio.
package execution

import (
	"errors"
	"math"

	"github.com/contactkeval/ruletest-backtest/internal/portfolio"
)

// ErrNilPriceMap is returned by TriggerSweep when given a nil price map.
var ErrNilPriceMap = errors.New("execution: price map is nil")

// Fees bundles the commission and slippage parameters applied to every
// fill: commission is flat + notional*pct/100, slippage moves the
// execution price by slip/100 in the direction costly to the trader.
type Fees struct {
	Flat float64
	Pct  float64
	Slip float64
}

// Commission returns the dollar commission on a fill of the given
// notional value.
func (f Fees) Commission(notional float64) float64 {
	return f.Flat + notional*f.Pct/100
}

// slip applies slippage to price: it raises the price when costly is
// true (a buy: buy-to-open-long, buy-to-cover-short) and lowers it
// otherwise (a sell: sell-to-close-long, sell-to-open-short). Either way
// the fill is worse for the trader by slip/100.
func (f Fees) slip(price float64, costly bool) float64 {
	if costly {
		return price * (1 + f.Slip/100)
	}
	return price * (1 - f.Slip/100)
}

// ShareQuantity returns floor(capital/price), or 0 if either argument
// is non-positive.
func ShareQuantity(capital, price float64) int64 {
	if capital <= 0 || price <= 0 {
		return 0
	}
	return int64(math.Floor(capital / price))
}

// Broker mutates one Portfolio's cash/positions/closed-trades in
// response to entry, exit, and trigger-sweep events. One Broker per
// run, sharing the run's Portfolio and Fees.
type Broker struct {
	PF   *portfolio.Portfolio
	Fees Fees
}

// New returns a Broker operating on pf with the given fee schedule.
func New(pf *portfolio.Portfolio, fees Fees) *Broker {
	return &Broker{PF: pf, Fees: fees}
}

// EnterLong opens a long position in code if none is already open and
// the position-count cap allows it. sizeFrac is the fraction of
// current cash to commit; slPct/tpPct of 0 leave stop-loss/take-profit
// unset. Returns false (no error) when the entry is rejected by a
// precondition or affordability check — that is the expected outcome
// of a strategy evaluating an entry rule that turns out unaffordable,
// not a failure.
func (b *Broker) EnterLong(code, exchange string, price float64, date int64, sizeFrac, slPct, tpPct float64, maxPos int) bool {
	if _, open := b.PF.Positions[code]; open {
		return false
	}
	if len(b.PF.Positions) >= maxPos {
		return false
	}
	exec := b.Fees.slip(price, true)
	qty := ShareQuantity(b.PF.Cash*sizeFrac, exec)
	if qty <= 0 {
		return false
	}
	notional := float64(qty) * exec
	commission := b.Fees.Commission(notional)
	if notional+commission > b.PF.Cash {
		return false
	}

	pos := portfolio.Position{
		Code: code, Exchange: exchange, Quantity: qty,
		EntryPrice: exec, EntryDate: date,
	}
	if slPct > 0 {
		pos.StopLoss = exec * (1 - slPct/100)
	}
	if tpPct > 0 {
		pos.TakeProfit = exec * (1 + tpPct/100)
	}
	b.PF.Open(pos)
	b.PF.Cash -= notional + commission
	return true
}

// EnterShort opens a short position, mirroring EnterLong: the
// execution price is slipped down (the short seller receives less),
// proceeds are credited, and stop/target bracket the
// position from the opposite sides.
func (b *Broker) EnterShort(code, exchange string, price float64, date int64, sizeFrac, slPct, tpPct float64, maxPos int) bool {
	if _, open := b.PF.Positions[code]; open {
		return false
	}
	if len(b.PF.Positions) >= maxPos {
		return false
	}
	exec := b.Fees.slip(price, false)
	qty := ShareQuantity(b.PF.Cash*sizeFrac, exec)
	if qty <= 0 {
		return false
	}
	notional := float64(qty) * exec
	commission := b.Fees.Commission(notional)
	if commission > b.PF.Cash+notional {
		return false
	}

	pos := portfolio.Position{
		Code: code, Exchange: exchange, Quantity: -qty,
		EntryPrice: exec, EntryDate: date,
	}
	if slPct > 0 {
		pos.StopLoss = exec * (1 + slPct/100)
	}
	if tpPct > 0 {
		pos.TakeProfit = exec * (1 - tpPct/100)
	}
	b.PF.Open(pos)
	b.PF.Cash += notional - commission
	return true
}

// ExitPosition closes the open position for code at price, crediting
// or debiting cash per the position's direction and booking a
// ClosedTrade. Returns false if no position is open for code.
func (b *Broker) ExitPosition(code string, price float64, date int64) bool {
	pos, open := b.PF.Positions[code]
	if !open {
		return false
	}

	isLong := pos.Quantity > 0
	qty := pos.Quantity
	if !isLong {
		qty = -qty
	}

	entryNotional := float64(qty) * pos.EntryPrice
	entryCommission := b.Fees.Commission(entryNotional)

	var exec, proceeds, exitCommission float64
	if isLong {
		exec = b.Fees.slip(price, false)
		exitNotional := float64(qty) * exec
		exitCommission = b.Fees.Commission(exitNotional)
		proceeds = exitNotional - exitCommission
	} else {
		exec = b.Fees.slip(price, true)
		exitNotional := float64(qty) * exec
		exitCommission = b.Fees.Commission(exitNotional)
		proceeds = -(exitNotional + exitCommission)
	}

	pnl := float64(pos.Quantity)*(exec-pos.EntryPrice) - entryCommission - exitCommission
	return b.PF.Close(code, exec, date, pnl, proceeds)
}

// shouldStopLoss reports whether price has crossed a position's
// stop-loss. A zero threshold means unset and is always false.
func shouldStopLoss(pos *portfolio.Position, price float64) bool {
	if pos.StopLoss == 0 {
		return false
	}
	if pos.IsLong() {
		return price <= pos.StopLoss
	}
	return price >= pos.StopLoss
}

// shouldTakeProfit reports whether price has crossed a position's
// take-profit. A zero threshold means unset and is always false.
func shouldTakeProfit(pos *portfolio.Position, price float64) bool {
	if pos.TakeProfit == 0 {
		return false
	}
	if pos.IsLong() {
		return price >= pos.TakeProfit
	}
	return price <= pos.TakeProfit
}

// TriggerSweep scans every open position against priceMap and exits
// any whose stop-loss or take-profit has been crossed, returning the
// count exited. It collects the codes to exit before exiting any of
// them, so a sweep's decisions are based on a single consistent
// snapshot of open positions rather than the partially-drained set.
func (b *Broker) TriggerSweep(priceMap map[string]float64, date int64) (int, error) {
	if priceMap == nil {
		return 0, ErrNilPriceMap
	}

	var toExit []string
	for code, pos := range b.PF.Positions {
		price, ok := priceMap[code]
		if !ok {
			continue
		}
		if shouldStopLoss(pos, price) || shouldTakeProfit(pos, price) {
			toExit = append(toExit, code)
		}
	}

	count := 0
	for _, code := range toExit {
		price := priceMap[code]
		if b.ExitPosition(code, price, date) {
			count++
		}
	}
	return count, nil
}
