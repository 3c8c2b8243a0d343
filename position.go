package holdings

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings/date"
)

// DateValues tracks the lifecycle dates of a position.
type DateValues struct {
	Opened date.Date `json:"opened,omitzero"`
	Closed date.Date `json:"closed,omitzero"`
	Last   date.Date `json:"last,omitzero"` // trade date of the last accumulated transaction
}

// Position is the holding state of one asset within a portfolio, tracked in
// the three currency contexts. Positions are created lazily by their owning
// collection and are never deleted, only zeroed.
type Position struct {
	Asset          Asset
	QuantityValues QuantityValues
	DateValues     DateValues

	// moneyValues is keyed by context; entries are created on first use.
	moneyValues map[ValueContext]*MoneyValues

	// held attributes quantity per broker, independent of cost. A broker
	// whose tracked quantity reaches zero is removed entirely, so "no
	// current holder" and "holder at zero pending settlement" stay
	// distinguishable.
	held map[string]decimal.Decimal
}

func newPosition(asset Asset) *Position {
	return &Position{
		Asset:       asset,
		moneyValues: make(map[ValueContext]*MoneyValues, len(valueContexts)),
		held:        make(map[string]decimal.Decimal),
	}
}

// Total returns the currently held quantity.
func (p *Position) Total() decimal.Decimal { return p.QuantityValues.Total() }

// MoneyFor returns the money values for a context, creating them with the
// given currency on first use.
func (p *Position) MoneyFor(ctx ValueContext, currency string) *MoneyValues {
	mv, ok := p.moneyValues[ctx]
	if !ok {
		mv = newMoneyValues(currency)
		p.moneyValues[ctx] = mv
	}
	return mv
}

// Money returns the money values for a context if they exist.
func (p *Position) Money(ctx ValueContext) (*MoneyValues, bool) {
	mv, ok := p.moneyValues[ctx]
	return mv, ok
}

// Held returns the broker attribution for a broker name.
func (p *Position) Held(broker string) (decimal.Decimal, bool) {
	q, ok := p.held[broker]
	return q, ok
}

// Brokers returns the number of brokers currently attributed quantity.
func (p *Position) Brokers() int { return len(p.held) }

// addHeld attributes bought quantity to a broker; subtract with a negative
// quantity. An attribution landing exactly on zero is removed.
func (p *Position) addHeld(broker string, quantity decimal.Decimal) {
	if broker == "" {
		return
	}
	next := p.held[broker].Add(quantity)
	if next.IsZero() {
		delete(p.held, broker)
		return
	}
	p.held[broker] = next
}

// contextRate pairs a currency context with the rate converting trade-
// currency amounts into it.
type contextRate struct {
	ctx      ValueContext
	currency string
	rate     decimal.Decimal
}

// contextRates builds the fixed three-entry update plan for a transaction:
// trade at rate 1, base and portfolio at the rates captured on the
// transaction.
func contextRates(trn *Trn, portfolio Portfolio) [3]contextRate {
	return [3]contextRate{
		{InTrade, contextCurrency(InTrade, trn.TradeCurrency, portfolio), decimal.NewFromInt(1)},
		{InBase, contextCurrency(InBase, trn.TradeCurrency, portfolio), trn.BaseRate()},
		{InPortfolio, contextCurrency(InPortfolio, trn.TradeCurrency, portfolio), trn.PortfolioRate()},
	}
}

// apply runs one update function against all three currency contexts, each
// with its context-specific rate. This is the only write path behaviours
// use, which keeps the three views consistent per transaction.
func (p *Position) apply(rates [3]contextRate, fn func(mv *MoneyValues, rate decimal.Decimal)) {
	for _, cr := range rates {
		fn(p.MoneyFor(cr.ctx, cr.currency), cr.rate)
	}
}
