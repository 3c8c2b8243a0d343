package holdings

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Totals aggregates money values across all positions of a collection for
// one currency context.
type Totals struct {
	Currency    string          `json:"currency"`
	MarketValue decimal.Decimal `json:"marketValue"`
	Purchases   decimal.Decimal `json:"purchases"`
	Sales       decimal.Decimal `json:"sales"`
	Income      decimal.Decimal `json:"income"`
	Gain        decimal.Decimal `json:"gain"`
}

// Positions owns every Position of one portfolio, keyed by MARKET:CODE.
// All positions in a collection belong to the same portfolio; a Position
// never references its owner back.
type Positions struct {
	Portfolio Portfolio
	AsAt      string // valuation date, yyyy-MM-dd, set by the valuation caller

	positions map[string]*Position
}

// NewPositions creates an empty collection for a portfolio.
func NewPositions(portfolio Portfolio) *Positions {
	return &Positions{
		Portfolio: portfolio,
		positions: make(map[string]*Position),
	}
}

// Get returns the position for an asset, creating it on first reference.
func (ps *Positions) Get(asset Asset) *Position {
	key := asset.Key()
	pos, ok := ps.positions[key]
	if !ok {
		pos = newPosition(asset)
		ps.positions[key] = pos
	}
	return pos
}

// Find returns the position for an asset key without creating it.
func (ps *Positions) Find(key string) (*Position, bool) {
	pos, ok := ps.positions[key]
	return pos, ok
}

// Len returns the number of tracked positions.
func (ps *Positions) Len() int { return len(ps.positions) }

// Keys returns the tracked asset keys in sorted order.
func (ps *Positions) Keys() []string {
	keys := make([]string, 0, len(ps.positions))
	for key := range ps.positions {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// IsMixedCurrencies reports whether more than one distinct trade currency
// exists across positions that are currently held.
func (ps *Positions) IsMixedCurrencies() bool {
	seen := ""
	for _, pos := range ps.positions {
		if pos.Total().IsZero() {
			continue
		}
		cur := pos.Asset.Currency
		if mv, ok := pos.Money(InTrade); ok {
			cur = mv.Currency
		}
		if seen == "" {
			seen = cur
			continue
		}
		if cur != seen {
			return true
		}
	}
	return false
}

// Totals aggregates the collection for one currency context. Zeroed
// positions contribute their lifetime purchases, sales and income but no
// market value.
func (ps *Positions) Totals(ctx ValueContext) Totals {
	totals := Totals{Currency: ps.contextCurrencyOf(ctx)}
	for _, pos := range ps.positions {
		mv, ok := pos.Money(ctx)
		if !ok {
			continue
		}
		totals.MarketValue = totals.MarketValue.Add(mv.MarketValue)
		totals.Purchases = totals.Purchases.Add(mv.Purchases)
		totals.Sales = totals.Sales.Add(mv.Sales)
		totals.Income = totals.Income.Add(mv.Dividends)
		totals.Gain = totals.Gain.Add(mv.TotalGain)
	}
	return totals
}

// ApplyWeights recomputes each position's weight as its share of the
// collection's market value in the given context.
func (ps *Positions) ApplyWeights(ctx ValueContext) {
	total := ps.Totals(ctx).MarketValue
	for _, pos := range ps.positions {
		mv, ok := pos.Money(ctx)
		if !ok {
			continue
		}
		if total.IsZero() {
			mv.Weight = decimal.Zero
			continue
		}
		mv.Weight = mv.MarketValue.DivRound(total, 6)
	}
}

func (ps *Positions) contextCurrencyOf(ctx ValueContext) string {
	switch ctx {
	case InBase:
		return ps.Portfolio.Base
	case InPortfolio:
		return ps.Portfolio.Currency
	default:
		// Trade totals are only meaningful when currencies are not mixed.
		for _, pos := range ps.positions {
			if mv, ok := pos.Money(InTrade); ok {
				return mv.Currency
			}
		}
		return ps.Portfolio.Currency
	}
}
