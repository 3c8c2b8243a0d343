// Package fx resolves exchange rates between arbitrary currency pairs from a
// sparse, pivot-relative rate table.
//
// Rate providers quote every currency against a single pivot (USD). Any other
// pair is derived by crossing through the pivot, so a single quote per
// currency is enough to value a whole portfolio.
package fx

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings/date"
	"github.com/ledgerline/holdings/errs"
)

// Pivot is the currency every stored rate is quoted against.
const Pivot = "USD"

// crossPlaces is the rounding applied to every derived rate division,
// half-up. A fixed scale keeps cross rates reproducible across
// implementations; it is a business choice, not a float tolerance.
const crossPlaces = 8

var one = decimal.NewFromInt(1)

// Pair identifies a conversion from one currency to another.
type Pair struct {
	From string
	To   string
}

// NewPair returns the pair converting from one currency code to another.
func NewPair(from, to string) Pair { return Pair{From: from, To: to} }

// Inverse returns the pair for the opposite conversion.
func (p Pair) Inverse() Pair { return Pair{From: p.To, To: p.From} }

func (p Pair) String() string { return p.From + ":" + p.To }

// Rate is an exchange rate between two currencies on a given day.
// It is a value: once returned it is never mutated.
type Rate struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	AsOf date.Date       `json:"asOf"`
}

// NewRate builds a rate for the given pair.
func NewRate(from, to string, rate decimal.Decimal, asOf date.Date) Rate {
	return Rate{From: from, To: to, Rate: rate, AsOf: asOf}
}

// Inverse returns the rate for the opposite conversion.
func (r Rate) Inverse() Rate {
	return Rate{From: r.To, To: r.From, Rate: one.DivRound(r.Rate, crossPlaces), AsOf: r.AsOf}
}

// RateCalculator derives rates for requested pairs from a sparse table of
// pivot-relative quotes. The table is keyed by currency code; each entry is
// the rate from the pivot to that currency.
type RateCalculator struct{}

// Compute resolves every requested pair against the quote table.
//
// Identity pairs resolve to exactly 1. Pairs with a pivot leg use the stored
// quote directly or inverted. All other pairs cross through the pivot:
// rate(from, to) = rate(pivot, to) / rate(pivot, from). A pair that needs a
// quote the table does not carry is an error; a silent zero rate would
// corrupt every downstream valuation.
func (RateCalculator) Compute(asOf date.Date, pairs []Pair, quotes map[string]Rate) (map[Pair]Rate, error) {
	resolved := make(map[Pair]Rate, len(pairs))
	for _, pair := range pairs {
		if _, ok := resolved[pair]; ok {
			continue
		}
		rate, err := crossRate(asOf, pair, quotes)
		if err != nil {
			return nil, err
		}
		resolved[pair] = rate
	}
	return resolved, nil
}

func crossRate(asOf date.Date, pair Pair, quotes map[string]Rate) (Rate, error) {
	if pair.From == pair.To {
		return NewRate(pair.From, pair.To, one, asOf), nil
	}
	if pair.From == Pivot {
		quote, err := quoteFor(pair, pair.To, quotes)
		if err != nil {
			return Rate{}, err
		}
		return NewRate(pair.From, pair.To, quote.Rate, quote.AsOf), nil
	}
	if pair.To == Pivot {
		quote, err := quoteFor(pair, pair.From, quotes)
		if err != nil {
			return Rate{}, err
		}
		return NewRate(pair.From, pair.To, one.DivRound(quote.Rate, crossPlaces), quote.AsOf), nil
	}
	// Neither leg is the pivot: cross through it.
	from, err := quoteFor(pair, pair.From, quotes)
	if err != nil {
		return Rate{}, err
	}
	to, err := quoteFor(pair, pair.To, quotes)
	if err != nil {
		return Rate{}, err
	}
	return NewRate(pair.From, pair.To, to.Rate.DivRound(from.Rate, crossPlaces), asOf), nil
}

func quoteFor(pair Pair, code string, quotes map[string]Rate) (Rate, error) {
	quote, ok := quotes[code]
	if !ok {
		return Rate{}, errs.Businessf("no %s quote for %s, cannot resolve %s", Pivot, code, pair)
	}
	if quote.Rate.IsZero() {
		return Rate{}, errs.Businessf("zero %s quote for %s, cannot resolve %s", Pivot, code, pair)
	}
	return quote, nil
}
