package holdings

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings/date"
	"github.com/ledgerline/holdings/errs"
	"github.com/ledgerline/holdings/fx"
)

// MarketData is one normalized end-of-day quote for an asset, supplied by
// the external price-fetch layer.
type MarketData struct {
	Asset         Asset           `json:"asset"`
	PriceDate     date.Date       `json:"priceDate"`
	Open          decimal.Decimal `json:"open"`
	Close         decimal.Decimal `json:"close"`
	High          decimal.Decimal `json:"high,omitempty"`
	Low           decimal.Decimal `json:"low,omitempty"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent,omitempty"`
	Volume        int64           `json:"volume,omitempty"`
	Source        string          `json:"source,omitempty"`
}

// Valuer prices accumulated positions against market data. It is stateless
// per call and safe to invoke concurrently across different positions as
// long as the rate map is immutable for the duration of the call.
type Valuer struct {
	log zerolog.Logger
}

// NewValuer creates a valuer logging to the given logger.
func NewValuer(log zerolog.Logger) *Valuer {
	if log.GetLevel() == zerolog.Disabled {
		log = zerolog.Nop()
	}
	return &Valuer{log: log.With().Str("component", "valuer").Logger()}
}

// Value prices the position matching the market data's asset in all three
// currency contexts and returns it.
//
// Every write is an overwrite, never an accumulation, so revaluing with
// identical inputs is idempotent. A conversion whose rate is missing from
// the supplied map is an error; defaulting to 1 would silently misvalue the
// position.
func (v *Valuer) Value(positions *Positions, md MarketData, rates map[fx.Pair]fx.Rate) (*Position, error) {
	pos, ok := positions.Find(md.Asset.Key())
	if !ok {
		return nil, errs.Businessf("no position for %s in portfolio %s", md.Asset.Key(), positions.Portfolio.Code)
	}

	total := pos.Total()
	tradeCurrency := pos.Asset.Currency
	if mv, ok := pos.Money(InTrade); ok && mv.Currency != "" {
		tradeCurrency = mv.Currency
	}

	for _, ctx := range valueContexts {
		currency := contextCurrency(ctx, tradeCurrency, positions.Portfolio)
		rate, err := rateFor(tradeCurrency, currency, rates)
		if err != nil {
			return nil, err
		}
		mv := pos.MoneyFor(ctx, currency)

		// All four price fields scale by the same rate; rounding them
		// independently would let the change drift from close-previousClose.
		mv.PriceData = PriceData{
			Open:          md.Open.Mul(rate),
			Close:         md.Close.Mul(rate),
			PreviousClose: md.PreviousClose.Mul(rate),
			Change:        md.Change.Mul(rate),
			ChangePercent: md.ChangePercent,
			PriceDate:     md.PriceDate,
		}

		if total.IsZero() {
			// A closed position never shows a stale market value.
			mv.MarketValue = decimal.Zero
			mv.GainOnDay = decimal.Zero
		} else {
			mv.MarketValue = mv.PriceData.Close.Mul(total)
		}

		if pos.Asset.IsCash() {
			// Cash does not gain from price movement by definition.
			mv.GainOnDay = decimal.Zero
			mv.RealisedGain = decimal.Zero
			mv.UnrealisedGain = decimal.Zero
			mv.TotalGain = decimal.Zero
		} else {
			if !total.IsZero() {
				mv.GainOnDay = mv.PriceData.Close.Sub(mv.PriceData.PreviousClose).Mul(total)
			}
			calculateGains(mv, total)
		}
		mv.ROI = RoiOf(mv)
	}

	positions.AsAt = md.PriceDate.String()
	v.log.Debug().
		Str("asset", md.Asset.Key()).
		Str("close", md.Close.String()).
		Str("asAt", positions.AsAt).
		Msg("valued")
	return pos, nil
}

// rateFor resolves the conversion rate between two currencies from the
// supplied rate map. Identity conversions cost nothing; anything else must
// be present in the map.
func rateFor(from, to string, rates map[fx.Pair]fx.Rate) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := rates[fx.NewPair(from, to)]
	if !ok {
		return decimal.Decimal{}, errs.Businessf("missing FX rate %s:%s, refusing to value", from, to)
	}
	if rate.Rate.IsZero() {
		return decimal.Decimal{}, errs.Businessf("zero FX rate %s:%s, refusing to value", from, to)
	}
	return rate.Rate, nil
}
