package holdings

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings/date"
)

// costPlaces is the rounding applied to cost divisions, half-up. A fixed
// scale keeps average costs reproducible across implementations.
const costPlaces = 8

// PriceData is the market price view of a position in one currency context.
// All four price fields are scaled by the same cross rate, never rounded
// independently of each other.
type PriceData struct {
	Open          decimal.Decimal `json:"open"`
	Close         decimal.Decimal `json:"close"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	PriceDate     date.Date       `json:"priceDate,omitzero"`
}

// MoneyValues is the monetary state of a position in one currency context.
// Each instance is owned by exactly one Position.
type MoneyValues struct {
	Currency string `json:"currency"`

	CostBasis   decimal.Decimal `json:"costBasis"`
	AverageCost decimal.Decimal `json:"averageCost"`
	CostValue   decimal.Decimal `json:"costValue"`

	MarketValue    decimal.Decimal `json:"marketValue"`
	RealisedGain   decimal.Decimal `json:"realisedGain"`
	UnrealisedGain decimal.Decimal `json:"unrealisedGain"`
	TotalGain      decimal.Decimal `json:"totalGain"`
	GainOnDay      decimal.Decimal `json:"gainOnDay"`

	Dividends decimal.Decimal `json:"dividends"`
	Expenses  decimal.Decimal `json:"expenses"`
	Purchases decimal.Decimal `json:"purchases"`
	Sales     decimal.Decimal `json:"sales"`

	PriceData PriceData       `json:"priceData"`
	ROI       decimal.Decimal `json:"roi"`
	IRR       decimal.Decimal `json:"irr"`
	Weight    decimal.Decimal `json:"weight"`
}

func newMoneyValues(currency string) *MoneyValues {
	return &MoneyValues{Currency: currency}
}

// resetCosts zeroes the cost fields. Called when the held quantity returns
// to zero: a position with nothing held has no cost. RealisedGain is a
// lifetime running total and is deliberately not touched.
func (m *MoneyValues) resetCosts() {
	m.CostBasis = decimal.Zero
	m.AverageCost = decimal.Zero
	m.CostValue = decimal.Zero
}

// recalcCost re-derives AverageCost and CostValue from CostBasis against the
// given held quantity, maintaining costValue == averageCost * |quantity|.
func (m *MoneyValues) recalcCost(total decimal.Decimal) {
	if total.IsZero() {
		m.resetCosts()
		return
	}
	m.AverageCost = m.CostBasis.DivRound(total.Abs(), costPlaces)
	m.CostValue = m.AverageCost.Mul(total.Abs())
}

// revalueCost refreshes CostValue against a new quantity without changing
// AverageCost. Used after partial disposals, where the average is preserved.
func (m *MoneyValues) revalueCost(total decimal.Decimal) {
	if total.IsZero() {
		m.resetCosts()
		return
	}
	m.CostValue = m.AverageCost.Mul(total.Abs())
}
