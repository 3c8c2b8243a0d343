package holdings

import "github.com/shopspring/decimal"

// QuantityValues tracks how a position's quantity was assembled. Sold and
// Adjustment carry their own sign, so the total is always a plain sum.
type QuantityValues struct {
	Purchased  decimal.Decimal `json:"purchased"`
	Sold       decimal.Decimal `json:"sold"`
	Adjustment decimal.Decimal `json:"adjustment"`
}

// Total returns the currently held quantity.
func (q QuantityValues) Total() decimal.Decimal {
	return q.Purchased.Add(q.Sold).Add(q.Adjustment)
}

// Precision returns the maximum fractional-digit count across the recorded
// quantities. It drives display rounding only, never monetary math.
func (q QuantityValues) Precision() int32 {
	p := fractionalDigits(q.Purchased)
	if s := fractionalDigits(q.Sold); s > p {
		p = s
	}
	if a := fractionalDigits(q.Adjustment); a > p {
		p = a
	}
	return p
}

func fractionalDigits(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}
