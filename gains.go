package holdings

import "github.com/shopspring/decimal"

// roiPlaces is the display scale for return-on-investment ratios.
const roiPlaces = 6

// calculateGains derives the gain buckets of one currency context from its
// already-set market value and cost state.
func calculateGains(mv *MoneyValues, total decimal.Decimal) {
	if total.IsZero() {
		mv.UnrealisedGain = decimal.Zero
	} else {
		mv.UnrealisedGain = mv.MarketValue.Sub(mv.CostValue)
	}
	mv.TotalGain = mv.UnrealisedGain.Add(mv.Dividends).Add(mv.RealisedGain)
}

// RoiOf returns totalGain over the cost of obtaining it, rounded half-up to
// six places. The basis is the current cost value, falling back to lifetime
// purchases when the position has been fully sold and its costs reset. A
// zero basis yields zero, never a division error.
func RoiOf(mv *MoneyValues) decimal.Decimal {
	basis := mv.CostValue
	if basis.IsZero() {
		basis = mv.Purchases
	}
	if basis.IsZero() {
		return decimal.Zero
	}
	return mv.TotalGain.DivRound(basis, roiPlaces)
}
