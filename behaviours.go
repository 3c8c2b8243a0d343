package holdings

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings/date"
)

// Security-side transaction behaviours. Each one mutates the quantity ledger
// once, then applies its monetary effect identically across the three
// currency contexts through Position.apply.

// buy handles BUY and ADD: quantity in, cost basis up, average recomputed.
// ADD is the cost-basis entry for non-tradeable assets (e.g. real estate)
// and has no cash account; the cash side of BUY is settled by the companion
// cash impact before this runs.
func (a *Accumulator) buy(trn *Trn, pos *Position, rates [3]contextRate) error {
	qty := trn.Quantity.Abs()
	pos.QuantityValues.Purchased = pos.QuantityValues.Purchased.Add(qty)
	total := pos.Total()

	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		amount := trn.TradeAmount.Mul(rate)
		mv.Purchases = mv.Purchases.Add(amount)
		mv.CostBasis = mv.CostBasis.Add(amount)
		mv.recalcCost(total)
	})

	if trn.Type == Buy {
		pos.addHeld(trn.Broker, qty)
	}
	// Buying into a closed position reopens it; the original opened date is
	// preserved.
	pos.DateValues.Closed = date.Date{}
	return nil
}

// sell handles SELL and REDUCE: quantity out, realised gain crystallised
// against the running average cost. Cost basis and average cost are
// untouched by a partial disposal; only a full return to zero resets them.
func (a *Accumulator) sell(trn *Trn, pos *Position, rates [3]contextRate) error {
	qty := trn.Quantity.Abs()
	pos.QuantityValues.Sold = pos.QuantityValues.Sold.Sub(qty)
	total := pos.Total()

	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		amount := trn.TradeAmount.Mul(rate)
		mv.Sales = mv.Sales.Add(amount)
		// Positive when sold above average cost. Accumulates for the
		// lifetime of the position; never reset, even on close.
		mv.RealisedGain = mv.RealisedGain.Add(amount.Sub(qty.Mul(mv.AverageCost)))
		mv.revalueCost(total)
	})

	pos.addHeld(trn.Broker, qty.Neg())
	if total.IsZero() {
		pos.DateValues.Closed = trn.TradeDate
	}
	return nil
}

// split rescales the quantity ledger by the split factor. A split neither
// creates nor destroys value: cost basis is untouched and the average cost
// is re-derived against the new quantity. Broker attribution is left alone.
func (a *Accumulator) split(trn *Trn, pos *Position) error {
	factor := trn.Quantity
	q := &pos.QuantityValues
	q.Purchased = q.Purchased.Mul(factor)
	q.Sold = q.Sold.Mul(factor)
	q.Adjustment = q.Adjustment.Mul(factor)
	total := pos.Total()

	for _, ctx := range valueContexts {
		if mv, ok := pos.Money(ctx); ok {
			mv.recalcCost(total)
		}
	}
	return nil
}

// income handles DIVI and INCOME: the amount lands in the dividends bucket,
// never in cost. A self-referential INCOME (interest credited straight to
// the cash account it is booked against) also credits the cash quantity.
func (a *Accumulator) income(trn *Trn, pos *Position, rates [3]contextRate) error {
	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		mv.Dividends = mv.Dividends.Add(trn.TradeAmount.Mul(rate))
	})

	if trn.Type == Income && trn.Asset.IsCash() && selfReferential(trn) {
		pos.QuantityValues.Purchased = pos.QuantityValues.Purchased.Add(trn.TradeAmount)
	}
	return nil
}

// expense books a cost of holding (custody fee, margin interest) against
// the expenses bucket. No cost-basis change; the cash debit is handled by
// the companion cash impact.
func (a *Accumulator) expense(trn *Trn, pos *Position, rates [3]contextRate) error {
	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		mv.Expenses = mv.Expenses.Add(trn.TradeAmount.Mul(rate))
	})
	return nil
}

// costAdjust moves cost basis without moving quantity, e.g. a return of
// capital (negative amount). Average cost is recomputed against the
// existing quantity.
func (a *Accumulator) costAdjust(trn *Trn, pos *Position, rates [3]contextRate) error {
	total := pos.Total()
	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		mv.CostBasis = mv.CostBasis.Add(trn.TradeAmount.Mul(rate))
		mv.recalcCost(total)
	})
	return nil
}

// selfReferential reports whether the transaction settles against its own
// asset (or has no separate cash account at all).
func selfReferential(trn *Trn) bool {
	return trn.CashAsset == nil || trn.CashAsset.Key() == trn.Asset.Key()
}
