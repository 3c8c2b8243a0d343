package holdings

import "github.com/shopspring/decimal"

// Cash-side transaction behaviours and the companion cash-impact step.
// A unit of a cash asset is a unit of its currency, so cash quantities and
// cash amounts move 1:1.

// deposit credits the cash asset quantity. Purchases are tracked 1:1;
// cost tracking is flag-gated and off by default.
func (a *Accumulator) deposit(trn *Trn, pos *Position, rates [3]contextRate) error {
	amount := cashQuantity(trn)
	pos.QuantityValues.Purchased = pos.QuantityValues.Purchased.Add(amount)
	total := pos.Total()

	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		converted := amount.Mul(rate)
		mv.Purchases = mv.Purchases.Add(converted)
		if a.trackCashCost {
			mv.CostBasis = mv.CostBasis.Add(converted)
			mv.recalcCost(total)
		}
	})
	return nil
}

// withdraw debits the cash asset quantity, mirroring deposit.
func (a *Accumulator) withdraw(trn *Trn, pos *Position, rates [3]contextRate) error {
	amount := cashQuantity(trn)
	pos.QuantityValues.Sold = pos.QuantityValues.Sold.Sub(amount)
	total := pos.Total()

	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		converted := amount.Mul(rate)
		mv.Sales = mv.Sales.Add(converted)
		if a.trackCashCost {
			mv.CostBasis = mv.CostBasis.Sub(converted)
			mv.recalcCost(total)
		}
	})
	return nil
}

// balance adjusts the cash quantity to a stated balance. The delta lands in
// the adjustment bucket, cost basis tracks the delta, and the supplied price
// becomes the average cost.
func (a *Accumulator) balance(trn *Trn, pos *Position, rates [3]contextRate) error {
	target := trn.Quantity
	delta := target.Sub(pos.Total())
	pos.QuantityValues.Adjustment = pos.QuantityValues.Adjustment.Add(delta)
	total := pos.Total()

	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		mv.CostBasis = mv.CostBasis.Add(delta.Mul(rate))
		mv.AverageCost = trn.Price.Mul(rate)
		mv.CostValue = mv.AverageCost.Mul(total.Abs())
	})
	return nil
}

// fxBuy converts between two cash balances: it credits the bought cash
// asset and debits the paired cash asset by the cash amount at the trade
// cash rate. Both legs carry their own signed amount as cost basis.
func (a *Accumulator) fxBuy(trn *Trn, pos *Position, positions *Positions, rates [3]contextRate) error {
	bought := cashQuantity(trn)

	// Bought leg.
	pos.QuantityValues.Purchased = pos.QuantityValues.Purchased.Add(bought)
	total := pos.Total()
	pos.apply(rates, func(mv *MoneyValues, rate decimal.Decimal) {
		amount := trn.TradeAmount.Mul(rate)
		mv.Purchases = mv.Purchases.Add(amount)
		mv.CostBasis = mv.CostBasis.Add(amount)
		mv.recalcCost(total)
	})

	// Sold leg: the paired account gives up cashAmount of its currency.
	sold := trn.CashAmount
	if sold.IsZero() {
		sold = trn.TradeAmount.Mul(trn.CashRate()).Neg()
	}
	cashPos := positions.Get(*trn.CashAsset)
	cashPos.QuantityValues.Sold = cashPos.QuantityValues.Sold.Add(sold)
	cashTotal := cashPos.Total()
	cashPos.apply(cashContextRates(trn, positions.Portfolio, trn.CashAsset.Currency),
		func(mv *MoneyValues, rate decimal.Decimal) {
			amount := sold.Mul(rate)
			mv.Sales = mv.Sales.Add(amount.Neg())
			mv.CostBasis = mv.CostBasis.Add(amount)
			mv.recalcCost(cashTotal)
		})
	return nil
}

// applyCashImpact settles the cash side of a transaction before its
// position behaviour runs. Buys and expenses debit the cash account, sells
// and income credit it. Settlement legs of BUY/SELL track cost; income and
// expense legs only move quantity, their monetary story already lives on
// the securities position.
func (a *Accumulator) applyCashImpact(trn *Trn, positions *Positions) {
	if selfReferential(trn) {
		return
	}

	var credit bool
	switch trn.Type {
	case Buy, Expense:
		credit = false
	case Sell, Divi, Income:
		credit = true
	default:
		// Other types either have no cash side or settle it themselves.
		return
	}

	// A derived settlement nets fees and tax: they always leave the cash
	// account, so they reduce a credit and deepen a debit. An explicit cash
	// amount from the ingestion layer is already net of them.
	amount := trn.CashAmount
	if amount.IsZero() {
		net := trn.TradeAmount.Add(trn.Fees).Add(trn.Tax)
		if credit {
			net = trn.TradeAmount.Sub(trn.Fees).Sub(trn.Tax)
		}
		amount = net.Mul(trn.CashRate())
		if !credit {
			amount = amount.Neg()
		}
	}

	cashPos := positions.Get(*trn.CashAsset)
	if amount.IsPositive() {
		cashPos.QuantityValues.Purchased = cashPos.QuantityValues.Purchased.Add(amount)
	} else {
		cashPos.QuantityValues.Sold = cashPos.QuantityValues.Sold.Add(amount)
	}

	if trn.Type != Buy && trn.Type != Sell {
		return
	}
	cashTotal := cashPos.Total()
	cashPos.apply(cashContextRates(trn, positions.Portfolio, trn.CashAsset.Currency),
		func(mv *MoneyValues, rate decimal.Decimal) {
			converted := amount.Mul(rate)
			if converted.IsPositive() {
				mv.Purchases = mv.Purchases.Add(converted)
			} else {
				mv.Sales = mv.Sales.Add(converted.Neg())
			}
			mv.CostBasis = mv.CostBasis.Add(converted)
			mv.recalcCost(cashTotal)
		})
}

// cashContextRates is the update plan for a cash leg: the trade context is
// the cash currency itself, and the base/portfolio rates are re-based from
// the trade currency through the trade cash rate.
func cashContextRates(trn *Trn, portfolio Portfolio, cashCurrency string) [3]contextRate {
	cashRate := trn.CashRate()
	return [3]contextRate{
		{InTrade, cashCurrency, decimal.NewFromInt(1)},
		{InBase, portfolio.Base, trn.BaseRate().DivRound(cashRate, costPlaces)},
		{InPortfolio, portfolio.Currency, trn.PortfolioRate().DivRound(cashRate, costPlaces)},
	}
}

// cashQuantity is the quantity a cash movement credits: the explicit
// quantity when supplied, the trade amount otherwise.
func cashQuantity(trn *Trn) decimal.Decimal {
	if !trn.Quantity.IsZero() {
		return trn.Quantity.Abs()
	}
	return trn.TradeAmount.Abs()
}
