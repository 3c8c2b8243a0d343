package holdings

import (
	"github.com/rs/zerolog"

	"github.com/ledgerline/holdings/errs"
)

// Accumulator applies transactions to a Positions collection. It is
// stateless between calls; all mutable state lives in the collection.
//
// Callers must not accumulate transactions for the same (portfolio, asset)
// pair concurrently; cost basis is order-dependent. Distinct pairs are safe
// to process in parallel.
type Accumulator struct {
	log zerolog.Logger

	// trackCashCost enables cost tracking on simple cash movements
	// (DEPOSIT/WITHDRAWAL). Off by default: buy/sell settlement legs
	// already track cost, and tracking plain movements too would double
	// count. See WithCashCostTracking.
	trackCashCost bool
}

// NewAccumulator creates an accumulator logging to the given logger.
func NewAccumulator(log zerolog.Logger) *Accumulator {
	if log.GetLevel() == zerolog.Disabled {
		log = zerolog.Nop()
	}
	return &Accumulator{log: log.With().Str("component", "accumulator").Logger()}
}

// WithCashCostTracking enables cost tracking for DEPOSIT/WITHDRAWAL.
func (a *Accumulator) WithCashCostTracking() *Accumulator {
	a.trackCashCost = true
	return a
}

// Accumulate applies one transaction to its position within the collection
// and returns the mutated position.
//
// The transaction type set is closed: every known type is matched explicitly
// and an unknown one is a business error, never a silent no-op. Transactions
// for one asset must arrive in non-decreasing trade-date order; an earlier-
// dated transaction than one already processed is rejected to protect cost
// basis correctness. A rejected transaction leaves the collection exactly as
// it was, cash position included, so the caller can correct and resubmit.
func (a *Accumulator) Accumulate(trn *Trn, positions *Positions) (*Position, error) {
	if err := trn.Validate(); err != nil {
		return nil, err
	}
	if err := checkPreconditions(trn); err != nil {
		return nil, err
	}

	pos := positions.Get(trn.Asset)
	if last := pos.DateValues.Last; !last.IsZero() && trn.TradeDate.Before(last) {
		return nil, errs.Businessf(
			"out-of-order transaction for %s: trade date %s is before already-processed %s",
			trn.Asset.Key(), trn.TradeDate, last)
	}
	if pos.DateValues.Opened.IsZero() {
		pos.DateValues.Opened = trn.TradeDate
	}

	// Cash settlement runs before the position strategy so the strategy
	// never has to reason about the paired cash account.
	a.applyCashImpact(trn, positions)

	rates := contextRates(trn, positions.Portfolio)

	var err error
	switch trn.Type {
	case Buy, Add:
		err = a.buy(trn, pos, rates)
	case Sell, Reduce:
		err = a.sell(trn, pos, rates)
	case Split:
		err = a.split(trn, pos)
	case Divi, Income:
		err = a.income(trn, pos, rates)
	case Expense:
		err = a.expense(trn, pos, rates)
	case CostAdjust:
		err = a.costAdjust(trn, pos, rates)
	case Deposit:
		err = a.deposit(trn, pos, rates)
	case Withdrawal:
		err = a.withdraw(trn, pos, rates)
	case FxBuy:
		err = a.fxBuy(trn, pos, positions, rates)
	case Balance:
		err = a.balance(trn, pos, rates)
	default:
		err = errs.Businessf("unhandled transaction type %q for %s", trn.Type, trn.Asset.Key())
	}
	if err != nil {
		return nil, err
	}

	pos.DateValues.Last = trn.TradeDate
	a.log.Debug().
		Str("type", string(trn.Type)).
		Str("asset", trn.Asset.Key()).
		Str("quantity", pos.Total().String()).
		Msg("accumulated")
	return pos, nil
}

// checkPreconditions rejects a transaction its behaviour could not apply. It
// runs before any state is touched: the companion cash impact and the
// lifecycle dates only ever run for a transaction that will be accepted.
func checkPreconditions(trn *Trn) error {
	switch trn.Type {
	case Buy, Sell, Add, Reduce:
		if trn.Quantity.IsZero() {
			return errs.Businessf("%s for %s has no quantity", trn.Type, trn.Asset.Key())
		}
	case Split:
		if !trn.Quantity.IsPositive() {
			return errs.Businessf("split factor for %s must be positive, got %s", trn.Asset.Key(), trn.Quantity)
		}
	case Deposit, Withdrawal:
		if cashQuantity(trn).IsZero() {
			return errs.Businessf("%s for %s has no amount", trn.Type, trn.Asset.Key())
		}
	case FxBuy:
		if trn.CashAsset == nil {
			return errs.Businessf("FX_BUY for %s has no paired cash asset", trn.Asset.Key())
		}
		if cashQuantity(trn).IsZero() {
			return errs.Businessf("FX_BUY for %s has no amount", trn.Asset.Key())
		}
	}
	return checkSettlementSign(trn)
}

// checkSettlementSign rejects an explicit cash amount whose sign contradicts
// the transaction type. Negative debits the cash account, so a buy or expense
// must not carry a positive amount and a sale or income must not carry a
// negative one; accepting either would silently move cash the wrong way.
func checkSettlementSign(trn *Trn) error {
	if trn.CashAmount.IsZero() || selfReferential(trn) {
		return nil
	}
	switch trn.Type {
	case Buy, Expense:
		if trn.CashAmount.IsPositive() {
			return errs.Businessf("%s for %s has positive cash amount %s; settlement must debit the cash account",
				trn.Type, trn.Asset.Key(), trn.CashAmount)
		}
	case Sell, Divi, Income:
		if trn.CashAmount.IsNegative() {
			return errs.Businessf("%s for %s has negative cash amount %s; settlement must credit the cash account",
				trn.Type, trn.Asset.Key(), trn.CashAmount)
		}
	}
	return nil
}
