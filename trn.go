package holdings

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings/date"
	"github.com/ledgerline/holdings/errs"
)

// TrnType is a typed string identifying a transaction's accounting
// semantics. The set is closed: the accumulator matches exhaustively and an
// unknown type is an error, never a silent no-op.
type TrnType string

const (
	Buy        TrnType = "BUY"
	Sell       TrnType = "SELL"
	Add        TrnType = "ADD"    // cost-basis entry for non-tradeable assets
	Reduce     TrnType = "REDUCE" // disposal without a cash account
	Split      TrnType = "SPLIT"
	Divi       TrnType = "DIVI"
	Income     TrnType = "INCOME"
	Expense    TrnType = "EXPENSE"
	CostAdjust TrnType = "COST_ADJUST"
	Deposit    TrnType = "DEPOSIT"
	Withdrawal TrnType = "WITHDRAWAL"
	FxBuy      TrnType = "FX_BUY"
	Balance    TrnType = "BALANCE"
)

// trnTypes is the closed set of known transaction types.
var trnTypes = map[TrnType]bool{
	Buy: true, Sell: true, Add: true, Reduce: true, Split: true,
	Divi: true, Income: true, Expense: true, CostAdjust: true,
	Deposit: true, Withdrawal: true, FxBuy: true, Balance: true,
}

// ParseTrnType validates a transaction type string.
func ParseTrnType(s string) (TrnType, error) {
	t := TrnType(s)
	if !trnTypes[t] {
		return "", errs.Businessf("unknown transaction type %q", s)
	}
	return t, nil
}

// Trn is one normalized transaction as delivered by the ingestion layer.
// Quantities and amounts are magnitudes; the transaction type carries the
// sign semantics.
type Trn struct {
	ID    string  `json:"id,omitempty"`
	Type  TrnType `json:"type"`
	Asset Asset   `json:"asset"`

	// CashAsset is the cash account settling the transaction, when one is
	// resolved. Nil for types with no cash impact (ADD, REDUCE, SPLIT,
	// COST_ADJUST) or when the ingestion layer could not resolve one.
	CashAsset *Asset `json:"cashAsset,omitempty"`

	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price,omitempty"`
	TradeAmount decimal.Decimal `json:"tradeAmount"`
	CashAmount  decimal.Decimal `json:"cashAmount,omitempty"` // signed: negative debits the cash account
	// Fees and Tax are netted into the settlement amount derived for the
	// cash leg; an explicit CashAmount is taken as already net of both.
	Fees decimal.Decimal `json:"fees,omitempty"`
	Tax  decimal.Decimal `json:"tax,omitempty"`

	TradeCurrency string `json:"tradeCurrency"`
	CashCurrency  string `json:"cashCurrency,omitempty"`

	// Rates captured at trade time; a zero value means 1.
	TradeBaseRate      decimal.Decimal `json:"tradeBaseRate,omitempty"`
	TradePortfolioRate decimal.Decimal `json:"tradePortfolioRate,omitempty"`
	TradeCashRate      decimal.Decimal `json:"tradeCashRate,omitempty"`

	TradeDate  date.Date `json:"tradeDate"`
	SettleDate date.Date `json:"settleDate,omitzero"`

	Broker   string `json:"broker,omitempty"`
	Comments string `json:"comments,omitempty"`
}

// NewTrn creates a transaction of the given type with a fresh identifier.
func NewTrn(t TrnType, asset Asset, tradeDate date.Date) *Trn {
	return &Trn{
		ID:            uuid.NewString(),
		Type:          t,
		Asset:         asset,
		TradeCurrency: asset.Currency,
		TradeDate:     tradeDate,
	}
}

// Validate checks the structural fields every behaviour relies on.
func (t *Trn) Validate() error {
	if _, err := ParseTrnType(string(t.Type)); err != nil {
		return err
	}
	if t.Asset.Code == "" || t.Asset.Market == "" {
		return errs.Businessf("%s transaction has no asset identity", t.Type)
	}
	if t.TradeDate.IsZero() {
		return errs.Businessf("%s transaction on %s has no trade date", t.Type, t.Asset.Key())
	}
	if t.TradeCurrency != "" {
		if err := ValidateCurrency(t.TradeCurrency); err != nil {
			return err
		}
	}
	return nil
}

// BaseRate returns the trade-to-base rate, defaulting to 1.
func (t *Trn) BaseRate() decimal.Decimal { return rateOrOne(t.TradeBaseRate) }

// PortfolioRate returns the trade-to-portfolio rate, defaulting to 1.
func (t *Trn) PortfolioRate() decimal.Decimal { return rateOrOne(t.TradePortfolioRate) }

// CashRate returns the trade-to-cash rate, defaulting to 1.
func (t *Trn) CashRate() decimal.Decimal { return rateOrOne(t.TradeCashRate) }

func rateOrOne(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return rate
}
