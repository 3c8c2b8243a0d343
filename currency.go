package holdings

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings/errs"
)

// ValueContext selects which of the three currency views of a position a
// money value belongs to.
type ValueContext string

const (
	// InTrade is the instrument's own trade currency.
	InTrade ValueContext = "TRADE"
	// InBase is the portfolio's base currency.
	InBase ValueContext = "BASE"
	// InPortfolio is the portfolio's reporting currency.
	InPortfolio ValueContext = "PORTFOLIO"
)

// valueContexts is the fixed processing order for multi-currency updates.
// Every mutating transaction applies its context update exactly once per
// entry, in this order.
var valueContexts = [3]ValueContext{InTrade, InBase, InPortfolio}

// ValidateCurrency reports whether the code is a known ISO-4217 currency.
func ValidateCurrency(code string) error {
	if code == "" {
		return errs.Businessf("currency code is empty")
	}
	if money.GetCurrency(code) == nil {
		return errs.Businessf("unknown currency code %q", code)
	}
	return nil
}

// contextCurrency resolves the currency that keys money values for a context.
// The trade context always uses the transaction's own currency, never the
// portfolio's; base and portfolio always use the portfolio's configuration
// regardless of the transaction.
func contextCurrency(ctx ValueContext, tradeCurrency string, portfolio Portfolio) string {
	switch ctx {
	case InBase:
		return portfolio.Base
	case InPortfolio:
		return portfolio.Currency
	default:
		return tradeCurrency
	}
}

// FormatAmount renders a decimal amount in the display convention of its
// currency (symbol, thousands separator, minor-unit rounding). Used for
// reports only; bookkeeping never rounds through this path.
func FormatAmount(code string, amount decimal.Decimal) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.String() + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}
