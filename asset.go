package holdings

import (
	"strings"

	"github.com/ledgerline/holdings/errs"
)

// CashMarket is the distinguished market code for cash balances. Cash
// positions never gain from price movement by definition, and the valuation
// engine treats them accordingly.
const CashMarket = "CASH"

// Asset identifies one tradeable instrument (or cash balance) on a market.
type Asset struct {
	Code     string `json:"code"`
	Market   string `json:"market"`
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency"` // trade currency of the instrument
}

// Key returns the canonical MARKET:CODE key for the asset.
func (a Asset) Key() string { return a.Market + ":" + a.Code }

// IsCash reports whether the asset is a cash balance.
func (a Asset) IsCash() bool { return a.Market == CashMarket }

// CashAsset returns the cash balance asset for a currency.
func CashAsset(currency string) Asset {
	return Asset{Code: currency, Market: CashMarket, Currency: currency}
}

// ParseKey splits a MARKET:CODE asset key into its parts.
func ParseKey(key string) (market, code string, err error) {
	market, code, ok := strings.Cut(key, ":")
	if !ok || market == "" || code == "" {
		return "", "", errs.Businessf("malformed asset key %q, want MARKET:CODE", key)
	}
	return market, code, nil
}

// Portfolio carries the currency configuration every position of a
// collection is accounted in.
type Portfolio struct {
	Code     string `json:"code"`
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency"` // reporting currency
	Base     string `json:"base"`     // base currency
}

// NewPortfolio creates a portfolio with validated currencies.
func NewPortfolio(code, currency, base string) (Portfolio, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Portfolio{}, err
	}
	if err := ValidateCurrency(base); err != nil {
		return Portfolio{}, err
	}
	return Portfolio{Code: code, Currency: currency, Base: base}, nil
}
