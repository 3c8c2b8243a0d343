package holdings

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/holdings/date"
	"github.com/ledgerline/holdings/errs"
	"github.com/ledgerline/holdings/fx"
)

func aaplQuote(close, previousClose string) MarketData {
	closeD, prevD := d(close), d(previousClose)
	return MarketData{
		Asset:         aapl(),
		PriceDate:     date.New(2024, time.July, 17),
		Open:          prevD,
		Close:         closeD,
		PreviousClose: prevD,
		Change:        closeD.Sub(prevD),
	}
}

func TestValueOpenPosition(t *testing.T) {
	ps := NewPositions(usPortfolio(t))
	acc := NewAccumulator(zerolog.Nop())
	_, err := acc.Accumulate(trnOn(Buy, aapl(), 1, "10", "2100.23"), ps)
	require.NoError(t, err)

	valuer := NewValuer(zerolog.Nop())
	pos, err := valuer.Value(ps, aaplQuote("250", "240"), nil)
	require.NoError(t, err)

	mv, _ := pos.Money(InTrade)
	assert.Equal(t, "2500", mv.MarketValue.String())
	assert.Equal(t, "100", mv.GainOnDay.String())
	assert.Equal(t, "399.77", mv.UnrealisedGain.String())
	assert.Equal(t, "399.77", mv.TotalGain.String())
	assert.True(t, mv.ROI.Equal(d("399.77").DivRound(d("2100.23"), 6)))
	assert.Equal(t, "2024-07-17", ps.AsAt)
}

func TestValueIsIdempotent(t *testing.T) {
	ps := NewPositions(usPortfolio(t))
	acc := NewAccumulator(zerolog.Nop())
	_, err := acc.Accumulate(trnOn(Buy, aapl(), 1, "10", "2100.23"), ps)
	require.NoError(t, err)

	valuer := NewValuer(zerolog.Nop())
	md := aaplQuote("250", "240")

	_, err = valuer.Value(ps, md, nil)
	require.NoError(t, err)
	var first bytes.Buffer
	require.NoError(t, EncodePositions(&first, ps))

	_, err = valuer.Value(ps, md, nil)
	require.NoError(t, err)
	var second bytes.Buffer
	require.NoError(t, EncodePositions(&second, ps))

	assert.Equal(t, first.String(), second.String())
}

func TestValueClosedPositionHasNoMarketValue(t *testing.T) {
	ps := NewPositions(usPortfolio(t))
	acc := NewAccumulator(zerolog.Nop())
	_, err := acc.Accumulate(trnOn(Buy, aapl(), 1, "10", "1000"), ps)
	require.NoError(t, err)
	_, err = acc.Accumulate(trnOn(Sell, aapl(), 2, "10", "1200"), ps)
	require.NoError(t, err)

	valuer := NewValuer(zerolog.Nop())
	pos, err := valuer.Value(ps, aaplQuote("250", "240"), nil)
	require.NoError(t, err)

	mv, _ := pos.Money(InTrade)
	assert.True(t, mv.MarketValue.IsZero())
	assert.True(t, mv.GainOnDay.IsZero())
	assert.True(t, mv.UnrealisedGain.IsZero())
	// Realised gain survives the close and still drives the total.
	assert.Equal(t, "200", mv.RealisedGain.String())
	assert.Equal(t, "200", mv.TotalGain.String())
	// ROI falls back to lifetime purchases once costs are reset.
	assert.True(t, mv.ROI.Equal(d("200").DivRound(d("1000"), 6)))
	// The latest price stays visible even with nothing held.
	assert.Equal(t, "250", mv.PriceData.Close.String())
}

func TestValueCashPositionNeverGains(t *testing.T) {
	ps := NewPositions(usPortfolio(t))
	acc := NewAccumulator(zerolog.Nop())
	_, err := acc.Accumulate(trnOn(Deposit, CashAsset("USD"), 1, "0", "1000"), ps)
	require.NoError(t, err)

	md := MarketData{
		Asset:         CashAsset("USD"),
		PriceDate:     date.New(2024, time.July, 17),
		Open:          d("1"),
		Close:         d("1"),
		PreviousClose: d("1"),
	}
	valuer := NewValuer(zerolog.Nop())
	pos, err := valuer.Value(ps, md, nil)
	require.NoError(t, err)

	mv, _ := pos.Money(InTrade)
	assert.Equal(t, "1000", mv.MarketValue.String())
	assert.True(t, mv.GainOnDay.IsZero())
	assert.True(t, mv.UnrealisedGain.IsZero())
	assert.True(t, mv.RealisedGain.IsZero())
	assert.True(t, mv.TotalGain.IsZero())
}

func TestValueMissingRateFailsLoud(t *testing.T) {
	pf, err := NewPortfolio("KIWI", "NZD", "USD")
	require.NoError(t, err)
	ps := NewPositions(pf)
	acc := NewAccumulator(zerolog.Nop())
	_, err = acc.Accumulate(trnOn(Buy, aapl(), 1, "10", "2100.23"), ps)
	require.NoError(t, err)

	valuer := NewValuer(zerolog.Nop())
	_, err = valuer.Value(ps, aaplQuote("250", "240"), nil)
	require.Error(t, err)
	assert.True(t, errs.IsBusiness(err))
	assert.Contains(t, err.Error(), "missing FX rate USD:NZD")
}

func TestValueConvertsPerContext(t *testing.T) {
	pf, err := NewPortfolio("KIWI", "NZD", "USD")
	require.NoError(t, err)
	ps := NewPositions(pf)
	acc := NewAccumulator(zerolog.Nop())
	trn := trnOn(Buy, aapl(), 1, "10", "2100.23")
	trn.TradePortfolioRate = d("1.40")
	_, err = acc.Accumulate(trn, ps)
	require.NoError(t, err)

	asOf := date.New(2024, time.July, 17)
	rates := map[fx.Pair]fx.Rate{
		fx.NewPair("USD", "NZD"): fx.NewRate("USD", "NZD", d("1.4103"), asOf),
	}
	valuer := NewValuer(zerolog.Nop())
	pos, err := valuer.Value(ps, aaplQuote("250", "240"), rates)
	require.NoError(t, err)

	trade, _ := pos.Money(InTrade)
	assert.Equal(t, "2500", trade.MarketValue.String())

	report, _ := pos.Money(InPortfolio)
	assert.Equal(t, "NZD", report.Currency)
	assert.True(t, report.MarketValue.Equal(d("2500").Mul(d("1.4103"))))
	assert.True(t, report.PriceData.Close.Equal(d("250").Mul(d("1.4103"))))
	// Change scales by the same rate as the closes, so the identity
	// change == close - previousClose survives conversion.
	assert.True(t, report.PriceData.Change.Equal(
		report.PriceData.Close.Sub(report.PriceData.PreviousClose)))
}

func TestValueUnknownPositionRejected(t *testing.T) {
	ps := NewPositions(usPortfolio(t))
	valuer := NewValuer(zerolog.Nop())
	_, err := valuer.Value(ps, aaplQuote("250", "240"), nil)
	require.Error(t, err)
	assert.True(t, errs.IsBusiness(err))
}

func TestTotalsAndWeights(t *testing.T) {
	ps := NewPositions(usPortfolio(t))
	acc := NewAccumulator(zerolog.Nop())

	msft := Asset{Code: "MSFT", Market: "NASDAQ", Currency: "USD"}
	_, err := acc.Accumulate(trnOn(Buy, aapl(), 1, "10", "2000"), ps)
	require.NoError(t, err)
	_, err = acc.Accumulate(trnOn(Buy, msft, 1, "5", "2000"), ps)
	require.NoError(t, err)

	valuer := NewValuer(zerolog.Nop())
	_, err = valuer.Value(ps, aaplQuote("300", "300"), nil)
	require.NoError(t, err)
	msftQuote := aaplQuote("200", "200")
	msftQuote.Asset = msft
	_, err = valuer.Value(ps, msftQuote, nil)
	require.NoError(t, err)

	totals := ps.Totals(InTrade)
	assert.Equal(t, "USD", totals.Currency)
	assert.Equal(t, "4000", totals.MarketValue.String())
	assert.Equal(t, "4000", totals.Purchases.String())

	ps.ApplyWeights(InTrade)
	aaplPos, _ := ps.Find("NASDAQ:AAPL")
	msftPos, _ := ps.Find("NASDAQ:MSFT")
	aaplMv, _ := aaplPos.Money(InTrade)
	msftMv, _ := msftPos.Money(InTrade)
	assert.Equal(t, "0.75", aaplMv.Weight.String())
	assert.Equal(t, "0.25", msftMv.Weight.String())
	assert.True(t, aaplMv.Weight.Add(msftMv.Weight).Equal(d("1")))
}

func TestIsMixedCurrencies(t *testing.T) {
	ps := NewPositions(usPortfolio(t))
	acc := NewAccumulator(zerolog.Nop())

	_, err := acc.Accumulate(trnOn(Buy, aapl(), 1, "10", "2000"), ps)
	require.NoError(t, err)
	assert.False(t, ps.IsMixedCurrencies())

	xero := Asset{Code: "XRO", Market: "ASX", Currency: "AUD"}
	_, err = acc.Accumulate(trnOn(Buy, xero, 1, "10", "1300"), ps)
	require.NoError(t, err)
	assert.True(t, ps.IsMixedCurrencies())

	// A fully sold position no longer counts towards the mix.
	_, err = acc.Accumulate(trnOn(Sell, xero, 2, "10", "1400"), ps)
	require.NoError(t, err)
	assert.False(t, ps.IsMixedCurrencies())
}
