package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/holdings"
	"github.com/ledgerline/holdings/date"
	"github.com/ledgerline/holdings/fx"
	"github.com/ledgerline/holdings/renderer"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	pricesFile string
	quotesFile string
	markdown   bool
	ctx        string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "price accumulated positions against market data" }
func (*valueCmd) Usage() string {
	return `holdwell value -prices <file> [-quotes <file>] [-md] [-ctx <context>]

  Replays the journal, then values every position that has a quote in the
  prices file. The quotes file carries USD-relative FX rates, one per
  currency, used to derive any cross rate the valuation needs.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pricesFile, "prices", "prices.json", "JSON file with an array of market data quotes")
	f.StringVar(&c.quotesFile, "quotes", "", "JSON file mapping currency code to its USD rate")
	f.BoolVar(&c.markdown, "md", false, "render a markdown report instead of JSON")
	f.StringVar(&c.ctx, "ctx", string(holdings.InPortfolio), "currency context for the markdown report")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger()

	positions, err := accumulate(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error accumulating journal: %v\n", err)
		return subcommands.ExitFailure
	}

	prices, err := c.loadPrices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	rates, err := c.resolveRates(positions, prices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving FX rates: %v\n", err)
		return subcommands.ExitFailure
	}

	valuer := holdings.NewValuer(log)
	for _, md := range prices {
		if _, ok := positions.Find(md.Asset.Key()); !ok {
			log.Warn().Str("asset", md.Asset.Key()).Msg("quote without position, skipped")
			continue
		}
		if _, err := valuer.Value(positions, md, rates); err != nil {
			fmt.Fprintf(os.Stderr, "Error valuing %s: %v\n", md.Asset.Key(), err)
			return subcommands.ExitFailure
		}
	}
	positions.ApplyWeights(holdings.ValueContext(c.ctx))

	if c.markdown {
		printMarkdown(renderer.HoldingsMarkdown(positions, holdings.ValueContext(c.ctx)))
		return subcommands.ExitSuccess
	}
	if err := holdings.EncodePositions(os.Stdout, positions); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding positions: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *valueCmd) loadPrices() ([]holdings.MarketData, error) {
	raw, err := os.ReadFile(c.pricesFile)
	if err != nil {
		return nil, err
	}
	var prices []holdings.MarketData
	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, fmt.Errorf("invalid prices file %q: %w", c.pricesFile, err)
	}
	return prices, nil
}

// resolveRates derives every cross rate the valuation will need from the
// USD-relative quote table.
func (c *valueCmd) resolveRates(positions *holdings.Positions, prices []holdings.MarketData) (map[fx.Pair]fx.Rate, error) {
	asOf := date.Today()
	if len(prices) > 0 {
		asOf = prices[0].PriceDate
	}

	quotes := make(map[string]fx.Rate)
	if c.quotesFile != "" {
		raw, err := os.ReadFile(c.quotesFile)
		if err != nil {
			return nil, err
		}
		var table map[string]decimal.Decimal
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("invalid quotes file %q: %w", c.quotesFile, err)
		}
		for code, rate := range table {
			quotes[code] = fx.NewRate(fx.Pivot, code, rate, asOf)
		}
	}

	var pairs []fx.Pair
	for _, md := range prices {
		pos, ok := positions.Find(md.Asset.Key())
		if !ok {
			continue
		}
		trade := pos.Asset.Currency
		pairs = append(pairs,
			fx.NewPair(trade, positions.Portfolio.Base),
			fx.NewPair(trade, positions.Portfolio.Currency),
		)
	}

	var calc fx.RateCalculator
	return calc.Compute(asOf, pairs, quotes)
}
