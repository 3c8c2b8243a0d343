package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ledgerline/holdings/calendar"
)

// priceDateCmd holds the flags for the 'price-date' subcommand.
type priceDateCmd struct {
	market  string
	tz      string
	close   int
	instant string
	current bool
}

func (*priceDateCmd) Name() string { return "price-date" }
func (*priceDateCmd) Synopsis() string {
	return "resolve which trading day's close price is usable at an instant"
}
func (*priceDateCmd) Usage() string {
	return `holdwell price-date [-market <code>] [-tz <zone>] [-close <hour>] [-instant <rfc3339>] [-current]

  Resolves the trading day whose close price the external price fetcher
  should request, accounting for weekends, market holidays, and the
  market's daily close cutoff.
`
}

func (c *priceDateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "market", "NASDAQ", "market code")
	f.StringVar(&c.tz, "tz", "America/New_York", "IANA timezone of the market")
	f.IntVar(&c.close, "close", 16, "hour of day, in the market timezone, when the close is published")
	f.StringVar(&c.instant, "instant", "", "instant to resolve for (RFC3339, defaults to now)")
	f.BoolVar(&c.current, "current", false, "request 'as of now' semantics")
}

func (c *priceDateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	instant := time.Now()
	if c.instant != "" {
		parsed, err := time.Parse(time.RFC3339, c.instant)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing instant: %v\n", err)
			return subcommands.ExitUsageError
		}
		instant = parsed
	}

	market := calendar.Market{Code: c.market, Timezone: c.tz, CloseHour: c.close}
	resolved, err := calendar.New().PriceDate(instant, market, c.current)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving price date: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(resolved)
	return subcommands.ExitSuccess
}
