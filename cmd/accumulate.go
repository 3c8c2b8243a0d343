package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ledgerline/holdings"
	"github.com/ledgerline/holdings/renderer"
)

// accumulateCmd holds the flags for the 'accumulate' subcommand.
type accumulateCmd struct {
	markdown bool
	ctx      string
}

func (*accumulateCmd) Name() string     { return "accumulate" }
func (*accumulateCmd) Synopsis() string { return "replay the journal into a positions snapshot" }
func (*accumulateCmd) Usage() string {
	return `holdwell accumulate [-md] [-ctx <context>]

  Replays the transaction journal in order and prints the resulting
  positions snapshot as JSON, or as a markdown report with -md.
`
}

func (c *accumulateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.markdown, "md", false, "render a markdown report instead of JSON")
	f.StringVar(&c.ctx, "ctx", string(holdings.InPortfolio), "currency context for the markdown report (TRADE, BASE, PORTFOLIO)")
}

func (c *accumulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := accumulate(newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error accumulating journal: %v\n", err)
		return subcommands.ExitFailure
	}

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
