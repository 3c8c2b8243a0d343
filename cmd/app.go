// Package cmd implements the CLI application to replay transaction journals
// and value the resulting positions.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ledgerline/holdings"
)

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accumulateCmd{}, "positions")
	c.Register(&valueCmd{}, "positions")
	c.Register(&priceDateCmd{}, "calendar")
}

// as a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables.

var journalFile = flag.String("journal", "journal.jsonl", "Path to the transaction journal (JSONL format)")
var verbose = flag.Bool("v", false, "enable debug logging")

func init() {
	// .env is optional; the process environment always wins.
	_ = godotenv.Load()
}

// newLogger builds the console logger shared by all subcommands.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// envOr reads an environment variable with a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadPortfolio builds the portfolio configuration from the environment.
func loadPortfolio() (holdings.Portfolio, error) {
	return holdings.NewPortfolio(
		envOr("HOLDINGS_PORTFOLIO", "DEFAULT"),
		envOr("HOLDINGS_CURRENCY", "USD"),
		envOr("HOLDINGS_BASE", "USD"),
	)
}

// loadJournal reads and validates the transaction journal.
func loadJournal() ([]*holdings.Trn, error) {
	f, err := os.Open(*journalFile)
	if err != nil {
		return nil, fmt.Errorf("opening journal %q: %w", *journalFile, err)
	}
	defer f.Close()
	return holdings.DecodeTrns(f)
}

// accumulate replays the journal into a fresh positions collection.
func accumulate(log zerolog.Logger) (*holdings.Positions, error) {
	portfolio, err := loadPortfolio()
	if err != nil {
		return nil, err
	}
	trns, err := loadJournal()
	if err != nil {
		return nil, err
	}

	positions := holdings.NewPositions(portfolio)
	accumulator := holdings.NewAccumulator(log)
	for _, trn := range trns {
		if _, err := accumulator.Accumulate(trn, positions); err != nil {
			return nil, err
		}
	}
	return positions, nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the terminal renderer is unavailable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
