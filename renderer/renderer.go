// Package renderer turns position snapshots into markdown reports.
package renderer

import (
	"fmt"
	"strings"

	"github.com/ledgerline/holdings"
)

// HoldingsMarkdown renders a valued Positions collection as a markdown
// report in the given currency context.
func HoldingsMarkdown(ps *holdings.Positions, ctx holdings.ValueContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Holdings: %s\n\n", ps.Portfolio.Code)
	if ps.AsAt != "" {
		fmt.Fprintf(&b, "As at %s, in %s context.\n\n", ps.AsAt, ctx)
	}

	b.WriteString("| Asset | Quantity | Market Value | Realised | Unrealised | Dividends | Total Gain |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")

	for _, key := range ps.Keys() {
		pos, _ := ps.Find(key)
		mv, ok := pos.Money(ctx)
		if !ok {
			continue
		}
		quantity := pos.Total().StringFixed(pos.QuantityValues.Precision())
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			key,
			quantity,
			holdings.FormatAmount(mv.Currency, mv.MarketValue),
			holdings.FormatAmount(mv.Currency, mv.RealisedGain),
			holdings.FormatAmount(mv.Currency, mv.UnrealisedGain),
			holdings.FormatAmount(mv.Currency, mv.Dividends),
			holdings.FormatAmount(mv.Currency, mv.TotalGain),
		)
	}

	totals := ps.Totals(ctx)
	b.WriteString("\n## Totals\n\n")
	fmt.Fprintf(&b, "| Market Value | Purchases | Sales | Income | Gain |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
		holdings.FormatAmount(totals.Currency, totals.MarketValue),
		holdings.FormatAmount(totals.Currency, totals.Purchases),
		holdings.FormatAmount(totals.Currency, totals.Sales),
		holdings.FormatAmount(totals.Currency, totals.Income),
		holdings.FormatAmount(totals.Currency, totals.Gain),
	)

	if ps.IsMixedCurrencies() && ctx == holdings.InTrade {
		b.WriteString("\nTrade currencies are mixed; trade-context totals are indicative only.\n")
	}
	return b.String()
}
