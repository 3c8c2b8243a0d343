// Package holdings is a portfolio accounting engine. It ingests normalized
// financial transactions (buys, sells, splits, dividends, cash movements, FX
// conversions, cost adjustments) and derives, for every tracked asset, a
// current position expressed simultaneously in three currency contexts: the
// instrument's trade currency, the portfolio's base currency, and the
// portfolio's reporting currency.
//
// The Accumulator applies per-transaction-type state transitions to a
// Positions collection; the Valuer prices accumulated positions against
// market data and cross rates supplied by the caller. Both are pure
// computation: no I/O happens inside the core, and all market data and FX
// rates arrive as in-memory inputs.
//
// Transactions for a given (portfolio, asset) pair must be accumulated in
// non-decreasing trade-date order by a single goroutine; distinct pairs may
// be processed in parallel since every Position is exclusively owned by its
// Positions collection.
package holdings
