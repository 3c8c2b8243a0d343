// Package calendar decides which trading day's closing price is usable as of
// a given instant. It combines weekend arithmetic, a configured market
// holiday set, and the market's daily close cutoff.
//
// Everything here is a pure function of its inputs; there is no hidden
// process-wide clock, which keeps the resolution deterministic and testable.
package calendar

import (
	"time"

	"github.com/ledgerline/holdings/date"
	"github.com/ledgerline/holdings/errs"
)

// Market describes the calendar-relevant configuration of one exchange.
type Market struct {
	Code        string `json:"code"`
	Timezone    string `json:"timezone"`  // IANA zone the close cutoff is expressed in.
	CloseHour   int    `json:"closeHour"` // Hour of day, in Timezone, when the close price is published.
	CloseMinute int    `json:"closeMinute"`
}

// Location resolves the market's IANA timezone.
func (m Market) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return nil, errs.Systemf("unknown timezone %q for market %s: %w", m.Timezone, m.Code, err)
	}
	return loc, nil
}

// holiday is a fixed month/day market closure.
type holiday struct {
	month time.Month
	day   int
}

// Calendar is a trading-day resolver for markets sharing one holiday set.
type Calendar struct {
	holidays map[holiday]bool
}

// New returns a calendar with the default US-style holiday set:
// New Year's Day, Independence Day and Christmas Day.
func New() *Calendar {
	return &Calendar{holidays: map[holiday]bool{
		{time.January, 1}:   true,
		{time.July, 4}:      true,
		{time.December, 25}: true,
	}}
}

// WithHoliday returns the calendar with an extra fixed-date closure added.
func (c *Calendar) WithHoliday(month time.Month, day int) *Calendar {
	c.holidays[holiday{month, day}] = true
	return c
}

// IsTradingDay reports whether the market is open on the given day.
// It is a pure predicate, safe to call standalone.
func (c *Calendar) IsTradingDay(d date.Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays[holiday{d.Month(), d.Day()}]
}

// PreviousTradingDay returns the nearest trading day on or before d.
func (c *Calendar) PreviousTradingDay(d date.Date) date.Date {
	for !c.IsTradingDay(d) {
		d = d.Add(-1)
	}
	return d
}

// PriceDate resolves the trading day whose close price is usable at the
// given instant.
//
// When current is true the caller wants "now": if the instant, expressed in
// the market's timezone, is before the daily close cutoff, today's close does
// not exist yet and the previous trading day is used. When current is false
// the instant's literal date is used, stepped back to the nearest trading day
// if it falls on a weekend or holiday.
func (c *Calendar) PriceDate(instant time.Time, market Market, current bool) (date.Date, error) {
	loc, err := market.Location()
	if err != nil {
		return date.Date{}, err
	}
	local := instant.In(loc)
	d := date.FromTime(local)

	if current {
		cutoff := time.Date(local.Year(), local.Month(), local.Day(),
			market.CloseHour, market.CloseMinute, 0, 0, loc)
		if local.Before(cutoff) {
			// Today's close is not published yet.
			d = d.Add(-1)
		}
	}
	return c.PreviousTradingDay(d), nil
}
