// Package filter implements the search, period and sort options of the
// invoice and expense listings. Everything here is a pure function over
// already-fetched records.
package filter

import (
	"fmt"
	"time"
)

// Period restricts a listing to records dated in a calendar window relative
// to "now".
type Period string

const (
	PeriodAll         Period = "all"
	PeriodThisMonth   Period = "this-month"
	PeriodLastMonth   Period = "last-month"
	PeriodThisQuarter Period = "this-quarter"
	PeriodThisYear    Period = "this-year"
)

// ParsePeriod validates a period name. The empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodThisMonth, PeriodLastMonth, PeriodThisQuarter, PeriodThisYear:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Contains reports whether the calendar date of d falls within the period as
// seen from now. Only the year and month of each value are compared, each in
// its own location.
func (p Period) Contains(d, now time.Time) bool {
	y, m, _ := d.Date()
	cy, cm, _ := now.Date()

	switch p {
	case PeriodThisMonth:
		return y == cy && m == cm
	case PeriodLastMonth:
		ly, lm := cy, cm-1
		if cm == time.January {
			ly, lm = cy-1, time.December
		}
		return y == ly && m == lm
	case PeriodThisQuarter:
		return y == cy && quarter(m) == quarter(cm)
	case PeriodThisYear:
		return y == cy
	default:
		return true
	}
}

func quarter(m time.Month) int {
	return (int(m) - 1) / 3
}
