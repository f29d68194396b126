package utils

import (
	"fmt"
	"strings"
	"time"
)

// ET is the US Eastern time zone finviz timestamps are published in.
var ET *time.Location

func init() {
	var err error
	ET, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: fixed EST offset if tz database is not available
		ET = time.FixedZone("EST", -5*60*60)
	}
}

// Finviz date layouts.
const (
	// FinvizDateLayout is the date format of rating and news cells, e.g. "Jan-02-24".
	FinvizDateLayout = "Jan-02-06"
	// FinvizTimeLayout is the clock format of news cells, e.g. "09:30AM".
	// The hour may or may not be zero padded.
	FinvizTimeLayout = "3:04PM"
)

// NowET returns the current time in US Eastern time.
func NowET() time.Time {
	return time.Now().In(ET)
}

// ToET converts a time.Time to US Eastern time.
func ToET(t time.Time) time.Time {
	return t.In(ET)
}

// StartOfDay returns midnight ET of the calendar day containing t.
func StartOfDay(t time.Time) time.Time {
	d := t.In(ET)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ET)
}

// ParseFinvizDate parses a "Jan-02-06" date in ET.
func ParseFinvizDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(FinvizDateLayout, strings.TrimSpace(s), ET)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseFinvizDateTime combines a "Jan-02-06" date and a "09:30AM" clock into
// a single ET timestamp.
func ParseFinvizDateTime(date, clock string) (time.Time, error) {
	s := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	t, err := time.ParseInLocation(FinvizDateLayout+" "+FinvizTimeLayout, s, ET)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatFinvizDate formats t as a finviz "Jan-02-06" date in ET.
func FormatFinvizDate(t time.Time) string {
	return t.In(ET).Format(FinvizDateLayout)
}

// FormatDateTimeET formats a time.Time to "2006-01-02 15:04 ET".
func FormatDateTimeET(t time.Time) string {
	return t.In(ET).Format("2006-01-02 15:04") + " ET"
}

// IsMarketOpenAt checks if US equity markets would be open at the given time.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(ET)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	if IsTradingHoliday(t) {
		return false
	}
	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 30, 0, 0, ET)
	closing := time.Date(t.Year(), t.Month(), t.Day(), 16, 0, 0, 0, ET)
	return !t.Before(open) && t.Before(closing)
}

// IsTradingHoliday checks if the given date is an NYSE holiday.
// This list should be updated annually.
func IsTradingHoliday(t time.Time) bool {
	_, ok := nyseHolidays2026[t.In(ET).Format("2006-01-02")]
	return ok
}

// NYSE holidays for 2026 (update annually).
var nyseHolidays2026 = map[string]string{
	"2026-01-01": "New Year's Day",
	"2026-01-19": "Martin Luther King Jr. Day",
	"2026-02-16": "Washington's Birthday",
	"2026-04-03": "Good Friday",
	"2026-05-25": "Memorial Day",
	"2026-06-19": "Juneteenth",
	"2026-07-03": "Independence Day (observed)",
	"2026-09-07": "Labor Day",
	"2026-11-26": "Thanksgiving Day",
	"2026-12-25": "Christmas Day",
}

// MarketStatusAt returns a short market status label for the given time.
func MarketStatusAt(t time.Time) string {
	t = t.In(ET)
	switch {
	case t.Weekday() == time.Saturday || t.Weekday() == time.Sunday:
		return "CLOSED (Weekend)"
	case IsTradingHoliday(t):
		return "CLOSED (" + nyseHolidays2026[t.Format("2006-01-02")] + ")"
	case IsMarketOpenAt(t):
		return "OPEN"
	case t.Hour() < 9 || (t.Hour() == 9 && t.Minute() < 30):
		return "PRE-MARKET"
	default:
		return "CLOSED"
	}
}

// MarketStatus returns the current market status string.
func MarketStatus() string {
	return MarketStatusAt(NowET())
}
