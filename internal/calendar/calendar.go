// Package calendar holds the day-granularity date arithmetic the timeline is
// built on. Every function works on the location carried by its argument and
// ignores the time of day.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const isoLayout = "2006-01-02"

// ErrInvalidDate is returned when a string is not a valid YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthNamesShort = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// DateOf returns d at midnight in d's location.
// A zero time is a programmer error and panics.
func DateOf(d time.Time) time.Time {
	if d.IsZero() {
		panic("calendar: zero date cannot be normalized")
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

func StartOfMonth(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, d.Location())
}

func EndOfMonth(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, d.Location())
}

func StartOfYear(d time.Time) time.Time {
	return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
}

func EndOfYear(d time.Time) time.Time {
	return time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, d.Location())
}

// AddMonths shifts d by n months. Day overflow rolls into the following month
// (Jan 31 + 1 month is Mar 2 or 3).
func AddMonths(d time.Time, n int) time.Time {
	return d.AddDate(0, n, 0)
}

// AddDays shifts d by n calendar days, keeping the wall clock.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysInMonth returns the number of days in d's month.
func DaysInMonth(d time.Time) int {
	return EndOfMonth(d).Day()
}

// DaysBetween counts whole days from a to b on date-only copies.
// The result is negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	a, b = DateOf(a), DateOf(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsToday reports whether d falls on the same calendar day as now.
func IsToday(d, now time.Time) bool {
	return IsSameDay(d, now.In(d.Location()))
}

// MonthName returns the English month name, or its three-letter form.
func MonthName(d time.Time, short bool) string {
	if short {
		return monthNamesShort[d.Month()-1]
	}
	return monthNames[d.Month()-1]
}

// FormatShort renders d as DD-Mon-YY, e.g. 05-Feb-24.
func FormatShort(d time.Time) string {
	return fmt.Sprintf("%02d-%s-%02d", d.Day(), MonthName(d, true), d.Year()%100)
}

// FormatISO renders d as YYYY-MM-DD in d's own location.
func FormatISO(d time.Time) string {
	return d.Format(isoLayout)
}

// ParseISO parses a YYYY-MM-DD string into local midnight.
func ParseISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation(isoLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// MustParseISO is ParseISO for values known to be valid.
func MustParseISO(s string) time.Time {
	t, err := ParseISO(s)
	if err != nil {
		panic(err)
	}
	return t
}
