// Package timeline maps calendar dates onto the horizontal pixel axis of the
// chart. A Config describes the visible window for one view mode; TaskPosition
// places a task inside it.
package timeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nissyi-gh/gantt/internal/calendar"
)

// ViewMode selects the granularity of the window.
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewYear  ViewMode = "year"
)

const (
	// PixelsPerDayMonth is wide enough to label every day of a single month.
	PixelsPerDayMonth = 40
	// PixelsPerDayYear is shared by all twelve month columns, so their widths
	// follow their day counts.
	PixelsPerDayYear = 3
)

// ErrUnknownViewMode is returned by ParseViewMode.
var ErrUnknownViewMode = errors.New("unknown view mode")

// ParseViewMode accepts "month" or "year".
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewMonth:
		return ViewMonth, nil
	case ViewYear:
		return ViewYear, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
}

// Column is one header cell: a day in month view, a month in year view.
type Column struct {
	Date  time.Time
	Label string
	Days  int
	Left  int
	Width int
}

// Config is the visible window. It is recomputed whenever the reference date
// or the view mode changes.
type Config struct {
	Mode         ViewMode
	StartDate    time.Time
	EndDate      time.Time
	Columns      []Column
	PixelsPerDay int
	TotalWidth   int
}

// Build returns the window containing ref for the given mode. Columns are
// contiguous and their widths sum to TotalWidth.
func Build(ref time.Time, mode ViewMode) Config {
	if mode == ViewMonth {
		return buildMonth(ref)
	}
	return buildYear(ref)
}

func buildMonth(ref time.Time) Config {
	start := calendar.StartOfMonth(ref)
	days := calendar.DaysInMonth(ref)

	cols := make([]Column, days)
	for i := range cols {
		cols[i] = Column{
			Date:  calendar.AddDays(start, i),
			Label: strconv.Itoa(i + 1),
			Days:  1,
			Left:  i * PixelsPerDayMonth,
			Width: PixelsPerDayMonth,
		}
	}

	return Config{
		Mode:         ViewMonth,
		StartDate:    start,
		EndDate:      calendar.EndOfMonth(ref),
		Columns:      cols,
		PixelsPerDay: PixelsPerDayMonth,
		TotalWidth:   days * PixelsPerDayMonth,
	}
}

func buildYear(ref time.Time) Config {
	start := calendar.StartOfYear(ref)
	end := calendar.EndOfYear(ref)

	cols := make([]Column, 12)
	left := 0
	for i := range cols {
		first := calendar.AddMonths(start, i)
		days := calendar.DaysInMonth(first)
		cols[i] = Column{
			Date:  first,
			Label: calendar.MonthName(first, true),
			Days:  days,
			Left:  left,
			Width: days * PixelsPerDayYear,
		}
		left += cols[i].Width
	}

	return Config{
		Mode:         ViewYear,
		StartDate:    start,
		EndDate:      end,
		Columns:      cols,
		PixelsPerDay: PixelsPerDayYear,
		TotalWidth:   (calendar.DaysBetween(start, end) + 1) * PixelsPerDayYear,
	}
}

// Days returns the number of days in the window.
func (c Config) Days() int {
	return calendar.DaysBetween(c.StartDate, c.EndDate) + 1
}

// ColumnAt returns the column under pixel x.
func (c Config) ColumnAt(x int) (Column, bool) {
	for _, col := range c.Columns {
		if x >= col.Left && x < col.Left+col.Width {
			return col, true
		}
	}
	return Column{}, false
}

// DateAt returns the day under pixel x. x may lie outside the window.
func (c Config) DateAt(x int) time.Time {
	d := x / c.PixelsPerDay
	if x < 0 && x%c.PixelsPerDay != 0 {
		d--
	}
	return calendar.AddDays(c.StartDate, d)
}

// OffsetOf returns the left pixel of day d.
func (c Config) OffsetOf(d time.Time) int {
	return calendar.DaysBetween(c.StartDate, d) * c.PixelsPerDay
}

// Navigate moves the reference date by step windows: months in month view,
// whole years (landing on Jan 1) in year view.
func Navigate(ref time.Time, mode ViewMode, step int) time.Time {
	if mode == ViewMonth {
		return calendar.AddMonths(ref, step)
	}
	return time.Date(ref.Year()+step, time.January, 1, 0, 0, 0, 0, ref.Location())
}

// HeaderLabel is the title shown above the window.
func HeaderLabel(ref time.Time, mode ViewMode) string {
	if mode == ViewMonth {
		return fmt.Sprintf("%s %d", calendar.MonthName(ref, false), ref.Year())
	}
	return strconv.Itoa(ref.Year())
}
