// Package period computes the inclusive date range, the display label and
// the navigation step for the daily, weekly and monthly views.
//
// Each period kind has its own Strategy. Strategies work on midnight-UTC
// times; the exported helpers take and return canonical core.Date strings.
package period

import (
	"fmt"
	"strings"
	"time"

	"expenso/internal/clock"
	"expenso/internal/core"
)

// Direction moves the anchor date backwards or forwards by one period.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection accepts "prev"/"previous" and "next".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous":
		return Prev, nil
	case "next":
		return Next, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Strategy encapsulates the calendar arithmetic of one period kind.
type Strategy interface {
	// Range returns the first and last day of the period containing anchor.
	Range(anchor time.Time) (start, end time.Time)
	// Step moves anchor by n periods.
	Step(anchor time.Time, n int) time.Time
	// Label renders the period containing anchor for display.
	Label(anchor time.Time) string
}

// DailyStrategy implements Strategy for single days.
type DailyStrategy struct{}

func (DailyStrategy) Range(anchor time.Time) (time.Time, time.Time) {
	return anchor, anchor
}

func (DailyStrategy) Step(anchor time.Time, n int) time.Time {
	return anchor.AddDate(0, 0, n)
}

// Label renders e.g. "Monday, 1 Jan".
func (DailyStrategy) Label(anchor time.Time) string {
	return anchor.Format("Monday, 2 Jan")
}

// WeeklyStrategy implements Strategy for Monday-Sunday weeks. The week
// start does not depend on locale; a Sunday closes its week.
type WeeklyStrategy struct{}

func (WeeklyStrategy) Range(anchor time.Time) (time.Time, time.Time) {
	offset := (int(anchor.Weekday()) + 6) % 7
	monday := anchor.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

func (WeeklyStrategy) Step(anchor time.Time, n int) time.Time {
	return anchor.AddDate(0, 0, 7*n)
}

// Label renders e.g. "1 Jan – 7 Jan".
func (w WeeklyStrategy) Label(anchor time.Time) string {
	start, end := w.Range(anchor)
	return start.Format("2 Jan") + " – " + end.Format("2 Jan")
}

// MonthlyStrategy implements Strategy for calendar months.
type MonthlyStrategy struct{}

func (MonthlyStrategy) Range(anchor time.Time) (time.Time, time.Time) {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// Step moves by whole months, clamping the day to the target month's length
// (Jan 31 + 1 month = Feb 28 or 29). Because of the clamp a later step back
// does not restore the original day: Jan 31 -> Feb 28 -> Jan 28.
func (MonthlyStrategy) Step(anchor time.Time, n int) time.Time {
	first := time.Date(anchor.Year(), anchor.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := anchor.Day()
	if last := daysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// Label renders e.g. "January 2024".
func (MonthlyStrategy) Label(anchor time.Time) string {
	return anchor.Format("January 2006")
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var strategies = map[core.Period]Strategy{
	core.Daily:   DailyStrategy{},
	core.Weekly:  WeeklyStrategy{},
	core.Monthly: MonthlyStrategy{},
}

// For returns the strategy registered for p.
func For(p core.Period) (Strategy, error) {
	s, ok := strategies[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownPeriod, string(p))
	}
	return s, nil
}

func resolve(p core.Period, anchor core.Date) (Strategy, time.Time, error) {
	s, err := For(p)
	if err != nil {
		return nil, time.Time{}, err
	}
	t, err := anchor.Time()
	if err != nil {
		return nil, time.Time{}, err
	}
	return s, t, nil
}

// RangeFor returns the inclusive range of the period of kind p containing anchor.
func RangeFor(p core.Period, anchor core.Date) (core.DateRange, error) {
	s, t, err := resolve(p, anchor)
	if err != nil {
		return core.DateRange{}, err
	}
	start, end := s.Range(t)
	return core.DateRange{Start: core.DateOf(start), End: core.DateOf(end)}, nil
}

// Label renders the period of kind p containing anchor.
func Label(p core.Period, anchor core.Date) (string, error) {
	s, t, err := resolve(p, anchor)
	if err != nil {
		return "", err
	}
	return s.Label(t), nil
}

// Advance moves anchor by exactly one period in direction dir.
func Advance(p core.Period, anchor core.Date, dir Direction) (core.Date, error) {
	s, t, err := resolve(p, anchor)
	if err != nil {
		return "", err
	}
	if dir != Prev && dir != Next {
		return "", fmt.Errorf("invalid direction %d", dir)
	}
	return core.DateOf(s.Step(t, int(dir))), nil
}

// Within is the inclusive membership test. It compares the canonical strings
// and never converts to time values.
func Within(d core.Date, r core.DateRange) bool {
	return r.Contains(d)
}

// Today returns the current local calendar date.
func Today(c clock.Clock) core.Date {
	return core.DateOf(c.Now())
}

// RelativeLabel renders an expense date as "Today", "Yesterday" or
// e.g. "Mon, 1 Jan". Unparseable dates are returned unchanged.
func RelativeLabel(d, today core.Date) string {
	t, err := d.Time()
	if err != nil {
		return string(d)
	}
	switch d {
	case today:
		return "Today"
	case yesterday(today):
		return "Yesterday"
	}
	return t.Format("Mon, 2 Jan")
}

func yesterday(today core.Date) core.Date {
	t, err := today.Time()
	if err != nil {
		return ""
	}
	return core.DateOf(t.AddDate(0, 0, -1))
}
