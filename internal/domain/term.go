package domain

import (
	"strings"
	"time"
)

type TermType string

const (
	TermTypeWeekly  TermType = "Weekly"
	TermTypeMonthly TermType = "Monthly"
)

// ParseTermType accepts "weekly" or "monthly" in any letter case.
func ParseTermType(s string) (TermType, bool) {
	switch {
	case strings.EqualFold(s, string(TermTypeWeekly)):
		return TermTypeWeekly, true
	case strings.EqualFold(s, string(TermTypeMonthly)):
		return TermTypeMonthly, true
	}
	return "", false
}

// Cadence is the installment rhythm of a term type. It is selected once per
// loan via TermType.Cadence.
type Cadence interface {
	// NextDueDate returns the due date one period after current.
	NextDueDate(current time.Time) time.Time
	// DueDate returns the due date of installment n (1-based) for a loan
	// starting on start. Each date is derived from start, so month-end
	// clamping never accumulates drift.
	DueDate(start time.Time, n int) time.Time
	PeriodsPerYear() int
	MaxDuration() int
}

// Cadence returns the strategy for t, or nil for an unknown term type.
func (t TermType) Cadence() Cadence {
	switch t {
	case TermTypeWeekly:
		return weeklyCadence{}
	case TermTypeMonthly:
		return monthlyCadence{}
	}
	return nil
}

type weeklyCadence struct{}

func (weeklyCadence) NextDueDate(current time.Time) time.Time { return current.AddDate(0, 0, 7) }

func (weeklyCadence) DueDate(start time.Time, n int) time.Time { return start.AddDate(0, 0, 7*n) }

func (weeklyCadence) PeriodsPerYear() int { return 52 }

func (weeklyCadence) MaxDuration() int { return 23 }

type monthlyCadence struct{}

func (monthlyCadence) NextDueDate(current time.Time) time.Time { return AddMonthsClamped(current, 1) }

func (monthlyCadence) DueDate(start time.Time, n int) time.Time { return AddMonthsClamped(start, n) }

func (monthlyCadence) PeriodsPerYear() int { return 12 }

func (monthlyCadence) MaxDuration() int { return 6 }

// AddMonthsClamped adds n calendar months to t. When the target month is
// shorter than t's day of month the result is the target month's last day
// (Jan 31 + 1 month = Feb 28/29), instead of time.AddDate's overflow.
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
