package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's UTC day
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// IsDateOverdue checks if a due date lies strictly before now
func IsDateOverdue(dueDate, now time.Time) bool {
	return dueDate.Before(now)
}

// MonthWindow returns the first and last day of the given month
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// QuarterWindow returns the first and last day of quarter q (1-4)
func QuarterWindow(year, quarter int) (time.Time, time.Time) {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, -1)
}

// YearWindow returns Jan 1 and Dec 31 of year
func YearWindow(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// FormatPeriod renders a date window as "2006-01-02 to 2006-01-02"
func FormatPeriod(start, end time.Time) string {
	return fmt.Sprintf("%s to %s", start.Format(dateLayout), end.Format(dateLayout))
}

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// NormalizePage clamps page to >= 1 and size to [1, maxSize], using
// defaultSize when size is not positive
func NormalizePage(page, size, defaultSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return page, size
}

// Offset returns the row offset of a 1-based page
func Offset(page, size int) int {
	return (page - 1) * size
}

// SumDecimals adds up values, returning zero for an empty slice
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}
