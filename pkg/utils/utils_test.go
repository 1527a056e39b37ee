package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDayBounds(t *testing.T) {
	ts := time.Date(2024, 3, 5, 17, 45, 12, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 999999999, time.UTC), EndOfDay(ts))
}

func TestIsDateOverdue(t *testing.T) {
	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueDate  time.Time
		expected bool
	}{
		{"yesterday", now.AddDate(0, 0, -1), true},
		{"exactly now", now, false},
		{"tomorrow", now.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDateOverdue(tt.dueDate, now))
		})
	}
}

func TestWindows(t *testing.T) {
	tests := []struct {
		name          string
		start, end    time.Time
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			name:          "march",
			expectedStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "leap february",
			expectedStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "second quarter",
			expectedStart: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "fourth quarter",
			expectedStart: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "year",
			expectedStart: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	tests[0].start, tests[0].end = MonthWindow(2024, time.March)
	tests[1].start, tests[1].end = MonthWindow(2024, time.February)
	tests[2].start, tests[2].end = QuarterWindow(2024, 2)
	tests[3].start, tests[3].end = QuarterWindow(2024, 4)
	tests[4].start, tests[4].end = YearWindow(2023)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStart, tt.start)
			assert.Equal(t, tt.expectedEnd, tt.end)
		})
	}
}

func TestFormatPeriod(t *testing.T) {
	start, end := QuarterWindow(2024, 2)
	assert.Equal(t, "2024-04-01 to 2024-06-30", FormatPeriod(start, end))
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                 string
		page, size           int
		expectedPage, expSize int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative", -3, -1, 1, 10},
		{"capped", 2, 500, 2, 100},
		{"valid", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := NormalizePage(tt.page, tt.size, 10, 100)
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expSize, size)
		})
	}
	assert.Equal(t, 20, Offset(3, 10))
}

func TestSumDecimals(t *testing.T) {
	assert.True(t, SumDecimals().Equal(decimal.Zero))
	assert.True(t, SumDecimals(decimal.NewFromInt(2), decimal.RequireFromString("0.5")).Equal(decimal.RequireFromString("2.5")))
}
