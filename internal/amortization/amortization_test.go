package amortization

import (
	"testing"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"
	customError "github.com/segyhp/microloan-engine/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate_MonthlyScenario(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	plan, err := Calculate(Terms{
		Principal:         dec("120000"),
		AnnualRatePercent: 26.5,
		TermType:          domain.TermTypeMonthly,
		DurationValue:     6,
		StartDate:         start,
	})
	require.NoError(t, err)

	assert.True(t, plan.TotalInterest.Equal(dec("31800")), "total interest %s", plan.TotalInterest)
	assert.True(t, plan.TotalRepayment.Equal(dec("151800")), "total repayment %s", plan.TotalRepayment)
	assert.True(t, plan.InstallmentAmount.Equal(dec("25300")), "installment %s", plan.InstallmentAmount)
	require.Len(t, plan.Installments, 6)

	for i, inst := range plan.Installments {
		assert.Equal(t, i+1, inst.Number)
		assert.True(t, inst.PrincipalPortion.Equal(dec("20000")))
		assert.True(t, inst.InterestPortion.Equal(dec("5300")))
		assert.True(t, inst.TotalAmount.Equal(dec("25300")))
		assert.Equal(t, start.AddDate(0, i+1, 0), inst.DueDate)
	}
	assert.Equal(t, plan.Installments[0].DueDate, plan.FirstInstallmentDate)
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), plan.EndDate)
	assert.True(t, plan.PeriodicRatePercent.Equal(dec("26.5").Div(decimal.NewFromInt(12))))
}

func TestCalculate_WeeklyDueDates(t *testing.T) {
	start := time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)

	plan, err := Calculate(Terms{
		Principal:         dec("10000"),
		AnnualRatePercent: 10,
		TermType:          domain.TermTypeWeekly,
		DurationValue:     4,
		StartDate:         start,
	})
	require.NoError(t, err)

	expected := []time.Time{
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC),
	}
	for i, inst := range plan.Installments {
		assert.Equal(t, expected[i], inst.DueDate)
		assert.True(t, inst.TotalAmount.Equal(dec("2750")))
	}
	assert.Equal(t, expected[0], plan.FirstInstallmentDate)
	assert.Equal(t, expected[3], plan.EndDate)
}

func TestCalculate_RoundingRemainderOnLastInstallment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      float64
		termType  domain.TermType
		duration  int
	}{
		{"thirds", "1000", 10, domain.TermTypeMonthly, 3},
		{"sevenths", "1000", 26.5, domain.TermTypeWeekly, 7},
		{"odd cents", "1234.57", 13.3, domain.TermTypeWeekly, 23},
		{"zero interest", "5000", 0, domain.TermTypeMonthly, 6},
		{"single installment", "1500", 26.5, domain.TermTypeMonthly, 1},
		{"tiny interest", "1000", 0.013, domain.TermTypeWeekly, 23},
		{"cents below duration", "1000.05", 0.001, domain.TermTypeMonthly, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Calculate(Terms{
				Principal:         dec(tt.principal),
				AnnualRatePercent: tt.rate,
				TermType:          tt.termType,
				DurationValue:     tt.duration,
				StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			})
			require.NoError(t, err)
			require.Len(t, plan.Installments, tt.duration)

			sumPrincipal, sumInterest, sumTotal := decimal.Zero, decimal.Zero, decimal.Zero
			for i, inst := range plan.Installments {
				assert.Equal(t, i+1, inst.Number)
				if i > 0 {
					assert.True(t, inst.DueDate.After(plan.Installments[i-1].DueDate))
				}
				assert.False(t, inst.PrincipalPortion.IsNegative(), "installment %d principal %s", inst.Number, inst.PrincipalPortion)
				assert.False(t, inst.InterestPortion.IsNegative(), "installment %d interest %s", inst.Number, inst.InterestPortion)
				sumPrincipal = sumPrincipal.Add(inst.PrincipalPortion)
				sumInterest = sumInterest.Add(inst.InterestPortion)
				sumTotal = sumTotal.Add(inst.TotalAmount)
			}
			assert.True(t, sumPrincipal.Equal(dec(tt.principal)), "principal sum %s", sumPrincipal)
			assert.True(t, sumInterest.Equal(plan.TotalInterest), "interest sum %s", sumInterest)
			assert.True(t, sumTotal.Equal(plan.TotalRepayment), "total sum %s", sumTotal)

			diff := plan.InstallmentAmount.Mul(decimal.NewFromInt(int64(tt.duration))).Sub(plan.TotalRepayment).Abs()
			assert.True(t, diff.LessThanOrEqual(dec("0.02").Mul(decimal.NewFromInt(int64(tt.duration)))))
		})
	}
}

func TestCalculate_MonthEndClamping(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	plan, err := Calculate(Terms{
		Principal:         dec("6000"),
		AnnualRatePercent: 12,
		TermType:          domain.TermTypeMonthly,
		DurationValue:     3,
		StartDate:         start,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), plan.Installments[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), plan.Installments[1].DueDate)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), plan.Installments[2].DueDate)
}

func TestCalculate_InvalidTerms(t *testing.T) {
	tests := []struct {
		name  string
		terms Terms
	}{
		{"fraction of a cent", Terms{Principal: dec("1000.005"), AnnualRatePercent: 26.5, TermType: domain.TermTypeMonthly, DurationValue: 6}},
		{"zero principal", Terms{Principal: decimal.Zero, AnnualRatePercent: 10, TermType: domain.TermTypeWeekly, DurationValue: 4}},
		{"negative rate", Terms{Principal: dec("1000"), AnnualRatePercent: -1, TermType: domain.TermTypeWeekly, DurationValue: 4}},
		{"rate above 100", Terms{Principal: dec("1000"), AnnualRatePercent: 100.5, TermType: domain.TermTypeWeekly, DurationValue: 4}},
		{"zero duration", Terms{Principal: dec("1000"), AnnualRatePercent: 10, TermType: domain.TermTypeMonthly, DurationValue: 0}},
		{"weekly too long", Terms{Principal: dec("1000"), AnnualRatePercent: 10, TermType: domain.TermTypeWeekly, DurationValue: 24}},
		{"monthly too long", Terms{Principal: dec("1000"), AnnualRatePercent: 10, TermType: domain.TermTypeMonthly, DurationValue: 7}},
		{"unknown term type", Terms{Principal: dec("1000"), AnnualRatePercent: 10, TermType: "Daily", DurationValue: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Calculate(tt.terms)
			assert.Nil(t, plan)
			assert.True(t, customError.HasCode(err, customError.ErrCodeInvalidArgument), "got %v", err)
		})
	}
}

func TestCalculate_TinyInterestStaysNonNegative(t *testing.T) {
	plan, err := Calculate(Terms{
		Principal:         dec("1000"),
		AnnualRatePercent: 0.013,
		TermType:          domain.TermTypeWeekly,
		DurationValue:     23,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, plan.TotalInterest.Equal(dec("0.13")))
	first := plan.Installments[0]
	last := plan.Installments[len(plan.Installments)-1]
	assert.True(t, first.InterestPortion.Equal(decimal.Zero), "first interest %s", first.InterestPortion)
	assert.True(t, last.InterestPortion.Equal(dec("0.13")), "last interest %s", last.InterestPortion)
	assert.True(t, first.PrincipalPortion.Equal(dec("43.47")))
	assert.True(t, last.PrincipalPortion.Equal(dec("43.66")))
}

func TestIsWholeCents(t *testing.T) {
	assert.True(t, IsWholeCents(dec("1000")))
	assert.True(t, IsWholeCents(dec("1000.10")))
	assert.True(t, IsWholeCents(dec("1000.000")))
	assert.False(t, IsWholeCents(dec("1000.005")))
	assert.False(t, IsWholeCents(dec("0.001")))
}

func TestPeriodicRatePercent(t *testing.T) {
	assert.True(t, PeriodicRatePercent(26, domain.TermTypeWeekly.Cadence()).Equal(dec("0.5")))
	assert.True(t, PeriodicRatePercent(24, domain.TermTypeMonthly.Cadence()).Equal(dec("2")))
}
