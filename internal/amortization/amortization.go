// Package amortization turns flat-rate loan terms into a repayment plan.
//
// Interest is computed once on the full principal (flat rate) and spread
// evenly across installments. Portions are rounded down to cents; the final
// installment absorbs the remainder so the plan sums exactly to the loan's
// principal and total interest, and no portion is ever negative.
package amortization

import (
	"fmt"
	"math"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"
	customError "github.com/segyhp/microloan-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

const currencyScale = 2

var hundred = decimal.NewFromInt(100)

type Terms struct {
	Principal         decimal.Decimal
	AnnualRatePercent float64
	TermType          domain.TermType
	DurationValue     int
	StartDate         time.Time
}

type Installment struct {
	Number           int
	DueDate          time.Time
	PrincipalPortion decimal.Decimal
	InterestPortion  decimal.Decimal
	TotalAmount      decimal.Decimal
}

type Plan struct {
	TotalInterest        decimal.Decimal
	TotalRepayment       decimal.Decimal
	InstallmentAmount    decimal.Decimal
	PeriodicRatePercent  decimal.Decimal
	FirstInstallmentDate time.Time
	EndDate              time.Time
	Installments         []Installment
}

// Validate checks terms without computing a plan.
func (t Terms) Validate() error {
	if !t.Principal.IsPositive() {
		return customError.WrapInvalidArgument("principal must be greater than zero")
	}
	if !IsWholeCents(t.Principal) {
		return customError.WrapInvalidArgument("principal must not have more than two decimal places")
	}
	if math.IsNaN(t.AnnualRatePercent) || t.AnnualRatePercent < 0 || t.AnnualRatePercent > 100 {
		return customError.WrapInvalidArgument("interest rate must be between 0 and 100")
	}
	cadence := t.TermType.Cadence()
	if cadence == nil {
		return customError.WrapInvalidArgument(fmt.Sprintf("term type %q must be Weekly or Monthly", t.TermType))
	}
	if t.DurationValue < 1 || t.DurationValue > cadence.MaxDuration() {
		return customError.WrapInvalidArgument(fmt.Sprintf(
			"%s loans must have duration between 1 and %d", t.TermType, cadence.MaxDuration()))
	}
	return nil
}

// Calculate produces the flat-rate plan for t.
func Calculate(t Terms) (*Plan, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	cadence := t.TermType.Cadence()
	n := decimal.NewFromInt(int64(t.DurationValue))
	rate := decimal.NewFromFloat(t.AnnualRatePercent)

	totalInterest := t.Principal.Mul(rate).Div(hundred).Round(currencyScale)
	principalPortion := t.Principal.Div(n).RoundDown(currencyScale)
	interestPortion := totalInterest.Div(n).RoundDown(currencyScale)

	plan := &Plan{
		TotalInterest:        totalInterest,
		TotalRepayment:       t.Principal.Add(totalInterest),
		InstallmentAmount:    principalPortion.Add(interestPortion),
		PeriodicRatePercent:  PeriodicRatePercent(t.AnnualRatePercent, cadence),
		FirstInstallmentDate: cadence.NextDueDate(t.StartDate),
		Installments:         make([]Installment, 0, t.DurationValue),
	}

	principalLeft := t.Principal
	interestLeft := totalInterest
	for i := 1; i <= t.DurationValue; i++ {
		p, in := principalPortion, interestPortion
		if i == t.DurationValue {
			p, in = principalLeft, interestLeft
		}
		principalLeft = principalLeft.Sub(p)
		interestLeft = interestLeft.Sub(in)

		plan.Installments = append(plan.Installments, Installment{
			Number:           i,
			DueDate:          cadence.DueDate(t.StartDate, i),
			PrincipalPortion: p,
			InterestPortion:  in,
			TotalAmount:      p.Add(in),
		})
	}

	plan.EndDate = plan.Installments[len(plan.Installments)-1].DueDate
	return plan, nil
}

// PeriodicRatePercent spreads the annual rate over one installment period,
// e.g. 26.5 monthly is 26.5/12 per period.
func PeriodicRatePercent(annualRatePercent float64, cadence domain.Cadence) decimal.Decimal {
	return decimal.NewFromFloat(annualRatePercent).
		Div(decimal.NewFromInt(int64(cadence.PeriodsPerYear())))
}

// IsWholeCents reports whether d has no fraction of a cent.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(currencyScale))
}
