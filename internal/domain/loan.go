package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "Pending"
	LoanStatusApproved  LoanStatus = "Approved"
	LoanStatusRejected  LoanStatus = "Rejected"
	LoanStatusCompleted LoanStatus = "Completed"
	LoanStatusDefaulted LoanStatus = "Defaulted"
)

// ParseLoanStatus accepts a status name in any letter case.
func ParseLoanStatus(s string) (LoanStatus, bool) {
	for _, st := range []LoanStatus{LoanStatusPending, LoanStatusApproved, LoanStatusRejected, LoanStatusCompleted, LoanStatusDefaulted} {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Loan represents a loan application and, once approved, the loan contract
type Loan struct {
	ID                   int64           `json:"id" db:"id"`
	CustomerID           int64           `json:"customer_id" db:"customer_id"`
	CustomerName         string          `json:"customer_name,omitempty" db:"customer_name"`
	Principal            decimal.Decimal `json:"principal" db:"principal"`
	InterestRate         float64         `json:"interest_rate" db:"interest_rate"`
	TermType             TermType        `json:"term_type" db:"term_type"`
	DurationValue        int             `json:"duration_value" db:"duration_value"`
	Status               LoanStatus      `json:"status" db:"status"`
	StartDate            time.Time       `json:"start_date" db:"start_date"`
	EndDate              time.Time       `json:"end_date" db:"end_date"`
	FirstInstallmentDate time.Time       `json:"first_installment_date" db:"first_installment_date"`
	TotalInterest        decimal.Decimal `json:"total_interest" db:"total_interest"`
	TotalRepayment       decimal.Decimal `json:"total_repayment" db:"total_repayment"`
	InstallmentAmount    decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	CreatedBy            string          `json:"created_by" db:"created_by"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	ReviewedBy           *string         `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt           *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

// DTOs for requests and responses

type ApplyLoanRequest struct {
	CustomerID    int64           `json:"customer_id" validate:"required,gt=0"`
	Principal     decimal.Decimal `json:"principal" validate:"decimal_gt=0"`
	InterestRate  *float64        `json:"interest_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	TermType      string          `json:"term_type" validate:"required,termtype"`
	DurationValue int             `json:"duration_value" validate:"required,gt=0"`
}

type LoanDetailResponse struct {
	Loan                *Loan                `json:"loan"`
	PeriodicRatePercent decimal.Decimal      `json:"periodic_rate_percent"`
	Schedule            []*RepaymentSchedule `json:"schedule"`
}

type LoanListResponse struct {
	Loans      []*Loan `json:"loans"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
}

// DueRepayment is a pending installment annotated with its borrower.
type DueRepayment struct {
	RepaymentSchedule
	CustomerID   int64  `json:"customer_id" db:"customer_id"`
	CustomerName string `json:"customer_name" db:"customer_name"`
}
