package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardOverview struct {
	TotalLoans         int                 `json:"total_loans"`
	PendingApprovals   int                 `json:"pending_approvals"`
	ActiveLoans        int                 `json:"active_loans"`
	OverdueLoans       int                 `json:"overdue_loans"`
	TotalCustomers     int                 `json:"total_customers"`
	DuePaymentsToday   decimal.Decimal     `json:"due_payments_today"`
	TotalPrincipal     decimal.Decimal     `json:"total_principal"`
	TotalInterest      decimal.Decimal     `json:"total_interest"`
	LoanAnalytics      []LoanMonthCount    `json:"loan_analytics"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// LoanMonthCount is one bucket of the loans-by-creation-month histogram.
type LoanMonthCount struct {
	Year      int    `json:"-" db:"year"`
	Month     int    `json:"-" db:"month"`
	Label     string `json:"month" db:"-"`
	LoanCount int    `json:"loan_count" db:"loan_count"`
}

type RecentTransaction struct {
	LoanID       int64           `json:"loan_id" db:"loan_id"`
	CustomerName string          `json:"customer_name" db:"customer_name"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Status       LoanStatus      `json:"status" db:"status"`
	Date         time.Time       `json:"date" db:"created_at"`
}

type ProfitFilterType string

const (
	ProfitFilterMonthly   ProfitFilterType = "monthly"
	ProfitFilterQuarterly ProfitFilterType = "quarterly"
	ProfitFilterYearly    ProfitFilterType = "yearly"
	ProfitFilterCustom    ProfitFilterType = "custom"
)

type ProfitAnalyticsRequest struct {
	FilterType string
	Year       *int
	Month      *int
	Quarter    *int
	StartDate  *time.Time
	EndDate    *time.Time
}

// DisbursementTotals aggregates Approved/Completed loans started in a window.
type DisbursementTotals struct {
	TotalDisbursement     decimal.Decimal `db:"total_disbursement"`
	TotalExpectedInterest decimal.Decimal `db:"total_expected_interest"`
	TotalRepayment        decimal.Decimal `db:"total_repayment"`
}

// DefaultSummary aggregates Defaulted loans started in a window.
type DefaultSummary struct {
	DefaultedLoans       int             `db:"defaulted_loans"`
	TotalDefaultedAmount decimal.Decimal `db:"total_defaulted_amount"`
}

type ProfitReport struct {
	Period                string          `json:"period"`
	RangeStart            time.Time       `json:"range_start"`
	RangeEnd              time.Time       `json:"range_end"`
	TotalDisbursement     decimal.Decimal `json:"total_disbursement"`
	TotalRepayment        decimal.Decimal `json:"total_repayment"`
	TotalExpectedInterest decimal.Decimal `json:"total_expected_interest"`
	DefaultedLoans        int             `json:"defaulted_loans"`
	TotalDefaultedAmount  decimal.Decimal `json:"total_defaulted_amount"`
	ProfitEarned          decimal.Decimal `json:"profit_earned"`
}

// PortionTotals holds sums over schedule rows.
type PortionTotals struct {
	Principal decimal.Decimal `db:"principal"`
	Interest  decimal.Decimal `db:"interest"`
	Total     decimal.Decimal `db:"total"`
}

// OverdueSummary is the daily overdue-installment report.
type OverdueSummary struct {
	AsOf                time.Time `json:"as_of"`
	OverdueInstallments int       `json:"overdue_installments"`
}
