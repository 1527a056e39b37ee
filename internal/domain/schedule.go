package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RepaymentStatus string

const (
	RepaymentStatusPending RepaymentStatus = "Pending"
	RepaymentStatusPaid    RepaymentStatus = "Paid"
)

// RepaymentSchedule represents one installment obligation of a loan
type RepaymentSchedule struct {
	ID               int64           `json:"id" db:"id"`
	LoanID           int64           `json:"loan_id" db:"loan_id"`
	InstallmentNo    int             `json:"installment_no" db:"installment_no"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	PrincipalPortion decimal.Decimal `json:"principal_portion" db:"principal_portion"`
	InterestPortion  decimal.Decimal `json:"interest_portion" db:"interest_portion"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status           RepaymentStatus `json:"status" db:"status"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	// Overdue is derived at read time, never stored.
	Overdue bool `json:"overdue" db:"-"`
}
