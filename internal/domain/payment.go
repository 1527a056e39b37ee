package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusApproved  PaymentStatus = "Approved"
	PaymentStatusRejected  PaymentStatus = "Rejected"
	PaymentStatusDefaulted PaymentStatus = "Defaulted"
	PaymentStatusCompleted PaymentStatus = "Completed"
)

// ParsePaymentStatus accepts a status name in any letter case.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	for _, st := range []PaymentStatus{PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected, PaymentStatusDefaulted, PaymentStatusCompleted} {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Payment is a borrower payment attempt against exactly one schedule row
type Payment struct {
	ID                  int64           `json:"id" db:"id"`
	LoanID              int64           `json:"loan_id" db:"loan_id"`
	RepaymentScheduleID int64           `json:"repayment_schedule_id" db:"repayment_schedule_id"`
	Amount              decimal.Decimal `json:"amount" db:"amount"`
	Reference           string          `json:"reference" db:"reference"`
	Status              PaymentStatus   `json:"status" db:"status"`
	LoggedBy            string          `json:"logged_by" db:"logged_by"`
	LoggedAt            time.Time       `json:"logged_at" db:"logged_at"`
	ReviewedBy          *string         `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt          *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

// PaymentView is a payment joined to its borrower's name for listings.
type PaymentView struct {
	Payment
	FullName string `json:"full_name" db:"full_name"`
}

type InitiatePaymentRequest struct {
	LoanID         int64           `json:"loan_id" validate:"required,gt=0"`
	InstallmentIDs []int64         `json:"installment_ids" validate:"required,min=1,dive,gt=0"`
	AmountPaid     decimal.Decimal `json:"amount_paid" validate:"decimal_gt=0"`
}

type InitiatePaymentResponse struct {
	Message  string          `json:"message"`
	TotalDue decimal.Decimal `json:"total_due"`
	Payments []*Payment      `json:"payments"`
}

type PaymentListResponse struct {
	Payments   []*PaymentView `json:"payments"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}
