package repository

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// ReviewStamp identifies who moved a record to a new status and when.
type ReviewStamp struct {
	By string
	At time.Time
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// CreateWithSchedule inserts the loan and all of its schedule rows in one
	// transaction, filling in the generated IDs.
	CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedules []*domain.RepaymentSchedule) error

	// GetByID retrieves a loan joined with its customer name. Returns
	// sql.ErrNoRows when absent.
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)

	// List returns a page of loans ordered by ID ascending and the total count.
	List(ctx context.Context, status *domain.LoanStatus, limit, offset int) ([]*domain.Loan, int, error)

	// GetScheduleByLoanID retrieves schedule rows ordered by installment number
	GetScheduleByLoanID(ctx context.Context, loanID int64) ([]*domain.RepaymentSchedule, error)

	// TransitionStatus moves the loan from one status to another only if it is
	// currently in from. Reports whether a row was changed.
	TransitionStatus(ctx context.Context, id int64, from, to domain.LoanStatus, stamp ReviewStamp) (bool, error)

	// Complete marks an Approved loan Completed only when none of its schedule
	// rows is still unpaid. Reports whether a row was changed.
	Complete(ctx context.Context, id int64, stamp ReviewStamp) (bool, error)

	// CountUnpaidInstallments counts the loan's schedule rows not yet Paid
	CountUnpaidInstallments(ctx context.Context, loanID int64) (int, error)

	// GetDueRepayments returns Pending rows due within [start, end], ordered by due date
	GetDueRepayments(ctx context.Context, start, end time.Time) ([]*domain.DueRepayment, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// GetEligibleInstallments returns the loan's rows among ids that are
	// Pending and not already claimed by a non-rejected payment
	GetEligibleInstallments(ctx context.Context, loanID int64, ids []int64) ([]*domain.RepaymentSchedule, error)

	// CreateBatch inserts all payments in one transaction. Returns
	// ErrDuplicate if any targeted row already has a live payment.
	CreateBatch(ctx context.Context, payments []*domain.Payment) error

	// GetByID retrieves a payment. Returns sql.ErrNoRows when absent.
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)

	// Review moves a Pending payment to Approved or Rejected and applies the
	// matching schedule-row change in the same transaction. Reports whether
	// the payment was still Pending.
	Review(ctx context.Context, id int64, to domain.PaymentStatus, stamp ReviewStamp) (bool, error)

	// List returns a page of payments ordered by ID descending and the total count
	List(ctx context.Context, status *domain.PaymentStatus, limit, offset int) ([]*domain.PaymentView, int, error)
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// EmailTaken reports whether another customer (other than excludeID) uses email
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, customer *domain.Customer) error
	// Delete removes the customer and, by cascade, their loans
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Customer, int, error)
}

// UserRepository defines the interface for back-office user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, int, error)
	SetActive(ctx context.Context, id int64, active bool) (bool, error)
}

// AnalyticsRepository defines the read-only reporting queries
type AnalyticsRepository interface {
	CountLoans(ctx context.Context) (int, error)
	CountLoansByStatus(ctx context.Context, status domain.LoanStatus) (int, error)
	CountOverdueInstallments(ctx context.Context, now time.Time) (int, error)
	CountCustomers(ctx context.Context) (int, error)
	// SumPendingDueBetween sums TotalAmount of Pending rows due in [start, end)
	SumPendingDueBetween(ctx context.Context, start, end time.Time) (domain.PortionTotals, error)
	// SumPortions sums principal and interest portions over all schedule rows
	SumPortions(ctx context.Context) (domain.PortionTotals, error)
	LoanCountsByMonth(ctx context.Context) ([]domain.LoanMonthCount, error)
	RecentApprovedLoans(ctx context.Context, limit int) ([]domain.RecentTransaction, error)

	// DisbursementTotals aggregates Approved/Completed loans with StartDate in [start, end)
	DisbursementTotals(ctx context.Context, start, end time.Time) (domain.DisbursementTotals, error)
	// EarnedInterest sums interest portions of rows Paid with PaymentDate in [start, end)
	EarnedInterest(ctx context.Context, start, end time.Time) (domain.PortionTotals, error)
	// DefaultSummary aggregates Defaulted loans with StartDate in [start, end)
	DefaultSummary(ctx context.Context, start, end time.Time) (domain.DefaultSummary, error)
}
