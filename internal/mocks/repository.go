package mocks

import (
	"context"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedules []*domain.RepaymentSchedule) error {
	args := m.Called(ctx, loan, schedules)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, status *domain.LoanStatus, limit, offset int) ([]*domain.Loan, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Loan), args.Int(1), args.Error(2)
}

func (m *MockLoanRepository) GetScheduleByLoanID(ctx context.Context, loanID int64) ([]*domain.RepaymentSchedule, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RepaymentSchedule), args.Error(1)
}

func (m *MockLoanRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.LoanStatus, stamp repository.ReviewStamp) (bool, error) {
	args := m.Called(ctx, id, from, to, stamp)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) Complete(ctx context.Context, id int64, stamp repository.ReviewStamp) (bool, error) {
	args := m.Called(ctx, id, stamp)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) CountUnpaidInstallments(ctx context.Context, loanID int64) (int, error) {
	args := m.Called(ctx, loanID)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) GetDueRepayments(ctx context.Context, start, end time.Time) ([]*domain.DueRepayment, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DueRepayment), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetEligibleInstallments(ctx context.Context, loanID int64, ids []int64) ([]*domain.RepaymentSchedule, error) {
	args := m.Called(ctx, loanID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RepaymentSchedule), args.Error(1)
}

func (m *MockPaymentRepository) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	args := m.Called(ctx, payments)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Review(ctx context.Context, id int64, to domain.PaymentStatus, stamp repository.ReviewStamp) (bool, error) {
	args := m.Called(ctx, id, to, stamp)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, status *domain.PaymentStatus, limit, offset int) ([]*domain.PaymentView, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.PaymentView), args.Int(1), args.Error(2)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Customer, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Customer), args.Int(1), args.Error(2)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	args := m.Called(ctx, id, active)
	return args.Bool(0), args.Error(1)
}

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) CountLoans(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountLoansByStatus(ctx context.Context, status domain.LoanStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountOverdueInstallments(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountCustomers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) SumPendingDueBetween(ctx context.Context, start, end time.Time) (domain.PortionTotals, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(domain.PortionTotals), args.Error(1)
}

func (m *MockAnalyticsRepository) SumPortions(ctx context.Context) (domain.PortionTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PortionTotals), args.Error(1)
}

func (m *MockAnalyticsRepository) LoanCountsByMonth(ctx context.Context) ([]domain.LoanMonthCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanMonthCount), args.Error(1)
}

func (m *MockAnalyticsRepository) RecentApprovedLoans(ctx context.Context, limit int) ([]domain.RecentTransaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecentTransaction), args.Error(1)
}

func (m *MockAnalyticsRepository) DisbursementTotals(ctx context.Context, start, end time.Time) (domain.DisbursementTotals, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(domain.DisbursementTotals), args.Error(1)
}

func (m *MockAnalyticsRepository) EarnedInterest(ctx context.Context, start, end time.Time) (domain.PortionTotals, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(domain.PortionTotals), args.Error(1)
}

func (m *MockAnalyticsRepository) DefaultSummary(ctx context.Context, start, end time.Time) (domain.DefaultSummary, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(domain.DefaultSummary), args.Error(1)
}
