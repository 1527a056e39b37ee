package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/microloan-engine/internal/amortization"
	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/repository"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/utils"

	"go.uber.org/zap"
)

// LoanService manages loan origination and the loan state machine.
type LoanService struct {
	LoanRepo     repository.LoanRepository
	CustomerRepo repository.CustomerRepository
	clock        clock.Clock
	config       *config.Config
	logger       *zap.Logger
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	customerRepo repository.CustomerRepository,
	clk clock.Clock,
	config *config.Config,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		LoanRepo:     loanRepo,
		CustomerRepo: customerRepo,
		clock:        clk,
		config:       config,
		logger:       logger,
	}
}

// ApplyLoan creates a Pending loan together with its full repayment schedule
func (s *LoanService) ApplyLoan(ctx context.Context, p domain.Principal, request *domain.ApplyLoanRequest) (*domain.LoanDetailResponse, error) {
	if err := authorize(p, "apply for loans", staffRoles...); err != nil {
		return nil, err
	}

	termType, ok := domain.ParseTermType(request.TermType)
	if !ok {
		return nil, customError.WrapInvalidArgument("term type must be Weekly or Monthly")
	}

	if minPrincipal := s.config.GetMinPrincipal(); request.Principal.LessThan(minPrincipal) {
		return nil, customError.WrapInvalidArgument(fmt.Sprintf("principal must be at least %s", minPrincipal.StringFixed(2)))
	}

	rate := s.config.Business.DefaultInterestRate
	if request.InterestRate != nil {
		rate = *request.InterestRate
	}

	now := s.clock.Now()
	terms := amortization.Terms{
		Principal:         request.Principal,
		AnnualRatePercent: rate,
		TermType:          termType,
		DurationValue:     request.DurationValue,
		StartDate:         utils.StartOfDay(now),
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.CustomerRepo.Exists(ctx, request.CustomerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if !exists {
		return nil, customError.WrapNotFound("Customer", request.CustomerID)
	}

	plan, err := amortization.Calculate(terms)
	if err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		CustomerID:           request.CustomerID,
		Principal:            request.Principal,
		InterestRate:         rate,
		TermType:             termType,
		DurationValue:        request.DurationValue,
		Status:               domain.LoanStatusPending,
		StartDate:            terms.StartDate,
		EndDate:              plan.EndDate,
		FirstInstallmentDate: plan.FirstInstallmentDate,
		TotalInterest:        plan.TotalInterest,
		TotalRepayment:       plan.TotalRepayment,
		InstallmentAmount:    plan.InstallmentAmount,
		CreatedBy:            p.ID,
		CreatedAt:            now,
	}

	schedules := make([]*domain.RepaymentSchedule, 0, len(plan.Installments))
	for _, inst := range plan.Installments {
		schedules = append(schedules, &domain.RepaymentSchedule{
			InstallmentNo:    inst.Number,
			DueDate:          inst.DueDate,
			PrincipalPortion: inst.PrincipalPortion,
			InterestPortion:  inst.InterestPortion,
			TotalAmount:      inst.TotalAmount,
			Status:           domain.RepaymentStatusPending,
		})
	}

	if err := s.LoanRepo.CreateWithSchedule(ctx, loan, schedules); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("Loan application created",
		zap.Int64("loan_id", loan.ID),
		zap.Int64("customer_id", loan.CustomerID),
		zap.String("principal", loan.Principal.StringFixed(2)),
		zap.String("term_type", string(loan.TermType)),
		zap.Int("duration", loan.DurationValue),
		zap.String("created_by", p.ID),
	)

	return &domain.LoanDetailResponse{
		Loan:                loan,
		PeriodicRatePercent: plan.PeriodicRatePercent,
		Schedule:            schedules,
	}, nil
}

// GetLoan returns a loan with its ordered schedule
func (s *LoanService) GetLoan(ctx context.Context, loanID int64) (*domain.LoanDetailResponse, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, lookupError(err, "Loan", loanID)
	}

	schedule, err := s.LoanRepo.GetScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.clock.Now()
	for _, row := range schedule {
		markOverdue(row, now)
	}

	detail := &domain.LoanDetailResponse{Loan: loan, Schedule: schedule}
	if cadence := loan.TermType.Cadence(); cadence != nil {
		detail.PeriodicRatePercent = amortization.PeriodicRatePercent(loan.InterestRate, cadence)
	}
	return detail, nil
}

// ListLoans returns a page of loans ordered by ID, optionally filtered by status
func (s *LoanService) ListLoans(ctx context.Context, status string, page, pageSize int) (*domain.LoanListResponse, error) {
	var filter *domain.LoanStatus
	if status != "" {
		st, ok := domain.ParseLoanStatus(status)
		if !ok {
			return nil, customError.WrapInvalidArgument(fmt.Sprintf("unknown loan status %q", status))
		}
		filter = &st
	}

	page, pageSize = utils.NormalizePage(page, pageSize, s.config.Business.DefaultPageSize, s.config.Business.MaxPageSize)

	loans, total, err := s.LoanRepo.List(ctx, filter, pageSize, utils.Offset(page, pageSize))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.LoanListResponse{
		Loans:      loans,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *LoanService) ApproveLoan(ctx context.Context, p domain.Principal, loanID int64) (*domain.Loan, error) {
	return s.transition(ctx, p, loanID, domain.LoanStatusPending, domain.LoanStatusApproved)
}

func (s *LoanService) RejectLoan(ctx context.Context, p domain.Principal, loanID int64) (*domain.Loan, error) {
	return s.transition(ctx, p, loanID, domain.LoanStatusPending, domain.LoanStatusRejected)
}

// DefaultLoan marks an Approved loan Defaulted regardless of its schedule
func (s *LoanService) DefaultLoan(ctx context.Context, p domain.Principal, loanID int64) (*domain.Loan, error) {
	return s.transition(ctx, p, loanID, domain.LoanStatusApproved, domain.LoanStatusDefaulted)
}

// CompleteLoan closes an Approved loan once every installment is Paid
func (s *LoanService) CompleteLoan(ctx context.Context, p domain.Principal, loanID int64) (*domain.Loan, error) {
	if err := authorize(p, "complete loans", adminRoles...); err != nil {
		return nil, err
	}

	stamp := repository.ReviewStamp{By: p.ID, At: s.clock.Now()}
	ok, err := s.LoanRepo.Complete(ctx, loanID, stamp)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if !ok {
		loan, err := s.LoanRepo.GetByID(ctx, loanID)
		if err != nil {
			return nil, lookupError(err, "Loan", loanID)
		}
		if loan.Status != domain.LoanStatusApproved {
			return nil, customError.WrapIllegalTransition("Loan", loanID, string(loan.Status), string(domain.LoanStatusCompleted))
		}

		unpaid, err := s.LoanRepo.CountUnpaidInstallments(ctx, loanID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		return nil, customError.WrapPreconditionFailed(fmt.Sprintf(
			"loan %d still has %d unpaid installment(s)", loanID, unpaid))
	}

	return s.reload(ctx, p, loanID, domain.LoanStatusCompleted)
}

// GetDueRepayments lists Pending installments due between the two dates,
// both days inclusive
func (s *LoanService) GetDueRepayments(ctx context.Context, start, end time.Time) ([]*domain.DueRepayment, error) {
	if end.Before(start) {
		return nil, customError.WrapInvalidArgument("end date must not be before start date")
	}

	due, err := s.LoanRepo.GetDueRepayments(ctx, utils.StartOfDay(start), utils.EndOfDay(end))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.clock.Now()
	for _, row := range due {
		markOverdue(&row.RepaymentSchedule, now)
	}

	return due, nil
}

// markOverdue flags a still-Pending installment whose due date has passed.
func markOverdue(row *domain.RepaymentSchedule, now time.Time) {
	row.Overdue = row.Status == domain.RepaymentStatusPending && utils.IsDateOverdue(row.DueDate, now)
}

func (s *LoanService) transition(ctx context.Context, p domain.Principal, loanID int64, from, to domain.LoanStatus) (*domain.Loan, error) {
	if err := authorize(p, fmt.Sprintf("move loans to %s", to), adminRoles...); err != nil {
		return nil, err
	}

	stamp := repository.ReviewStamp{By: p.ID, At: s.clock.Now()}
	ok, err := s.LoanRepo.TransitionStatus(ctx, loanID, from, to, stamp)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if !ok {
		loan, err := s.LoanRepo.GetByID(ctx, loanID)
		if err != nil {
			return nil, lookupError(err, "Loan", loanID)
		}
		return nil, customError.WrapIllegalTransition("Loan", loanID, string(loan.Status), string(to))
	}

	return s.reload(ctx, p, loanID, to)
}

func (s *LoanService) reload(ctx context.Context, p domain.Principal, loanID int64, status domain.LoanStatus) (*domain.Loan, error) {
	s.logger.Info("Loan status changed",
		zap.Int64("loan_id", loanID),
		zap.String("status", string(status)),
		zap.String("reviewed_by", p.ID),
	)

	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		// deleted concurrently through a customer cascade
		return nil, customError.WrapNotFound("Loan", loanID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loan, nil
}
