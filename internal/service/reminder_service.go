package service

import (
	"context"

	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/repository"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/utils"

	"go.uber.org/zap"
)

// ReminderService backs the scheduled repayment-reminder and overdue jobs.
type ReminderService struct {
	LoanRepo      repository.LoanRepository
	AnalyticsRepo repository.AnalyticsRepository
	clock         clock.Clock
	logger        *zap.Logger
}

func NewReminderService(
	loanRepo repository.LoanRepository,
	analyticsRepo repository.AnalyticsRepository,
	clk clock.Clock,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		LoanRepo:      loanRepo,
		AnalyticsRepo: analyticsRepo,
		clock:         clk,
		logger:        logger,
	}
}

// UpcomingRepayments lists Pending installments due from today through
// today+lookaheadDays
func (s *ReminderService) UpcomingRepayments(ctx context.Context, lookaheadDays int) ([]*domain.DueRepayment, error) {
	if lookaheadDays < 0 {
		return nil, customError.WrapInvalidArgument("lookahead days must not be negative")
	}

	today := utils.StartOfDay(s.clock.Now())
	due, err := s.LoanRepo.GetDueRepayments(ctx, today, utils.EndOfDay(today.AddDate(0, 0, lookaheadDays)))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	for _, d := range due {
		s.logger.Info("Repayment reminder",
			zap.Int64("loan_id", d.LoanID),
			zap.Int64("installment_id", d.ID),
			zap.Int("installment_no", d.InstallmentNo),
			zap.String("customer", d.CustomerName),
			zap.Time("due_date", d.DueDate),
			zap.String("amount", d.TotalAmount.StringFixed(2)),
		)
	}

	return due, nil
}

// OverdueSummary counts Pending installments due strictly before now
func (s *ReminderService) OverdueSummary(ctx context.Context) (*domain.OverdueSummary, error) {
	now := s.clock.Now()
	count, err := s.AnalyticsRepo.CountOverdueInstallments(ctx, now)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if count > 0 {
		s.logger.Warn("Overdue installments outstanding", zap.Int("count", count))
	}

	return &domain.OverdueSummary{AsOf: now, OverdueInstallments: count}, nil
}
