package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/mocks"
	customError "github.com/segyhp/microloan-engine/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpcomingRepayments_Window(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	svc := NewReminderService(loanRepo, &mocks.MockAnalyticsRepository{}, fixedClock(time.Date(2024, 6, 3, 18, 45, 0, 0, time.UTC)), zap.NewNop())

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	due := []*domain.DueRepayment{{
		RepaymentSchedule: domain.RepaymentSchedule{ID: 11, LoanID: 1, InstallmentNo: 2, TotalAmount: dec("25300")},
		CustomerName:      "Ada Obi",
	}}
	loanRepo.On("GetDueRepayments", mock.Anything, start, end).Return(due, nil)

	got, err := svc.UpcomingRepayments(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	loanRepo.AssertExpectations(t)
}

func TestUpcomingRepayments_Rejections(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	svc := NewReminderService(loanRepo, &mocks.MockAnalyticsRepository{}, fixedClock(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)), zap.NewNop())

	_, err := svc.UpcomingRepayments(context.Background(), -1)
	assert.True(t, customError.HasCode(err, customError.ErrCodeInvalidArgument))

	loanRepo.On("GetDueRepayments", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	_, err = svc.UpcomingRepayments(context.Background(), 0)
	assert.True(t, customError.HasCode(err, customError.ErrCodeDatabaseError))
}

func TestOverdueSummary(t *testing.T) {
	now := time.Date(2024, 6, 3, 6, 0, 0, 0, time.UTC)
	analyticsRepo := &mocks.MockAnalyticsRepository{}
	svc := NewReminderService(&mocks.MockLoanRepository{}, analyticsRepo, fixedClock(now), zap.NewNop())

	analyticsRepo.On("CountOverdueInstallments", mock.Anything, now).Return(3, nil)

	summary, err := svc.OverdueSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, summary.AsOf)
	assert.Equal(t, 3, summary.OverdueInstallments)
}
