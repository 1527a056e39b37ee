package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/segyhp/microloan-engine/internal/amortization"
	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/repository"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const paymentInitiatedMessage = "Payment initiated successfully. Awaiting approval."

// PaymentService records borrower payments and runs their review workflow.
// Installments stay Pending until a payment against them is approved.
type PaymentService struct {
	LoanRepo    repository.LoanRepository
	PaymentRepo repository.PaymentRepository
	clock       clock.Clock
	config      *config.Config
	logger      *zap.Logger
}

func NewPaymentService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	clk clock.Clock,
	config *config.Config,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		LoanRepo:    loanRepo,
		PaymentRepo: paymentRepo,
		clock:       clk,
		config:      config,
		logger:      logger,
	}
}

// InitiatePayment logs one Pending payment per eligible installment. The
// amount paid must cover the sum of the eligible installments.
func (s *PaymentService) InitiatePayment(ctx context.Context, p domain.Principal, request *domain.InitiatePaymentRequest) (*domain.InitiatePaymentResponse, error) {
	if err := authorize(p, "log payments", staffRoles...); err != nil {
		return nil, err
	}

	if !request.AmountPaid.IsPositive() {
		return nil, customError.WrapInvalidArgument("amount paid must be greater than zero")
	}
	if !amortization.IsWholeCents(request.AmountPaid) {
		return nil, customError.WrapInvalidArgument("amount paid must not have more than two decimal places")
	}

	if _, err := s.LoanRepo.GetByID(ctx, request.LoanID); err != nil {
		return nil, lookupError(err, "Loan", request.LoanID)
	}

	eligible, err := s.PaymentRepo.GetEligibleInstallments(ctx, request.LoanID, uniqueIDs(request.InstallmentIDs))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(eligible) == 0 {
		return nil, customError.WrapNoEligibleInstallments()
	}

	amounts := make([]decimal.Decimal, 0, len(eligible))
	for _, row := range eligible {
		amounts = append(amounts, row.TotalAmount)
	}
	totalDue := utils.SumDecimals(amounts...)

	if request.AmountPaid.LessThan(totalDue) {
		return nil, customError.WrapInsufficientPayment(totalDue.StringFixed(2), request.AmountPaid.StringFixed(2))
	}

	now := s.clock.Now()
	payments := make([]*domain.Payment, 0, len(eligible))
	for _, row := range eligible {
		payments = append(payments, &domain.Payment{
			LoanID:              request.LoanID,
			RepaymentScheduleID: row.ID,
			Amount:              row.TotalAmount,
			Reference:           generateReference(),
			Status:              domain.PaymentStatusPending,
			LoggedBy:            p.ID,
			LoggedAt:            now,
		})
	}

	if err := s.PaymentRepo.CreateBatch(ctx, payments); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapConflict("one or more installments already have a payment awaiting review")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("Payment initiated",
		zap.Int64("loan_id", request.LoanID),
		zap.Int("installments", len(payments)),
		zap.String("total_due", totalDue.StringFixed(2)),
		zap.String("logged_by", p.ID),
	)

	return &domain.InitiatePaymentResponse{
		Message:  paymentInitiatedMessage,
		TotalDue: totalDue,
		Payments: payments,
	}, nil
}

// ApprovePayment approves a Pending payment and marks its installment Paid
func (s *PaymentService) ApprovePayment(ctx context.Context, p domain.Principal, paymentID int64) (*domain.Payment, error) {
	return s.review(ctx, p, paymentID, domain.PaymentStatusApproved)
}

// RejectPayment rejects a Pending payment and reopens its installment
func (s *PaymentService) RejectPayment(ctx context.Context, p domain.Principal, paymentID int64) (*domain.Payment, error) {
	return s.review(ctx, p, paymentID, domain.PaymentStatusRejected)
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, lookupError(err, "Payment", paymentID)
	}
	return payment, nil
}

// ListPayments returns a page of payments, newest first
func (s *PaymentService) ListPayments(ctx context.Context, status string, page, pageSize int) (*domain.PaymentListResponse, error) {
	var filter *domain.PaymentStatus
	if status != "" {
		st, ok := domain.ParsePaymentStatus(status)
		if !ok {
			return nil, customError.WrapInvalidArgument(fmt.Sprintf("unknown payment status %q", status))
		}
		filter = &st
	}

	page, pageSize = utils.NormalizePage(page, pageSize, s.config.Business.DefaultPageSize, s.config.Business.MaxPageSize)

	payments, total, err := s.PaymentRepo.List(ctx, filter, pageSize, utils.Offset(page, pageSize))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.PaymentListResponse{
		Payments:   payments,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *PaymentService) review(ctx context.Context, p domain.Principal, paymentID int64, to domain.PaymentStatus) (*domain.Payment, error) {
	if err := authorize(p, "review payments", adminRoles...); err != nil {
		return nil, err
	}

	stamp := s.clock.Now()
	ok, err := s.PaymentRepo.Review(ctx, paymentID, to, repository.ReviewStamp{By: p.ID, At: stamp})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, lookupError(err, "Payment", paymentID)
	}

	if !ok {
		return nil, customError.WrapIllegalTransition("Payment", paymentID, string(payment.Status), string(to))
	}

	s.logger.Info("Payment reviewed",
		zap.Int64("payment_id", paymentID),
		zap.Int64("loan_id", payment.LoanID),
		zap.Int64("installment_id", payment.RepaymentScheduleID),
		zap.String("status", string(to)),
		zap.String("reviewed_by", p.ID),
	)

	return payment, nil
}

// generateReference returns a short human-readable payment code
func generateReference() string {
	return "PAY-" + strings.ToUpper(uuid.NewString()[:8])
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
