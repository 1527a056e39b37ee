package repository

import (
	"context"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountLoans(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM loans`)
	return count, err
}

func (r *analyticsRepository) CountLoansByStatus(ctx context.Context, status domain.LoanStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM loans WHERE status = $1`, status)
	return count, err
}

func (r *analyticsRepository) CountOverdueInstallments(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM repayment_schedules WHERE status = $1 AND due_date < $2`,
		domain.RepaymentStatusPending, now)
	return count, err
}

func (r *analyticsRepository) CountCustomers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM customers`)
	return count, err
}

func (r *analyticsRepository) SumPendingDueBetween(ctx context.Context, start, end time.Time) (domain.PortionTotals, error) {
	query := `
		SELECT COALESCE(SUM(principal_portion), 0) AS principal,
			COALESCE(SUM(interest_portion), 0) AS interest,
			COALESCE(SUM(total_amount), 0) AS total
		FROM repayment_schedules
		WHERE status = $1 AND due_date >= $2 AND due_date < $3
	`

	var totals domain.PortionTotals
	err := r.db.GetContext(ctx, &totals, query, domain.RepaymentStatusPending, start, end)
	return totals, err
}

func (r *analyticsRepository) SumPortions(ctx context.Context) (domain.PortionTotals, error) {
	query := `
		SELECT COALESCE(SUM(principal_portion), 0) AS principal,
			COALESCE(SUM(interest_portion), 0) AS interest,
			COALESCE(SUM(total_amount), 0) AS total
		FROM repayment_schedules
	`

	var totals domain.PortionTotals
	err := r.db.GetContext(ctx, &totals, query)
	return totals, err
}

func (r *analyticsRepository) LoanCountsByMonth(ctx context.Context) ([]domain.LoanMonthCount, error) {
	query := `
		SELECT EXTRACT(YEAR FROM created_at)::int AS year,
			EXTRACT(MONTH FROM created_at)::int AS month,
			COUNT(*) AS loan_count
		FROM loans
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	counts := []domain.LoanMonthCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *analyticsRepository) RecentApprovedLoans(ctx context.Context, limit int) ([]domain.RecentTransaction, error) {
	query := `
		SELECT l.id AS loan_id, c.full_name AS customer_name, l.principal AS amount,
			l.status, l.created_at
		FROM loans l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.status = $1
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $2
	`

	recent := []domain.RecentTransaction{}
	if err := r.db.SelectContext(ctx, &recent, query, domain.LoanStatusApproved, limit); err != nil {
		return nil, err
	}

	return recent, nil
}

func (r *analyticsRepository) DisbursementTotals(ctx context.Context, start, end time.Time) (domain.DisbursementTotals, error) {
	query := `
		SELECT COALESCE(SUM(principal), 0) AS total_disbursement,
			COALESCE(SUM(total_interest), 0) AS total_expected_interest,
			COALESCE(SUM(total_repayment), 0) AS total_repayment
		FROM loans
		WHERE status IN ($1, $2) AND start_date >= $3 AND start_date < $4
	`

	var totals domain.DisbursementTotals
	err := r.db.GetContext(ctx, &totals, query,
		domain.LoanStatusApproved, domain.LoanStatusCompleted, start, end)
	return totals, err
}

func (r *analyticsRepository) EarnedInterest(ctx context.Context, start, end time.Time) (domain.PortionTotals, error) {
	query := `
		SELECT COALESCE(SUM(principal_portion), 0) AS principal,
			COALESCE(SUM(interest_portion), 0) AS interest,
			COALESCE(SUM(total_amount), 0) AS total
		FROM repayment_schedules
		WHERE status = $1 AND payment_date >= $2 AND payment_date < $3
	`

	var totals domain.PortionTotals
	err := r.db.GetContext(ctx, &totals, query, domain.RepaymentStatusPaid, start, end)
	return totals, err
}

func (r *analyticsRepository) DefaultSummary(ctx context.Context, start, end time.Time) (domain.DefaultSummary, error) {
	query := `
		SELECT COUNT(*) AS defaulted_loans,
			COALESCE(SUM(outstanding.amount), 0) AS total_defaulted_amount
		FROM loans l
		LEFT JOIN LATERAL (
			SELECT SUM(rs.total_amount) AS amount
			FROM repayment_schedules rs
			WHERE rs.loan_id = l.id AND rs.status = $2
		) outstanding ON TRUE
		WHERE l.status = $1 AND l.start_date >= $3 AND l.start_date < $4
	`

	var summary domain.DefaultSummary
	err := r.db.GetContext(ctx, &summary, query,
		domain.LoanStatusDefaulted, domain.RepaymentStatusPending, start, end)
	return summary, err
}
