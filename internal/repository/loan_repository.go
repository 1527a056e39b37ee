package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const loanColumns = `
	l.id, l.customer_id, c.full_name AS customer_name, l.principal, l.interest_rate, l.term_type,
	l.duration_value, l.status, l.start_date, l.end_date, l.first_installment_date,
	l.total_interest, l.total_repayment, l.installment_amount,
	l.created_by, l.created_at, l.reviewed_by, l.reviewed_at`

const scheduleColumns = `
	id, loan_id, installment_no, due_date, principal_portion, interest_portion,
	total_amount, status, payment_date`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedules []*domain.RepaymentSchedule) error {
	loanQuery := `
		INSERT INTO loans (customer_id, principal, interest_rate, term_type, duration_value, status,
			start_date, end_date, first_installment_date, total_interest, total_repayment,
			installment_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	scheduleQuery := `
		INSERT INTO repayment_schedules (loan_id, installment_no, due_date, principal_portion,
			interest_portion, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, loanQuery,
			loan.CustomerID,
			loan.Principal,
			loan.InterestRate,
			loan.TermType,
			loan.DurationValue,
			loan.Status,
			loan.StartDate,
			loan.EndDate,
			loan.FirstInstallmentDate,
			loan.TotalInterest,
			loan.TotalRepayment,
			loan.InstallmentAmount,
			loan.CreatedBy,
			loan.CreatedAt,
		).Scan(&loan.ID)
		if err != nil {
			return err
		}

		for _, schedule := range schedules {
			schedule.LoanID = loan.ID
			err = tx.QueryRowxContext(ctx, scheduleQuery,
				schedule.LoanID,
				schedule.InstallmentNo,
				schedule.DueDate,
				schedule.PrincipalPortion,
				schedule.InterestPortion,
				schedule.TotalAmount,
				schedule.Status,
			).Scan(&schedule.ID)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `SELECT` + loanColumns + `
		FROM loans l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.id = $1
	`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context, status *domain.LoanStatus, limit, offset int) ([]*domain.Loan, int, error) {
	where := ""
	args := []any{}
	if status != nil {
		where = "WHERE l.status = $1"
		args = append(args, *status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM loans l `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT`+loanColumns+`
		FROM loans l
		JOIN customers c ON c.id = l.customer_id
		%s
		ORDER BY l.id
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

func (r *loanRepository) GetScheduleByLoanID(ctx context.Context, loanID int64) ([]*domain.RepaymentSchedule, error) {
	query := `SELECT` + scheduleColumns + `
		FROM repayment_schedules
		WHERE loan_id = $1
		ORDER BY installment_no
	`

	schedules := []*domain.RepaymentSchedule{}
	err := r.db.SelectContext(ctx, &schedules, query, loanID)
	if err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *loanRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.LoanStatus, stamp ReviewStamp) (bool, error) {
	query := `
		UPDATE loans
		SET status = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1 AND status = $2
	`

	res, err := r.db.ExecContext(ctx, query, id, from, to, stamp.By, stamp.At)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *loanRepository) Complete(ctx context.Context, id int64, stamp ReviewStamp) (bool, error) {
	query := `
		UPDATE loans
		SET status = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1 AND status = $2
		  AND NOT EXISTS (
			SELECT 1 FROM repayment_schedules rs
			WHERE rs.loan_id = $1 AND rs.status <> $6
		  )
	`

	res, err := r.db.ExecContext(ctx, query,
		id,
		domain.LoanStatusApproved,
		domain.LoanStatusCompleted,
		stamp.By,
		stamp.At,
		domain.RepaymentStatusPaid,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *loanRepository) CountUnpaidInstallments(ctx context.Context, loanID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM repayment_schedules WHERE loan_id = $1 AND status <> $2`,
		loanID, domain.RepaymentStatusPaid)
	return count, err
}

func (r *loanRepository) GetDueRepayments(ctx context.Context, start, end time.Time) ([]*domain.DueRepayment, error) {
	query := `
		SELECT rs.id, rs.loan_id, rs.installment_no, rs.due_date, rs.principal_portion,
			rs.interest_portion, rs.total_amount, rs.status, rs.payment_date,
			c.id AS customer_id, c.full_name AS customer_name
		FROM repayment_schedules rs
		JOIN loans l ON l.id = rs.loan_id
		JOIN customers c ON c.id = l.customer_id
		WHERE rs.status = $1 AND rs.due_date >= $2 AND rs.due_date <= $3
		ORDER BY rs.due_date, rs.id
	`

	due := []*domain.DueRepayment{}
	err := r.db.SelectContext(ctx, &due, query, domain.RepaymentStatusPending, start, end)
	if err != nil {
		return nil, err
	}

	return due, nil
}
