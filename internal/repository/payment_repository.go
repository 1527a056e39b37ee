package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `
	id, loan_id, repayment_schedule_id, amount, reference, status,
	logged_by, logged_at, reviewed_by, reviewed_at`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetEligibleInstallments(ctx context.Context, loanID int64, ids []int64) ([]*domain.RepaymentSchedule, error) {
	if len(ids) == 0 {
		return []*domain.RepaymentSchedule{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT rs.id, rs.loan_id, rs.installment_no, rs.due_date, rs.principal_portion,
			rs.interest_portion, rs.total_amount, rs.status, rs.payment_date
		FROM repayment_schedules rs
		WHERE rs.loan_id = ? AND rs.status = ? AND rs.id IN (?)
		  AND NOT EXISTS (
			SELECT 1 FROM payments p
			WHERE p.repayment_schedule_id = rs.id AND p.status <> ?
		  )
		ORDER BY rs.installment_no
	`, loanID, domain.RepaymentStatusPending, ids, domain.PaymentStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("build eligible installments query: %w", err)
	}

	rows := []*domain.RepaymentSchedule{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *paymentRepository) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	query := `
		INSERT INTO payments (loan_id, repayment_schedule_id, amount, reference, status, logged_by, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, p := range payments {
			err := tx.QueryRowxContext(ctx, query,
				p.LoanID,
				p.RepaymentScheduleID,
				p.Amount,
				p.Reference,
				p.Status,
				p.LoggedBy,
				p.LoggedAt,
			).Scan(&p.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE id = $1`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) Review(ctx context.Context, id int64, to domain.PaymentStatus, stamp ReviewStamp) (bool, error) {
	var (
		scheduleStatus domain.RepaymentStatus
		paymentDate    *time.Time
	)
	switch to {
	case domain.PaymentStatusApproved:
		scheduleStatus = domain.RepaymentStatusPaid
		at := stamp.At
		paymentDate = &at
	case domain.PaymentStatusRejected:
		scheduleStatus = domain.RepaymentStatusPending
	default:
		return false, fmt.Errorf("unsupported payment review status %q", to)
	}

	updated := false
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var scheduleID int64
		err := tx.QueryRowxContext(ctx, `
			UPDATE payments
			SET status = $2, reviewed_by = $3, reviewed_at = $4
			WHERE id = $1 AND status = $5
			RETURNING repayment_schedule_id
		`, id, to, stamp.By, stamp.At, domain.PaymentStatusPending).Scan(&scheduleID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE repayment_schedules
			SET status = $2, payment_date = $3
			WHERE id = $1
		`, scheduleID, scheduleStatus, paymentDate)
		if err != nil {
			return err
		}

		updated = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return updated, nil
}

func (r *paymentRepository) List(ctx context.Context, status *domain.PaymentStatus, limit, offset int) ([]*domain.PaymentView, int, error) {
	where := ""
	args := []any{}
	if status != nil {
		where = "WHERE p.status = $1"
		args = append(args, *status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM payments p `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.loan_id, p.repayment_schedule_id, p.amount, p.reference, p.status,
			p.logged_by, p.logged_at, p.reviewed_by, p.reviewed_at, c.full_name
		FROM payments p
		JOIN loans l ON l.id = p.loan_id
		JOIN customers c ON c.id = l.customer_id
		%s
		ORDER BY p.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	payments := []*domain.PaymentView{}
	if err := r.db.SelectContext(ctx, &payments, query, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}
