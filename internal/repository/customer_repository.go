package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/segyhp/microloan-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const customerColumns = `
	id, full_name, date_of_birth, gender, marital_status, residential_address, email,
	phone_number, employment_status, monthly_income, id_type, id_number, id_photo_url,
	passport_photo_url, nin, bvn, guarantor_full_name, guarantor_relationship,
	guarantor_address, guarantor_phone, guarantor_email, created_at`

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (full_name, date_of_birth, gender, marital_status, residential_address,
			email, phone_number, employment_status, monthly_income, id_type, id_number, id_photo_url,
			passport_photo_url, nin, bvn, guarantor_full_name, guarantor_relationship,
			guarantor_address, guarantor_phone, guarantor_email, created_at)
		VALUES (:full_name, :date_of_birth, :gender, :marital_status, :residential_address,
			:email, :phone_number, :employment_status, :monthly_income, :id_type, :id_number, :id_photo_url,
			:passport_photo_url, :nin, :bvn, :guarantor_full_name, :guarantor_relationship,
			:guarantor_address, :guarantor_phone, :guarantor_email, :created_at)
		RETURNING id
	`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	err = stmt.QueryRowxContext(ctx, customer).Scan(&customer.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, `SELECT`+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id)
	return exists, err
}

func (r *customerRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.GetContext(ctx, &taken,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE LOWER(email) = LOWER($1) AND id <> $2)`,
		email, excludeID)
	return taken, err
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers SET
			full_name = :full_name,
			date_of_birth = :date_of_birth,
			gender = :gender,
			marital_status = :marital_status,
			residential_address = :residential_address,
			email = :email,
			phone_number = :phone_number,
			employment_status = :employment_status,
			monthly_income = :monthly_income,
			id_type = :id_type,
			id_number = :id_number,
			id_photo_url = :id_photo_url,
			passport_photo_url = :passport_photo_url,
			nin = :nin,
			bvn = :bvn,
			guarantor_full_name = :guarantor_full_name,
			guarantor_relationship = :guarantor_relationship,
			guarantor_address = :guarantor_address,
			guarantor_phone = :guarantor_phone,
			guarantor_email = :guarantor_email
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, customer)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *customerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n == 1, err
}

// List matches search against the name (case-insensitive substring) or,
// when numeric, the exact customer ID.
func (r *customerRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Customer, int, error) {
	where := ""
	args := []any{}
	if search = strings.TrimSpace(search); search != "" {
		where = "WHERE full_name ILIKE $1"
		args = append(args, "%"+search+"%")
		if id, err := strconv.ParseInt(search, 10, 64); err == nil {
			where += " OR id = $2"
			args = append(args, id)
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM customers `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT`+customerColumns+`
		FROM customers
		%s
		ORDER BY id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	customers := []*domain.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, append(args, limit, offset)...); err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}
